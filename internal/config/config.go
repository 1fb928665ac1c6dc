// Copyright 2025 The tempdocs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config resolves runtime settings from environment variables and
// command-line flags. Flags win over environment, environment wins over
// defaults.
package config

import (
	"os"
	"strconv"

	"github.com/tempdocs/tempdocs/internal/render"
	"github.com/tempdocs/tempdocs/pkg/errors"
	"github.com/tempdocs/tempdocs/pkg/schema"
)

// Environment variable names.
const (
	EnvSourceDir     = "TEMPDOCS_SOURCE_DIR"
	EnvOutputDir     = "TEMPDOCS_OUTPUT_DIR"
	EnvSchemaBaseURL = "TEMPDOCS_SCHEMA_BASE_URL"
	EnvSchemaVersion = "TEMPDOCS_SCHEMA_VERSION"
	EnvFormat        = "TEMPDOCS_FORMAT"
	EnvValidateOnly  = "TEMPDOCS_VALIDATE_ONLY"

	EnvConfluenceURL   = "CONFLUENCE_URL"
	EnvConfluenceUser  = "CONFLUENCE_USERNAME"
	EnvConfluenceToken = "CONFLUENCE_API_TOKEN"
	EnvConfluenceSpace = "CONFLUENCE_SPACE_KEY"
)

// Config holds the resolved runtime settings.
type Config struct {
	// SourceDir is the directory scanned for template files.
	SourceDir string

	// OutputDir receives the generated documentation.
	OutputDir string

	// SchemaBaseURL is the schema registry root.
	SchemaBaseURL string

	// SchemaVersion selects the schema version to fetch.
	SchemaVersion string

	// Format selects the output format (html, markdown or json).
	Format string

	// ValidateOnly skips generation and only reports validation results.
	ValidateOnly bool

	// Confluence holds publish settings; only required by the publish command.
	Confluence ConfluenceConfig
}

// ConfluenceConfig holds the publish target settings.
type ConfluenceConfig struct {
	BaseURL  string
	Username string
	APIToken string
	SpaceKey string
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		SourceDir:     "templates",
		OutputDir:     "docs",
		SchemaBaseURL: schema.DefaultBaseURL,
		SchemaVersion: schema.DefaultVersion,
		Format:        render.FormatHTML,
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() *Config {
	cfg := Default()

	if v := os.Getenv(EnvSourceDir); v != "" {
		cfg.SourceDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvSchemaBaseURL); v != "" {
		cfg.SchemaBaseURL = v
	}
	if v := os.Getenv(EnvSchemaVersion); v != "" {
		cfg.SchemaVersion = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv(EnvValidateOnly); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ValidateOnly = b
		}
	}

	cfg.Confluence = ConfluenceConfig{
		BaseURL:  os.Getenv(EnvConfluenceURL),
		Username: os.Getenv(EnvConfluenceUser),
		APIToken: os.Getenv(EnvConfluenceToken),
		SpaceKey: os.Getenv(EnvConfluenceSpace),
	}

	return cfg
}

// Validate checks the settings required by every command.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return &errors.ConfigError{Key: "source_dir", Reason: "must not be empty"}
	}
	if c.OutputDir == "" {
		return &errors.ConfigError{Key: "output_dir", Reason: "must not be empty"}
	}
	if c.SchemaBaseURL == "" {
		return &errors.ConfigError{Key: "schema_base_url", Reason: "must not be empty"}
	}
	if c.SchemaVersion == "" {
		return &errors.ConfigError{Key: "schema_version", Reason: "must not be empty"}
	}
	switch c.Format {
	case render.FormatHTML, render.FormatMarkdown, render.FormatJSON:
	default:
		return &errors.ConfigError{Key: "format", Reason: "must be one of html, markdown, json"}
	}
	return nil
}

// Validate checks the settings required by the publish command.
func (c *ConfluenceConfig) Validate() error {
	if c.BaseURL == "" {
		return &errors.ConfigError{Key: "confluence.url", Reason: "must not be empty"}
	}
	if c.Username == "" {
		return &errors.ConfigError{Key: "confluence.username", Reason: "must not be empty"}
	}
	if c.APIToken == "" {
		return &errors.ConfigError{Key: "confluence.api_token", Reason: "must not be empty"}
	}
	if c.SpaceKey == "" {
		return &errors.ConfigError{Key: "confluence.space_key", Reason: "must not be empty"}
	}
	return nil
}
