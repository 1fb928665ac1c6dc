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

// Package schema fetches and caches the JSON schemas that drive template
// validation and extraction.
//
// Schemas live in a remote repository laid out as
// {base-url}/{version}/{file}.json. Fetching is strictly best-effort: any
// network failure, non-200 response or parse error degrades to the empty
// schema for that (kind, version) pair and is never surfaced as an error.
// Extraction then proceeds in schema-less mode.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tempdocs/tempdocs/internal/metrics"
	"github.com/tempdocs/tempdocs/pkg/errors"
)

// DefaultBaseURL points at the upstream Harness schema repository.
const DefaultBaseURL = "https://raw.githubusercontent.com/harness/harness-schema/main"

// DefaultVersion is the schema version used when a document does not imply
// another one.
const DefaultVersion = "v1"

// schemaFiles maps a template kind to its schema file. Stages, steps and
// step groups are all defined in template.json.
var schemaFiles = map[string]string{
	"pipeline":  "pipeline.json",
	"stage":     "template.json",
	"step":      "template.json",
	"stepgroup": "template.json",
	"trigger":   "trigger.json",
}

// Config configures a Provider.
type Config struct {
	// BaseURL is the schema repository root. Default: DefaultBaseURL.
	BaseURL string

	// Version is the default schema version. Default: DefaultVersion.
	Version string

	// HTTPClient performs the fetches. Default: http.DefaultClient. Callers
	// should supply a client with an explicit timeout; none is imposed here.
	HTTPClient *http.Client

	// Cache stores fetched documents. Default: a fresh cache.
	Cache *Cache

	// Logger receives fetch diagnostics. Default: slog.Default.
	Logger *slog.Logger
}

// Provider fetches schema documents and caches them per (kind, version).
// Get never returns an error: all failure is absorbed into the empty-schema
// fallback, which is itself cached so a run degrades at most once per pair.
type Provider struct {
	baseURL string
	version string
	client  *http.Client
	cache   *Cache
	logger  *slog.Logger
}

// NewProvider creates a schema provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Cache == nil {
		cfg.Cache = NewCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Provider{
		baseURL: cfg.BaseURL,
		version: cfg.Version,
		client:  cfg.HTTPClient,
		cache:   cfg.Cache,
		logger:  cfg.Logger,
	}
}

// Get returns the schema for a kind at the provider's default version.
func (p *Provider) Get(ctx context.Context, kind string) *Document {
	return p.GetVersion(ctx, kind, p.version)
}

// GetVersion returns the schema for a (kind, version) pair, fetching it on
// first use. Unknown kinds fall back to the pipeline schema file.
func (p *Provider) GetVersion(ctx context.Context, kind, version string) *Document {
	if doc, ok := p.cache.Get(kind, version); ok {
		return doc
	}

	doc, err := p.fetch(ctx, kind, version)
	if err != nil {
		p.logger.Warn("schema fetch failed, using empty schema",
			"kind", kind,
			"version", version,
			"error", err)
		metrics.SchemaFetchFailures.Inc()
		doc = Empty()
	}

	p.cache.Put(kind, version, doc)
	return doc
}

func (p *Provider) fetch(ctx context.Context, kind, version string) (*Document, error) {
	file, ok := schemaFiles[kind]
	if !ok {
		file = schemaFiles["pipeline"]
	}

	url := fmt.Sprintf("%s/%s/%s", p.baseURL, version, file)
	p.logger.Debug("fetching schema", "kind", kind, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.SchemaFetchError{Kind: kind, Version: version, URL: url, Cause: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &errors.SchemaFetchError{Kind: kind, Version: version, URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.SchemaFetchError{Kind: kind, Version: version, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.SchemaFetchError{Kind: kind, Version: version, URL: url, Cause: err}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &errors.SchemaFetchError{Kind: kind, Version: version, URL: url, Cause: err}
	}

	p.logger.Debug("fetched schema", "kind", kind, "version", version, "file", file)
	return NewDocument(raw), nil
}
