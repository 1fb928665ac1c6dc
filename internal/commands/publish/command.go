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

// Package publish implements the publish command: process templates and
// publish their documentation pages to a Confluence space.
package publish

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/tempdocs/tempdocs/internal/commands/shared"
	"github.com/tempdocs/tempdocs/internal/config"
	"github.com/tempdocs/tempdocs/internal/output"
	"github.com/tempdocs/tempdocs/pkg/confluence"
	"github.com/tempdocs/tempdocs/pkg/httpclient"
	"github.com/tempdocs/tempdocs/pkg/schema"
	"github.com/tempdocs/tempdocs/pkg/template"
)

// NewCommand creates the publish command
func NewCommand() *cobra.Command {
	var (
		sourceDir     string
		schemaVersion string
		confluenceURL string
		username      string
		apiToken      string
		spaceKey      string
		parentID      string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish template documentation to Confluence",
		Long: `Publish processes the template directory and publishes one page per
template to a Confluence space, organised under an overview page with
one category page per template kind. Existing pages are updated in
place; the overview statistics are refreshed after every run.

Credentials can be supplied via CONFLUENCE_URL, CONFLUENCE_USERNAME,
CONFLUENCE_API_TOKEN and CONFLUENCE_SPACE_KEY. Flags take precedence
over the environment.`,
		Example: `  # Example 1: Publish using environment credentials
  tempdocs publish

  # Example 2: Explicit target space
  tempdocs publish --confluence-url https://example.atlassian.net/wiki --space DOCS

  # Example 3: Publish under an existing parent page
  tempdocs publish --space DOCS --parent-id 123456`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, sourceDir, schemaVersion, confluenceURL, username, apiToken, spaceKey, parentID)
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Directory scanned for template files")
	cmd.Flags().StringVar(&schemaVersion, "schema-version", "", "Schema version to validate against")
	cmd.Flags().StringVar(&confluenceURL, "confluence-url", "", "Confluence instance root URL")
	cmd.Flags().StringVar(&username, "username", "", "Confluence username")
	cmd.Flags().StringVar(&apiToken, "token", "", "Confluence API token")
	cmd.Flags().StringVar(&spaceKey, "space", "", "Confluence space key")
	cmd.Flags().StringVar(&parentID, "parent-id", "", "Parent page ID for the documentation tree")

	return cmd
}

func runPublish(cmd *cobra.Command, sourceDir, schemaVersion, confluenceURL, username, apiToken, spaceKey, parentID string) error {
	cfg := config.FromEnv()
	if sourceDir != "" {
		cfg.SourceDir = sourceDir
	}
	if schemaVersion != "" {
		cfg.SchemaVersion = schemaVersion
	}
	if confluenceURL != "" {
		cfg.Confluence.BaseURL = confluenceURL
	}
	if username != "" {
		cfg.Confluence.Username = username
	}
	if apiToken != "" {
		cfg.Confluence.APIToken = apiToken
	}
	if spaceKey != "" {
		cfg.Confluence.SpaceKey = spaceKey
	}
	if err := cfg.Confluence.Validate(); err != nil {
		return shared.NewConfigError("incomplete Confluence settings", err)
	}

	logger := shared.Logger()

	client, err := httpclient.New(httpclient.DefaultConfig())
	if err != nil {
		return shared.NewConfigError("building HTTP client", err)
	}

	processor := buildProcessor(cfg, client, logger)
	summary, err := processor.ProcessAll(cmd.Context(), cfg.SourceDir)
	if err != nil {
		return shared.NewProcessingError("processing templates", err)
	}

	confClient, err := confluence.NewClient(confluence.Config{
		BaseURL:    cfg.Confluence.BaseURL,
		Username:   cfg.Confluence.Username,
		APIToken:   cfg.Confluence.APIToken,
		HTTPClient: client,
		Logger:     logger,
	})
	if err != nil {
		return shared.NewConfigError("configuring Confluence client", err)
	}

	publisher := confluence.NewPublisher(confClient, cfg.Confluence.SpaceKey, parentID, logger)
	if err := publisher.PublishAll(cmd.Context(), summary.Templates); err != nil {
		return shared.NewPublishError("publishing documentation", err)
	}

	if shared.GetJSON() {
		if err := emitPublishSummary(cfg, summary); err != nil {
			return err
		}
	} else if !shared.GetQuiet() {
		cmd.Printf("Published %d templates to space %s\n", len(summary.Templates), cfg.Confluence.SpaceKey)
	}

	if summary.Failed > 0 {
		return shared.NewInvalidTemplateError(
			fmt.Sprintf("%d of %d templates failed validation", summary.Failed, summary.Failed+summary.Processed), nil)
	}
	return nil
}

func buildProcessor(cfg *config.Config, client *http.Client, logger *slog.Logger) *template.Processor {
	provider := schema.NewProvider(schema.Config{
		BaseURL:    cfg.SchemaBaseURL,
		Version:    cfg.SchemaVersion,
		HTTPClient: client,
		Logger:     logger,
	})
	validator := template.NewValidator(provider, logger)
	extractor := template.NewExtractor(provider, logger)
	return template.NewProcessor(validator, extractor, logger)
}

func emitPublishSummary(cfg *config.Config, summary *template.Summary) error {
	type response struct {
		output.JSONResponse
		Space     string `json:"space"`
		Published int    `json:"published"`
		Failed    int    `json:"failed"`
	}

	return output.EmitJSON(response{
		JSONResponse: output.JSONResponse{
			Version: "1.0",
			Command: "publish",
			Success: summary.Failed == 0,
		},
		Space:     cfg.Confluence.SpaceKey,
		Published: len(summary.Templates),
		Failed:    summary.Failed,
	})
}
