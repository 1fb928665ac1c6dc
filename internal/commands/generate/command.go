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

// Package generate implements the generate command: process a template
// directory and render the HTML documentation site.
package generate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tempdocs/tempdocs/internal/commands/shared"
	"github.com/tempdocs/tempdocs/internal/config"
	"github.com/tempdocs/tempdocs/internal/output"
	"github.com/tempdocs/tempdocs/internal/render"
	"github.com/tempdocs/tempdocs/pkg/httpclient"
	"github.com/tempdocs/tempdocs/pkg/schema"
	"github.com/tempdocs/tempdocs/pkg/template"
)

// NewCommand creates the generate command
func NewCommand() *cobra.Command {
	var (
		sourceDir     string
		outputDir     string
		schemaBaseURL string
		schemaVersion string
		format        string
		validateOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Process templates and generate HTML documentation",
		Long: `Generate scans a directory for Harness template YAML files, validates
each one against its versioned JSON Schema, extracts metadata and renders
a browsable HTML documentation site into the output directory.

Templates that fail validation are skipped and counted; the command exits
nonzero when any template is rejected. When the schema registry is
unreachable, validation degrades to basic structural checks and
generation continues.

Settings can also be supplied via TEMPDOCS_SOURCE_DIR, TEMPDOCS_OUTPUT_DIR,
TEMPDOCS_SCHEMA_BASE_URL, TEMPDOCS_SCHEMA_VERSION and TEMPDOCS_FORMAT.
Flags take precedence over the environment.`,
		Example: `  # Example 1: Generate docs from the default directories
  tempdocs generate

  # Example 2: Explicit source and output
  tempdocs generate --source ./templates --output ./site

  # Example 3: Pin a schema version
  tempdocs generate --schema-version v1

  # Example 4: Validate without writing any output
  tempdocs generate --validate-only`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, sourceDir, outputDir, schemaBaseURL, schemaVersion, format, validateOnly)
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Directory scanned for template files")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory receiving the generated site")
	cmd.Flags().StringVar(&schemaBaseURL, "schema-base-url", "", "Schema registry root URL")
	cmd.Flags().StringVar(&schemaVersion, "schema-version", "", "Schema version to validate against")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: html, markdown or json")
	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "Validate templates without generating output")

	return cmd
}

func runGenerate(cmd *cobra.Command, sourceDir, outputDir, schemaBaseURL, schemaVersion, format string, validateOnly bool) error {
	cfg := config.FromEnv()
	if sourceDir != "" {
		cfg.SourceDir = sourceDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if schemaBaseURL != "" {
		cfg.SchemaBaseURL = schemaBaseURL
	}
	if schemaVersion != "" {
		cfg.SchemaVersion = schemaVersion
	}
	if format != "" {
		cfg.Format = format
	}
	if validateOnly {
		cfg.ValidateOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return shared.NewConfigError("invalid configuration", err)
	}

	logger := shared.Logger()

	processor, err := buildProcessor(cfg, logger)
	if err != nil {
		return shared.NewConfigError("building HTTP client", err)
	}

	summary, err := processor.ProcessAll(cmd.Context(), cfg.SourceDir)
	if err != nil {
		return shared.NewProcessingError("processing templates", err)
	}

	if !cfg.ValidateOnly {
		generator := render.NewGenerator(cfg.OutputDir, logger)
		if err := generator.Generate(summary.Templates, cfg.Format); err != nil {
			return shared.NewProcessingError("generating documentation", err)
		}
	}

	if shared.GetJSON() {
		if err := emitSummary(cfg, summary); err != nil {
			return err
		}
	} else if !shared.GetQuiet() {
		cmd.Printf("Processed %d templates (%d failed) in %s\n",
			summary.Processed, summary.Failed, summary.Duration.Round(time.Millisecond))
		if !cfg.ValidateOnly {
			cmd.Printf("Documentation written to %s\n", cfg.OutputDir)
		}
	}

	if summary.Failed > 0 {
		return shared.NewInvalidTemplateError(
			fmt.Sprintf("%d of %d templates failed validation", summary.Failed, summary.Failed+summary.Processed), nil)
	}
	return nil
}

// buildProcessor wires the schema provider, validator and extractor behind
// a single processor.
func buildProcessor(cfg *config.Config, logger *slog.Logger) (*template.Processor, error) {
	client, err := httpclient.New(httpclient.DefaultConfig())
	if err != nil {
		return nil, err
	}

	provider := schema.NewProvider(schema.Config{
		BaseURL:    cfg.SchemaBaseURL,
		Version:    cfg.SchemaVersion,
		HTTPClient: client,
		Logger:     logger,
	})

	validator := template.NewValidator(provider, logger)
	extractor := template.NewExtractor(provider, logger)
	return template.NewProcessor(validator, extractor, logger), nil
}

type templateSummary struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

func emitSummary(cfg *config.Config, summary *template.Summary) error {
	type response struct {
		output.JSONResponse
		Source     string            `json:"source"`
		Output     string            `json:"output,omitempty"`
		Processed  int               `json:"processed"`
		Failed     int               `json:"failed"`
		DurationMs int64             `json:"duration_ms"`
		Templates  []templateSummary `json:"templates"`
	}

	resp := response{
		JSONResponse: output.JSONResponse{
			Version: "1.0",
			Command: "generate",
			Success: summary.Failed == 0,
		},
		Source:     cfg.SourceDir,
		Processed:  summary.Processed,
		Failed:     summary.Failed,
		DurationMs: summary.Duration.Milliseconds(),
		Templates:  make([]templateSummary, 0, len(summary.Templates)),
	}
	if !cfg.ValidateOnly {
		resp.Output = cfg.OutputDir
	}
	for _, meta := range summary.Templates {
		resp.Templates = append(resp.Templates, templateSummary{
			Name:    meta.Name,
			Type:    meta.Type,
			Version: meta.Version,
		})
	}

	return output.EmitJSON(resp)
}
