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

// Package validate implements the validate command: check template files
// against their schemas without generating any output.
package validate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tempdocs/tempdocs/internal/commands/shared"
	"github.com/tempdocs/tempdocs/internal/config"
	"github.com/tempdocs/tempdocs/internal/output"
	"github.com/tempdocs/tempdocs/pkg/httpclient"
	"github.com/tempdocs/tempdocs/pkg/schema"
	"github.com/tempdocs/tempdocs/pkg/template"
	"gopkg.in/yaml.v3"
)

// NewCommand creates the validate command
func NewCommand() *cobra.Command {
	var (
		schemaBaseURL string
		schemaVersion string
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate template files against their schemas",
		Long: `Validate checks each template file for YAML syntax, required fields and
conformance to its versioned JSON Schema. No documentation is generated.

The path may be a single file or a directory to scan recursively. It
defaults to the configured source directory. Each file's result is
reported with one of three outcomes: schema (full schema validation),
basic (structural checks after schema degradation) or rejected.

The command exits with code 2 when any template is rejected.`,
		Example: `  # Example 1: Validate the default template directory
  tempdocs validate

  # Example 2: Validate a single file
  tempdocs validate templates/build-stage.yaml

  # Example 3: Machine-readable results
  tempdocs validate --json | jq '.results[] | select(.outcome == "rejected")'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, schemaBaseURL, schemaVersion)
		},
	}

	cmd.Flags().StringVar(&schemaBaseURL, "schema-base-url", "", "Schema registry root URL")
	cmd.Flags().StringVar(&schemaVersion, "schema-version", "", "Schema version to validate against")

	return cmd
}

type fileResult struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Kind    string `json:"kind,omitempty"`
	Reason  string `json:"reason"`
}

func runValidate(cmd *cobra.Command, args []string, schemaBaseURL, schemaVersion string) error {
	cfg := config.FromEnv()
	if schemaBaseURL != "" {
		cfg.SchemaBaseURL = schemaBaseURL
	}
	if schemaVersion != "" {
		cfg.SchemaVersion = schemaVersion
	}

	root := cfg.SourceDir
	if len(args) == 1 {
		root = args[0]
	}

	paths, err := template.DiscoverTemplates(root)
	if err != nil {
		return shared.NewProcessingError("discovering templates", err)
	}

	logger := shared.Logger()

	client, err := httpclient.New(httpclient.DefaultConfig())
	if err != nil {
		return shared.NewConfigError("building HTTP client", err)
	}
	provider := schema.NewProvider(schema.Config{
		BaseURL:    cfg.SchemaBaseURL,
		Version:    cfg.SchemaVersion,
		HTTPClient: client,
		Logger:     logger,
	})
	validator := template.NewValidator(provider, logger)

	results := make([]fileResult, 0, len(paths))
	rejected := 0
	for _, path := range paths {
		res := validateFile(cmd, validator, path)
		if res.Outcome == "rejected" {
			rejected++
		}
		results = append(results, res)
	}

	if shared.GetJSON() {
		if err := emitResults(results, rejected); err != nil {
			return err
		}
	} else if !shared.GetQuiet() {
		for _, res := range results {
			if res.Outcome == "rejected" {
				cmd.Printf("FAIL %s: %s\n", res.Path, res.Reason)
			} else {
				cmd.Printf("OK   %s (%s)\n", res.Path, res.Outcome)
			}
		}
		cmd.Printf("%d templates checked, %d rejected\n", len(results), rejected)
	}

	if rejected > 0 {
		return shared.NewInvalidTemplateError(
			fmt.Sprintf("%d of %d templates failed validation", rejected, len(results)), nil)
	}
	return nil
}

func validateFile(cmd *cobra.Command, validator *template.Validator, path string) fileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{Path: path, Outcome: "rejected", Reason: fmt.Sprintf("reading file: %v", err)}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fileResult{Path: path, Outcome: "rejected", Reason: fmt.Sprintf("parsing YAML: %v", err)}
	}
	if doc == nil {
		return fileResult{Path: path, Outcome: "rejected", Reason: "empty document"}
	}

	res := validator.Validate(cmd.Context(), doc)
	return fileResult{
		Path:    path,
		Outcome: res.Outcome.String(),
		Kind:    res.Kind,
		Reason:  res.Reason,
	}
}

func emitResults(results []fileResult, rejected int) error {
	type response struct {
		output.JSONResponse
		Checked  int          `json:"checked"`
		Rejected int          `json:"rejected"`
		Results  []fileResult `json:"results"`
	}

	return output.EmitJSON(response{
		JSONResponse: output.JSONResponse{
			Version: "1.0",
			Command: "validate",
			Success: rejected == 0,
		},
		Checked:  len(results),
		Rejected: rejected,
		Results:  results,
	})
}
