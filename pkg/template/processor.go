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

package template

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/tempdocs/tempdocs/internal/metrics"
	"github.com/tempdocs/tempdocs/pkg/errors"
)

// Processor runs the validate-then-extract pipeline over template files.
// Files are processed one at a time in path order so repeated runs over
// the same tree produce identical results.
type Processor struct {
	validator *Validator
	extractor *Extractor
	logger    *slog.Logger
}

// NewProcessor wires a processor from its two stages.
func NewProcessor(validator *Validator, extractor *Extractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		validator: validator,
		extractor: extractor,
		logger:    logger,
	}
}

// Summary reports the outcome of a batch run.
type Summary struct {
	// Templates holds the extracted records in processing order.
	Templates []*Metadata

	// Processed counts files that produced a record.
	Processed int

	// Failed counts files that were rejected or unreadable.
	Failed int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// ProcessFile reads, validates and extracts a single template file. A
// rejected document returns a ValidationError carrying the rejection
// reason; read and parse failures return their wrapped cause.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading template %s", path)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing template %s", path)
	}
	if doc == nil {
		return nil, &errors.ValidationError{Path: path, Reason: "empty document"}
	}

	result := p.validator.Validate(ctx, doc)
	p.logger.Debug("validated template",
		"path", path,
		"kind", result.Kind,
		"outcome", result.Outcome.String(),
		"reason", result.Reason)

	if !result.OK() {
		return nil, &errors.ValidationError{Path: path, Reason: result.Reason}
	}

	return p.extractor.Extract(ctx, doc), nil
}

// ProcessAll discovers template files under root and processes each in
// turn. Per-file failures are logged and counted, never fatal to the
// batch. An empty directory yields an empty summary with a warning.
func (p *Processor) ProcessAll(ctx context.Context, root string) (*Summary, error) {
	start := time.Now()

	paths, err := DiscoverTemplates(root)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Templates: []*Metadata{}}
	if len(paths) == 0 {
		p.logger.Warn("no template files found", "root", root)
		summary.Duration = time.Since(start)
		return summary, nil
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		meta, err := p.ProcessFile(ctx, path)
		if err != nil {
			p.logger.Error("skipping template", "path", path, "error", err)
			summary.Failed++
			metrics.TemplatesFailed.Inc()
			continue
		}

		summary.Templates = append(summary.Templates, meta)
		summary.Processed++
		metrics.TemplatesProcessed.Inc()
	}

	summary.Duration = time.Since(start)
	p.logger.Info("processed templates",
		"root", root,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"duration", summary.Duration)

	return summary, nil
}

// DiscoverTemplates returns the YAML files under root in sorted order. A
// root that is itself a YAML file is returned as a single-element list.
func DiscoverTemplates(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading source %s", root)
	}

	if !info.IsDir() {
		ext := filepath.Ext(root)
		if ext != ".yaml" && ext != ".yml" {
			return nil, &errors.ValidationError{Path: root, Reason: "not a YAML file"}
		}
		return []string{root}, nil
	}

	fsys := os.DirFS(root)
	var paths []string
	for _, pattern := range []string{"**/*.yaml", "**/*.yml"} {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", root)
		}
		for _, m := range matches {
			paths = append(paths, filepath.Join(root, m))
		}
	}

	sort.Strings(paths)
	return paths, nil
}
