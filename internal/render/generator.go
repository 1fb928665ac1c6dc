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

// Package render turns extracted template metadata into a static HTML site:
// one page per template grouped by kind, an index page with search and
// filtering, a shared stylesheet and a machine-readable metadata.json.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tempdocs/tempdocs/pkg/errors"
	tmpl "github.com/tempdocs/tempdocs/pkg/template"
)

//go:embed assets
var assets embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
	"firstN": func(items []string, n int) []string {
		if len(items) <= n {
			return items
		}
		return items[:n]
	},
	"pagefile": PageFilename,
}

var (
	pageTemplate  = template.Must(template.New("template.html.tmpl").Funcs(funcs).ParseFS(assets, "assets/template.html.tmpl"))
	indexTemplate = template.Must(template.New("index.html.tmpl").Funcs(funcs).ParseFS(assets, "assets/index.html.tmpl"))
)

// Supported output formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// PageFilename derives the HTML filename for a template name. Spaces become
// underscores so page links survive strict URL handling.
func PageFilename(name string) string {
	return strings.ReplaceAll(name, " ", "_") + ".html"
}

// Generator writes the documentation site for a set of templates.
type Generator struct {
	outputDir string
	logger    *slog.Logger
}

// NewGenerator creates a generator rooted at outputDir.
func NewGenerator(outputDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{outputDir: outputDir, logger: logger}
}

// Generate writes the site in the requested format. The HTML format is the
// full site, json writes only metadata.json, and markdown is not implemented.
func (g *Generator) Generate(metas []*tmpl.Metadata, format string) error {
	switch format {
	case FormatHTML, "":
		return g.GenerateAll(metas)
	case FormatJSON:
		if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
		return g.WriteJSON(metas)
	case FormatMarkdown:
		return fmt.Errorf("markdown output is not implemented")
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// GenerateAll writes the per-template pages, the index, the stylesheet and
// metadata.json. Pages are grouped into per-kind subdirectories.
func (g *Generator) GenerateAll(metas []*tmpl.Metadata) error {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	for _, meta := range metas {
		path, err := g.WritePage(meta)
		if err != nil {
			return err
		}
		g.logger.Info("generated documentation page", "template", meta.Name, "path", path)
	}

	if err := g.WriteIndex(metas); err != nil {
		return err
	}
	if err := g.WriteCSS(); err != nil {
		return err
	}
	return g.WriteJSON(metas)
}

// WritePage renders one template's page under outputDir/<kind>/ and returns
// the written path.
func (g *Generator) WritePage(meta *tmpl.Metadata) (string, error) {
	kindDir := filepath.Join(g.outputDir, meta.Type)
	if err := os.MkdirAll(kindDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating directory for %s templates", meta.Type)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, meta); err != nil {
		return "", errors.Wrapf(err, "rendering page for %s", meta.Name)
	}

	path := filepath.Join(kindDir, PageFilename(meta.Name))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing page for %s", meta.Name)
	}
	return path, nil
}

// WriteIndex renders the index page listing every template.
func (g *Generator) WriteIndex(metas []*tmpl.Metadata) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, metas); err != nil {
		return errors.Wrap(err, "rendering index")
	}
	return errors.Wrap(
		os.WriteFile(filepath.Join(g.outputDir, "index.html"), buf.Bytes(), 0o644),
		"writing index")
}

// WriteCSS copies the embedded stylesheet into the output directory. An
// existing stylesheet is left alone so local edits survive regeneration.
func (g *Generator) WriteCSS() error {
	path := filepath.Join(g.outputDir, "styles.css")
	if _, err := os.Stat(path); err == nil {
		g.logger.Debug("stylesheet already exists, skipping", "path", path)
		return nil
	}

	css, err := assets.ReadFile("assets/styles.css")
	if err != nil {
		return errors.Wrap(err, "reading embedded stylesheet")
	}
	return errors.Wrap(os.WriteFile(path, css, 0o644), "writing stylesheet")
}

// WriteJSON writes the full metadata set as metadata.json for downstream
// tooling.
func (g *Generator) WriteJSON(metas []*tmpl.Metadata) error {
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding metadata")
	}
	data = append(data, '\n')
	return errors.Wrap(
		os.WriteFile(filepath.Join(g.outputDir, "metadata.json"), data, 0o644),
		"writing metadata.json")
}
