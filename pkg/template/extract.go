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
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/tempdocs/tempdocs/pkg/schema"
)

// ExtractionFailedDescription is the placeholder description carried by the
// minimal record produced when extraction fails mid-document. Downstream
// rendering always receives a usable record, never a nil.
const ExtractionFailedDescription = "Error extracting metadata"

// Extractor populates Metadata records from parsed documents, driven by the
// fetched schema's declared properties.
type Extractor struct {
	schemas *schema.Provider
	logger  *slog.Logger
}

// NewExtractor creates an extractor backed by the given schema provider.
func NewExtractor(schemas *schema.Provider, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{schemas: schemas, logger: logger}
}

// Extract resolves the document's kind, fetches the schema for it, and
// delegates to ExtractWithSchema.
func (e *Extractor) Extract(ctx context.Context, doc map[string]any) *Metadata {
	return e.ExtractWithSchema(ctx, doc, nil)
}

// ExtractWithSchema assembles the metadata record for one document. It
// never fails: when the document structure defeats extraction entirely, the
// result is a minimal record carrying a best-effort name, an unknown type
// and an error placeholder description.
//
// When sch is nil the schema is fetched via the provider for the document's
// resolved kind.
func (e *Extractor) ExtractWithSchema(ctx context.Context, doc map[string]any, sch *schema.Document) (meta *Metadata) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("error extracting metadata", "panic", r)
			meta = minimalMetadata(doc)
		}
	}()

	shape, inner, kind := Normalize(doc, e.logger)
	if sch == nil {
		sch = e.schemas.Get(ctx, kind)
	}

	meta = newMetadata(shape)
	meta.Type = kind

	if err := sch.Validate(inner); err == nil {
		e.extractSchemaDriven(inner, sch, meta, shape, kind)
	} else {
		e.logger.Warn("schema validation failed during extraction, reading basic fields",
			"kind", kind,
			"error", err)
		extractBasic(inner, meta, shape)
	}

	if shape == ShapeLegacy {
		collectLegacyNested(inner, meta)
	}

	meta.Examples = append(meta.Examples, commentExamples(inner)...)
	meta.Steps = extractSteps(inner)

	return meta
}

// extractSchemaDriven walks the schema's declared properties, not the
// document's own keys: the schema is the source of truth for which fields
// are meaningful. Declared properties absent from the document are skipped.
func (e *Extractor) extractSchemaDriven(inner map[string]any, sch *schema.Document, meta *Metadata, shape Shape, kind string) {
	scope := defaultScope(shape, kind)

	for _, prop := range sch.Properties() {
		value, present := inner[prop]
		if !present {
			continue
		}

		switch prop {
		case "name":
			if s, ok := value.(string); ok {
				meta.Name = s
			}
		case "identifier":
			if s, ok := value.(string); ok {
				meta.Identifier = s
			}
		case "description":
			if s, ok := value.(string); ok {
				meta.Description = s
			}
		case "author":
			if s, ok := value.(string); ok {
				meta.Author = s
			}
		case "type":
			if s, ok := value.(string); ok {
				meta.Type = strings.ToLower(s)
			}
		case "version", "versionLabel":
			meta.Version = coerceVersion(value)
		case "tags":
			meta.Tags = extractTags(value, shape)
		case "variables":
			if m, ok := value.(map[string]any); ok {
				collectVariables(m, scope, meta.Variables)
			}
		case "parameters":
			if m, ok := value.(map[string]any); ok {
				collectParameters(m, scope, meta.Parameters)
			}
		case "examples":
			meta.Examples = extractExamples(value)
		case "spec":
			if specObj, ok := value.(map[string]any); ok {
				res := e.extractSpec(specObj, sch.Property("spec"))
				for name, v := range res.variables {
					meta.Variables[name] = v
				}
				for name, p := range res.parameters {
					meta.Parameters[name] = p
				}
			}
		}
	}
}

// extractBasic reads the fixed positional field set without schema
// guidance. Variables and parameters stay empty on this path for wrapped
// documents; legacy documents recover theirs via collectLegacyNested.
func extractBasic(inner map[string]any, meta *Metadata, shape Shape) {
	if s, ok := inner["name"].(string); ok {
		meta.Name = s
	}
	if s, ok := inner["identifier"].(string); ok {
		meta.Identifier = s
	}
	if s, ok := inner["type"].(string); ok {
		meta.Type = strings.ToLower(s)
	}
	if s, ok := inner["description"].(string); ok {
		meta.Description = s
	}
	if v, ok := inner["versionLabel"]; ok {
		meta.Version = coerceVersion(v)
	} else if v, ok := inner["version"]; ok {
		meta.Version = coerceVersion(v)
	}
	if tags, ok := inner["tags"]; ok {
		meta.Tags = extractTags(tags, shape)
	}
}

// collectLegacyNested gathers the variable and parameter mappings that
// legacy documents nest under their structural keys: pipeline.variables
// with pipeline scope, stage.variables with stage scope, and top-level
// mappings with stepgroup scope when a steps key is present.
func collectLegacyNested(doc map[string]any, meta *Metadata) {
	if p, ok := doc["pipeline"].(map[string]any); ok {
		if m, ok := p["variables"].(map[string]any); ok {
			collectVariables(m, KindPipeline, meta.Variables)
		}
		if m, ok := p["parameters"].(map[string]any); ok {
			collectParameters(m, KindPipeline, meta.Parameters)
		}
	}
	if s, ok := doc["stage"].(map[string]any); ok {
		if m, ok := s["variables"].(map[string]any); ok {
			collectVariables(m, KindStage, meta.Variables)
		}
		if m, ok := s["parameters"].(map[string]any); ok {
			collectParameters(m, KindStage, meta.Parameters)
		}
	}
	if _, ok := doc["steps"]; ok {
		if m, ok := doc["variables"].(map[string]any); ok {
			collectVariables(m, KindStepGroup, meta.Variables)
		}
		if m, ok := doc["parameters"].(map[string]any); ok {
			collectParameters(m, KindStepGroup, meta.Parameters)
		}
	}
}

// collectVariables folds a name→definition mapping into out. Names are
// visited in sorted order so repeated extraction of the same document is
// byte-identical; last write wins on a name collision.
func collectVariables(m map[string]any, scope string, out map[string]Variable) {
	for _, name := range sortedKeys(m) {
		varMap, ok := m[name].(map[string]any)
		if !ok {
			continue
		}
		out[name] = Variable{
			Description: getString(varMap, "description", ""),
			Type:        getString(varMap, "type", "string"),
			Required:    getBool(varMap, "required", false),
			Scope:       getString(varMap, "scope", scope),
		}
	}
}

// collectParameters mirrors collectVariables with a default value.
func collectParameters(m map[string]any, scope string, out map[string]Parameter) {
	for _, name := range sortedKeys(m) {
		paramMap, ok := m[name].(map[string]any)
		if !ok {
			continue
		}
		out[name] = Parameter{
			Description: getString(paramMap, "description", ""),
			Type:        getString(paramMap, "type", "string"),
			Required:    getBool(paramMap, "required", false),
			Default:     ScalarOf(paramMap["default"]),
			Scope:       getString(paramMap, "scope", scope),
		}
	}
}

// extractTags accepts an existing sequence, and for wrapped documents
// flattens a mapping into alternating key/value entries. The flattening
// conflates keys and values in one list; kept for compatibility with the
// published documentation format. Keys are sorted for determinism. Any
// other value defaults to no tags.
func extractTags(v any, shape Shape) []string {
	switch tags := v.(type) {
	case []any:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		if shape != ShapeWrapped {
			return []string{}
		}
		out := make([]string, 0, 2*len(tags))
		for _, key := range sortedKeys(tags) {
			out = append(out, key)
			if s := cast.ToString(tags[key]); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// extractExamples accepts a sequence of snippets or a single snippet.
func extractExamples(v any) []string {
	switch examples := v.(type) {
	case []any:
		out := make([]string, 0, len(examples))
		for _, ex := range examples {
			if s, ok := ex.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{examples}
	default:
		return []string{}
	}
}

// commentExamples picks out comment entries mentioning an example so ad hoc
// usage notes surface alongside the declared examples.
func commentExamples(doc map[string]any) []string {
	comments, ok := doc["comments"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, c := range comments {
		s, ok := c.(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), "example") {
			out = append(out, s)
		}
	}
	return out
}

// extractSteps outlines what a template executes: pipeline.stages entries
// as stage items, then stage.steps and top-level steps entries as step
// items, in declaration order.
func extractSteps(doc map[string]any) []Step {
	steps := []Step{}

	if p, ok := doc["pipeline"].(map[string]any); ok {
		if stages, ok := p["stages"].([]any); ok {
			for _, item := range stages {
				stage, ok := item.(map[string]any)
				if !ok {
					continue
				}
				steps = append(steps, Step{
					Name:        getString(stage, "name", "Unnamed Stage"),
					Type:        "stage",
					Description: getString(stage, "description", ""),
				})
			}
		}
	}
	if s, ok := doc["stage"].(map[string]any); ok {
		steps = appendStepItems(steps, s["steps"])
	}
	steps = appendStepItems(steps, doc["steps"])

	return steps
}

func appendStepItems(steps []Step, v any) []Step {
	items, ok := v.([]any)
	if !ok {
		return steps
	}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		steps = append(steps, Step{
			Name:        getString(m, "name", "Unnamed Step"),
			Type:        "step",
			Description: getString(m, "description", ""),
		})
	}
	return steps
}

// coerceVersion renders a version value as a string whatever its YAML
// scalar type.
func coerceVersion(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s := cast.ToString(v); s != "" {
		return s
	}
	return DefaultVersion
}

// defaultScope is the scope recorded for collection items that do not
// declare one: template for wrapped documents, the resolved kind for
// legacy documents.
func defaultScope(shape Shape, kind string) string {
	if shape == ShapeWrapped || kind == KindUnknown {
		return "template"
	}
	return kind
}

// minimalMetadata is the degraded record returned when extraction fails.
func minimalMetadata(doc map[string]any) *Metadata {
	meta := newMetadata(ShapeLegacy)
	meta.Description = ExtractionFailedDescription

	// Best effort at a name so the record stays identifiable.
	if inner, ok := doc["template"].(map[string]any); ok {
		if s, ok := inner["name"].(string); ok {
			meta.Name = s
		}
	} else if s, ok := doc["name"].(string); ok {
		meta.Name = s
	}
	return meta
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func getString(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

func getBool(m map[string]any, key string, def bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}
