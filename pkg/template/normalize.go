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
	"log/slog"
	"strings"
)

// Shape identifies which of the two supported document layouts a parsed
// template uses.
type Shape int

const (
	// ShapeLegacy is the flat layout: name, type, description and the
	// variable/parameter mappings sit directly at the top level.
	ShapeLegacy Shape = iota

	// ShapeWrapped is the newer layout: a single "template" root key holds
	// an object with type, name, versionLabel and a schema-defined spec.
	ShapeWrapped
)

func (s Shape) String() string {
	if s == ShapeWrapped {
		return "wrapped"
	}
	return "legacy"
}

// Normalize determines the shape and kind of a parsed document and returns
// the inner object extraction should operate on. For wrapped documents the
// inner object is the value of the "template" key; for legacy documents it
// is the document itself.
//
// Detection order is wrapped first: a "template" key holding a mapping wins
// over any legacy field. Exactly one shape applies to a given document.
func Normalize(doc map[string]any, logger *slog.Logger) (Shape, map[string]any, string) {
	if inner, ok := doc["template"].(map[string]any); ok {
		typ, _ := inner["type"].(string)
		return ShapeWrapped, inner, wrappedKind(typ)
	}
	return ShapeLegacy, doc, legacyKind(doc, logger)
}

// wrappedKind maps the case-sensitive type field of a wrapped template to
// the schema kind used for fetching and validation. StepGroup resolves to
// the step kind; both share the template schema file. Unrecognized values
// default to pipeline.
func wrappedKind(typ string) string {
	switch typ {
	case "Stage":
		return KindStage
	case "Pipeline":
		return KindPipeline
	case "StepGroup":
		return KindStep
	default:
		return KindPipeline
	}
}

// legacyKind resolves the kind of a legacy document: an explicit valid type
// field wins, otherwise the kind is inferred from structural keys.
func legacyKind(doc map[string]any, logger *slog.Logger) string {
	if typ, ok := doc["type"].(string); ok {
		lower := strings.ToLower(typ)
		for _, valid := range ValidKinds {
			if lower == valid {
				return lower
			}
		}
	}

	// Structural inference for documents without a usable type field.
	if _, ok := doc["pipeline"]; ok {
		return KindPipeline
	}
	if _, ok := doc["stage"]; ok {
		return KindStage
	}
	if _, ok := doc["steps"]; ok {
		return KindStepGroup
	}

	if logger != nil {
		logger.Warn("could not determine template kind, defaulting to unknown")
	}
	return KindUnknown
}
