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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Wrapped(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		wantKind string
	}{
		{"stage", "Stage", KindStage},
		{"pipeline", "Pipeline", KindPipeline},
		{"step group resolves to step schema", "StepGroup", KindStep},
		{"unrecognized defaults to pipeline", "Widget", KindPipeline},
		{"missing type defaults to pipeline", "", KindPipeline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := map[string]any{
				"template": map[string]any{
					"name": "T",
				},
			}
			if tt.typ != "" {
				doc["template"].(map[string]any)["type"] = tt.typ
			}

			shape, inner, kind := Normalize(doc, nil)
			assert.Equal(t, ShapeWrapped, shape)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, "T", inner["name"])
		})
	}
}

func TestNormalize_WrappedWinsOverLegacyFields(t *testing.T) {
	doc := map[string]any{
		"name": "legacy name",
		"type": "pipeline",
		"template": map[string]any{
			"name": "wrapped name",
			"type": "Stage",
		},
	}

	shape, inner, kind := Normalize(doc, nil)
	assert.Equal(t, ShapeWrapped, shape)
	assert.Equal(t, KindStage, kind)
	assert.Equal(t, "wrapped name", inner["name"])
}

func TestNormalize_TemplateKeyNotMapping(t *testing.T) {
	// A scalar "template" key does not make the document wrapped.
	doc := map[string]any{
		"template": "not a mapping",
		"name":     "T",
		"type":     "stage",
	}

	shape, _, kind := Normalize(doc, nil)
	assert.Equal(t, ShapeLegacy, shape)
	assert.Equal(t, KindStage, kind)
}

func TestNormalize_LegacyExplicitType(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"pipeline", KindPipeline},
		{"stage", KindStage},
		{"stepgroup", KindStepGroup},
		{"Pipeline", KindPipeline}, // case-insensitive
	}

	for _, tt := range tests {
		doc := map[string]any{"name": "T", "type": tt.typ}
		shape, _, kind := Normalize(doc, nil)
		assert.Equal(t, ShapeLegacy, shape)
		assert.Equal(t, tt.want, kind, "type %q", tt.typ)
	}
}

func TestNormalize_LegacyStructuralInference(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{"pipeline key", map[string]any{"pipeline": map[string]any{}}, KindPipeline},
		{"stage key", map[string]any{"stage": map[string]any{}}, KindStage},
		{"steps key", map[string]any{"steps": []any{}}, KindStepGroup},
		{"pipeline beats stage", map[string]any{"pipeline": 1, "stage": 1}, KindPipeline},
		{"nothing usable", map[string]any{"name": "T"}, KindUnknown},
		{"invalid type falls through to inference", map[string]any{"type": "widget", "stage": map[string]any{}}, KindStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, kind := Normalize(tt.doc, nil)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "legacy", ShapeLegacy.String())
	assert.Equal(t, "wrapped", ShapeWrapped.String())
}
