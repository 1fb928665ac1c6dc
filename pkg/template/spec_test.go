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
	"github.com/stretchr/testify/require"

	"github.com/tempdocs/tempdocs/pkg/schema"
)

// specVariableSchema declares spec.variables as an array of named objects.
func specVariableSchema() *schema.Document {
	return schema.NewDocument(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"variables": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":  map[string]any{"type": "string"},
						"type":  map[string]any{"type": "string"},
						"value": map[string]any{},
					},
					"required": []any{"name"},
				},
			},
		},
	})
}

func newSpecExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(failingProvider(t), discardLogger())
}

func TestExtractSpec_Variables(t *testing.T) {
	e := newSpecExtractor(t)

	spec := map[string]any{
		"variables": []any{
			map[string]any{"name": "env", "type": "string", "description": "target"},
			map[string]any{"name": "replicas", "type": "number", "required": true},
		},
	}

	res := e.extractSpec(spec, specVariableSchema())

	require.Len(t, res.variables, 2)
	assert.Equal(t, Variable{
		Description: "target",
		Type:        "string",
		Scope:       "template",
	}, res.variables["env"])
	assert.True(t, res.variables["replicas"].Required)
}

func TestExtractSpec_ItemsFailingSchemaSkipped(t *testing.T) {
	e := newSpecExtractor(t)

	spec := map[string]any{
		"variables": []any{
			map[string]any{"name": "good"},
			map[string]any{"type": "string"}, // missing required name
			"not even an object",
		},
	}

	res := e.extractSpec(spec, specVariableSchema())

	assert.Len(t, res.variables, 1)
	assert.Contains(t, res.variables, "good")
}

func TestExtractSpec_NilSchemaAcceptsItems(t *testing.T) {
	e := newSpecExtractor(t)

	spec := map[string]any{
		"variables": []any{
			map[string]any{"name": "anything"},
			map[string]any{}, // nameless still skipped
		},
	}

	res := e.extractSpec(spec, nil)

	assert.Len(t, res.variables, 1)
	assert.Contains(t, res.variables, "anything")
}

func TestExtractSpec_Parameters(t *testing.T) {
	e := newSpecExtractor(t)

	spec := map[string]any{
		"parameters": []any{
			map[string]any{"name": "timeout", "default": "10m", "description": "step timeout"},
			map[string]any{"name": "count", "default": 3},
		},
	}

	res := e.extractSpec(spec, nil)

	require.Len(t, res.parameters, 2)
	assert.Equal(t, "10m", res.parameters["timeout"].Default.String())
	assert.Equal(t, "template", res.parameters["timeout"].Scope)
	assert.Equal(t, ScalarInt, res.parameters["count"].Default.Kind())
}

func TestExtractSpec_ServiceVariables(t *testing.T) {
	e := newSpecExtractor(t)

	spec := map[string]any{
		"serviceConfig": map[string]any{
			"serviceDefinition": map[string]any{
				"spec": map[string]any{
					"variables": []any{
						map[string]any{"name": "dbUrl", "type": "string"},
					},
				},
			},
		},
	}

	res := e.extractSpec(spec, nil)

	require.Contains(t, res.variables, "dbUrl")
	assert.Equal(t, "service", res.variables["dbUrl"].Scope)
}

func TestExtractSpec_ServiceScopeWinsCollision(t *testing.T) {
	e := newSpecExtractor(t)

	spec := map[string]any{
		"variables": []any{
			map[string]any{"name": "env", "description": "template level"},
		},
		"serviceConfig": map[string]any{
			"serviceDefinition": map[string]any{
				"spec": map[string]any{
					"variables": []any{
						map[string]any{"name": "env", "description": "service level"},
					},
				},
			},
		},
	}

	res := e.extractSpec(spec, nil)

	require.Contains(t, res.variables, "env")
	assert.Equal(t, "service", res.variables["env"].Scope)
	assert.Equal(t, "service level", res.variables["env"].Description)
}

func TestExtractSpec_PartialServicePathIgnored(t *testing.T) {
	e := newSpecExtractor(t)

	tests := []struct {
		name string
		spec map[string]any
	}{
		{"no serviceConfig", map[string]any{}},
		{"serviceConfig not a mapping", map[string]any{"serviceConfig": "x"}},
		{"missing serviceDefinition", map[string]any{"serviceConfig": map[string]any{}}},
		{"variables not an array", map[string]any{
			"serviceConfig": map[string]any{
				"serviceDefinition": map[string]any{
					"spec": map[string]any{"variables": "x"},
				},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.extractSpec(tt.spec, nil)
			assert.Empty(t, res.variables)
		})
	}
}

func TestArrayItemSchema(t *testing.T) {
	withItems := specVariableSchema()

	items := arrayItemSchema(withItems, "variables")
	require.NotNil(t, items)
	assert.True(t, items.HasProperties())

	assert.Nil(t, arrayItemSchema(nil, "variables"))
	assert.Nil(t, arrayItemSchema(withItems, "missing"))

	// Non-array property types are rejected.
	notArray := schema.NewDocument(map[string]any{
		"properties": map[string]any{
			"variables": map[string]any{"type": "object"},
		},
	})
	assert.Nil(t, arrayItemSchema(notArray, "variables"))

	// Array without item properties gives no per-item validation.
	bareArray := schema.NewDocument(map[string]any{
		"properties": map[string]any{
			"variables": map[string]any{"type": "array"},
		},
	})
	assert.Nil(t, arrayItemSchema(bareArray, "variables"))
}
