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
	"github.com/tempdocs/tempdocs/pkg/schema"
)

// specResult holds the collections harvested from a document's spec
// section.
type specResult struct {
	variables  map[string]Variable
	parameters map[string]Parameter
}

// extractSpec reads variable and parameter declarations out of the spec
// object. Top-level spec.variables and spec.parameters arrays are scoped
// "template"; service-level variables nested under
// serviceConfig.serviceDefinition.spec are scoped "service" and applied
// after, so a service declaration wins a name collision.
func (e *Extractor) extractSpec(spec map[string]any, specSchema *schema.Document) specResult {
	res := specResult{
		variables:  map[string]Variable{},
		parameters: map[string]Parameter{},
	}

	if items, ok := spec["variables"].([]any); ok {
		itemSchema := arrayItemSchema(specSchema, "variables")
		collectSpecVariables(items, itemSchema, "template", res.variables)
	}
	if items, ok := spec["parameters"].([]any); ok {
		itemSchema := arrayItemSchema(specSchema, "parameters")
		collectSpecParameters(items, itemSchema, "template", res.parameters)
	}

	e.extractServiceVariables(spec, specSchema, res.variables)

	return res
}

// extractServiceVariables descends serviceConfig.serviceDefinition.spec in
// lockstep through the data and the schema, harvesting the variables array
// at the bottom with service scope. Absent levels end the walk quietly.
func (e *Extractor) extractServiceVariables(spec map[string]any, specSchema *schema.Document, out map[string]Variable) {
	svcCfg, ok := spec["serviceConfig"].(map[string]any)
	if !ok {
		return
	}
	svcDef, ok := svcCfg["serviceDefinition"].(map[string]any)
	if !ok {
		return
	}
	svcSpec, ok := svcDef["spec"].(map[string]any)
	if !ok {
		return
	}
	items, ok := svcSpec["variables"].([]any)
	if !ok {
		return
	}

	var svcSpecSchema *schema.Document
	if specSchema != nil {
		if s := specSchema.Property("serviceConfig"); s != nil {
			if s = s.Property("serviceDefinition"); s != nil {
				svcSpecSchema = s.Property("spec")
			}
		}
	}

	collectSpecVariables(items, arrayItemSchema(svcSpecSchema, "variables"), "service", out)
}

// arrayItemSchema resolves the per-item sub-schema for an array-typed
// property. It returns nil when the schema does not describe the property
// as an array of objects with declared properties, in which case items are
// accepted without validation.
func arrayItemSchema(parent *schema.Document, field string) *schema.Document {
	if parent == nil {
		return nil
	}
	prop := parent.Property(field)
	if prop == nil {
		return nil
	}
	if t := prop.Type(); t != "" && t != "array" {
		return nil
	}
	items := prop.Items()
	if items == nil || !items.HasProperties() {
		return nil
	}
	return items
}

// collectSpecVariables folds named array items into out. Items failing the
// per-item schema are skipped without failing the whole document.
func collectSpecVariables(items []any, itemSchema *schema.Document, scope string, out map[string]Variable) {
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if itemSchema != nil {
			if err := itemSchema.Validate(item); err != nil {
				continue
			}
		}
		name := getString(item, "name", "")
		if name == "" {
			continue
		}
		out[name] = Variable{
			Description: getString(item, "description", ""),
			Type:        getString(item, "type", "string"),
			Required:    getBool(item, "required", false),
			Scope:       getString(item, "scope", scope),
		}
	}
}

func collectSpecParameters(items []any, itemSchema *schema.Document, scope string, out map[string]Parameter) {
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if itemSchema != nil {
			if err := itemSchema.Validate(item); err != nil {
				continue
			}
		}
		name := getString(item, "name", "")
		if name == "" {
			continue
		}
		out[name] = Parameter{
			Description: getString(item, "description", ""),
			Type:        getString(item, "type", "string"),
			Required:    getBool(item, "required", false),
			Default:     ScalarOf(item["default"]),
			Scope:       getString(item, "scope", scope),
		}
	}
}
