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

package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Document wraps a raw JSON Schema object. The raw mapping drives the
// property walk during extraction; a compiled form is built lazily for
// validation. The two views follow the compile-plus-raw pattern: validation
// uses the compiled schema, traversal uses the raw data.
type Document struct {
	raw map[string]any

	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
}

// NewDocument wraps a parsed schema object. A nil mapping is treated as the
// empty schema.
func NewDocument(raw map[string]any) *Document {
	if raw == nil {
		raw = map[string]any{}
	}
	return &Document{raw: raw}
}

// Empty returns the empty schema: no properties known, validates nothing.
// Callers receiving it must degrade gracefully, never treat it as an error.
func Empty() *Document {
	return NewDocument(nil)
}

// IsEmpty reports whether the schema declares nothing at all.
func (d *Document) IsEmpty() bool {
	return len(d.raw) == 0
}

// Raw returns the underlying schema object.
func (d *Document) Raw() map[string]any {
	return d.raw
}

// Properties returns the declared property names in deterministic order.
// An absent or malformed properties mapping yields an empty slice.
func (d *Document) Properties() []string {
	props, ok := d.raw["properties"].(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasProperties reports whether the schema declares at least one property.
func (d *Document) HasProperties() bool {
	props, ok := d.raw["properties"].(map[string]any)
	return ok && len(props) > 0
}

// Property returns the sub-schema for a declared property, or nil when the
// property is not declared or is not an object.
func (d *Document) Property(name string) *Document {
	props, ok := d.raw["properties"].(map[string]any)
	if !ok {
		return nil
	}
	sub, ok := props[name].(map[string]any)
	if !ok {
		return nil
	}
	return NewDocument(sub)
}

// Items returns the items sub-schema of an array-typed schema, or nil.
func (d *Document) Items() *Document {
	items, ok := d.raw["items"].(map[string]any)
	if !ok {
		return nil
	}
	return NewDocument(items)
}

// Type returns the declared type of the schema, or empty.
func (d *Document) Type() string {
	typ, _ := d.raw["type"].(string)
	return typ
}

// Validate checks a decoded document against the compiled schema. The empty
// schema fails validation by definition: with no properties known there is
// nothing to validate against, and callers are expected to fall back to
// basic checks. Compilation failures (for example unresolvable remote refs)
// are reported as validation errors for the same reason.
func (d *Document) Validate(v any) error {
	if !d.HasProperties() {
		return fmt.Errorf("schema declares no properties")
	}
	d.compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		const url = "inline://schema.json"
		if err := compiler.AddResource(url, d.raw); err != nil {
			d.compileErr = err
			return
		}
		d.compiled, d.compileErr = compiler.Compile(url)
	})
	if d.compileErr != nil {
		return fmt.Errorf("compile schema: %w", d.compileErr)
	}
	return d.compiled.Validate(v)
}
