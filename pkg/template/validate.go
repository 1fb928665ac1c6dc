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
	"fmt"
	"log/slog"

	"github.com/tempdocs/tempdocs/pkg/schema"
)

// Outcome discriminates how a document passed (or failed) validation.
// Callers pattern-match on the outcome instead of catching errors: schema
// failures deliberately degrade to basic validation rather than blocking
// documentation generation on upstream schema drift.
type Outcome int

const (
	// OutcomeRejected means the document must be skipped.
	OutcomeRejected Outcome = iota

	// OutcomeBasicValidated means schema validation was unavailable or
	// failed, but the document passed the basic field checks.
	OutcomeBasicValidated

	// OutcomeSchemaValidated means the document validated against the
	// fetched schema for its kind.
	OutcomeSchemaValidated
)

// String returns the outcome name for logs and JSON output.
func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeBasicValidated:
		return "basic"
	case OutcomeSchemaValidated:
		return "schema"
	default:
		return "unknown"
	}
}

// ValidationResult is the decision for one document.
type ValidationResult struct {
	Outcome Outcome
	Kind    string
	Reason  string
}

// OK reports whether extraction may proceed.
func (r ValidationResult) OK() bool {
	return r.Outcome != OutcomeRejected
}

// Validator decides pass/fail for a document before extraction proceeds.
type Validator struct {
	schemas *schema.Provider
	logger  *slog.Logger
}

// NewValidator creates a validator backed by the given schema provider.
func NewValidator(schemas *schema.Provider, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{schemas: schemas, logger: logger}
}

// Validate decides whether a parsed document is usable. It never panics:
// any unexpected failure while probing a malformed document is converted
// into a rejection carrying the failure message.
func (v *Validator) Validate(ctx context.Context, doc map[string]any) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("unexpected failure during validation", "panic", r)
			result = ValidationResult{
				Outcome: OutcomeRejected,
				Reason:  fmt.Sprintf("validation error: %v", r),
			}
		}
	}()

	shape, inner, kind := Normalize(doc, v.logger)
	if shape == ShapeWrapped {
		return v.validateWrapped(ctx, doc, inner, kind)
	}
	return v.validateLegacy(doc, kind)
}

// validateWrapped validates the whole document against the schema for its
// kind, falling back to a basic name check when the schema is unavailable
// or disagrees.
func (v *Validator) validateWrapped(ctx context.Context, doc, inner map[string]any, kind string) ValidationResult {
	sch := v.schemas.Get(ctx, kind)

	if err := sch.Validate(doc); err == nil {
		return ValidationResult{
			Outcome: OutcomeSchemaValidated,
			Kind:    kind,
			Reason:  fmt.Sprintf("Template is valid according to %s schema", kind),
		}
	} else {
		v.logger.Warn("schema validation failed, falling back to basic validation",
			"kind", kind,
			"error", err)
	}

	// The fallback requires a non-empty string name, not mere key presence:
	// an empty or non-string name produces pages with no usable title.
	if name, ok := inner["name"].(string); !ok || name == "" {
		return ValidationResult{
			Outcome: OutcomeRejected,
			Kind:    kind,
			Reason:  "missing required field: name in template object",
		}
	}

	return ValidationResult{
		Outcome: OutcomeBasicValidated,
		Kind:    kind,
		Reason:  "Basic validation passed (schema validation error)",
	}
}

// validateLegacy requires name, description and type, in that order, and a
// type drawn from the valid kinds.
func (v *Validator) validateLegacy(doc map[string]any, kind string) ValidationResult {
	for _, field := range []string{"name", "description", "type"} {
		if _, ok := doc[field]; !ok {
			return ValidationResult{
				Outcome: OutcomeRejected,
				Kind:    kind,
				Reason:  fmt.Sprintf("missing required field: %s", field),
			}
		}
	}

	typ, _ := doc["type"].(string)
	valid := false
	for _, k := range ValidKinds {
		if typ == k {
			valid = true
			break
		}
	}
	if !valid {
		return ValidationResult{
			Outcome: OutcomeRejected,
			Kind:    kind,
			Reason:  fmt.Sprintf("invalid template type: %v, must be one of %v", doc["type"], ValidKinds),
		}
	}

	return ValidationResult{
		Outcome: OutcomeBasicValidated,
		Kind:    kind,
		Reason:  "Template is valid",
	}
}
