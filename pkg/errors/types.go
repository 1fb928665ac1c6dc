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

package errors

import (
	"fmt"
)

// ValidationError represents a template that failed validation.
// Use this when a document is rejected before extraction.
type ValidationError struct {
	// Path is the template file that failed validation
	Path string

	// Reason is the human-readable rejection reason
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NotFoundError represents a resource not found error.
// Use this when a requested resource does not exist.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "template", "schema", "page")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// SchemaFetchError represents a failure to retrieve a remote schema.
// Callers are expected to degrade to basic validation rather than abort.
type SchemaFetchError struct {
	// Kind is the template kind the schema was requested for
	Kind string

	// Version is the requested schema version
	Version string

	// URL is the schema location that failed
	URL string

	// StatusCode is the HTTP status code (if a response was received)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *SchemaFetchError) Error() string {
	msg := fmt.Sprintf("fetching %s schema", e.Kind)

	if e.Version != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Version)
	}

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	if e.URL != "" {
		msg = fmt.Sprintf("%s from %s", msg, e.URL)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SchemaFetchError) Unwrap() error {
	return e.Cause
}

// PublishError represents a failure to publish a documentation page.
type PublishError struct {
	// Title is the page that failed to publish
	Title string

	// SpaceKey is the target space
	SpaceKey string

	// StatusCode is the HTTP status code (if a response was received)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *PublishError) Error() string {
	msg := fmt.Sprintf("publishing page %q", e.Title)

	if e.SpaceKey != "" {
		msg = fmt.Sprintf("%s to space %s", msg, e.SpaceKey)
	}

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *PublishError) Unwrap() error {
	return e.Cause
}

// ConfigError represents configuration problems.
// Use this for missing settings or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "confluence.url")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
