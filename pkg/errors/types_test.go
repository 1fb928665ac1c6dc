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

package errors_test

import (
	"errors"
	"testing"

	tderrors "github.com/tempdocs/tempdocs/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *tderrors.ValidationError
		wantMsg string
	}{
		{
			name: "with path",
			err: &tderrors.ValidationError{
				Path:   "templates/build.yaml",
				Reason: "missing required field: name",
			},
			wantMsg: "validation failed for templates/build.yaml: missing required field: name",
		},
		{
			name: "without path",
			err: &tderrors.ValidationError{
				Reason: "missing required field: type",
			},
			wantMsg: "validation failed: missing required field: type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *tderrors.NotFoundError
		wantMsg string
	}{
		{
			name: "template not found",
			err: &tderrors.NotFoundError{
				Resource: "template",
				ID:       "deploy-stage",
			},
			wantMsg: "template not found: deploy-stage",
		},
		{
			name: "page not found",
			err: &tderrors.NotFoundError{
				Resource: "page",
				ID:       "Pipeline Templates",
			},
			wantMsg: "page not found: Pipeline Templates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("NotFoundError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestSchemaFetchError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *tderrors.SchemaFetchError
		wantMsg string
	}{
		{
			name: "full detail",
			err: &tderrors.SchemaFetchError{
				Kind:       "pipeline",
				Version:    "v1",
				URL:        "https://example.com/v1/pipeline.json",
				StatusCode: 404,
				Cause:      errors.New("not found"),
			},
			wantMsg: "fetching pipeline schema (v1) [HTTP 404] from https://example.com/v1/pipeline.json: not found",
		},
		{
			name: "network failure, no response",
			err: &tderrors.SchemaFetchError{
				Kind:    "stage",
				Version: "v1",
				Cause:   errors.New("connection refused"),
			},
			wantMsg: "fetching stage schema (v1): connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("SchemaFetchError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestSchemaFetchError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &tderrors.SchemaFetchError{Kind: "pipeline", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}
}

func TestPublishError_Error(t *testing.T) {
	err := &tderrors.PublishError{
		Title:      "Deploy Pipeline",
		SpaceKey:   "DOCS",
		StatusCode: 403,
		Cause:      errors.New("forbidden"),
	}

	want := `publishing page "Deploy Pipeline" to space DOCS [HTTP 403]: forbidden`
	if got := err.Error(); got != want {
		t.Errorf("PublishError.Error() = %q, want %q", got, want)
	}
}

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *tderrors.ConfigError
		wantMsg string
	}{
		{
			name: "with key",
			err: &tderrors.ConfigError{
				Key:    "confluence.url",
				Reason: "must not be empty",
			},
			wantMsg: "config error at confluence.url: must not be empty",
		},
		{
			name: "without key",
			err: &tderrors.ConfigError{
				Reason: "no configuration found",
			},
			wantMsg: "config error: no configuration found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ConfigError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := errors.New("yaml: unmarshal error")
	err := &tderrors.ConfigError{Key: "source_dir", Reason: "invalid value", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}
}
