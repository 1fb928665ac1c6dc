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

package shared

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for tempdocs commands
const (
	ExitSuccess          = 0
	ExitProcessingFailed = 1
	ExitInvalidTemplate  = 2
	ExitConfigError      = 3
	ExitPublishFailed    = 4
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewProcessingError creates an error for template processing failures
func NewProcessingError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitProcessingFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidTemplateError creates an error for invalid template files
func NewInvalidTemplateError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidTemplate,
		Message: msg,
		Cause:   cause,
	}
}

// NewConfigError creates an error for configuration problems
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitConfigError,
		Message: msg,
		Cause:   cause,
	}
}

// NewPublishError creates an error for Confluence publish failures
func NewPublishError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitPublishFailed,
		Message: msg,
		Cause:   cause,
	}
}

// HandleExitError checks if an error is an ExitError and exits with the appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		msg := exitErr.Error()
		if len(msg) > 0 {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		os.Exit(exitErr.Code)
	}

	// Default to processing failed
	fmt.Fprintln(os.Stderr, "Error:", err.Error())
	os.Exit(ExitProcessingFailed)
}
