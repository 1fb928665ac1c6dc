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

// Package template implements metadata extraction from Harness template
// documents. It understands two document shapes (the legacy flat layout and
// the newer layout wrapped under a single "template" root key), validates
// documents against remotely fetched JSON schemas, and produces a normalized
// Metadata record suitable for rendering and publishing.
package template

// Template kinds. A kind selects the remote schema file and the extraction
// rules that apply to a document.
const (
	KindPipeline  = "pipeline"
	KindStage     = "stage"
	KindStepGroup = "stepgroup"
	KindStep      = "step"
	KindTrigger   = "trigger"
	KindUnknown   = "unknown"
)

// ValidKinds lists the kinds a legacy document may declare in its type field.
var ValidKinds = []string{KindPipeline, KindStage, KindStepGroup}

// Defaults applied when a document omits the corresponding field.
const (
	DefaultName       = "Unnamed Template"
	DefaultIdentifier = "unnamed_template"
	DefaultVersion    = "1.0.0"
	DefaultAuthor     = "Harness"
)

// Metadata is the normalized record extracted from one template document.
// It is created fresh per document, fully populated by a single extraction
// pass, and handed immutably to rendering and publishing.
type Metadata struct {
	Name        string               `json:"name" yaml:"name"`
	Identifier  string               `json:"identifier" yaml:"identifier"`
	Type        string               `json:"type" yaml:"type"`
	Description string               `json:"description" yaml:"description"`
	Author      string               `json:"author" yaml:"author"`
	Version     string               `json:"version" yaml:"versionLabel"`
	Tags        []string             `json:"tags" yaml:"tags"`
	Variables   map[string]Variable  `json:"variables" yaml:"variables"`
	Parameters  map[string]Parameter `json:"parameters" yaml:"parameters"`
	Examples    []string             `json:"examples" yaml:"examples"`
	Steps       []Step               `json:"steps" yaml:"steps"`
}

// Step is one structural entry in a template: a pipeline stage, a stage
// step, or a step group member. Surfaced so documentation can outline what
// a template executes.
type Step struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Variable describes a single template variable.
type Variable struct {
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`

	// Scope is the structural level the variable was declared at:
	// pipeline, stage, stepgroup, template or service.
	Scope string `json:"scope" yaml:"scope"`
}

// Parameter describes a single template parameter. Unlike a Variable it
// carries a default value, modeled as a tagged Scalar so that rendering and
// serialization stay exhaustive rather than stringly-typed.
type Parameter struct {
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Default     Scalar `json:"default" yaml:"default"`
	Scope       string `json:"scope" yaml:"scope"`
}

// newMetadata returns a record populated with defaults. The author default
// depends on the document shape: wrapped documents default to Harness,
// legacy documents to empty.
func newMetadata(shape Shape) *Metadata {
	author := ""
	if shape == ShapeWrapped {
		author = DefaultAuthor
	}
	return &Metadata{
		Name:       DefaultName,
		Identifier: DefaultIdentifier,
		Type:       KindUnknown,
		Author:     author,
		Version:    DefaultVersion,
		Tags:       []string{},
		Variables:  make(map[string]Variable),
		Parameters: make(map[string]Parameter),
		Examples:   []string{},
		Steps:      []Step{},
	}
}
