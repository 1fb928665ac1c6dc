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
	"encoding/json"
	"strconv"

	"github.com/spf13/cast"
)

// ScalarKind discriminates the value held by a Scalar.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarString
	ScalarBool
	ScalarInt
	ScalarFloat
)

// Scalar is a tagged YAML scalar value. Parameter defaults arrive from YAML
// as untyped values; Scalar keeps the original type so that rendering and
// JSON serialization can switch exhaustively instead of round-tripping
// through strings.
type Scalar struct {
	kind ScalarKind
	s    string
	b    bool
	i    int64
	f    float64
}

// ScalarOf converts a decoded YAML value into a Scalar. Composite values
// (mappings, sequences) are coerced to their string form; templates are not
// expected to carry structured defaults, but a surprising document must not
// abort extraction.
func ScalarOf(v any) Scalar {
	switch val := v.(type) {
	case nil:
		return Scalar{kind: ScalarNull}
	case string:
		return Scalar{kind: ScalarString, s: val}
	case bool:
		return Scalar{kind: ScalarBool, b: val}
	case int:
		return Scalar{kind: ScalarInt, i: int64(val)}
	case int64:
		return Scalar{kind: ScalarInt, i: val}
	case float64:
		return Scalar{kind: ScalarFloat, f: val}
	default:
		return Scalar{kind: ScalarString, s: cast.ToString(val)}
	}
}

// Kind returns the discriminator for the held value.
func (s Scalar) Kind() ScalarKind { return s.kind }

// IsNull reports whether the scalar holds no value.
func (s Scalar) IsNull() bool { return s.kind == ScalarNull }

// String returns the display form of the scalar. Null renders as the empty
// string, matching the legacy documentation output.
func (s Scalar) String() string {
	switch s.kind {
	case ScalarString:
		return s.s
	case ScalarBool:
		return strconv.FormatBool(s.b)
	case ScalarInt:
		return strconv.FormatInt(s.i, 10)
	case ScalarFloat:
		return strconv.FormatFloat(s.f, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON writes the scalar in its native JSON type.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case ScalarString:
		return json.Marshal(s.s)
	case ScalarBool:
		return json.Marshal(s.b)
	case ScalarInt:
		return json.Marshal(s.i)
	case ScalarFloat:
		return json.Marshal(s.f)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON restores a scalar from its native JSON type.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if f, ok := v.(float64); ok {
		// encoding/json decodes all numbers as float64; keep integral
		// values as ints so round-trips stay stable.
		if f == float64(int64(f)) {
			*s = Scalar{kind: ScalarInt, i: int64(f)}
			return nil
		}
	}
	*s = ScalarOf(v)
	return nil
}
