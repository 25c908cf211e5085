// Copyright 2026 Gravitational, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package record

import (
	"errors"
	"fmt"

	"github.com/gravitational/trace"
)

// Validation failure kinds. Match with errors.Is.
var (
	ErrInvalidFieldLength     = errors.New("invalid field length")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidDateFormat      = errors.New("invalid date format")
	ErrInvalidTimeFormat      = errors.New("invalid time format")
	ErrInvalidLatitudeFormat  = errors.New("invalid latitude format")
	ErrInvalidLongitudeFormat = errors.New("invalid longitude format")
)

// FieldError reports the field that failed validation.
type FieldError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v (got %q)", e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("%s: %v: %s (got %q)", e.Field, e.Err, e.Reason, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// fieldErr builds a traced *FieldError of the given kind.
func fieldErr(kind error, field, value, reason string) error {
	return trace.Wrap(&FieldError{
		Field:  field,
		Value:  value,
		Reason: reason,
		Err:    kind,
	})
}
