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

import "strconv"

const (
	// BRecordLen is the byte length of a B record with no extensions.
	BRecordLen = 35

	// FirstExtensionByte is the 1-indexed byte at which the first B record
	// extension starts.
	FirstExtensionByte = BRecordLen + 1

	// MaxOffset is the largest byte offset an I record can declare in its
	// two-digit start and end fields.
	MaxOffset = 99
)

// Extension describes one field appended to every B record after an I record.
type Extension struct {
	Width int
	Code  string
}

// NewExtension validates an extension descriptor.
func NewExtension(width int, code string) (Extension, error) {
	e := Extension{Width: width, Code: code}
	if err := e.Validate(); err != nil {
		return Extension{}, err
	}
	return e, nil
}

// Validate checks the width is positive and the code is exactly three
// characters, since the I record has no separator between descriptors.
func (e Extension) Validate() error {
	if e.Width < 1 {
		return fieldErr(ErrInvalidFieldLength, "extension width", strconv.Itoa(e.Width), "must be positive")
	}
	if len(e.Code) != CodeLen {
		return fieldErr(ErrInvalidFieldLength, "extension code", e.Code, "must be 3 characters")
	}
	return nil
}

// Span is the inclusive, 1-indexed byte range an extension occupies in a B
// record.
type Span struct {
	Start int
	End   int
	Code  string
}

// ExtensionLayout walks exts in order from FirstExtensionByte and returns the
// span of each. Consecutive spans abut.
func ExtensionLayout(exts []Extension) []Span {
	spans := make([]Span, 0, len(exts))
	offset := FirstExtensionByte
	for _, e := range exts {
		end := offset + e.Width - 1
		spans = append(spans, Span{Start: offset, End: end, Code: e.Code})
		offset = end + 1
	}
	return spans
}

// ExtensionWidth is the total number of bytes exts append to a B record.
func ExtensionWidth(exts []Extension) int {
	total := 0
	for _, e := range exts {
		total += e.Width
	}
	return total
}
