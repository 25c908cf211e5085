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

package encoder

import (
	"io"

	"github.com/gravitational/trace"
)

// LineTerminator ends every IGC record.
const LineTerminator = "\r\n"

// Sink receives encoded records. Write appends raw bytes, WriteLine appends
// bytes followed by a line terminator.
type Sink interface {
	io.Writer
	WriteLine(line []byte) error
}

// LineSink adapts an io.Writer to [Sink]. Each line reaches the writer in a
// single Write call.
type LineSink struct {
	w io.Writer
}

func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

func (s *LineSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	return n, trace.Wrap(err)
}

func (s *LineSink) WriteLine(line []byte) error {
	buf := make([]byte, 0, len(line)+len(LineTerminator))
	buf = append(buf, line...)
	buf = append(buf, LineTerminator...)
	_, err := s.w.Write(buf)
	return trace.Wrap(err)
}

var _ Sink = (*LineSink)(nil)
