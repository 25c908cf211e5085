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

package fixsource

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gravitational/trace"

	"github.com/gravitational/igc-logger/record"
)

// JSONLProducer reads one JSON object per line.
type JSONLProducer struct {
	r     io.Reader
	track track
}

func NewJSONLProducer(r io.Reader, opts ...Option) *JSONLProducer {
	return &JSONLProducer{r: r, track: newTrack(opts)}
}

func (p *JSONLProducer) Produce(ctx context.Context, emit func(record.Fix) error) error {
	dec := json.NewDecoder(p.r)
	dec.DisallowUnknownFields()

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return trace.Wrap(err)
		}

		var row Row
		if err := dec.Decode(&row); err == io.EOF {
			return nil
		} else if err != nil {
			return trace.Wrap(err, "decoding fix %d", n)
		}

		fix, err := p.track.next(row)
		if err != nil {
			return trace.Wrap(err, "fix %d", n)
		}
		if err := emit(fix); err != nil {
			return trace.Wrap(err, "fix %d", n)
		}
	}
}
