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
	"encoding/csv"
	"io"

	"github.com/gravitational/trace"
	"github.com/jszwec/csvutil"

	"github.com/gravitational/igc-logger/record"
)

// CSVProducer reads rows from a CSV file whose first line names the columns.
type CSVProducer struct {
	r     io.Reader
	track track
}

func NewCSVProducer(r io.Reader, opts ...Option) *CSVProducer {
	return &CSVProducer{r: r, track: newTrack(opts)}
}

func (p *CSVProducer) Produce(ctx context.Context, emit func(record.Fix) error) error {
	cr := csv.NewReader(p.r)
	cr.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(cr)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return trace.Wrap(err, "reading CSV header")
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return trace.Wrap(err)
		}

		var row Row
		if err := dec.Decode(&row); err == io.EOF {
			return nil
		} else if err != nil {
			return trace.Wrap(err, "decoding CSV line %d", line)
		}

		fix, err := p.track.next(row)
		if err != nil {
			return trace.Wrap(err, "CSV line %d", line)
		}
		if err := emit(fix); err != nil {
			return trace.Wrap(err, "CSV line %d", line)
		}
	}
}
