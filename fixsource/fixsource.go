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

// Package fixsource reads recorded position samples and turns them into B
// record fixes.
package fixsource

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gravitational/trace"
	"github.com/skypies/geo"

	"github.com/gravitational/igc-logger/coord"
	"github.com/gravitational/igc-logger/record"
)

const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// Producer emits fixes in file order.
type Producer interface {
	Produce(ctx context.Context, emit func(record.Fix) error) error
}

// Row is one position sample. Time is either HHMMSS or RFC3339, positions are
// decimal degrees, altitudes are meters.
type Row struct {
	Time        string  `csv:"time" json:"time"`
	Lat         float64 `csv:"lat" json:"lat"`
	Lon         float64 `csv:"lon" json:"lon"`
	Valid       bool    `csv:"valid" json:"valid"`
	PressureAlt int     `csv:"pressure_alt" json:"pressure_alt"`
	GPSAlt      int     `csv:"gps_alt" json:"gps_alt"`
	Extension   string  `csv:"extension,omitempty" json:"extension,omitempty"`
}

// Position is the sampled point.
func (r Row) Position() geo.Latlong {
	return geo.Latlong{Lat: r.Lat, Long: r.Lon}
}

// Fix converts the row. Positions off the globe are rejected here, the rest
// of the field grammar is checked by the encoder.
func (r Row) Fix() (record.Fix, error) {
	lat, lon, err := coord.FromLatlong(r.Position())
	if err != nil {
		return record.Fix{}, trace.Wrap(err)
	}
	return record.Fix{
		Time:             rowTime(r.Time),
		Latitude:         lat,
		Longitude:        lon,
		Valid:            r.Valid,
		PressureAltitude: r.PressureAlt,
		GPSAltitude:      r.GPSAlt,
		Extension:        r.Extension,
	}, nil
}

type Option func(*track)

// WithMaxJumpKM rejects a fix lying more than km kilometers from the one
// before it. Zero disables the check.
func WithMaxJumpKM(km float64) Option {
	return func(t *track) {
		t.maxJumpKM = km
	}
}

// track converts rows in order and remembers the last accepted position.
type track struct {
	maxJumpKM float64
	last      geo.Latlong
	seen      bool
}

func newTrack(opts []Option) track {
	var t track
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func (t *track) next(r Row) (record.Fix, error) {
	fix, err := r.Fix()
	if err != nil {
		return record.Fix{}, trace.Wrap(err)
	}

	pos := r.Position()
	if t.maxJumpKM > 0 && t.seen {
		if d := t.last.DistKM(pos); d > t.maxJumpKM {
			return record.Fix{}, trace.BadParameter(
				"position %s%s is %.1f km from the previous fix, limit is %.1f km",
				fix.Latitude, fix.Longitude, d, t.maxJumpKM)
		}
	}
	t.last, t.seen = pos, true
	return fix, nil
}

// rowTime passes HHMMSS through and converts RFC3339 timestamps.
func rowTime(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return coord.TimeString(t)
	}
	return s
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL
	}
	return ""
}

// Open returns a producer reading path, which is "-" for stdin. An empty
// format is inferred from the file extension.
func Open(path, format string, opts ...Option) (Producer, io.Closer, error) {
	if format == "" {
		format = FormatFromPath(path)
	}

	var (
		r      io.Reader
		closer io.Closer = io.NopCloser(nil)
	)
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, trace.Wrap(err, "opening fixes")
		}
		r, closer = f, f
	}

	p, err := NewProducer(r, format, opts...)
	if err != nil {
		closer.Close()
		return nil, nil, trace.Wrap(err)
	}
	return p, closer, nil
}

// NewProducer returns the producer for format.
func NewProducer(r io.Reader, format string, opts ...Option) (Producer, error) {
	switch format {
	case FormatCSV:
		return NewCSVProducer(r, opts...), nil
	case FormatJSONL:
		return NewJSONLProducer(r, opts...), nil
	default:
		return nil, trace.NotImplemented("unsupported fix format %q", format)
	}
}
