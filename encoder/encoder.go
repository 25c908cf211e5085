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

// Package encoder writes IGC flight recorder records to a [Sink].
//
// Each Write method validates its input, assembles one fixed layout line and
// hands it to the sink in a single WriteLine call. Nothing reaches the sink for
// a record that fails validation. WriteHeader emits several lines and stops at
// the first invalid field; lines already written stay written.
//
// An Encoder is not safe for concurrent use.
package encoder

import (
	"io"
	"log/slog"
	"strings"

	"github.com/gravitational/igc-logger/record"
	"github.com/gravitational/trace"
)

// GRecordPlaceholder is written in place of a security record.
const GRecordPlaceholder = "GNotImplemented"

// Encoder holds the recorder identity and flight header and writes records
// for them.
type Encoder struct {
	sink     Sink
	identity record.Identity
	header   record.Header
	log      *slog.Logger

	headerWritten bool
}

type Option func(*Encoder)

// WithIdentity replaces the default recorder identity.
func WithIdentity(id record.Identity) Option {
	return func(e *Encoder) {
		e.identity = id
	}
}

// WithHeader sets the flight header written by WriteHeader.
func WithHeader(h record.Header) Option {
	return func(e *Encoder) {
		e.header = h
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Encoder) {
		e.log = log
	}
}

// New creates an Encoder writing to sink with [record.DefaultIdentity].
func New(sink Sink, opts ...Option) *Encoder {
	e := &Encoder{
		sink:     sink,
		identity: record.DefaultIdentity(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Identity returns the current recorder identity.
func (e *Encoder) Identity() record.Identity { return e.identity }

// Header returns the current flight header.
func (e *Encoder) Header() record.Header { return e.header }

func (e *Encoder) SetManufacturerID(s string) error {
	c, err := record.NewFieldCode(record.FieldManufacturer, s)
	if err != nil {
		return trace.Wrap(err, "setting manufacturer id")
	}
	e.identity.Manufacturer = c
	return nil
}

func (e *Encoder) SetLoggerID(s string) error {
	c, err := record.NewFieldCode(record.FieldLoggerID, s)
	if err != nil {
		return trace.Wrap(err, "setting logger id")
	}
	e.identity.LoggerID = c
	return nil
}

func (e *Encoder) SetIDExtension(s string) {
	e.identity.IDExtension = s
}

// SetHeader replaces the flight header. The header is fixed for a file once
// WriteHeader has succeeded.
func (e *Encoder) SetHeader(h record.Header) error {
	if e.headerWritten {
		return trace.BadParameter("flight header already written")
	}
	e.header = h
	return nil
}

// headerField is one "HF" line after the date.
type headerField struct {
	name     string
	prefix   string
	value    string
	required bool
}

func (e *Encoder) headerFields() []headerField {
	h := e.header
	return []headerField{
		{name: "pilot", prefix: "HFPLTPILOTINCHARGE:", value: h.Pilot, required: true},
		{name: "glider type", prefix: "HFGTYGLIDERTYPE:", value: h.GliderType, required: true},
		{prefix: "HFDTMGPSDATUM:", value: "WGS84"},
		{name: "firmware version", prefix: "HFRFWFIRMWAREVERSION:", value: h.FirmwareVersion, required: true},
		{name: "hardware version", prefix: "HFRHWHARDWAREVERSION:", value: h.HardwareVersion, required: true},
		{name: "logger type", prefix: "HFFTYFRTYPE:", value: h.LoggerType, required: true},
		{name: "gps type", prefix: "HFGPSTYPE:", value: h.GPSType, required: true},
		{name: "pressure sensor type", prefix: "HFPRSPRESSALTSENSOR:", value: h.PressureSensor, required: true},
		{name: "time zone", prefix: "HFTZNTIMEZONE:", value: h.TimeZone},
	}
}

// WriteHeader writes the A record followed by the H records.
func (e *Encoder) WriteHeader() error {
	id := e.identity
	if err := e.emit("A", "A"+id.Manufacturer.String()+id.LoggerID.String()+id.IDExtension); err != nil {
		return trace.Wrap(err)
	}

	if err := record.ValidateDate(e.header.Date); err != nil {
		return trace.Wrap(err)
	}
	if err := e.emit("H", "HFDTEDATE"+e.header.Date); err != nil {
		return trace.Wrap(err)
	}

	for _, f := range e.headerFields() {
		if f.required {
			if err := record.RequireField(f.name, f.value); err != nil {
				return trace.Wrap(err)
			}
		} else if f.value == "" {
			continue
		}
		if err := e.emit("H", f.prefix+f.value); err != nil {
			return trace.Wrap(err)
		}
	}

	e.headerWritten = true
	return nil
}

// WriteBRecord writes a position fix.
func (e *Encoder) WriteBRecord(fix record.Fix) error {
	if err := fix.Validate(); err != nil {
		return trace.Wrap(err)
	}

	var b strings.Builder
	b.Grow(record.BRecordLen + len(fix.Extension))
	b.WriteByte('B')
	b.WriteString(fix.Time)
	b.WriteString(fix.Latitude)
	b.WriteString(fix.Longitude)
	if fix.Valid {
		b.WriteByte('A')
	} else {
		b.WriteByte('V')
	}
	b.WriteString(FormatAltitude(fix.PressureAltitude))
	b.WriteString(FormatAltitude(fix.GPSAltitude))
	b.WriteString(fix.Extension)

	return trace.Wrap(e.emit("B", b.String()))
}

// WriteLRecord writes a comment attributed to the manufacturer.
func (e *Encoder) WriteLRecord(comment string) error {
	return trace.Wrap(e.emit("L", "L"+e.identity.Manufacturer.String()+comment))
}

// WriteIRecord declares the extensions appended to subsequent B records.
//
// The count and every byte offset are written as two decimal digits. A layout
// that needs more than 99 extensions or reaches past byte 99 is rejected with
// [record.ErrInvalidFieldLength] instead of being written truncated, as is any
// descriptor that fails [record.Extension.Validate].
func (e *Encoder) WriteIRecord(exts []record.Extension) error {
	for i, ext := range exts {
		if err := ext.Validate(); err != nil {
			return trace.Wrap(err, "extension %d", i)
		}
	}

	count, err := formatTwoDigits("extension count", len(exts))
	if err != nil {
		return trace.Wrap(err)
	}

	var b strings.Builder
	b.WriteByte('I')
	b.WriteString(count)
	for _, span := range record.ExtensionLayout(exts) {
		start, err := formatTwoDigits("extension "+span.Code+" start byte", span.Start)
		if err != nil {
			return trace.Wrap(err)
		}
		end, err := formatTwoDigits("extension "+span.Code+" end byte", span.End)
		if err != nil {
			return trace.Wrap(err)
		}
		b.WriteString(start)
		b.WriteString(end)
		b.WriteString(span.Code)
	}

	return trace.Wrap(e.emit("I", b.String()))
}

// WriteGRecord writes the security record placeholder. Signing is not
// implemented.
func (e *Encoder) WriteGRecord() error {
	return trace.Wrap(e.emit("G", GRecordPlaceholder))
}

func (e *Encoder) emit(kind, line string) error {
	e.log.Debug("writing record", "type", kind, "length", len(line))
	if err := e.sink.WriteLine([]byte(line)); err != nil {
		return trace.Wrap(err, "writing %s record", kind)
	}
	return nil
}
