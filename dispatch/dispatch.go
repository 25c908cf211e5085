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

package dispatch

import (
	"io"
	"log/slog"

	"github.com/gravitational/trace"
	"golang.org/x/sync/errgroup"

	"github.com/gravitational/igc-logger/encoder"
)

// SinkWriter is a destination for encoded IGC lines.
type SinkWriter interface {
	io.WriteCloser
	SinkKey() string
}

// MultiSink copies every line to each of its writers. Writers sharing a
// SinkKey receive each line once.
type MultiSink struct {
	writers []SinkWriter
	bySink  map[string]SinkWriter
	log     *slog.Logger
}

type Option func(*MultiSink) error

func New(opts ...Option) (*MultiSink, error) {
	m := &MultiSink{
		bySink: make(map[string]SinkWriter),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, trace.Wrap(err)
		}
	}

	return m, nil
}

// WithWriter registers w. A second writer with the same key is ignored.
func WithWriter(w SinkWriter) Option {
	return func(m *MultiSink) error {
		if w == nil {
			return trace.BadParameter("nil writer")
		}
		key := w.SinkKey()
		if _, ok := m.bySink[key]; ok {
			return nil
		}
		m.bySink[key] = w
		m.writers = append(m.writers, w)
		return nil
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(m *MultiSink) error {
		m.log = log
		return nil
	}
}

// Write appends p to every writer.
func (m *MultiSink) Write(p []byte) (int, error) {
	if err := m.fanOut(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteLine appends line and the IGC line terminator to every writer.
func (m *MultiSink) WriteLine(line []byte) error {
	buf := make([]byte, 0, len(line)+len(encoder.LineTerminator))
	buf = append(buf, line...)
	buf = append(buf, encoder.LineTerminator...)
	return m.fanOut(buf)
}

func (m *MultiSink) fanOut(p []byte) error {
	if len(m.writers) == 0 {
		return trace.BadParameter("no writer registered")
	}

	var errs []error
	for _, w := range m.writers {
		if _, err := w.Write(p); err != nil {
			m.log.Warn("write failed", "sink", w.SinkKey(), "error", err)
			errs = append(errs, trace.Wrap(err, "writing to %s", w.SinkKey()))
		}
	}

	return trace.NewAggregate(errs...)
}

// SinkKeys lists the registered destinations in registration order.
func (m *MultiSink) SinkKeys() []string {
	keys := make([]string, 0, len(m.writers))
	for _, w := range m.writers {
		keys = append(keys, w.SinkKey())
	}
	return keys
}

// Close closes all writers concurrently. Uploading writers only finish
// their object on Close.
func (m *MultiSink) Close() error {
	var g errgroup.Group

	for _, w := range m.writers {
		w := w
		g.Go(func() error {
			if err := w.Close(); err != nil {
				return trace.Wrap(err, "closing %s", w.SinkKey())
			}
			m.log.Debug("closed sink", "sink", w.SinkKey())
			return nil
		})
	}

	return g.Wait()
}

var _ encoder.Sink = (*MultiSink)(nil)
