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

// Package sink opens the destinations an IGC file is written to.
package sink

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gravitational/trace"
)

// KeyedWriter is a destination identified by a key, used to avoid writing
// the same file twice.
type KeyedWriter interface {
	io.WriteCloser
	SinkKey() string
}

// PathMeta fills the placeholders of an output path template.
type PathMeta struct {
	Date         time.Time
	Manufacturer string
	LoggerID     string
	Pilot        string
	Flight       int // flight number of the day, starting at 1
}

// New opens the destination for path after expanding its placeholders.
//
//   - "-" or "" writes to stdout
//   - "/dev/null" discards
//   - "s3://bucket/key" streams to an S3 object
//   - "gs://bucket/object" streams to a Google Cloud Storage object
//   - anything else creates a local file
func New(ctx context.Context, path string, meta *PathMeta) (KeyedWriter, error) {
	path = RenderPath(path, meta)

	switch path {
	case "-", "":
		return &keyedWriter{WriteCloser: nopCloser{os.Stdout}, key: "stdout"}, nil
	case "/dev/null":
		return &keyedWriter{WriteCloser: nopCloser{io.Discard}, key: "null"}, nil
	}

	switch {
	case strings.HasPrefix(path, "s3://"):
		w, err := newS3Writer(ctx, path)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		return &keyedWriter{WriteCloser: w, key: path}, nil
	case strings.HasPrefix(path, "gs://"):
		w, err := newGCSWriter(ctx, path)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		return &keyedWriter{WriteCloser: w, key: path}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &keyedWriter{WriteCloser: f, key: path}, nil
}

// IGCFileName is the long IGC file name YYYY-MM-DD-MMM-LLL-FF.IGC.
func IGCFileName(meta PathMeta) string {
	flight := meta.Flight
	if flight < 1 {
		flight = 1
	}
	return fmt.Sprintf("%s-%s-%s-%02d.IGC",
		meta.Date.UTC().Format("2006-01-02"), meta.Manufacturer, meta.LoggerID, flight)
}

// RenderPath replaces {{KEY}} placeholders in template with values from meta.
func RenderPath(template string, meta *PathMeta) string {
	if template == "" || meta == nil {
		return template
	}

	ts := meta.Date
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC()

	named := *meta
	named.Date = ts

	replacements := map[string]string{
		"YEAR":         ts.Format("2006"),
		"MONTH":        ts.Format("01"),
		"DAY":          ts.Format("02"),
		"MANUFACTURER": meta.Manufacturer,
		"LOGGER":       meta.LoggerID,
		"PILOT":        meta.Pilot,
		"FLIGHT":       fmt.Sprintf("%02d", max(meta.Flight, 1)),
		"IGCNAME":      IGCFileName(named),
	}

	path := template
	for k, v := range replacements {
		placeholder := "{{" + k + "}}"
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(v))
	}

	return path
}

// splitBucketPath splits scheme://bucket/key.
func splitBucketPath(path, scheme string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(path, scheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", trace.BadParameter("invalid %s path: %q", strings.TrimSuffix(scheme, "://"), path)
	}
	return parts[0], parts[1], nil
}

type keyedWriter struct {
	io.WriteCloser
	key string
}

func (w *keyedWriter) SinkKey() string {
	return w.key
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
