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

package sink

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/gravitational/trace"
)

// gcsWriter owns the client behind an object writer so both are released on
// Close.
type gcsWriter struct {
	*storage.Writer
	client *storage.Client
}

func (w *gcsWriter) Close() error {
	return trace.NewAggregate(
		trace.Wrap(w.Writer.Close(), "finalizing GCS object"),
		w.client.Close(),
	)
}

func newGCSWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	bucket, object, err := splitBucketPath(path, "gs://")
	if err != nil {
		return nil, trace.Wrap(err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, trace.Wrap(err, "creating GCS client")
	}

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "text/plain"

	return &gcsWriter{Writer: w, client: client}, nil
}
