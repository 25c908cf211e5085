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
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gravitational/trace"
)

// pipeUpload feeds an IGC file to an upload running in the background. The
// object only exists once Close has returned nil.
type pipeUpload struct {
	mu     sync.Mutex
	pw     *io.PipeWriter
	result chan error
	closed bool
}

// startUpload runs upload with the read end of a pipe. If upload stops
// early, pending and later writes fail with its error.
func startUpload(ctx context.Context, upload func(ctx context.Context, body io.Reader) error) *pipeUpload {
	pr, pw := io.Pipe()
	u := &pipeUpload{pw: pw, result: make(chan error, 1)}

	go func() {
		err := upload(ctx, pr)
		pr.CloseWithError(err)
		u.result <- err
	}()

	return u
}

func (u *pipeUpload) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0, trace.BadParameter("write after close of IGC upload")
	}
	n, err := u.pw.Write(p)
	return n, trace.Wrap(err)
}

// Close ends the file and waits for the upload. Calling it again is a no-op.
func (u *pipeUpload) Close() error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.closed = true
	u.mu.Unlock()

	_ = u.pw.Close()
	return trace.Wrap(<-u.result)
}

func newS3Writer(ctx context.Context, path string) (io.WriteCloser, error) {
	bucket, key, err := splitBucketPath(path, "s3://")
	if err != nil {
		return nil, trace.Wrap(err)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, trace.Wrap(err, "loading AWS configuration")
	}
	uploader := manager.NewUploader(s3.NewFromConfig(cfg))

	return startUpload(ctx, func(ctx context.Context, body io.Reader) error {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			ContentType: aws.String("text/plain"),
			Body:        body,
		})
		return trace.Wrap(err, "uploading %s", path)
	}), nil
}
