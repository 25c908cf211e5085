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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	kingpin "github.com/alecthomas/kingpin/v2"
	"github.com/gravitational/trace"

	"github.com/gravitational/igc-logger/config"
	"github.com/gravitational/igc-logger/coord"
	"github.com/gravitational/igc-logger/dispatch"
	"github.com/gravitational/igc-logger/encoder"
	"github.com/gravitational/igc-logger/fixsource"
	"github.com/gravitational/igc-logger/record"
	"github.com/gravitational/igc-logger/sink"
)

// resolveDate picks the header date: the configured one, then the flag, then
// today.
func resolveDate(configured, flag string, now time.Time) string {
	switch {
	case configured != "":
		return configured
	case flag != "":
		return flag
	default:
		return coord.DateString(now)
	}
}

func pathMeta(id record.Identity, h record.Header, flight int) *sink.PathMeta {
	meta := &sink.PathMeta{
		Manufacturer: id.Manufacturer.String(),
		LoggerID:     id.LoggerID.String(),
		Pilot:        h.Pilot,
		Flight:       flight,
	}
	if ts, err := time.Parse("020106", h.Date); err == nil {
		meta.Date = ts
	}
	return meta
}

func setupSinks(ctx context.Context, outs []string, meta *sink.PathMeta, log *slog.Logger) (*dispatch.MultiSink, error) {
	opts := []dispatch.Option{dispatch.WithLogger(log)}
	var opened []sink.KeyedWriter
	seen := make(map[string]bool)

	for _, out := range outs {
		path := sink.RenderPath(out, meta)
		if seen[path] {
			log.Debug("skipping duplicate output", "path", path)
			continue
		}
		seen[path] = true

		w, err := sink.New(ctx, path, nil)
		if err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return nil, trace.Wrap(err, "opening output %q", out)
		}
		opened = append(opened, w)
		opts = append(opts, dispatch.WithWriter(w))
	}

	ms, err := dispatch.New(opts...)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return ms, nil
}

// writeFlight writes one complete IGC file. A nil producer writes the
// header records only.
func writeFlight(ctx context.Context, enc *encoder.Encoder, exts []record.Extension, comments []string, p fixsource.Producer) error {
	if err := enc.WriteHeader(); err != nil {
		return trace.Wrap(err)
	}
	if p == nil {
		return nil
	}

	if len(exts) > 0 {
		if err := enc.WriteIRecord(exts); err != nil {
			return trace.Wrap(err)
		}
	}
	for _, c := range comments {
		if err := enc.WriteLRecord(c); err != nil {
			return trace.Wrap(err)
		}
	}

	if err := p.Produce(ctx, enc.WriteBRecord); err != nil {
		return trace.Wrap(err, "writing fixes")
	}

	return trace.Wrap(enc.WriteGRecord())
}

func run(args []string) error {
	ctx := context.Background()
	app := kingpin.New("igc-logger", "Write IGC flight recorder files")
	app.HelpFlag.Short('h')
	timeout := app.Flag(
		"timeout",
		"Maximum execution time (e.g. 30s, 2m); 0 means no timeout",
	).Default("0").Duration()
	debug := app.Flag("debug", "Enable debug logging").Bool()
	configPath := app.Flag("config", "Flight configuration YAML file").Short('c').Envar("IGC_CONFIG").ExistingFile()
	envFile := app.Flag("env-file", "Dotenv file with IGC_* overrides").Envar("IGC_ENV_FILE").ExistingFile()
	outs := app.Flag(
		"out",
		"Output(s): '-' for stdout, /dev/null, s3://bucket/key, gs://bucket/object or a file. Accepts {{IGCNAME}} and other placeholders",
	).Short('o').Default("-").Strings()
	date := app.Flag("date", "Flight date (DDMMYY) when the configuration has none").String()
	flight := app.Flag("flight", "Flight number of the day").Default("1").Int()

	encodeCmd := app.Command("encode", "Encode recorded fixes as an IGC file")
	format := encodeCmd.Flag("format", "Fix file format (csv, jsonl); inferred from the extension when empty").Enum(fixsource.FormatCSV, fixsource.FormatJSONL)
	comments := encodeCmd.Flag("comment", "L record comment").Strings()
	maxJump := encodeCmd.Flag("max-jump-km", "Reject a fix further than this from the previous one; 0 disables").Default("0").Float64()
	fixes := encodeCmd.Arg("fixes", "Fix file ('-' for stdin)").Required().String()

	headerCmd := app.Command("header", "Write the A and H records only")

	cmd, err := app.Parse(args)
	if err != nil {
		return trace.Wrap(err, "failed to parse command line arguments")
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var cancel context.CancelFunc
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		return trace.Wrap(err, "loading configuration")
	}
	id, err := cfg.Identity()
	if err != nil {
		return trace.Wrap(err)
	}
	exts, err := cfg.ExtensionSet()
	if err != nil {
		return trace.Wrap(err)
	}
	header := cfg.RecordHeader()
	header.Date = resolveDate(header.Date, *date, time.Now())

	var producer fixsource.Producer
	switch cmd {
	case encodeCmd.FullCommand():
		p, closer, err := fixsource.Open(*fixes, *format, fixsource.WithMaxJumpKM(*maxJump))
		if err != nil {
			return trace.Wrap(err)
		}
		defer closer.Close()
		producer = p
	case headerCmd.FullCommand():
	default:
		return trace.NotImplemented("unimplemented command %q", cmd)
	}

	ms, err := setupSinks(ctx, *outs, pathMeta(id, header, *flight), log)
	if err != nil {
		return trace.Wrap(err)
	}
	log.Debug("writing flight", "sinks", ms.SinkKeys(), "date", header.Date)

	enc := encoder.New(ms,
		encoder.WithIdentity(id),
		encoder.WithHeader(header),
		encoder.WithLogger(log),
	)

	if err := writeFlight(ctx, enc, exts, *comments, producer); err != nil {
		// Uploads are aborted on a failed flight.
		cancel()
		_ = ms.Close()
		return trace.Wrap(err)
	}

	return trace.Wrap(ms.Close())
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
