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
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitational/igc-logger/encoder"
	"github.com/gravitational/igc-logger/fixsource"
	"github.com/gravitational/igc-logger/record"
)

func flightHeader() record.Header {
	return record.Header{
		Date:            "150724",
		Pilot:           "J Doe",
		GliderType:      "LS8",
		FirmwareVersion: "1.0",
		HardwareVersion: "rev2",
		LoggerType:      "XSI,IgcLogger",
		GPSType:         "u-blox M8",
		PressureSensor:  "BMP388",
	}
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2024, 7, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "010124", resolveDate("010124", "020224", now))
	assert.Equal(t, "020224", resolveDate("", "020224", now))
	assert.Equal(t, "150724", resolveDate("", "", now))
}

func TestPathMeta(t *testing.T) {
	meta := pathMeta(record.DefaultIdentity(), flightHeader(), 2)
	assert.Equal(t, "XSI", meta.Manufacturer)
	assert.Equal(t, "Igc", meta.LoggerID)
	assert.Equal(t, "J Doe", meta.Pilot)
	assert.Equal(t, 2, meta.Flight)
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), meta.Date)
}

func TestWriteFlight(t *testing.T) {
	fixes := `time,lat,lon,valid,pressure_alt,gps_alt,extension
123456,51.5,-0.02,true,1234,1250,001
2024-07-15T10:00:00Z,46,7.5,false,-5,0,042
`
	var buf bytes.Buffer
	enc := encoder.New(encoder.NewLineSink(&buf), encoder.WithHeader(flightHeader()))
	exts := []record.Extension{{Width: 3, Code: "FXA"}}

	err := writeFlight(context.Background(), enc, exts, []string{"first flight"}, fixsource.NewCSVProducer(strings.NewReader(fixes)))
	require.NoError(t, err)

	got := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	require.Len(t, got, 15)
	assert.Equal(t, "AXSIIgcLoggerLib", got[0])
	assert.Equal(t, "HFDTEDATE150724", got[1])
	assert.Equal(t, []string{
		"I013638FXA",
		"LXSIfirst flight",
		"B1234565130000N00001200WA0123401250001",
		"B1000004600000N00730000EV-000500000042",
		"GNotImplemented",
	}, got[10:])
}

func TestWriteFlight_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	enc := encoder.New(encoder.NewLineSink(&buf), encoder.WithHeader(flightHeader()))

	require.NoError(t, writeFlight(context.Background(), enc, nil, []string{"ignored"}, nil))
	assert.Equal(t, 10, strings.Count(buf.String(), "\r\n"))
	assert.NotContains(t, buf.String(), "GNotImplemented")
}

func TestWriteFlight_BadFix(t *testing.T) {
	var buf bytes.Buffer
	enc := encoder.New(encoder.NewLineSink(&buf), encoder.WithHeader(flightHeader()))
	fixes := "time,lat,lon,valid,pressure_alt,gps_alt\n99,51.5,0,true,0,0\n"

	err := writeFlight(context.Background(), enc, nil, nil, fixsource.NewCSVProducer(strings.NewReader(fixes)))
	require.ErrorIs(t, err, record.ErrInvalidTimeFormat)
	assert.NotContains(t, buf.String(), "GNotImplemented")
}

func TestSetupSinks(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	meta := pathMeta(record.DefaultIdentity(), flightHeader(), 1)

	ms, err := setupSinks(context.Background(), []string{
		filepath.Join(dir, "{{IGCNAME}}"),
		filepath.Join(dir, "{{IGCNAME}}"),
		"/dev/null",
	}, meta, log)
	require.NoError(t, err)

	want := filepath.Join(dir, "2024-07-15-XSI-Igc-01.IGC")
	assert.Equal(t, []string{want, "null"}, ms.SinkKeys())

	require.NoError(t, ms.WriteLine([]byte("AXSIIgcLoggerLib")))
	require.NoError(t, ms.Close())

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "AXSIIgcLoggerLib\r\n", string(data))

	_, err = setupSinks(context.Background(), []string{"s3://bucket-only"}, meta, log)
	require.Error(t, err)
}

const runConfig = `
logger:
  manufacturer: LXN
  id: A1B
  id_extension: "FLIGHT:1"
header:
  pilot: J Doe
  glider_type: LS8
  firmware_version: "1.0"
  hardware_version: rev2
  logger_type: LXN,Nano
  gps_type: u-blox M8
  pressure_sensor: BMP388
`

// unsetEnv removes variables that would override the test configuration.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\r\n"))
	return strings.Split(strings.TrimSuffix(string(data), "\r\n"), "\r\n")
}

func TestRun(t *testing.T) {
	unsetEnv(t, "IGC_CONFIG", "IGC_ENV_FILE", "IGC_DATE", "IGC_MANUFACTURER", "IGC_LOGGER_ID", "IGC_PILOT")

	dir := t.TempDir()
	cfg := filepath.Join(dir, "flight.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(runConfig), 0o600))
	out := filepath.Join(dir, "{{IGCNAME}}")

	t.Run("header with date flag", func(t *testing.T) {
		require.NoError(t, run([]string{"header", "--config", cfg, "--out", out, "--date", "150724", "--flight", "2"}))

		got := readLines(t, filepath.Join(dir, "2024-07-15-LXN-A1B-02.IGC"))
		require.Len(t, got, 10)
		assert.Equal(t, "ALXNA1BFLIGHT:1", got[0])
		assert.Equal(t, "HFDTEDATE150724", got[1])
		assert.Equal(t, "HFPRSPRESSALTSENSOR:BMP388", got[9])
	})

	t.Run("header date defaults to today", func(t *testing.T) {
		path := filepath.Join(dir, "today.IGC")
		require.NoError(t, run([]string{"header", "--config", cfg, "--out", path}))

		got := readLines(t, path)
		require.Len(t, got, 10)
		assert.Regexp(t, `^HFDTEDATE\d{6}$`, got[1])
	})

	t.Run("encode", func(t *testing.T) {
		fixes := filepath.Join(dir, "fixes.csv")
		require.NoError(t, os.WriteFile(fixes, []byte("time,lat,lon,valid,pressure_alt,gps_alt\n123456,51.5,-0.02,true,1234,1250\n"), 0o600))
		path := filepath.Join(dir, "encoded.IGC")

		require.NoError(t, run([]string{"encode", "--config", cfg, "--out", path, "--date", "150724", "--comment", "hello", fixes}))

		got := readLines(t, path)
		require.Len(t, got, 13)
		assert.Equal(t, []string{
			"LLXNhello",
			"B1234565130000N00001200WA0123401250",
			"GNotImplemented",
		}, got[10:])
	})

	t.Run("encode rejects jump", func(t *testing.T) {
		fixes := filepath.Join(dir, "jump.jsonl")
		require.NoError(t, os.WriteFile(fixes, []byte(
			`{"time":"100000","lat":51.5,"lon":-0.02,"valid":true}`+"\n"+
				`{"time":"100001","lat":46,"lon":7.5,"valid":true}`+"\n"), 0o600))

		err := run([]string{"encode", "--config", cfg, "--out", "/dev/null", "--date", "150724", "--max-jump-km", "50", fixes})
		require.Error(t, err)
		assert.ErrorContains(t, err, "previous fix")
	})

	t.Run("bad arguments", func(t *testing.T) {
		require.Error(t, run([]string{"bogus"}))
		require.Error(t, run(nil))
		require.Error(t, run([]string{"encode", "--config", cfg, "--format", "gpx", "fixes.gpx"}))
	})
}
