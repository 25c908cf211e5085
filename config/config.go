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

// Package config loads the flight configuration: recorder identity, header
// fields and B record extensions.
//
// Values come from a YAML file first, then from IGC_* environment variables,
// optionally seeded from a dotenv file. Environment values win.
package config

import (
	"io"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/gravitational/trace"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gravitational/igc-logger/record"
)

// Logger holds the recorder identity.
type Logger struct {
	Manufacturer string `yaml:"manufacturer" env:"IGC_MANUFACTURER"`
	ID           string `yaml:"id" env:"IGC_LOGGER_ID"`
	IDExtension  string `yaml:"id_extension" env:"IGC_ID_EXTENSION"`
}

// Header holds the H record fields.
type Header struct {
	Date            string `yaml:"date" env:"IGC_DATE"`
	Pilot           string `yaml:"pilot" env:"IGC_PILOT"`
	GliderType      string `yaml:"glider_type" env:"IGC_GLIDER_TYPE"`
	FirmwareVersion string `yaml:"firmware_version" env:"IGC_FIRMWARE_VERSION"`
	HardwareVersion string `yaml:"hardware_version" env:"IGC_HARDWARE_VERSION"`
	LoggerType      string `yaml:"logger_type" env:"IGC_LOGGER_TYPE"`
	GPSType         string `yaml:"gps_type" env:"IGC_GPS_TYPE"`
	PressureSensor  string `yaml:"pressure_sensor" env:"IGC_PRESSURE_SENSOR"`
	TimeZone        string `yaml:"time_zone" env:"IGC_TIME_ZONE"`
}

// Extension is one I record descriptor.
type Extension struct {
	Code  string `yaml:"code"`
	Width int    `yaml:"width"`
}

// Flight is the complete flight configuration.
type Flight struct {
	Logger     Logger      `yaml:"logger"`
	Header     Header      `yaml:"header"`
	Extensions []Extension `yaml:"extensions"`
}

// Default returns a configuration with the default recorder identity.
func Default() *Flight {
	return &Flight{
		Logger: Logger{
			Manufacturer: record.DefaultManufacturer,
			ID:           record.DefaultLoggerID,
			IDExtension:  record.DefaultIDExtension,
		},
	}
}

// Load reads path (if set), then the dotenv file (if set), then applies
// environment overrides.
func Load(path, dotenvPath string) (*Flight, error) {
	f := Default()
	if path != "" {
		var err error
		if f, err = LoadFile(path); err != nil {
			return nil, trace.Wrap(err)
		}
	}

	if dotenvPath != "" {
		// Variables already set in the environment are kept.
		if err := godotenv.Load(dotenvPath); err != nil {
			return nil, trace.Wrap(err, "loading dotenv file %q", dotenvPath)
		}
	}

	if err := env.Parse(f); err != nil {
		return nil, trace.Wrap(err, "could not read flight configuration from env")
	}

	return f, nil
}

// LoadFile reads a YAML flight configuration. Missing identity fields keep
// their defaults.
func LoadFile(path string) (*Flight, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, trace.Wrap(err, "could not read flight configuration")
	}
	defer file.Close()

	f, err := decode(file)
	if err != nil {
		return nil, trace.Wrap(err, "reading %q", path)
	}
	return f, nil
}

func decode(r io.Reader) (*Flight, error) {
	f := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && err != io.EOF {
		return nil, trace.Wrap(err, "failed to unmarshal YAML")
	}
	return f, nil
}

// Identity validates the logger section.
func (f *Flight) Identity() (record.Identity, error) {
	mfr, err := record.NewFieldCode(record.FieldManufacturer, f.Logger.Manufacturer)
	if err != nil {
		return record.Identity{}, trace.Wrap(err, "logger.manufacturer")
	}
	id, err := record.NewFieldCode(record.FieldLoggerID, f.Logger.ID)
	if err != nil {
		return record.Identity{}, trace.Wrap(err, "logger.id")
	}
	return record.Identity{
		Manufacturer: mfr,
		LoggerID:     id,
		IDExtension:  f.Logger.IDExtension,
	}, nil
}

// RecordHeader maps the header section. Field checks happen when the header
// is written.
func (f *Flight) RecordHeader() record.Header {
	h := f.Header
	return record.Header{
		Date:            h.Date,
		Pilot:           h.Pilot,
		GliderType:      h.GliderType,
		FirmwareVersion: h.FirmwareVersion,
		HardwareVersion: h.HardwareVersion,
		LoggerType:      h.LoggerType,
		GPSType:         h.GPSType,
		PressureSensor:  h.PressureSensor,
		TimeZone:        h.TimeZone,
	}
}

// ExtensionSet validates the extensions section.
func (f *Flight) ExtensionSet() ([]record.Extension, error) {
	exts := make([]record.Extension, 0, len(f.Extensions))
	for i, e := range f.Extensions {
		ext, err := record.NewExtension(e.Width, e.Code)
		if err != nil {
			return nil, trace.Wrap(err, "extensions[%d]", i)
		}
		exts = append(exts, ext)
	}
	return exts, nil
}
