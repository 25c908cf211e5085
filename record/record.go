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

// Package record holds the values carried by IGC flight recorder records and
// the field grammar each of them must satisfy.
package record

const (
	// CodeLen is the width of manufacturer, logger and extension codes.
	CodeLen = 3

	DefaultManufacturer = "XSI"
	DefaultLoggerID     = "Igc"
	DefaultIDExtension  = "LoggerLib"
)

// Code is a manufacturer or logger identifier of at most three characters.
// The zero value is the empty code.
type Code struct {
	s string
}

// Field names reported by identity code errors.
const (
	FieldManufacturer = "manufacturer id"
	FieldLoggerID     = "logger id"
)

// NewCode validates s. Shorter codes are kept as given, with no padding.
func NewCode(s string) (Code, error) {
	return NewFieldCode("code", s)
}

// NewFieldCode is NewCode reporting field in its *FieldError, so callers can
// tell which identity code was rejected.
func NewFieldCode(field, s string) (Code, error) {
	if len(s) > CodeLen {
		return Code{}, fieldErr(ErrInvalidFieldLength, field, s, "must be at most 3 characters")
	}
	return Code{s: s}, nil
}

// MustCode is NewCode for constants. It panics on invalid input.
func MustCode(s string) Code {
	c, err := NewCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Code) String() string { return c.s }

// Identity names the flight recorder in A and L records.
type Identity struct {
	Manufacturer Code
	LoggerID     Code
	IDExtension  string
}

// DefaultIdentity is the identity of a recorder that has not been configured.
func DefaultIdentity() Identity {
	return Identity{
		Manufacturer: MustCode(DefaultManufacturer),
		LoggerID:     MustCode(DefaultLoggerID),
		IDExtension:  DefaultIDExtension,
	}
}

// Header holds the H record fields written once at the top of a file.
type Header struct {
	Date            string // DDMMYY
	Pilot           string
	GliderType      string
	FirmwareVersion string
	HardwareVersion string
	LoggerType      string
	GPSType         string
	PressureSensor  string
	TimeZone        string // optional
}

// Fix is the payload of a B record.
type Fix struct {
	Time      string // HHMMSS
	Latitude  string // DDMMmmm + N/S
	Longitude string // DDDMMmmm + E/W
	// Valid is true for a 3D fix.
	Valid            bool
	PressureAltitude int // meters
	GPSAltitude      int // meters
	// Extension is appended verbatim and must follow the layout declared
	// by the last I record.
	Extension string
}

// Validate checks the fix fields in record order and reports the first
// violation.
func (f Fix) Validate() error {
	if err := ValidateTime(f.Time); err != nil {
		return err
	}
	if err := ValidateLatitude(f.Latitude); err != nil {
		return err
	}
	return ValidateLongitude(f.Longitude)
}

// ValidateDate checks a DDMMYY date.
func ValidateDate(date string) error {
	if len(date) != 6 || !allDigits(date) {
		return fieldErr(ErrInvalidDateFormat, "date", date, "must be DDMMYY")
	}
	return nil
}

// ValidateTime checks a HHMMSS time of day.
func ValidateTime(t string) error {
	if len(t) != 6 {
		return fieldErr(ErrInvalidTimeFormat, "time", t, "must be 6 characters long")
	}
	if !allDigits(t) {
		return fieldErr(ErrInvalidTimeFormat, "time", t, "must be HHMMSS")
	}
	return nil
}

// ValidateLatitude checks a DDMMmmmN/S latitude.
func ValidateLatitude(lat string) error {
	if len(lat) != 8 {
		return fieldErr(ErrInvalidLatitudeFormat, "latitude", lat, "must be 8 characters long")
	}
	if lat[7] != 'N' && lat[7] != 'S' {
		return fieldErr(ErrInvalidLatitudeFormat, "latitude", lat, "must end in N or S")
	}
	if !allDigits(lat[:7]) {
		return fieldErr(ErrInvalidLatitudeFormat, "latitude", lat, "must be DDMMmmmN/S")
	}
	return nil
}

// ValidateLongitude checks a DDDMMmmmE/W longitude.
func ValidateLongitude(lon string) error {
	if len(lon) != 9 {
		return fieldErr(ErrInvalidLongitudeFormat, "longitude", lon, "must be 9 characters long")
	}
	if lon[8] != 'E' && lon[8] != 'W' {
		return fieldErr(ErrInvalidLongitudeFormat, "longitude", lon, "must end in E or W")
	}
	if !allDigits(lon[:8]) {
		return fieldErr(ErrInvalidLongitudeFormat, "longitude", lon, "must be DDDMMmmmE/W")
	}
	return nil
}

// RequireField fails with ErrMissingRequiredField when value is empty.
func RequireField(field, value string) error {
	if value == "" {
		return fieldErr(ErrMissingRequiredField, field, value, "must be set")
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
