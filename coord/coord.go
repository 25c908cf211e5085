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

// Package coord renders native positions and times as IGC fix fields.
package coord

import (
	"fmt"
	"math"
	"time"

	"github.com/gravitational/trace"
	"github.com/skypies/geo"
)

// LatitudeString renders decimal degrees as DDMMmmmN/S. Values that are not
// finite or lie outside [-90, 90] are rejected.
func LatitudeString(deg float64) (string, error) {
	if err := checkDegrees("latitude", deg, 90); err != nil {
		return "", trace.Wrap(err)
	}
	hemi := byte('N')
	if deg < 0 {
		hemi = 'S'
	}
	d, mmm := split(math.Abs(deg))
	return fmt.Sprintf("%02d%05d%c", d, mmm, hemi), nil
}

// LongitudeString renders decimal degrees as DDDMMmmmE/W. Values that are not
// finite or lie outside [-180, 180] are rejected.
func LongitudeString(deg float64) (string, error) {
	if err := checkDegrees("longitude", deg, 180); err != nil {
		return "", trace.Wrap(err)
	}
	hemi := byte('E')
	if deg < 0 {
		hemi = 'W'
	}
	d, mmm := split(math.Abs(deg))
	return fmt.Sprintf("%03d%05d%c", d, mmm, hemi), nil
}

// FromLatlong renders both halves of a position.
func FromLatlong(pos geo.Latlong) (lat, lon string, err error) {
	if lat, err = LatitudeString(pos.Lat); err != nil {
		return "", "", trace.Wrap(err)
	}
	if lon, err = LongitudeString(pos.Long); err != nil {
		return "", "", trace.Wrap(err)
	}
	return lat, lon, nil
}

func checkDegrees(name string, deg, limit float64) error {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return trace.BadParameter("%s %v is not a number", name, deg)
	}
	if math.Abs(deg) > limit {
		return trace.BadParameter("%s %v is outside [-%v, %v]", name, deg, limit, limit)
	}
	return nil
}

// TimeString renders the UTC time of day as HHMMSS.
func TimeString(t time.Time) string {
	return t.UTC().Format("150405")
}

// DateString renders the UTC date as DDMMYY.
func DateString(t time.Time) string {
	return t.UTC().Format("020106")
}

// split returns whole degrees and thousandths of a minute. Rounding that
// reaches 60 minutes carries into the degrees.
func split(abs float64) (deg, milliMinutes int) {
	deg = int(abs)
	milliMinutes = int(math.Round((abs - float64(deg)) * 60 * 1000))
	if milliMinutes >= 60000 {
		deg++
		milliMinutes -= 60000
	}
	return deg, milliMinutes
}
