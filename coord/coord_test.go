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

package coord

import (
	"math"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/skypies/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitational/igc-logger/record"
)

func TestLatitudeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		deg  float64
		want string
	}{
		{deg: 51.5, want: "5130000N"},
		{deg: -33.985385, want: "3359123S"},
		{deg: 0, want: "0000000N"},
		{deg: 45.999999, want: "4600000N"},
		{deg: 90, want: "9000000N"},
		{deg: -90, want: "9000000S"},
	}
	for _, tt := range tests {
		got, err := LatitudeString(tt.deg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "LatitudeString(%v)", tt.deg)
		require.NoError(t, record.ValidateLatitude(got))
	}
}

func TestLongitudeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		deg  float64
		want string
	}{
		{deg: 0.02, want: "00001200E"},
		{deg: -70.20575, want: "07012345W"},
		{deg: 179.9999999, want: "18000000E"},
		{deg: -180, want: "18000000W"},
	}
	for _, tt := range tests {
		got, err := LongitudeString(tt.deg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "LongitudeString(%v)", tt.deg)
		require.NoError(t, record.ValidateLongitude(got))
	}
}

func TestInvalidDegrees(t *testing.T) {
	t.Parallel()
	for _, deg := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 90.0001, -123} {
		_, err := LatitudeString(deg)
		require.Error(t, err, "latitude %v", deg)
		assert.True(t, trace.IsBadParameter(err), "latitude %v", deg)
	}
	for _, deg := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 180.5, -200} {
		_, err := LongitudeString(deg)
		require.Error(t, err, "longitude %v", deg)
		assert.True(t, trace.IsBadParameter(err), "longitude %v", deg)
	}
}

func TestFromLatlong(t *testing.T) {
	lat, lon, err := FromLatlong(geo.Latlong{Lat: 51.5, Long: -0.02})
	require.NoError(t, err)
	assert.Equal(t, "5130000N", lat)
	assert.Equal(t, "00001200W", lon)

	_, _, err = FromLatlong(geo.Latlong{Lat: math.NaN(), Long: 0})
	require.ErrorContains(t, err, "latitude")

	_, _, err = FromLatlong(geo.Latlong{Lat: 10, Long: 181})
	require.ErrorContains(t, err, "longitude")
}

func TestTimeAndDateString(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "020405", TimeString(ts))
	assert.Equal(t, "020124", DateString(ts))
	require.NoError(t, record.ValidateTime(TimeString(ts)))
	require.NoError(t, record.ValidateDate(DateString(ts)))
}
