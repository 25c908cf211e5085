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

package encoder

import (
	"strconv"
	"strings"

	"github.com/gravitational/igc-logger/record"
	"github.com/gravitational/trace"
)

const (
	altitudeWidth = 5

	// MinAltitude and MaxAltitude bound what fits in a five character
	// altitude field. The sign of a negative value takes one position.
	MinAltitude = -9999
	MaxAltitude = 99999
)

// FormatAltitude renders meters as the five character B record altitude
// field: zero padded, with a leading '-' for negative values. Values outside
// [MinAltitude, MaxAltitude] saturate to the nearest bound.
func FormatAltitude(meters int) string {
	meters = min(max(meters, MinAltitude), MaxAltitude)
	if meters < 0 {
		return "-" + zeroPad(strconv.Itoa(-meters), altitudeWidth-1)
	}
	return zeroPad(strconv.Itoa(meters), altitudeWidth)
}

// formatTwoDigits renders n for the I record count and offset fields.
func formatTwoDigits(field string, n int) (string, error) {
	if n < 0 || n > record.MaxOffset {
		return "", trace.Wrap(&record.FieldError{
			Field:  field,
			Value:  strconv.Itoa(n),
			Reason: "does not fit in two digits",
			Err:    record.ErrInvalidFieldLength,
		})
	}
	return zeroPad(strconv.Itoa(n), 2), nil
}

func zeroPad(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
