// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package numfmt holds the single rounding rule applied everywhere a
// score crosses a storage or comparison boundary: round half away
// from zero to 5 decimal places.
package numfmt

import "math"

// Round5 rounds f to 5 decimal places.
func Round5(f float64) float64 {
	const scale = 1e5
	if f >= 0 {
		return math.Floor(f*scale+0.5) / scale
	}
	return math.Ceil(f*scale-0.5) / scale
}
