// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package financials

import (
	"math"
	"strconv"
	"strings"
)

// SafeFloat converts a loosely typed provider value into a float. Missing,
// null-like, and unparseable values are treated as 0.
func SafeFloat(value any) float64 {
	var result float64

	switch val := value.(type) {
	case nil:
		return 0
	case float64:
		result = val
	case float32:
		result = float64(val)
	case int:
		result = float64(val)
	case int64:
		result = float64(val)
	case string:
		str := strings.TrimSpace(val)
		switch str {
		case "", "None", "null":
			return 0
		}

		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0
		}
		result = parsed
	default:
		return 0
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}

	return result
}

// Round rounds x to the given number of decimal places. The exact binary
// value decides the direction and true ties go to the even digit.
func Round(x float64, places int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return 0
	}

	return rounded
}

// ToMillions rescales an absolute currency amount to millions with three
// decimal places
func ToMillions(x float64) float64 {
	return Round(x/1_000_000, 3)
}
