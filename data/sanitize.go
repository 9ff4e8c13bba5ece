// Copyright 2025
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
package data

import "math"

// Sanitize recursively replaces NaN and ±Inf values with nil so that the
// resulting structure is representable as JSON. Maps, slices and scalars are
// supported; every other value passes through unchanged.
func Sanitize(value any) any {
	switch val := value.(type) {
	case map[string]any:
		cleaned := make(map[string]any, len(val))
		for k, v := range val {
			cleaned[k] = Sanitize(v)
		}
		return cleaned
	case []any:
		cleaned := make([]any, len(val))
		for idx, v := range val {
			cleaned[idx] = Sanitize(v)
		}
		return cleaned
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return val
	default:
		return value
	}
}
