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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeNestedValues(t *testing.T) {
	doc := map[string]any{
		"trailingPE": math.NaN(),
		"beta":       1.25,
		"sector":     "Technology",
		"employees":  int64(5000),
		"history": []any{
			math.Inf(1),
			map[string]any{
				"eps":     math.Inf(-1),
				"revenue": 1000.0,
			},
		},
	}

	cleaned, ok := Sanitize(doc).(map[string]any)
	require.True(t, ok)

	assert.Nil(t, cleaned["trailingPE"])
	assert.Equal(t, 1.25, cleaned["beta"])
	assert.Equal(t, "Technology", cleaned["sector"])
	assert.Equal(t, int64(5000), cleaned["employees"])

	history, ok := cleaned["history"].([]any)
	require.True(t, ok)
	assert.Nil(t, history[0])

	nested, ok := history[1].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, nested["eps"])
	assert.Equal(t, 1000.0, nested["revenue"])
}

func TestSanitizeScalars(t *testing.T) {
	assert.Nil(t, Sanitize(math.NaN()))
	assert.Nil(t, Sanitize(math.Inf(1)))
	assert.Nil(t, Sanitize(math.Inf(-1)))
	assert.Equal(t, 3.14, Sanitize(3.14))

	assert.Nil(t, Sanitize(float32(math.NaN())))
	assert.Equal(t, float32(2.5), Sanitize(float32(2.5)))

	assert.Equal(t, "AAPL", Sanitize("AAPL"))
	assert.Equal(t, true, Sanitize(true))
	assert.Nil(t, Sanitize(nil))
}
