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
package provider

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewYahooDefaults(t *testing.T) {
	yahoo := NewYahoo(0, "")
	require.NotNil(t, yahoo)
	assert.Equal(t, "yahoo", yahoo.Name())
	assert.Equal(t, "3y", yahoo.lookback)
	assert.NotNil(t, yahoo.client)
	assert.NotNil(t, yahoo.limiter)
}

func TestCollectQuotesDropsNullBars(t *testing.T) {
	// non-trading days arrive as JSON null in every price array
	payload := `{"chart":{"result":[{
		"timestamp":[1700000000,1700086400,1700172800],
		"indicators":{"quote":[{
			"open":[100.0,null,102.0],
			"high":[101.0,null,103.0],
			"low":[99.0,null,101.5],
			"close":[100.5,null,102.5],
			"volume":[1000,null,3000]
		}]}}]}}`

	chart := &chartResponse{}
	require.NoError(t, json.Unmarshal([]byte(payload), chart))
	require.Len(t, chart.Chart.Result, 1)

	quotes := collectQuotes(&chart.Chart.Result[0])
	require.Len(t, quotes, 2)

	assert.Equal(t, time.Unix(1700000000, 0).UTC(), quotes[0].Date)
	assert.Equal(t, 100.5, quotes[0].Close)
	assert.Equal(t, 102.5, quotes[1].Close)
	assert.Equal(t, int64(3000), quotes[1].Volume)
}

func TestCollectQuotesRaggedArrays(t *testing.T) {
	payload := `{"chart":{"result":[{
		"timestamp":[1700000000,1700086400,1700172800],
		"indicators":{"quote":[{
			"open":[100.0,101.0,102.0],
			"high":[101.0,102.0,103.0],
			"low":[99.0,100.0],
			"close":[100.5,101.5,102.5],
			"volume":[1000,2000,3000]
		}]}}]}}`

	chart := &chartResponse{}
	require.NoError(t, json.Unmarshal([]byte(payload), chart))

	quotes := collectQuotes(&chart.Chart.Result[0])
	require.Len(t, quotes, 2)
	assert.Equal(t, 101.5, quotes[1].Close)
}

func TestCollectQuotesAllNull(t *testing.T) {
	payload := `{"chart":{"result":[{
		"timestamp":[1700000000],
		"indicators":{"quote":[{
			"open":[null],"high":[null],"low":[null],"close":[null],"volume":[null]
		}]}}]}}`

	chart := &chartResponse{}
	require.NoError(t, json.Unmarshal([]byte(payload), chart))
	assert.Nil(t, collectQuotes(&chart.Chart.Result[0]))
}

func TestRawNumber(t *testing.T) {
	assert.Equal(t, 42.5, rawNumber(42.5))
	assert.Equal(t, 1.25, rawNumber(map[string]any{"raw": 1.25, "fmt": "1.25"}))
	assert.Equal(t, 0.0, rawNumber(map[string]any{"fmt": "N/A"}))
	assert.Equal(t, 0.0, rawNumber("not a number"))
	assert.Equal(t, 0.0, rawNumber(nil))
}

func TestFormattedValue(t *testing.T) {
	items := map[string]any{
		"endDate": map[string]any{"raw": float64(1703980800), "fmt": "2023-12-31"},
		"scalar":  17.0,
	}

	assert.Equal(t, "2023-12-31", formattedValue(items, "endDate"))
	assert.Equal(t, "", formattedValue(items, "scalar"))
	assert.Equal(t, "", formattedValue(items, "missing"))
}
