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
package risk

import (
	"math"
	"testing"

	"github.com/peak-quant/pqdata/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticCloses builds a deterministic wiggly price path with n points
func syntheticCloses(n int) []*library.ClosePoint {
	closes := make([]*library.ClosePoint, n)
	price := 100.0
	for idx := 0; idx < n; idx++ {
		price *= 1 + 0.01*math.Sin(float64(idx))
		closes[idx] = &library.ClosePoint{
			TradeDate: tradeDay(idx),
			Close:     price,
		}
	}
	return closes
}

func TestComputeMetricsSelfBenchmark(t *testing.T) {
	closes := syntheticCloses(40)

	metrics := computeMetrics(7, closes, closes)
	require.NotNil(t, metrics)

	assert.Equal(t, int64(7), metrics.InstrumentID)
	assert.False(t, metrics.CalculationDate.IsZero())
	assert.Greater(t, metrics.DailyVolatility, 0.0)
	assert.InDelta(t, metrics.DailyVolatility*math.Sqrt(252), metrics.AnnualizedVolatility, 1e-12)

	// an instrument measured against itself has unit beta, unit relative
	// volatility and perfect fit
	require.NotNil(t, metrics.RelativeVolatility)
	assert.InDelta(t, 1.0, *metrics.RelativeVolatility, 1e-9)
	require.NotNil(t, metrics.Beta)
	assert.InDelta(t, 1.0, *metrics.Beta, 1e-9)
	require.NotNil(t, metrics.RSquared)
	assert.InDelta(t, 1.0, *metrics.RSquared, 1e-9)
}

func TestComputeMetricsObservationFloor(t *testing.T) {
	// 30 closes yield 29 aligned returns, one short of the floor
	assert.Nil(t, computeMetrics(1, syntheticCloses(30), syntheticCloses(30)))

	// 31 closes yield exactly 30 aligned returns
	assert.NotNil(t, computeMetrics(1, syntheticCloses(31), syntheticCloses(31)))
}

func TestComputeMetricsConstantBenchmark(t *testing.T) {
	closes := syntheticCloses(40)

	flat := make([]*library.ClosePoint, len(closes))
	for idx := range closes {
		flat[idx] = &library.ClosePoint{TradeDate: closes[idx].TradeDate, Close: 100}
	}

	metrics := computeMetrics(1, closes, flat)
	require.NotNil(t, metrics)

	assert.Greater(t, metrics.DailyVolatility, 0.0)
	assert.Nil(t, metrics.RelativeVolatility)
	assert.Nil(t, metrics.Beta)
	assert.Nil(t, metrics.RSquared)
}

func TestComputeMetricsDisjointHistory(t *testing.T) {
	closes := syntheticCloses(40)

	shifted := make([]*library.ClosePoint, len(closes))
	for idx := range closes {
		shifted[idx] = &library.ClosePoint{
			TradeDate: closes[idx].TradeDate.AddDate(1, 0, 0),
			Close:     closes[idx].Close,
		}
	}

	assert.Nil(t, computeMetrics(1, closes, shifted))
}
