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
	"time"

	"github.com/peak-quant/pqdata/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeDay(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestLogReturns(t *testing.T) {
	closes := []*library.ClosePoint{
		{TradeDate: tradeDay(0), Close: 100},
		{TradeDate: tradeDay(1), Close: 110},
		{TradeDate: tradeDay(2), Close: 99},
	}

	returns := logReturns(closes)
	require.Len(t, returns, 2)

	assert.Equal(t, tradeDay(1), returns[0].date)
	assert.InDelta(t, math.Log(110.0/100.0), returns[0].value, 1e-12)
	assert.Equal(t, tradeDay(2), returns[1].date)
	assert.InDelta(t, math.Log(99.0/110.0), returns[1].value, 1e-12)
}

func TestLogReturnsShortSeries(t *testing.T) {
	assert.Nil(t, logReturns(nil))
	assert.Nil(t, logReturns([]*library.ClosePoint{{TradeDate: tradeDay(0), Close: 100}}))
}

func TestLogReturnsSkipsNonPositivePrices(t *testing.T) {
	closes := []*library.ClosePoint{
		{TradeDate: tradeDay(0), Close: 100},
		{TradeDate: tradeDay(1), Close: 0},
		{TradeDate: tradeDay(2), Close: 105},
	}

	returns := logReturns(closes)
	require.Len(t, returns, 1)
	assert.Equal(t, tradeDay(2), returns[0].date)
}

func TestAlignReturns(t *testing.T) {
	instrument := []returnPoint{
		{date: tradeDay(1), value: 0.01},
		{date: tradeDay(2), value: -0.02},
		{date: tradeDay(3), value: 0.03},
	}
	benchmark := []returnPoint{
		{date: tradeDay(1), value: 0.005},
		// no benchmark observation on day 2
		{date: tradeDay(3), value: 0.015},
		{date: tradeDay(4), value: -0.01},
	}

	instrumentReturns, benchmarkReturns := alignReturns(instrument, benchmark)
	assert.Equal(t, []float64{0.01, 0.03}, instrumentReturns)
	assert.Equal(t, []float64{0.005, 0.015}, benchmarkReturns)
}

func TestSampleStatistics(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.InDelta(t, 2.5, mean(values), 1e-12)
	assert.InDelta(t, 5.0/3.0, sampleVariance(values), 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), sampleStdDev(values), 1e-12)

	doubled := []float64{2, 4, 6, 8}
	assert.InDelta(t, 2*sampleVariance(values), sampleCovariance(values, doubled), 1e-12)
}

func TestSampleVarianceDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, sampleVariance(nil))
	assert.Equal(t, 0.0, sampleVariance([]float64{1.5}))
	assert.Equal(t, 0.0, sampleVariance([]float64{2, 2, 2, 2}))
}
