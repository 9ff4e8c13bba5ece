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
	"time"

	"github.com/peak-quant/pqdata/library"
)

type returnPoint struct {
	date  time.Time
	value float64
}

// logReturns converts a date-ordered close series to log returns. The first
// observation has no prior close and produces no return; prices that would
// make the ratio undefined are skipped.
func logReturns(closes []*library.ClosePoint) []returnPoint {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]returnPoint, 0, len(closes)-1)
	for idx := 1; idx < len(closes); idx++ {
		prev := closes[idx-1].Close
		curr := closes[idx].Close
		if prev <= 0 || curr <= 0 {
			continue
		}

		returns = append(returns, returnPoint{
			date:  closes[idx].TradeDate,
			value: math.Log(curr / prev),
		})
	}

	return returns
}

// alignReturns joins two return series on matching dates, dropping any date
// where either side is missing. The two result slices always have equal
// length and pair up by index.
func alignReturns(instrument, benchmark []returnPoint) ([]float64, []float64) {
	benchmarkByDate := make(map[time.Time]float64, len(benchmark))
	for _, point := range benchmark {
		benchmarkByDate[point.date] = point.value
	}

	instrumentReturns := make([]float64, 0, len(instrument))
	benchmarkReturns := make([]float64, 0, len(instrument))
	for _, point := range instrument {
		benchmarkValue, ok := benchmarkByDate[point.date]
		if !ok {
			continue
		}

		instrumentReturns = append(instrumentReturns, point.value)
		benchmarkReturns = append(benchmarkReturns, benchmarkValue)
	}

	return instrumentReturns, benchmarkReturns
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}

// sampleVariance is the unbiased (n-1) variance estimator
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)
	sum := 0.0
	for _, value := range values {
		diff := value - m
		sum += diff * diff
	}

	return sum / float64(len(values)-1)
}

func sampleStdDev(values []float64) float64 {
	return math.Sqrt(sampleVariance(values))
}

// sampleCovariance pairs values by index; the slices must have equal length
func sampleCovariance(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}

	meanX := mean(xs)
	meanY := mean(ys)

	sum := 0.0
	for idx := range xs {
		sum += (xs[idx] - meanX) * (ys[idx] - meanY)
	}

	return sum / float64(len(xs)-1)
}
