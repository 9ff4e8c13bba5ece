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
	"context"
	"errors"
	"math"
	"time"

	"github.com/peak-quant/pqdata/data"
	"github.com/peak-quant/pqdata/library"
	"github.com/rs/zerolog/log"
)

const (
	// minObservations is the smallest aligned return count that produces
	// statistically meaningful estimates; shorter histories yield no metrics
	minObservations = 30

	tradingDaysPerYear = 252
)

// Calculate computes volatility, beta and R² for one instrument against the
// benchmark. A nil result with a nil error means the instrument does not have
// enough usable history; that is an expected outcome, not a failure.
func Calculate(ctx context.Context, myLibrary *library.Library, instrumentID int64, benchmarkSymbol string) (*data.VolatilityMetrics, error) {
	closes, err := myLibrary.CloseSeries(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	if len(closes) == 0 {
		return nil, nil
	}

	benchmark, err := myLibrary.InstrumentBySymbol(ctx, benchmarkSymbol)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			log.Warn().Str("Benchmark", benchmarkSymbol).Msg("benchmark instrument not ingested; skipping analysis")
			return nil, nil
		}
		return nil, err
	}

	benchmarkCloses, err := myLibrary.CloseSeries(ctx, benchmark.ID)
	if err != nil {
		return nil, err
	}

	return computeMetrics(instrumentID, closes, benchmarkCloses), nil
}

// computeMetrics derives the metric set from two close series. Beta, relative
// volatility and R² are left unset when the variance in their denominator is
// zero; daily and annualized volatility are always present once the
// observation floor is met.
func computeMetrics(instrumentID int64, closes, benchmarkCloses []*library.ClosePoint) *data.VolatilityMetrics {
	instrumentReturns, benchmarkReturns := alignReturns(logReturns(closes), logReturns(benchmarkCloses))
	if len(instrumentReturns) < minObservations {
		return nil
	}

	dailyVolatility := sampleStdDev(instrumentReturns)
	benchmarkVolatility := sampleStdDev(benchmarkReturns)

	metrics := &data.VolatilityMetrics{
		InstrumentID:         instrumentID,
		CalculationDate:      data.DateOnly(time.Now()),
		DailyVolatility:      dailyVolatility,
		AnnualizedVolatility: dailyVolatility * math.Sqrt(tradingDaysPerYear),
	}

	if benchmarkVolatility != 0 {
		relative := dailyVolatility / benchmarkVolatility
		metrics.RelativeVolatility = &relative
	}

	benchmarkVariance := sampleVariance(benchmarkReturns)
	if benchmarkVariance != 0 {
		beta := sampleCovariance(instrumentReturns, benchmarkReturns) / benchmarkVariance
		metrics.Beta = &beta
	}

	instrumentVariance := sampleVariance(instrumentReturns)
	if instrumentVariance != 0 && benchmarkVariance != 0 {
		correlation := sampleCovariance(instrumentReturns, benchmarkReturns) /
			math.Sqrt(instrumentVariance*benchmarkVariance)
		rSquared := correlation * correlation
		metrics.RSquared = &rSquared
	}

	return metrics
}

// AnalyzeAll runs the metric calculation for every instrument in the library
// and stores the results. A failing instrument is logged and skipped; the
// pass continues with the rest.
func AnalyzeAll(ctx context.Context, myLibrary *library.Library, benchmarkSymbol string) (int, error) {
	instruments, err := myLibrary.Instruments(ctx)
	if err != nil {
		return 0, err
	}

	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	numAnalyzed := 0
	for _, instrument := range instruments {
		metrics, err := Calculate(ctx, myLibrary, instrument.ID, benchmarkSymbol)
		if err != nil {
			log.Error().Err(err).Str("Symbol", instrument.Symbol).Msg("volatility analysis failed")
			continue
		}
		if metrics == nil {
			log.Debug().Str("Symbol", instrument.Symbol).Msg("not enough history for volatility analysis")
			continue
		}

		if err := metrics.SaveDB(ctx, conn); err != nil {
			log.Error().Err(err).Str("Symbol", instrument.Symbol).Msg("could not save volatility metrics")
			continue
		}

		numAnalyzed++
	}

	log.Info().Int("NumAnalyzed", numAnalyzed).Int("NumInstruments", len(instruments)).
		Str("Benchmark", benchmarkSymbol).Msg("volatility analysis pass finished")
	return numAnalyzed, nil
}
