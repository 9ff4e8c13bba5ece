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
package library

import (
	"context"
	"errors"
	"time"

	"github.com/peak-quant/pqdata/data"
	"github.com/rs/zerolog/log"
)

// DailyChange reports the move between the two most recent closes of an
// instrument. Instruments with fewer than two stored price points are not
// representable and are omitted from aggregates.
type DailyChange struct {
	Symbol        string    `json:"symbol"`
	LatestDate    time.Time `json:"latest_date"`
	LatestPrice   float64   `json:"latest_price"`
	PreviousPrice float64   `json:"previous_price"`
	PriceChange   float64   `json:"price_change"`
	PercentChange float64   `json:"percent_change"`
}

// VolatilitySnapshot is the latest stored risk metrics row for an instrument
type VolatilitySnapshot struct {
	Symbol               string    `json:"symbol"`
	CalculationDate      time.Time `json:"calculation_date"`
	DailyVolatility      float64   `json:"daily_volatility"`
	AnnualizedVolatility float64   `json:"annualized_volatility"`
	RelativeVolatility   *float64  `json:"relative_volatility"`
	Beta                 *float64  `json:"beta"`
	RSquared             *float64  `json:"r_squared"`
}

// DailyChange computes the latest daily move for a single instrument.
// ErrNotFound is returned when fewer than two price points exist.
func (myLibrary *Library) DailyChange(ctx context.Context, instrumentID int64, symbol string) (*DailyChange, error) {
	prices, err := myLibrary.LatestPrices(ctx, instrumentID, 2)
	if err != nil {
		return nil, err
	}

	if len(prices) < 2 {
		return nil, ErrNotFound
	}

	change := newDailyChange(symbol, prices[0], prices[1])
	if change == nil {
		return nil, ErrNotFound
	}

	return change, nil
}

// newDailyChange computes the move between the latest and previous close. A
// zero previous close has no defined percent change and yields nil rather
// than a non-finite number.
func newDailyChange(symbol string, latest, previous *data.PricePoint) *DailyChange {
	if previous.Close == 0 {
		return nil
	}

	priceChange := latest.Close - previous.Close

	return &DailyChange{
		Symbol:        symbol,
		LatestDate:    latest.TradeDate,
		LatestPrice:   latest.Close,
		PreviousPrice: previous.Close,
		PriceChange:   priceChange,
		PercentChange: priceChange / previous.Close * 100,
	}
}

// DailyChanges runs the daily change query over every instrument and collects
// the ones with enough data. Order follows the instrument list.
func (myLibrary *Library) DailyChanges(ctx context.Context) ([]*DailyChange, error) {
	instruments, err := myLibrary.Instruments(ctx)
	if err != nil {
		return nil, err
	}

	changes := make([]*DailyChange, 0, len(instruments))
	for _, instrument := range instruments {
		change, err := myLibrary.DailyChange(ctx, instrument.ID, instrument.Symbol)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		changes = append(changes, change)
	}

	return changes, nil
}

// VolatilitySnapshots returns the latest metrics row per instrument,
// skipping instruments that have never been analyzed.
func (myLibrary *Library) VolatilitySnapshots(ctx context.Context) ([]*VolatilitySnapshot, error) {
	instruments, err := myLibrary.Instruments(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*VolatilitySnapshot, 0, len(instruments))
	for _, instrument := range instruments {
		metrics, err := myLibrary.LatestVolatility(ctx, instrument.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			log.Error().Err(err).Str("Symbol", instrument.Symbol).Msg("could not load volatility metrics")
			return nil, err
		}

		snapshots = append(snapshots, &VolatilitySnapshot{
			Symbol:               instrument.Symbol,
			CalculationDate:      metrics.CalculationDate,
			DailyVolatility:      metrics.DailyVolatility,
			AnnualizedVolatility: metrics.AnnualizedVolatility,
			RelativeVolatility:   metrics.RelativeVolatility,
			Beta:                 metrics.Beta,
			RSquared:             metrics.RSquared,
		})
	}

	return snapshots, nil
}
