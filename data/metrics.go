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
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// VolatilityMetrics is a point-in-time risk snapshot for an instrument. The
// series is append-only by calculation date; only a same-day re-run replaces
// an existing row. Relative volatility, beta and R² are nil when the
// underlying estimate is undefined (zero benchmark variance) -- an absent
// value is stored as NULL, never as a non-finite number.
type VolatilityMetrics struct {
	InstrumentID         int64     `db:"instrument_id" json:"-"`
	CalculationDate      time.Time `db:"calculation_date" json:"calculation_date"`
	DailyVolatility      float64   `db:"daily_volatility" json:"daily_volatility"`
	AnnualizedVolatility float64   `db:"annualized_volatility" json:"annualized_volatility"`
	RelativeVolatility   *float64  `db:"relative_volatility" json:"relative_volatility"`
	Beta                 *float64  `db:"beta" json:"beta"`
	RSquared             *float64  `db:"r_squared" json:"r_squared"`
}

func (metrics *VolatilityMetrics) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("InstrumentID", metrics.InstrumentID)
	e.Time("CalculationDate", metrics.CalculationDate)
	e.Float64("DailyVolatility", metrics.DailyVolatility)
}

var volatilityMetricsColumns = []string{
	"instrument_id", "calculation_date", "daily_volatility",
	"annualized_volatility", "relative_volatility", "beta", "r_squared",
}

func (metrics *VolatilityMetrics) SaveDB(ctx context.Context, dbConn Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("volatility_metrics", volatilityMetricsColumns, 2)
	if _, err := tx.Exec(ctx, sql, metrics.InstrumentID, DateOnly(metrics.CalculationDate),
		metrics.DailyVolatility, metrics.AnnualizedVolatility, metrics.RelativeVolatility,
		metrics.Beta, metrics.RSquared); err != nil {
		log.Error().Err(err).Object("VolatilityMetrics", metrics).Msg("save volatility metrics to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
		return err
	}

	return tx.Commit(ctx)
}
