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

type PricePoint struct {
	InstrumentID int64     `db:"instrument_id" json:"-"`
	TradeDate    time.Time `db:"trade_date" json:"trade_date"`
	Open         float64   `db:"open" json:"open"`
	High         float64   `db:"high" json:"high"`
	Low          float64   `db:"low" json:"low"`
	Close        float64   `db:"close" json:"close"`
	Volume       int64     `db:"volume" json:"volume"`
}

func (price *PricePoint) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("InstrumentID", price.InstrumentID)
	e.Time("TradeDate", price.TradeDate)
	e.Float64("Close", price.Close)
}

type PriceSeries []*PricePoint

var pricePointColumns = []string{
	"instrument_id", "trade_date", "open", "high", "low", "close", "volume",
}

// SaveDB reconciles the series against the price_points table in a single
// transaction. Each (instrument, trade date) key is inserted or overwritten;
// re-applying the same series is a no-op.
func (series PriceSeries) SaveDB(ctx context.Context, dbConn Conn) error {
	if len(series) == 0 {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("price_points", pricePointColumns, 2)
	for _, price := range series {
		if _, err := tx.Exec(ctx, sql, price.InstrumentID, DateOnly(price.TradeDate),
			price.Open, price.High, price.Low, price.Close, price.Volume); err != nil {
			log.Error().Err(err).Object("PricePoint", price).Msg("save price point to DB failed")
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rollingback tx")
			}
			return err
		}
	}

	return tx.Commit(ctx)
}
