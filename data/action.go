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

	"github.com/rs/zerolog/log"
)

// Dividend is a cash distribution keyed by ex-date. Dividends and splits are
// independent series with their own date keys.
type Dividend struct {
	InstrumentID int64     `db:"instrument_id" json:"-"`
	ExDate       time.Time `db:"ex_date" json:"ex_date"`
	Amount       float64   `db:"amount" json:"amount"`
}

type Split struct {
	InstrumentID int64     `db:"instrument_id" json:"-"`
	SplitDate    time.Time `db:"split_date" json:"split_date"`
	Ratio        float64   `db:"ratio" json:"ratio"`
}

type DividendSeries []*Dividend

type SplitSeries []*Split

func (series DividendSeries) SaveDB(ctx context.Context, dbConn Conn) error {
	if len(series) == 0 {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("dividends", []string{"instrument_id", "ex_date", "amount"}, 2)
	for _, dividend := range series {
		if _, err := tx.Exec(ctx, sql, dividend.InstrumentID, DateOnly(dividend.ExDate),
			dividend.Amount); err != nil {
			log.Error().Err(err).Int64("InstrumentID", dividend.InstrumentID).
				Time("ExDate", dividend.ExDate).Msg("save dividend to DB failed")
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rollingback tx")
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (series SplitSeries) SaveDB(ctx context.Context, dbConn Conn) error {
	if len(series) == 0 {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("splits", []string{"instrument_id", "split_date", "ratio"}, 2)
	for _, split := range series {
		if _, err := tx.Exec(ctx, sql, split.InstrumentID, DateOnly(split.SplitDate),
			split.Ratio); err != nil {
			log.Error().Err(err).Int64("InstrumentID", split.InstrumentID).
				Time("SplitDate", split.SplitDate).Msg("save split to DB failed")
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rollingback tx")
			}
			return err
		}
	}

	return tx.Commit(ctx)
}
