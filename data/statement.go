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

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type StatementKind string

const (
	IncomeStatement   StatementKind = "income"
	BalanceSheet      StatementKind = "balance"
	CashflowStatement StatementKind = "cashflow"
)

// Statement is one fiscal period column of a financial statement table,
// stored as an opaque document keyed by (instrument, kind, period). A period
// is replaced wholesale when re-ingested.
type Statement struct {
	InstrumentID int64          `db:"instrument_id" json:"-"`
	Kind         StatementKind  `db:"kind" json:"kind"`
	Period       string         `db:"period" json:"period"`
	Data         map[string]any `db:"data" json:"data"`
}

func (statement *Statement) SaveDB(ctx context.Context, dbConn Conn) error {
	doc, err := json.Marshal(Sanitize(statement.Data))
	if err != nil {
		log.Error().Err(err).Int64("InstrumentID", statement.InstrumentID).
			Str("Kind", string(statement.Kind)).Str("Period", statement.Period).
			Msg("marshal statement failed")
		return err
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("statements", []string{"instrument_id", "kind", "period", "data"}, 3)
	if _, err := tx.Exec(ctx, sql, statement.InstrumentID, statement.Kind,
		statement.Period, doc); err != nil {
		log.Error().Err(err).Int64("InstrumentID", statement.InstrumentID).
			Str("Kind", string(statement.Kind)).Str("Period", statement.Period).
			Msg("save statement to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
		return err
	}

	return tx.Commit(ctx)
}
