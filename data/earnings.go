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

type EarningsRecord struct {
	InstrumentID int64   `db:"instrument_id" json:"-"`
	Period       string  `db:"period" json:"period"`
	EPS          float64 `db:"eps" json:"eps"`
	Revenue      float64 `db:"revenue" json:"revenue"`
}

type EarningsCalendarEntry struct {
	InstrumentID     int64     `db:"instrument_id" json:"-"`
	AnnouncementDate time.Time `db:"announcement_date" json:"announcement_date"`
}

type EarningsHistory []*EarningsRecord

type EarningsCalendar []*EarningsCalendarEntry

func (history EarningsHistory) SaveDB(ctx context.Context, dbConn Conn) error {
	if len(history) == 0 {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("earnings_history", []string{"instrument_id", "period", "eps", "revenue"}, 2)
	for _, record := range history {
		if _, err := tx.Exec(ctx, sql, record.InstrumentID, record.Period,
			record.EPS, record.Revenue); err != nil {
			log.Error().Err(err).Int64("InstrumentID", record.InstrumentID).
				Str("Period", record.Period).Msg("save earnings record to DB failed")
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rollingback tx")
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (calendar EarningsCalendar) SaveDB(ctx context.Context, dbConn Conn) error {
	if len(calendar) == 0 {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	// the announcement date is the whole row, so conflicting keys are left alone
	sql := upsertSQL("earnings_calendar", []string{"instrument_id", "announcement_date"}, 2)
	for _, entry := range calendar {
		if _, err := tx.Exec(ctx, sql, entry.InstrumentID,
			DateOnly(entry.AnnouncementDate)); err != nil {
			log.Error().Err(err).Int64("InstrumentID", entry.InstrumentID).
				Time("AnnouncementDate", entry.AnnouncementDate).
				Msg("save earnings calendar entry to DB failed")
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rollingback tx")
			}
			return err
		}
	}

	return tx.Commit(ctx)
}
