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

// Filing is a regulatory filing reference. Several filing types may share a
// date, so the type is part of the key.
type Filing struct {
	InstrumentID int64     `db:"instrument_id" json:"-"`
	FilingDate   time.Time `db:"filing_date" json:"filing_date"`
	FilingType   string    `db:"filing_type" json:"filing_type"`
	URL          string    `db:"url" json:"url"`
}

type FilingList []*Filing

func (filings FilingList) SaveDB(ctx context.Context, dbConn Conn) error {
	if len(filings) == 0 {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("filings", []string{"instrument_id", "filing_date", "filing_type", "url"}, 3)
	for _, filing := range filings {
		if _, err := tx.Exec(ctx, sql, filing.InstrumentID, DateOnly(filing.FilingDate),
			filing.FilingType, filing.URL); err != nil {
			log.Error().Err(err).Int64("InstrumentID", filing.InstrumentID).
				Str("FilingType", filing.FilingType).Msg("save filing to DB failed")
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rollingback tx")
			}
			return err
		}
	}

	return tx.Commit(ctx)
}
