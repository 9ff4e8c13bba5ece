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

type PayloadKind string

const (
	InfoPayload           PayloadKind = "info"
	FastInfoPayload       PayloadKind = "fast_info"
	SustainabilityPayload PayloadKind = "sustainability"
)

// Payload holds an opaque descriptive document from the data source. There is
// a single row per (instrument, kind); each ingestion replaces it wholesale.
type Payload struct {
	InstrumentID int64          `db:"instrument_id" json:"-"`
	Kind         PayloadKind    `db:"kind" json:"kind"`
	Data         map[string]any `db:"data" json:"data"`
}

// SaveDB sanitizes the document and replaces the stored row for this
// (instrument, kind). Source payloads regularly carry NaN for missing ratios;
// those become JSON null before the document reaches the jsonb column.
func (payload *Payload) SaveDB(ctx context.Context, dbConn Conn) error {
	cleaned := Sanitize(payload.Data)

	doc, err := json.Marshal(cleaned)
	if err != nil {
		log.Error().Err(err).Int64("InstrumentID", payload.InstrumentID).
			Str("Kind", string(payload.Kind)).Msg("marshal payload failed")
		return err
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	sql := upsertSQL("instrument_payloads", []string{"instrument_id", "kind", "data"}, 2)
	if _, err := tx.Exec(ctx, sql, payload.InstrumentID, payload.Kind, doc); err != nil {
		log.Error().Err(err).Int64("InstrumentID", payload.InstrumentID).
			Str("Kind", string(payload.Kind)).Msg("save payload to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
		return err
	}

	return tx.Commit(ctx)
}
