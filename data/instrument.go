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
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Instrument is a security tracked by the library. The symbol is the external
// identifier used by the market data source and is immutable once assigned;
// the name may be refreshed from descriptive payloads.
type Instrument struct {
	ID     int64  `db:"id" json:"-"`
	Symbol string `db:"symbol" json:"symbol"`
	Name   string `db:"name" json:"name"`
}

func (instrument *Instrument) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("ID", instrument.ID)
	e.Str("Symbol", instrument.Symbol)
}

// InstrumentBySymbol loads the instrument with the given symbol. pgx.ErrNoRows
// is returned when the symbol is unknown.
func InstrumentBySymbol(ctx context.Context, dbConn Conn, symbol string) (*Instrument, error) {
	rows, err := dbConn.Query(ctx,
		`SELECT id, symbol, coalesce(name, '') AS name FROM instruments WHERE symbol = $1`, symbol)
	if err != nil {
		return nil, err
	}

	instrument, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Instrument])
	if err != nil {
		return nil, err
	}

	return &instrument, nil
}

// LookupOrCreateInstrument returns the instrument for symbol, creating the row
// on first sight. Two runs may race to create the same symbol; the loser hits
// the unique constraint and re-reads the winner's row instead of failing.
func LookupOrCreateInstrument(ctx context.Context, dbConn Conn, symbol string) (*Instrument, error) {
	instrument, err := InstrumentBySymbol(ctx, dbConn, symbol)
	if err == nil {
		return instrument, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	instrument = &Instrument{Symbol: symbol}
	err = dbConn.QueryRow(ctx,
		`INSERT INTO instruments (symbol) VALUES ($1) RETURNING id`, symbol).Scan(&instrument.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return InstrumentBySymbol(ctx, dbConn, symbol)
		}
		return nil, err
	}

	return instrument, nil
}

// SetName refreshes the display name of the instrument.
func (instrument *Instrument) SetName(ctx context.Context, dbConn Conn, name string) error {
	if name == "" || name == instrument.Name {
		return nil
	}

	_, err := dbConn.Exec(ctx, `UPDATE instruments SET name = $2 WHERE id = $1`, instrument.ID, name)
	if err == nil {
		instrument.Name = name
	}

	return err
}
