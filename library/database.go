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
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peak-quant/pqdata/data"
)

// Library is the handle to the market data store. It owns the connection
// pool; components receive the library explicitly and never share any other
// mutable state.
type Library struct {
	DBUrl string `toml:"db_url"`
	Name  string `toml:"name"`

	Pool *pgxpool.Pool `toml:"-"`
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	myLibrary.Pool.Close()
}

// NewFromDB creates a library handle and verifies the database is reachable
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &Library{
		DBUrl: dbURL,
		Pool:  pool,
	}, nil
}

// Instruments returns every instrument in the library ordered by symbol
func (myLibrary *Library) Instruments(ctx context.Context) ([]*data.Instrument, error) {
	var instruments []*data.Instrument
	err := pgxscan.Select(ctx, myLibrary.Pool, &instruments,
		`SELECT id, symbol, coalesce(name, '') AS name FROM instruments ORDER BY symbol`)
	return instruments, err
}

// NumInstruments returns the count of instruments tracked by the library
func (myLibrary *Library) NumInstruments(ctx context.Context) (int, error) {
	count := 0
	err := myLibrary.Pool.QueryRow(ctx, `SELECT count(*) FROM instruments`).Scan(&count)
	return count, err
}

// NumPricePoints returns the total number of stored price rows
func (myLibrary *Library) NumPricePoints(ctx context.Context) (int64, error) {
	var count int64
	err := myLibrary.Pool.QueryRow(ctx, `SELECT count(*) FROM price_points`).Scan(&count)
	return count, err
}

// PriceCoverage returns the first and last trade dates present in the library
func (myLibrary *Library) PriceCoverage(ctx context.Context) (time.Time, time.Time, error) {
	var first, last time.Time
	err := myLibrary.Pool.QueryRow(ctx,
		`SELECT coalesce(min(trade_date), '0001-01-01'::date),
		        coalesce(max(trade_date), '0001-01-01'::date) FROM price_points`).
		Scan(&first, &last)
	return first, last, err
}

// LastAnalysis returns the most recent volatility calculation date
func (myLibrary *Library) LastAnalysis(ctx context.Context) (time.Time, error) {
	var lastRun time.Time
	err := myLibrary.Pool.QueryRow(ctx,
		`SELECT coalesce(max(calculation_date), '0001-01-01'::date) FROM volatility_metrics`).
		Scan(&lastRun)
	return lastRun, err
}
