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

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/peak-quant/pqdata/data"
)

// ErrNotFound indicates the requested symbol is not in the library
var ErrNotFound = errors.New("instrument not found")

// ClosePoint is a single observation of the close-price series used by the
// risk calculator. Rows are always returned in ascending date order.
type ClosePoint struct {
	TradeDate time.Time `db:"trade_date"`
	Close     float64   `db:"close"`
}

// InstrumentBySymbol resolves a symbol to an instrument. ErrNotFound is
// returned for unknown symbols so callers can distinguish absence from
// connectivity failures.
func (myLibrary *Library) InstrumentBySymbol(ctx context.Context, symbol string) (*data.Instrument, error) {
	var instrument data.Instrument
	err := pgxscan.Get(ctx, myLibrary.Pool, &instrument,
		`SELECT id, symbol, coalesce(name, '') AS name FROM instruments WHERE symbol = $1`, symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &instrument, nil
}

// PriceHistory returns the full OHLCV series ordered by trade date
func (myLibrary *Library) PriceHistory(ctx context.Context, instrumentID int64) ([]*data.PricePoint, error) {
	var prices []*data.PricePoint
	err := pgxscan.Select(ctx, myLibrary.Pool, &prices,
		`SELECT instrument_id, trade_date, open, high, low, close, volume
		 FROM price_points WHERE instrument_id = $1 ORDER BY trade_date`, instrumentID)
	return prices, err
}

// CloseSeries returns the close-price series ordered by trade date. Ordering
// is by date, not insertion order; the return math depends on it.
func (myLibrary *Library) CloseSeries(ctx context.Context, instrumentID int64) ([]*ClosePoint, error) {
	var closes []*ClosePoint
	err := pgxscan.Select(ctx, myLibrary.Pool, &closes,
		`SELECT trade_date, close FROM price_points
		 WHERE instrument_id = $1 ORDER BY trade_date`, instrumentID)
	return closes, err
}

// LatestPrices returns up to limit price rows ordered by trade date descending
func (myLibrary *Library) LatestPrices(ctx context.Context, instrumentID int64, limit int) ([]*data.PricePoint, error) {
	var prices []*data.PricePoint
	err := pgxscan.Select(ctx, myLibrary.Pool, &prices,
		`SELECT instrument_id, trade_date, open, high, low, close, volume
		 FROM price_points WHERE instrument_id = $1
		 ORDER BY trade_date DESC LIMIT $2`, instrumentID, limit)
	return prices, err
}

// Dividends returns the dividend series ordered by ex-date
func (myLibrary *Library) Dividends(ctx context.Context, instrumentID int64) ([]*data.Dividend, error) {
	var dividends []*data.Dividend
	err := pgxscan.Select(ctx, myLibrary.Pool, &dividends,
		`SELECT instrument_id, ex_date, amount FROM dividends
		 WHERE instrument_id = $1 ORDER BY ex_date`, instrumentID)
	return dividends, err
}

// Splits returns the split series ordered by split date
func (myLibrary *Library) Splits(ctx context.Context, instrumentID int64) ([]*data.Split, error) {
	var splits []*data.Split
	err := pgxscan.Select(ctx, myLibrary.Pool, &splits,
		`SELECT instrument_id, split_date, ratio FROM splits
		 WHERE instrument_id = $1 ORDER BY split_date`, instrumentID)
	return splits, err
}

// Payload returns the stored descriptive document of the given kind, or
// ErrNotFound when the instrument has no such payload.
func (myLibrary *Library) Payload(ctx context.Context, instrumentID int64, kind data.PayloadKind) (*data.Payload, error) {
	var payload data.Payload
	err := pgxscan.Get(ctx, myLibrary.Pool, &payload,
		`SELECT instrument_id, kind, data FROM instrument_payloads
		 WHERE instrument_id = $1 AND kind = $2`, instrumentID, kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payload, nil
}

// Statements returns all stored periods of the given statement kind
func (myLibrary *Library) Statements(ctx context.Context, instrumentID int64, kind data.StatementKind) ([]*data.Statement, error) {
	var statements []*data.Statement
	err := pgxscan.Select(ctx, myLibrary.Pool, &statements,
		`SELECT instrument_id, kind, period, data FROM statements
		 WHERE instrument_id = $1 AND kind = $2 ORDER BY period`, instrumentID, kind)
	return statements, err
}

// Earnings returns the earnings history for an instrument
func (myLibrary *Library) Earnings(ctx context.Context, instrumentID int64) ([]*data.EarningsRecord, error) {
	var records []*data.EarningsRecord
	err := pgxscan.Select(ctx, myLibrary.Pool, &records,
		`SELECT instrument_id, period, coalesce(eps, 0) AS eps,
		        coalesce(revenue, 0) AS revenue
		 FROM earnings_history WHERE instrument_id = $1 ORDER BY period`, instrumentID)
	return records, err
}

// EarningsCalendar returns upcoming and past announcement dates
func (myLibrary *Library) EarningsCalendar(ctx context.Context, instrumentID int64) ([]*data.EarningsCalendarEntry, error) {
	var entries []*data.EarningsCalendarEntry
	err := pgxscan.Select(ctx, myLibrary.Pool, &entries,
		`SELECT instrument_id, announcement_date FROM earnings_calendar
		 WHERE instrument_id = $1 ORDER BY announcement_date`, instrumentID)
	return entries, err
}

// Filings returns the filing records for an instrument
func (myLibrary *Library) Filings(ctx context.Context, instrumentID int64) ([]*data.Filing, error) {
	var filings []*data.Filing
	err := pgxscan.Select(ctx, myLibrary.Pool, &filings,
		`SELECT instrument_id, filing_date, filing_type, coalesce(url, '') AS url
		 FROM filings WHERE instrument_id = $1 ORDER BY filing_date`, instrumentID)
	return filings, err
}

// LatestVolatility returns the most recent metrics snapshot for an
// instrument, or ErrNotFound when none has been calculated.
func (myLibrary *Library) LatestVolatility(ctx context.Context, instrumentID int64) (*data.VolatilityMetrics, error) {
	var metrics data.VolatilityMetrics
	err := pgxscan.Get(ctx, myLibrary.Pool, &metrics,
		`SELECT instrument_id, calculation_date, daily_volatility, annualized_volatility,
		        relative_volatility, beta, r_squared
		 FROM volatility_metrics WHERE instrument_id = $1
		 ORDER BY calculation_date DESC LIMIT 1`, instrumentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &metrics, nil
}

// PriceRecords returns the full price history joined with symbols for export
func (myLibrary *Library) PriceRecords(ctx context.Context) ([]*data.PriceRecord, error) {
	rows, err := myLibrary.Pool.Query(ctx,
		`SELECT i.symbol, p.trade_date, p.open, p.high, p.low, p.close, p.volume
		 FROM price_points p JOIN instruments i ON i.id = p.instrument_id
		 ORDER BY i.symbol, p.trade_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*data.PriceRecord
	for rows.Next() {
		var (
			record    data.PriceRecord
			tradeDate time.Time
		)
		if err := rows.Scan(&record.Symbol, &tradeDate, &record.Open, &record.High,
			&record.Low, &record.Close, &record.Volume); err != nil {
			return nil, err
		}
		record.TradeDate = tradeDate.Format("2006-01-02")
		records = append(records, &record)
	}

	return records, rows.Err()
}
