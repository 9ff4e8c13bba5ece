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
package provider

import (
	"context"
	"time"

	"github.com/peak-quant/pqdata/data"
)

// Quote is one day of raw OHLCV data as reported by the source
type Quote struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// DividendEvent is a cash dividend keyed by ex-date
type DividendEvent struct {
	Date   time.Time
	Amount float64
}

// SplitEvent is a share split keyed by effective date
type SplitEvent struct {
	Date  time.Time
	Ratio float64
}

// EarningsEvent is one reported fiscal period of EPS and revenue
type EarningsEvent struct {
	Period  string
	EPS     float64
	Revenue float64
}

// FilingEvent is a regulatory filing reference
type FilingEvent struct {
	Date time.Time
	Type string
	URL  string
}

// StatementTable maps a fiscal period label to the line items reported for
// that period. Line item values are opaque and may contain non-finite
// numbers; callers must sanitize before storage.
type StatementTable map[string]map[string]any

// MarketData is the boundary contract with the external data source. Every
// method treats an empty or missing category as a normal outcome and returns
// a nil result without error.
type MarketData interface {
	Name() string

	PriceHistory(ctx context.Context, symbol string) ([]*Quote, error)
	Dividends(ctx context.Context, symbol string) ([]*DividendEvent, error)
	Splits(ctx context.Context, symbol string) ([]*SplitEvent, error)
	Info(ctx context.Context, symbol string) (map[string]any, error)
	FastInfo(ctx context.Context, symbol string) (map[string]any, error)
	Financials(ctx context.Context, symbol string, kind data.StatementKind) (StatementTable, error)
	EarningsHistory(ctx context.Context, symbol string) ([]*EarningsEvent, error)
	EarningsCalendar(ctx context.Context, symbol string) ([]time.Time, error)
	Filings(ctx context.Context, symbol string) ([]*FilingEvent, error)
	Sustainability(ctx context.Context, symbol string) (map[string]any, error)
}
