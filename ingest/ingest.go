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
package ingest

import (
	"context"
	"math"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peak-quant/pqdata/data"
	"github.com/peak-quant/pqdata/library"
	"github.com/peak-quant/pqdata/provider"
	"github.com/rs/zerolog/log"
)

// instrumentIDs caches symbol resolution across a run so repeat ingestions of
// the same symbol skip the lookup round trip
var instrumentIDs = haxmap.New[string, int64]()

// Run fetches every data category for one symbol and reconciles it against
// the library. Categories execute independently: an error in one is recorded
// on the report and the remaining categories still run. There is no rollback
// across categories.
func Run(ctx context.Context, myLibrary *library.Library, source provider.MarketData, symbol string) *Report {
	report := &Report{
		RunID:     uuid.New(),
		Symbol:    symbol,
		StartTime: time.Now(),
	}

	defer func() {
		report.EndTime = time.Now()
	}()

	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		// without a connection no stage can run for this instrument
		report.Categories = append(report.Categories, &CategoryResult{Category: "connect", Err: err})
		return report
	}
	defer conn.Release()

	instrument, err := resolveInstrument(ctx, conn, symbol)
	if err != nil {
		report.Categories = append(report.Categories, &CategoryResult{Category: "instrument", Err: err})
		return report
	}
	report.InstrumentID = instrument.ID

	stages := []struct {
		category string
		fetch    func() (int, error)
	}{
		{"prices", func() (int, error) { return ingestPrices(ctx, conn, source, instrument) }},
		{"corporate-actions", func() (int, error) { return ingestActions(ctx, conn, source, instrument) }},
		{"info", func() (int, error) { return ingestInfo(ctx, conn, source, instrument) }},
		{"financials", func() (int, error) { return ingestFinancials(ctx, conn, source, instrument) }},
		{"earnings", func() (int, error) { return ingestEarnings(ctx, conn, source, instrument) }},
		{"sustainability", func() (int, error) { return ingestSustainability(ctx, conn, source, instrument) }},
	}

	for _, stage := range stages {
		numRecords, err := stage.fetch()
		if err != nil {
			log.Error().Err(err).Str("Symbol", symbol).Str("Category", stage.category).
				Msg("ingestion category failed")
		}

		report.Categories = append(report.Categories, &CategoryResult{
			Category:   stage.category,
			NumRecords: numRecords,
			Err:        err,
		})
	}

	return report
}

// RunAll ingests every symbol sequentially and returns the per-instrument
// reports. One instrument's failure never stops the loop.
func RunAll(ctx context.Context, myLibrary *library.Library, source provider.MarketData, symbols []string) []*Report {
	reports := make([]*Report, 0, len(symbols))
	for _, symbol := range symbols {
		log.Info().Str("Symbol", symbol).Msg("ingesting instrument")
		report := Run(ctx, myLibrary, source, symbol)
		log.Info().Object("Report", report).Msg("instrument ingestion finished")
		reports = append(reports, report)
	}
	return reports
}

func resolveInstrument(ctx context.Context, conn *pgxpool.Conn, symbol string) (*data.Instrument, error) {
	if id, ok := instrumentIDs.Get(symbol); ok {
		return &data.Instrument{ID: id, Symbol: symbol}, nil
	}

	instrument, err := data.LookupOrCreateInstrument(ctx, conn, symbol)
	if err != nil {
		return nil, err
	}

	instrumentIDs.Set(symbol, instrument.ID)
	return instrument, nil
}

func ingestPrices(ctx context.Context, conn *pgxpool.Conn, source provider.MarketData, instrument *data.Instrument) (int, error) {
	quotes, err := source.PriceHistory(ctx, instrument.Symbol)
	if err != nil {
		return 0, err
	}

	series := make(data.PriceSeries, 0, len(quotes))
	for _, quote := range quotes {
		// padded or broken bars decode to zero or non-finite closes; those
		// rows carry no information and must never reach the store
		if math.IsNaN(quote.Close) || math.IsInf(quote.Close, 0) || quote.Close <= 0 {
			continue
		}

		series = append(series, &data.PricePoint{
			InstrumentID: instrument.ID,
			TradeDate:    quote.Date,
			Open:         quote.Open,
			High:         quote.High,
			Low:          quote.Low,
			Close:        quote.Close,
			Volume:       quote.Volume,
		})
	}

	if err := series.SaveDB(ctx, conn); err != nil {
		return 0, err
	}

	return len(series), nil
}

func ingestActions(ctx context.Context, conn *pgxpool.Conn, source provider.MarketData, instrument *data.Instrument) (int, error) {
	dividendEvents, err := source.Dividends(ctx, instrument.Symbol)
	if err != nil {
		return 0, err
	}

	dividends := make(data.DividendSeries, 0, len(dividendEvents))
	for _, event := range dividendEvents {
		dividends = append(dividends, &data.Dividend{
			InstrumentID: instrument.ID,
			ExDate:       event.Date,
			Amount:       event.Amount,
		})
	}

	if err := dividends.SaveDB(ctx, conn); err != nil {
		return 0, err
	}

	splitEvents, err := source.Splits(ctx, instrument.Symbol)
	if err != nil {
		return len(dividends), err
	}

	splits := make(data.SplitSeries, 0, len(splitEvents))
	for _, event := range splitEvents {
		splits = append(splits, &data.Split{
			InstrumentID: instrument.ID,
			SplitDate:    event.Date,
			Ratio:        event.Ratio,
		})
	}

	if err := splits.SaveDB(ctx, conn); err != nil {
		return len(dividends), err
	}

	return len(dividends) + len(splits), nil
}

func ingestInfo(ctx context.Context, conn *pgxpool.Conn, source provider.MarketData, instrument *data.Instrument) (int, error) {
	numRecords := 0

	info, err := source.Info(ctx, instrument.Symbol)
	if err != nil {
		return 0, err
	}

	if info != nil {
		payload := &data.Payload{InstrumentID: instrument.ID, Kind: data.InfoPayload, Data: info}
		if err := payload.SaveDB(ctx, conn); err != nil {
			return 0, err
		}
		numRecords++

		if name := displayName(info); name != "" {
			if err := instrument.SetName(ctx, conn, name); err != nil {
				log.Warn().Err(err).Str("Symbol", instrument.Symbol).Msg("could not refresh instrument name")
			}
		}
	}

	fastInfo, err := source.FastInfo(ctx, instrument.Symbol)
	if err != nil {
		return numRecords, err
	}

	if fastInfo != nil {
		payload := &data.Payload{InstrumentID: instrument.ID, Kind: data.FastInfoPayload, Data: fastInfo}
		if err := payload.SaveDB(ctx, conn); err != nil {
			return numRecords, err
		}
		numRecords++
	}

	return numRecords, nil
}

func ingestFinancials(ctx context.Context, conn *pgxpool.Conn, source provider.MarketData, instrument *data.Instrument) (int, error) {
	numRecords := 0

	for _, kind := range []data.StatementKind{data.IncomeStatement, data.BalanceSheet, data.CashflowStatement} {
		table, err := source.Financials(ctx, instrument.Symbol, kind)
		if err != nil {
			return numRecords, err
		}

		for period, items := range table {
			statement := &data.Statement{
				InstrumentID: instrument.ID,
				Kind:         kind,
				Period:       period,
				Data:         items,
			}

			if err := statement.SaveDB(ctx, conn); err != nil {
				return numRecords, err
			}
			numRecords++
		}
	}

	return numRecords, nil
}

func ingestEarnings(ctx context.Context, conn *pgxpool.Conn, source provider.MarketData, instrument *data.Instrument) (int, error) {
	events, err := source.EarningsHistory(ctx, instrument.Symbol)
	if err != nil {
		return 0, err
	}

	history := make(data.EarningsHistory, 0, len(events))
	for _, event := range events {
		history = append(history, &data.EarningsRecord{
			InstrumentID: instrument.ID,
			Period:       event.Period,
			EPS:          event.EPS,
			Revenue:      event.Revenue,
		})
	}

	if err := history.SaveDB(ctx, conn); err != nil {
		return 0, err
	}
	numRecords := len(history)

	announcementDates, err := source.EarningsCalendar(ctx, instrument.Symbol)
	if err != nil {
		return numRecords, err
	}

	calendar := make(data.EarningsCalendar, 0, len(announcementDates))
	for _, announcementDate := range announcementDates {
		calendar = append(calendar, &data.EarningsCalendarEntry{
			InstrumentID:     instrument.ID,
			AnnouncementDate: announcementDate,
		})
	}

	if err := calendar.SaveDB(ctx, conn); err != nil {
		return numRecords, err
	}
	numRecords += len(calendar)

	filingEvents, err := source.Filings(ctx, instrument.Symbol)
	if err != nil {
		return numRecords, err
	}

	filings := make(data.FilingList, 0, len(filingEvents))
	for _, event := range filingEvents {
		filings = append(filings, &data.Filing{
			InstrumentID: instrument.ID,
			FilingDate:   event.Date,
			FilingType:   event.Type,
			URL:          event.URL,
		})
	}

	if err := filings.SaveDB(ctx, conn); err != nil {
		return numRecords, err
	}

	return numRecords + len(filings), nil
}

func ingestSustainability(ctx context.Context, conn *pgxpool.Conn, source provider.MarketData, instrument *data.Instrument) (int, error) {
	scores, err := source.Sustainability(ctx, instrument.Symbol)
	if err != nil {
		return 0, err
	}

	if scores == nil {
		// instruments without ESG coverage keep an empty document
		scores = map[string]any{}
	}

	payload := &data.Payload{InstrumentID: instrument.ID, Kind: data.SustainabilityPayload, Data: scores}
	if err := payload.SaveDB(ctx, conn); err != nil {
		return 0, err
	}

	return 1, nil
}

// displayName extracts a human readable name from an info document
func displayName(info map[string]any) string {
	if name, ok := info["longName"].(string); ok && name != "" {
		return name
	}
	if name, ok := info["shortName"].(string); ok {
		return name
	}
	return ""
}
