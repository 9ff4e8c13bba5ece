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
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/peak-quant/pqdata/data"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	ErrStatus = errors.New("status code is invalid")
	ErrDecode = errors.New("could not decode source response")
)

const (
	chartURL   = "https://query1.finance.yahoo.com/v8/finance/chart/%s"
	summaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s"
)

// Yahoo fetches market data from the public Yahoo Finance JSON endpoints
type Yahoo struct {
	client   *resty.Client
	limiter  *rate.Limiter
	lookback string
}

// NewYahoo builds a Yahoo source. rateLimit is the maximum number of requests
// per minute; lookback is a chart range string such as "3y".
func NewYahoo(rateLimit int, lookback string) *Yahoo {
	if rateLimit <= 0 {
		rateLimit = 60
	}

	if lookback == "" {
		lookback = "3y"
	}

	client := resty.New().
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) pqdata")

	return &Yahoo{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(float64(rateLimit)/float64(61)), 1),
		lookback: lookback,
	}
}

func (yahoo *Yahoo) Name() string {
	return "yahoo"
}

// Private interface

// quoteBars holds the chart price arrays. Non-trading days are padded with
// JSON null, so every entry is a pointer; a nil entry means no bar.
type quoteBars struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type chartResult struct {
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
		Splits map[string]struct {
			Numerator   float64 `json:"numerator"`
			Denominator float64 `json:"denominator"`
			Date        int64   `json:"date"`
		} `json:"splits"`
	} `json:"events"`
	Indicators struct {
		Quote []quoteBars `json:"quote"`
	} `json:"indicators"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
	} `json:"chart"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
	} `json:"quoteSummary"`
}

func (yahoo *Yahoo) fetchChart(ctx context.Context, symbol string, withEvents bool) (*chartResponse, error) {
	if err := yahoo.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := yahoo.client.R().
		SetContext(ctx).
		SetQueryParam("range", yahoo.lookback).
		SetQueryParam("interval", "1d")
	if withEvents {
		req.SetQueryParam("events", "div,split")
	}

	resp, err := req.Get(fmt.Sprintf(chartURL, url.PathEscape(symbol)))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Symbol", symbol).
			Str("URL", resp.Request.URL).Msg("chart endpoint returned an invalid HTTP response")
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	chart := &chartResponse{}
	if err := json.Unmarshal(resp.Body(), chart); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	return chart, nil
}

// fetchModules queries the quoteSummary endpoint for the requested modules.
// A missing symbol or empty result is a normal outcome and returns nil.
func (yahoo *Yahoo) fetchModules(ctx context.Context, symbol string, modules ...string) (map[string]json.RawMessage, error) {
	if err := yahoo.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	moduleList := ""
	for idx, module := range modules {
		if idx > 0 {
			moduleList += ","
		}
		moduleList += module
	}

	resp, err := yahoo.client.R().
		SetContext(ctx).
		SetQueryParam("modules", moduleList).
		Get(fmt.Sprintf(summaryURL, url.PathEscape(symbol)))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == 404 {
		return nil, nil
	}

	if resp.StatusCode() >= 300 {
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Symbol", symbol).
			Str("Modules", moduleList).Msg("quoteSummary endpoint returned an invalid HTTP response")
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	summary := &summaryResponse{}
	if err := json.Unmarshal(resp.Body(), summary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	if len(summary.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	return summary.QuoteSummary.Result[0], nil
}

func (yahoo *Yahoo) PriceHistory(ctx context.Context, symbol string) ([]*Quote, error) {
	chart, err := yahoo.fetchChart(ctx, symbol, false)
	if err != nil {
		return nil, err
	}

	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	return collectQuotes(&chart.Chart.Result[0]), nil
}

// collectQuotes flattens a chart result into quotes. Bars with any null field
// carry no observation and are dropped; ragged arrays are truncated to the
// shortest one.
func collectQuotes(result *chartResult) []*Quote {
	bars := result.Indicators.Quote[0]

	numBars := len(result.Timestamp)
	for _, n := range []int{len(bars.Open), len(bars.High), len(bars.Low), len(bars.Close), len(bars.Volume)} {
		if n < numBars {
			numBars = n
		}
	}

	quotes := make([]*Quote, 0, numBars)
	for idx := 0; idx < numBars; idx++ {
		if bars.Open[idx] == nil || bars.High[idx] == nil || bars.Low[idx] == nil ||
			bars.Close[idx] == nil || bars.Volume[idx] == nil {
			continue
		}

		quotes = append(quotes, &Quote{
			Date:   time.Unix(result.Timestamp[idx], 0).UTC(),
			Open:   *bars.Open[idx],
			High:   *bars.High[idx],
			Low:    *bars.Low[idx],
			Close:  *bars.Close[idx],
			Volume: *bars.Volume[idx],
		})
	}

	if len(quotes) == 0 {
		return nil
	}

	return quotes
}

func (yahoo *Yahoo) Dividends(ctx context.Context, symbol string) ([]*DividendEvent, error) {
	chart, err := yahoo.fetchChart(ctx, symbol, true)
	if err != nil {
		return nil, err
	}

	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	events := chart.Chart.Result[0].Events
	dividends := make([]*DividendEvent, 0, len(events.Dividends))
	for _, div := range events.Dividends {
		dividends = append(dividends, &DividendEvent{
			Date:   time.Unix(div.Date, 0).UTC(),
			Amount: div.Amount,
		})
	}

	return dividends, nil
}

func (yahoo *Yahoo) Splits(ctx context.Context, symbol string) ([]*SplitEvent, error) {
	chart, err := yahoo.fetchChart(ctx, symbol, true)
	if err != nil {
		return nil, err
	}

	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	events := chart.Chart.Result[0].Events
	splits := make([]*SplitEvent, 0, len(events.Splits))
	for _, split := range events.Splits {
		if split.Denominator == 0 {
			continue
		}

		splits = append(splits, &SplitEvent{
			Date:  time.Unix(split.Date, 0).UTC(),
			Ratio: split.Numerator / split.Denominator,
		})
	}

	return splits, nil
}

func (yahoo *Yahoo) Info(ctx context.Context, symbol string) (map[string]any, error) {
	modules, err := yahoo.fetchModules(ctx, symbol, "assetProfile", "summaryDetail", "price")
	if err != nil || modules == nil {
		return nil, err
	}

	// flatten the modules into a single document, the way callers expect a
	// ticker info dictionary to look
	info := make(map[string]any)
	for _, raw := range modules {
		section := make(map[string]any)
		if err := json.Unmarshal(raw, &section); err != nil {
			continue
		}
		for k, v := range section {
			info[k] = v
		}
	}

	if len(info) == 0 {
		return nil, nil
	}

	return info, nil
}

func (yahoo *Yahoo) FastInfo(ctx context.Context, symbol string) (map[string]any, error) {
	modules, err := yahoo.fetchModules(ctx, symbol, "price")
	if err != nil || modules == nil {
		return nil, err
	}

	raw, ok := modules["price"]
	if !ok {
		return nil, nil
	}

	fastInfo := make(map[string]any)
	if err := json.Unmarshal(raw, &fastInfo); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	return fastInfo, nil
}

var statementModules = map[data.StatementKind]struct {
	module  string
	wrapper string
}{
	data.IncomeStatement:   {"incomeStatementHistory", "incomeStatementHistory"},
	data.BalanceSheet:      {"balanceSheetHistory", "balanceSheetStatements"},
	data.CashflowStatement: {"cashflowStatementHistory", "cashflowStatements"},
}

func (yahoo *Yahoo) Financials(ctx context.Context, symbol string, kind data.StatementKind) (StatementTable, error) {
	moduleInfo, ok := statementModules[kind]
	if !ok {
		return nil, fmt.Errorf("unknown statement kind: %s", kind)
	}

	modules, err := yahoo.fetchModules(ctx, symbol, moduleInfo.module)
	if err != nil || modules == nil {
		return nil, err
	}

	raw, ok := modules[moduleInfo.module]
	if !ok {
		return nil, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	rawPeriods, ok := wrapper[moduleInfo.wrapper]
	if !ok {
		return nil, nil
	}

	var periods []map[string]any
	if err := json.Unmarshal(rawPeriods, &periods); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	table := make(StatementTable, len(periods))
	for _, items := range periods {
		period := formattedValue(items, "endDate")
		if period == "" {
			continue
		}
		table[period] = items
	}

	if len(table) == 0 {
		return nil, nil
	}

	return table, nil
}

func (yahoo *Yahoo) EarningsHistory(ctx context.Context, symbol string) ([]*EarningsEvent, error) {
	modules, err := yahoo.fetchModules(ctx, symbol, "earnings")
	if err != nil || modules == nil {
		return nil, err
	}

	raw, ok := modules["earnings"]
	if !ok {
		return nil, nil
	}

	var earnings struct {
		FinancialsChart struct {
			Quarterly []map[string]any `json:"quarterly"`
		} `json:"financialsChart"`
		EarningsChart struct {
			Quarterly []map[string]any `json:"quarterly"`
		} `json:"earningsChart"`
	}
	if err := json.Unmarshal(raw, &earnings); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	// eps actuals are reported on the earnings chart, revenue on the
	// financials chart; join the two on the period label
	eps := make(map[string]float64, len(earnings.EarningsChart.Quarterly))
	for _, quarter := range earnings.EarningsChart.Quarterly {
		period, _ := quarter["date"].(string)
		if period == "" {
			continue
		}
		eps[period] = rawNumber(quarter["actual"])
	}

	events := make([]*EarningsEvent, 0, len(earnings.FinancialsChart.Quarterly))
	for _, quarter := range earnings.FinancialsChart.Quarterly {
		period, _ := quarter["date"].(string)
		if period == "" {
			continue
		}

		events = append(events, &EarningsEvent{
			Period:  period,
			EPS:     eps[period],
			Revenue: rawNumber(quarter["revenue"]),
		})
	}

	if len(events) == 0 {
		return nil, nil
	}

	return events, nil
}

func (yahoo *Yahoo) EarningsCalendar(ctx context.Context, symbol string) ([]time.Time, error) {
	modules, err := yahoo.fetchModules(ctx, symbol, "calendarEvents")
	if err != nil || modules == nil {
		return nil, err
	}

	raw, ok := modules["calendarEvents"]
	if !ok {
		return nil, nil
	}

	var calendar struct {
		Earnings struct {
			EarningsDate []struct {
				Raw int64 `json:"raw"`
			} `json:"earningsDate"`
		} `json:"earnings"`
	}
	if err := json.Unmarshal(raw, &calendar); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	dates := make([]time.Time, 0, len(calendar.Earnings.EarningsDate))
	for _, entry := range calendar.Earnings.EarningsDate {
		if entry.Raw == 0 {
			continue
		}
		dates = append(dates, time.Unix(entry.Raw, 0).UTC())
	}

	return dates, nil
}

func (yahoo *Yahoo) Filings(ctx context.Context, symbol string) ([]*FilingEvent, error) {
	modules, err := yahoo.fetchModules(ctx, symbol, "secFilings")
	if err != nil || modules == nil {
		return nil, err
	}

	raw, ok := modules["secFilings"]
	if !ok {
		return nil, nil
	}

	var secFilings struct {
		Filings []struct {
			Date     string `json:"date"`
			Type     string `json:"type"`
			EdgarURL string `json:"edgarUrl"`
		} `json:"filings"`
	}
	if err := json.Unmarshal(raw, &secFilings); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	filings := make([]*FilingEvent, 0, len(secFilings.Filings))
	for _, filing := range secFilings.Filings {
		filingDate, err := time.Parse("2006-01-02", filing.Date)
		if err != nil {
			log.Warn().Str("Date", filing.Date).Str("Symbol", symbol).
				Msg("could not parse filing date")
			continue
		}

		filings = append(filings, &FilingEvent{
			Date: filingDate,
			Type: filing.Type,
			URL:  filing.EdgarURL,
		})
	}

	return filings, nil
}

func (yahoo *Yahoo) Sustainability(ctx context.Context, symbol string) (map[string]any, error) {
	modules, err := yahoo.fetchModules(ctx, symbol, "esgScores")
	if err != nil || modules == nil {
		return nil, err
	}

	raw, ok := modules["esgScores"]
	if !ok {
		return nil, nil
	}

	scores := make(map[string]any)
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	return scores, nil
}

// rawNumber unwraps the {"raw": n, "fmt": "..."} value convention used by
// the quoteSummary endpoint. Plain numbers pass through.
func rawNumber(value any) float64 {
	switch val := value.(type) {
	case float64:
		return val
	case map[string]any:
		if raw, ok := val["raw"].(float64); ok {
			return raw
		}
	}
	return 0
}

// formattedValue extracts the fmt string of a wrapped value from a line item map
func formattedValue(items map[string]any, key string) string {
	wrapped, ok := items[key].(map[string]any)
	if !ok {
		return ""
	}

	formatted, _ := wrapped["fmt"].(string)
	return formatted
}
