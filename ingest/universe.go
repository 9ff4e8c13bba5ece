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
	"os"

	"github.com/gocarina/gocsv"
)

// DefaultUniverse is the compiled-in ticker list used when no universe file
// is configured. The benchmark index comes first so that its history is in
// place before any dependent analysis runs.
var DefaultUniverse = []string{
	"^GSPC",
	"MSFT", "AAPL", "NVDA", "AMZN", "GOOG", "META", "BRK-B", "AVGO", "TSLA",
	"WMT", "LLY", "JPM", "V", "MA", "NFLX", "XOM", "COST", "ORCL", "PG",
	"JNJ", "UNH", "HD", "ABBV", "BAC", "KO", "PLTR", "TMUS", "PM", "CRM",
	"CVX",
}

type universeEntry struct {
	Symbol string `csv:"symbol"`
	Name   string `csv:"name"`
}

// LoadUniverse reads a ticker universe from a CSV file with a symbol column
func LoadUniverse(fn string) ([]string, error) {
	contents, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	var entries []*universeEntry
	if err := gocsv.UnmarshalBytes(contents, &entries); err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Symbol == "" {
			continue
		}
		symbols = append(symbols, entry.Symbol)
	}

	return symbols, nil
}
