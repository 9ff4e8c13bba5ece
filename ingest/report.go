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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CategoryResult records the outcome of one ingestion category for one
// instrument. A failed category never aborts the categories that follow it.
type CategoryResult struct {
	Category   string
	NumRecords int
	Err        error
}

// Report is the per-instrument ingestion outcome. Partial success (prices
// stored, financials failed) is a valid end state and is visible here.
type Report struct {
	RunID        uuid.UUID
	Symbol       string
	InstrumentID int64

	StartTime time.Time
	EndTime   time.Time

	Categories []*CategoryResult
}

// Failed returns the names of categories that recorded an error
func (report *Report) Failed() []string {
	var failed []string
	for _, result := range report.Categories {
		if result.Err != nil {
			failed = append(failed, result.Category)
		}
	}
	return failed
}

// NumRecords returns the total count of records stored across categories
func (report *Report) NumRecords() int {
	total := 0
	for _, result := range report.Categories {
		total += result.NumRecords
	}
	return total
}

func (report *Report) MarshalZerologObject(e *zerolog.Event) {
	e.Str("RunID", report.RunID.String())
	e.Str("Symbol", report.Symbol)
	e.Int("NumRecords", report.NumRecords())
	e.Strs("FailedCategories", report.Failed())
}
