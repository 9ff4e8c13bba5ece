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
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReportPartialFailure(t *testing.T) {
	report := &Report{
		RunID:  uuid.New(),
		Symbol: "AAPL",
		Categories: []*CategoryResult{
			{Category: "prices", NumRecords: 750},
			{Category: "info", NumRecords: 2},
			{Category: "financials", Err: errors.New("boom")},
		},
	}

	assert.Equal(t, []string{"financials"}, report.Failed())
	assert.Equal(t, 752, report.NumRecords())
}

func TestReportAllSucceeded(t *testing.T) {
	report := &Report{
		Symbol: "MSFT",
		Categories: []*CategoryResult{
			{Category: "prices", NumRecords: 10},
			{Category: "sustainability", NumRecords: 1},
		},
	}

	assert.Empty(t, report.Failed())
	assert.Equal(t, 11, report.NumRecords())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Apple Inc.", displayName(map[string]any{
		"longName":  "Apple Inc.",
		"shortName": "Apple",
	}))
	assert.Equal(t, "Apple", displayName(map[string]any{"shortName": "Apple"}))
	assert.Equal(t, "", displayName(map[string]any{"sector": "Technology"}))
	assert.Equal(t, "Apple", displayName(map[string]any{"longName": "", "shortName": "Apple"}))
}
