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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpsertSQL(t *testing.T) {
	stmt := upsertSQL("price_points", []string{"instrument_id", "trade_date", "close"}, 2)
	assert.Equal(t,
		`INSERT INTO price_points ("instrument_id", "trade_date", "close") VALUES ($1, $2, $3) `+
			`ON CONFLICT ("instrument_id", "trade_date") DO UPDATE SET "close" = EXCLUDED."close"`,
		stmt)
}

func TestUpsertSQLAllKeyColumns(t *testing.T) {
	stmt := upsertSQL("earnings_calendar", []string{"instrument_id", "announcement_date"}, 2)
	assert.Equal(t,
		`INSERT INTO earnings_calendar ("instrument_id", "announcement_date") VALUES ($1, $2) `+
			`ON CONFLICT ("instrument_id", "announcement_date") DO NOTHING`,
		stmt)
}

func TestDateOnly(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	marketClose := time.Date(2024, 3, 15, 16, 0, 0, 0, newYork)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), DateOnly(marketClose))

	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, midnight, DateOnly(midnight))
}
