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
	"testing"
	"time"

	"github.com/peak-quant/pqdata/data"
	"github.com/stretchr/testify/assert"
)

func TestNewDailyChange(t *testing.T) {
	latest := &data.PricePoint{
		TradeDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Close:     55,
	}
	previous := &data.PricePoint{
		TradeDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Close:     50,
	}

	change := newDailyChange("AAPL", latest, previous)

	assert.Equal(t, "AAPL", change.Symbol)
	assert.Equal(t, latest.TradeDate, change.LatestDate)
	assert.Equal(t, 55.0, change.LatestPrice)
	assert.Equal(t, 50.0, change.PreviousPrice)
	assert.InDelta(t, 5.0, change.PriceChange, 1e-12)
	assert.InDelta(t, 10.0, change.PercentChange, 1e-12)
}

func TestNewDailyChangeZeroPreviousClose(t *testing.T) {
	latest := &data.PricePoint{
		TradeDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Close:     55,
	}
	previous := &data.PricePoint{
		TradeDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Close:     0,
	}

	// no defined percent change; the instrument is omitted instead of
	// reporting a non-finite number
	assert.Nil(t, newDailyChange("AAPL", latest, previous))
}

func TestNewDailyChangeNegativeMove(t *testing.T) {
	latest := &data.PricePoint{
		TradeDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Close:     45,
	}
	previous := &data.PricePoint{
		TradeDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Close:     50,
	}

	change := newDailyChange("MSFT", latest, previous)

	assert.InDelta(t, -5.0, change.PriceChange, 1e-12)
	assert.InDelta(t, -10.0, change.PercentChange, 1e-12)
}
