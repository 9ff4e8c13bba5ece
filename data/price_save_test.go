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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceSeriesSaveDB(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	series := PriceSeries{
		{
			InstrumentID: 7,
			TradeDate:    time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
			Open:         100.0, High: 101.5, Low: 99.5, Close: 101.0, Volume: 1000,
		},
		{
			InstrumentID: 7,
			TradeDate:    time.Date(2024, 3, 18, 16, 0, 0, 0, time.UTC),
			Open:         101.0, High: 102.0, Low: 100.5, Close: 101.5, Volume: 1500,
		},
	}

	mock.ExpectBegin()
	for _, price := range series {
		mock.ExpectExec(`INSERT INTO price_points .+ ON CONFLICT .+ DO UPDATE SET`).
			WithArgs(price.InstrumentID, DateOnly(price.TradeDate), price.Open,
				price.High, price.Low, price.Close, price.Volume).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	require.NoError(t, series.SaveDB(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceSeriesSaveDBRollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	series := PriceSeries{
		{
			InstrumentID: 7,
			TradeDate:    time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
			Open:         100.0, High: 101.5, Low: 99.5, Close: 101.0, Volume: 1000,
		},
	}

	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO price_points`).
		WithArgs(series[0].InstrumentID, DateOnly(series[0].TradeDate), series[0].Open,
			series[0].High, series[0].Low, series[0].Close, series[0].Volume).
		WillReturnError(boom)
	mock.ExpectRollback()

	assert.ErrorIs(t, series.SaveDB(context.Background(), mock), boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceSeriesSaveDBEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	require.NoError(t, PriceSeries{}.SaveDB(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
