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
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/peak-quant/pqdata/data"
	"github.com/peak-quant/pqdata/library"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

// resolveSymbol maps the :symbol path parameter to an instrument; a symbol
// the library has never seen yields a 404 response
func (server *Server) resolveSymbol(c echo.Context) (*data.Instrument, error) {
	symbol := c.Param("symbol")
	instrument, err := server.myLibrary.InstrumentBySymbol(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return nil, c.JSON(http.StatusNotFound, errorResponse{Error: "unknown symbol: " + symbol})
		}
		return nil, server.internalError(c, err)
	}
	return instrument, nil
}

func (server *Server) internalError(c echo.Context, err error) error {
	log.Error().Err(err).Str("Path", c.Path()).Msg("api query failed")
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (server *Server) listInstruments(c echo.Context) error {
	instruments, err := server.myLibrary.Instruments(c.Request().Context())
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, instruments)
}

func (server *Server) dailyChanges(c echo.Context) error {
	changes, err := server.myLibrary.DailyChanges(c.Request().Context())
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, changes)
}

func (server *Server) volatilitySnapshots(c echo.Context) error {
	snapshots, err := server.myLibrary.VolatilitySnapshots(c.Request().Context())
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, snapshots)
}

func (server *Server) instrument(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}
	return c.JSON(http.StatusOK, instrument)
}

func (server *Server) priceHistory(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}

	prices, err := server.myLibrary.PriceHistory(c.Request().Context(), instrument.ID)
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, prices)
}

func (server *Server) dividends(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}

	dividends, err := server.myLibrary.Dividends(c.Request().Context(), instrument.ID)
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, dividends)
}

func (server *Server) splits(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}

	splits, err := server.myLibrary.Splits(c.Request().Context(), instrument.ID)
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, splits)
}

func (server *Server) payloadHandler(kind data.PayloadKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		instrument, err := server.resolveSymbol(c)
		if instrument == nil {
			return err
		}

		payload, err := server.myLibrary.Payload(c.Request().Context(), instrument.ID, kind)
		if err != nil {
			if errors.Is(err, library.ErrNotFound) {
				return c.JSON(http.StatusOK, map[string]any{})
			}
			return server.internalError(c, err)
		}
		return c.JSON(http.StatusOK, payload.Data)
	}
}

func (server *Server) statementHandler(kind data.StatementKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		instrument, err := server.resolveSymbol(c)
		if instrument == nil {
			return err
		}

		statements, err := server.myLibrary.Statements(c.Request().Context(), instrument.ID, kind)
		if err != nil {
			return server.internalError(c, err)
		}
		return c.JSON(http.StatusOK, statements)
	}
}

func (server *Server) earnings(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}

	records, err := server.myLibrary.Earnings(c.Request().Context(), instrument.ID)
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (server *Server) earningsCalendar(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}

	entries, err := server.myLibrary.EarningsCalendar(c.Request().Context(), instrument.ID)
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (server *Server) filings(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}

	filings, err := server.myLibrary.Filings(c.Request().Context(), instrument.ID)
	if err != nil {
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, filings)
}

func (server *Server) volatility(c echo.Context) error {
	instrument, err := server.resolveSymbol(c)
	if instrument == nil {
		return err
	}

	metrics, err := server.myLibrary.LatestVolatility(c.Request().Context(), instrument.ID)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "no volatility metrics for " + instrument.Symbol})
		}
		return server.internalError(c, err)
	}
	return c.JSON(http.StatusOK, metrics)
}
