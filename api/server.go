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
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/peak-quant/pqdata/data"
	"github.com/peak-quant/pqdata/library"
	"github.com/rs/zerolog/log"
)

// Server exposes the library as a read-only JSON API
type Server struct {
	echo      *echo.Echo
	myLibrary *library.Library
}

func NewServer(myLibrary *library.Library) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	server := &Server{
		echo:      e,
		myLibrary: myLibrary,
	}
	server.registerRoutes()

	return server
}

func (server *Server) registerRoutes() {
	e := server.echo

	e.GET("/instruments", server.listInstruments)
	e.GET("/instruments/daily-changes", server.dailyChanges)
	e.GET("/instruments/volatility-metrics", server.volatilitySnapshots)

	g := e.Group("/instruments/:symbol")
	g.GET("", server.instrument)
	g.GET("/ohlc", server.priceHistory)
	g.GET("/dividends", server.dividends)
	g.GET("/splits", server.splits)
	g.GET("/info", server.payloadHandler(data.InfoPayload))
	g.GET("/fast_info", server.payloadHandler(data.FastInfoPayload))
	g.GET("/sustainability", server.payloadHandler(data.SustainabilityPayload))
	g.GET("/income", server.statementHandler(data.IncomeStatement))
	g.GET("/balance", server.statementHandler(data.BalanceSheet))
	g.GET("/cashflow", server.statementHandler(data.CashflowStatement))
	g.GET("/earnings", server.earnings)
	g.GET("/earnings_calendar", server.earningsCalendar)
	g.GET("/filings", server.filings)
	g.GET("/volatility", server.volatility)
}

// Start serves requests until the context is cancelled, then shuts the
// listener down gracefully
func (server *Server) Start(ctx context.Context, address string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("Address", address).Msg("api server listening")
		errCh <- server.echo.Start(address)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down api server")
		return server.echo.Shutdown(context.Background())
	}
}
