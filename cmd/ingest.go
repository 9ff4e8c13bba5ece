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
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/peak-quant/pqdata/healthcheck"
	"github.com/peak-quant/pqdata/ingest"
	"github.com/peak-quant/pqdata/library"
	"github.com/peak-quant/pqdata/provider"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ingestSchedule string

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [symbol...]",
	Short: "Fetch market data and reconcile it against the library",
	Long: `The ingest sub-command fetches prices, corporate actions, fundamentals,
earnings, filings and ESG data for each symbol and stores it in the library.

When symbols are given as arguments only those are ingested. Otherwise the
universe comes from the CSV file configured as universe.file, falling back to
the compiled-in default ticker list.

With --schedule the command runs as a daemon and executes a full ingestion
pass at the scheduled times (standard cron syntax).`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db_url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		symbols := resolveUniverse(args)
		source := provider.NewYahoo(viper.GetInt("provider.rate_limit"), viper.GetString("provider.lookback"))

		if ingestSchedule == "" {
			ingestOnce(ctx, myLibrary, source, symbols)
			return
		}

		// register a health check monitor for the daemon on first run; the
		// returned id is pinged after every scheduled pass
		if viper.GetString("healthchecks.check_id") == "" && viper.GetString("healthchecks.apikey") != "" {
			checkID, err := healthcheck.Create("pqdata ingest", []string{"pqdata", "ingest"}, ingestSchedule)
			if err != nil {
				log.Fatal().Err(err).Msg("could not create health check monitor")
			}
			viper.Set("healthchecks.check_id", checkID)
			log.Info().Str("CheckID", checkID).Msg("created health check monitor")
		}

		scheduler := cron.New()
		_, err = scheduler.AddFunc(ingestSchedule, func() {
			ingestOnce(ctx, myLibrary, source, symbols)
		})
		if err != nil {
			log.Fatal().Err(err).Str("Schedule", ingestSchedule).Msg("invalid cron schedule")
		}

		scheduler.Start()
		log.Info().Str("Schedule", ingestSchedule).Int("NumSymbols", len(symbols)).
			Msg("running as a daemon; waiting for scheduled ingestion runs")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		<-scheduler.Stop().Done()
	},
}

// ingestOnce runs a full ingestion pass and reports the outcome to the
// configured health check monitor, if any
func ingestOnce(ctx context.Context, myLibrary *library.Library, source provider.MarketData, symbols []string) {
	reports := ingest.RunAll(ctx, myLibrary, source, symbols)

	numFailed := 0
	numRecords := 0
	for _, report := range reports {
		if len(report.Failed()) > 0 {
			numFailed++
		}
		numRecords += report.NumRecords()
	}

	log.Info().Int("NumSymbols", len(symbols)).Int("NumFailed", numFailed).
		Int("NumRecords", numRecords).Msg("ingestion pass finished")

	if checkID := viper.GetString("healthchecks.check_id"); checkID != "" {
		var err error
		if numFailed > 0 {
			err = healthcheck.PingFailure(checkID)
		} else {
			err = healthcheck.PingSuccess(checkID)
		}
		if err != nil {
			log.Warn().Err(err).Msg("could not ping health check monitor")
		}
	}
}

// resolveUniverse picks the ticker list: explicit arguments win, then the
// configured universe file, then the compiled-in default
func resolveUniverse(args []string) []string {
	if len(args) > 0 {
		return args
	}

	if universeFN := viper.GetString("universe.file"); universeFN != "" {
		symbols, err := ingest.LoadUniverse(universeFN)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", universeFN).Msg("could not load universe file")
		}
		return symbols
	}

	return ingest.DefaultUniverse
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestSchedule, "schedule", "", "run as a daemon ingesting on the given cron schedule")
}
