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

	"github.com/peak-quant/pqdata/library"
	"github.com/peak-quant/pqdata/risk"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute volatility metrics for every instrument in the library",
	Long: `The analyze sub-command computes daily and annualized volatility,
relative volatility, beta and R² for every instrument against the configured
benchmark index (benchmark.symbol, ^GSPC by default). Instruments without
enough overlapping history with the benchmark are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db_url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		benchmarkSymbol := viper.GetString("benchmark.symbol")
		if _, err := risk.AnalyzeAll(ctx, myLibrary, benchmarkSymbol); err != nil {
			log.Fatal().Err(err).Msg("volatility analysis failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
