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
	"time"

	"github.com/peak-quant/pqdata/backblaze"
	"github.com/peak-quant/pqdata/data"
	"github.com/peak-quant/pqdata/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	exportFN     string
	exportUpload bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the price history to a parquet file",
	Long: `The export sub-command flattens the complete price history into a
snappy-compressed parquet file. With --upload the file is also stored in the
configured backblaze bucket under a date-stamped directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db_url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		records, err := myLibrary.PriceRecords(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load price records")
		}

		if err := data.SaveParquet(records, exportFN); err != nil {
			log.Fatal().Err(err).Str("FileName", exportFN).Msg("could not write parquet export")
		}

		if exportUpload {
			bucketName := viper.GetString("backblaze.bucket")
			dirname := time.Now().Format("2006-01-02")
			if err := backblaze.Upload(exportFN, bucketName, dirname); err != nil {
				log.Fatal().Err(err).Msg("could not upload export")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFN, "output", "o", "pqdata-prices.parquet", "output file name")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "upload the export to backblaze")
}
