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
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// PriceRecord is the flattened export representation of a price row.
type PriceRecord struct {
	Symbol    string  `parquet:"name=symbol, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TradeDate string  `parquet:"name=trade_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Open      float64 `parquet:"name=open, type=DOUBLE"`
	High      float64 `parquet:"name=high, type=DOUBLE"`
	Low       float64 `parquet:"name=low, type=DOUBLE"`
	Close     float64 `parquet:"name=close, type=DOUBLE"`
	Volume    int64   `parquet:"name=volume, type=INT64"`
}

// SaveParquet writes the price records to a snappy-compressed parquet file
func SaveParquet(records []*PriceRecord, fn string) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot open parquet file for writing")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(PriceRecord), 4)
	if err != nil {
		log.Error().Err(err).Msg("cannot create parquet writer")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, record := range records {
		if err := pw.Write(record); err != nil {
			log.Error().Err(err).Str("Symbol", record.Symbol).Msg("cannot write parquet record")
			return err
		}
	}

	if err := pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("cannot finalize parquet file")
		return err
	}

	log.Info().Str("FileName", fn).Int("NumRecords", len(records)).Msg("wrote price history export")
	return nil
}
