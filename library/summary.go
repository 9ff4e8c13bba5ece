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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	name := myLibrary.Name
	if name == "" {
		name = "Market Data Library"
	}

	if _, err := builder.WriteString(fmt.Sprintf("# %s\n\n", name)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", myLibrary.DBUrl)); err != nil {
		return "", err
	}

	numInstruments, err := myLibrary.NumInstruments(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Instruments Tracked: %d\n", numInstruments)); err != nil {
		return "", err
	}

	numPrices, err := myLibrary.NumPricePoints(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Price Points: %d\n", numPrices)); err != nil {
		return "", err
	}

	firstDate, lastDate, err := myLibrary.PriceCoverage(ctx)
	if err != nil {
		return "", err
	}

	if !firstDate.Equal(time.Time{}) && firstDate.Year() > 1 {
		if _, err := builder.WriteString(fmt.Sprintf("  * Coverage: %s - %s\n",
			firstDate.Format("Jan 2006"), lastDate.Format("Jan 2006"))); err != nil {
			return "", err
		}
	}

	lastAnalysis, err := myLibrary.LastAnalysis(ctx)
	if err != nil {
		return "", err
	}

	if lastAnalysis.Year() <= 1 {
		if _, err := builder.WriteString("\nLast Analysis: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		age := timeago.English.Format(lastAnalysis)
		if _, err := builder.WriteString(fmt.Sprintf("\nLast Analysis: %s (%s)\n\n", age,
			lastAnalysis.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	// Instruments
	if _, err := builder.WriteString("## Instruments\n\n"); err != nil {
		return "", err
	}

	instruments, err := myLibrary.Instruments(ctx)
	if err != nil {
		return "", err
	}

	for _, instrument := range instruments {
		displayName := instrument.Name
		if displayName == "" {
			displayName = "-"
		}

		if _, err := builder.WriteString(p.Sprintf("  * %s (%s)\n", instrument.Symbol, displayName)); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}
