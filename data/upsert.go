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
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Conn is the subset of a pooled database connection the persistence layer
// uses. *pgxpool.Conn satisfies it.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// upsertSQL builds an INSERT ... ON CONFLICT statement for tbl. cols is the
// ordered list of columns; the first keyCols entries form the composite
// primary key. Non-key columns are overwritten from EXCLUDED on conflict so
// that re-ingesting an existing key is last-write-wins. A table whose columns
// are all part of the key gets DO NOTHING instead.
func upsertSQL(tbl string, cols []string, keyCols int) string {
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for idx, col := range cols {
		quoted[idx] = fmt.Sprintf("%q", col)
		params[idx] = fmt.Sprintf("$%d", idx+1)
	}

	conflict := strings.Join(quoted[:keyCols], ", ")

	if keyCols == len(cols) {
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING`,
			tbl, strings.Join(quoted, ", "), strings.Join(params, ", "), conflict)
	}

	updates := make([]string, 0, len(cols)-keyCols)
	for _, col := range cols[keyCols:] {
		updates = append(updates, fmt.Sprintf("%q = EXCLUDED.%q", col, col))
	}

	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
		tbl, strings.Join(quoted, ", "), strings.Join(params, ", "), conflict,
		strings.Join(updates, ", "))
}

// DateOnly strips the time-of-day and timezone from a timestamp, leaving the
// calendar date at UTC midnight. Source feeds report observation times at
// market close in the exchange timezone; fact tables are keyed by calendar
// date only.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
