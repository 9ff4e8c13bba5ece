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
package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUniverse(t *testing.T) {
	universeFN := filepath.Join(t.TempDir(), "universe.csv")
	contents := "symbol,name\nAAPL,Apple Inc.\n,Missing Symbol\nMSFT,Microsoft Corporation\n"
	require.NoError(t, os.WriteFile(universeFN, []byte(contents), 0644))

	symbols, err := LoadUniverse(universeFN)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
}

func TestLoadUniverseMissingFile(t *testing.T) {
	_, err := LoadUniverse(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	assert.Error(t, err)
}

func TestDefaultUniverseBenchmarkFirst(t *testing.T) {
	require.NotEmpty(t, DefaultUniverse)
	assert.Equal(t, "^GSPC", DefaultUniverse[0])
}
