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
package healthcheck

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	var received createReq
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ping_url": "https://hc-ping.com/abc-123"}`))
	}))
	defer server.Close()

	origChecks := checksURL
	checksURL = server.URL
	defer func() { checksURL = origChecks }()

	viper.Set("healthchecks.apikey", "test-key")
	defer viper.Set("healthchecks.apikey", "")

	checkID, err := Create("pqdata ingest", []string{"pqdata", "ingest"}, "30 21 * * 1-5")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", checkID)

	assert.Equal(t, "test-key", received.APIKey)
	assert.Equal(t, "pqdata ingest", received.Name)
	assert.Equal(t, "pqdata-ingest", received.Slug)
	assert.Equal(t, "pqdata ingest", received.Tags)
	assert.Equal(t, "30 21 * * 1-5", received.Schedule)
}

func TestCreateBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	origChecks := checksURL
	checksURL = server.URL
	defer func() { checksURL = origChecks }()

	_, err := Create("pqdata ingest", nil, "30 21 * * 1-5")
	assert.ErrorIs(t, err, ErrStatus)
}

func TestPing(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	origPing := pingURL
	pingURL = server.URL
	defer func() { pingURL = origPing }()

	require.NoError(t, PingSuccess("abc-123"))
	require.NoError(t, PingFailure("abc-123"))
	assert.Equal(t, []string{"/abc-123", "/abc-123/fail"}, paths)
}

func TestPingBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origPing := pingURL
	pingURL = server.URL
	defer func() { pingURL = origPing }()

	assert.ErrorIs(t, PingSuccess("missing"), ErrStatus)
}
