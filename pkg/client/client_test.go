// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope writes the standard API response wrapper.
func envelope(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func envelopeError(t *testing.T, w http.ResponseWriter, status int, code, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	}))
}

func TestNew_Defaults(t *testing.T) {
	c := New("http://localhost:7870/")

	assert.Equal(t, "http://localhost:7870", c.BaseURL())
	assert.Equal(t, LatestVersion, c.Version())
	assert.NotNil(t, c.Query)
	assert.NotNil(t, c.Paths)
	assert.NotNil(t, c.Search)
	assert.NotNil(t, c.Documents)
	assert.NotNil(t, c.System)
}

func TestNew_Options(t *testing.T) {
	hc := &http.Client{}
	c := New("http://localhost:7870",
		WithVersion("2026-08-30"),
		WithHTTPClient(hc),
		WithTimeout(5*time.Second),
	)

	assert.Equal(t, "2026-08-30", c.Version())
	assert.Equal(t, 5*time.Second, hc.Timeout)
}

func TestClient_SendsVersionHeader(t *testing.T) {
	var gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get(VersionHeader)
		envelope(t, w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithVersion("2026-08-30"))
	require.NoError(t, c.System.Health(context.Background()))
	assert.Equal(t, "2026-08-30", gotVersion)
}

func TestQueryClient_Compile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/query/compile", r.URL.Path)
		envelope(t, w, http.StatusOK, CompileResult{OK: true, ClauseCount: 2, TermCount: 3})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Query.Compile(context.Background(), "severity:error OR a AND b")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 2, result.ClauseCount)
	assert.Equal(t, 3, result.TermCount)
}

func TestQueryClient_Compile_MalformedIsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope(t, w, http.StatusOK, CompileResult{OK: false, Error: "Filter cannot end with NOT"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Query.Compile(context.Background(), "a NOT")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "NOT")
}

func TestQueryClient_Filter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "severity:error", req["query"])
		envelope(t, w, http.StatusOK, FilterResult{
			FilteredLines: []string{"ERROR bad"},
			ResultCount:   1,
			TotalCount:    2,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Query.Filter(context.Background(), "INFO ok\nERROR bad\n", "severity:error")
	require.NoError(t, err)
	assert.Equal(t, []string{"ERROR bad"}, result.FilteredLines)
	assert.Equal(t, 1, result.ResultCount)
}

func TestPathClient_Locate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/path/locate", r.URL.Path)
		envelope(t, w, http.StatusOK, LocateResult{
			Selection: &Selection{From: 6, To: 9, ValueFrom: 10, ValueTo: 11, Line: 1, Col: 7},
			Tokens:    []string{"a", "b"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Paths.Locate(context.Background(), `{"a":{"b":7}}`, "a.b")
	require.NoError(t, err)
	require.NotNil(t, result.Selection)
	assert.Equal(t, 6, result.Selection.From)
	assert.Equal(t, []string{"a", "b"}, result.Tokens)
}

func TestPathClient_Locate_NullSelection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope(t, w, http.StatusOK, LocateResult{Tokens: []string{"missing"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Paths.Locate(context.Background(), `{"a":1}`, "missing")
	require.NoError(t, err)
	assert.Nil(t, result.Selection)
}

func TestSearchClient_PatternRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelopeError(t, w, http.StatusBadRequest, "PATTERN_REJECTED",
			"Regex rejected: potentially catastrophic backtracking")
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Search.Scan(context.Background(), []Tab{{Name: "one", Content: "aaaa"}}, "(a+)+b", "")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "PATTERN_REJECTED", apiErr.Code)
}

func TestDocumentClient_Open(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/var/log/app.log", r.URL.Query().Get("path"))
		envelope(t, w, http.StatusOK, Snapshot{
			Path:     "/var/log/app.log",
			Name:     "app.log",
			Content:  "INFO ok\n",
			Language: "log",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	snap, err := c.Documents.Open(context.Background(), "/var/log/app.log")
	require.NoError(t, err)
	assert.Equal(t, "app.log", snap.Name)
	assert.Equal(t, "INFO ok\n", snap.Content)
}

func TestDocumentClient_Open_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelopeError(t, w, http.StatusNotFound, "NOT_FOUND", "no such file")
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Documents.Open(context.Background(), "/missing")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "NOT_FOUND")
}

func TestSystemClient_Version(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope(t, w, http.StatusOK, VersionInfo{Version: "1.0.0", APIVersion: LatestVersion})
	}))
	defer srv.Close()

	c := New(srv.URL)
	info, err := c.System.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
}
