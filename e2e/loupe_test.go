// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package e2e

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingedpig/loupe/internal/api"
	"github.com/wingedpig/loupe/internal/document"
	"github.com/wingedpig/loupe/internal/metrics"
	"github.com/wingedpig/loupe/internal/search"
	"github.com/wingedpig/loupe/internal/worker"
	"github.com/wingedpig/loupe/pkg/client"
)

// newTestServer stands up the full router with real dependencies and a
// client pointed at it.
func newTestServer(t *testing.T, root string) *client.Client {
	t.Helper()

	bridge := worker.NewBridge()
	t.Cleanup(bridge.Close)

	store, err := document.NewStore(document.StoreConfig{CacheSize: 8})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router := api.NewRouter(api.Dependencies{
		Bridge:     bridge,
		Store:      store,
		Metrics:    metrics.NewWith(prometheus.NewRegistry()),
		SearchOpts: search.Options{Budget: time.Second, MaxPerTab: 10},
		TreeOpts:   document.TreeOptions{MaxDepth: 3},
		Root:       root,
		Version:    "test",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return client.New(srv.URL)
}

func TestServerStartup(t *testing.T) {
	deps := api.Dependencies{Version: "test"}
	server := api.NewServer(api.ServerConfig{Host: "127.0.0.1", Port: 0}, deps)
	require.NotNil(t, server)
	require.NotNil(t, server.Router())
}

func TestFilterEndToEnd(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	logContent := "2024-03-01 INFO service started\n" +
		"2024-03-01 DEBUG cache warm\n" +
		"2024-03-01 ERROR db write failed\n" +
		"2024-03-01 INFO request handled\n" +
		"2024-03-01 WARNING disk 80% full\n" +
		"2024-03-01 CRITICAL disk full\n"
	require.NoError(t, os.WriteFile(logPath, []byte(logContent), 0o644))

	c := newTestServer(t, dir)
	ctx := context.Background()

	result, err := c.Query.FilterFile(ctx, logPath, "severity:error OR severity:critical")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-03-01 ERROR db write failed",
		"2024-03-01 CRITICAL disk full",
	}, result.FilteredLines)
	assert.Equal(t, 2, result.ResultCount)
	assert.Equal(t, 6, result.TotalCount)
}

func TestCompileEndToEnd(t *testing.T) {
	c := newTestServer(t, t.TempDir())
	ctx := context.Background()

	good, err := c.Query.Compile(ctx, `ip:10.0.0.1 AND NOT text:"health check"`)
	require.NoError(t, err)
	assert.True(t, good.OK)
	assert.Equal(t, 1, good.ClauseCount)
	assert.Equal(t, 2, good.TermCount)

	bad, err := c.Query.Compile(ctx, "severity:error OR")
	require.NoError(t, err)
	assert.False(t, bad.OK)
	assert.NotEmpty(t, bad.Error)
}

func TestPathResolveAndLocateAgree(t *testing.T) {
	content := `{
  "nodes": [
    {"status": "up"},
    {"status": "down"}
  ]
}`
	c := newTestServer(t, t.TempDir())
	ctx := context.Background()

	resolved, err := c.Paths.Resolve(ctx, content, "nodes[1].status")
	require.NoError(t, err)
	require.True(t, resolved.Found)
	assert.Equal(t, "down", resolved.Value)

	located, err := c.Paths.Locate(ctx, content, "nodes[1].status")
	require.NoError(t, err)
	require.NotNil(t, located.Selection)

	sel := located.Selection
	assert.Equal(t, `"status"`, content[sel.From:sel.To])
	assert.Equal(t, `"down"`, content[sel.ValueFrom:sel.ValueTo])
	assert.Equal(t, 4, sel.Line)
}

func TestSearchEndToEnd(t *testing.T) {
	c := newTestServer(t, t.TempDir())
	ctx := context.Background()

	report, err := c.Search.Scan(ctx, []client.Tab{
		{Name: "a.log", Content: "needle here\nnothing\n"},
		{Name: "b.log", Content: "another needle\n"},
	}, "needle", "i")
	require.NoError(t, err)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "a.log", report.Matches[0].Tab)
	assert.Equal(t, "b.log", report.Matches[1].Tab)
	assert.False(t, report.Truncated)

	_, err = c.Search.Scan(ctx, []client.Tab{{Name: "x", Content: "aaaa"}}, "(a+)+b", "")
	require.Error(t, err)
	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, "PATTERN_REJECTED", apiErr.Code)
}

func TestDocumentsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"a":1}`+"\r\n"), 0o644))

	c := newTestServer(t, dir)
	ctx := context.Background()

	snap, err := c.Documents.Open(ctx, dataPath)
	require.NoError(t, err)
	assert.Equal(t, "data.json", snap.Name)
	assert.Equal(t, "json", snap.Language)
	assert.Equal(t, "CRLF", snap.LineEnding)

	entries, err := c.Documents.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "logs", entries[0].Name)
	assert.Equal(t, "data.json", entries[1].Name)
}

func TestVersionEndToEnd(t *testing.T) {
	c := newTestServer(t, t.TempDir())

	info, err := c.System.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, client.LatestVersion, info.APIVersion)
	require.NoError(t, c.System.Health(context.Background()))
}
