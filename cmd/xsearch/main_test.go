package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xsearch/internal/config"
	"xsearch/internal/logging"
)

const searchPage = `{
  "data": [
    {"id": "10", "text": "post\nwith break #A", "author_id": "u1", "created_at": "2024-01-01T10:00:00.000Z"},
    {"id": "11", "text": "another #B", "author_id": "u1", "created_at": "2024-01-01T11:00:00.000Z"}
  ],
  "includes": {"users": [{"id": "u1", "name": "One", "username": "one"}]},
  "meta": {"result_count": 2}
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	logging.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		logging.SetOutput(os.Stderr)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xsearch.yaml")
	out, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config written to:")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Presets, "fabry")

	_, err = execute(t, "init", "--config", path)
	assert.Error(t, err, "existing config is not overwritten without --force")
}

func TestPresetsListsConfiguredGroups(t *testing.T) {
	out, err := execute(t, "presets", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "fabry (17)")
	assert.Contains(t, out, "glp1 (16)")
}

func TestSearchWritesFile(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(searchPage))
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Credentials.BearerToken = "tok"
	cfg.API.BaseURL = ts.URL
	cfg.Output.Dir = filepath.Join(dir, "data")
	cfg.Metrics.Textfile = filepath.Join(dir, "xsearch.prom")
	path := filepath.Join(dir, "xsearch.yaml")
	require.NoError(t, config.Save(path, cfg))

	now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	out, err := execute(t, "search", "--config", path, "--hashtags", "#A,#B", "--lang", "es", "--format", "csv", "--no-wait")
	require.NoError(t, err)
	assert.Equal(t, "(#A OR #B) lang:es", gotQuery)

	want := filepath.Join(cfg.Output.Dir, "tweets_20240102_030405.csv")
	assert.Contains(t, out, "Saved 2 posts to "+want)
	b, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "post with break #A"))
	assert.FileExists(t, cfg.Metrics.Textfile)
}
