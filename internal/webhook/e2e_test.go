//go:build unix

package webhook

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookhand/hookhand/internal/config"
	"github.com/hookhand/hookhand/internal/dispatch"
	"github.com/hookhand/hookhand/internal/script"
)

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test"),
		[]byte("#!/bin/sh\necho \"parameters: $@\"\nenv\n"), 0o755))

	cfg := config.DefaultScriptsConfig()
	cfg.Dir = dir
	cfg.RequestTimeout = 5 * time.Second
	cfg.GracePeriod = 200 * time.Millisecond

	server := New(Config{}, dispatch.New(script.NewResolver(dir), cfg), testLogger())
	ts := httptest.NewServer(server.setupRoutes())
	defer ts.Close()

	resp, err := http.PostForm(ts.URL+"/test/a/b/c/", url.Values{"testing": {"a"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "parameters: a b c")
	assert.Contains(t, string(body), "HOOKHAND_TESTING=a")

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "Welcome to HookHand!", string(body))

	resp, err = http.Post(ts.URL+"/test", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
