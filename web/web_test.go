package web

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/drsdgdbye/user-panel/config"
	"github.com/drsdgdbye/user-panel/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, mutate func(cfg *config.Config)) string {
	t.Helper()
	testutil.OpenInMemoryDB(t, strings.ReplaceAll(t.Name(), "/", "_"))

	cfg := config.Default()
	cfg.Web.Listen = "127.0.0.1"
	cfg.Web.Port = 0
	if mutate != nil {
		mutate(cfg)
	}
	s := NewServer(cfg)
	require.NoError(t, s.Start())
	t.Cleanup(func() { assert.NoError(t, s.Stop()) })
	return fmt.Sprintf("http://%s", s.Addr())
}

func TestServer_Routes(t *testing.T) {
	base := startServer(t, nil)

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/list")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "user_panel_http_requests_total")

	resp, err = http.Get(base + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RateLimit(t *testing.T) {
	base := startServer(t, func(cfg *config.Config) {
		cfg.RateLimit.RequestsPerSecond = 1
		cfg.RateLimit.Burst = 1
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(base + "/list")
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}
