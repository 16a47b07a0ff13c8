package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/stgeorge_backend/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(h).With("component", "test")

	logger.Debug("only a")
	logger.Warn("both")

	assert.Contains(t, a.String(), "only a")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only a")
	assert.Contains(t, b.String(), `"component":"test"`)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestLokiWriter(t *testing.T) {
	var got lokiPush
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loki/api/v1/push", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Logging.Output.Loki.Endpoint = srv.URL
	cfg.Observability.ServiceName = "stgeorge_backend"
	cfg.Server.Environment = "test"

	logger := slog.New(newLokiHandler(cfg, slog.LevelInfo))
	logger.Info("booked", "appointment_id", "app_1")

	require.Len(t, got.Streams, 1)
	assert.Equal(t, "stgeorge_backend", got.Streams[0].Stream["service"])
	require.Len(t, got.Streams[0].Values, 1)
	assert.Contains(t, got.Streams[0].Values[0][1], `"appointment_id":"app_1"`)
}

func TestLokiPayloadTrimsNewline(t *testing.T) {
	lw := &lokiWriter{labels: map[string]string{"service": "s"}}
	body, err := lw.payload([]byte("{\"msg\":\"x\"}\n"), time.Unix(0, 42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"streams":[{"stream":{"service":"s"},"values":[["42","{\"msg\":\"x\"}"]]}]}`, string(body))
}
