package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaplink/snaplink/internal/auth"
	"github.com/snaplink/snaplink/internal/config"
	"github.com/snaplink/snaplink/internal/handlers"
	"github.com/snaplink/snaplink/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:      "test",
			LogLevel: "error",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0, // Let the OS assign a port
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

func testServer() *Server {
	var buf bytes.Buffer
	log := logger.New(&buf, "error")
	tokens := auth.NewTokenManager("test-secret", time.Hour, "snaplink")

	h := Handlers{
		URL:       handlers.NewURLHandler(nil),
		Redirect:  handlers.NewRedirectHandler(nil),
		Analytics: handlers.NewAnalyticsHandler(nil, 30, 90),
		Auth:      handlers.NewAuthHandler(nil),
	}

	return New(testConfig(), log, h, tokens)
}

func TestNewServer(t *testing.T) {
	srv := testServer()

	assert.NotNil(t, srv)
	assert.NotNil(t, srv.HealthHandler())
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := testServer()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for server to be ready
	time.Sleep(100 * time.Millisecond)
	assert.True(t, srv.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(ctx)
	assert.NoError(t, err)
	assert.False(t, srv.IsRunning())
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := testServer()

	go func() { _ = srv.Start() }()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	time.Sleep(100 * time.Millisecond)

	addr := srv.Addr()
	require.NotEmpty(t, addr)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+addr+"/health", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health handlers.HealthResponse
	err = json.NewDecoder(resp.Body).Decode(&health)
	require.NoError(t, err)

	assert.Equal(t, "healthy", health.Status)
}

func TestServer_ReadyEndpoint_NotReady(t *testing.T) {
	srv := testServer()
	srv.HealthHandler().SetReady(false)

	go func() { _ = srv.Start() }()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	time.Sleep(100 * time.Millisecond)

	addr := srv.Addr()
	require.NotEmpty(t, addr)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+addr+"/ready", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_AuthenticatedRoutesRejectAnonymous(t *testing.T) {
	srv := testServer()

	go func() { _ = srv.Start() }()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	time.Sleep(100 * time.Millisecond)

	addr := srv.Addr()
	require.NotEmpty(t, addr)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/user/shorten"},
		{http.MethodGet, "/user/urls"},
		{http.MethodGet, "/user/analytics"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req, err := http.NewRequestWithContext(context.Background(), p.method, "http://"+addr+p.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}
