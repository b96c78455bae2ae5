package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServe_GracefulShutdown(t *testing.T) {
	env := newTestEnv(t, ServerConfig{APIKey: testAPIKey}, countingRandom())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, env.handler, zap.NewNop())
	}()

	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://%s/api/v1/health", ln.Addr()), nil)
	require.NoError(t, err)
	req.Header.Set(apiKeyHeader, testAPIKey)

	resp, err := client.Do(req)
	require.NoError(t, err)
	var body APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ListenerFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = Serve(context.Background(), ln, http.NotFoundHandler(), zap.NewNop())
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}

func TestStartServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	starter := NewServerFactory().CreateServerStarter()
	err = starter.StartServer(context.Background(), ServerConfig{Bind: "127.0.0.1", Port: port}, newMemVault(), countingRandom(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
