package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/octet/pkg/codec"
	"github.com/ssargent/octet/pkg/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "test-key"

// memVault is an in-memory ISeedVault
type memVault struct {
	mu      sync.Mutex
	records map[ksuid.KSUID]*codec.SeedRecord
	closed  bool
}

func newMemVault() *memVault {
	return &memVault{records: make(map[ksuid.KSUID]*codec.SeedRecord)}
}

func (v *memVault) Create(data []byte) (ksuid.KSUID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := ksuid.New()
	v.records[id] = codec.NewSeedRecord(append([]byte(nil), data...))
	return id, nil
}

func (v *memVault) Read(id ksuid.KSUID) (*codec.SeedRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

func (v *memVault) Delete(id ksuid.KSUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.records[id]; !ok {
		return storage.ErrNotFound
	}
	delete(v.records, id)
	return nil
}

func (v *memVault) Close() error {
	v.closed = true
	return nil
}

// countingRandom fills every byte with an increasing counter
func countingRandom() *codec.Random {
	var n byte
	filler := codec.FillerFunc(func(p []byte) error {
		for i := range p {
			p[i] = n
			n++
		}
		return nil
	})
	return codec.NewRandom(codec.MapProvider{codec.SourceCrypto: filler}, codec.ModeModern)
}

type testEnv struct {
	server   *Server
	vault    *memVault
	registry *prometheus.Registry
	handler  http.Handler
}

func newTestEnv(t *testing.T, config ServerConfig, random RandomSource) *testEnv {
	t.Helper()
	reg := prometheus.NewRegistry()
	vault := newMemVault()
	server := NewServer(vault, random, config, NewMetrics(reg), zap.NewNop())
	return &testEnv{
		server:   server,
		vault:    vault,
		registry: reg,
		handler:  NewRouter(server, reg),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key := e.server.config.APIKey; key != "" {
		req.Header.Set(apiKeyHeader, key)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)

	var resp APIResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// dataInto re-decodes the generic Data payload into out
func dataInto(t *testing.T, resp APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
