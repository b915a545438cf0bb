package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/continuum-labs/continuum/observer/config"
	"github.com/continuum-labs/continuum/observer/internal/store"
	"github.com/continuum-labs/continuum/observer/pkg/logger"
)

func newTestServer(t *testing.T, cfg config.APIConfig) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewServer(cfg, st, logger.New("api", io.Discard, zerolog.Disabled)), st
}

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	require.NoError(t, st.SaveState(store.SequencerRow{
		Admin: "admin", Initialized: true, LastSequence: 3, LastHeight: 12, LastTxIndex: 1,
	}))
	require.NoError(t, st.AddRelayer("relayer", 2))
	require.NoError(t, st.UpsertPool(&store.PoolRow{PoolID: "atom-usdc", Asset0: "uatom", Asset1: "uusdc", Active: true}))

	for _, row := range []store.OrderRow{
		{Sequence: 1, Owner: "alice", PoolID: "atom-usdc", Status: "executed", AmountIn: 1000, AmountOut: 987, Persisted: true},
		{Sequence: 2, Owner: "bob", PoolID: "atom-usdc", Status: "pending", AmountIn: 500, Persisted: true},
		{Sequence: 3, Owner: "alice", PoolID: "atom-usdc", Status: "pending", AmountIn: 700, Persisted: true},
	} {
		row := row
		_, err := st.InsertOrder(&row)
		require.NoError(t, err)
	}
}

func get(t *testing.T, s *Server, path string, out interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	s, st := newTestServer(t, config.APIConfig{})
	seed(t, st)

	var body map[string]interface{}
	require.Equal(t, http.StatusOK, get(t, s, "/health", &body))
	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 12, body["height"])
}

func TestGetState(t *testing.T) {
	s, st := newTestServer(t, config.APIConfig{})
	seed(t, st)

	var state StateView
	require.Equal(t, http.StatusOK, get(t, s, "/api/v1/state", &state))
	require.True(t, state.Initialized)
	require.Equal(t, "admin", state.Admin)
	require.EqualValues(t, 3, state.LastSequence)
	require.Equal(t, []string{"relayer"}, state.Relayers)
	require.EqualValues(t, 2, state.OrderCounts["pending"])
	require.EqualValues(t, 1, state.OrderCounts["executed"])
	require.EqualValues(t, 12, state.Height)
}

func TestGetPools(t *testing.T) {
	s, st := newTestServer(t, config.APIConfig{})
	seed(t, st)

	var body struct {
		Pools []PoolView `json:"pools"`
	}
	require.Equal(t, http.StatusOK, get(t, s, "/api/v1/pools", &body))
	require.Len(t, body.Pools, 1)
	require.Equal(t, "uatom", body.Pools[0].Asset0)

	var pool PoolView
	require.Equal(t, http.StatusOK, get(t, s, "/api/v1/pools/atom-usdc", &pool))
	require.True(t, pool.Active)

	require.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/pools/missing", nil))
}

func TestGetQueue(t *testing.T) {
	s, st := newTestServer(t, config.APIConfig{PendingLimit: 10})
	seed(t, st)

	var body struct {
		Orders []OrderView `json:"orders"`
	}
	require.Equal(t, http.StatusOK, get(t, s, "/api/v1/queue", &body))
	require.Len(t, body.Orders, 2)
	require.EqualValues(t, 2, body.Orders[0].Sequence)
	require.EqualValues(t, 3, body.Orders[1].Sequence)

	require.Equal(t, http.StatusOK, get(t, s, "/api/v1/queue?pool_id=atom-usdc&limit=1", &body))
	require.Len(t, body.Orders, 1)
	require.EqualValues(t, 2, body.Orders[0].Sequence)

	require.Equal(t, http.StatusOK, get(t, s, "/api/v1/queue?pool_id=osmo-usdc", &body))
	require.Empty(t, body.Orders)

	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/queue?limit=zero", nil))
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/queue?limit=-1", nil))
}

func TestGetOrder(t *testing.T) {
	s, st := newTestServer(t, config.APIConfig{})
	seed(t, st)

	var order OrderView
	require.Equal(t, http.StatusOK, get(t, s, "/api/v1/orders/alice/1", &order))
	require.Equal(t, "executed", order.Status)
	require.EqualValues(t, 987, order.AmountOut)

	require.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/orders/bob/1", nil))
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/orders/alice/one", nil))
}

func TestMetricsEndpoint(t *testing.T) {
	s, st := newTestServer(t, config.APIConfig{})
	seed(t, st)

	get(t, s, "/api/v1/state", nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "continuum_observer_api_requests_total")
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, config.APIConfig{RateLimit: 1})

	// burst is twice the rate
	require.Equal(t, http.StatusOK, get(t, s, "/health", nil))
	require.Equal(t, http.StatusOK, get(t, s, "/health", nil))
	require.Equal(t, http.StatusTooManyRequests, get(t, s, "/health", nil))
}

func TestShutdownBeforeStart(t *testing.T) {
	s, _ := newTestServer(t, config.APIConfig{Host: "127.0.0.1"})

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Start())
}
