package restful

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/dashboard"
	"github.com/okieraised/udashboard/internal/pipeline"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/restful"
	"github.com/okieraised/udashboard/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	store  *telemetry.Store
	engine *pipeline.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := dashboard.EngineBay()
	store := telemetry.NewStore(cfg.Channels)
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        1000,
		MaxCost:            1000,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	engine := pipeline.NewEngine(cfg, store,
		pipeline.WithClock(pipeline.FixedClock(time.Second)),
		pipeline.WithFrameCache(cache, time.Minute),
	)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewFrameRouter(restful.NewFrameService(
		restful.WithFrameCache(cache),
		restful.WithPageCount(len(cfg.Pages)),
	)).Routes(v1)
	NewChannelRouter(restful.NewChannelService(restful.WithTelemetryStore(store))).Routes(v1)
	NewDashboardRouter(restful.NewDashboardService(restful.WithDashboardConfig(cfg))).Routes(v1)
	NewHealthcheckRouter(restful.NewHealthcheckService(restful.WithEngineStatus(engine))).Routes(v1)

	return &testServer{router: router, store: store, engine: engine}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, testResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func TestFrameRouter(t *testing.T) {
	srv := newTestServer(t)

	status, resp := srv.do(t, http.MethodGet, "/api/v1/frames/latest", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, cerrors.ErrNoFrameAvailable.Code, resp.Code)

	_, err := srv.store.Update(dashboard.ChannelRPM, 4000)
	require.NoError(t, err)
	_, err = srv.engine.Tick(context.Background())
	require.NoError(t, err)

	status, resp = srv.do(t, http.MethodGet, "/api/v1/frames/latest", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, cerrors.OK.Code, resp.Code)
	assert.Equal(t, 2, resp.Count)

	var frame struct {
		Seq   uint64 `json:"seq"`
		Pages [][]struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		} `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &frame))
	assert.Equal(t, uint64(1), frame.Seq)
	require.Len(t, frame.Pages, 2)
	assert.Equal(t, "tachometer", frame.Pages[0][0].Name)
	assert.Equal(t, 4000.0, frame.Pages[0][0].Value)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "first page", path: "/api/v1/frames/pages/0", status: http.StatusOK, code: cerrors.OK.Code},
		{name: "second page", path: "/api/v1/frames/pages/1", status: http.StatusOK, code: cerrors.OK.Code},
		{name: "past the end", path: "/api/v1/frames/pages/2", status: http.StatusNotFound, code: cerrors.ErrPageOutOfRange.Code},
		{name: "negative", path: "/api/v1/frames/pages/-1", status: http.StatusNotFound, code: cerrors.ErrPageOutOfRange.Code},
		{name: "not a number", path: "/api/v1/frames/pages/one", status: http.StatusBadRequest, code: cerrors.ErrGenericBadRequest.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := srv.do(t, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestChannelRouter_List(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.store.Update(dashboard.ChannelCoolant, 1300)
	require.NoError(t, err)

	status, resp := srv.do(t, http.MethodGet, "/api/v1/channels", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, resp.Count)

	var out restful.ChannelListOutput
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	assert.Equal(t, uint64(1), out.SnapshotSeq)
	assert.True(t, out.UpdatedAt.Equal(srv.store.Snapshot().Time()), "got %s", out.UpdatedAt)
	require.Len(t, out.Channels, 5)
	assert.Equal(t, dashboard.ChannelRPM, out.Channels[0].Name)
	assert.Equal(t, "identity", out.Channels[0].Transfer)
	assert.Equal(t, dashboard.ChannelCoolant, out.Channels[1].Name)
	assert.Equal(t, "linear", out.Channels[1].Transfer)
	assert.InDelta(t, 90, out.Channels[1].Value, 1e-9)
}

func TestChannelRouter_Update(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "converted", path: "/api/v1/channels/coolant_temp", body: `{"value": 1550}`, status: http.StatusOK, code: cerrors.OK.Code},
		{name: "zero is a value", path: "/api/v1/channels/rpm", body: `{"value": 0}`, status: http.StatusOK, code: cerrors.OK.Code},
		{name: "unknown channel", path: "/api/v1/channels/boost", body: `{"value": 1}`, status: http.StatusNotFound, code: cerrors.ErrUnknownChannel.Code},
		{name: "missing value", path: "/api/v1/channels/rpm", body: `{}`, status: http.StatusBadRequest, code: cerrors.ErrInvalidChannelValue.Code},
		{name: "malformed body", path: "/api/v1/channels/rpm", body: `{"value":`, status: http.StatusBadRequest, code: cerrors.ErrInvalidChannelValue.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			status, resp := srv.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestChannelRouter_UpdateStoresConvertedValue(t *testing.T) {
	srv := newTestServer(t)

	status, resp := srv.do(t, http.MethodPut, "/api/v1/channels/coolant_temp", `{"value": 1550}`)
	require.Equal(t, http.StatusOK, status)

	var out restful.ChannelOutput
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	assert.InDelta(t, 115, out.Value, 1e-9)

	value, ok := srv.store.Snapshot().Lookup(dashboard.ChannelCoolant)
	require.True(t, ok)
	assert.InDelta(t, 115, value, 1e-9)
}

func TestDashboardRouter_Validate(t *testing.T) {
	srv := newTestServer(t)

	status, resp := srv.do(t, http.MethodGet, "/api/v1/dashboard/validate", "")
	require.Equal(t, http.StatusOK, status)

	var out restful.ValidateDashboardOutput
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	assert.True(t, out.Valid)
	assert.Equal(t, 2, out.Pages)
	assert.Equal(t, 5, out.Gauges)
	assert.Equal(t, 5, out.Channels)
	assert.Empty(t, out.Problems)
}
