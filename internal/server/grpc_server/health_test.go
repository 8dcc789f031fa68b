package grpc_server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func checkStatus(t *testing.T, r *HealthReporter, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := r.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthReporter(t *testing.T) {
	r := NewHealthReporter()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, r, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, r, FrameEngineService))

	r.MarkServing()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, r, FrameEngineService))

	r.Shutdown()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, r, FrameEngineService))

	r.MarkServing()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, r, FrameEngineService))
}
