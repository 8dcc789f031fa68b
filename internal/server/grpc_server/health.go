package grpc_server

import (
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// FrameEngineService is the health service name that turns SERVING once the
// first frame has been produced.
const FrameEngineService = "udashboard.FrameEngine"

type HealthReporter struct {
	hs *health.Server
}

func NewHealthReporter() *HealthReporter {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(FrameEngineService, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthReporter{hs: hs}
}

func (h *HealthReporter) Server() *health.Server {
	return h.hs
}

// MarkServing is meant to be the engine's first frame hook.
func (h *HealthReporter) MarkServing() {
	log.Default().Info("Frame engine is serving")
	h.hs.SetServingStatus(FrameEngineService, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown flips every service to NOT_SERVING and ignores later updates.
func (h *HealthReporter) Shutdown() {
	h.hs.Shutdown()
}
