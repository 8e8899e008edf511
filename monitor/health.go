package monitor

import (
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/noon-labs/namecycler/rotator"
)

// ServiceName is the gRPC health service name reported for the rename loop.
const ServiceName = "namecycler"

// Health reports SERVING for ServiceName while a rename loop runs. The
// empty service name always reports the process itself as SERVING.
type Health struct {
	srv *health.Server
}

func NewHealth() *Health {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Health{srv: srv}
}

func (h *Health) Register(gs *grpc.Server) {
	healthpb.RegisterHealthServer(gs, h.srv)
}

func (h *Health) Server() healthpb.HealthServer {
	return h.srv
}

// Shutdown flips every service to NOT_SERVING.
func (h *Health) Shutdown() {
	h.srv.Shutdown()
}

func (h *Health) AttemptFinished(rotator.Attempt) {}

func (h *Health) IntervalChanged(time.Duration) {}

func (h *Health) LoopStateChanged(running bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if running {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.srv.SetServingStatus(ServiceName, status)
}
