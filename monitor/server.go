package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/noon-labs/namecycler/common"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Status is the read-only view of the rename loop served on /status.
type Status interface {
	Running() bool
	Interval() time.Duration
	ConnectionID() string
}

type ServerConfig struct {
	// HTTPAddr serves /metrics, /events, /healthz and /status. Empty disables it.
	HTTPAddr string
	// GRPCAddr serves the gRPC health service. Empty disables it.
	GRPCAddr string
	// ShutdownTimeout bounds the drain of both servers. Zero means 5s.
	ShutdownTimeout time.Duration
}

type statusView struct {
	Running         bool    `json:"running"`
	IntervalSeconds float64 `json:"intervalSeconds"`
	ConnectionBound bool    `json:"connectionBound"`
	Subscribers     int     `json:"subscribers"`
}

// Server exposes the operator endpoints of a running rotator.
type Server struct {
	cfg     ServerConfig
	metrics *Metrics
	feed    *Feed
	health  *Health
	status  Status
	logger  common.Logger
}

func NewServer(cfg ServerConfig, metrics *Metrics, feed *Feed, health *Health, status Status, logger common.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = shutdownTimeout
	}
	return &Server{
		cfg:     cfg,
		metrics: metrics,
		feed:    feed,
		health:  health,
		status:  status,
		logger:  common.OrNop(logger),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/events", s.feed)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", s.serveStatus)
	return mux
}

func (s *Server) serveStatus(w http.ResponseWriter, _ *http.Request) {
	view := statusView{
		Running:         s.status.Running(),
		IntervalSeconds: s.status.Interval().Seconds(),
		ConnectionBound: s.status.ConnectionID() != "",
		Subscribers:     s.feed.Clients(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		s.logger.Warn("Status encode failed", "error", err)
	}
}

// Run serves until ctx is cancelled or a listener fails, then shuts both
// servers down.
func (s *Server) Run(ctx context.Context) error {
	var httpLn, grpcLn net.Listener
	var err error
	if s.cfg.HTTPAddr != "" {
		if httpLn, err = net.Listen("tcp", s.cfg.HTTPAddr); err != nil {
			return common.NewNamecyclerError("status http listen", common.ErrTypeTransport, err)
		}
	}
	if s.cfg.GRPCAddr != "" {
		if grpcLn, err = net.Listen("tcp", s.cfg.GRPCAddr); err != nil {
			if httpLn != nil {
				httpLn.Close()
			}
			return common.NewNamecyclerError("status grpc listen", common.ErrTypeTransport, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if httpLn != nil {
		ln := httpLn
		hs := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: readHeaderTimeout}
		s.logger.Info("Status HTTP server listening", "addr", ln.Addr().String())

		g.Go(func() error {
			if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return common.NewNamecyclerError("status http serve", common.ErrTypeTransport, err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			s.feed.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
			defer cancel()
			return hs.Shutdown(shutdownCtx)
		})
	}

	if grpcLn != nil {
		ln := grpcLn
		gs := grpc.NewServer()
		s.health.Register(gs)
		s.logger.Info("Status gRPC server listening", "addr", ln.Addr().String())

		g.Go(func() error {
			if err := gs.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return common.NewNamecyclerError("status grpc serve", common.ErrTypeTransport, err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			s.health.Shutdown()
			stopGRPC(gs, s.cfg.ShutdownTimeout, s.logger)
			return nil
		})
	}

	return g.Wait()
}

// stopGRPC drains gs, forcing it closed after timeout. Health Watch streams
// never end on their own, so a graceful stop alone can block forever.
func stopGRPC(gs *grpc.Server, timeout time.Duration, logger common.Logger) {
	stopped := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(stopped)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-stopped:
	case <-timer.C:
		logger.Warn("Status gRPC server did not drain in time, forcing stop", "timeout", timeout)
		gs.Stop()
		<-stopped
	}
}
