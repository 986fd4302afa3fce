package worker

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsServer stellt /metrics des Worker-Prozesses bereit.
type StatsServer struct {
	server *http.Server
}

func NewStatsServer(addr string) *StatsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &StatsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: time.Second * 10,
			ReadTimeout:       time.Second * 10,
			WriteTimeout:      time.Second * 10,
			MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
		},
	}
}

func (s *StatsServer) ListenAndServe() error {
	return s.server.ListenAndServe()
}

func (s *StatsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *StatsServer) Handler() http.Handler {
	return s.server.Handler
}
