// Package metricsserver exposes the node's counters over a Prometheus
// /metrics HTTP route.
package metricsserver

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ChainHeight and PeerCount are the node-level gauges exposed alongside
// the default process/Go runtime collectors. They are registered here but
// nothing in the node sets them, so both read 0. The mining attempt and
// solved counters stay on rcrowley/go-metrics and are not mirrored here.
var (
	ChainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "saito_chain_height",
		Help: "Current longest-chain tip block id.",
	})
	PeerCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "saito_peer_count",
		Help: "Number of currently connected peers.",
	})
)

func init() {
	prometheus.MustRegister(ChainHeight, PeerCount)
}

// Server serves /metrics on addr until Shutdown is called.
type Server struct {
	httpServer *http.Server
}

// New builds a metrics server bound to addr.
func New(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{httpServer: &http.Server{Addr: addr, Handler: mux}}
}

// ListenAndServe blocks serving /metrics until shut down or it fails.
func (s *Server) ListenAndServe() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
