package telemetry

import (
	"net/http"
	"net/http/pprof"

	"github.com/odpf/salt/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes prometheus metrics and pprof handlers on the
// given address
func MetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}

// StartMetricsServer serves metrics in the background and returns a
// cleanup that shuts the server down
func StartMetricsServer(l log.Logger, addr string) func() {
	server := MetricsServer(addr)
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			l.Warn("failed while serving metrics", "err", err)
		}
	}()
	return func() {
		if err := server.Close(); err != nil {
			l.Warn("failed to shutdown metrics http server", "err", err)
		}
	}
}
