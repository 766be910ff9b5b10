// Package metrics exposes conversion pipeline counters to prometheus.
// Exposition is only useful in watch mode, where a conversion is
// long-lived; one-shot runs report the same numbers through the run
// summary log line instead.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mgenviz/mgenviz/internal/engine"
)

var (
	recordsRead = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mgenviz_records_read_total",
		Help: "Non-blank input lines observed this run",
	})
	recordsAccumulated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mgenviz_records_accumulated_total",
		Help: "RECV records that reached the graph",
	})
	recordsSkipped = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mgenviz_records_skipped_total",
		Help: "RECV records rejected during validation",
	}, []string{"reason"})
	recordsFiltered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mgenviz_records_filtered_total",
		Help: "Valid RECV records excluded by the record filter",
	})
	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mgenviz_graph_nodes",
		Help: "Nodes currently in the traffic graph",
	})
	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mgenviz_graph_edges",
		Help: "Distinct directed edges currently in the traffic graph",
	})
)

// Observe publishes a snapshot of the converter's counters.
func Observe(st engine.Stats, nodes, edges int) {
	recordsRead.Set(float64(st.RecordsRead))
	recordsAccumulated.Set(float64(st.Accumulated))
	recordsSkipped.WithLabelValues("missing_field").Set(float64(st.SkippedField))
	recordsSkipped.WithLabelValues("bad_address").Set(float64(st.SkippedAddress))
	recordsFiltered.Set(float64(st.FilteredOut))
	graphNodes.Set(float64(nodes))
	graphEdges.Set(float64(edges))
}

// Serve starts the exposition endpoint at /metrics on the given listen
// address and returns the server so the caller can shut it down.
func Serve(listen string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}

// Shutdown stops an exposition server started by Serve.
func Shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
