// Package metrics implements ports.Metrics with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/zerr"
)

const (
	namespace = "warren"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Collector holds the Prometheus metrics on a private registry.
type Collector struct {
	Registry *prometheus.Registry

	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	InstallTiersTotal *prometheus.CounterVec
}

// NewCollector creates a Collector with all metrics registered on a new registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		Registry: reg,

		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total environment and package operations by boundary status.",
		}, []string{"operation", "status"}),

		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Operation duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"operation"}),

		InstallTiersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "install_tiers_total",
			Help:      "Install tiers attempted by outcome.",
		}, []string{"tier", "outcome"}),
	}

	reg.MustRegister(c.OperationsTotal, c.OperationDuration, c.InstallTiersTotal)

	return c
}

// ObserveOperation records one finished operation with its boundary status.
func (c *Collector) ObserveOperation(op, status string, elapsed time.Duration) {
	c.OperationsTotal.WithLabelValues(op, status).Inc()
	c.OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveInstallTier records that an install tier ran and how it ended.
func (c *Collector) ObserveInstallTier(tier, outcome string) {
	c.InstallTiersTotal.WithLabelValues(tier, outcome).Inc()
}

// Handler returns an HTTP handler exposing the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on listener until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "failed to stop metrics server")
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, "metrics server failed")
	}
}

// NoOp discards all observations.
type NoOp struct{}

// ObserveOperation does nothing.
func (NoOp) ObserveOperation(string, string, time.Duration) {}

// ObserveInstallTier does nothing.
func (NoOp) ObserveInstallTier(string, string) {}
