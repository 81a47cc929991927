// Package metrics exposes Prometheus counters for the rollout actions
// dispatched from the TUI and for the API errors they hit.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	actions   *prometheus.CounterVec
	apiErrors *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollouts_tui_actions_total",
				Help: "Rollout actions dispatched, by action and result",
			},
			[]string{"action", "result"},
		),
		apiErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollouts_tui_api_errors_total",
				Help: "Kubernetes API errors, by classified type",
			},
			[]string{"type"},
		),
	}
	m.registry.MustRegister(
		m.actions,
		m.apiErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordAction counts one dispatched action. A failed action also counts
// as an API error.
func (m *Metrics) RecordAction(action string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
		m.RecordAPIError(err)
	}
	m.actions.WithLabelValues(action, result).Inc()
}

// RecordAPIError counts err under its domain.ErrType, "unknown" if unclassified.
func (m *Metrics) RecordAPIError(err error) {
	if m == nil || err == nil {
		return
	}
	errType := domain.ErrUnknown
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		errType = apiErr.Type
	}
	m.apiErrors.WithLabelValues(errType.String()).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log logr.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
