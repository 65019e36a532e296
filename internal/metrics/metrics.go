// Package metrics holds the Prometheus instruments for showroom requests and
// deep-link dispatches. A nil *Recorder is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rvshowroom"

// Recorder tracks request and dispatch outcomes.
type Recorder struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	dispatches      *prometheus.CounterVec
	loads           *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		return nil, nil
	}
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Showroom API requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Showroom API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deeplink",
			Name:      "dispatches_total",
			Help:      "Deep-link dispatch attempts by path and outcome",
		}, []string{"path", "outcome"}),

		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deeplink",
			Name:      "loads_total",
			Help:      "Showroom loads triggered by deep links by source and outcome",
		}, []string{"source", "outcome"}),
	}

	for _, c := range []prometheus.Collector{r.requests, r.requestDuration, r.dispatches, r.loads} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// ObserveRequest records one API request.
func (r *Recorder) ObserveRequest(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(endpoint, outcome).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveDispatch records one deep-link dispatch attempt.
func (r *Recorder) ObserveDispatch(path, outcome string) {
	if r == nil {
		return
	}
	r.dispatches.WithLabelValues(path, outcome).Inc()
}

// ObserveLoad records one showroom-loaded event.
func (r *Recorder) ObserveLoad(source, outcome string) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(source, outcome).Inc()
}

// RequestCounter returns the request counter for one endpoint and outcome.
func (r *Recorder) RequestCounter(endpoint, outcome string) prometheus.Counter {
	return r.requests.WithLabelValues(endpoint, outcome)
}

// DispatchCounter returns the dispatch counter for one path and outcome.
func (r *Recorder) DispatchCounter(path, outcome string) prometheus.Counter {
	return r.dispatches.WithLabelValues(path, outcome)
}

// LoadCounter returns the load counter for one source and outcome.
func (r *Recorder) LoadCounter(source, outcome string) prometheus.Counter {
	return r.loads.WithLabelValues(source, outcome)
}

// Serve exposes gatherer on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
