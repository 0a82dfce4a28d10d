// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wrale/webos-remote/internal/tvremoted/errors"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
)

const namespace = "tvremote"

// Command outcomes
const (
	OutcomeSuccess      = "success"
	OutcomeNotConnected = "not_connected"
	OutcomeDeviceError  = "device_error"
	OutcomeError        = "error"
)

// Collector holds the gateway metrics on a private registry
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	deviceCommands      *prometheus.CounterVec
	linkConnected       prometheus.Gauge
	linkTransitions     *prometheus.CounterVec
	plansScheduled      *prometheus.CounterVec
}

// NewCollector creates a collector with process and Go runtime metrics registered
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		deviceCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "device_commands_total",
				Help:      "Total number of commands sent to the TV",
			},
			[]string{"uri", "outcome"},
		),
		linkConnected: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "link_connected",
				Help:      "Whether the TV control session is connected (1) or not (0)",
			},
		),
		linkTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "link_state_transitions_total",
				Help:      "Total number of device link state transitions",
			},
			[]string{"state"},
		),
		plansScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plans_scheduled_total",
				Help:      "Total number of shutdown announcement plans scheduled",
			},
			[]string{"plan"},
		),
	}
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveCommand counts one device command by outcome
func (c *Collector) ObserveCommand(uri string, err error) {
	c.deviceCommands.WithLabelValues(uri, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.IsNotConnected(err):
		return OutcomeNotConnected
	case errors.IsDevice(err):
		return OutcomeDeviceError
	default:
		return OutcomeError
	}
}

// ObservePlan counts one scheduled announcement plan
func (c *Collector) ObservePlan(kind string) {
	c.plansScheduled.WithLabelValues(kind).Inc()
}

// ObserveLinkState tracks device link transitions
func (c *Collector) ObserveLinkState(state link.State) {
	c.linkTransitions.WithLabelValues(string(state)).Inc()
	if state == link.StateConnected {
		c.linkConnected.Set(1)
	} else {
		c.linkConnected.Set(0)
	}
}

// Middleware records request counts and latencies by route pattern
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
