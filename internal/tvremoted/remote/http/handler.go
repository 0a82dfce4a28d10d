// Package http exposes the remote-control dispatcher as a JSON REST API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
	"github.com/wrale/webos-remote/internal/tvremoted/metrics"
	"github.com/wrale/webos-remote/internal/tvremoted/ratelimit"
	"github.com/wrale/webos-remote/internal/tvremoted/remote"
)

// maxBodySize bounds request bodies; combo lists are the largest payloads
const maxBodySize = 1 << 20

// Service is the dispatcher surface used by the handlers
type Service interface {
	Connect()
	Status() link.Status

	Volume(ctx context.Context, a remote.VolumeAction) error
	Channel(ctx context.Context, a remote.ChannelAction) error
	Power(ctx context.Context, a remote.PowerAction) error
	Navigate(ctx context.Context, a remote.NavigateAction) error
	LaunchApp(ctx context.Context, a remote.AppAction) (string, error)
	SwitchInput(ctx context.Context, a remote.InputAction) error
	ShowMessage(ctx context.Context, a remote.MessageAction) (int, error)

	MessageMute(ctx context.Context, mm remote.MessageMute) remote.MessageMuteResult
	Combo(ctx context.Context, steps []remote.Step) []v1.ComboResult

	StandardPlan(custom *v1.CustomMessages) *remote.Plan
	FastPlan() *remote.Plan
	SchedulePlan(p *remote.Plan)
	CancelShutdown(ctx context.Context) error

	ListApps(ctx context.Context) (json.RawMessage, error)
	ListInputs(ctx context.Context) (json.RawMessage, error)
	SystemInfo(ctx context.Context) (json.RawMessage, error)
}

// Handler encapsulates the HTTP API of the gateway
type Handler struct {
	service        Service
	limiter        ratelimit.Service
	metrics        *metrics.Collector
	staticDir      string
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithRateLimit throttles the control endpoints with the given service.
// The service must have a ratelimit.LimitControl limit registered.
func WithRateLimit(s ratelimit.Service) Option {
	return func(h *Handler) {
		h.limiter = s
	}
}

// WithMetrics instruments requests and serves /metrics
func WithMetrics(c *metrics.Collector) Option {
	return func(h *Handler) {
		h.metrics = c
	}
}

// WithStaticDir serves the browser page and its assets from dir
func WithStaticDir(dir string) Option {
	return func(h *Handler) {
		h.staticDir = dir
	}
}

// WithRequestTimeout bounds single-command requests
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

// NewHandler creates a new HTTP handler for the remote-control endpoints
func NewHandler(service Service, logger zerolog.Logger, options ...Option) *Handler {
	h := &Handler{
		service:        service,
		requestTimeout: 30 * time.Second,
		logger:         logger.With().Str("component", "remote-http").Logger(),
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (h *Handler) decode(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return ErrInvalidRequest("invalid request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return ErrInvalidRequest("invalid request body")
	}
	return nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

// respondRaw writes a device response without re-encoding it
func (h *Handler) respondRaw(w http.ResponseWriter, raw json.RawMessage) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := errorResponse(err)

	event := h.logger.Warn()
	if code >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", code).Msg("request failed")

	h.respondJSON(w, code, v1.ErrorResponse{Error: msg})
}
