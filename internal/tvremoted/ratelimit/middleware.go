package ratelimit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Options configures the rate limit middleware
type Options struct {
	// LimitType selects the registered limit
	LimitType string

	// PerEndpoint keys counters by path in addition to client address
	PerEndpoint bool

	// SkipLimitCheck bypasses the limit for matching requests
	SkipLimitCheck func(r *http.Request) bool
}

// Middleware creates an HTTP middleware for rate limiting. It sets
// RateLimit-* headers on every checked response and answers 429 with
// Retry-After once a client exceeds its window. Store failures let the
// request through.
func Middleware(service Service, logger zerolog.Logger, options Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if options.SkipLimitCheck != nil && options.SkipLimitCheck(r) {
				next.ServeHTTP(w, r)
				return
			}

			reqLogger := logger.With().Str("requestId", middleware.GetReqID(r.Context())).Logger()

			status, err := service.Allow(r.Context(), buildKey(r, options))
			if status != nil {
				setRateLimitHeaders(w, status)
			}

			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrLimitExceeded):
				handleLimitExceeded(w, r, status, reqLogger)
			default:
				reqLogger.Warn().Err(err).Str("path", r.URL.Path).Msg("rate limit unavailable, allowing request")
				next.ServeHTTP(w, r)
			}
		})
	}
}

func buildKey(r *http.Request, options Options) LimitKey {
	key := LimitKey{
		Type:     options.LimitType,
		RemoteIP: remoteIP(r),
	}
	if options.PerEndpoint {
		key.Endpoint = r.URL.Path
	}
	return key
}

// setRateLimitHeaders adds the RateLimit header fields
func setRateLimitHeaders(w http.ResponseWriter, status *LimitStatus) {
	w.Header().Set("RateLimit-Limit", strconv.Itoa(status.Limit.Max()))
	w.Header().Set("RateLimit-Remaining", strconv.Itoa(status.Remaining))
	w.Header().Set("RateLimit-Reset", strconv.FormatInt(status.Reset.Unix(), 10))

	if status.Limit.BurstSize > 0 {
		w.Header().Set("RateLimit-Burst", strconv.Itoa(status.Limit.BurstSize))
	}
}

// handleLimitExceeded sends a 429 in the gateway's error format
func handleLimitExceeded(w http.ResponseWriter, r *http.Request, status *LimitStatus, logger zerolog.Logger) {
	retryAfter := 1
	if status != nil {
		if secs := int(time.Until(status.Reset).Seconds()); secs > retryAfter {
			retryAfter = secs
		}
	}

	logger.Warn().
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("remoteIP", remoteIP(r)).
		Int("retryAfter", retryAfter).
		Msg("rate limit exceeded")

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf("Too many requests, please retry after %d seconds", retryAfter),
	})
}

// remoteIP returns the client address without its port. Forwarded headers
// are resolved upstream by chi's RealIP middleware.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
