// Package ratelimit throttles the control endpoints per client.
package ratelimit

import (
	"context"
	"time"
)

// LimitKey identifies a specific rate limit counter
type LimitKey struct {
	Type     string // e.g. "control"
	RemoteIP string // client address
	Endpoint string // API path, empty for a limit shared across endpoints
}

// Limit defines the rate limit configuration
type Limit struct {
	// Rate is the number of operations allowed per period
	Rate int

	// Period is the fixed window length
	Period time.Duration

	// BurstSize allows a short burst over the rate
	BurstSize int
}

// Max returns the number of operations allowed in one window
func (l Limit) Max() int {
	return l.Rate + l.BurstSize
}

// LimitStatus reports a counter after an increment
type LimitStatus struct {
	Limit     Limit
	Count     int
	Remaining int
	Reset     time.Time
}

// Store handles rate limit state persistence
type Store interface {
	// Increment counts one operation and returns the counter status.
	// It returns ErrLimitExceeded along with the status once the window is full.
	Increment(ctx context.Context, key LimitKey, limit Limit) (*LimitStatus, error)

	// Reset clears a rate limit counter
	Reset(ctx context.Context, key LimitKey) error
}

// Service manages rate limiting for the application
type Service interface {
	// Allow counts one operation and reports whether it may proceed
	Allow(ctx context.Context, key LimitKey) (*LimitStatus, error)

	// GetLimit returns the configured limit for a key type
	GetLimit(limitType string) Limit

	// RegisterLimit adds or replaces the limit for a key type
	RegisterLimit(limitType string, limit Limit) error

	// Reset clears rate limit counters for a key
	Reset(ctx context.Context, key LimitKey) error
}

// Error types for rate limiting
var (
	ErrLimitExceeded = NewError("RATE_LIMITED", "rate limit exceeded")
	ErrStoreError    = NewError("STORE_ERROR", "rate limit store error")
	ErrInvalidLimit  = NewError("INVALID_LIMIT", "invalid rate limit configuration")
	ErrInvalidKey    = NewError("INVALID_KEY", "invalid rate limit key")
)

// Error represents a rate limiting error
type Error struct {
	Code    string
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// NewError creates a new rate limit error
func NewError(code string, message string) Error {
	return Error{
		Code:    code,
		Message: message,
	}
}
