package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Increment(ctx context.Context, key LimitKey, limit Limit) (*LimitStatus, error) {
	args := m.Called(ctx, key, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LimitStatus), args.Error(1)
}

func (m *mockStore) Reset(ctx context.Context, key LimitKey) error {
	return m.Called(ctx, key).Error(0)
}

func TestMemoryStore_Window(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	key := LimitKey{Type: LimitControl, RemoteIP: "10.0.0.1"}
	limit := Limit{Rate: 2, Period: time.Minute, BurstSize: 1}

	for i := 1; i <= 3; i++ {
		status, err := s.Increment(context.Background(), key, limit)
		require.NoError(t, err)
		assert.Equal(t, i, status.Count)
		assert.Equal(t, 3-i, status.Remaining)
		assert.Equal(t, now.Add(time.Minute), status.Reset)
	}

	status, err := s.Increment(context.Background(), key, limit)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.Equal(t, 0, status.Remaining)

	// Other clients have their own window
	_, err = s.Increment(context.Background(), LimitKey{Type: LimitControl, RemoteIP: "10.0.0.2"}, limit)
	assert.NoError(t, err)

	// A new window starts after the period
	now = now.Add(time.Minute)
	status, err = s.Increment(context.Background(), key, limit)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Count)

	require.NoError(t, s.Reset(context.Background(), key))
	status, err = s.Increment(context.Background(), key, limit)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Count)
}

func TestService_RegisterLimit(t *testing.T) {
	svc := NewService(NewMemoryStore(), zerolog.Nop())

	assert.ErrorIs(t, svc.RegisterLimit("", Limit{Rate: 1, Period: time.Second}), ErrInvalidKey)
	assert.ErrorIs(t, svc.RegisterLimit(LimitControl, Limit{Rate: 0, Period: time.Second}), ErrInvalidLimit)
	assert.ErrorIs(t, svc.RegisterLimit(LimitControl, Limit{Rate: 1}), ErrInvalidLimit)

	require.NoError(t, svc.RegisterLimit(LimitControl, Limit{Rate: 5, Period: time.Second}))
	assert.Equal(t, 5, svc.GetLimit(LimitControl).Rate)
}

func TestService_Allow(t *testing.T) {
	svc := NewService(NewMemoryStore(), zerolog.Nop())
	require.NoError(t, svc.RegisterLimit(LimitControl, Limit{Rate: 1, Period: time.Minute}))

	key := LimitKey{Type: LimitControl, RemoteIP: "10.0.0.1"}

	_, err := svc.Allow(context.Background(), LimitKey{})
	assert.ErrorIs(t, err, ErrInvalidKey)

	// Unconfigured types are not limited
	status, err := svc.Allow(context.Background(), LimitKey{Type: "other"})
	assert.NoError(t, err)
	assert.Nil(t, status)

	_, err = svc.Allow(context.Background(), key)
	require.NoError(t, err)
	_, err = svc.Allow(context.Background(), key)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	require.NoError(t, svc.Reset(context.Background(), key))
	_, err = svc.Allow(context.Background(), key)
	assert.NoError(t, err)
}

func newLimitedHandler(t *testing.T, store Store, limit Limit) http.Handler {
	t.Helper()
	svc := NewService(store, zerolog.Nop())
	require.NoError(t, svc.RegisterLimit(LimitControl, limit))

	mw := Middleware(svc, zerolog.Nop(), Options{
		LimitType: LimitControl,
		SkipLimitCheck: func(r *http.Request) bool {
			return r.Method == http.MethodGet
		},
	})
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestMiddleware(t *testing.T) {
	h := newLimitedHandler(t, NewMemoryStore(), Limit{Rate: 2, Period: time.Minute, BurstSize: 1})

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/volume", nil)
		req.RemoteAddr = "192.0.2.1:51234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		rec := post()
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("RateLimit-Limit"))
		assert.Equal(t, "1", rec.Header().Get("RateLimit-Burst"))
		assert.Equal(t, fmt.Sprint(2-i), rec.Header().Get("RateLimit-Remaining"))
	}

	rec := post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["error"], "Too many requests")

	// Skipped requests are never counted
	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Empty(t, get.Header().Get("RateLimit-Limit"))
}

func TestMiddleware_StoreFailureAllows(t *testing.T) {
	store := new(mockStore)
	store.On("Increment", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: connection refused", ErrStoreError))

	h := newLimitedHandler(t, store, Limit{Rate: 1, Period: time.Minute})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/power", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestBuildKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/app", nil)
	req.RemoteAddr = "[2001:db8::1]:443"

	assert.Equal(t, LimitKey{Type: LimitControl, RemoteIP: "2001:db8::1"}, buildKey(req, Options{LimitType: LimitControl}))
	assert.Equal(t,
		LimitKey{Type: LimitControl, RemoteIP: "2001:db8::1", Endpoint: "/api/app"},
		buildKey(req, Options{LimitType: LimitControl, PerEndpoint: true}),
	)
}
