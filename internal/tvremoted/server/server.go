// Package server wires the gateway components into a runnable HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wrale/webos-remote/internal/tvremoted/config"
	"github.com/wrale/webos-remote/internal/tvremoted/link"
	"github.com/wrale/webos-remote/internal/tvremoted/metrics"
	"github.com/wrale/webos-remote/internal/tvremoted/ratelimit"
	ratelimitredis "github.com/wrale/webos-remote/internal/tvremoted/ratelimit/redis"
	"github.com/wrale/webos-remote/internal/tvremoted/remote"
	remotehttp "github.com/wrale/webos-remote/internal/tvremoted/remote/http"
	"github.com/wrale/webos-remote/internal/tvremoted/schedule"
)

const (
	// autoConnectDelay is the pause between listening and the first connection attempt
	autoConnectDelay = time.Second

	shutdownTimeout = 30 * time.Second
)

// Server owns every long-lived component of the gateway
type Server struct {
	cfg    *config.Config
	logger zerolog.Logger

	link       *link.Manager
	dispatcher *remote.Dispatcher
	metrics    *metrics.Collector
	nightly    *schedule.Nightly
	redis      *redis.Client
	http       *http.Server
}

// New builds the server from cfg. Nothing touches the network until Run.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	if cfg.Metrics.Enabled {
		s.metrics = metrics.NewCollector()
	}

	keys, err := link.NewFileKeyStore(cfg.TV.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open key store: %w", err)
	}

	dialer := link.NewSSAPDialer(cfg.TV.URL(), keys,
		link.WithPairingTimeout(cfg.TV.PairingTimeout),
		link.WithLogger(logger),
	)
	s.link = link.NewManager(dialer, link.Options{
		Host:          cfg.TV.IP,
		Port:          cfg.TV.Port,
		Timeout:       cfg.TV.Timeout,
		Reconnect:     cfg.TV.Reconnect,
		OnStateChange: s.observeLinkState,
		Logger:        logger,
	})

	options := []remote.Option{remote.WithLogger(logger)}
	if s.metrics != nil {
		options = append(options, remote.WithRecorder(s.metrics))
	}
	if cfg.TV.MAC != "" {
		options = append(options, remote.WithWaker(link.NewWaker(cfg.TV.MAC, "")))
	}
	s.dispatcher = remote.NewDispatcher(s.link, remote.Settings{
		MessageDuration: cfg.Messages.Duration,
		Standard:        remote.Timing(cfg.Shutdown.Standard),
		Fast:            remote.Timing(cfg.Shutdown.Fast),
	}, options...)

	if cfg.Shutdown.Cron != "" {
		s.nightly, err = schedule.NewNightly(cfg.Shutdown.Cron, s.dispatcher, logger)
		if err != nil {
			return nil, err
		}
	}

	handlerOptions := []remotehttp.Option{
		remotehttp.WithStaticDir(cfg.Server.StaticDir),
		remotehttp.WithRequestTimeout(cfg.Server.WriteTimeout),
	}
	if s.metrics != nil {
		handlerOptions = append(handlerOptions, remotehttp.WithMetrics(s.metrics))
	}
	if cfg.RateLimit.Enabled {
		limiter, err := s.newRateLimiter()
		if err != nil {
			return nil, err
		}
		handlerOptions = append(handlerOptions, remotehttp.WithRateLimit(limiter))
	}

	handler := remotehttp.NewHandler(s.dispatcher, logger, handlerOptions...)
	s.http = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // combos may outlast any fixed bound
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// newRateLimiter builds the control limiter on Redis when an address is
// configured, otherwise in memory.
func (s *Server) newRateLimiter() (ratelimit.Service, error) {
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if addr := s.cfg.RateLimit.RedisAddr; addr != "" {
		s.redis = redis.NewClient(&redis.Options{Addr: addr})
		store = ratelimitredis.NewStore(s.redis)
		s.logger.Info().Str("addr", addr).Msg("using redis rate limit store")
	}

	limiter := ratelimit.NewService(store, s.logger)
	err := limiter.RegisterLimit(ratelimit.LimitControl, ratelimit.Limit{
		Rate:      s.cfg.RateLimit.Rate,
		Period:    s.cfg.RateLimit.Period,
		BurstSize: s.cfg.RateLimit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit: %w", err)
	}
	return limiter, nil
}

func (s *Server) observeLinkState(state link.State) {
	if s.metrics != nil {
		s.metrics.ObserveLinkState(state)
	}
	s.logger.Info().Str("state", string(state)).Msg("tv link state changed")
}

// Handler returns the HTTP handler of the gateway
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully. The
// first connection to the TV is attempted shortly after the listener starts.
func (s *Server) Run(ctx context.Context) error {
	if s.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := s.redis.Ping(pingCtx).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("redis unreachable, rate limiting will allow requests until it recovers")
		}
		cancel()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", s.http.Addr).
			Str("tv", s.cfg.TV.URL()).
			Msg("starting server")

		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	connectTimer := time.AfterFunc(autoConnectDelay, s.link.Connect)
	defer connectTimer.Stop()

	if s.nightly != nil {
		s.nightly.Start()
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down server...")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("server shutdown error")
	}
	s.Close()

	s.logger.Info().Msg("server stopped")
	return runErr
}

// Close stops the schedule, disarms pending plan timers and closes the TV link
func (s *Server) Close() {
	if s.nightly != nil {
		s.nightly.Stop()
	}
	s.dispatcher.Stop()
	if err := s.link.Close(); err != nil {
		s.logger.Error().Err(err).Msg("failed to close tv link")
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error().Err(err).Msg("failed to close redis client")
		}
	}
}
