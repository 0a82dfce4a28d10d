package server

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wrale/webos-remote/internal/tvremoted/config"
)

// NewLogger builds the root logger. Format "console" writes human readable
// lines; anything else writes JSON.
func NewLogger(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	switch strings.ToLower(cfg.Format) {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "", "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "tvremoted").Logger(), nil
}
