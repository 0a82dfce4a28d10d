package config

import (
	"fmt"
	"net"
	"time"

	"github.com/robfig/cron/v3"
)

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.TV.IP == "" {
		return fmt.Errorf("tv ip is required")
	}
	if c.TV.Port < 1 || c.TV.Port > 65535 {
		return fmt.Errorf("invalid tv port: %d", c.TV.Port)
	}
	if c.TV.MAC != "" {
		if _, err := net.ParseMAC(c.TV.MAC); err != nil {
			return fmt.Errorf("invalid tv mac address %q: %w", c.TV.MAC, err)
		}
	}
	if c.TV.Timeout < 100*time.Millisecond {
		return fmt.Errorf("tv timeout must be at least 100ms")
	}
	if c.TV.Reconnect < 0 {
		return fmt.Errorf("tv reconnect interval cannot be negative")
	}
	if c.Messages.Duration <= 0 {
		return fmt.Errorf("message duration must be positive")
	}
	for name, p := range map[string]PlanTiming{"standard": c.Shutdown.Standard, "fast": c.Shutdown.Fast} {
		if p.First < 0 || p.Second < 0 || p.Third < 0 || p.Final < 0 {
			return fmt.Errorf("%s shutdown plan offsets cannot be negative", name)
		}
	}
	if c.Shutdown.Cron != "" {
		if _, err := cron.ParseStandard(c.Shutdown.Cron); err != nil {
			return fmt.Errorf("invalid shutdown cron expression %q: %w", c.Shutdown.Cron, err)
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate < 1 || c.RateLimit.Period <= 0) {
		return fmt.Errorf("rate limit requires a positive rate and period")
	}
	return nil
}
