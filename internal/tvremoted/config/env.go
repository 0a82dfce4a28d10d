package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// overlayEnv overlays environment variables on top of file-based config.
// Zero or unparsable values leave the current setting untouched.
func (c *Config) overlayEnv() {
	// Server config
	if host := getEnv("HOST", ""); host != "" {
		c.Server.Host = host
	}
	if port := getEnvAsInt("PORT", 0); port != 0 {
		c.Server.Port = port
	}
	if dir := getEnv("STATIC_DIR", ""); dir != "" {
		c.Server.StaticDir = dir
	}

	// TV link config
	if ip := getEnv("TV_IP", ""); ip != "" {
		c.TV.IP = ip
	}
	if port := getEnvAsInt("TV_PORT", 0); port != 0 {
		c.TV.Port = port
	}
	if mac := getEnv("TV_MAC", ""); mac != "" {
		c.TV.MAC = mac
	}
	if timeout := getEnvAsMillis("TV_TIMEOUT", 0); timeout != 0 {
		c.TV.Timeout = timeout
	}
	if reconnect := getEnvAsMillis("TV_RECONNECT", 0); reconnect != 0 {
		c.TV.Reconnect = reconnect
	}
	if pairing := getEnvAsMillis("TV_PAIRING_TIMEOUT", 0); pairing != 0 {
		c.TV.PairingTimeout = pairing
	}
	if keyFile := getEnv("TV_KEY_FILE", ""); keyFile != "" {
		c.TV.KeyFile = keyFile
	}

	// Message config
	if duration := getEnvAsMillis("MESSAGE_DURATION", 0); duration != 0 {
		c.Messages.Duration = duration
	}

	// Announcement plans
	overlayPlan(&c.Shutdown.Standard, "SHUTDOWN_DELAY_")
	overlayPlan(&c.Shutdown.Fast, "SHUTDOWN_TEST_DELAY_")
	if expr := getEnv("SHUTDOWN_CRON", ""); expr != "" {
		c.Shutdown.Cron = expr
	}

	// Rate limit config
	if v := getEnv("RATE_LIMIT_ENABLED", ""); v != "" {
		c.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	}
	if rate := getEnvAsInt("RATE_LIMIT_RATE", 0); rate != 0 {
		c.RateLimit.Rate = rate
	}
	if period := getEnvAsDuration("RATE_LIMIT_PERIOD", 0); period != 0 {
		c.RateLimit.Period = period
	}
	if burst := getEnvAsInt("RATE_LIMIT_BURST", 0); burst != 0 {
		c.RateLimit.Burst = burst
	}
	if addr := getEnv("RATE_LIMIT_REDIS_ADDR", ""); addr != "" {
		c.RateLimit.RedisAddr = addr
	}

	// Logging and metrics
	if level := getEnv("LOG_LEVEL", ""); level != "" {
		c.Log.Level = level
	}
	if format := getEnv("LOG_FORMAT", ""); format != "" {
		c.Log.Format = format
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		c.Metrics.Enabled = getEnvAsBool("METRICS_ENABLED", c.Metrics.Enabled)
	}
}

func overlayPlan(p *PlanTiming, prefix string) {
	if d := getEnvAsMillis(prefix+"1", 0); d != 0 {
		p.First = d
	}
	if d := getEnvAsMillis(prefix+"2", 0); d != 0 {
		p.Second = d
	}
	if d := getEnvAsMillis(prefix+"3", 0); d != 0 {
		p.Third = d
	}
	if d := getEnvAsMillis(prefix+"FINAL", 0); d != 0 {
		p.Final = d
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsMillis reads an integer number of milliseconds
func getEnvAsMillis(key string, defaultValue time.Duration) time.Duration {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return time.Duration(v) * time.Millisecond
	}
	return defaultValue
}

// getEnvAsDuration reads a Go duration string such as "1m"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func defaultKeyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tvremote/keys.yaml"
	}
	return filepath.Join(home, ".tvremote", "keys.yaml")
}
