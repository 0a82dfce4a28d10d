// Package config provides configuration management for the remote gateway
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all configuration for the server
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	TV        TVConfig        `yaml:"tv"`
	Messages  MessageConfig   `yaml:"messages"`
	Shutdown  ShutdownConfig  `yaml:"shutdown"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
	StaticDir    string        `yaml:"staticDir"`
}

// TVConfig holds the device link settings
type TVConfig struct {
	IP             string        `yaml:"ip"`
	Port           int           `yaml:"port"`
	MAC            string        `yaml:"mac"`
	Timeout        time.Duration `yaml:"timeout"`
	Reconnect      time.Duration `yaml:"reconnect"`
	PairingTimeout time.Duration `yaml:"pairingTimeout"`
	KeyFile        string        `yaml:"keyFile"`
}

// MessageConfig holds toast notification defaults
type MessageConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// PlanTiming holds the offsets of one announcement plan
type PlanTiming struct {
	First  time.Duration `yaml:"first"`
	Second time.Duration `yaml:"second"`
	Third  time.Duration `yaml:"third"`
	Final  time.Duration `yaml:"final"`
}

// ShutdownConfig holds the announcement plan timings
type ShutdownConfig struct {
	Standard PlanTiming `yaml:"standard"`
	Fast     PlanTiming `yaml:"fast"`
	// Cron optionally triggers the standard plan on a schedule (e.g. "30 23 * * *")
	Cron string `yaml:"cron"`
}

// RateLimitConfig holds rate limiting settings for control endpoints
type RateLimitConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Rate      int           `yaml:"rate"`
	Period    time.Duration `yaml:"period"`
	Burst     int           `yaml:"burst"`
	RedisAddr string        `yaml:"redisAddr"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3001,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			StaticDir:    "public",
		},
		TV: TVConfig{
			IP:             "192.168.1.100",
			Port:           3000,
			Timeout:        5 * time.Second,
			Reconnect:      3 * time.Second,
			PairingTimeout: 60 * time.Second,
			KeyFile:        defaultKeyFile(),
		},
		Messages: MessageConfig{
			Duration: 3 * time.Second,
		},
		Shutdown: ShutdownConfig{
			Standard: PlanTiming{
				First:  0,
				Second: 60 * time.Second,
				Third:  120 * time.Second,
				Final:  125 * time.Second,
			},
			Fast: PlanTiming{
				First:  0,
				Second: 10 * time.Second,
				Third:  20 * time.Second,
				Final:  30 * time.Second,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Rate:    120,
			Period:  time.Minute,
			Burst:   30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Address returns the host:port the HTTP server listens on
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL returns the websocket endpoint of the TV control service
func (c TVConfig) URL() string {
	return fmt.Sprintf("ws://%s", net.JoinHostPort(c.IP, strconv.Itoa(c.Port)))
}
