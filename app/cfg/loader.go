package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./feast.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port          string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount   int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for recipe imports"`
	QueueSize     int    `long:"queue-size" env:"QUEUE_SIZE" default:"300" description:"Maximum number of queued imports"`
	PruneSchedule string `long:"prune-schedule" env:"PRUNE_SCHEDULE" default:"@every 10m" description:"Cron schedule for dropping finished import statuses"`
	APIAccessKey  string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Fetch configuration
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"feast" description:"User agent string for HTTP requests"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Recipe page fetch timeout in seconds"`
	MaxRedirects int    `long:"max-redirects" env:"MAX_REDIRECTS" default:"5" description:"Maximum number of redirects to follow"`
	MaxBodyBytes int64  `long:"max-body-bytes" env:"MAX_BODY_BYTES" default:"10485760" description:"Maximum recipe page size in bytes"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return loadArgs(os.Args[1:])
}

func loadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, err
	}

	cfg := &Cfg{
		DBPath:        raw.DBPath,
		Port:          raw.Port,
		WorkerCount:   raw.WorkerCount,
		QueueSize:     raw.QueueSize,
		PruneSchedule: raw.PruneSchedule,
		APIAccessKey:  raw.APIAccessKey,
		UserAgent:     raw.UserAgent,
		FetchTimeout:  raw.FetchTimeout,
		MaxRedirects:  raw.MaxRedirects,
		MaxBodyBytes:  raw.MaxBodyBytes,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(raw *rawCfg) error {
	switch {
	case raw.DBPath == "":
		return fmt.Errorf("db-path must not be empty")
	case raw.WorkerCount < 1:
		return fmt.Errorf("worker-count must be at least 1, got %d", raw.WorkerCount)
	case raw.QueueSize < 1:
		return fmt.Errorf("queue-size must be at least 1, got %d", raw.QueueSize)
	case raw.FetchTimeout < 1:
		return fmt.Errorf("fetch-timeout must be at least 1 second, got %d", raw.FetchTimeout)
	case raw.MaxRedirects < 0:
		return fmt.Errorf("max-redirects must not be negative, got %d", raw.MaxRedirects)
	case raw.MaxBodyBytes < 1:
		return fmt.Errorf("max-body-bytes must be positive, got %d", raw.MaxBodyBytes)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			slog.Debug("Timezone configured", "timezone", timezone)
		}
	}
	return nil
}

// FetchTimeoutDuration returns the fetch timeout as a time.Duration.
func (c *Cfg) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}
