// Package config holds the runtime settings of the concert updater.
//
// Settings start from compiled-in defaults, are overridden by environment
// variables (optionally seeded from a .env file) and finally by command-line
// flags in the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/suitekeep/concert-updater/internal/concert"
)

const (
	DefaultSourceURL = "https://www.fordamphitheater.live/"
	DefaultDataFile  = "assets/2026FordAmp.json"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	DefaultYear      = 2026
	DefaultUTCOffset = -6
	DefaultTimeout   = 30 * time.Second
)

// Config holds everything a run needs.
type Config struct {
	SourceURL       string
	DataFile        string
	UserAgent       string
	Timeout         time.Duration
	TargetYear      int
	DefaultShowTime concert.Clock
	UTCOffsetHours  int

	SeatCount   int
	SeatCost    float64
	ParkingCost float64

	// GitHub Actions files; empty outside CI.
	StepSummaryPath string
	OutputPath      string

	LogLevel  string
	LogFormat string
}

// Default returns the settings for the Ford Amphitheater 2026 season.
func Default() *Config {
	return &Config{
		SourceURL:       DefaultSourceURL,
		DataFile:        DefaultDataFile,
		UserAgent:       DefaultUserAgent,
		Timeout:         DefaultTimeout,
		TargetYear:      DefaultYear,
		DefaultShowTime: concert.DefaultShowTime,
		UTCOffsetHours:  DefaultUTCOffset,
		SeatCount:       concert.DefaultSeatCount,
		SeatCost:        concert.DefaultSeatCost,
		ParkingCost:     concert.DefaultParkingCost,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// Load reads envFile (if it exists) into the environment and returns the
// defaults overridden by environment variables.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := Default()
	cfg.SourceURL = getEnv("CONCERTS_URL", cfg.SourceURL)
	cfg.DataFile = getEnv("CONCERTS_FILE", cfg.DataFile)
	cfg.UserAgent = getEnv("CONCERTS_USER_AGENT", cfg.UserAgent)
	cfg.StepSummaryPath = os.Getenv("GITHUB_STEP_SUMMARY")
	cfg.OutputPath = os.Getenv("GITHUB_OUTPUT")
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.Timeout, err = getDurationEnv("CONCERTS_TIMEOUT", cfg.Timeout); err != nil {
		return nil, err
	}
	if cfg.TargetYear, err = getIntEnv("CONCERTS_YEAR", cfg.TargetYear); err != nil {
		return nil, err
	}
	if cfg.UTCOffsetHours, err = getIntEnv("CONCERTS_UTC_OFFSET", cfg.UTCOffsetHours); err != nil {
		return nil, err
	}
	if cfg.SeatCount, err = getIntEnv("CONCERTS_SEAT_COUNT", cfg.SeatCount); err != nil {
		return nil, err
	}
	if cfg.SeatCost, err = getFloatEnv("CONCERTS_SEAT_COST", cfg.SeatCost); err != nil {
		return nil, err
	}
	if v := os.Getenv("CONCERTS_SHOW_TIME"); v != "" {
		if cfg.DefaultShowTime, err = concert.ParseClock(v); err != nil {
			return nil, fmt.Errorf("CONCERTS_SHOW_TIME: %w", err)
		}
	}

	return cfg, nil
}

// Validate rejects settings a run cannot work with.
func (c *Config) Validate() error {
	var problems []string

	if !strings.HasPrefix(c.SourceURL, "http://") && !strings.HasPrefix(c.SourceURL, "https://") {
		problems = append(problems, fmt.Sprintf("source URL must be http(s): %q", c.SourceURL))
	}
	if c.DataFile == "" {
		problems = append(problems, "data file is required")
	}
	if c.Timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if c.TargetYear < 1000 || c.TargetYear > 9999 {
		problems = append(problems, fmt.Sprintf("target year must have four digits: %d", c.TargetYear))
	}
	if c.UTCOffsetHours < -12 || c.UTCOffsetHours > 14 {
		problems = append(problems, fmt.Sprintf("UTC offset out of range: %d", c.UTCOffsetHours))
	}
	if c.DefaultShowTime.Hour < 0 || c.DefaultShowTime.Hour > 23 || c.DefaultShowTime.Minute < 0 || c.DefaultShowTime.Minute > 59 {
		problems = append(problems, fmt.Sprintf("invalid default show time: %v", c.DefaultShowTime))
	}
	if c.SeatCount < 0 {
		problems = append(problems, "seat count cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the fixed-offset zone listings are published in.
func (c *Config) Location() *time.Location {
	return concert.FixedZone(c.UTCOffsetHours)
}

// ReconcileOptions returns the record defaults for concert.Reconcile.
func (c *Config) ReconcileOptions() concert.ReconcileOptions {
	opts := concert.DefaultReconcileOptions()
	opts.SeatCount = c.SeatCount
	opts.SeatCost = c.SeatCost
	opts.ParkingCost = c.ParkingCost
	return opts
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
