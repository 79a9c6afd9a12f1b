// Package config reads service settings from TRAINBOARD_* environment
// variables.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	iso8601 "github.com/senseyeio/duration"
	"github.com/trainboard/trainboard/pkg/util"
)

type Config struct {
	FeedBaseURL string `validate:"required,url"`
	AssetsDir   string `validate:"required"`

	AssetsCheckInterval     time.Duration `validate:"gt=0"`
	ReferenceReloadInterval time.Duration `validate:"gt=0"`

	ScheduleWorkers  int           `validate:"gte=1,lte=256"`
	ScheduleCacheTTL time.Duration `validate:"gte=0"`

	HTTPTimeout    time.Duration `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gt=0"`

	Timezone   string `validate:"required"`
	LineFilter bool
	LinesFile  string

	CORSAllowOrigins string
}

func Default() Config {
	return Config{
		FeedBaseURL:             "https://i.opentidkeio.jp",
		AssetsDir:               "assets/json",
		AssetsCheckInterval:     7 * 24 * time.Hour,
		ReferenceReloadInterval: time.Hour,
		ScheduleWorkers:         16,
		ScheduleCacheTTL:        10 * time.Minute,
		HTTPTimeout:             10 * time.Second,
		RequestTimeout:          20 * time.Second,
		Timezone:                "Asia/Tokyo",
		LineFilter:              true,
		CORSAllowOrigins:        "*",
	}
}

// Load builds a Config from the process environment on top of Default.
func Load() (Config, error) {
	return FromEnvironment(util.GetEnvironmentVariables())
}

func FromEnvironment(env map[string]string) (Config, error) {
	cfg := Default()
	var err error

	cfg.FeedBaseURL = strings.TrimRight(util.EnvironmentOrDefault(env, "TRAINBOARD_FEED_BASE_URL", cfg.FeedBaseURL), "/")
	cfg.AssetsDir = util.EnvironmentOrDefault(env, "TRAINBOARD_ASSETS_DIR", cfg.AssetsDir)
	cfg.Timezone = util.EnvironmentOrDefault(env, "TRAINBOARD_TIMEZONE", cfg.Timezone)
	cfg.LinesFile = env["TRAINBOARD_LINES_FILE"]
	cfg.CORSAllowOrigins = util.EnvironmentOrDefault(env, "TRAINBOARD_CORS_ALLOW_ORIGINS", cfg.CORSAllowOrigins)

	durations := map[string]*time.Duration{
		"TRAINBOARD_ASSETS_CHECK_INTERVAL":     &cfg.AssetsCheckInterval,
		"TRAINBOARD_REFERENCE_RELOAD_INTERVAL": &cfg.ReferenceReloadInterval,
		"TRAINBOARD_SCHEDULE_CACHE_TTL":        &cfg.ScheduleCacheTTL,
		"TRAINBOARD_HTTP_TIMEOUT":              &cfg.HTTPTimeout,
		"TRAINBOARD_REQUEST_TIMEOUT":           &cfg.RequestTimeout,
	}
	for key, target := range durations {
		if value := env[key]; value != "" {
			if *target, err = parseDuration(value); err != nil {
				return cfg, fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	if value := env["TRAINBOARD_SCHEDULE_WORKERS"]; value != "" {
		if cfg.ScheduleWorkers, err = strconv.Atoi(value); err != nil {
			return cfg, fmt.Errorf("TRAINBOARD_SCHEDULE_WORKERS: %w", err)
		}
	}

	if value := env["TRAINBOARD_LINE_FILTER"]; value != "" {
		cfg.LineFilter = value == "YES"
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, err
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return cfg, fmt.Errorf("TRAINBOARD_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// parseDuration accepts Go durations such as 90s and ISO 8601 periods such as
// P7D. Calendar components are measured from the Unix epoch.
func parseDuration(value string) (time.Duration, error) {
	if !strings.HasPrefix(value, "P") {
		return time.ParseDuration(value)
	}

	period, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, err
	}

	epoch := time.Unix(0, 0).UTC()
	return period.Shift(epoch).Sub(epoch), nil
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
