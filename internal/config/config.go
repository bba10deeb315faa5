// Package config provides Viper-based configuration loading for the game
// engine, simulator, and persistence layer.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for match snapshot
// persistence.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// MatchConfig holds default game settings for new matches.
type MatchConfig struct {
	// QuarterLengthSeconds is the simulated length of one quarter.
	QuarterLengthSeconds int `mapstructure:"quarter_length_seconds"`
	QuartersTotal        int `mapstructure:"quarters_total"`
	// RunningClock makes plays cost game time; when false the clock only
	// moves via explicit quarter ends.
	RunningClock bool `mapstructure:"running_clock"`
	// PaceMultiplier scales per-play time costs.
	PaceMultiplier float64 `mapstructure:"pace_multiplier"`
	// SoloAdvantage grants a lone player in a 3-player format bonus momentum.
	SoloAdvantage bool `mapstructure:"solo_advantage"`
}

// SimConfig holds batch simulator settings.
type SimConfig struct {
	Games                int     `mapstructure:"games"`
	Seed                 uint64  `mapstructure:"seed"`
	QuartersTotal        int     `mapstructure:"quarters_total"`
	QuarterLengthSeconds int     `mapstructure:"quarter_length_seconds"`
	PaceMultiplier       float64 `mapstructure:"pace_multiplier"`
	OffenseStrategy      string  `mapstructure:"offense_strategy"`
	DefenseStrategy      string  `mapstructure:"defense_strategy"`
	IncludeGames         bool    `mapstructure:"include_games"`
	ChunkSize            int     `mapstructure:"chunk_size"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Match    MatchConfig    `mapstructure:"match"`
	Sim      SimConfig      `mapstructure:"sim"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMatch(c.Match); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSim(c.Sim); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateMatch(m MatchConfig) error {
	var errs []string
	if m.QuarterLengthSeconds < 1 {
		errs = append(errs, fmt.Sprintf("match.quarter_length_seconds must be >= 1, got %d", m.QuarterLengthSeconds))
	}
	if m.QuartersTotal < 1 {
		errs = append(errs, fmt.Sprintf("match.quarters_total must be >= 1, got %d", m.QuartersTotal))
	}
	if m.PaceMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("match.pace_multiplier must be > 0, got %g", m.PaceMultiplier))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.Games < 1 {
		errs = append(errs, fmt.Sprintf("sim.games must be >= 1, got %d", s.Games))
	}
	if s.QuartersTotal < 1 {
		errs = append(errs, fmt.Sprintf("sim.quarters_total must be >= 1, got %d", s.QuartersTotal))
	}
	if s.QuarterLengthSeconds < 1 {
		errs = append(errs, fmt.Sprintf("sim.quarter_length_seconds must be >= 1, got %d", s.QuarterLengthSeconds))
	}
	if s.PaceMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("sim.pace_multiplier must be > 0, got %g", s.PaceMultiplier))
	}
	validOffense := map[string]bool{"greedyEV": true, "randomCard": true, "safeBias": true, "deepBias": true}
	if !validOffense[s.OffenseStrategy] {
		errs = append(errs, fmt.Sprintf("sim.offense_strategy must be one of [greedyEV, randomCard, safeBias, deepBias], got %q", s.OffenseStrategy))
	}
	validDefense := map[string]bool{"typeCounter": true, "randomCall": true, "guessy": true}
	if !validDefense[s.DefenseStrategy] {
		errs = append(errs, fmt.Sprintf("sim.defense_strategy must be one of [typeCounter, randomCall, guessy], got %q", s.DefenseStrategy))
	}
	if s.ChunkSize < 1 {
		errs = append(errs, fmt.Sprintf("sim.chunk_size must be >= 1, got %d", s.ChunkSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DRIVECONTROL_ prefix
	v.SetEnvPrefix("DRIVECONTROL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns the built-in configuration, used when no config file is
// supplied.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "drivecontrol")
	v.SetDefault("database.password", "drivecontrol")
	v.SetDefault("database.name", "drivecontrol")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("match.quarter_length_seconds", 360)
	v.SetDefault("match.quarters_total", 4)
	v.SetDefault("match.running_clock", true)
	v.SetDefault("match.pace_multiplier", 1.0)
	v.SetDefault("match.solo_advantage", true)

	v.SetDefault("sim.games", 200)
	v.SetDefault("sim.seed", 42)
	v.SetDefault("sim.quarters_total", 4)
	v.SetDefault("sim.quarter_length_seconds", 360)
	v.SetDefault("sim.pace_multiplier", 1.0)
	v.SetDefault("sim.offense_strategy", "greedyEV")
	v.SetDefault("sim.defense_strategy", "guessy")
	v.SetDefault("sim.include_games", false)
	v.SetDefault("sim.chunk_size", 20)
}
