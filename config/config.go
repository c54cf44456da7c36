// Package config holds the one immutable configuration a run is built from.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/monthguard/indicators"
	"github.com/rustyeddy/monthguard/montecarlo"
	"github.com/rustyeddy/monthguard/risk"
	"github.com/rustyeddy/monthguard/sim"
	"github.com/rustyeddy/monthguard/strategies"
)

// Config represents the complete simulation configuration
type Config struct {
	Account    AccountConfig          `json:"account" yaml:"account"`
	Indicators indicators.Config      `json:"indicators" yaml:"indicators"`
	Signal     strategies.TriadConfig `json:"signal" yaml:"signal"`
	Guard      risk.GuardConfig       `json:"guard" yaml:"guard"`
	Sizing     risk.SizerConfig       `json:"sizing" yaml:"sizing"`
	Outcome    sim.OutcomeConfig      `json:"outcome" yaml:"outcome"`
	MonteCarlo montecarlo.Config      `json:"montecarlo" yaml:"montecarlo"`
	Journal    JournalConfig          `json:"journal" yaml:"journal"`
}

type AccountConfig struct {
	ID             string  `json:"id" yaml:"id"`
	Currency       string  `json:"currency" yaml:"currency"`
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
}

// JournalConfig selects where runs are recorded. An empty Type disables
// journaling.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns the canonical variant: 1.95% monthly ceiling, 20% target,
// 0.45 throttle and the impulse conditioned win model.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:             "SIM-001",
			Currency:       "USD",
			InitialBalance: 100000,
		},
		Indicators: indicators.DefaultConfig(),
		Signal:     strategies.DefaultTriadConfig(),
		Guard:      risk.DefaultGuardConfig(),
		Sizing:     risk.DefaultSizerConfig(),
		Outcome:    sim.DefaultOutcomeConfig(),
		MonteCarlo: montecarlo.DefaultConfig(),
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./monthguard.db",
		},
	}
}

// LoadFromFile reads a YAML or JSON file over the defaults, so a file only
// needs the options it changes.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", errors.Join(err, jerr))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks every section and names the first offending one.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if !(c.Account.InitialBalance > 0) {
		return fmt.Errorf("account.initial_balance must be positive")
	}

	sections := []struct {
		name string
		err  error
	}{
		{"indicators", c.Indicators.Validate()},
		{"signal", c.Signal.Validate()},
		{"guard", c.Guard.Validate()},
		{"sizing", c.Sizing.Validate()},
		{"outcome", c.Outcome.Validate()},
		{"montecarlo", c.MonteCarloConfig().Validate()},
	}
	for _, s := range sections {
		if s.err != nil {
			return fmt.Errorf("%s: %w", s.name, s.err)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or empty")
	}
	return nil
}

// Engine returns the simulation configuration.
func (c *Config) Engine() sim.Config {
	return sim.Config{
		InitialBalance: c.Account.InitialBalance,
		Indicators:     c.Indicators,
		Signal:         c.Signal,
		Guard:          c.Guard,
		Sizing:         c.Sizing,
		Outcome:        c.Outcome,
	}
}

// MonteCarloConfig returns the resampler configuration. The guard is shared
// with the simulation and pnl is taken to be recorded at the account's
// initial balance unless reference_balance says otherwise.
func (c *Config) MonteCarloConfig() montecarlo.Config {
	mc := c.MonteCarlo
	mc.Guard = c.Guard
	mc.SurvivalThresholds = append([]float64(nil), c.MonteCarlo.SurvivalThresholds...)
	if mc.ReferenceBalance == 0 {
		mc.ReferenceBalance = c.Account.InitialBalance
	}
	return mc
}

// ApplyEnv loads the given .env files (".env" when none are named; missing
// files are ignored) and overlays MONTHGUARD_* variables on c. Variables
// already set in the environment win over .env values.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	var errs []error
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setFloat("MONTHGUARD_INITIAL_BALANCE", &c.Account.InitialBalance)
	setFloat("MONTHGUARD_PROFIT_TARGET_PCT", &c.Guard.ProfitTargetPct)
	setFloat("MONTHGUARD_DRAWDOWN_LIMIT_PCT", &c.Guard.DrawdownLimitPct)
	setFloat("MONTHGUARD_BASE_RISK_PCT", &c.Sizing.BaseRiskPct)
	setFloat("MONTHGUARD_THROTTLE_FACTOR", &c.Sizing.ThrottleFactor)
	setBool("MONTHGUARD_STRESS_MODE", &c.Outcome.StressMode)
	setFloat("MONTHGUARD_STRESS_SPIKE_MAGNITUDE", &c.Outcome.StressSpikeMagnitude)
	setInt("MONTHGUARD_PATHS", &c.MonteCarlo.Paths)
	setInt("MONTHGUARD_WORKERS", &c.MonteCarlo.Workers)
	setString("MONTHGUARD_JOURNAL_TYPE", &c.Journal.Type)
	setString("MONTHGUARD_JOURNAL_DB", &c.Journal.DBPath)

	if v := os.Getenv("MONTHGUARD_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MONTHGUARD_SEED: %w", err))
		} else {
			c.Outcome.Seed = seed
			c.MonteCarlo.Seed = seed
		}
	}
	return errors.Join(errs...)
}
