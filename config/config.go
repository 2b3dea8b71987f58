// Package config loads creditprep configuration.
//
// Configuration is read from a YAML file through viper, with environment
// overrides under the CREDITPREP_ prefix (for example
// CREDITPREP_IMPUTATION_MISSING_FLAG_THRESHOLD=0.4 or CREDITPREP_LOG_LEVEL=debug).
// Keys absent from the file keep the credit-risk defaults returned by Default.
//
// Strategies are a list rather than a map so their declared order, which is
// also their application order, survives the round trip:
//
//	imputation:
//	  zero_fill: [AMT_REQ_CREDIT_BUREAU_DAY]
//	  strategies:
//	    - feature: CNT_FAM_MEMBERS
//	      strategy: mode
//	    - feature: YEARS_EMPLOYED_IMPUTED
//	      strategy: group_median
//	      group_by: [NAME_EDUCATION_TYPE, CODE_GENDER]
package config

import (
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/creditprep/impute"
	"github.com/ezoic/creditprep/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CREDITPREP"

// Scaler names.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// Config is the complete creditprep configuration.
type Config struct {
	Imputation ImputationConfig `mapstructure:"imputation" yaml:"imputation"`
	Features   FeaturesConfig   `mapstructure:"features" yaml:"features"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// ImputationConfig configures the imputation engine.
type ImputationConfig struct {
	ZeroFill             []string         `mapstructure:"zero_fill" yaml:"zero_fill"`
	Strategies           []StrategyConfig `mapstructure:"strategies" yaml:"strategies"`
	MissingFlagThreshold float64          `mapstructure:"missing_flag_threshold" yaml:"missing_flag_threshold"`
}

// StrategyConfig declares one feature's strategy. GroupBy holds the grouping
// columns for group_median or the source features for mean_across_features.
type StrategyConfig struct {
	Feature  string   `mapstructure:"feature" yaml:"feature"`
	Strategy string   `mapstructure:"strategy" yaml:"strategy"`
	GroupBy  []string `mapstructure:"group_by" yaml:"group_by,omitempty"`
}

// FeaturesConfig configures the steps that run after imputation.
type FeaturesConfig struct {
	Enabled     bool     `mapstructure:"enabled" yaml:"enabled"`
	DropColumns []string `mapstructure:"drop_columns" yaml:"drop_columns"`

	// OneHot columns are expanded into indicator columns.
	OneHot []string `mapstructure:"one_hot" yaml:"one_hot,omitempty"`
	// Scale columns are rescaled with Scaler: standard or minmax.
	Scale  []string `mapstructure:"scale" yaml:"scale,omitempty"`
	Scaler string   `mapstructure:"scaler" yaml:"scaler"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

// Load reads the YAML file at path. An empty path returns Default with
// environment overrides applied.
func Load(path string) (*Config, error) {
	def := Default()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("imputation.missing_flag_threshold", def.Imputation.MissingFlagThreshold)
	v.SetDefault("features.enabled", def.Features.Enabled)
	v.SetDefault("features.scaler", def.Features.Scaler)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if !v.IsSet("imputation.zero_fill") {
		cfg.Imputation.ZeroFill = def.Imputation.ZeroFill
	}
	if !v.IsSet("imputation.strategies") {
		cfg.Imputation.Strategies = def.Imputation.Strategies
	}
	if !v.IsSet("features.drop_columns") {
		cfg.Features.DropColumns = def.Features.DropColumns
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// Validate checks the configuration, including every imputation strategy.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return errors.NewValidationError("log.level", "must be one of debug, info, warn, error, disabled", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return errors.NewValidationError("log.format", "must be console or json", c.Log.Format)
	}
	if c.Features.Scaler != ScalerStandard && c.Features.Scaler != ScalerMinMax {
		return errors.NewValidationError("features.scaler", "must be standard or minmax", c.Features.Scaler)
	}
	_, err := impute.NewEngine(c.ImputeConfig(), nil)
	return err
}

// ImputeConfig converts the imputation section into engine construction
// parameters.
func (c *Config) ImputeConfig() impute.Config {
	out := impute.Config{
		ZeroFill:             append([]string(nil), c.Imputation.ZeroFill...),
		GroupingColumns:      make(map[string][]string),
		MissingFlagThreshold: impute.Threshold(c.Imputation.MissingFlagThreshold),
	}
	for _, s := range c.Imputation.Strategies {
		out.Strategies = append(out.Strategies, impute.FeatureStrategy{Feature: s.Feature, Strategy: s.Strategy})
		if len(s.GroupBy) > 0 {
			out.GroupingColumns[s.Feature] = append([]string(nil), s.GroupBy...)
		}
	}
	return out
}

// Write encodes c as YAML.
func Write(w io.Writer, c *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return enc.Close()
}
