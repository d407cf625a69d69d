// Package config loads run settings from defaults, an optional YAML file,
// a .env file and HAPPINESS_* environment variables, in increasing order of
// precedence. Command-line flags bound to the same viper instance win over
// all of them.
package config

import (
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ezoic/happiness/dataset"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

// EnvPrefix prefixes every environment variable, e.g. HAPPINESS_SPLIT_SEED.
const EnvPrefix = "HAPPINESS"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Keys.
const (
	KeyData2018      = "data.y2018"
	KeyData2019      = "data.y2019"
	KeySplitFraction = "split.fraction"
	KeySplitSeed     = "split.seed"
	KeySweepStart    = "sweep.start"
	KeySweepStop     = "sweep.stop"
	KeySweepStep     = "sweep.step"
	KeyDystopia      = "model.dystopia"
	KeyExclude       = "model.exclude"
	KeyWorkers       = "workers"
	KeyLogLevel      = "log.level"
	KeyOutput        = "output"
)

// Config holds every setting of a run.
type Config struct {
	Data    DataConfig  `mapstructure:"data" json:"data" yaml:"data"`
	Split   SplitConfig `mapstructure:"split" json:"split" yaml:"split"`
	Sweep   SweepConfig `mapstructure:"sweep" json:"sweep" yaml:"sweep"`
	Model   ModelConfig `mapstructure:"model" json:"model" yaml:"model"`
	Workers int         `mapstructure:"workers" json:"workers" yaml:"workers"`
	Log     LogConfig   `mapstructure:"log" json:"log" yaml:"log"`
	Output  string      `mapstructure:"output" json:"output" yaml:"output"`
}

// DataConfig locates the two survey files. CSV and XLSX are accepted.
type DataConfig struct {
	Y2018 string `mapstructure:"y2018" json:"y2018" yaml:"y2018"`
	Y2019 string `mapstructure:"y2019" json:"y2019" yaml:"y2019"`
}

// SplitConfig is the partition used by the model comparison.
type SplitConfig struct {
	Fraction float64 `mapstructure:"fraction" json:"fraction" yaml:"fraction"`
	Seed     uint64  `mapstructure:"seed" json:"seed" yaml:"seed"`
}

// SweepConfig is the inclusive range of training fractions to sweep.
type SweepConfig struct {
	Start float64 `mapstructure:"start" json:"start" yaml:"start"`
	Stop  float64 `mapstructure:"stop" json:"stop" yaml:"stop"`
	Step  float64 `mapstructure:"step" json:"step" yaml:"step"`
}

// ModelConfig holds model constants. An empty Exclude selects the factor
// least correlated with the score.
type ModelConfig struct {
	Dystopia float64 `mapstructure:"dystopia" json:"dystopia" yaml:"dystopia"`
	Exclude  string  `mapstructure:"exclude" json:"exclude" yaml:"exclude"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `mapstructure:"level" json:"level" yaml:"level"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyData2018, "data/2018.csv")
	v.SetDefault(KeyData2019, "data/2019.csv")
	v.SetDefault(KeySplitFraction, 0.70)
	v.SetDefault(KeySplitSeed, 123)
	v.SetDefault(KeySweepStart, 0.30)
	v.SetDefault(KeySweepStop, 0.90)
	v.SetDefault(KeySweepStep, 0.01)
	v.SetDefault(KeyDystopia, 1.85)
	v.SetDefault(KeyExclude, "")
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyOutput, OutputText)
}

// NewViper returns a viper instance with defaults and environment binding
// in place. Callers may bind flags to it before calling Read.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Read(NewViperWithoutEnv(), "")
	if err != nil {
		panic(err)
	}
	return cfg
}

// NewViperWithoutEnv returns a viper instance holding only the defaults.
func NewViperWithoutEnv() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

// Load reads .env (if present), the optional config file at path and the
// environment, then validates the result.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return Read(NewViper(), path)
}

// LoadDotEnv loads ./.env into the process environment. A missing file is
// not an error and variables already set are kept.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return happyErrors.Wrap(err, "config: load .env")
	}
	return nil
}

// Read reads the optional config file at path into v and decodes and
// validates the merged settings.
func Read(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, happyErrors.Wrapf(err, "config: read %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, happyErrors.Wrap(err, "config: decode")
	}
	cfg.Output = strings.ToLower(cfg.Output)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting as a ValidationError.
func (c *Config) Validate() error {
	switch {
	case c.Data.Y2018 == "":
		return happyErrors.NewValidationError(KeyData2018, "path must not be empty", c.Data.Y2018)
	case c.Data.Y2019 == "":
		return happyErrors.NewValidationError(KeyData2019, "path must not be empty", c.Data.Y2019)
	case !openUnit(c.Split.Fraction):
		return happyErrors.NewValidationError(KeySplitFraction, "must be in (0, 1)", c.Split.Fraction)
	case !openUnit(c.Sweep.Start):
		return happyErrors.NewValidationError(KeySweepStart, "must be in (0, 1)", c.Sweep.Start)
	case !openUnit(c.Sweep.Stop):
		return happyErrors.NewValidationError(KeySweepStop, "must be in (0, 1)", c.Sweep.Stop)
	case c.Sweep.Start > c.Sweep.Stop:
		return happyErrors.NewValidationError(KeySweepStart, fmt.Sprintf("must not exceed %s", KeySweepStop), c.Sweep.Start)
	case !(c.Sweep.Step > 0):
		return happyErrors.NewValidationError(KeySweepStep, "must be positive", c.Sweep.Step)
	case math.IsNaN(c.Model.Dystopia) || math.IsInf(c.Model.Dystopia, 0):
		return happyErrors.NewValidationError(KeyDystopia, "must be finite", c.Model.Dystopia)
	case c.Model.Exclude != "" && !slices.Contains(dataset.Factors(), c.Model.Exclude):
		return happyErrors.NewValidationError(KeyExclude, "must name one of the six factors", c.Model.Exclude)
	case c.Workers < 1:
		return happyErrors.NewValidationError(KeyWorkers, "must be at least 1", c.Workers)
	case !slices.Contains([]string{OutputText, OutputJSON, OutputYAML}, c.Output):
		return happyErrors.NewValidationError(KeyOutput, "must be one of text, json, yaml", c.Output)
	}
	return nil
}

func openUnit(x float64) bool {
	return x > 0 && x < 1
}
