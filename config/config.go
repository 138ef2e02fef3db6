// Package config holds solver defaults, holiday sources and logging settings.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration of the fincore tools.
type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`
}

// SolverConfig holds the root finder parameters.
type SolverConfig struct {
	// Accuracy is the absolute tolerance on the root.
	Accuracy float64 `mapstructure:"accuracy"`

	// MaxEvaluations bounds the number of objective evaluations per solve.
	MaxEvaluations int `mapstructure:"max_evaluations"`

	// Step is the initial distance of the first bracketing point from the guess.
	Step float64 `mapstructure:"step"`

	// GrowthFactor widens the bracket on every expansion.
	GrowthFactor float64 `mapstructure:"growth_factor"`

	// DerivativeThreshold is the minimum derivative magnitude.
	// Below this, Newton iteration hands over to bracketing.
	DerivativeThreshold float64 `mapstructure:"derivative_threshold"`

	// Newton enables the Newton phase before bracketing.
	Newton bool `mapstructure:"newton"`
}

// CalendarConfig lists the extra holiday sources merged into the built-in calendars.
type CalendarConfig struct {
	// HolidayFiles are YAML holiday tables, applied in order.
	HolidayFiles []string `mapstructure:"holiday_files"`

	// PostgresDSN, when set, loads holiday rows from PostgreSQL.
	PostgresDSN string `mapstructure:"postgres_dsn"`

	// PostgresTable is the holiday table name.
	PostgresTable string `mapstructure:"postgres_table"`
}

// LogConfig selects the log level, format and optional rotating file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Solver: SolverConfig{
		Accuracy:            1e-10,
		MaxEvaluations:      100,
		Step:                0.01,
		GrowthFactor:        1.6,
		DerivativeThreshold: 1e-15,
		Newton:              true,
	},
	Calendar: CalendarConfig{
		PostgresTable: "market_holidays",
	},
	Log: LogConfig{
		Level:      "info",
		Format:     "text",
		MaxSizeMB:  100,
		MaxBackups: 10,
		MaxAgeDays: 30,
	},
}

// Load reads a YAML config file and applies FINCORE_* environment overrides
// (FINCORE_SOLVER_ACCURACY, FINCORE_CALENDAR_POSTGRES_DSN, ...). An empty
// path yields the defaults plus environment.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FINCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Validate checks the solver settings.
func (c Config) Validate() error {
	s := c.Solver
	if s.Accuracy <= 0 {
		return fmt.Errorf("solver.accuracy must be positive, got %g", s.Accuracy)
	}
	if s.MaxEvaluations <= 0 {
		return fmt.Errorf("solver.max_evaluations must be positive, got %d", s.MaxEvaluations)
	}
	if s.Step <= 0 {
		return fmt.Errorf("solver.step must be positive, got %g", s.Step)
	}
	if s.GrowthFactor <= 1 {
		return fmt.Errorf("solver.growth_factor must exceed 1, got %g", s.GrowthFactor)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig
	v.SetDefault("solver.accuracy", d.Solver.Accuracy)
	v.SetDefault("solver.max_evaluations", d.Solver.MaxEvaluations)
	v.SetDefault("solver.step", d.Solver.Step)
	v.SetDefault("solver.growth_factor", d.Solver.GrowthFactor)
	v.SetDefault("solver.derivative_threshold", d.Solver.DerivativeThreshold)
	v.SetDefault("solver.newton", d.Solver.Newton)

	v.SetDefault("calendar.holiday_files", []string{})
	v.SetDefault("calendar.postgres_dsn", "")
	v.SetDefault("calendar.postgres_table", d.Calendar.PostgresTable)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}
