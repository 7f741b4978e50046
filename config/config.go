// Package config loads the engine configuration from a YAML file and
// validates it. Thresholds, blackout ranges, and the supported holiday
// years are data here, not literals in the computation code, so a new
// academic year is a config edit rather than a release.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/surcharge"
)

var validate = validator.New()

// Blackout is one inclusive date range with no payable surcharge,
// ISO dates.
type Blackout struct {
	Start string `yaml:"start" validate:"required,datetime=2006-01-02"`
	End   string `yaml:"end" validate:"required,datetime=2006-01-02"`
}

// Surcharge configures the computation stage.
type Surcharge struct {
	DayOrigin        string     `yaml:"dayOrigin" validate:"required"`
	ThresholdMinutes int        `yaml:"thresholdMinutes" validate:"min=0"`
	Blackouts        []Blackout `yaml:"blackouts" validate:"dive"`
	MonthNames       []string   `yaml:"monthNames,omitempty" validate:"omitempty,len=12"`
}

// Holidays bounds the years the national calendar answers for.
type Holidays struct {
	MinYear int `yaml:"minYear" validate:"min=1900"`
	MaxYear int `yaml:"maxYear" validate:"gtefield=MinYear"`
}

// Config is the full server configuration.
type Config struct {
	Port      int       `yaml:"port" validate:"min=1,max=65535"`
	DBPath    string    `yaml:"dbPath" validate:"required"`
	Surcharge Surcharge `yaml:"surcharge"`
	Holidays  Holidays  `yaml:"holidays"`
}

// Default returns the production defaults: 06:00 origin, surcharge from
// minute 780 (18:00), the 2026 Holy Week recess blacked out, Spanish
// month labels, and a 2000-2100 holiday range.
func Default() *Config {
	return &Config{
		Port:   8080,
		DBPath: "surcharge.db",
		Surcharge: Surcharge{
			DayOrigin:        "06:00",
			ThresholdMinutes: 780,
			Blackouts: []Blackout{
				{Start: "2026-03-29", End: "2026-04-05"},
			},
		},
		Holidays: Holidays{MinYear: 2000, MaxYear: 2100},
	}
}

// LoadFromPath loads and validates configuration from a YAML file.
// Fields absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints plus the fields validator tags
// cannot express (time-of-day syntax, range ordering).
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := schedule.ParseTimeOfDay(cfg.Surcharge.DayOrigin); err != nil {
		return fmt.Errorf("invalid dayOrigin: %w", err)
	}

	for i, b := range cfg.Surcharge.Blackouts {
		start, _ := time.Parse("2006-01-02", b.Start)
		end, _ := time.Parse("2006-01-02", b.End)
		if end.Before(start) {
			return fmt.Errorf("invalid blackout[%d]: end %s before start %s", i, b.End, b.Start)
		}
	}
	return nil
}

// SurchargeConfig converts the validated file form into the engine's
// runtime configuration.
func (c *Config) SurchargeConfig() (surcharge.Config, error) {
	origin, err := schedule.ParseTimeOfDay(c.Surcharge.DayOrigin)
	if err != nil {
		return surcharge.Config{}, fmt.Errorf("invalid dayOrigin: %w", err)
	}

	out := surcharge.Config{
		DayOrigin:        origin,
		ThresholdMinutes: c.Surcharge.ThresholdMinutes,
		MonthNames:       surcharge.SpanishMonths,
	}

	for i, b := range c.Surcharge.Blackouts {
		start, err := time.Parse("2006-01-02", b.Start)
		if err != nil {
			return surcharge.Config{}, fmt.Errorf("invalid blackout[%d] start: %w", i, err)
		}
		end, err := time.Parse("2006-01-02", b.End)
		if err != nil {
			return surcharge.Config{}, fmt.Errorf("invalid blackout[%d] end: %w", i, err)
		}
		out.Blackouts = append(out.Blackouts, surcharge.DateRange{Start: start, End: end})
	}

	if len(c.Surcharge.MonthNames) == 12 {
		copy(out.MonthNames[:], c.Surcharge.MonthNames)
	}
	return out, nil
}
