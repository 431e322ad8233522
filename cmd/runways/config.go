package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional runways.yaml.
type fileConfig struct {
	DataDir       string `yaml:"data_dir"`
	Preferences   string `yaml:"preferences" validate:"omitempty,oneof=file sqlite"`
	ProbeAddress  string `yaml:"probe_address" validate:"omitempty,hostname_port"`
	ProbeInterval string `yaml:"probe_interval" validate:"omitempty,go_duration"`
	ProbeRetries  int    `yaml:"probe_retries" validate:"gte=0,lte=10"`
	Verbose       bool   `yaml:"verbose"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	_ = validate.RegisterValidation("go_duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
}

// loadConfig reads path. A missing file is not an error unless required.
func loadConfig(path string, required bool) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// interval returns the probe interval, zero when unset.
func (c fileConfig) interval() time.Duration {
	d, _ := time.ParseDuration(c.ProbeInterval)
	return d
}
