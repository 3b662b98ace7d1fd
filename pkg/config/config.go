// Package config loads deduplication parameters from YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default tolerance values, matching the tool's usual starting point for
// high-resolution data.
const (
	DefaultMZTolerancePPM = 20.0
	DefaultRTTolerance    = 1.0
)

// Params holds every tunable the process command accepts. Column overrides
// are optional; empty strings mean keyword detection.
type Params struct {
	MZTolerancePPM float64 `yaml:"mz_tolerance_ppm"`
	RTTolerance    float64 `yaml:"rt_tolerance"`
	TopN           int     `yaml:"top_n"`

	RTColumn        string `yaml:"rt_column"`
	MZColumn        string `yaml:"mz_column"`
	IntensityColumn string `yaml:"intensity_column"`
}

// Defaults returns the baseline parameters: 20 ppm, 1 RT unit, no row limit.
func Defaults() Params {
	return Params{
		MZTolerancePPM: DefaultMZTolerancePPM,
		RTTolerance:    DefaultRTTolerance,
	}
}

// Load reads a YAML parameter file over the defaults.
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read parameter file: %w", err)
	}

	p := Defaults()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse parameter yaml: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("validate parameters: %w", err)
	}
	return p, nil
}

// Validate checks parameter ranges. The engine re-checks its own subset;
// this catches bad files with a path-level message before any work starts.
func (p Params) Validate() error {
	if p.MZTolerancePPM < 0 {
		return fmt.Errorf("mz_tolerance_ppm must be >= 0, got %g", p.MZTolerancePPM)
	}
	if p.RTTolerance < 0 {
		return fmt.Errorf("rt_tolerance must be >= 0, got %g", p.RTTolerance)
	}
	if p.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0, got %d", p.TopN)
	}
	return nil
}
