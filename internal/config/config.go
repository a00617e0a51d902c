// Package config defines the data structures related to configuration and
// includes functions for loading and validating the calculator config.
package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the mortgage calculator.
type Configuration struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output,omitempty"`
	Calculator CalculatorConfig `mapstructure:"calculator" yaml:"calculator,omitempty"`
	Presets    []Preset         `mapstructure:"-" yaml:"presets,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// CalculatorConfig holds the inputs a calculation starts from and the terms
// and years the comparisons cover.
type CalculatorConfig struct {
	Defaults       amortization.Inputs `mapstructure:"defaults" yaml:"defaults"`
	Terms          []int               `mapstructure:"terms" yaml:"terms"`
	MilestoneYears []int               `mapstructure:"milestoneYears" yaml:"milestoneYears"`
	AllowZeroRate  bool                `mapstructure:"allowZeroRate" yaml:"allowZeroRate"`
	ShareBaseURL   string              `mapstructure:"shareBaseURL" yaml:"shareBaseURL"`
}

// Preset is a named scenario. Fields it leaves out come from the calculator
// defaults.
type Preset struct {
	ID                  string `mapstructure:"id" json:"id"`
	Label               string `mapstructure:"label" json:"label"`
	amortization.Inputs `mapstructure:",squash"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error parsing config, %w", err)
	}

	return decode(v)
}

// Default returns the configuration used when no config file is given.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults alone always decode.
		panic(err)
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix("MORTGAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetDefault("calculator.defaults.homePrice", constants.DefaultHomePrice)
	v.SetDefault("calculator.defaults.downPayment", constants.DefaultDownPayment)
	v.SetDefault("calculator.defaults.interestRate", constants.DefaultInterestRate)
	v.SetDefault("calculator.defaults.termYears", constants.DefaultTermYears)
	v.SetDefault("calculator.defaults.propertyTaxRate", constants.DefaultPropertyTaxRate)
	v.SetDefault("calculator.defaults.homeInsuranceAnnual", constants.DefaultHomeInsuranceAnnual)
	v.SetDefault("calculator.defaults.hoaMonthly", 0)
	v.SetDefault("calculator.defaults.pmiRate", constants.DefaultPMIRate)
	v.SetDefault("calculator.defaults.closingCosts", 0)
	v.SetDefault("calculator.terms", constants.DefaultTerms)
	v.SetDefault("calculator.milestoneYears", constants.DefaultMilestoneYears)
	v.SetDefault("calculator.allowZeroRate", false)
	v.SetDefault("calculator.shareBaseURL", constants.DefaultShareBaseURL)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	presets, err := decodePresets(v.Get("presets"), configuration.Calculator.Defaults)
	if err != nil {
		return nil, err
	}
	configuration.Presets = presets

	return &configuration, nil
}

// decodePresets layers every preset over the calculator defaults.
func decodePresets(raw interface{}, defaults amortization.Inputs) ([]Preset, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("presets must be a list, got %T", raw)
	}

	presets := make([]Preset, 0, len(items))
	for i, item := range items {
		preset := Preset{Inputs: defaults}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &preset,
		})
		if err != nil {
			return nil, fmt.Errorf("creating preset decoder: %w", err)
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("unable to decode preset %d, %w", i, err)
		}
		presets = append(presets, preset)
	}
	return presets, nil
}

// Preset returns the preset with the given id.
func (c *Configuration) Preset(id string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// CalculatorOptions converts the calculator config into engine options.
func (c *Configuration) CalculatorOptions() amortization.Options {
	return amortization.Options{AllowZeroRate: c.Calculator.AllowZeroRate}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if err := amortization.NewCalculator(nil, c.CalculatorOptions()).Validate(c.Calculator.Defaults); err != nil {
		warnings = append(warnings, fmt.Sprintf("calculator defaults produce no result: %v", err))
	}

	if len(c.Calculator.Terms) == 0 {
		warnings = append(warnings, "no comparison terms configured")
	}
	warnings = append(warnings, checkYears("term", c.Calculator.Terms, 1, constants.MaxTermYears)...)
	warnings = append(warnings, checkYears("milestone year", c.Calculator.MilestoneYears, 1, constants.MaxTermYears)...)

	seen := make(map[string]bool, len(c.Presets))
	for i, p := range c.Presets {
		if p.ID == "" {
			warnings = append(warnings, fmt.Sprintf("preset %d has no id", i))
			continue
		}
		if seen[p.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate preset id %q", p.ID))
		}
		seen[p.ID] = true

		if err := amortization.NewCalculator(nil, c.CalculatorOptions()).Validate(p.Inputs); err != nil {
			warnings = append(warnings, fmt.Sprintf("preset %q produces no result: %v", p.ID, err))
		}
	}

	return warnings
}

func checkYears(kind string, years []int, min, max int) []string {
	var warnings []string
	seen := make(map[int]bool, len(years))
	for _, y := range years {
		if y < min || y > max {
			warnings = append(warnings, fmt.Sprintf("%s %d is outside %d-%d", kind, y, min, max))
		}
		if seen[y] {
			warnings = append(warnings, fmt.Sprintf("duplicate %s %d", kind, y))
		}
		seen[y] = true
	}
	return warnings
}
