package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/fifty-year-mortgage/internal/config"
	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"github.com/iwvelando/fifty-year-mortgage/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// Input flag names. Flags that are not set keep the configured defaults or
// the selected preset.
const (
	flagPrice     = "price"
	flagDown      = "down"
	flagRate      = "rate"
	flagTerm      = "term"
	flagTax       = "tax"
	flagInsurance = "insurance"
	flagHOA       = "hoa"
	flagPMI       = "pmi"
	flagClosing   = "closing"
	flagPreset    = "preset"
)

type app struct {
	configPath   string
	logLevel     string
	outputFormat string
	preset       string
	flagInputs   amortization.Inputs

	conf       *config.Configuration
	logger     *zap.Logger
	calculator *amortization.Calculator
	format     string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mortgage-calc",
		Short: "Compare fixed-rate mortgage terms up to 50 years",
		Long: `mortgage-calc computes monthly payments, total interest, amortization
schedules and equity milestones for fixed-rate mortgages, and serves the
same calculations over HTTP.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", fmt.Sprintf("path to configuration file (default %s when present)", constants.DefaultConfigFile))
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	flags.StringVar(&a.preset, flagPreset, "", "start from a configured preset")
	flags.Float64Var(&a.flagInputs.HomePrice, flagPrice, 0, "home price")
	flags.Float64Var(&a.flagInputs.DownPayment, flagDown, 0, "down payment")
	flags.Float64Var(&a.flagInputs.AnnualRatePercent, flagRate, 0, "annual interest rate in percent")
	flags.IntVar(&a.flagInputs.TermYears, flagTerm, 0, "loan term in years")
	flags.Float64Var(&a.flagInputs.PropertyTaxRatePercent, flagTax, 0, "annual property tax rate in percent of the home price")
	flags.Float64Var(&a.flagInputs.HomeInsuranceAnnual, flagInsurance, 0, "annual home insurance")
	flags.Float64Var(&a.flagInputs.HOAMonthly, flagHOA, 0, "monthly HOA dues")
	flags.Float64Var(&a.flagInputs.PMIRatePercent, flagPMI, 0, "annual PMI rate in percent of the loan")
	flags.Float64Var(&a.flagInputs.ClosingCosts, flagClosing, 0, "closing costs")

	root.AddCommand(
		a.calcCmd(),
		a.compareCmd(),
		a.scheduleCmd(),
		a.equityCmd(),
		a.shareCmd(),
		a.serveCmd(),
		versionCmd(),
	)
	return root
}

// setup loads the configuration, builds the logger and resolves the output
// format before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfiguration(a.configPath)
	if err != nil {
		return err
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	// CLI override takes precedence over config
	a.format = conf.Output.Format
	if a.outputFormat != "" {
		a.format = a.outputFormat
	}
	if a.format == "" {
		a.format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.format); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	a.calculator = amortization.NewCalculator(logger, conf.CalculatorOptions())
	return nil
}

// loadConfiguration reads the config file at path. Without a path the default
// file is used when it exists, and the built-in defaults otherwise.
func loadConfiguration(path string) (*config.Configuration, error) {
	if path != "" {
		conf, err := config.LoadConfiguration(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
		}
		return conf, nil
	}

	if _, err := os.Stat(constants.DefaultConfigFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", constants.DefaultConfigFile, err)
	}
	conf, err := config.LoadConfiguration(constants.DefaultConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", constants.DefaultConfigFile, err)
	}
	return conf, nil
}

// inputs starts from the preset or configured defaults and applies every
// input flag the user set.
func (a *app) inputs(cmd *cobra.Command) (amortization.Inputs, error) {
	in := a.conf.Calculator.Defaults
	if a.preset != "" {
		preset, ok := a.conf.Preset(a.preset)
		if !ok {
			return amortization.Inputs{}, fmt.Errorf("unknown preset %q", a.preset)
		}
		in = preset.Inputs
	}

	flags := cmd.Flags()
	overrides := []struct {
		name   string
		target *float64
		value  float64
	}{
		{flagPrice, &in.HomePrice, a.flagInputs.HomePrice},
		{flagDown, &in.DownPayment, a.flagInputs.DownPayment},
		{flagRate, &in.AnnualRatePercent, a.flagInputs.AnnualRatePercent},
		{flagTax, &in.PropertyTaxRatePercent, a.flagInputs.PropertyTaxRatePercent},
		{flagInsurance, &in.HomeInsuranceAnnual, a.flagInputs.HomeInsuranceAnnual},
		{flagHOA, &in.HOAMonthly, a.flagInputs.HOAMonthly},
		{flagPMI, &in.PMIRatePercent, a.flagInputs.PMIRatePercent},
		{flagClosing, &in.ClosingCosts, a.flagInputs.ClosingCosts},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			*o.target = o.value
		}
	}
	if flags.Changed(flagTerm) {
		in.TermYears = a.flagInputs.TermYears
	}

	a.logger.Debug("resolved calculator inputs",
		zap.String("op", "main.inputs"),
		zap.Float64("homePrice", in.HomePrice),
		zap.Float64("downPayment", in.DownPayment),
		zap.Float64("interestRate", in.AnnualRatePercent),
		zap.Int("termYears", in.TermYears),
	)
	return in, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
