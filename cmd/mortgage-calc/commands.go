package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/fifty-year-mortgage/internal/chart"
	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"github.com/iwvelando/fifty-year-mortgage/pkg/inputs"
	"github.com/iwvelando/fifty-year-mortgage/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Terms compared by default in the difference and equity views.
const (
	defaultBaseTerm      = 30
	defaultAlternateTerm = 50
)

func (a *app) calcCmd() *cobra.Command {
	var yearly bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the payment summary for one term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := a.inputs(cmd)
			if err != nil {
				return err
			}
			calc, err := a.calculator.Calculate(in)
			if err != nil {
				return fmt.Errorf("no result: %w", err)
			}

			w := cmd.OutOrStdout()
			switch a.format {
			case constants.OutputFormatCSV:
				return output.WriteScheduleCSV(w, calc.Schedule)
			case constants.OutputFormatJSON:
				return writeJSON(w, struct {
					Inputs amortization.Inputs        `json:"inputs"`
					Result amortization.Result        `json:"result"`
					Yearly []amortization.YearSummary `json:"yearly,omitempty"`
				}{in, calc.Result, yearlyIf(yearly, calc.Schedule)})
			}

			output.PrettySummary(w, in, calc.Result)
			if yearly {
				_, _ = fmt.Fprintln(w)
				output.PrettyYearly(w, amortization.YearlySummaries(calc.Schedule))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yearly, "yearly", false, "include a year by year breakdown")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var terms []int

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the same loan across several terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := a.inputs(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("terms") {
				terms = a.conf.Calculator.Terms
			}

			results := a.calculator.CompareTerms(in, terms)
			if len(results) == 0 {
				if err := a.calculator.Validate(in); err != nil {
					return fmt.Errorf("no result: %w", err)
				}
				return fmt.Errorf("no result: none of the terms %v is valid", terms)
			}
			diff := difference(results)

			w := cmd.OutOrStdout()
			switch a.format {
			case constants.OutputFormatCSV:
				return output.WriteComparisonCSV(w, results)
			case constants.OutputFormatJSON:
				return writeJSON(w, struct {
					Inputs     amortization.Inputs       `json:"inputs"`
					Results    []amortization.TermResult `json:"results"`
					Difference *amortization.Difference  `json:"difference,omitempty"`
				}{in, results, diff})
			}

			output.PrettyComparison(w, results, diff)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&terms, "terms", nil, "terms in years to compare (default from config)")
	return cmd
}

// difference compares the default terms when both are present, otherwise the
// shortest and longest compared terms.
func difference(results []amortization.TermResult) *amortization.Difference {
	base, okBase := amortization.FindTerm(results, defaultBaseTerm)
	alternate, okAlt := amortization.FindTerm(results, defaultAlternateTerm)
	if !okBase || !okAlt {
		base = results[0].Result
		alternate = results[len(results)-1].Result
	}
	if base.TermYears == alternate.TermYears {
		return nil
	}
	diff := amortization.Compare(base, alternate)
	return &diff
}

func (a *app) scheduleCmd() *cobra.Command {
	var (
		every     int
		chartPath string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the month by month amortization schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := a.inputs(cmd)
			if err != nil {
				return err
			}
			calc, err := a.calculator.Calculate(in)
			if err != nil {
				return fmt.Errorf("no result: %w", err)
			}

			if chartPath != "" {
				if err := writeBalanceChart(chartPath, calc.Schedule, in.TermYears); err != nil {
					return err
				}
				a.logger.Info("wrote balance chart",
					zap.String("op", "main.schedule"),
					zap.String("path", chartPath),
				)
			}

			rows := amortization.Sample(calc.Schedule, every)
			w := cmd.OutOrStdout()
			switch a.format {
			case constants.OutputFormatCSV:
				return output.WriteScheduleCSV(w, rows)
			case constants.OutputFormatJSON:
				return writeJSON(w, rows)
			}

			output.PrettySchedule(w, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&every, "every", 1, "print only every n-th month")
	cmd.Flags().StringVar(&chartPath, "chart", "", "also write a PNG balance chart to this path")
	return cmd
}

func writeBalanceChart(path string, rows []amortization.Row, termYears int) error {
	img, err := chart.Balance(rows, termYears)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", path, err)
	}
	return nil
}

func (a *app) equityCmd() *cobra.Command {
	var (
		baseTerm      int
		alternateTerm int
		years         []int
	)

	cmd := &cobra.Command{
		Use:   "equity",
		Short: "Compare equity built by two terms over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := a.inputs(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("years") {
				years = a.conf.Calculator.MilestoneYears
			}

			milestones, err := a.calculator.EquityMilestones(in, baseTerm, alternateTerm, years)
			if err != nil {
				return fmt.Errorf("no result: %w", err)
			}

			w := cmd.OutOrStdout()
			switch a.format {
			case constants.OutputFormatCSV:
				return output.WriteEquityCSV(w, milestones)
			case constants.OutputFormatJSON:
				return writeJSON(w, milestones)
			}

			output.PrettyEquity(w, milestones, baseTerm, alternateTerm)
			return nil
		},
	}

	cmd.Flags().IntVar(&baseTerm, "base", defaultBaseTerm, "base term in years")
	cmd.Flags().IntVar(&alternateTerm, "alternate", defaultAlternateTerm, "alternate term in years")
	cmd.Flags().IntSliceVar(&years, "years", nil, "milestone years (default from config)")
	return cmd
}

func (a *app) shareCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a share link that reproduces the inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := a.inputs(cmd)
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = a.conf.Calculator.ShareBaseURL
			}

			link, err := inputs.ShareURL(baseURL, in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "page the link points at (default from config)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}

func yearlyIf(include bool, rows []amortization.Row) []amortization.YearSummary {
	if !include {
		return nil
	}
	return amortization.YearlySummaries(rows)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
