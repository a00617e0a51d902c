// Package chart renders amortization results as PNG images.
package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/vicanso/go-charts/v2"
)

// ContentType is the media type of every rendered chart.
const ContentType = "image/png"

const (
	width  = 900
	height = 500
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// sampleMonths is the spacing of balance chart points.
const sampleMonths = 6

// Balance plots the remaining balance with cumulative principal and interest
// from the loan start, every six months and at the final payment.
func Balance(rows []amortization.Row, termYears int) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	size := len(rows)/sampleMonths + 2
	labels := append(make([]string, 0, size), monthLabel(0))
	balance := append(make([]float64, 0, size), math.Round(rows[0].Balance+rows[0].Principal))
	principal := append(make([]float64, 0, size), 0)
	interest := append(make([]float64, 0, size), 0)

	var paidPrincipal, paidInterest float64
	for i, row := range rows {
		paidPrincipal += row.Principal
		paidInterest += row.Interest
		if row.Month%sampleMonths != 0 && i != len(rows)-1 {
			continue
		}
		labels = append(labels, monthLabel(row.Month))
		balance = append(balance, math.Round(row.Balance))
		principal = append(principal, math.Round(paidPrincipal))
		interest = append(interest, math.Round(paidInterest))
	}

	names := []string{"Balance", "Principal paid", "Interest paid"}
	painter, err := charts.LineRender([][]float64{balance, principal, interest},
		charts.TitleTextOptionFunc(fmt.Sprintf("%d-year mortgage balance", termYears)),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: splitFor(len(labels))}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
		charts.PNGTypeOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering balance chart: %w", err)
	}
	return painter.Bytes()
}

// Compare plots principal against total interest for every term side by side.
func Compare(results []amortization.TermResult) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, 0, len(results))
	principal := make([]float64, 0, len(results))
	interest := make([]float64, 0, len(results))
	for _, r := range results {
		labels = append(labels, fmt.Sprintf("%dyr", r.TermYears))
		principal = append(principal, math.Round(r.Result.Principal))
		interest = append(interest, math.Round(r.Result.TotalInterest))
	}

	names := []string{"Principal", "Total interest"}
	painter, err := charts.BarRender([][]float64{principal, interest},
		charts.TitleTextOptionFunc("Total cost by loan term"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
		charts.PNGTypeOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering comparison chart: %w", err)
	}
	return painter.Bytes()
}

// monthLabel names a point by year where it falls on a year end.
func monthLabel(month int) string {
	if month%12 == 0 {
		return fmt.Sprintf("Y%d", month/12)
	}
	return fmt.Sprintf("M%d", month)
}

// splitFor keeps roughly ten labels on the x axis.
func splitFor(n int) int {
	if n <= 10 {
		return n
	}
	return 10
}
