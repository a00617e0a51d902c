package amortization

import (
	"math"
	"testing"
)

func testSchedule(t *testing.T) []Row {
	t.Helper()
	calc, err := Calculate(Inputs{HomePrice: 300000, DownPayment: 60000, AnnualRatePercent: 6.5, TermYears: 30})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	return calc.Schedule
}

func TestYearlySummaries(t *testing.T) {
	rows := testSchedule(t)
	summaries := YearlySummaries(rows)

	if len(summaries) != 30 {
		t.Fatalf("YearlySummaries() returned %d years, expected 30", len(summaries))
	}

	first := summaries[0]
	if first.Year != 1 {
		t.Errorf("first year = %d, expected 1", first.Year)
	}
	if math.Abs(first.Principal-2682.54) > 0.01 {
		t.Errorf("year 1 principal = %.2f, expected 2682.54", first.Principal)
	}
	if math.Abs(first.Interest-15521.02) > 0.01 {
		t.Errorf("year 1 interest = %.2f, expected 15521.02", first.Interest)
	}
	if math.Abs(first.EndBalance-237317.46) > 0.01 {
		t.Errorf("year 1 end balance = %.2f, expected 237317.46", first.EndBalance)
	}

	total := 0.0
	for _, s := range summaries {
		total += s.Principal
	}
	if math.Abs(total-240000) > 0.01 {
		t.Errorf("yearly principal sums to %.2f, expected 240000", total)
	}
}

func TestYearlySummariesPartialYear(t *testing.T) {
	rows := testSchedule(t)[:18]
	summaries := YearlySummaries(rows)

	if len(summaries) != 2 {
		t.Fatalf("YearlySummaries() returned %d years, expected 2", len(summaries))
	}
	if summaries[1].EndBalance != rows[17].Balance {
		t.Errorf("partial year end balance = %.2f, expected %.2f", summaries[1].EndBalance, rows[17].Balance)
	}
	if YearlySummaries(nil) != nil {
		t.Error("YearlySummaries(nil) should be nil")
	}
}

func TestCumulativeByYear(t *testing.T) {
	rows := testSchedule(t)
	points := CumulativeByYear(rows)
	summaries := YearlySummaries(rows)

	if len(points) != 30 {
		t.Fatalf("CumulativeByYear() returned %d points, expected 30", len(points))
	}

	var principal, interest float64
	for i, p := range points {
		principal += summaries[i].Principal
		interest += summaries[i].Interest

		if p.Year != i+1 || p.Month != (i+1)*12 {
			t.Fatalf("point %d is year %d month %d", i, p.Year, p.Month)
		}
		if math.Abs(p.CumulativePrincipal-principal) > 1e-6 {
			t.Errorf("year %d cumulative principal = %.2f, expected %.2f", p.Year, p.CumulativePrincipal, principal)
		}
		if math.Abs(p.CumulativeInterest-interest) > 1e-6 {
			t.Errorf("year %d cumulative interest = %.2f, expected %.2f", p.Year, p.CumulativeInterest, interest)
		}
		if math.Abs(p.CumulativePrincipal+p.Balance-240000) > 0.01 {
			t.Errorf("year %d principal paid plus balance = %.2f, expected 240000", p.Year, p.CumulativePrincipal+p.Balance)
		}
	}
}

func TestSample(t *testing.T) {
	rows := testSchedule(t)

	tests := []struct {
		name     string
		every    int
		expected int
	}{
		{"Every month", 1, 360},
		{"Non-positive keeps all", 0, 360},
		{"Every six months", 6, 60},
		{"Every year", 12, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampled := Sample(rows, tt.every)
			if len(sampled) != tt.expected {
				t.Errorf("Sample(%d) returned %d rows, expected %d", tt.every, len(sampled), tt.expected)
			}
		})
	}
}
