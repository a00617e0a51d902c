package amortization

import (
	"math"
	"testing"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name             string
		principal        float64
		annualRate       float64
		numberOfPayments int
		expectedRange    []float64 // [min, max] expected range
	}{
		{
			name:             "Standard 30-year mortgage",
			principal:        240000,
			annualRate:       6.5,
			numberOfPayments: 360,
			expectedRange:    []float64{1516.95, 1516.97}, // $1,516.96
		},
		{
			name:             "50-year mortgage",
			principal:        240000,
			annualRate:       6.5,
			numberOfPayments: 600,
			expectedRange:    []float64{1352.91, 1352.93},
		},
		{
			name:             "Round-number 30-year mortgage",
			principal:        100000,
			annualRate:       5.0,
			numberOfPayments: 360,
			expectedRange:    []float64{536.81, 536.83},
		},
		{
			name:             "High interest loan",
			principal:        10000,
			annualRate:       18.0,
			numberOfPayments: 36,
			expectedRange:    []float64{361.5, 361.55},
		},
		{
			name:             "Zero interest loan",
			principal:        12000,
			annualRate:       0.0,
			numberOfPayments: 12,
			expectedRange:    []float64{1000, 1000},
		},
		{
			name:             "No principal",
			principal:        0,
			annualRate:       5.0,
			numberOfPayments: 60,
			expectedRange:    []float64{0, 0},
		},
		{
			name:             "Negative principal",
			principal:        -5000,
			annualRate:       5.0,
			numberOfPayments: 60,
			expectedRange:    []float64{0, 0},
		},
		{
			name:             "No payments",
			principal:        5000,
			annualRate:       5.0,
			numberOfPayments: 0,
			expectedRange:    []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MonthlyPayment(tt.principal, MonthlyRate(tt.annualRate), tt.numberOfPayments)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("MonthlyPayment() = %.4f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestInterestPortion(t *testing.T) {
	tests := []struct {
		name       string
		balance    float64
		annualRate float64
		expected   float64
	}{
		{"Standard mortgage interest", 240000, 6.5, 1300.0},
		{"Round numbers", 200000, 6.0, 1000.0},
		{"Zero interest", 10000, 0.0, 0.0},
		{"Very small balance", 100, 6.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InterestPortion(tt.balance, MonthlyRate(tt.annualRate))
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("InterestPortion() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

// scheduleCases spans short and long terms, low and high rates.
var scheduleCases = []struct {
	name       string
	principal  float64
	annualRate float64
	years      int
}{
	{"240k 6.5% 30yr", 240000, 6.5, 30},
	{"400k 6.5% 50yr", 400000, 6.5, 50},
	{"320k 7.25% 15yr", 320000, 7.25, 15},
	{"50k 12% 50yr", 50000, 12, 50},
	{"1.2M 3% 40yr", 1200000, 3, 40},
	{"10k 0.1% 1yr", 10000, 0.1, 1},
	{"90k 0% 20yr", 90000, 0, 20},
}

func TestGenerateScheduleLength(t *testing.T) {
	for _, tc := range scheduleCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.years * 12
			r := MonthlyRate(tc.annualRate)
			schedule := GenerateSchedule(tc.principal, r, n, MonthlyPayment(tc.principal, r, n))

			if len(schedule) != n {
				t.Fatalf("GenerateSchedule() produced %d rows, expected %d", len(schedule), n)
			}
			for i, row := range schedule {
				if row.Month != i+1 {
					t.Fatalf("row %d has month %d", i, row.Month)
				}
			}
		})
	}
}

func TestGenerateScheduleRowsBalance(t *testing.T) {
	for _, tc := range scheduleCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.years * 12
			r := MonthlyRate(tc.annualRate)
			payment := MonthlyPayment(tc.principal, r, n)
			schedule := GenerateSchedule(tc.principal, r, n, payment)

			for _, row := range schedule {
				if row.Payment != payment {
					t.Fatalf("month %d payment %.4f differs from fixed payment %.4f", row.Month, row.Payment, payment)
				}
				if math.Abs(row.Principal+row.Interest-row.Payment) > 1e-6 {
					t.Fatalf("month %d: principal %.4f + interest %.4f != payment %.4f",
						row.Month, row.Principal, row.Interest, row.Payment)
				}
			}
		})
	}
}

func TestGenerateScheduleSumsToPrincipal(t *testing.T) {
	for _, tc := range scheduleCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.years * 12
			r := MonthlyRate(tc.annualRate)
			schedule := GenerateSchedule(tc.principal, r, n, MonthlyPayment(tc.principal, r, n))

			total := 0.0
			for _, row := range schedule {
				total += row.Principal
			}
			if math.Abs(total-tc.principal) > 0.01 {
				t.Errorf("sum of principal portions = %.4f, expected %.2f", total, tc.principal)
			}
		})
	}
}

func TestGenerateScheduleTerminalBalance(t *testing.T) {
	for _, tc := range scheduleCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.years * 12
			r := MonthlyRate(tc.annualRate)
			schedule := GenerateSchedule(tc.principal, r, n, MonthlyPayment(tc.principal, r, n))

			last := schedule[len(schedule)-1]
			if math.Abs(last.Balance) > 0.01 {
				t.Errorf("final balance = %.6f, expected 0", last.Balance)
			}
		})
	}
}

func TestGenerateScheduleMonotonicBalance(t *testing.T) {
	for _, tc := range scheduleCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.years * 12
			r := MonthlyRate(tc.annualRate)
			schedule := GenerateSchedule(tc.principal, r, n, MonthlyPayment(tc.principal, r, n))

			previous := tc.principal
			for _, row := range schedule {
				if row.Balance > previous {
					t.Fatalf("balance increased at month %d: %.4f > %.4f", row.Month, row.Balance, previous)
				}
				if row.Balance < 0 {
					t.Fatalf("balance negative at month %d: %.4f", row.Month, row.Balance)
				}
				previous = row.Balance
			}
		})
	}
}

func TestGenerateScheduleFirstRow(t *testing.T) {
	r := MonthlyRate(6.5)
	schedule := GenerateSchedule(240000, r, 360, MonthlyPayment(240000, r, 360))

	first := schedule[0]
	if math.Abs(first.Interest-1300) > 0.01 {
		t.Errorf("first interest = %.2f, expected 1300.00", first.Interest)
	}
	if math.Abs(first.Principal-216.96) > 0.01 {
		t.Errorf("first principal = %.2f, expected 216.96", first.Principal)
	}
	if math.Abs(first.Balance-239783.04) > 0.01 {
		t.Errorf("first balance = %.2f, expected 239783.04", first.Balance)
	}
}

func TestGenerateScheduleNoPayments(t *testing.T) {
	if schedule := GenerateSchedule(1000, 0.01, 0, 100); schedule != nil {
		t.Errorf("GenerateSchedule() with no payments = %v, expected nil", schedule)
	}
}

func TestOutstandingBalanceMatchesSchedule(t *testing.T) {
	for _, tc := range scheduleCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.years * 12
			r := MonthlyRate(tc.annualRate)
			payment := MonthlyPayment(tc.principal, r, n)
			schedule := GenerateSchedule(tc.principal, r, n, payment)

			if got := OutstandingBalance(tc.principal, r, payment, n, 0); got != tc.principal {
				t.Fatalf("OutstandingBalance(k=0) = %.2f, expected principal %.2f", got, tc.principal)
			}
			for k := 1; k <= n; k++ {
				closed := OutstandingBalance(tc.principal, r, payment, n, k)
				iterative := schedule[k-1].Balance
				if math.Abs(closed-iterative) > 0.01 {
					t.Fatalf("k=%d: closed form %.4f, schedule %.4f", k, closed, iterative)
				}
			}
		})
	}
}

func TestOutstandingBalanceEdgeCases(t *testing.T) {
	r := MonthlyRate(6.5)
	payment := MonthlyPayment(240000, r, 360)

	tests := []struct {
		name     string
		rate     float64
		payment  float64
		elapsed  int
		expected float64
	}{
		{"Negative elapsed returns principal", r, payment, -5, 240000},
		{"Past the term clamps to the term", r, payment, 1000, 0},
		{"Five years in", r, payment, 60, 224666.35},
		{"Ten years in", r, payment, 120, 203462.70},
		{"Overflowing rate clamps to zero", 1e300, payment, 360, 0},
		{"Zero rate straight line", 0, 1000, 12, 228000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutstandingBalance(240000, tt.rate, tt.payment, 360, tt.elapsed)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("OutstandingBalance() returned non-finite %v", got)
			}
			if math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("OutstandingBalance() = %.2f, expected %.2f", got, tt.expected)
			}
		})
	}
}
