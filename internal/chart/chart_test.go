package chart

import (
	"bytes"
	"testing"

	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testInputs() amortization.Inputs {
	return amortization.Inputs{HomePrice: 400000, DownPayment: 80000, AnnualRatePercent: 6.5, TermYears: 50}
}

func TestBalance(t *testing.T) {
	calc, err := amortization.Calculate(testInputs())
	require.NoError(t, err)

	img, err := Balance(calc.Schedule, 50)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature), "expected PNG output")
}

func TestBalanceNoData(t *testing.T) {
	_, err := Balance(nil, 50)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBalanceOneYearTerm(t *testing.T) {
	in := testInputs()
	in.TermYears = 1
	calc, err := amortization.Calculate(in)
	require.NoError(t, err)
	require.Len(t, calc.Schedule, 12)

	img, err := Balance(calc.Schedule, 1)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature), "expected PNG output")
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Y0", monthLabel(0))
	assert.Equal(t, "M6", monthLabel(6))
	assert.Equal(t, "Y1", monthLabel(12))
	assert.Equal(t, "M18", monthLabel(18))
	assert.Equal(t, "Y50", monthLabel(600))
}

func TestCompare(t *testing.T) {
	results := amortization.CompareTerms(testInputs(), []int{15, 30, 50})
	require.Len(t, results, 3)

	img, err := Compare(results)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature), "expected PNG output")

	_, err = Compare(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSplitFor(t *testing.T) {
	assert.Equal(t, 5, splitFor(5))
	assert.Equal(t, 10, splitFor(50))
}
