package analytics

import (
	"math"
	"testing"
)

func TestLogReturns(t *testing.T) {
	got := LogReturns([]float64{100, 110, 99})
	if len(got) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(got))
	}
	if !almostEqual(got[0], math.Log(1.1)) {
		t.Fatalf("return[0] = %v", got[0])
	}
}

func TestLogReturnsSkipsNonPositive(t *testing.T) {
	got := LogReturns([]float64{100, 0, 110, 120})
	if len(got) != 1 {
		t.Fatalf("expected 1 usable return, got %d", len(got))
	}
	if !almostEqual(got[0], math.Log(120.0/110)) {
		t.Fatalf("return = %v", got[0])
	}
}

func TestLogReturnsShortInput(t *testing.T) {
	if got := LogReturns([]float64{100}); got != nil {
		t.Fatalf("expected nil for single close")
	}
}

func TestVarianceSampleDenominator(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	// mean 2.5, squared deviations sum 5, sample variance 5/3
	if !almostEqual(Variance(xs), 5.0/3) {
		t.Fatalf("variance %v, want %v", Variance(xs), 5.0/3)
	}
	if !almostEqual(Stdev(xs), math.Sqrt(5.0/3)) {
		t.Fatalf("stdev %v", Stdev(xs))
	}
}

func TestVarianceDegenerate(t *testing.T) {
	if Variance(nil) != 0 || Variance([]float64{5}) != 0 {
		t.Fatalf("variance of degenerate input must be 0")
	}
	if Mean(nil) != 0 {
		t.Fatalf("mean of empty input must be 0")
	}
}
