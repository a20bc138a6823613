package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/multistate/internal/promoter"
)

func TestRateSweepTwoState(t *testing.T) {
	base, err := promoter.TwoState(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Sweep the activation rate 2 -> 1.
	points, err := RateSweep(base, promoter.Transition{From: 2, To: 1}, 1, 4, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}

	for _, p := range points {
		a := p.Rate
		if math.Abs(p.ActiveFraction-a/(a+3)) > 1e-12 {
			t.Errorf("rate %f: active fraction %f, want %f", a, p.ActiveFraction, a/(a+3))
		}
		if math.Abs(p.MeanActive-1.0/3) > 1e-12 {
			t.Errorf("rate %f: mean active %f, want 1/3", a, p.MeanActive)
		}
		if math.Abs(p.MeanInactive-1/a) > 1e-9 {
			t.Errorf("rate %f: mean inactive %f, want %f", a, p.MeanInactive, 1/a)
		}
		if math.Abs(p.BurstFrequency-3*a/(a+3)) > 1e-12 {
			t.Errorf("rate %f: burst frequency %f", a, p.BurstFrequency)
		}
	}
}

func TestRateSweepLeavesBaseUntouched(t *testing.T) {
	base, _ := promoter.TwoState(2, 3)
	tr := promoter.Transition{From: 1, To: 2}
	if _, err := RateSweep(base, tr, 5, 6, 2, 1); err != nil {
		t.Fatal(err)
	}
	if base[tr] != 3 {
		t.Errorf("base rates were modified: %v", base)
	}
}

func TestRateSweepInvalid(t *testing.T) {
	base, _ := promoter.TwoState(2, 3)
	if _, err := RateSweep(base, promoter.Transition{From: 1, To: 2}, 1, 2, 0, 1); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := RateSweep(base, promoter.Transition{From: 1, To: 2}, 1, 2, 3, 5); err == nil {
		t.Error("expected error for state out of range")
	}
	// A zero exit rate makes the active state absorbing.
	if _, err := RateSweep(base, promoter.Transition{From: 1, To: 2}, 0, 0, 1, 1); err == nil {
		t.Error("expected error for absorbing active state")
	}
}
