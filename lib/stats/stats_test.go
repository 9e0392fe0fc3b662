package stats

import (
	"math"
	"testing"
)

var boxWidth = [3]float64{100, 100, 100}

func almostEq(x, y, eps float64) bool {
	return math.Abs(x-y) < eps
}

func TestSummarizeMoments(t *testing.T) {
	x := [][3]float64{
		{1, 10, 20},
		{3, 10, 22},
		{5, 10, 24},
	}

	s := Summarize(x, boxWidth)

	if s.N != 3 {
		t.Errorf("Expected N = 3, got %d.", s.N)
	}
	meanExp := [3]float64{3, 10, 22}
	for dim := 0; dim < 3; dim++ {
		if !almostEq(s.Mean[dim], meanExp[dim], 1e-10) {
			t.Errorf("Expected Mean[%d] = %g, got %g.",
				dim, meanExp[dim], s.Mean[dim])
		}
	}

	// Sample standard deviation of {1, 3, 5} is 2, of a constant is 0.
	stdExp := [3]float64{2, 0, 2}
	for dim := 0; dim < 3; dim++ {
		if !almostEq(s.Std[dim], stdExp[dim], 1e-10) {
			t.Errorf("Expected Std[%d] = %g, got %g.",
				dim, stdExp[dim], s.Std[dim])
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize([][3]float64{ }, boxWidth)
	if s.N != 0 {
		t.Errorf("Expected N = 0, got %d.", s.N)
	}
	if s.CA != -1 || s.BA != -1 {
		t.Errorf("Expected undefined axis ratios for an empty catalogue, "+
			"got c/a = %g, b/a = %g.", s.CA, s.BA)
	}
}

func TestAxisRatiosIsotropic(t *testing.T) {
	// Unit vectors along each axis, both signs: an isotropic configuration
	// whose reduced inertia tensor is proportional to the identity.
	x := [][3]float64{
		{51, 50, 50}, {49, 50, 50},
		{50, 51, 50}, {50, 49, 50},
		{50, 50, 51}, {50, 50, 49},
	}

	s := Summarize(x, boxWidth)
	if !almostEq(s.CA, 1, 1e-10) || !almostEq(s.BA, 1, 1e-10) {
		t.Errorf("Expected c/a = b/a = 1 for an isotropic configuration, "+
			"got c/a = %g, b/a = %g.", s.CA, s.BA)
	}
}

func TestAxisRatiosFlattened(t *testing.T) {
	// Points confined to the x-y plane: the minor axis collapses and c/a
	// goes to zero while b/a stays 1.
	x := [][3]float64{
		{51, 50, 50}, {49, 50, 50},
		{50, 51, 50}, {50, 49, 50},
	}

	s := Summarize(x, boxWidth)
	if !almostEq(s.CA, 0, 1e-8) {
		t.Errorf("Expected c/a = 0 for a planar configuration, got %g.",
			s.CA)
	}
	if !almostEq(s.BA, 1, 1e-8) {
		t.Errorf("Expected b/a = 1 for a planar configuration, got %g.",
			s.BA)
	}
}

func TestPeriodicDisplacement(t *testing.T) {
	tests := []struct{
		x1, x2, exp [3]float64
	} {
		{ [3]float64{1, 1, 1}, [3]float64{0, 0, 0}, [3]float64{1, 1, 1} },
		{ [3]float64{99, 0, 0}, [3]float64{1, 0, 0}, [3]float64{-2, 0, 0} },
		{ [3]float64{1, 0, 0}, [3]float64{99, 0, 0}, [3]float64{2, 0, 0} },
		{ [3]float64{75, 25, 0}, [3]float64{25, 75, 0},
			[3]float64{50, -50, 0} },
	}

	for i := range tests {
		out := PeriodicDisplacement(tests[i].x1, tests[i].x2, boxWidth)
		for dim := 0; dim < 3; dim++ {
			if !almostEq(out[dim], tests[i].exp[dim], 1e-10) {
				t.Errorf("%d) Expected displacement %g, got %g.",
					i, tests[i].exp, out)
				break
			}
		}
	}
}
