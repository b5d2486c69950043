package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Fatalf("got %v want 1", got)
	}

	if got := Clamp(-5, 0, 1); got != 0 {
		t.Fatalf("got %v want 0", got)
	}

	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Fatalf("got %v want 0.5", got)
	}
	// swapped bounds are normalized
	if got := Clamp(5, 1, 0); got != 1 {
		t.Fatalf("got %v want 1", got)
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(10, 0, 4); got != 4 {
		t.Fatalf("got %d want 4", got)
	}

	if got := ClampInt(-1, 0, 4); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected nearly equal")
	}

	if NearlyEqual(1.0, 1.1, 1e-12) {
		t.Fatal("expected not nearly equal")
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-31); got != 0 {
		t.Fatalf("got %v want 0", got)
	}

	if got := FlushDenormals(0.5); got != 0.5 {
		t.Fatalf("got %v want 0.5", got)
	}
}

func TestDBConversions(t *testing.T) {
	if got := DBToLinear(0); got != 1 {
		t.Fatalf("got %v want 1", got)
	}

	if got := DBToLinear(-20); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("got %v want 0.1", got)
	}

	if got := LinearToDB(1); got != 0 {
		t.Fatalf("got %v want 0", got)
	}

	if got := LinearToDB(0); !math.IsInf(got, -1) {
		t.Fatalf("got %v want -Inf", got)
	}

	if got := LinearToDB(-1); !math.IsNaN(got) {
		t.Fatalf("got %v want NaN", got)
	}
}

func TestScalarToDB(t *testing.T) {
	if got := ScalarToDB(0.5, 1.0); math.Abs(got-(-6.0205999132796239)) > 1e-9 {
		t.Fatalf("got %v want about -6.02", got)
	}
}

func TestT60ToGain(t *testing.T) {
	// A line whose length equals t60 decays the full 60 dB per circulation.
	if got := T60ToGain(1.0, 1.0); math.Abs(got-0.001) > 1e-12 {
		t.Fatalf("got %v want 0.001", got)
	}
	// Shorter lines decay proportionally less.
	g := T60ToGain(2.0, 0.05)
	want := math.Pow(10, -60.0/2.0*0.05/20)
	if math.Abs(g-want) > 1e-12 {
		t.Fatalf("got %v want %v", g, want)
	}
}
