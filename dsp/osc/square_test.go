package osc

import (
	"math"
	"testing"
)

func TestNewSquareValidation(t *testing.T) {
	if _, err := NewSquare(-1); err == nil {
		t.Fatal("expected error for sr=-1")
	}
}

func TestAutoHarmonicCount(t *testing.T) {
	s, err := NewSquare(44100)
	if err != nil {
		t.Fatal(err)
	}

	s.SetFrequency(100)

	if got := s.AdjustedHarmonics(); got != 220 {
		t.Fatalf("harmonics: got %d want 220", got)
	}
}

func TestAutoHarmonicsClampedToOne(t *testing.T) {
	s, _ := NewSquare(44100)
	s.SetFrequency(30000)

	if got := s.AdjustedHarmonics(); got != 1 {
		t.Fatalf("harmonics: got %d want 1", got)
	}
}

func TestExplicitHarmonics(t *testing.T) {
	s, _ := NewSquare(44100)
	s.SetHarmonics(5)

	if got := s.AdjustedHarmonics(); got != 5 {
		t.Fatalf("harmonics: got %d want 5", got)
	}

	s.SetHarmonics(0)
	s.SetFrequency(441)

	if got := s.AdjustedHarmonics(); got != 50 {
		t.Fatalf("harmonics: got %d want 50", got)
	}
}

func TestPeakWithinFullScale(t *testing.T) {
	s, _ := NewSquare(44100)
	s.SetFrequency(100)

	peak := 0.0
	for i := 0; i < 441; i++ { // one period at 100 Hz
		v := math.Abs(s.Tick())
		if v > peak {
			peak = v
		}
	}

	if peak > 1.0 {
		t.Fatalf("peak %v exceeds full scale", peak)
	}

	if peak < 0.5 {
		t.Fatalf("peak %v suspiciously low", peak)
	}
}

func TestSquareSignMatchesIdealSquare(t *testing.T) {
	const sr = 44100.0
	const freq = 100.0

	s, _ := NewSquare(sr)
	s.SetFrequency(freq)

	// Sample away from the discontinuities and check the sign flips
	// where an ideal square wave flips.
	period := int(sr / freq)
	quarter := period / 4

	for i := 0; i < period; i++ {
		v := s.Tick()
		if i == quarter && v < 0 {
			t.Fatalf("first half period should be positive, got %v", v)
		}

		if i == 3*quarter && v > 0 {
			t.Fatalf("second half period should be negative, got %v", v)
		}
	}
}

func TestSquareReset(t *testing.T) {
	s, _ := NewSquare(44100)
	s.SetFrequency(220)

	first := make([]float64, 32)
	for i := range first {
		first[i] = s.Tick()
	}

	s.Reset()

	for i := range first {
		if got := s.Tick(); got != first[i] {
			t.Fatalf("sample %d: got %v want %v after reset", i, got, first[i])
		}
	}
}

func BenchmarkSquareTick(b *testing.B) {
	s, _ := NewSquare(44100)
	s.SetFrequency(100)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.Tick()
	}
}
