// Package osc provides phase-accumulator oscillators.
package osc

import (
	"fmt"
	"math"
)

// Sine is a sinusoidal oscillator. Phase is kept in cycles, in [0, 1).
type Sine struct {
	sampleRate     float64
	phase          float64
	phaseIncrement float64
	frequency      float64
}

// NewSine returns a sine oscillator for the given sample rate.
func NewSine(sampleRate float64) (*Sine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("osc: sample rate must be > 0: %f", sampleRate)
	}

	s := &Sine{sampleRate: sampleRate}
	s.SetFrequency(440)

	return s, nil
}

// Tick returns the current sample and advances the phase by one sample.
func (s *Sine) Tick() float64 {
	out := math.Sin(2 * math.Pi * s.phase)
	s.phase += s.phaseIncrement
	if s.phase >= 1 {
		s.phase -= 1
	}

	return out
}

// FillBuffer writes len(buf) consecutive samples into buf.
func (s *Sine) FillBuffer(buf []float64) {
	for i := range buf {
		buf[i] = s.Tick()
	}
}

// SkipSamples advances the oscillator by n samples without producing output.
func (s *Sine) SkipSamples(n int) {
	s.phase += float64(n) * s.phaseIncrement
	s.phase -= math.Floor(s.phase)
}

// SetFrequency sets the oscillator frequency in Hz.
func (s *Sine) SetFrequency(frequency float64) {
	s.frequency = frequency
	s.phaseIncrement = frequency / s.sampleRate
}

// Frequency returns the oscillator frequency in Hz.
func (s *Sine) Frequency() float64 { return s.frequency }

// SetPhase sets the phase in cycles; values outside [0,1) are wrapped.
func (s *Sine) SetPhase(phase float64) {
	s.phase = phase - math.Floor(phase)
}

// Phase returns the current phase in cycles.
func (s *Sine) Phase() float64 { return s.phase }

// Normalize wraps the accumulated phase back into [0, 1), bounding
// floating-point drift on long-running oscillators.
func (s *Sine) Normalize() {
	s.phase -= math.Floor(s.phase)
}

// Reset returns the phase to zero.
func (s *Sine) Reset() {
	s.phase = 0
}
