package osc

import (
	"fmt"
	"math"
)

// wilbrahamGibbs is the relative overshoot of a truncated Fourier square
// wave at a jump discontinuity.
const wilbrahamGibbs = 0.08948987223608362

// squareNormalization keeps the harmonic sum just inside [-1, 1]. The
// 4/pi factor comes from the Fourier series of a square wave; the
// remaining terms compensate the Gibbs overshoot, with the final constant
// trimming the residual so the peak lands slightly under full scale.
const squareNormalization = (4.0 / math.Pi) * (1.0 / (1.0 + 2.0*wilbrahamGibbs)) * (1.0 / 1.08013)

// Square is an additive square wave: the sum of odd-harmonic sines.
// A harmonic count of zero selects floor((sampleRate/2)/frequency)
// harmonics; partial i sits at (2i+1) times the fundamental, so the upper
// partials of that count lie above Nyquist.
type Square struct {
	sampleRate        float64
	frequency         float64
	harmonics         int
	adjustedHarmonics int
	oscillators       []Sine
}

// NewSquare returns an additive square oscillator for the given sample rate.
func NewSquare(sampleRate float64) (*Square, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("osc: sample rate must be > 0: %f", sampleRate)
	}

	s := &Square{sampleRate: sampleRate, frequency: 100}
	s.readjustHarmonics()

	return s, nil
}

// Tick returns the current sample and advances all harmonics by one sample.
func (s *Square) Tick() float64 {
	sum := 0.0
	for i := range s.oscillators[:s.adjustedHarmonics] {
		sum += s.oscillators[i].Tick() / float64(2*(i+1)-1)
	}

	return sum * squareNormalization
}

// SetFrequency sets the fundamental frequency in Hz and retunes the bank.
func (s *Square) SetFrequency(frequency float64) {
	s.frequency = frequency
	s.readjustHarmonics()

	for i := range s.oscillators[:s.adjustedHarmonics] {
		s.oscillators[i].SetFrequency(frequency * float64(2*(i+1)-1))
	}
}

// Frequency returns the fundamental frequency in Hz.
func (s *Square) Frequency() float64 { return s.frequency }

// SetPhase sets the fundamental phase in cycles; harmonic i is phased at
// (2i+1) times the fundamental so the partials stay aligned.
func (s *Square) SetPhase(phase float64) {
	for i := range s.oscillators[:s.adjustedHarmonics] {
		s.oscillators[i].SetPhase(phase * float64(2*(i+1)-1))
	}
}

// Phase returns the fundamental phase in cycles.
func (s *Square) Phase() float64 {
	if s.adjustedHarmonics == 0 {
		return 0
	}

	return s.oscillators[0].Phase()
}

// SetHarmonics sets an explicit harmonic count; zero selects the
// automatic count described on Square.
func (s *Square) SetHarmonics(harmonics int) {
	s.harmonics = harmonics
	s.readjustHarmonics()
}

// Harmonics returns the configured harmonic count (zero means automatic).
func (s *Square) Harmonics() int { return s.harmonics }

// AdjustedHarmonics returns the harmonic count currently in use.
func (s *Square) AdjustedHarmonics() int { return s.adjustedHarmonics }

// Reset rephases every harmonic to zero.
func (s *Square) Reset() {
	for i := range s.oscillators {
		s.oscillators[i].Reset()
	}
}

func (s *Square) readjustHarmonics() {
	newHarmonics := s.harmonics
	if newHarmonics == 0 {
		// Number of multiples of the fundamental between 0 and Nyquist;
		// the odd partials built from it reach about twice Nyquist.
		newHarmonics = int((s.sampleRate / 2) / s.frequency)
		if newHarmonics == 0 {
			newHarmonics = 1
		}
	}

	phase := s.Phase()
	for len(s.oscillators) < newHarmonics {
		o, _ := NewSine(s.sampleRate)
		s.oscillators = append(s.oscillators, *o)
	}

	for i := s.adjustedHarmonics; i < newHarmonics; i++ {
		s.oscillators[i].SetFrequency(s.frequency * float64(2*(i+1)-1))
		s.oscillators[i].SetPhase(phase * float64(2*(i+1)-1))
	}

	s.adjustedHarmonics = newHarmonics
}
