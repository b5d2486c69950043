package delay

import (
	"fmt"
	"math"
)

// Interpolated is a circular delay line whose read position crossfades
// between the current delay and a target delay. Changing the delay does
// not click: reads blend line[delay] and line[target] with linear weights
// advanced once per written sample until the target takes over.
type Interpolated struct {
	line       []float64
	writeHead  int
	sampleRate float64

	delay  int
	target int

	w1, w2        float64
	interpolating bool
	delta         float64
}

// NewInterpolated returns a line able to hold maxDelay seconds.
func NewInterpolated(maxDelay, sampleRate float64) (*Interpolated, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay: sample rate must be > 0: %f", sampleRate)
	}

	if maxDelay <= 0 || math.IsNaN(maxDelay) || math.IsInf(maxDelay, 0) {
		return nil, fmt.Errorf("delay: max delay must be > 0: %f", maxDelay)
	}

	size := int(math.Ceil(sampleRate*maxDelay)) + 1

	return &Interpolated{
		line:       make([]float64, size),
		writeHead:  size - 1,
		sampleRate: sampleRate,
		delay:      1,
		target:     1,
		w1:         1,
		delta:      1,
	}, nil
}

// SetDelay sets the target delay in seconds and begins crossfading.
func (d *Interpolated) SetDelay(seconds float64) {
	d.SetDelaySamples(int(math.Round(seconds * d.sampleRate)))
}

// SetDelaySamples sets the target delay in whole samples and begins
// crossfading. The target is clamped to [1, len-1].
func (d *Interpolated) SetDelaySamples(samples int) {
	if samples < 1 {
		samples = 1
	}

	if samples > len(d.line)-1 {
		samples = len(d.line) - 1
	}

	if !d.interpolating && samples == d.delay {
		return
	}
	// The weights are left alone: if a crossfade is already running,
	// restarting it would move the read position backwards.
	d.target = samples
	d.interpolating = true
}

// SetInterpolationDelta sets the per-sample crossfade step. A delta of 1
// makes delay changes take effect on the next sample.
func (d *Interpolated) SetInterpolationDelta(delta float64) {
	if delta > 0 {
		d.delta = delta
	}
}

// Delay returns the current read delay in samples.
func (d *Interpolated) Delay() int { return d.delay }

// MaxDelaySamples returns the largest settable delay in samples.
func (d *Interpolated) MaxDelaySamples() int { return len(d.line) - 1 }

// Read returns the interpolated sample for the current block position.
// During a crossfade this is w1*line[delay] + w2*line[target].
func (d *Interpolated) Read() float64 {
	out := d.w1 * d.at(d.delay)
	if d.interpolating {
		out += d.w2 * d.at(d.target)
	}

	return out
}

// Advance writes the next input sample and steps the crossfade weights.
// Once the target weight reaches one the line snaps to the target delay.
func (d *Interpolated) Advance(sample float64) {
	d.writeHead++
	if d.writeHead >= len(d.line) {
		d.writeHead = 0
	}

	d.line[d.writeHead] = sample

	if !d.interpolating {
		return
	}

	d.w1 -= d.delta
	if d.w1 < 0 {
		d.w1 = 0
	}

	d.w2 += d.delta
	if d.w2 >= 1 {
		d.w1 = 1
		d.w2 = 0
		d.delay = d.target
		d.interpolating = false
	}
}

// Tick reads the line, then writes sample. Convenience for serial chains.
func (d *Interpolated) Tick(sample float64) float64 {
	out := d.Read()
	d.Advance(sample)

	return out
}

// Reset clears the line contents and ends any crossfade at the target.
func (d *Interpolated) Reset() {
	for i := range d.line {
		d.line[i] = 0
	}

	d.writeHead = len(d.line) - 1
	if d.interpolating {
		d.delay = d.target
		d.interpolating = false
	}

	d.w1 = 1
	d.w2 = 0
}

// at returns the sample written n advances ago, where n=1 is the sample
// the upcoming Advance will shift out of "now".
func (d *Interpolated) at(n int) float64 {
	idx := d.writeHead + 1 - n
	for idx < 0 {
		idx += len(d.line)
	}

	return d.line[idx]
}
