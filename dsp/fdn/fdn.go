// Package fdn implements a feedback delay network over interpolated delay
// lines, the diffuse-reverberation core.
package fdn

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-audiograph/dsp/delay"
)

// Network is an order-N feedback delay network. Each sample the caller
// reads the output frame, optionally filters it, and hands the processed
// frame back to Advance together with the next input frame. The network
// multiplies the processed frame by the mixing matrix and writes
// input[i] + feedback[i] into line i.
type Network struct {
	order      int
	sampleRate float64
	lines      []*delay.Interpolated
	matrix     []float64 // row-major order*order
	feedback   []float64
}

// New returns an order-N network whose lines hold up to maxDelay seconds.
// The mixing matrix defaults to the normalized Hadamard.
func New(order int, maxDelay, sampleRate float64) (*Network, error) {
	if order <= 0 {
		return nil, fmt.Errorf("fdn: order must be > 0: %d", order)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("fdn: sample rate must be > 0: %f", sampleRate)
	}

	n := &Network{
		order:      order,
		sampleRate: sampleRate,
		lines:      make([]*delay.Interpolated, order),
		feedback:   make([]float64, order),
	}

	for i := range n.lines {
		line, err := delay.NewInterpolated(maxDelay, sampleRate)
		if err != nil {
			return nil, err
		}

		n.lines[i] = line
	}

	h, err := Hadamard(order)
	if err != nil {
		return nil, fmt.Errorf("fdn: %w", err)
	}

	n.matrix = h

	return n, nil
}

// Order returns the line count.
func (n *Network) Order() int { return n.order }

// SetDelays sets all line target delays, in seconds. len(delays) must be
// the network order.
func (n *Network) SetDelays(delays []float64) error {
	if len(delays) != n.order {
		return fmt.Errorf("fdn: need %d delays, got %d", n.order, len(delays))
	}

	for i, d := range delays {
		n.lines[i].SetDelay(d)
	}

	return nil
}

// SetDelay sets line i's target delay in seconds.
func (n *Network) SetDelay(i int, seconds float64) error {
	if i < 0 || i >= n.order {
		return fmt.Errorf("fdn: line index out of range: %d", i)
	}

	n.lines[i].SetDelay(seconds)

	return nil
}

// SetInterpolationDelta sets the crossfade step on every line.
func (n *Network) SetInterpolationDelta(delta float64) {
	for _, line := range n.lines {
		line.SetInterpolationDelta(delta)
	}
}

// SetMatrix replaces the mixing matrix (row-major, order*order values).
// Gain scaling is the caller's to fold in.
func (n *Network) SetMatrix(matrix []float64) error {
	if len(matrix) != n.order*n.order {
		return fmt.Errorf("fdn: need %d matrix values, got %d", n.order*n.order, len(matrix))
	}

	if n.matrix == nil || len(n.matrix) != len(matrix) {
		n.matrix = make([]float64, len(matrix))
	}

	copy(n.matrix, matrix)

	return nil
}

// ComputeFrame reads every line's current output into dst.
func (n *Network) ComputeFrame(dst []float64) {
	for i, line := range n.lines {
		dst[i] = line.Read()
	}
}

// Advance mixes the processed frame through the matrix and writes
// input[i] + feedback[i] into line i.
func (n *Network) Advance(input, processed []float64) {
	for i := 0; i < n.order; i++ {
		sum := 0.0

		row := n.matrix[i*n.order : (i+1)*n.order]
		for j, m := range row {
			sum += m * processed[j]
		}

		n.feedback[i] = sum
	}

	for i, line := range n.lines {
		line.Advance(input[i] + n.feedback[i])
	}
}

// Reset zeroes all line contents.
func (n *Network) Reset() {
	for _, line := range n.lines {
		line.Reset()
	}
}
