package nodes

import (
	"github.com/cwbudde/algo-audiograph/dsp/osc"
	"github.com/cwbudde/algo-audiograph/graph"
)

// Sine is a sinusoidal signal source: no inputs, one mono output.
// FREQUENCY and FREQUENCY_MULTIPLIER multiply and may both be modulated
// at audio rate; PHASE writes offset the oscillator phase.
type Sine struct {
	*graph.Base

	osc *osc.Sine

	frequency  *graph.Property
	multiplier *graph.Property
	phase      *graph.Property
}

// NewSine returns a sine node registered with server.
func NewSine(server *graph.Server) (*Sine, error) {
	o, err := osc.NewSine(server.SampleRate())
	if err != nil {
		return nil, err
	}

	n := &Sine{Base: graph.NewBase(server, KindSine, 0, 1), osc: o}
	n.SetOwner(n)
	n.AppendOutputConnection(0, 1)
	// Process writes every output sample.
	n.SetShouldZeroOutputBuffers(false)

	n.frequency = n.MustProperty(PropOscillatorFrequency)
	n.multiplier = n.MustProperty(PropOscillatorFrequencyMultiplier)
	n.phase = n.MustProperty(PropOscillatorPhase)

	o.SetFrequency(n.frequency.FloatValue())

	return n, nil
}

// Process renders one block of the oscillator.
func (n *Sine) Process() {
	if n.WereModified(PropOscillatorPhase) {
		n.osc.SetPhase(n.osc.Phase() + n.phase.FloatValue())
	}

	out := n.Base.OutputBuffers()[0]

	if n.frequency.NeedsARate() || n.multiplier.NeedsARate() {
		for i := range out {
			n.osc.SetFrequency(n.frequency.FloatValueAt(i) * n.multiplier.FloatValueAt(i))
			out[i] = n.osc.Tick()
		}

		return
	}

	n.osc.SetFrequency(n.frequency.FloatValue() * n.multiplier.FloatValue())
	n.osc.FillBuffer(out)
}

// Reset rephases the oscillator to the PHASE property.
func (n *Sine) Reset() {
	n.osc.Reset()
	n.osc.SetPhase(n.phase.FloatValue())
}
