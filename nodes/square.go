package nodes

import (
	"github.com/cwbudde/algo-audiograph/dsp/osc"
	"github.com/cwbudde/algo-audiograph/graph"
)

// Square is an additive square-wave source: no inputs, one mono output.
// HARMONICS of zero picks floor((sr/2)/FREQUENCY) odd harmonics; the
// upper ones of that count lie above Nyquist.
type Square struct {
	*graph.Base

	osc *osc.Square

	frequency *graph.Property
	phase     *graph.Property
	harmonics *graph.Property
}

// NewSquare returns an additive square node registered with server.
func NewSquare(server *graph.Server) (*Square, error) {
	o, err := osc.NewSquare(server.SampleRate())
	if err != nil {
		return nil, err
	}

	n := &Square{Base: graph.NewBase(server, KindSquare, 0, 1), osc: o}
	n.SetOwner(n)
	n.AppendOutputConnection(0, 1)
	n.SetShouldZeroOutputBuffers(false)

	n.frequency = n.MustProperty(PropOscillatorFrequency)
	n.phase = n.MustProperty(PropOscillatorPhase)
	n.harmonics = n.MustProperty(PropSquareHarmonics)

	o.SetFrequency(n.frequency.FloatValue())

	return n, nil
}

// Process renders one block of the harmonic bank.
func (n *Square) Process() {
	if n.WereModified(PropSquareHarmonics) {
		n.osc.SetHarmonics(n.harmonics.IntValue())
	}

	if n.WereModified(PropOscillatorFrequency) {
		n.osc.SetFrequency(n.frequency.FloatValue())
	}

	if n.WereModified(PropOscillatorPhase) {
		n.osc.SetPhase(n.phase.FloatValue())
	}

	out := n.Base.OutputBuffers()[0]
	for i := range out {
		out[i] = n.osc.Tick()
	}
}

// Reset rephases the harmonic bank to the PHASE property.
func (n *Square) Reset() {
	n.osc.Reset()
	n.osc.SetPhase(n.phase.FloatValue())
}
