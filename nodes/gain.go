package nodes

import (
	"fmt"

	"github.com/cwbudde/algo-audiograph/graph"
)

// Gain passes its input through unchanged; the base MUL/ADD post-pass
// does the actual gain staging. Useful as a summing bus and as a
// subgraph's input or output member.
type Gain struct {
	*graph.Base
}

// NewGain returns a channels-wide pass-through node registered with
// server.
func NewGain(server *graph.Server, channels int) (*Gain, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("nodes: gain channels must be > 0: %d", channels)
	}

	n := &Gain{Base: graph.NewBase(server, KindGain, channels, channels)}
	n.SetOwner(n)
	n.AppendInputConnection(0, channels)
	n.AppendOutputConnection(0, channels)
	n.SetShouldZeroOutputBuffers(false)

	return n, nil
}

// Process copies the accumulated inputs to the outputs.
func (n *Gain) Process() {
	in := n.InputBuffers()
	out := n.Base.OutputBuffers()

	for i := range out {
		copy(out[i], in[i])
	}
}
