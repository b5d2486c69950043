package graph

// Test node kinds: a constant source and a pass-through sink, enough to
// exercise scheduling, connections and properties without real DSP.

type constNode struct {
	*Base

	value     float64
	processed int
}

func newConstNode(s *Server, value float64, channels int) *constNode {
	n := &constNode{Base: NewBase(s, KindGeneric, 0, channels), value: value}
	n.SetOwner(n)
	n.AppendOutputConnection(0, channels)

	return n
}

func (n *constNode) Process() {
	n.processed++

	for _, out := range n.Base.OutputBuffers() {
		for i := range out {
			out[i] = n.value
		}
	}
}

type sinkNode struct {
	*Base

	processed int
}

func newSinkNode(s *Server, channels int) *sinkNode {
	n := &sinkNode{Base: NewBase(s, KindGeneric, channels, channels)}
	n.SetOwner(n)
	n.AppendInputConnection(0, channels)
	n.AppendOutputConnection(0, channels)

	return n
}

func (n *sinkNode) Process() {
	n.processed++

	in := n.InputBuffers()
	out := n.Base.OutputBuffers()

	for i := range out {
		copy(out[i], in[i])
	}
}

// rampSource emits a per-block ramp so tests can locate samples in time.
type rampSource struct {
	*Base

	next float64
}

func newRampSource(s *Server) *rampSource {
	n := &rampSource{Base: NewBase(s, KindGeneric, 0, 1)}
	n.SetOwner(n)
	n.AppendOutputConnection(0, 1)

	return n
}

func (n *rampSource) Process() {
	out := n.Base.OutputBuffers()[0]
	for i := range out {
		out[i] = n.next
		n.next++
	}
}

func produce(s *Server) []float64 {
	out := make([]float64, s.BlockSize()*s.OutputChannels())
	if err := s.ProduceBlock(out); err != nil {
		panic(err)
	}

	return out
}
