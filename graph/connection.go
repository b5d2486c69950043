package graph

import (
	"github.com/cwbudde/algo-audiograph/dsp/kernels"
)

// OutputConnection is a grouped range of a source node's output buffers
// that other endpoints connect from.
type OutputConnection struct {
	node  Node
	start int
	count int

	connected []*InputConnection
}

func newOutputConnection(node Node, start, count int) *OutputConnection {
	return &OutputConnection{node: node, start: start, count: count}
}

// Node returns the owning source node.
func (o *OutputConnection) Node() Node { return o.node }

// ChannelCount returns the grouped channel count.
func (o *OutputConnection) ChannelCount() int { return o.count }

// Clear detaches this output from every input it feeds. Idempotent.
func (o *OutputConnection) Clear() {
	for _, in := range o.connected {
		in.removeIncoming(o)
	}

	o.connected = o.connected[:0]
}

// removeConnected detaches one input endpoint. Idempotent.
func (o *OutputConnection) removeConnected(in *InputConnection) {
	for i, c := range o.connected {
		if c == in {
			o.connected = append(o.connected[:i], o.connected[i+1:]...)
			break
		}
	}
}

// buffers returns the source channel slice for this endpoint. Resolved
// through the node interface every time so subgraph nodes can delegate.
func (o *OutputConnection) buffers() [][]float64 {
	all := o.node.OutputBuffers()
	if o.start >= len(all) {
		return nil
	}

	end := o.start + o.count
	if end > len(all) {
		end = len(all)
	}

	return all[o.start:end]
}

// InputConnection is one input endpoint: a node input, a property
// modulation input, or the server's final output. Many output endpoints
// may feed it; contributions are summed after channel adaptation.
type InputConnection struct {
	node Node // destination node (a property's owner); nil for the server endpoint
	bufs [][]float64

	incoming []*OutputConnection
}

func newInputConnection(node Node, bufs [][]float64) *InputConnection {
	return &InputConnection{node: node, bufs: bufs}
}

// Node returns the destination node (for a property endpoint, the node
// owning the property), or nil for the server endpoint.
func (in *InputConnection) Node() Node { return in.node }

// ChannelCount returns the endpoint's channel count.
func (in *InputConnection) ChannelCount() int { return len(in.bufs) }

// IncomingCount returns the fan-in count.
func (in *InputConnection) IncomingCount() int { return len(in.incoming) }

// connect attaches an output endpoint to this input.
func (in *InputConnection) connect(o *OutputConnection) {
	in.incoming = append(in.incoming, o)
	o.connected = append(o.connected, in)
}

// removeIncoming detaches one output endpoint. Idempotent.
func (in *InputConnection) removeIncoming(o *OutputConnection) {
	for i, c := range in.incoming {
		if c == o {
			in.incoming = append(in.incoming[:i], in.incoming[i+1:]...)
			break
		}
	}
}

// connectedNodes returns the distinct source nodes feeding this input.
func (in *InputConnection) connectedNodes() []Node {
	seen := make(map[Node]struct{}, len(in.incoming))
	nodes := make([]Node, 0, len(in.incoming))

	for _, o := range in.incoming {
		if _, ok := seen[o.node]; ok {
			continue
		}

		seen[o.node] = struct{}{}
		nodes = append(nodes, o.node)
	}

	return nodes
}

// add ticks every source feeding this input and accumulates their
// channel-adapted contributions into the endpoint buffers.
func (in *InputConnection) add(needsMixing bool) {
	for _, o := range in.incoming {
		o.node.Tick()
		mixInto(in.bufs, o.buffers(), needsMixing)
	}
}

// mixInto accumulates src channels into dst channels. Same counts add
// channel-wise; with needsMixing and a defined matrix the S×D mixing
// matrix applies; otherwise channels are truncated or zero-extended.
func mixInto(dst, src [][]float64, needsMixing bool) {
	s := len(src)
	d := len(dst)

	if s == 0 || d == 0 {
		return
	}

	if s == d {
		for i := range src {
			kernels.Accumulate(dst[i], src[i])
		}

		return
	}

	if needsMixing {
		if m, ok := mixingMatrix(s, d); ok {
			for i := 0; i < s; i++ {
				row := m[i*d : (i+1)*d]
				for j := 0; j < d; j++ {
					if row[j] != 0 {
						kernels.AccumulateScaled(dst[j], src[i], row[j])
					}
				}
			}

			return
		}
	}

	n := s
	if d < n {
		n = d
	}

	for i := 0; i < n; i++ {
		kernels.Accumulate(dst[i], src[i])
	}
}
