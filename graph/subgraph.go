package graph

import (
	"github.com/cwbudde/algo-audiograph/dsp/core"
)

// SubgraphNode composes a sub-DAG but presents as a single node. Input
// connections are delegated to the designated input node and output
// buffers are borrowed from the designated output node; the subgraph's
// own MUL and ADD are layered on top of whatever gain staging the inner
// graph does.
type SubgraphNode struct {
	*Base

	inputNode  Node
	outputNode Node
}

// NewSubgraph returns an empty subgraph wrapper.
func NewSubgraph(server *Server) *SubgraphNode {
	n := &SubgraphNode{Base: NewBase(server, KindSubgraph, 0, 0)}
	n.SetOwner(n)

	return n
}

// SetInputNode designates the inner node that supplies input endpoints.
func (n *SubgraphNode) SetInputNode(inner Node) {
	n.Server().mu.Lock()
	defer n.Server().mu.Unlock()

	n.inputNode = inner
}

// SetOutputNode designates the inner node whose output buffers the
// subgraph exposes. The inner node must fully rewrite its outputs on
// every Process: the subgraph applies MUL/ADD to the borrowed buffers
// once per tick, so stale content would be re-scaled.
func (n *SubgraphNode) SetOutputNode(inner Node) {
	n.Server().mu.Lock()
	defer n.Server().mu.Unlock()

	n.outputNode = inner
}

// InputConnectionCount delegates to the inner input node.
func (n *SubgraphNode) InputConnectionCount() int {
	if n.inputNode == nil {
		return 0
	}

	return n.inputNode.InputConnectionCount()
}

// InputConnection delegates to the inner input node.
func (n *SubgraphNode) InputConnection(which int) (*InputConnection, error) {
	if n.inputNode == nil {
		return nil, ErrRange
	}

	return n.inputNode.InputConnection(which)
}

// OutputBufferCount delegates to the inner output node.
func (n *SubgraphNode) OutputBufferCount() int {
	if n.outputNode == nil {
		return 0
	}

	return n.outputNode.OutputBufferCount()
}

// OutputBuffers delegates to the inner output node.
func (n *SubgraphNode) OutputBuffers() [][]float64 {
	if n.outputNode == nil {
		return nil
	}

	return n.outputNode.OutputBuffers()
}

// Dependencies reports the nodes feeding the delegated input endpoints,
// any property modulators, and the inner output node the tick pulls.
func (n *SubgraphNode) Dependencies() []Node {
	seen := map[Node]struct{}{}

	var deps []Node

	collect := func(nodes ...Node) {
		for _, d := range nodes {
			if d == nil {
				continue
			}

			if _, ok := seen[d]; ok {
				continue
			}

			seen[d] = struct{}{}
			deps = append(deps, d)
		}
	}

	for i := 0; i < n.InputConnectionCount(); i++ {
		in, err := n.InputConnection(i)
		if err != nil {
			continue
		}

		collect(in.connectedNodes()...)
	}

	for _, p := range n.properties {
		if p.modInput != nil {
			collect(p.modInput.connectedNodes()...)
		}
	}

	collect(n.outputNode)

	return deps
}

// Tick mirrors the base discipline but never zeroes or sums local
// buffers: it ticks the inner output node, then applies the subgraph's
// MUL/ADD to the borrowed buffers.
func (n *SubgraphNode) Tick() {
	if n.lastProcessed == n.server.tickCount {
		return
	}

	n.lastProcessed = n.server.tickCount

	if n.State() == StatePaused {
		for _, out := range n.OutputBuffers() {
			core.Zero(out)
		}

		return
	}

	n.tickProperties()

	if n.outputNode == nil {
		return
	}

	n.outputNode.Tick()
	n.applyMulAdd(n.OutputBuffers())
}
