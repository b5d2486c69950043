package nodes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-audiograph/graph"
)

// impulseNode emits a single unit sample on its first processed block,
// then silence.
type impulseNode struct {
	*graph.Base

	fired bool
}

func newImpulseNode(s *graph.Server) *impulseNode {
	n := &impulseNode{Base: graph.NewBase(s, graph.KindGeneric, 0, 1)}
	n.SetOwner(n)
	n.AppendOutputConnection(0, 1)

	return n
}

func (n *impulseNode) Process() {
	if n.fired {
		return
	}

	n.Base.OutputBuffers()[0][0] = 1
	n.fired = true
}

func (n *impulseNode) Reset() {
	n.fired = false
}

func newTestServer(t *testing.T, sampleRate float64, blockSize int) *graph.Server {
	t.Helper()

	s, err := graph.NewServer(sampleRate, blockSize)
	require.NoError(t, err)

	return s
}

// produceBlocks renders count blocks and returns the deinterleaved left
// channel.
func produceBlocks(t *testing.T, s *graph.Server, count int) []float64 {
	t.Helper()

	out := make([]float64, s.BlockSize()*s.OutputChannels())
	left := make([]float64, 0, count*s.BlockSize())

	for i := 0; i < count; i++ {
		require.NoError(t, s.ProduceBlock(out))

		for j := 0; j < s.BlockSize(); j++ {
			left = append(left, out[j*s.OutputChannels()])
		}
	}

	return left
}
