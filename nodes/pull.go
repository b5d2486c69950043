package nodes

import (
	"fmt"

	"github.com/cwbudde/algo-audiograph/dsp/core"
	"github.com/cwbudde/algo-audiograph/dsp/resample"
	"github.com/cwbudde/algo-audiograph/graph"
)

// PullCallback supplies interleaved audio at the pull node's external
// sample rate. It must fill all frames*channels values of buf; it runs
// on the audio thread under the server lock and must return promptly.
type PullCallback func(frames, channels int, buf []float64)

// Pull is an output-only node fed by a user callback at an external
// sample rate. Callback audio is resampled to the engine rate and
// deinterleaved into the node's outputs. Without a callback it is silent.
type Pull struct {
	*graph.Base

	channels int
	stream   *resample.Stream

	incoming  []float64
	resampled []float64
	callback  PullCallback
}

// NewPull returns a pull node converting from inputRate to the server
// rate, with the given channel count.
func NewPull(server *graph.Server, inputRate float64, channels int) (*Pull, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("nodes: pull channels must be > 0: %d", channels)
	}

	stream, err := resample.NewStream(channels, inputRate, server.SampleRate())
	if err != nil {
		return nil, err
	}

	n := &Pull{
		Base:      graph.NewBase(server, KindPull, 0, channels),
		channels:  channels,
		stream:    stream,
		incoming:  make([]float64, server.BlockSize()*channels),
		resampled: make([]float64, server.BlockSize()*channels),
	}
	n.SetOwner(n)
	n.AppendOutputConnection(0, channels)
	n.SetShouldZeroOutputBuffers(false)

	return n, nil
}

// SetCallback installs (or, with nil, removes) the audio callback.
func (n *Pull) SetCallback(cb PullCallback) {
	n.Server().WithLock(func() {
		n.callback = cb
	})
}

// Process pulls callback audio through the resampler until one full
// engine block is available, then deinterleaves it into the outputs.
func (n *Pull) Process() {
	blockSize := n.BlockSize()

	got := 0
	for got < blockSize {
		got += n.stream.Write(n.resampled[got*n.channels:], blockSize-got)
		if got >= blockSize {
			break
		}

		if n.callback != nil {
			n.callback(blockSize, n.channels, n.incoming)
		} else {
			core.Zero(n.incoming)
		}

		if err := n.stream.Read(n.incoming); err != nil {
			// The buffer is always whole frames; a failure here is a bug.
			panic(err)
		}
	}

	core.Deinterleave(n.Base.OutputBuffers(), n.resampled, blockSize)
}

// Reset drops any audio queued in the resampler.
func (n *Pull) Reset() {
	n.stream.Reset()
}
