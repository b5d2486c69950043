package graph

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(0, 1024)
	require.Error(t, err)

	_, err = NewServer(44100, 0)
	require.Error(t, err)
}

func TestServerDefaults(t *testing.T) {
	s, err := NewServer(48000, 256)
	require.NoError(t, err)
	require.Equal(t, 48000.0, s.SampleRate())
	require.Equal(t, 256, s.BlockSize())
	require.Equal(t, 2, s.OutputChannels())
	require.Equal(t, uint64(0), s.TickCount())
}

func TestOptions(t *testing.T) {
	log := logrus.New()

	s, err := NewServer(48000, 256, WithOutputChannels(6), WithLogger(log))
	require.NoError(t, err)
	require.Equal(t, 6, s.OutputChannels())
	require.Same(t, log, s.log)
}

func TestProduceBlockAdvancesTick(t *testing.T) {
	s := newTestServer(t)

	out := make([]float64, s.BlockSize()*s.OutputChannels())
	require.NoError(t, s.ProduceBlock(out))
	require.Equal(t, uint64(1), s.TickCount())
	require.NoError(t, s.ProduceBlock(out))
	require.Equal(t, uint64(2), s.TickCount())
}

func TestProduceBlockChecksLength(t *testing.T) {
	s := newTestServer(t)

	require.ErrorIs(t, s.ProduceBlock(make([]float64, 3)), ErrRange)
}

func TestProduceBlockSilentWithoutSources(t *testing.T) {
	s := newTestServer(t)

	out := produce(s)
	for _, v := range out {
		require.Equal(t, 0.0, v)
	}
}

func TestProduceBlockInterleaves(t *testing.T) {
	s := newTestServer(t)
	left := newConstNode(s, 0.25, 2)

	// Make the channels distinguishable: channel 0 gets an extra source.
	mono := newConstNode(s, 0.5, 1)
	sink := newSinkNode(s, 2)
	require.NoError(t, sink.SetInt(PropChannelInterpretation, int(InterpretationDiscrete)))
	require.NoError(t, left.Connect(0, sink, 0))
	require.NoError(t, mono.Connect(0, sink, 0))
	require.NoError(t, sink.ConnectServer(0))

	out := produce(s)

	for i := 0; i < s.BlockSize(); i++ {
		require.InDelta(t, 0.75, out[i*2], 1e-12, "left sample %d", i)
		require.InDelta(t, 0.25, out[i*2+1], 1e-12, "right sample %d", i)
	}
}

func TestSetOutputDeviceRewiresFinalOutput(t *testing.T) {
	s := newTestServer(t)
	src := newConstNode(s, 1.0, 1)
	require.NoError(t, src.ConnectServer(0))

	require.NoError(t, s.SetOutputDevice("default", 1, 2))
	require.Equal(t, 1, s.OutputChannels())
	// The existing connection survives the device change.
	require.Equal(t, 1, s.FinalConnectionFanIn())

	out := make([]float64, s.BlockSize())
	require.NoError(t, s.ProduceBlock(out))
	require.Equal(t, 1.0, out[0])

	require.Error(t, s.SetOutputDevice("default", 0, 2))
}

func TestNodeRegistry(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, 0, s.NodeCount())

	a := newConstNode(s, 1.0, 1)
	_ = newSinkNode(s, 1)
	require.Equal(t, 2, s.NodeCount())

	a.Close()
	require.Equal(t, 1, s.NodeCount())

	// Close is idempotent.
	a.Close()
	require.Equal(t, 1, s.NodeCount())
}

func TestShutdownDetachesEverything(t *testing.T) {
	s := newTestServer(t)
	src := newConstNode(s, 1.0, 2)
	dst := newSinkNode(s, 2)

	require.NoError(t, src.Connect(0, dst, 0))
	require.NoError(t, dst.ConnectServer(0))

	s.Shutdown()

	require.Equal(t, 0, s.NodeCount())
	require.Equal(t, 0, s.FinalConnectionFanIn())

	out := produce(s)
	for _, v := range out {
		require.Equal(t, 0.0, v)
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	render := func() []float64 {
		s := newTestServer(t)
		src := newRampSource(s)
		require.NoError(t, src.SetFloat(PropMul, 0.25))
		require.NoError(t, src.ConnectServer(0))

		var all []float64
		for i := 0; i < 4; i++ {
			all = append(all, produce(s)...)
		}

		return all
	}

	a := render()
	b := render()
	require.Equal(t, a, b)
}
