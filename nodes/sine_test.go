package nodes

import (
	"math"
	"math/cmplx"
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-audiograph/graph"
)

func TestSineToFinalOutput(t *testing.T) {
	const sr = 44100.0
	const blockSize = 1024
	const freq = 441.0

	s := newTestServer(t, sr, blockSize)

	n, err := NewSine(s)
	require.NoError(t, err)
	require.NoError(t, n.SetFloat(PropOscillatorFrequency, freq))
	require.NoError(t, n.ConnectServer(0))

	out := make([]float64, blockSize*2)
	require.NoError(t, s.ProduceBlock(out))

	// First sample is sin(0) through the 1->2 matrix.
	require.InDelta(t, 0.0, out[0], 1e-9)
	require.InDelta(t, 0.0, out[1], 1e-9)

	want := math.Sin(2*math.Pi*freq*100/sr) * 0.7071
	require.InDelta(t, want, out[100*2], 1e-9)
	require.InDelta(t, want, out[100*2+1], 1e-9)

	// Equal on both channels everywhere.
	for i := 0; i < blockSize; i++ {
		require.Equal(t, out[i*2], out[i*2+1])
	}
}

func TestSineSpectralPeak(t *testing.T) {
	const sr = 44100.0
	const blockSize = 1024
	const blocks = 8
	const freq = 441.0

	s := newTestServer(t, sr, blockSize)

	n, err := NewSine(s)
	require.NoError(t, err)
	require.NoError(t, n.SetFloat(PropOscillatorFrequency, freq))
	require.NoError(t, n.ConnectServer(0))

	left := produceBlocks(t, s, blocks)

	fftSize := blockSize * blocks
	in := make([]complex128, fftSize)

	for i, v := range left {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	require.NoError(t, err)

	spectrum := make([]complex128, fftSize)
	require.NoError(t, plan.Forward(spectrum, in))

	peakBin := 0
	peakMag := 0.0

	for i := 1; i < fftSize/2; i++ {
		if m := cmplx.Abs(spectrum[i]); m > peakMag {
			peakMag = m
			peakBin = i
		}
	}

	wantBin := int(math.Round(freq / sr * float64(fftSize)))
	require.InDelta(t, wantBin, peakBin, 1)
}

func TestSineFrequencyModulation(t *testing.T) {
	const sr = 44100.0
	const blockSize = 256

	s := newTestServer(t, sr, blockSize)

	carrier, err := NewSine(s)
	require.NoError(t, err)

	mod, err := NewSine(s)
	require.NoError(t, err)
	require.NoError(t, mod.SetFloat(PropOscillatorFrequency, 5))
	// The modulator output is added to the carrier FREQUENCY scalar.
	require.NoError(t, mod.SetFloat(graph.PropMul, 100))

	require.NoError(t, carrier.SetFloat(PropOscillatorFrequency, 1000))
	require.NoError(t, mod.ConnectProperty(0, carrier, PropOscillatorFrequency))
	require.NoError(t, carrier.ConnectServer(0))

	p, err := carrier.Property(PropOscillatorFrequency)
	require.NoError(t, err)

	left := produceBlocks(t, s, 2)
	require.True(t, p.NeedsARate())

	// Output must stay a bounded, nonconstant signal.
	var max float64
	for _, v := range left {
		if a := math.Abs(v); a > max {
			max = a
		}
	}

	require.Greater(t, max, 0.5)
	require.LessOrEqual(t, max, 1.0)
}

func TestSinePhaseWriteOffsetsOscillator(t *testing.T) {
	const sr = 44100.0

	s := newTestServer(t, sr, 128)

	n, err := NewSine(s)
	require.NoError(t, err)
	require.NoError(t, n.SetFloat(PropOscillatorFrequency, 100))
	require.NoError(t, n.SetFloat(PropOscillatorPhase, 0.25))
	require.NoError(t, n.ConnectServer(0))

	out := make([]float64, 128*2)
	require.NoError(t, s.ProduceBlock(out))

	// Phase 0.25 cycles starts at sin(pi/2) = 1 before the 1->2 matrix.
	require.InDelta(t, 0.7071, out[0], 1e-9)
}

func TestSineResetRephases(t *testing.T) {
	s := newTestServer(t, 44100, 256)

	n, err := NewSine(s)
	require.NoError(t, err)
	require.NoError(t, n.ConnectServer(0))

	first := produceBlocks(t, s, 2)

	s.Reset(n)

	second := produceBlocks(t, s, 2)
	require.Equal(t, first, second)

	// Reset twice behaves like reset once.
	s.Reset(n)
	s.Reset(n)

	third := produceBlocks(t, s, 2)
	require.Equal(t, first, third)
}

func TestPausedSineIsSilent(t *testing.T) {
	s := newTestServer(t, 44100, 128)

	n, err := NewSine(s)
	require.NoError(t, err)
	require.NoError(t, n.ConnectServer(0))
	require.NoError(t, n.SetState(graph.StatePaused))

	left := produceBlocks(t, s, 2)
	for i, v := range left {
		require.Equal(t, 0.0, v, "sample %d", i)
	}
}
