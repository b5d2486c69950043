package nodes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSquareAutoHarmonics(t *testing.T) {
	const sr = 44100.0

	s := newTestServer(t, sr, 512)

	n, err := NewSquare(s)
	require.NoError(t, err)
	require.NoError(t, n.SetFloat(PropOscillatorFrequency, 100))
	require.NoError(t, n.ConnectServer(0))

	// One 512-sample block, longer than one period at 100 Hz.
	left := produceBlocks(t, s, 1)

	require.Equal(t, 220, n.osc.AdjustedHarmonics())

	peak := 0.0
	for _, v := range left {
		// Undo the 1->2 matrix gain before checking full scale.
		if a := math.Abs(v) / 0.7071; a > peak {
			peak = a
		}
	}

	require.LessOrEqual(t, peak, 1.0)
	require.Greater(t, peak, 0.5)
}

func TestSquareExplicitHarmonics(t *testing.T) {
	s := newTestServer(t, 44100, 128)

	n, err := NewSquare(s)
	require.NoError(t, err)
	require.NoError(t, n.SetInt(PropSquareHarmonics, 1))
	require.NoError(t, n.SetFloat(PropOscillatorFrequency, 441))
	require.NoError(t, n.ConnectServer(0))

	left := produceBlocks(t, s, 1)

	// With one harmonic the output is a scaled sine.
	scale := (4.0 / math.Pi) * (1.0 / (1.0 + 2.0*0.08948987223608362)) * (1.0 / 1.08013)
	for i := 0; i < 64; i++ {
		want := math.Sin(2*math.Pi*441*float64(i)/44100) * scale * 0.7071
		require.InDelta(t, want, left[i], 1e-9, "sample %d", i)
	}
}

func TestSquareReset(t *testing.T) {
	s := newTestServer(t, 44100, 256)

	n, err := NewSquare(s)
	require.NoError(t, err)
	require.NoError(t, n.SetFloat(PropOscillatorFrequency, 220))
	require.NoError(t, n.ConnectServer(0))

	first := produceBlocks(t, s, 2)

	s.Reset(n)

	second := produceBlocks(t, s, 2)
	require.Equal(t, first, second)
}
