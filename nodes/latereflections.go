package nodes

import (
	"math"

	"github.com/cwbudde/algo-audiograph/dsp/core"
	"github.com/cwbudde/algo-audiograph/dsp/delay"
	"github.com/cwbudde/algo-audiograph/dsp/fdn"
	"github.com/cwbudde/algo-audiograph/dsp/filter/biquad"
	"github.com/cwbudde/algo-audiograph/dsp/kernels"
	"github.com/cwbudde/algo-audiograph/dsp/osc"
	"github.com/cwbudde/algo-audiograph/graph"
)

// The late-reflections network is an order-16 FDN with two high-shelf
// stages in the feedback path:
//
//	fdn -> high highshelf -> mid highshelf -> modulatable allpasses -> fdn
//
// Per-line gains realize the low band's t60; the two shelves shape the
// mid and high bands relative to it. Delay lengths are powers of coprime
// integers so the lines never phase-lock, and the gains are baked into
// the feedback matrix.
const lateOrder = 16

// lateCoprimes are the bases for the delay-length approximation.
var lateCoprimes = [lateOrder]int{
	3, 4, 5, 7,
	9, 11, 13, 16,
	17, 19, 23, 27,
	29, 31, 35, 37,
}

// LateReflections is the diffuse reverb tail node: 16 mono inputs and 16
// mono outputs, one per delay line.
type LateReflections struct {
	*graph.Base

	fdn    *fdn.Network
	matrix []float64

	delays [lateOrder]float64
	gains  [lateOrder]float64

	outputFrame    [lateOrder]float64
	nextInputFrame [lateOrder]float64

	highshelves [lateOrder]*biquad.Filter // shapes mid to high band
	midshelves  [lateOrder]*biquad.Filter // shapes low to mid band
	allpasses   [lateOrder]*biquad.Filter

	amplitudeModulators [lateOrder]*osc.Sine
	delayModulators     [lateOrder]*osc.Sine
	allpassModulators   [lateOrder]*osc.Sine

	amplitudeModulationBuffer []float64

	// Equalizes first-arrival times across the unequal line lengths.
	panReducers [lateOrder]*delay.Interpolated
}

// NewLateReflections returns a late-reflections node registered with
// server.
func NewLateReflections(server *graph.Server) (*LateReflections, error) {
	n := &LateReflections{
		Base:                      graph.NewBase(server, KindLateReflections, lateOrder, lateOrder),
		amplitudeModulationBuffer: make([]float64, server.BlockSize()),
	}
	n.SetOwner(n)

	for i := 0; i < lateOrder; i++ {
		n.AppendInputConnection(i, 1)
		n.AppendOutputConnection(i, 1)
	}

	sr := server.SampleRate()

	network, err := fdn.New(lateOrder, 1.0, sr)
	if err != nil {
		return nil, err
	}

	n.fdn = network
	n.fdn.SetInterpolationDelta(0.2)

	nyquist := sr / 2
	n.MustProperty(PropLateHFReference).SetFloatRange(0, nyquist)
	n.MustProperty(PropLateLFReference).SetFloatRange(0, nyquist)

	for i := 0; i < lateOrder; i++ {
		n.highshelves[i] = biquad.NewFilter(sr)
		n.midshelves[i] = biquad.NewFilter(sr)
		n.allpasses[i] = biquad.NewFilter(sr)

		phase := float64(i) / lateOrder

		amp, err := osc.NewSine(sr)
		if err != nil {
			return nil, err
		}

		amp.SetPhase(phase)
		n.amplitudeModulators[i] = amp

		dm, err := osc.NewSine(sr)
		if err != nil {
			return nil, err
		}

		dm.SetPhase(phase)
		n.delayModulators[i] = dm

		am, err := osc.NewSine(sr)
		if err != nil {
			return nil, err
		}

		am.SetPhase(phase)
		n.allpassModulators[i] = am

		pan, err := delay.NewInterpolated(1.0, sr)
		if err != nil {
			return nil, err
		}

		pan.SetInterpolationDelta(1)
		n.panReducers[i] = pan
	}

	n.recompute()
	n.modulationFrequenciesChanged()

	// Start from the state Reset returns to: every line already at its
	// target length rather than crossfading there from the initial delay.
	n.Reset()

	return n, nil
}

// recompute derives delay lengths, per-line gains, shelf coefficients,
// the baked feedback matrix and the pan-reduction delays from the
// current property values.
func (n *LateReflections) recompute() {
	sr := n.SampleRate()

	density := n.MustProperty(PropLateDensity).FloatValue()
	t60 := n.MustProperty(PropLateT60).FloatValue()
	t60High := n.MustProperty(PropLateHFT60).FloatValue()
	t60Low := n.MustProperty(PropLateLFT60).FloatValue()
	hfReference := n.MustProperty(PropLateHFReference).FloatValue()
	lfReference := n.MustProperty(PropLateLFReference).FloatValue()

	// The base delay is the amount all lines are delayed by; density
	// shortens it.
	baseDelay := 0.003 + (1.0-density)*0.025

	// Approximate the base delay with powers of the coprimes, visiting
	// the table column-first: 0, 4, 8, 12, 1, 5, 9, 13, ...
	for i := 0; i < lateOrder; i++ {
		prime := float64(lateCoprimes[(i%4)*4+i/4])
		power := math.Round(math.Log(baseDelay*sr) / math.Log(prime))
		d := math.Pow(prime, power) / sr
		n.delays[i] = math.Min(d, 1.0)
	}

	// Swapping these pairs keeps the shortest and longest lines from
	// sitting on adjacent outputs, which reads as metallic panning when
	// panners feed and drain the node.
	n.delays[0], n.delays[15] = n.delays[15], n.delays[0]
	n.delays[1], n.delays[14] = n.delays[14], n.delays[1]

	_ = n.fdn.SetDelays(n.delays[:])

	for i := 0; i < lateOrder; i++ {
		n.gains[i] = core.T60ToGain(t60Low, n.delays[i])
	}

	// When the shelf slope parameter is 1, q is 1/sqrt(2); the epsilon
	// guards the formulas against numerical error at extreme settings.
	q := 1/math.Sqrt2 + 1e-4

	for i := 0; i < lateOrder; i++ {
		highGain := core.T60ToGain(t60High, n.delays[i])
		midGain := core.T60ToGain(t60, n.delays[i])
		midDB := core.ScalarToDB(midGain, n.gains[i])
		highDB := core.ScalarToDB(highGain, midGain)

		n.highshelves[i].Configure(biquad.TypeHighShelf, hfReference, highDB, q)
		n.midshelves[i].Configure(biquad.TypeHighShelf, lfReference, midDB, q)
	}

	// Bake the per-line gains into the feedback matrix.
	h, err := fdn.Hadamard(lateOrder)
	if err != nil {
		panic(err)
	}

	n.matrix = h
	for i := 0; i < lateOrder; i++ {
		for j := 0; j < lateOrder; j++ {
			n.matrix[i*lateOrder+j] *= n.gains[i]
		}
	}

	_ = n.fdn.SetMatrix(n.matrix)

	// The first sample of output should reach all 16 outputs at the same
	// time, before degrading normally; the extra sample keeps every
	// pan-reduction delay above zero.
	maxDelay := n.delays[0]
	for _, d := range n.delays[1:] {
		if d > maxDelay {
			maxDelay = d
		}
	}

	panReductionDelay := maxDelay + 1.0/sr
	for i := 0; i < lateOrder; i++ {
		n.panReducers[i].SetDelay(panReductionDelay - n.delays[i])
	}
}

func (n *LateReflections) amplitudeModulationFrequencyChanged() {
	freq := n.MustProperty(PropLateAmplitudeModulationFrequency).FloatValue()
	for i := 0; i < lateOrder; i++ {
		n.amplitudeModulators[i].SetFrequency(freq)
	}
}

func (n *LateReflections) delayModulationFrequencyChanged() {
	freq := n.MustProperty(PropLateDelayModulationFrequency).FloatValue()
	for i := 0; i < lateOrder; i++ {
		n.delayModulators[i].SetFrequency(freq)
	}
}

func (n *LateReflections) allpassModulationFrequencyChanged() {
	freq := n.MustProperty(PropLateAllpassModulationFrequency).FloatValue()
	for i := 0; i < lateOrder; i++ {
		n.allpassModulators[i].SetFrequency(freq)
	}
}

func (n *LateReflections) modulationFrequenciesChanged() {
	n.amplitudeModulationFrequencyChanged()
	n.delayModulationFrequencyChanged()
	n.allpassModulationFrequencyChanged()
}

func (n *LateReflections) allpassEnabledChanged() {
	for i := 0; i < lateOrder; i++ {
		n.allpasses[i].ClearHistories()
	}
}

func (n *LateReflections) normalizeOscillators() {
	for i := 0; i < lateOrder; i++ {
		n.amplitudeModulators[i].Normalize()
		n.delayModulators[i].Normalize()
	}
}

// Process renders one block of the reverb tail.
func (n *LateReflections) Process() {
	if n.WereModified(
		PropLateT60, PropLateDensity, PropLateHFT60,
		PropLateLFT60, PropLateHFReference, PropLateLFReference,
	) {
		n.recompute()
	}

	if n.WereModified(PropLateAmplitudeModulationFrequency) {
		n.amplitudeModulationFrequencyChanged()
	}

	if n.WereModified(PropLateDelayModulationFrequency) {
		n.delayModulationFrequencyChanged()
	}

	if n.WereModified(PropLateAllpassEnabled) {
		n.allpassEnabledChanged()
	}

	if n.WereModified(PropLateAllpassModulationFrequency) {
		n.allpassModulationFrequencyChanged()
	}

	n.normalizeOscillators()

	amplitudeModulationDepth := n.MustProperty(PropLateAmplitudeModulationDepth).FloatValue()
	delayModulationDepth := n.MustProperty(PropLateDelayModulationDepth).FloatValue()
	allpassMinFreq := n.MustProperty(PropLateAllpassMinFreq).FloatValue()
	allpassMaxFreq := n.MustProperty(PropLateAllpassMaxFreq).FloatValue()
	allpassQ := n.MustProperty(PropLateAllpassQ).FloatValue()
	allpassEnabled := n.MustProperty(PropLateAllpassEnabled).IntValue() == 1

	// The allpass center sweeps delta either side of the midpoint, so it
	// ranges over [min, max].
	allpassDelta := (allpassMaxFreq - allpassMinFreq) / 2
	allpassModulationStart := allpassMinFreq + allpassDelta

	in := n.InputBuffers()
	out := n.Base.OutputBuffers()
	blockSize := n.BlockSize()

	for i := 0; i < blockSize; i++ {
		for m := 0; m < lateOrder; m++ {
			d := n.delays[m]
			d += d * delayModulationDepth * n.delayModulators[m].Tick()
			_ = n.fdn.SetDelay(m, math.Min(d, 1.0))
		}

		if allpassEnabled {
			for m := 0; m < lateOrder; m++ {
				n.allpasses[m].Configure(
					biquad.TypeAllpass,
					allpassModulationStart+allpassDelta*n.allpassModulators[m].Tick(),
					0, allpassQ,
				)
			}
		}
		// If disabled, those modulators are advanced after the loop.

		n.fdn.ComputeFrame(n.outputFrame[:])

		for j := 0; j < lateOrder; j++ {
			out[j][i] = n.outputFrame[j]
		}

		for j := 0; j < lateOrder; j++ {
			// Through the high shelf, then the mid shelf, then maybe the
			// allpass. Feedback gain itself lives in the matrix.
			v := n.midshelves[j].Tick(n.highshelves[j].Tick(n.outputFrame[j]))
			if allpassEnabled {
				v = n.allpasses[j].Tick(v)
			}

			n.outputFrame[j] = v
		}

		for j := 0; j < lateOrder; j++ {
			n.nextInputFrame[j] = in[j][i]
		}

		n.fdn.Advance(n.nextInputFrame[:], n.outputFrame[:])
	}

	if amplitudeModulationDepth != 0 {
		for j := 0; j < lateOrder; j++ {
			// 1 - depth/2 + depth*oscillator.
			n.amplitudeModulators[j].FillBuffer(n.amplitudeModulationBuffer)
			kernels.Scale(n.amplitudeModulationBuffer, amplitudeModulationDepth)
			kernels.Offset(n.amplitudeModulationBuffer, 1-amplitudeModulationDepth/2)
			kernels.Multiply(out[j], n.amplitudeModulationBuffer)
		}
	}

	// Advance the modulators of disabled stages so the same parameters
	// always produce the same reverb; otherwise the stages drift out of
	// phase with each other across enable/disable transitions.
	if !allpassEnabled {
		for j := 0; j < lateOrder; j++ {
			n.allpassModulators[j].SkipSamples(blockSize)
		}
	}

	if amplitudeModulationDepth == 0 {
		for j := 0; j < lateOrder; j++ {
			n.amplitudeModulators[j].SkipSamples(blockSize)
		}
	}

	for j := 0; j < lateOrder; j++ {
		line := n.panReducers[j]
		for i := 0; i < blockSize; i++ {
			out[j][i] = line.Tick(out[j][i])
		}
	}
}

// Reset clears all line and filter state and rephases every modulator.
func (n *LateReflections) Reset() {
	n.fdn.Reset()

	for i := 0; i < lateOrder; i++ {
		n.midshelves[i].ClearHistories()
		n.highshelves[i].ClearHistories()
		n.allpasses[i].ClearHistories()

		phase := float64(i) / lateOrder
		n.amplitudeModulators[i].SetPhase(phase)
		n.delayModulators[i].SetPhase(phase)
		n.allpassModulators[i].SetPhase(phase)

		n.panReducers[i].Reset()
	}
}
