// Package nodes provides the node kinds shipped with the graph engine.
package nodes

import (
	"math"

	"github.com/cwbudde/algo-audiograph/graph"
)

// Node kinds defined by this package.
const (
	KindSine graph.Kind = iota + 100
	KindSquare
	KindGain
	KindPull
	KindLateReflections
)

// Oscillator property slots (sine and additive square).
const (
	PropOscillatorFrequency           = 1
	PropOscillatorFrequencyMultiplier = 2
	PropOscillatorPhase               = 3
	PropSquareHarmonics               = 10
)

// Late-reflections property slots.
const (
	PropLateT60                          = 1
	PropLateDensity                      = 2
	PropLateHFT60                        = 3
	PropLateLFT60                        = 4
	PropLateHFReference                  = 5
	PropLateLFReference                  = 6
	PropLateAmplitudeModulationDepth     = 7
	PropLateAmplitudeModulationFrequency = 8
	PropLateDelayModulationDepth         = 9
	PropLateDelayModulationFrequency     = 10
	PropLateAllpassEnabled               = 11
	PropLateAllpassMinFreq               = 12
	PropLateAllpassMaxFreq               = 13
	PropLateAllpassQ                     = 14
	PropLateAllpassModulationFrequency   = 15
)

func init() {
	inf := math.Inf(1)

	graph.RegisterKind(KindSine, graph.Metadata{
		Properties: map[int]graph.PropertyMeta{
			PropOscillatorFrequency:           graph.ModulatableFloatProperty("frequency", 440, 0, inf),
			PropOscillatorFrequencyMultiplier: graph.ModulatableFloatProperty("frequency_multiplier", 1, math.Inf(-1), inf),
			PropOscillatorPhase:               graph.FloatProperty("phase", 0, 0, 1),
		},
	})

	graph.RegisterKind(KindSquare, graph.Metadata{
		Properties: map[int]graph.PropertyMeta{
			PropOscillatorFrequency: graph.FloatProperty("frequency", 100, 0, inf),
			PropOscillatorPhase:     graph.FloatProperty("phase", 0, 0, 1),
			PropSquareHarmonics:     graph.IntProperty("harmonics", 0, 0, math.MaxInt32),
		},
	})

	graph.RegisterKind(KindGain, graph.Metadata{})

	graph.RegisterKind(KindPull, graph.Metadata{})

	graph.RegisterKind(KindLateReflections, graph.Metadata{
		Properties: map[int]graph.PropertyMeta{
			PropLateT60:                          graph.FloatProperty("t60", 1, 0, inf),
			PropLateDensity:                      graph.FloatProperty("density", 0.5, 0, 1),
			PropLateHFT60:                        graph.FloatProperty("hf_t60", 0.5, 0, inf),
			PropLateLFT60:                        graph.FloatProperty("lf_t60", 1, 0, inf),
			PropLateHFReference:                  graph.FloatProperty("hf_reference", 5000, 0, inf),
			PropLateLFReference:                  graph.FloatProperty("lf_reference", 250, 0, inf),
			PropLateAmplitudeModulationDepth:     graph.FloatProperty("amplitude_modulation_depth", 0, 0, 1),
			PropLateAmplitudeModulationFrequency: graph.FloatProperty("amplitude_modulation_frequency", 10, 0, 500),
			PropLateDelayModulationDepth:         graph.FloatProperty("delay_modulation_depth", 0, 0, 1),
			PropLateDelayModulationFrequency:     graph.FloatProperty("delay_modulation_frequency", 10, 0, 500),
			PropLateAllpassEnabled:               graph.IntProperty("allpass_enabled", 1, 0, 1),
			PropLateAllpassMinFreq:               graph.FloatProperty("allpass_minfreq", 500, 0, inf),
			PropLateAllpassMaxFreq:               graph.FloatProperty("allpass_maxfreq", 3000, 0, inf),
			PropLateAllpassQ:                     graph.FloatProperty("allpass_q", 0.5, 0.001, inf),
			PropLateAllpassModulationFrequency:   graph.FloatProperty("allpass_modulation_frequency", 0.1, 0, 500),
		},
	})
}
