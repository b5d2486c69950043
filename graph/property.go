package graph

import (
	"math"

	"github.com/cwbudde/algo-audiograph/dsp/buffer"
	"github.com/cwbudde/algo-audiograph/dsp/core"
)

// Property is one typed parameter slot on a node. Scalar numeric
// properties can be evaluated per block (k-rate) or per sample (a-rate);
// they become a-rate when a ramp is running or an audio modulation source
// is connected, in which case the per-sample value is the sum of both.
type Property struct {
	meta   PropertyMeta
	server *Server
	node   Node

	ival int
	fval float64
	sval string
	f3   [3]float64
	f6   [6]float64
	farr []float64
	iarr []int
	buf  *buffer.Buffer

	// Audio modulation input; non-nil iff meta.Modulatable.
	modInput *InputConnection
	modBuf   []float64

	block   []float64
	arate   bool
	touched bool

	ramp rampState
}

type rampState struct {
	active    bool
	current   float64
	target    float64
	step      float64
	remaining int
}

func newProperty(server *Server, node Node, meta PropertyMeta) *Property {
	p := &Property{
		meta:   meta,
		server: server,
		node:   node,
		ival:   meta.DefaultInt,
		fval:   meta.DefaultFloat,
		sval:   meta.DefaultString,
		f3:     meta.DefaultFloat3,
		f6:     meta.DefaultFloat6,
	}

	if len(meta.DefaultFloatArray) > 0 {
		p.farr = append([]float64(nil), meta.DefaultFloatArray...)
	}

	if len(meta.DefaultIntArray) > 0 {
		p.iarr = append([]int(nil), meta.DefaultIntArray...)
	}

	if meta.Modulatable {
		p.modBuf = make([]float64, server.blockSize)
		p.modInput = newInputConnection(node, [][]float64{p.modBuf})
		p.block = make([]float64, server.blockSize)
	}

	return p
}

// Meta returns the property's metadata.
func (p *Property) Meta() PropertyMeta { return p.meta }

// Name returns the property name.
func (p *Property) Name() string { return p.meta.Name }

// Kind returns the property value type.
func (p *Property) Kind() PropertyKind { return p.meta.Kind }

// ReadOnly reports whether external writes are rejected.
func (p *Property) ReadOnly() bool { return p.meta.ReadOnly }

// HasDynamicRange reports whether the range depends on the sample rate or
// another property.
func (p *Property) HasDynamicRange() bool { return p.meta.HasDynamicRange }

// NeedsARate reports whether the current block must be evaluated per
// sample.
func (p *Property) NeedsARate() bool {
	return p.arate
}

// Touched reports whether the property was written since the flag was
// last cleared. Node process loops consume it through WereModified.
func (p *Property) Touched() bool { return p.touched }

func (p *Property) clearTouched() { p.touched = false }

func (p *Property) isFloatLike() bool {
	return p.meta.Kind == PropertyFloat || p.meta.Kind == PropertyDouble
}

func (p *Property) isArray() bool {
	return p.meta.Kind == PropertyFloatArray || p.meta.Kind == PropertyIntArray
}

// tick advances ramp state and prepares the per-sample buffer when the
// property is a-rate for this block. Called once per block by the node.
func (p *Property) tick() {
	if !p.isFloatLike() {
		return
	}

	modConnected := p.modInput != nil && len(p.modInput.incoming) > 0
	rampActive := p.ramp.active

	p.arate = modConnected || rampActive
	if !p.arate {
		return
	}

	if p.block == nil {
		p.block = make([]float64, p.server.blockSize)
	}

	if rampActive {
		for i := range p.block {
			if p.ramp.remaining > 0 {
				p.ramp.current += p.ramp.step
				p.ramp.remaining--

				if p.ramp.remaining == 0 {
					p.ramp.current = p.ramp.target
					p.ramp.active = false
				}
			}

			p.block[i] = p.ramp.current
		}

		p.fval = p.ramp.current
	} else {
		for i := range p.block {
			p.block[i] = p.fval
		}
	}

	if modConnected {
		core.Zero(p.modBuf)
		p.modInput.add(false)
		// Ramp (or scalar) plus modulation: sum, not replace.
		for i := range p.block {
			p.block[i] += p.modBuf[i]
		}
	}
}

// FloatValue returns the k-rate scalar.
func (p *Property) FloatValue() float64 { return p.fval }

// FloatValueAt returns the a-rate value at block index i, falling back to
// the scalar when the property is k-rate this block.
func (p *Property) FloatValueAt(i int) float64 {
	if p.arate {
		return p.block[i]
	}

	return p.fval
}

// IntValue returns the current integer value.
func (p *Property) IntValue() int { return p.ival }

func (p *Property) setFloat(v float64) {
	p.fval = core.Clamp(v, p.meta.MinFloat, p.meta.MaxFloat)
	p.ramp.active = false
	p.touched = true
}

func (p *Property) setInt(v int) {
	p.ival = core.ClampInt(v, p.meta.MinInt, p.meta.MaxInt)
	p.touched = true
}

func (p *Property) rampFloat(target, seconds float64) {
	target = core.Clamp(target, p.meta.MinFloat, p.meta.MaxFloat)

	samples := int(math.Ceil(seconds * p.server.sampleRate))
	if samples <= 0 {
		p.setFloat(target)
		return
	}

	p.ramp = rampState{
		active:    true,
		current:   p.fval,
		target:    target,
		step:      (target - p.fval) / float64(samples),
		remaining: samples,
	}
	p.touched = true
}

// reset restores the default value and cancels any ramp.
func (p *Property) reset() {
	p.ival = p.meta.DefaultInt
	p.fval = p.meta.DefaultFloat
	p.sval = p.meta.DefaultString
	p.f3 = p.meta.DefaultFloat3
	p.f6 = p.meta.DefaultFloat6
	p.farr = append(p.farr[:0], p.meta.DefaultFloatArray...)
	p.iarr = append(p.iarr[:0], p.meta.DefaultIntArray...)
	p.buf = nil
	p.ramp.active = false
	p.touched = true
}

// SetFloatRange overrides the metadata range, for ranges that depend on
// the sample rate (e.g. filter reference frequencies up to Nyquist).
// Node-kind constructor use.
func (p *Property) SetFloatRange(min, max float64) {
	p.meta.MinFloat = min
	p.meta.MaxFloat = max
	p.meta.HasDynamicRange = true
}
