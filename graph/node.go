package graph

import (
	"fmt"

	"github.com/cwbudde/algo-audiograph/dsp/buffer"
	"github.com/cwbudde/algo-audiograph/dsp/core"
	"github.com/cwbudde/algo-audiograph/dsp/kernels"
)

// Node is the behavior a node kind layers over Base. Kinds embed *Base,
// override Process (and usually Reset), and leave the scheduling to it.
type Node interface {
	Kind() Kind
	Server() *Server

	// Tick runs the node's per-block step at most once per server tick.
	Tick()
	// Process renders one block. Called by Tick with inputs accumulated.
	Process()
	// Reset returns DSP state (filters, lines, phases) to construction
	// values. The base implementation does nothing.
	Reset()

	Dependencies() []Node

	InputConnectionCount() int
	InputConnection(which int) (*InputConnection, error)
	OutputConnectionCount() int
	OutputConnection(which int) (*OutputConnection, error)

	OutputBufferCount() int
	OutputBuffers() [][]float64

	NodeBase() *Base
}

// WillProcessParents is an optional hook a node kind can implement to run
// before its inputs are accumulated.
type WillProcessParents interface {
	WillProcessParents()
}

type forwardedRef struct {
	node Node
	slot int
}

// Base carries the state and scheduling shared by all node kinds.
type Base struct {
	kind   Kind
	server *Server
	owner  Node
	closed bool

	inputBuffers  [][]float64
	outputBuffers [][]float64

	inputConnections  []*InputConnection
	outputConnections []*OutputConnection

	properties map[int]*Property
	forwarded  map[int]forwardedRef
	events     map[int]*Event

	lastProcessed     uint64
	isProcessing      bool
	shouldZeroOutputs bool
}

// NewBase allocates a node base against server with fixed input and
// output buffer counts. The caller must follow with SetOwner before the
// node participates in the graph.
func NewBase(server *Server, kind Kind, inputBuffers, outputBuffers int) *Base {
	b := &Base{
		kind:              kind,
		server:            server,
		properties:        map[int]*Property{},
		forwarded:         map[int]forwardedRef{},
		events:            map[int]*Event{},
		shouldZeroOutputs: true,
	}

	b.inputBuffers = allocBuffers(inputBuffers, server.blockSize)
	b.outputBuffers = allocBuffers(outputBuffers, server.blockSize)

	meta := kindMetadata(kind)
	for slot, pm := range meta.Properties {
		b.properties[slot] = newProperty(server, nil, pm)
	}

	for slot, em := range meta.Events {
		b.events[slot] = newEvent(nil, em)
	}

	return b
}

func allocBuffers(count, blockSize int) [][]float64 {
	bufs := make([][]float64, count)
	for i := range bufs {
		bufs[i] = make([]float64, blockSize)
	}

	return bufs
}

// SetOwner binds the concrete node to its base, associates properties and
// events with it, and registers the node with the server. Node
// constructors call this exactly once.
func (b *Base) SetOwner(owner Node) {
	b.owner = owner

	for _, p := range b.properties {
		p.node = owner
		if p.modInput != nil {
			p.modInput.node = owner
		}
	}

	for _, e := range b.events {
		e.node = owner
	}

	for _, in := range b.inputConnections {
		in.node = owner
	}

	for _, o := range b.outputConnections {
		o.node = owner
	}

	b.server.registerNode(owner)
}

// Kind returns the node kind.
func (b *Base) Kind() Kind { return b.kind }

// Server returns the owning server.
func (b *Base) Server() *Server { return b.server }

// NodeBase returns the node base itself; embedding satisfies
// Node.NodeBase. Named so the promoted method survives the embedded
// field's own name.
func (b *Base) NodeBase() *Base { return b }

// BlockSize returns the server block size.
func (b *Base) BlockSize() int { return b.server.blockSize }

// SampleRate returns the server sample rate.
func (b *Base) SampleRate() float64 { return b.server.sampleRate }

// SetShouldZeroOutputBuffers opts out of the per-tick output zeroing.
// Only safe for kinds whose Process unconditionally overwrites every
// output sample. Constructor-time only.
func (b *Base) SetShouldZeroOutputBuffers(zero bool) {
	b.shouldZeroOutputs = zero
}

// AppendInputConnection adds a grouped input endpoint covering
// [start, start+count) of the input buffers. Constructor-time only.
func (b *Base) AppendInputConnection(start, count int) {
	end := start + count
	if end > len(b.inputBuffers) {
		end = len(b.inputBuffers)
	}

	b.inputConnections = append(b.inputConnections, newInputConnection(b.ownerOrBase(), b.inputBuffers[start:end]))
}

// AppendOutputConnection adds a grouped output endpoint covering
// [start, start+count) of the output buffers. Constructor-time only.
func (b *Base) AppendOutputConnection(start, count int) {
	b.outputConnections = append(b.outputConnections, newOutputConnection(b.ownerOrBase(), start, count))
}

// ownerOrBase lets endpoints created before SetOwner resolve correctly
// afterwards; SetOwner rebinds them.
func (b *Base) ownerOrBase() Node {
	if b.owner != nil {
		return b.owner
	}

	return b
}

// InputBuffers returns the node's input channel buffers.
func (b *Base) InputBuffers() [][]float64 { return b.inputBuffers }

// OutputBuffers returns the node's output channel buffers.
func (b *Base) OutputBuffers() [][]float64 { return b.outputBuffers }

// OutputBufferCount returns the output channel count.
func (b *Base) OutputBufferCount() int { return len(b.outputBuffers) }

// InputConnectionCount returns the number of grouped input endpoints.
func (b *Base) InputConnectionCount() int { return len(b.inputConnections) }

// InputConnection returns grouped input endpoint which.
func (b *Base) InputConnection(which int) (*InputConnection, error) {
	if which < 0 || which >= len(b.inputConnections) {
		return nil, fmt.Errorf("%w: input connection %d", ErrRange, which)
	}

	return b.inputConnections[which], nil
}

// OutputConnectionCount returns the number of grouped output endpoints.
func (b *Base) OutputConnectionCount() int { return len(b.outputConnections) }

// OutputConnection returns grouped output endpoint which.
func (b *Base) OutputConnection(which int) (*OutputConnection, error) {
	if which < 0 || which >= len(b.outputConnections) {
		return nil, fmt.Errorf("%w: output connection %d", ErrRange, which)
	}

	return b.outputConnections[which], nil
}

// State returns the node's scheduling state.
func (b *Base) State() State {
	return State(b.properties[PropState].IntValue())
}

// SetState writes the scheduling state and fires the state-changed event
// when the state changes.
func (b *Base) SetState(state State) error {
	return b.SetInt(PropState, int(state))
}

// Process is the default per-kind hook; it renders silence.
func (b *Base) Process() {}

// Reset is the default per-kind hook; the base keeps no DSP state.
func (b *Base) Reset() {}

// Tick runs the guarded per-block step: zero outputs, skip when paused,
// tick properties, accumulate inputs, process, then apply MUL and ADD.
func (b *Base) Tick() {
	if b.lastProcessed == b.server.tickCount {
		return
	}
	// Advancing the counter first keeps paused nodes from re-zeroing
	// downstream on every pull.
	b.lastProcessed = b.server.tickCount

	paused := b.State() == StatePaused
	if b.shouldZeroOutputs || paused {
		for _, out := range b.outputBuffers {
			core.Zero(out)
		}
	}

	if paused {
		return
	}

	b.tickProperties()

	if hook, ok := b.owner.(WillProcessParents); ok {
		hook.WillProcessParents()
	}

	for _, in := range b.inputBuffers {
		core.Zero(in)
	}

	needsMixing := ChannelInterpretation(b.properties[PropChannelInterpretation].IntValue()) == InterpretationSpeakers
	for _, in := range b.inputConnections {
		in.add(needsMixing)
	}

	b.isProcessing = true
	b.owner.Process()
	b.applyMulAdd(b.owner.OutputBuffers())
	b.isProcessing = false
}

func (b *Base) tickProperties() {
	for _, p := range b.properties {
		p.tick()
	}
}

// applyMulAdd applies the MUL post-gain then the ADD post-offset to the
// given output buffers, per-sample when either property is a-rate.
func (b *Base) applyMulAdd(outputs [][]float64) {
	mul := b.properties[PropMul]
	if mul.NeedsARate() {
		for _, out := range outputs {
			kernels.Multiply(out, mul.block)
		}
	} else if mul.FloatValue() != 1.0 {
		for _, out := range outputs {
			kernels.Scale(out, mul.FloatValue())
		}
	}

	add := b.properties[PropAdd]
	if add.NeedsARate() {
		for _, out := range outputs {
			kernels.Accumulate(out, add.block)
		}
	} else if add.FloatValue() != 0.0 {
		for _, out := range outputs {
			kernels.Offset(out, add.FloatValue())
		}
	}
}

// Dependencies returns the nodes feeding any input connection or any
// property modulation input.
func (b *Base) Dependencies() []Node {
	seen := map[Node]struct{}{}

	var deps []Node

	collect := func(nodes []Node) {
		for _, n := range nodes {
			if _, ok := seen[n]; ok {
				continue
			}

			seen[n] = struct{}{}
			deps = append(deps, n)
		}
	}

	for _, in := range b.inputConnections {
		collect(in.connectedNodes())
	}

	for _, p := range b.properties {
		if p.modInput != nil {
			collect(p.modInput.connectedNodes())
		}
	}

	return deps
}

// --- connection surface ---

// Connect routes output endpoint output into dest's input endpoint input.
// Fails with ErrCausesCycle if dest already (transitively) feeds this
// node.
func (b *Base) Connect(output int, dest Node, input int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	if b.closed || dest.NodeBase().closed {
		return ErrInvalidHandle
	}

	if !edgePreservesAcyclicity(b.ownerOrBase(), dest) {
		return ErrCausesCycle
	}

	o, err := b.OutputConnection(output)
	if err != nil {
		return err
	}

	in, err := dest.InputConnection(input)
	if err != nil {
		return err
	}

	in.connect(o)

	return nil
}

// ConnectServer routes output endpoint output into the server's final
// output connection.
func (b *Base) ConnectServer(output int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	if b.closed {
		return ErrInvalidHandle
	}

	o, err := b.OutputConnection(output)
	if err != nil {
		return err
	}

	b.server.finalConnection().connect(o)

	return nil
}

// ConnectProperty routes output endpoint output into the one-channel
// modulation input of dest's property slot.
func (b *Base) ConnectProperty(output int, dest Node, slot int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	if b.closed || dest.NodeBase().closed {
		return ErrInvalidHandle
	}

	if !edgePreservesAcyclicity(b.ownerOrBase(), dest) {
		return ErrCausesCycle
	}

	p, err := dest.NodeBase().property(slot)
	if err != nil {
		return err
	}

	if p.modInput == nil {
		return ErrCannotConnectToProperty
	}

	o, err := b.OutputConnection(output)
	if err != nil {
		return err
	}

	p.modInput.connect(o)

	return nil
}

// Disconnect detaches output endpoint output from everything it feeds.
func (b *Base) Disconnect(output int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	o, err := b.OutputConnection(output)
	if err != nil {
		return err
	}

	o.Clear()

	return nil
}

// Close detaches the node from every connection in both directions and
// unregisters it from the server. Further use fails with ErrInvalidHandle.
func (b *Base) Close() {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	if b.closed {
		return
	}

	for _, o := range b.outputConnections {
		o.Clear()
	}

	for _, in := range b.inputConnections {
		for _, o := range append([]*OutputConnection(nil), in.incoming...) {
			in.removeIncoming(o)
			o.removeConnected(in)
		}
	}

	for _, p := range b.properties {
		if p.modInput == nil {
			continue
		}

		for _, o := range append([]*OutputConnection(nil), p.modInput.incoming...) {
			p.modInput.removeIncoming(o)
			o.removeConnected(p.modInput)
		}
	}

	b.server.unregisterNodeLocked(b.ownerOrBase())
	b.closed = true
}

// edgePreservesAcyclicity reports whether connecting an output of src to
// an input of dest keeps the graph acyclic: dest must not already be src
// or one of src's transitive dependencies. Iterative DFS with a visited
// set, so every dependency is examined.
func edgePreservesAcyclicity(src, dest Node) bool {
	if src == dest {
		return false
	}

	visited := map[Node]struct{}{src: {}}
	stack := []Node{src}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, dep := range n.Dependencies() {
			if dep == dest {
				return false
			}

			if _, ok := visited[dep]; ok {
				continue
			}

			visited[dep] = struct{}{}
			stack = append(stack, dep)
		}
	}

	return true
}

// --- property surface ---

// property resolves slot, following forwarded slots. Callers hold the
// server lock or run at construction time.
func (b *Base) property(slot int) (*Property, error) {
	if ref, ok := b.forwarded[slot]; ok {
		if ref.node == nil || ref.node.NodeBase().closed {
			return nil, ErrInternal
		}

		return ref.node.NodeBase().property(ref.slot)
	}

	p, ok := b.properties[slot]
	if !ok {
		return nil, fmt.Errorf("%w: property slot %d", ErrRange, slot)
	}

	return p, nil
}

// Property returns the property at slot, following forwarding.
func (b *Base) Property(slot int) (*Property, error) {
	return b.property(slot)
}

// MustProperty returns the property at slot; it panics on an unknown
// slot, which for a registered kind is a programming error. Constructor
// use only.
func (b *Base) MustProperty(slot int) *Property {
	p, err := b.property(slot)
	if err != nil {
		panic(err)
	}

	return p
}

// ForwardProperty exposes dest's slot toSlot as this node's slot.
func (b *Base) ForwardProperty(slot int, dest Node, toSlot int) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	b.forwarded[slot] = forwardedRef{node: dest, slot: toSlot}
}

// StopForwardingProperty removes a forwarding entry.
func (b *Base) StopForwardingProperty(slot int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	if _, ok := b.forwarded[slot]; !ok {
		return ErrInternal
	}

	delete(b.forwarded, slot)

	return nil
}

func (b *Base) typedProperty(slot int, kind PropertyKind) (*Property, error) {
	p, err := b.property(slot)
	if err != nil {
		return nil, err
	}

	if p.meta.Kind != kind {
		return nil, ErrTypeMismatch
	}

	return p, nil
}

func (b *Base) writableProperty(slot int, kind PropertyKind) (*Property, error) {
	p, err := b.typedProperty(slot, kind)
	if err != nil {
		return nil, err
	}

	if p.meta.ReadOnly {
		return nil, ErrPropertyReadOnly
	}

	return p, nil
}

// SetInt writes an Int property, clamped to its range.
func (b *Base) SetInt(slot int, value int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyInt)
	if err != nil {
		return err
	}

	old := p.ival
	p.setInt(value)

	if slot == PropState && p.ival != old {
		b.events[EventStateChanged].fire()
	}

	return nil
}

// Int reads an Int property.
func (b *Base) Int(slot int) (int, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyInt)
	if err != nil {
		return 0, err
	}

	return p.ival, nil
}

// SetFloat writes a Float property, clamped to its range.
func (b *Base) SetFloat(slot int, value float64) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyFloat)
	if err != nil {
		return err
	}

	p.setFloat(value)

	return nil
}

// Float reads a Float property's k-rate scalar.
func (b *Base) Float(slot int) (float64, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyFloat)
	if err != nil {
		return 0, err
	}

	return p.fval, nil
}

// SetDouble writes a Double property, clamped to its range.
func (b *Base) SetDouble(slot int, value float64) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyDouble)
	if err != nil {
		return err
	}

	p.setFloat(value)

	return nil
}

// Double reads a Double property's k-rate scalar.
func (b *Base) Double(slot int) (float64, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyDouble)
	if err != nil {
		return 0, err
	}

	return p.fval, nil
}

// RampFloat ramps a Float or Double property linearly to target over the
// given duration; the property is a-rate while the ramp runs.
func (b *Base) RampFloat(slot int, target, seconds float64) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.property(slot)
	if err != nil {
		return err
	}

	if !p.isFloatLike() {
		return ErrTypeMismatch
	}

	if p.meta.ReadOnly {
		return ErrPropertyReadOnly
	}

	p.rampFloat(target, seconds)

	return nil
}

// SetStringValue writes a String property.
func (b *Base) SetStringValue(slot int, value string) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyString)
	if err != nil {
		return err
	}

	p.sval = value
	p.touched = true

	return nil
}

// StringValue reads a String property.
func (b *Base) StringValue(slot int) (string, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyString)
	if err != nil {
		return "", err
	}

	return p.sval, nil
}

// SetFloat3 writes a Float3 property.
func (b *Base) SetFloat3(slot int, value [3]float64) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyFloat3)
	if err != nil {
		return err
	}

	p.f3 = value
	p.touched = true

	return nil
}

// Float3 reads a Float3 property.
func (b *Base) Float3(slot int) ([3]float64, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyFloat3)
	if err != nil {
		return [3]float64{}, err
	}

	return p.f3, nil
}

// SetFloat6 writes a Float6 property.
func (b *Base) SetFloat6(slot int, value [6]float64) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyFloat6)
	if err != nil {
		return err
	}

	p.f6 = value
	p.touched = true

	return nil
}

// Float6 reads a Float6 property.
func (b *Base) Float6(slot int) ([6]float64, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyFloat6)
	if err != nil {
		return [6]float64{}, err
	}

	return p.f6, nil
}

// SetBufferValue writes a Buffer property.
func (b *Base) SetBufferValue(slot int, buf *buffer.Buffer) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyBuffer)
	if err != nil {
		return err
	}

	p.buf = buf
	p.touched = true

	return nil
}

// BufferValue reads a Buffer property.
func (b *Base) BufferValue(slot int) (*buffer.Buffer, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyBuffer)
	if err != nil {
		return nil, err
	}

	return p.buf, nil
}

// ReplaceFloatArray replaces a FloatArray property's contents. The new
// length must lie within the property's length range.
func (b *Base) ReplaceFloatArray(slot int, values []float64) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyFloatArray)
	if err != nil {
		return err
	}

	if err := checkArrayLength(p, len(values)); err != nil {
		return err
	}

	p.farr = append(p.farr[:0], values...)
	p.touched = true

	return nil
}

// ReadFloatArray reads index of a FloatArray property.
func (b *Base) ReadFloatArray(slot int, index int) (float64, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyFloatArray)
	if err != nil {
		return 0, err
	}

	if index < 0 || index >= len(p.farr) {
		return 0, fmt.Errorf("%w: array index %d", ErrRange, index)
	}

	return p.farr[index], nil
}

// WriteFloatArray writes values into [start, stop) of a FloatArray
// property. len(values) must equal stop-start.
func (b *Base) WriteFloatArray(slot int, start, stop int, values []float64) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyFloatArray)
	if err != nil {
		return err
	}

	if start < 0 || stop > len(p.farr) || start > stop || len(values) != stop-start {
		return fmt.Errorf("%w: array window [%d, %d)", ErrRange, start, stop)
	}

	copy(p.farr[start:stop], values)
	p.touched = true

	return nil
}

// FloatArrayLength returns the length of a FloatArray property.
func (b *Base) FloatArrayLength(slot int) (int, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyFloatArray)
	if err != nil {
		return 0, err
	}

	return len(p.farr), nil
}

// ReplaceIntArray replaces an IntArray property's contents. The new
// length must lie within the property's length range.
func (b *Base) ReplaceIntArray(slot int, values []int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyIntArray)
	if err != nil {
		return err
	}

	if err := checkArrayLength(p, len(values)); err != nil {
		return err
	}

	p.iarr = append(p.iarr[:0], values...)
	p.touched = true

	return nil
}

// ReadIntArray reads index of an IntArray property.
func (b *Base) ReadIntArray(slot int, index int) (int, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyIntArray)
	if err != nil {
		return 0, err
	}

	if index < 0 || index >= len(p.iarr) {
		return 0, fmt.Errorf("%w: array index %d", ErrRange, index)
	}

	return p.iarr[index], nil
}

// WriteIntArray writes values into [start, stop) of an IntArray property.
func (b *Base) WriteIntArray(slot int, start, stop int, values []int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.writableProperty(slot, PropertyIntArray)
	if err != nil {
		return err
	}

	if start < 0 || stop > len(p.iarr) || start > stop || len(values) != stop-start {
		return fmt.Errorf("%w: array window [%d, %d)", ErrRange, start, stop)
	}

	copy(p.iarr[start:stop], values)
	p.touched = true

	return nil
}

// IntArrayLength returns the length of an IntArray property.
func (b *Base) IntArrayLength(slot int) (int, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyIntArray)
	if err != nil {
		return 0, err
	}

	return len(p.iarr), nil
}

// ArrayLengthRange returns the (min, max) allowed length for an array
// property, or ErrTypeMismatch for non-array properties.
func (b *Base) ArrayLengthRange(slot int) (int, int, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.property(slot)
	if err != nil {
		return 0, 0, err
	}

	if !p.isArray() {
		return 0, 0, ErrTypeMismatch
	}

	return p.meta.MinLength, p.meta.MaxLength, nil
}

func checkArrayLength(p *Property, n int) error {
	max := p.meta.MaxLength
	if max == 0 {
		// An unset range accepts any length.
		return nil
	}

	if n < p.meta.MinLength || n > max {
		return fmt.Errorf("%w: array length %d outside [%d, %d]", ErrRange, n, p.meta.MinLength, max)
	}

	return nil
}

// FloatRange returns a Float or Double property's [min, max].
func (b *Base) FloatRange(slot int) (float64, float64, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.property(slot)
	if err != nil {
		return 0, 0, err
	}

	if !p.isFloatLike() {
		return 0, 0, ErrTypeMismatch
	}

	return p.meta.MinFloat, p.meta.MaxFloat, nil
}

// IntRange returns an Int property's [min, max].
func (b *Base) IntRange(slot int) (int, int, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.typedProperty(slot, PropertyInt)
	if err != nil {
		return 0, 0, err
	}

	return p.meta.MinInt, p.meta.MaxInt, nil
}

// PropertyName returns the property's name.
func (b *Base) PropertyName(slot int) (string, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.property(slot)
	if err != nil {
		return "", err
	}

	return p.meta.Name, nil
}

// PropertyType returns the property's value type.
func (b *Base) PropertyType(slot int) (PropertyKind, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.property(slot)
	if err != nil {
		return 0, err
	}

	return p.meta.Kind, nil
}

// PropertyHasDynamicRange reports whether the property's range varies.
func (b *Base) PropertyHasDynamicRange(slot int) (bool, error) {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.property(slot)
	if err != nil {
		return false, err
	}

	return p.meta.HasDynamicRange, nil
}

// ResetProperty restores a property to its default value.
func (b *Base) ResetProperty(slot int) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	p, err := b.property(slot)
	if err != nil {
		return err
	}

	if p.meta.ReadOnly {
		return ErrPropertyReadOnly
	}

	p.reset()

	return nil
}

// WereModified reports whether any of the given slots was written since
// the last check, clearing the flags it reads. Process-loop use.
func (b *Base) WereModified(slots ...int) bool {
	modified := false

	for _, slot := range slots {
		p, err := b.property(slot)
		if err != nil {
			continue
		}

		if p.touched {
			modified = true

			p.clearTouched()
		}
	}

	return modified
}

// --- event surface ---

// Event returns the event at slot.
func (b *Base) Event(slot int) (*Event, error) {
	e, ok := b.events[slot]
	if !ok {
		return nil, fmt.Errorf("%w: event slot %d", ErrRange, slot)
	}

	return e, nil
}

// SetEventHandler installs a callback on event slot. Handlers run under
// the server lock and must not call back into the graph API.
func (b *Base) SetEventHandler(slot int, handler EventHandler, userdata any) error {
	b.server.mu.Lock()
	defer b.server.mu.Unlock()

	e, ok := b.events[slot]
	if !ok {
		return fmt.Errorf("%w: event slot %d", ErrRange, slot)
	}

	e.SetHandler(handler, userdata)

	return nil
}

// FireEvent dispatches the event at slot synchronously. Node-internal
// use, called while the server lock is held.
func (b *Base) FireEvent(slot int) {
	if e, ok := b.events[slot]; ok {
		e.fire()
	}
}
