package graph

import (
	"math"
	"sync"
)

// Kind identifies a node kind. Kinds outside this package are assigned by
// their defining package and registered with RegisterKind.
type Kind int

const (
	// KindGeneric is a node with only the standard properties.
	KindGeneric Kind = iota
	// KindSubgraph wraps an embedded sub-DAG.
	KindSubgraph
)

// State of a node's scheduler participation.
type State int

const (
	// StatePlaying processes normally.
	StatePlaying State = iota
	// StatePaused keeps outputs silent while the tick counter advances.
	StatePaused
)

// Standard property slots, present on every node.
const (
	PropState                 = -100
	PropMul                   = -101
	PropAdd                   = -102
	PropChannelInterpretation = -103
)

// EventStateChanged fires after a write to PropState that changes its value.
const EventStateChanged = -100

// PropertyKind enumerates property value types.
type PropertyKind int

const (
	PropertyInt PropertyKind = iota
	PropertyFloat
	PropertyDouble
	PropertyString
	PropertyFloat3
	PropertyFloat6
	PropertyFloatArray
	PropertyIntArray
	PropertyBuffer
)

// PropertyMeta describes one property slot of a node kind.
type PropertyMeta struct {
	Name            string
	Kind            PropertyKind
	ReadOnly        bool
	HasDynamicRange bool
	Modulatable     bool

	DefaultFloat float64
	MinFloat     float64
	MaxFloat     float64

	DefaultInt int
	MinInt     int
	MaxInt     int

	DefaultString string
	DefaultFloat3 [3]float64
	DefaultFloat6 [6]float64

	DefaultFloatArray []float64
	DefaultIntArray   []int
	MinLength         int
	MaxLength         int
}

// EventMeta describes one event slot of a node kind.
type EventMeta struct {
	Name string
}

// Metadata is the per-kind property and event table.
type Metadata struct {
	Properties map[int]PropertyMeta
	Events     map[int]EventMeta
}

var (
	metadataMu sync.RWMutex
	metadata   = map[Kind]Metadata{}
)

// RegisterKind installs the metadata table for a node kind. Node-kind
// packages call this from init; standard properties need not be listed.
func RegisterKind(kind Kind, meta Metadata) {
	metadataMu.Lock()
	defer metadataMu.Unlock()

	metadata[kind] = meta
}

// FloatProperty is a PropertyMeta shorthand for a bounded float slot.
func FloatProperty(name string, def, min, max float64) PropertyMeta {
	return PropertyMeta{Name: name, Kind: PropertyFloat, DefaultFloat: def, MinFloat: min, MaxFloat: max}
}

// ModulatableFloatProperty is FloatProperty with an audio modulation input.
func ModulatableFloatProperty(name string, def, min, max float64) PropertyMeta {
	m := FloatProperty(name, def, min, max)
	m.Modulatable = true

	return m
}

// IntProperty is a PropertyMeta shorthand for a bounded int slot.
func IntProperty(name string, def, min, max int) PropertyMeta {
	return PropertyMeta{Name: name, Kind: PropertyInt, DefaultInt: def, MinInt: min, MaxInt: max}
}

// standardProperties are attached to every node regardless of kind.
func standardProperties() map[int]PropertyMeta {
	return map[int]PropertyMeta{
		PropState: {
			Name: "state", Kind: PropertyInt,
			DefaultInt: int(StatePlaying), MinInt: int(StatePlaying), MaxInt: int(StatePaused),
		},
		PropMul: {
			Name: "mul", Kind: PropertyFloat, Modulatable: true,
			DefaultFloat: 1, MinFloat: math.Inf(-1), MaxFloat: math.Inf(1),
		},
		PropAdd: {
			Name: "add", Kind: PropertyFloat, Modulatable: true,
			DefaultFloat: 0, MinFloat: math.Inf(-1), MaxFloat: math.Inf(1),
		},
		PropChannelInterpretation: {
			Name: "channel_interpretation", Kind: PropertyInt,
			DefaultInt: int(InterpretationSpeakers),
			MinInt:     int(InterpretationDiscrete), MaxInt: int(InterpretationSpeakers),
		},
	}
}

// standardEvents are attached to every node regardless of kind.
func standardEvents() map[int]EventMeta {
	return map[int]EventMeta{
		EventStateChanged: {Name: "state_changed"},
	}
}

// kindMetadata returns the merged metadata for kind: the standard table
// plus whatever the kind registered.
func kindMetadata(kind Kind) Metadata {
	metadataMu.RLock()
	registered := metadata[kind]
	metadataMu.RUnlock()

	merged := Metadata{
		Properties: standardProperties(),
		Events:     standardEvents(),
	}

	for slot, m := range registered.Properties {
		merged.Properties[slot] = m
	}

	for slot, m := range registered.Events {
		merged.Events[slot] = m
	}

	return merged
}
