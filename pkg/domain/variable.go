package domain

// VariableKind enumerates the planning-variable variants of spec.md
// §3: basic ("Genuine" below — it is the only non-shadow, non-list,
// non-chained kind), chained, list, and shadow.
type VariableKind int

const (
	// VariableGenuine is a basic, single-valued planning variable.
	VariableGenuine VariableKind = iota
	// VariableChained points to an anchor fact or another entity;
	// chained variables form a forest of chains.
	VariableChained
	// VariableList is an ordered sequence of value references owned
	// by the entity.
	VariableList
	// VariableShadow is derived from genuine variables by a listener.
	VariableShadow
)

func (k VariableKind) String() string {
	switch k {
	case VariableGenuine:
		return "genuine"
	case VariableChained:
		return "chained"
	case VariableList:
		return "list"
	case VariableShadow:
		return "shadow"
	default:
		return "unknown"
	}
}

// ShadowKind enumerates the derived-variable kinds spec.md §3 names:
// inverse, anchor, next/previous, index, and arbitrary user-computed.
type ShadowKind int

const (
	ShadowInverse ShadowKind = iota
	ShadowAnchor
	ShadowNext
	ShadowPrevious
	ShadowIndex
	ShadowCustom
)

func (k ShadowKind) String() string {
	switch k {
	case ShadowInverse:
		return "inverse"
	case ShadowAnchor:
		return "anchor"
	case ShadowNext:
		return "next"
	case ShadowPrevious:
		return "previous"
	case ShadowIndex:
		return "index"
	case ShadowCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ValueRangeKind enumerates the three value-range shapes of spec.md
// §3: an explicit list, a half-open integer interval, or references
// into a named entity/fact collection.
type ValueRangeKind int

const (
	ValueRangeExplicitList ValueRangeKind = iota
	ValueRangeInterval
	ValueRangeCollectionRefs
)

// VariableDescriptor records everything the generic core needs to
// know about one planning-variable field, without knowing the
// entity's concrete Go type: its name, kind, the identifier of its
// value range, whether that range is solution-independent (static)
// or entity-dependent, and — for shadows — the source it listens to.
type VariableDescriptor struct {
	Name             string
	Kind             VariableKind
	AllowsUnassigned bool
	ValueRangeID     string
	EntityDependentRange bool

	// ShadowOf and ShadowSourceVariable are populated only when Kind
	// == VariableShadow: the entity type and variable name this
	// shadow derives from.
	ShadowKind           ShadowKind
	ShadowOf             string
	ShadowSourceVariable string

	// Get/Set are the field-level extractors: reflection-backed
	// closures bound once at descriptor-build time, reaching into the
	// concrete entity type without the rest of the core importing it.
	Get func(entity any) any
	Set func(entity any, value any)
}

// Genuine creates a basic planning-variable descriptor.
func Genuine(name, valueRangeID string, get func(any) any, set func(any, any)) *VariableDescriptor {
	return &VariableDescriptor{Name: name, Kind: VariableGenuine, ValueRangeID: valueRangeID, Get: get, Set: set}
}

// Chained creates a chained planning-variable descriptor.
func Chained(name, valueRangeID string, get func(any) any, set func(any, any)) *VariableDescriptor {
	return &VariableDescriptor{Name: name, Kind: VariableChained, ValueRangeID: valueRangeID, Get: get, Set: set}
}

// List creates a list planning-variable descriptor.
func List(name, valueRangeID string, get func(any) any, set func(any, any)) *VariableDescriptor {
	return &VariableDescriptor{Name: name, Kind: VariableList, ValueRangeID: valueRangeID, Get: get, Set: set}
}

// Shadow creates a shadow-variable descriptor listening on
// (sourceEntity, sourceVariable).
func Shadow(name string, kind ShadowKind, sourceEntity, sourceVariable string, get func(any) any, set func(any, any)) *VariableDescriptor {
	return &VariableDescriptor{
		Name:                 name,
		Kind:                 VariableShadow,
		AllowsUnassigned:     true,
		ShadowKind:           kind,
		ShadowOf:             sourceEntity,
		ShadowSourceVariable: sourceVariable,
		Get:                  get,
		Set:                  set,
	}
}

// WithAllowsUnassigned marks the descriptor as permitting an
// unassigned (nil) value and returns it for chaining.
func (vd *VariableDescriptor) WithAllowsUnassigned(allowed bool) *VariableDescriptor {
	vd.AllowsUnassigned = allowed
	return vd
}

// WithEntityDependentRange marks the descriptor's value range as
// computed per solution state rather than static.
func (vd *VariableDescriptor) WithEntityDependentRange() *VariableDescriptor {
	vd.EntityDependentRange = true
	return vd
}
