package domain

import (
	"fmt"
	"reflect"

	"github.com/gitrdm/solverforge/pkg/score"
)

// EntityExtractor returns an addressable reflect.Value for the slice
// field holding one entity collection within a solution. It is the
// sole mechanism by which the generic core accesses user-defined
// collection fields (SPEC_FULL.md "Domain descriptors" contract).
type EntityExtractor func(solution any) reflect.Value

// EntityDescriptor describes one entity collection: its planning
// variables and the extractor used to reach its backing slice.
type EntityDescriptor struct {
	Name       string
	Variables  []*VariableDescriptor
	Extractor  EntityExtractor
	PlanningID func(entity any) any
}

// VariableByName looks up a variable descriptor by name, panicking if
// absent — a descriptor/extractor mismatch is a build-time error
// (spec.md §7), so callers are expected to have validated the name
// already via SolutionDescriptor.Validate.
func (ed *EntityDescriptor) VariableByName(name string) *VariableDescriptor {
	for _, v := range ed.Variables {
		if v.Name == name {
			return v
		}
	}
	panic(fmt.Sprintf("domain: entity %q has no variable %q", ed.Name, name))
}

// FactDescriptor describes one immutable problem-fact collection.
type FactDescriptor struct {
	Name      string
	Extractor EntityExtractor
}

// SolutionDescriptor is built once from the user's declarations. It
// enumerates entity and fact descriptors and owns the named value
// ranges they reference.
type SolutionDescriptor struct {
	ScoreKind   score.Kind
	Entities    []*EntityDescriptor
	Facts       []*FactDescriptor
	ValueRanges map[string]ValueRangeProvider

	// CloneFn overrides the default reflection-based deep copy used by
	// Clone. Most users never set this; it exists for solutions whose
	// shadow fields hold unclonable resources (open handles, channels).
	CloneFn func(solution any) any
}

// NewSolutionDescriptor builds an empty descriptor for the given
// score kind; entities, facts, and value ranges are registered via
// AddEntity / AddFact / AddValueRange before the descriptor is handed
// to a director.
func NewSolutionDescriptor(scoreKind score.Kind) *SolutionDescriptor {
	return &SolutionDescriptor{
		ScoreKind:   scoreKind,
		ValueRanges: make(map[string]ValueRangeProvider),
	}
}

func (sd *SolutionDescriptor) AddEntity(ed *EntityDescriptor) *SolutionDescriptor {
	sd.Entities = append(sd.Entities, ed)
	return sd
}

func (sd *SolutionDescriptor) AddFact(fd *FactDescriptor) *SolutionDescriptor {
	sd.Facts = append(sd.Facts, fd)
	return sd
}

func (sd *SolutionDescriptor) AddValueRange(id string, vr ValueRangeProvider) *SolutionDescriptor {
	sd.ValueRanges[id] = vr
	return sd
}

// EntityDescriptorFor returns the descriptor for a named entity
// collection, or nil if none is registered.
func (sd *SolutionDescriptor) EntityDescriptorFor(name string) *EntityDescriptor {
	for _, ed := range sd.Entities {
		if ed.Name == name {
			return ed
		}
	}
	return nil
}

func (sd *SolutionDescriptor) extractorFor(name string) EntityExtractor {
	if ed := sd.EntityDescriptorFor(name); ed != nil {
		return ed.Extractor
	}
	for _, fd := range sd.Facts {
		if fd.Name == name {
			return fd.Extractor
		}
	}
	panic(fmt.Sprintf("domain: no entity or fact collection named %q", name))
}

// CollectionLen returns the length of the named collection within
// solution.
func (sd *SolutionDescriptor) CollectionLen(solution any, collection string) int {
	return sd.extractorFor(collection)(solution).Len()
}

// EntityAt resolves ref to the live entity value it identifies. The
// returned value is valid until the solution is next mutated through
// the director (SPEC_FULL.md's extractor contract).
func (sd *SolutionDescriptor) EntityAt(solution any, ref EntityRef) any {
	slice := sd.extractorFor(ref.Collection)(solution)
	return slice.Index(ref.Position).Addr().Interface()
}

// Clone produces a deep-copied snapshot of solution, the mechanism
// behind director.CloneWorkingSolution and the best-so-far sink
// (spec.md §4.5). If CloneFn is unset, a reflection-based deep copy is
// used: safe for the plain struct/slice/map/pointer solution shapes
// this engine's examples use, matching the teacher's own reflect-based
// generic traversal in term_utils.go rather than requiring every user
// solution type to hand-write a Clone method.
func (sd *SolutionDescriptor) Clone(solution any) any {
	if sd.CloneFn != nil {
		return sd.CloneFn(solution)
	}
	v := reflect.ValueOf(solution)
	return deepCopy(v).Interface()
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			f := out.Field(i)
			if !f.CanSet() {
				continue
			}
			f.Set(deepCopy(v.Field(i)))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	default:
		return v
	}
}

// Validate checks descriptor/extractor mismatches that spec.md §7
// classifies as domain-model errors: a variable naming a value range
// that was never declared.
func (sd *SolutionDescriptor) Validate() error {
	for _, ed := range sd.Entities {
		for _, v := range ed.Variables {
			if v.Kind == VariableShadow {
				continue
			}
			if v.ValueRangeID == "" {
				continue
			}
			if _, ok := sd.ValueRanges[v.ValueRangeID]; !ok {
				return fmt.Errorf("%w: entity %q variable %q references undeclared value range %q",
					ErrDomainModel, ed.Name, v.Name, v.ValueRangeID)
			}
		}
	}
	return nil
}
