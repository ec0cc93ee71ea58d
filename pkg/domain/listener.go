package domain

import "fmt"

// VariableNotification carries the information a VariableListener
// needs to recompute its shadow: the solution, the entity whose
// genuine variable just changed, and that variable's name.
type VariableNotification struct {
	Solution  any
	Entity    any
	EntityRef EntityRef
	Variable  string
}

// VariableListener recomputes one shadow variable after its source
// genuine variable changes. Listeners write only to shadow fields;
// per spec.md §4.5 these writes do not re-enter the before/after
// notification protocol.
type VariableListener interface {
	SourceEntity() string
	SourceVariable() string
	ShadowVariable() string
	AfterChange(n VariableNotification)
}

// ListenerGraph topologically orders a set of VariableListeners so
// that shadows are recomputed in dependency order — a shadow that
// reads another shadow's output is recomputed after its source.
// Building the graph detects cycles, rejecting them per spec.md §9
// ("the shadow-dependency graph must be a DAG").
type ListenerGraph struct {
	ordered []VariableListener
}

// BuildListenerGraph topologically sorts listeners by
// (SourceEntity, SourceVariable) -> (SourceEntity, ShadowVariable)
// edges, returning an error if a cycle is detected.
func BuildListenerGraph(listeners []VariableListener) (*ListenerGraph, error) {
	// node key: entity.variable (genuine or shadow)
	key := func(entity, variable string) string { return entity + "." + variable }

	byProduced := make(map[string]VariableListener, len(listeners))
	for _, l := range listeners {
		byProduced[key(l.SourceEntity(), l.ShadowVariable())] = l
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(listeners))
	var ordered []VariableListener

	var visit func(l VariableListener) error
	visit = func(l VariableListener) error {
		k := key(l.SourceEntity(), l.ShadowVariable())
		switch color[k] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("domain: shadow-dependency cycle detected at %s", k)
		}
		color[k] = gray
		if dep, ok := byProduced[key(l.SourceEntity(), l.SourceVariable())]; ok {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[k] = black
		ordered = append(ordered, l)
		return nil
	}

	for _, l := range listeners {
		if err := visit(l); err != nil {
			return nil, err
		}
	}
	return &ListenerGraph{ordered: ordered}, nil
}

// Ordered returns the listeners in topological (dependency-first) order.
func (g *ListenerGraph) Ordered() []VariableListener { return g.ordered }
