package scope

import (
	"sort"

	"github.com/arnavsurve/minipas/internal/compiler/value"
)

// --- Environment ---

// Environment holds the variables of one program run. Each run constructs its
// own; an Environment is not safe for concurrent use.
type Environment struct {
	vars map[string]value.Number
}

func New() *Environment {
	return &Environment{vars: make(map[string]value.Number)}
}

// Set binds name to val, replacing any previous binding.
func (e *Environment) Set(name string, val value.Number) {
	e.vars[name] = val
}

// Get looks up name. The second result is false if it was never assigned.
func (e *Environment) Get(name string) (value.Number, bool) {
	val, ok := e.vars[name]
	return val, ok
}

func (e *Environment) Len() int {
	return len(e.vars)
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the bindings into a fresh map.
func (e *Environment) Snapshot() map[string]value.Number {
	out := make(map[string]value.Number, len(e.vars))
	for name, val := range e.vars {
		out[name] = val
	}
	return out
}
