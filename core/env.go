package elder

import (
	"fmt"
	"sort"
)

// Env is one frame of a lexical environment chain. Closures keep a pointer to
// the frame they were created in, which keeps the whole chain above it alive.
type Env struct {
	bindings map[string]Value
	parent   *Env
	version  int // bumped on every Define in this frame
}

// NewEnv returns an empty top-level frame.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]Value)}
}

// Push allocates a new empty frame whose parent is e.
func (e *Env) Push() *Env {
	return &Env{bindings: make(map[string]Value), parent: e}
}

// Parent returns the enclosing frame, or nil at the top level.
func (e *Env) Parent() *Env { return e.parent }

// Lookup walks the chain innermost-first.
func (e *Env) Lookup(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.bindings[name]; ok {
			return v, nil
		}
	}
	return Value{}, &EvalError{Kind: UnboundSymbol, Msg: name}
}

// Define binds name in the current frame, replacing any earlier binding there.
func (e *Env) Define(name string, v Value) {
	e.bindings[name] = v
	e.version++
}

// BindParams binds each parameter to the matching argument in e.
func (e *Env) BindParams(params []string, args []Value) error {
	if len(params) != len(args) {
		return &EvalError{
			Kind: ArityMismatch,
			Op:   "lambda",
			Msg:  fmt.Sprintf("expected %d args, got %d", len(params), len(args)),
		}
	}
	for i, p := range params {
		e.bindings[p] = args[i]
	}
	return nil
}

// Names returns every name visible from e, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	for f := e; f != nil; f = f.parent {
		for k := range f.bindings {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Depth is the number of frames from e to the top level, inclusive.
func (e *Env) Depth() int {
	n := 0
	for f := e; f != nil; f = f.parent {
		n++
	}
	return n
}

// snapshot copies the current frame's bindings so a failed top-level form
// can be rolled back.
func (e *Env) snapshot() map[string]Value {
	m := make(map[string]Value, len(e.bindings))
	for k, v := range e.bindings {
		m[k] = v
	}
	return m
}

func (e *Env) restore(m map[string]Value) {
	e.bindings = m
	e.version++
}
