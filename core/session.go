package elder

import (
	"fmt"
	"log"
)

// FormLog persists the source of top-level forms that changed the global
// environment, so a later session can replay them.
type FormLog interface {
	Append(form string) error
	Forms() ([]string, error)
	Clear() error
}

type SessionOptions struct {
	Log       FormLog     // nil disables persistence
	MaxDepth  int         // evaluator recursion ceiling, 0 for DefaultMaxDepth
	MaxTraces int         // trace ring size, 0 for 1000
	Logger    *log.Logger // evaluator debug logger, nil for none
}

// Session is a top-level evaluation context: one global environment seeded
// with the prelude, the traces of recent forms, and an optional form log.
type Session struct {
	env       *Env
	eval      *Evaluator
	log       FormLog
	traces    []Trace
	maxTraces int
}

type Binding struct {
	Name  string
	Value Value
}

// NewSession builds a session and replays any forms already in opts.Log.
func NewSession(opts SessionOptions) (*Session, error) {
	s := &Session{
		eval:      &Evaluator{MaxDepth: opts.MaxDepth, Logger: opts.Logger},
		log:       opts.Log,
		maxTraces: opts.MaxTraces,
	}
	if s.maxTraces <= 0 {
		s.maxTraces = 1000
	}
	if err := s.resetEnv(); err != nil {
		return nil, err
	}
	if err := s.replay(); err != nil {
		return nil, fmt.Errorf("replay log: %w", err)
	}
	return s, nil
}

func (s *Session) resetEnv() error {
	env := NewEnv()
	if err := LoadPrelude(s.eval, env); err != nil {
		return err
	}
	s.env = env
	return nil
}

func (s *Session) replay() error {
	if s.log == nil {
		return nil
	}
	entries, err := s.log.Forms()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, _, err := s.eval.EvalString(s.env, entry); err != nil {
			return fmt.Errorf("replaying %q: %w", entry, err)
		}
	}
	return nil
}

// Env returns the session's global environment.
func (s *Session) Env() *Env { return s.env }

// Eval parses src and evaluates its forms in order, returning the value of
// the last one. Evaluation stops at the first failing form; forms before it
// stay committed and the failing form leaves the environment untouched.
func (s *Session) Eval(src string) (Value, error) {
	forms, err := ParseAll(src)
	if err != nil {
		return Value{}, err
	}
	result := NilVal()
	for _, form := range forms {
		result, err = s.EvalForm(form)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

// EvalForm evaluates one top-level form. If the form fails, every binding it
// made in the global frame is rolled back.
func (s *Session) EvalForm(form Value) (Value, error) {
	trace := newTrace(form)
	snap := s.env.snapshot()
	before := s.env.version

	val, env, err := s.eval.Evaluate(s.env, form)
	s.env = env
	if err == nil && s.log != nil && s.env.version != before {
		if lerr := s.log.Append(Repr(form)); lerr != nil {
			err = fmt.Errorf("persist form: %w", lerr)
		}
	}
	if err != nil {
		s.env.restore(snap)
		trace.fail(err)
		s.appendTrace(trace)
		return Value{}, err
	}

	trace.Result = val
	s.appendTrace(trace)
	return val, nil
}

// Bindings lists every global binding, sorted by name.
func (s *Session) Bindings() []Binding {
	names := s.env.Names()
	out := make([]Binding, 0, len(names))
	for _, name := range names {
		v, err := s.env.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, Binding{Name: name, Value: v})
	}
	return out
}

// Traces returns up to the last n traces, oldest first. n <= 0 returns all.
func (s *Session) Traces(n int) []Trace {
	if n <= 0 || n > len(s.traces) {
		n = len(s.traces)
	}
	out := make([]Trace, n)
	copy(out, s.traces[len(s.traces)-n:])
	return out
}

// Reset clears the form log and traces and returns the environment to the
// prelude.
func (s *Session) Reset() error {
	if s.log != nil {
		if err := s.log.Clear(); err != nil {
			return fmt.Errorf("reset: clear log: %w", err)
		}
	}
	s.traces = nil
	return s.resetEnv()
}

// appendTrace adds a trace and enforces the maxTraces cap.
func (s *Session) appendTrace(t *Trace) {
	s.traces = append(s.traces, *t)
	if len(s.traces) > s.maxTraces {
		excess := len(s.traces) - s.maxTraces
		s.traces = s.traces[excess:]
	}
}
