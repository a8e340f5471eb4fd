package elder

import (
	"time"

	"github.com/google/uuid"
)

// Trace records one top-level form evaluated by a Session: the source form,
// and either its result or the error that aborted it.
type Trace struct {
	ID        string    // random uuid, stable across the trace's lifetime
	Form      string    // printed form as evaluated
	Result    Value     // final result value, Nil on error
	Error     string    // non-empty on error
	Kind      ErrorKind // error kind, 0 on success or non-evaluation errors
	Timestamp time.Time
}

func newTrace(form Value) *Trace {
	return &Trace{
		ID:        uuid.NewString(),
		Form:      Repr(form),
		Result:    NilVal(),
		Timestamp: time.Now().UTC(),
	}
}

func (t *Trace) fail(err error) {
	t.Error = err.Error()
	t.Kind = KindOf(err)
}

// ToValue renders the trace as an association list of (key value) pairs.
func (t *Trace) ToValue() Value {
	errVal := NilVal()
	if t.Error != "" {
		errVal = StringVal(t.Error)
	}
	pair := func(k string, v Value) Value {
		return ListVal([]Value{SymbolVal(k), v})
	}
	return ListVal([]Value{
		pair("id", StringVal(t.ID)),
		pair("form", StringVal(t.Form)),
		pair("result", t.Result),
		pair("error", errVal),
		pair("timestamp", StringVal(t.Timestamp.Format(time.RFC3339))),
	})
}

// ToMap renders the trace for JSON responses.
func (t *Trace) ToMap() map[string]any {
	m := map[string]any{
		"id":        t.ID,
		"form":      t.Form,
		"timestamp": t.Timestamp.Format(time.RFC3339),
	}
	if t.Error != "" {
		m["error"] = t.Error
		if t.Kind != 0 {
			m["kind"] = t.Kind.String()
		}
		return m
	}
	m["result"] = Repr(t.Result)
	return m
}
