package elder

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	UnboundSymbol ErrorKind = iota + 1
	ArityMismatch
	TypeMismatch
	MalformedForm
	NotCallable
	DivisionByZero
	RecursionLimitExceeded
	Overflow
)

var (
	ErrUnboundSymbol          = errors.New("unbound symbol")
	ErrArityMismatch          = errors.New("arity mismatch")
	ErrTypeMismatch           = errors.New("type mismatch")
	ErrMalformedForm          = errors.New("malformed form")
	ErrNotCallable            = errors.New("not callable")
	ErrDivisionByZero         = errors.New("division by zero")
	ErrRecursionLimitExceeded = errors.New("recursion limit exceeded")
	ErrOverflow               = errors.New("integer overflow")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case UnboundSymbol:
		return ErrUnboundSymbol
	case ArityMismatch:
		return ErrArityMismatch
	case TypeMismatch:
		return ErrTypeMismatch
	case MalformedForm:
		return ErrMalformedForm
	case NotCallable:
		return ErrNotCallable
	case DivisionByZero:
		return ErrDivisionByZero
	case RecursionLimitExceeded:
		return ErrRecursionLimitExceeded
	case Overflow:
		return ErrOverflow
	}
	return nil
}

func (k ErrorKind) String() string {
	switch k {
	case UnboundSymbol:
		return "UnboundSymbol"
	case ArityMismatch:
		return "ArityMismatch"
	case TypeMismatch:
		return "TypeMismatch"
	case MalformedForm:
		return "MalformedForm"
	case NotCallable:
		return "NotCallable"
	case DivisionByZero:
		return "DivisionByZero"
	case RecursionLimitExceeded:
		return "RecursionLimitExceeded"
	case Overflow:
		return "Overflow"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// EvalError aborts evaluation of the current top-level form. Op names the
// form or primitive that failed and Expr the offending sub-expression, when
// one is known.
type EvalError struct {
	Kind ErrorKind
	Op   string
	Expr string
	Msg  string
}

func (e *EvalError) Error() string {
	s := e.Kind.sentinel().Error()
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Expr != "" {
		s += " (in " + e.Expr + ")"
	}
	return s
}

// Is lets errors.Is match an EvalError against the sentinel for its kind.
func (e *EvalError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind ErrorKind, op string, expr Value, format string, args ...any) *EvalError {
	e := &EvalError{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
	if expr.Kind != ValNil {
		e.Expr = Repr(expr)
	}
	return e
}

// KindOf returns the kind of an evaluation error, or 0 for other errors.
func KindOf(err error) ErrorKind {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}

// ParseError reports malformed source text.
type ParseError struct {
	Pos        int
	Msg        string
	incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// Incomplete reports whether err means the reader ran out of input inside an
// unfinished form, so more input could complete it.
func Incomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.incomplete
}
