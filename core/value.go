package elder

import (
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValNil ValueKind = iota
	ValBool
	ValInt
	ValRational
	ValChar
	ValString
	ValSymbol
	ValClosure
	ValPrimitive
	ValList
)

// Cell is one node of a persistent list. A nil Tail terminates the list, so
// every list reachable from a Value is proper.
type Cell struct {
	Head Value
	Tail *Cell
}

type Closure struct {
	Params []string
	Body   Value
	Env    *Env
}

type Value struct {
	Kind ValueKind
	Int  int64 // Int payload, or numerator for Rational
	Den  int64 // denominator for Rational, always > 1 once simplified
	Bool bool
	Char rune
	Str  string // String and Symbol payload
	Prim Primitive
	Fn   *Closure
	List *Cell
}

func NilVal() Value                  { return Value{Kind: ValNil} }
func BoolVal(b bool) Value           { return Value{Kind: ValBool, Bool: b} }
func IntVal(n int64) Value           { return Value{Kind: ValInt, Int: n} }
func CharVal(c rune) Value           { return Value{Kind: ValChar, Char: c} }
func StringVal(s string) Value       { return Value{Kind: ValString, Str: s} }
func SymbolVal(s string) Value       { return Value{Kind: ValSymbol, Str: s} }
func PrimitiveVal(p Primitive) Value { return Value{Kind: ValPrimitive, Prim: p} }
func ClosureVal(c *Closure) Value    { return Value{Kind: ValClosure, Fn: c} }

// RatVal builds a rational in lowest terms. It returns an Int when the
// denominator divides the numerator and panics on a zero denominator; use
// Simplify when the denominator comes from user input.
func RatVal(num, den int64) Value {
	v, err := Simplify(num, den)
	if err != nil {
		panic(err)
	}
	return v
}

// ListVal builds a list from elems. An empty slice yields Nil.
func ListVal(elems []Value) Value {
	var head *Cell
	for i := len(elems) - 1; i >= 0; i-- {
		head = &Cell{Head: elems[i], Tail: head}
	}
	return listFromCell(head)
}

func listFromCell(c *Cell) Value {
	if c == nil {
		return NilVal()
	}
	return Value{Kind: ValList, List: c}
}

// Cons prepends head to tail, sharing tail's cells. An atom tail would make
// an improper list and fails with TypeMismatch.
func Cons(head Value, tail Value) (Value, error) {
	if tail.Kind != ValNil && tail.Kind != ValList {
		return Value{}, newError(TypeMismatch, "cons", tail, "tail must be a list, got %s", tail.KindName())
	}
	return Value{Kind: ValList, List: &Cell{Head: head, Tail: tail.List}}, nil
}

// IsList reports whether v is a non-empty list.
func (v Value) IsList() bool { return v.Kind == ValList && v.List != nil }

// IsAtom reports whether v is not a list, or is the empty list.
func (v Value) IsAtom() bool { return !v.IsList() }

// Elems copies the list elements into a slice. Atoms yield nil.
func (v Value) Elems() []Value {
	if !v.IsList() {
		return nil
	}
	var out []Value
	for c := v.List; c != nil; c = c.Tail {
		out = append(out, c.Head)
	}
	return out
}

// Len returns the number of list elements; atoms have length 0.
func (v Value) Len() int {
	n := 0
	if v.Kind != ValList {
		return 0
	}
	for c := v.List; c != nil; c = c.Tail {
		n++
	}
	return n
}

func (v Value) String() string {
	switch v.Kind {
	case ValNil:
		return "()"
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValRational:
		return strconv.FormatInt(v.Int, 10) + "/" + strconv.FormatInt(v.Den, 10)
	case ValChar:
		for name, c := range charNames {
			if c == v.Char {
				return `#\` + name
			}
		}
		return `#\` + string(v.Char)
	case ValString:
		return v.Str
	case ValSymbol:
		return v.Str
	case ValPrimitive:
		return fmt.Sprintf("<primitive %s>", v.Prim)
	case ValClosure:
		return fmt.Sprintf("<lambda (%s)>", strings.Join(v.Fn.Params, " "))
	case ValList:
		var parts []string
		for c := v.List; c != nil; c = c.Tail {
			parts = append(parts, Repr(c.Head))
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

// Repr prints v the way the reader would accept it back: strings are quoted.
func Repr(v Value) string {
	if v.Kind == ValString {
		return strconv.Quote(v.Str)
	}
	return v.String()
}

func (v Value) KindName() string {
	switch v.Kind {
	case ValNil:
		return "Nil"
	case ValBool:
		return "Bool"
	case ValInt:
		return "Int"
	case ValRational:
		return "Rational"
	case ValChar:
		return "Char"
	case ValString:
		return "String"
	case ValSymbol:
		return "Symbol"
	case ValClosure:
		return "Closure"
	case ValPrimitive:
		return "Primitive"
	case ValList:
		return "List"
	default:
		return "Unknown"
	}
}

// ValuesEqual is the eq? relation: structural on atoms, elementwise on lists.
// Nil and the empty list are the same value. Closures compare by identity.
func ValuesEqual(a, b Value) bool {
	if a.Kind == ValList && a.List == nil {
		a = NilVal()
	}
	if b.Kind == ValList && b.List == nil {
		b = NilVal()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValNil:
		return true
	case ValBool:
		return a.Bool == b.Bool
	case ValInt:
		return a.Int == b.Int
	case ValRational:
		return a.Int == b.Int && a.Den == b.Den
	case ValChar:
		return a.Char == b.Char
	case ValString, ValSymbol:
		return a.Str == b.Str
	case ValPrimitive:
		return a.Prim == b.Prim
	case ValClosure:
		return a.Fn == b.Fn
	case ValList:
		x, y := a.List, b.List
		for x != nil && y != nil {
			if x == y {
				return true
			}
			if !ValuesEqual(x.Head, y.Head) {
				return false
			}
			x, y = x.Tail, y.Tail
		}
		return x == nil && y == nil
	}
	return false
}

// ValueToGo converts a Value to a native Go value for JSON serialization.
func ValueToGo(v Value) (any, error) {
	switch v.Kind {
	case ValNil:
		return nil, nil
	case ValBool:
		return v.Bool, nil
	case ValInt:
		return v.Int, nil
	case ValRational, ValChar, ValSymbol, ValPrimitive, ValClosure:
		return v.String(), nil
	case ValString:
		return v.Str, nil
	case ValList:
		var arr []any
		for c := v.List; c != nil; c = c.Tail {
			j, err := ValueToGo(c.Head)
			if err != nil {
				return nil, err
			}
			arr = append(arr, j)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}
