package elder

import "fmt"

// Primitive tags one built-in operation. Primitive values are first-class: a
// primitive name evaluated on its own yields its tag, which can be passed to
// and applied by user closures.
type Primitive int

const (
	PrimList Primitive = iota + 1
	PrimCar
	PrimCdr
	PrimCons
	PrimAtom
	PrimEq
	PrimAdd
	PrimSub
	PrimMul
	PrimDiv
	PrimMod
	PrimLess
	PrimGreater
)

var primitiveNames = map[string]Primitive{
	"list":    PrimList,
	"car":     PrimCar,
	"first":   PrimCar,
	"cdr":     PrimCdr,
	"rest":    PrimCdr,
	"cons":    PrimCons,
	"combine": PrimCons,
	"atom?":   PrimAtom,
	"eq?":     PrimEq,
	"+":       PrimAdd,
	"-":       PrimSub,
	"*":       PrimMul,
	"/":       PrimDiv,
	"%":       PrimMod,
	"<":       PrimLess,
	">":       PrimGreater,
}

// specialForms are keywords whose operands are not evaluated up front.
var specialForms = map[string]bool{
	"quote":  true,
	"if":     true,
	"cond":   true,
	"lambda": true,
	"define": true,
	"let":    true,
}

// LookupPrimitive resolves a reserved primitive name, including aliases.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitiveNames[name]
	return p, ok
}

// Reserved reports whether name is a keyword that cannot be rebound.
func Reserved(name string) bool {
	_, prim := primitiveNames[name]
	return prim || specialForms[name]
}

func (p Primitive) String() string {
	switch p {
	case PrimList:
		return "list"
	case PrimCar:
		return "car"
	case PrimCdr:
		return "cdr"
	case PrimCons:
		return "cons"
	case PrimAtom:
		return "atom?"
	case PrimEq:
		return "eq?"
	case PrimAdd:
		return "+"
	case PrimSub:
		return "-"
	case PrimMul:
		return "*"
	case PrimDiv:
		return "/"
	case PrimMod:
		return "%"
	case PrimLess:
		return "<"
	case PrimGreater:
		return ">"
	}
	return fmt.Sprintf("primitive(%d)", int(p))
}

func (p Primitive) arity() int {
	switch p {
	case PrimList:
		return -1
	case PrimCar, PrimCdr, PrimAtom:
		return 1
	}
	return 2
}

// Apply runs the primitive on already-evaluated arguments.
func (p Primitive) Apply(args []Value) (Value, error) {
	if n := p.arity(); n >= 0 && len(args) != n {
		return Value{}, &EvalError{
			Kind: ArityMismatch,
			Op:   p.String(),
			Msg:  fmt.Sprintf("expected %d args, got %d", n, len(args)),
		}
	}
	switch p {
	case PrimList:
		return ListVal(args), nil
	case PrimCar:
		return primCar(args[0])
	case PrimCdr:
		return primCdr(args[0])
	case PrimCons:
		return primCons(args[0], args[1])
	case PrimAtom:
		return BoolVal(args[0].IsAtom()), nil
	case PrimEq:
		return BoolVal(ValuesEqual(args[0], args[1])), nil
	case PrimAdd, PrimSub, PrimMul, PrimDiv, PrimMod:
		return Arith(p.String(), args[0], args[1])
	case PrimLess:
		c, err := Compare("<", args[0], args[1])
		if err != nil {
			return Value{}, err
		}
		return BoolVal(c < 0), nil
	case PrimGreater:
		c, err := Compare(">", args[0], args[1])
		if err != nil {
			return Value{}, err
		}
		return BoolVal(c > 0), nil
	}
	return Value{}, &EvalError{Kind: NotCallable, Op: p.String(), Msg: "unknown primitive"}
}

func primCar(v Value) (Value, error) {
	if !v.IsList() {
		return Value{}, newError(TypeMismatch, "car", v, "car/first requires a non-empty list, got %s", v.KindName())
	}
	return v.List.Head, nil
}

func primCdr(v Value) (Value, error) {
	if !v.IsList() {
		return Value{}, newError(TypeMismatch, "cdr", v, "cdr/rest requires a non-empty list, got %s", v.KindName())
	}
	return listFromCell(v.List.Tail), nil
}

// primCons follows the dialect's rules: consing onto Nil gives a one-element
// list, consing Nil onto anything gives the other operand unchanged, and
// consing onto an atom gives a two-element list.
func primCons(a, b Value) (Value, error) {
	switch {
	case b.Kind == ValNil:
		return ListVal([]Value{a}), nil
	case a.Kind == ValNil:
		return b, nil
	case b.IsList():
		return Cons(a, b)
	default:
		return ListVal([]Value{a, b}), nil
	}
}
