package elder

import "testing"

func testApply(t *testing.T, p Primitive, args []Value, expected Value) {
	t.Helper()
	got, err := p.Apply(args)
	if err != nil {
		t.Fatalf("%s %v: %v", p, args, err)
	}
	if !ValuesEqual(got, expected) {
		t.Fatalf("%s: expected %s, got %s", p, Repr(expected), Repr(got))
	}
}

func TestPrimitiveNames(t *testing.T) {
	aliases := map[string]Primitive{
		"car":     PrimCar,
		"first":   PrimCar,
		"cdr":     PrimCdr,
		"rest":    PrimCdr,
		"cons":    PrimCons,
		"combine": PrimCons,
	}
	for name, want := range aliases {
		got, ok := LookupPrimitive(name)
		if !ok || got != want {
			t.Fatalf("%s: expected %s, got %s", name, want, got)
		}
	}
	if _, ok := LookupPrimitive("map"); ok {
		t.Fatal("map is a prelude function, not a primitive")
	}
}

func TestReserved(t *testing.T) {
	for _, name := range []string{"quote", "if", "cond", "lambda", "define", "let", "car", "eq?", "+"} {
		if !Reserved(name) {
			t.Fatalf("%s should be reserved", name)
		}
	}
	for _, name := range []string{"map", "x", "not"} {
		if Reserved(name) {
			t.Fatalf("%s should not be reserved", name)
		}
	}
}

func TestPrimitiveApply(t *testing.T) {
	l := ints(1, 2, 3)
	testApply(t, PrimList, nil, NilVal())
	testApply(t, PrimList, []Value{IntVal(1), IntVal(2), IntVal(3)}, l)
	testApply(t, PrimCar, []Value{l}, IntVal(1))
	testApply(t, PrimCdr, []Value{l}, ints(2, 3))
	testApply(t, PrimCons, []Value{IntVal(0), l}, ints(0, 1, 2, 3))
	testApply(t, PrimAtom, []Value{StringVal("s")}, BoolVal(true))
	testApply(t, PrimEq, []Value{l, ints(1, 2, 3)}, BoolVal(true))
	testApply(t, PrimLess, []Value{IntVal(1), RatVal(3, 2)}, BoolVal(true))
	testApply(t, PrimGreater, []Value{IntVal(1), RatVal(3, 2)}, BoolVal(false))
}

func TestConsSharesTail(t *testing.T) {
	tail := ints(2, 3)
	got, err := PrimCons.Apply([]Value{IntVal(1), tail})
	if err != nil {
		t.Fatal(err)
	}
	if got.List.Tail != tail.List {
		t.Fatal("cons should share the tail's cells")
	}
	if !ValuesEqual(tail, ints(2, 3)) {
		t.Fatal("cons must not modify its operand")
	}
}

func TestPrimitiveArity(t *testing.T) {
	if _, err := PrimCar.Apply([]Value{IntVal(1), IntVal(2)}); KindOf(err) != ArityMismatch {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
	if _, err := PrimAdd.Apply([]Value{IntVal(1)}); KindOf(err) != ArityMismatch {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}

func TestPrimitiveValueString(t *testing.T) {
	if s := PrimitiveVal(PrimCar).String(); s != "<primitive car>" {
		t.Fatalf("got %s", s)
	}
	c := ClosureVal(&Closure{Params: []string{"x", "y"}})
	if s := c.String(); s != "<lambda (x y)>" {
		t.Fatalf("got %s", s)
	}
}

func TestConsRejectsAtomTail(t *testing.T) {
	if _, err := Cons(IntVal(1), IntVal(2)); KindOf(err) != TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	v, err := Cons(IntVal(1), NilVal())
	if err != nil || !ValuesEqual(v, ints(1)) {
		t.Fatalf("expected (1), got %s (%v)", v, err)
	}
}
