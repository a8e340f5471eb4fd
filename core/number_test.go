package elder

import (
	"errors"
	"testing"
)

func testArith(t *testing.T, op string, a, b, expected Value) {
	t.Helper()
	got, err := Arith(op, a, b)
	if err != nil {
		t.Fatalf("%s %s %s: %v", Repr(a), op, Repr(b), err)
	}
	if !ValuesEqual(got, expected) {
		t.Fatalf("%s %s %s: expected %s, got %s", Repr(a), op, Repr(b), Repr(expected), Repr(got))
	}
}

func TestSimplify(t *testing.T) {
	v, err := Simplify(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != ValRational || v.Int != 1 || v.Den != 2 {
		t.Fatalf("expected 1/2, got %s", v)
	}

	v, _ = Simplify(4, 2)
	if v.Kind != ValInt || v.Int != 2 {
		t.Fatalf("expected Int 2, got %s", v)
	}

	v, _ = Simplify(1, -2)
	if v.Int != -1 || v.Den != 2 {
		t.Fatalf("expected -1/2, got %s", v)
	}

	v, _ = Simplify(0, 5)
	if v.Kind != ValInt || v.Int != 0 {
		t.Fatalf("expected 0, got %s", v)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	for _, pair := range [][2]int64{{6, 9}, {-10, 4}, {7, 7}, {3, -9}} {
		once, err := Simplify(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		den := once.Den
		if once.Kind == ValInt {
			den = 1
		}
		twice, err := Simplify(once.Int, den)
		if err != nil {
			t.Fatal(err)
		}
		if !ValuesEqual(once, twice) {
			t.Fatalf("simplify %d/%d not idempotent: %s then %s", pair[0], pair[1], once, twice)
		}
	}
}

func TestSimplifyZeroDenominator(t *testing.T) {
	if _, err := Simplify(1, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
}

func TestIntArith(t *testing.T) {
	testArith(t, "+", IntVal(2), IntVal(3), IntVal(5))
	testArith(t, "-", IntVal(2), IntVal(3), IntVal(-1))
	testArith(t, "*", IntVal(-4), IntVal(3), IntVal(-12))
	testArith(t, "/", IntVal(4), IntVal(2), IntVal(2))
	testArith(t, "/", IntVal(2), IntVal(4), RatVal(1, 2))
	testArith(t, "%", IntVal(7), IntVal(3), IntVal(1))
	testArith(t, "%", IntVal(-7), IntVal(3), IntVal(-1))
}

func TestRationalArith(t *testing.T) {
	half, third := RatVal(1, 2), RatVal(1, 3)
	testArith(t, "+", half, third, RatVal(5, 6))
	testArith(t, "+", half, half, IntVal(1))
	testArith(t, "-", half, IntVal(1), RatVal(-1, 2))
	testArith(t, "*", half, IntVal(4), IntVal(2))
	testArith(t, "/", IntVal(3), half, IntVal(6))
	testArith(t, "/", half, third, RatVal(3, 2))
	testArith(t, "%", RatVal(7, 2), IntVal(1), half)
}

func TestArithDivisionByZero(t *testing.T) {
	for _, op := range []string{"/", "%"} {
		if _, err := Arith(op, IntVal(1), IntVal(0)); KindOf(err) != DivisionByZero {
			t.Fatalf("%s by zero: expected DivisionByZero, got %v", op, err)
		}
		if _, err := Arith(op, RatVal(1, 2), IntVal(0)); KindOf(err) != DivisionByZero {
			t.Fatalf("%s rational by zero: expected DivisionByZero, got %v", op, err)
		}
	}
}

func TestArithOverflow(t *testing.T) {
	const maxInt = int64(9223372036854775807)
	cases := []struct {
		op   string
		a, b int64
	}{
		{"+", maxInt, 1},
		{"-", -maxInt, 2},
		{"*", maxInt, 2},
		{"*", -1, -maxInt - 1},
	}
	for _, c := range cases {
		if _, err := Arith(c.op, IntVal(c.a), IntVal(c.b)); KindOf(err) != Overflow {
			t.Fatalf("%d %s %d: expected Overflow, got %v", c.a, c.op, c.b, err)
		}
	}
	testArith(t, "+", IntVal(maxInt), IntVal(-1), IntVal(maxInt-1))
}

func TestArithTypeMismatch(t *testing.T) {
	if _, err := Arith("+", IntVal(1), StringVal("a")); KindOf(err) != TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	if _, err := Compare("<", BoolVal(true), IntVal(1)); KindOf(err) != TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b Value
		want int
	}{
		{IntVal(1), IntVal(2), -1},
		{RatVal(1, 2), RatVal(1, 3), 1},
		{RatVal(4, 2), IntVal(2), 0},
		{RatVal(-1, 2), IntVal(0), -1},
	}
	for _, c := range cases {
		got, err := Compare("<", c.a, c.b)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("compare %s %s: expected %d, got %d", c.a, c.b, c.want, got)
		}
	}
}

func TestSimplifyMinInt64(t *testing.T) {
	const minInt = int64(-9223372036854775808)
	v, err := Simplify(minInt, 6)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != ValRational || v.Int != minInt/2 || v.Den != 3 {
		t.Fatalf("expected %d/3, got %s", minInt/2, v)
	}
	v, err = Simplify(minInt, 1)
	if err != nil || v.Kind != ValInt || v.Int != minInt {
		t.Fatalf("expected %d, got %s (%v)", minInt, v, err)
	}
	testEval(t, "(/ -9223372036854775808 6)", RatVal(minInt/2, 3))
}
