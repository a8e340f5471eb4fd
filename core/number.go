package elder

import "math"

// magnitude is |a| without the int64 overflow at MinInt64.
func magnitude(a int64) uint64 {
	if a < 0 {
		return uint64(-(a + 1)) + 1
	}
	return uint64(a)
}

// gcd works on magnitudes. The result fits in int64 as long as one operand is
// nonzero and not MinInt64.
func gcd(a, b int64) int64 {
	x, y := magnitude(a), magnitude(b)
	for y != 0 {
		x, y = y, x%y
	}
	return int64(x)
}

// Simplify reduces num/den to lowest terms with a positive denominator. The
// result is an Int when the denominator divides the numerator.
func Simplify(num, den int64) (Value, error) {
	if den == 0 {
		return Value{}, &EvalError{Kind: DivisionByZero, Op: "/", Msg: "zero denominator"}
	}
	if den < 0 {
		if num == math.MinInt64 || den == math.MinInt64 {
			return Value{}, &EvalError{Kind: Overflow, Op: "/", Msg: "cannot normalize sign"}
		}
		num, den = -num, -den
	}
	g := gcd(num, den)
	num, den = num/g, den/g
	if den == 1 {
		return IntVal(num), nil
	}
	return Value{Kind: ValRational, Int: num, Den: den}, nil
}

// --- checked int64 arithmetic ---

func overflow(op string) error {
	return &EvalError{Kind: Overflow, Op: op, Msg: "result does not fit in 64 bits"}
}

func addInt(op string, a, b int64) (int64, error) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, overflow(op)
	}
	return c, nil
}

func subInt(op string, a, b int64) (int64, error) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, overflow(op)
	}
	return c, nil
}

func mulInt(op string, a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, overflow(op)
	}
	c := a * b
	if c/b != a {
		return 0, overflow(op)
	}
	return c, nil
}

// --- rational arithmetic ---

type ratio struct{ n, d int64 }

func asRatio(op string, v Value) (ratio, error) {
	switch v.Kind {
	case ValInt:
		return ratio{v.Int, 1}, nil
	case ValRational:
		return ratio{v.Int, v.Den}, nil
	}
	return ratio{}, &EvalError{Kind: TypeMismatch, Op: op, Msg: "expected number, got " + v.KindName(), Expr: Repr(v)}
}

// cross returns a*d and c*b for a/b and c/d.
func cross(op string, x, y ratio) (int64, int64, error) {
	ad, err := mulInt(op, x.n, y.d)
	if err != nil {
		return 0, 0, err
	}
	cb, err := mulInt(op, y.n, x.d)
	if err != nil {
		return 0, 0, err
	}
	return ad, cb, nil
}

func ratAdd(op string, x, y ratio, sub bool) (Value, error) {
	ad, cb, err := cross(op, x, y)
	if err != nil {
		return Value{}, err
	}
	bd, err := mulInt(op, x.d, y.d)
	if err != nil {
		return Value{}, err
	}
	var num int64
	if sub {
		num, err = subInt(op, ad, cb)
	} else {
		num, err = addInt(op, ad, cb)
	}
	if err != nil {
		return Value{}, err
	}
	return Simplify(num, bd)
}

func ratMul(op string, x, y ratio) (Value, error) {
	num, err := mulInt(op, x.n, y.n)
	if err != nil {
		return Value{}, err
	}
	den, err := mulInt(op, x.d, y.d)
	if err != nil {
		return Value{}, err
	}
	return Simplify(num, den)
}

func ratDiv(op string, x, y ratio) (Value, error) {
	if y.n == 0 {
		return Value{}, &EvalError{Kind: DivisionByZero, Op: op, Msg: "divisor is zero"}
	}
	num, den, err := cross(op, x, y)
	if err != nil {
		return Value{}, err
	}
	return Simplify(num, den)
}

// ratMod computes x - y*trunc(x/y), matching integer % on whole numbers.
func ratMod(op string, x, y ratio) (Value, error) {
	if y.n == 0 {
		return Value{}, &EvalError{Kind: DivisionByZero, Op: op, Msg: "divisor is zero"}
	}
	ad, cb, err := cross(op, x, y)
	if err != nil {
		return Value{}, err
	}
	q := ad / cb
	yq, err := ratMul(op, y, ratio{q, 1})
	if err != nil {
		return Value{}, err
	}
	r, _ := asRatio(op, yq)
	return ratAdd(op, x, r, true)
}

// Arith applies one of + - * / % to two numeric operands.
func Arith(op string, a, b Value) (Value, error) {
	if a.Kind == ValInt && b.Kind == ValInt {
		return intArith(op, a.Int, b.Int)
	}
	x, err := asRatio(op, a)
	if err != nil {
		return Value{}, err
	}
	y, err := asRatio(op, b)
	if err != nil {
		return Value{}, err
	}
	switch op {
	case "+":
		return ratAdd(op, x, y, false)
	case "-":
		return ratAdd(op, x, y, true)
	case "*":
		return ratMul(op, x, y)
	case "/":
		return ratDiv(op, x, y)
	case "%":
		return ratMod(op, x, y)
	}
	return Value{}, &EvalError{Kind: NotCallable, Op: op, Msg: "unknown arithmetic operator"}
}

func intArith(op string, a, b int64) (Value, error) {
	var n int64
	var err error
	switch op {
	case "+":
		n, err = addInt(op, a, b)
	case "-":
		n, err = subInt(op, a, b)
	case "*":
		n, err = mulInt(op, a, b)
	case "/":
		if b == 0 {
			return Value{}, &EvalError{Kind: DivisionByZero, Op: op, Msg: "divisor is zero"}
		}
		return Simplify(a, b)
	case "%":
		if b == 0 {
			return Value{}, &EvalError{Kind: DivisionByZero, Op: op, Msg: "divisor is zero"}
		}
		return IntVal(a % b), nil
	default:
		return Value{}, &EvalError{Kind: NotCallable, Op: op, Msg: "unknown arithmetic operator"}
	}
	if err != nil {
		return Value{}, err
	}
	return IntVal(n), nil
}

// Compare orders two numbers, returning -1, 0, or 1.
func Compare(op string, a, b Value) (int, error) {
	x, err := asRatio(op, a)
	if err != nil {
		return 0, err
	}
	y, err := asRatio(op, b)
	if err != nil {
		return 0, err
	}
	ad, cb, err := cross(op, x, y)
	if err != nil {
		return 0, err
	}
	switch {
	case ad < cb:
		return -1, nil
	case ad > cb:
		return 1, nil
	}
	return 0, nil
}
