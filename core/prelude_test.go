package elder

import "testing"

func TestPreludeLogic(t *testing.T) {
	testEval(t, "(not true)", BoolVal(false))
	testEval(t, "(and true false)", BoolVal(false))
	testEval(t, "(or false true)", BoolVal(true))
	testEval(t, "(null? ())", BoolVal(true))
	testEval(t, "(null? '(1))", BoolVal(false))
}

func TestPreludeComparison(t *testing.T) {
	testEval(t, "(<= 2 2)", BoolVal(true))
	testEval(t, "(>= 1 2)", BoolVal(false))
	testEval(t, "(= 1/2 2/4)", BoolVal(true))
	testEval(t, "(= 1 2)", BoolVal(false))
}

func TestPreludeLists(t *testing.T) {
	testEval(t, "(append '(4 5) '(6 7))", ints(4, 5, 6, 7))
	testEval(t, "(append () '(1))", ints(1))
	testEval(t, "(map (lambda (x) (* x x)) '(1 2 3))", ints(1, 4, 9))
	testEval(t, "(filter (lambda (x) (> x 1)) '(1 2 3))", ints(2, 3))
	testEval(t, "(foldr - 0 '(1 2 3))", IntVal(2))
	testEval(t, "(foldl - 0 '(1 2 3))", IntVal(-6))
	testEval(t, "(length '(a b c))", IntVal(3))
	testEval(t, "(length ())", IntVal(0))
	testEval(t, "(reverse '(1 2 3))", ints(3, 2, 1))
}

func TestPreludeShadowing(t *testing.T) {
	testEval(t, "(define not (lambda (x) x)) (not true)", BoolVal(true))
}

func TestPreludeIsPlainDefines(t *testing.T) {
	env := NewPreludeEnv()
	for _, name := range []string{"map", "append", "length", "not"} {
		v, err := env.Lookup(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if v.Kind != ValClosure {
			t.Fatalf("%s should be a closure, got %s", name, v.KindName())
		}
	}
}
