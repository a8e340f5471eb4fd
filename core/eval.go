package elder

import (
	"errors"
	"fmt"
	"log"
)

// DefaultMaxDepth bounds nested evaluation so runaway recursion fails with
// RecursionLimitExceeded instead of exhausting the goroutine stack.
const DefaultMaxDepth = 10000

// Evaluator reduces expressions to values. It holds no bindings of its own;
// all state lives in the Env passed to Evaluate. An Evaluator must not be
// used from more than one goroutine at a time.
type Evaluator struct {
	MaxDepth int         // 0 means DefaultMaxDepth
	Logger   *log.Logger // debug trace of applications, nil for none
	depth    int
}

func (ev *Evaluator) maxDepth() int {
	if ev.MaxDepth > 0 {
		return ev.MaxDepth
	}
	return DefaultMaxDepth
}

// Evaluate reduces expr in env. The returned Env is env itself: define
// mutates the current frame in place, and the caller threads the result into
// the next top-level form.
func (ev *Evaluator) Evaluate(env *Env, expr Value) (Value, *Env, error) {
	val, err := ev.eval(env, expr)
	if err != nil {
		return Value{}, env, err
	}
	return val, env, nil
}

// EvalString parses src and evaluates each top-level form in order,
// returning the value of the last one.
func (ev *Evaluator) EvalString(env *Env, src string) (Value, *Env, error) {
	forms, err := ParseAll(src)
	if err != nil {
		return Value{}, env, err
	}
	result := NilVal()
	for _, form := range forms {
		result, env, err = ev.Evaluate(env, form)
		if err != nil {
			return Value{}, env, err
		}
	}
	return result, env, nil
}

func (ev *Evaluator) eval(env *Env, expr Value) (Value, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > ev.maxDepth() {
		return Value{}, newError(RecursionLimitExceeded, "eval", expr, "nesting deeper than %d", ev.maxDepth())
	}

	switch expr.Kind {
	case ValSymbol:
		return ev.resolveSymbol(env, expr.Str)
	case ValList:
		if expr.List == nil {
			return NilVal(), nil
		}
		return ev.evalList(env, expr)
	default:
		return expr, nil
	}
}

func (ev *Evaluator) resolveSymbol(env *Env, name string) (Value, error) {
	if p, ok := LookupPrimitive(name); ok {
		return PrimitiveVal(p), nil
	}
	if specialForms[name] {
		return Value{}, &EvalError{Kind: MalformedForm, Op: name, Msg: "special form used as a value"}
	}
	return env.Lookup(name)
}

func (ev *Evaluator) evalList(env *Env, form Value) (Value, error) {
	head := form.List.Head
	operands := form.List.Tail

	if head.Kind == ValSymbol {
		switch head.Str {
		case "quote":
			return ev.evalQuote(form, operands)
		case "if", "cond":
			return ev.evalIf(env, form, operands)
		case "lambda":
			return ev.evalLambda(env, form, operands)
		case "define":
			return ev.evalDefine(env, form, operands)
		case "let":
			return ev.evalLet(env, form, operands)
		}
		if p, ok := LookupPrimitive(head.Str); ok {
			args, err := ev.evalArgs(env, operands)
			if err != nil {
				return Value{}, err
			}
			val, err := p.Apply(args)
			return val, annotate(err, form)
		}
	}

	fn, err := ev.eval(env, head)
	if err != nil {
		return Value{}, err
	}
	args, err := ev.evalArgs(env, operands)
	if err != nil {
		return Value{}, err
	}
	val, err := ev.apply(fn, args)
	return val, annotate(err, form)
}

// evalArgs evaluates operands left to right.
func (ev *Evaluator) evalArgs(env *Env, operands *Cell) ([]Value, error) {
	var args []Value
	for c := operands; c != nil; c = c.Tail {
		v, err := ev.eval(env, c.Head)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (ev *Evaluator) apply(fn Value, args []Value) (Value, error) {
	if ev.Logger != nil {
		ev.Logger.Printf("apply %s to %s", fn, ListVal(args))
	}
	switch fn.Kind {
	case ValPrimitive:
		return fn.Prim.Apply(args)
	case ValClosure:
		frame := fn.Fn.Env.Push()
		if err := frame.BindParams(fn.Fn.Params, args); err != nil {
			return Value{}, err
		}
		return ev.eval(frame, fn.Fn.Body)
	}
	return Value{}, &EvalError{Kind: NotCallable, Msg: fmt.Sprintf("cannot call %s value %s", fn.KindName(), Repr(fn))}
}

// annotate attaches the enclosing form to an error that has no context yet.
func annotate(err error, form Value) error {
	if err == nil {
		return nil
	}
	var ee *EvalError
	if errors.As(err, &ee) && ee.Expr == "" {
		ee.Expr = Repr(form)
	}
	return err
}

// operandList collects exactly n operands of a special form.
func operandList(name string, form Value, operands *Cell, n int) ([]Value, error) {
	var out []Value
	for c := operands; c != nil; c = c.Tail {
		out = append(out, c.Head)
	}
	if len(out) != n {
		return nil, newError(MalformedForm, name, form, "expected %d operands, got %d", n, len(out))
	}
	return out, nil
}

// evalQuote: (quote x) returns x unevaluated.
func (ev *Evaluator) evalQuote(form Value, operands *Cell) (Value, error) {
	ops, err := operandList("quote", form, operands, 1)
	if err != nil {
		return Value{}, err
	}
	return ops[0], nil
}

// evalIf: (if pred then else). The predicate must be a Boolean.
func (ev *Evaluator) evalIf(env *Env, form Value, operands *Cell) (Value, error) {
	name := form.List.Head.Str
	ops, err := operandList(name, form, operands, 3)
	if err != nil {
		return Value{}, err
	}
	pred, err := ev.eval(env, ops[0])
	if err != nil {
		return Value{}, err
	}
	if pred.Kind != ValBool {
		return Value{}, newError(TypeMismatch, name, form, "if requires a boolean condition, got %s", pred.KindName())
	}
	if pred.Bool {
		return ev.eval(env, ops[1])
	}
	return ev.eval(env, ops[2])
}

// evalLambda: (lambda (params...) body) captures env without evaluating body.
func (ev *Evaluator) evalLambda(env *Env, form Value, operands *Cell) (Value, error) {
	ops, err := operandList("lambda", form, operands, 2)
	if err != nil {
		return Value{}, err
	}
	params, err := paramNames("lambda", form, ops[0])
	if err != nil {
		return Value{}, err
	}
	return ClosureVal(&Closure{Params: params, Body: ops[1], Env: env}), nil
}

func paramNames(op string, form, list Value) ([]string, error) {
	if list.Kind != ValNil && list.Kind != ValList {
		return nil, newError(MalformedForm, op, form, "parameters must be a list, got %s", list.KindName())
	}
	var params []string
	seen := make(map[string]bool)
	for _, p := range list.Elems() {
		if p.Kind != ValSymbol {
			return nil, newError(MalformedForm, op, form, "parameter names must be symbols, got %s", p.KindName())
		}
		if Reserved(p.Str) {
			return nil, newError(MalformedForm, op, form, "cannot bind reserved name %s", p.Str)
		}
		if seen[p.Str] {
			return nil, newError(MalformedForm, op, form, "duplicate parameter %s", p.Str)
		}
		seen[p.Str] = true
		params = append(params, p.Str)
	}
	return params, nil
}

// evalDefine: (define name expr) binds in the current frame only after expr
// evaluates successfully.
func (ev *Evaluator) evalDefine(env *Env, form Value, operands *Cell) (Value, error) {
	ops, err := operandList("define", form, operands, 2)
	if err != nil {
		return Value{}, err
	}
	name := ops[0]
	if name.Kind != ValSymbol {
		return Value{}, newError(MalformedForm, "define", form, "name must be a symbol, got %s", name.KindName())
	}
	if Reserved(name.Str) {
		return Value{}, newError(MalformedForm, "define", form, "cannot redefine reserved name %s", name.Str)
	}
	val, err := ev.eval(env, ops[1])
	if err != nil {
		return Value{}, err
	}
	env.Define(name.Str, val)
	return val, nil
}

// evalLet: (let ((x expr1) (y expr2)) body) binds sequentially in one new frame.
func (ev *Evaluator) evalLet(env *Env, form Value, operands *Cell) (Value, error) {
	ops, err := operandList("let", form, operands, 2)
	if err != nil {
		return Value{}, err
	}
	bindings := ops[0]
	if bindings.Kind != ValNil && bindings.Kind != ValList {
		return Value{}, newError(MalformedForm, "let", form, "bindings must be a list")
	}
	frame := env.Push()
	for _, pair := range bindings.Elems() {
		if pair.Len() != 2 || pair.List.Head.Kind != ValSymbol {
			return Value{}, newError(MalformedForm, "let", form, "each binding must be (name expr)")
		}
		name := pair.List.Head.Str
		if Reserved(name) {
			return Value{}, newError(MalformedForm, "let", form, "cannot bind reserved name %s", name)
		}
		val, err := ev.eval(frame, pair.List.Tail.Head)
		if err != nil {
			return Value{}, err
		}
		frame.Define(name, val)
	}
	return ev.eval(frame, ops[1])
}

// Describe formats an evaluation result for display, with its kind for errors.
func Describe(v Value, err error) string {
	if err != nil {
		if k := KindOf(err); k != 0 {
			return k.String() + ": " + err.Error()
		}
		return err.Error()
	}
	return Repr(v)
}
