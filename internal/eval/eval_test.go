package eval

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/lisp2swift/internal/expr"
	"nickandperla.net/lisp2swift/internal/scanner"
	"nickandperla.net/lisp2swift/internal/stdlib"
)

func evalSource(t *testing.T, src string) ([]expr.Expr, Scope, error) {
	t.Helper()
	words, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return Evaluate(words, BuiltinScope(stdlib.Default()))
}

func mustEval(t *testing.T, src string) []expr.Expr {
	t.Helper()
	exprs, _, err := evalSource(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return exprs
}

func TestEvalScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"print", `(print "hi")`, `FunctionCall{print,[String("hi")]}`},
		{"add", `(+ 1 2)`, `FunctionCall{add,[Number(1),Number(2)]}`},
		{"defn", `(defn foo [arg1] (+ arg1 arg1))`,
			`FunctionDeclaration{foo,[arg1],Lisp[FunctionCall{add,[Symbol(arg1),Symbol(arg1)]}]}`},
		{"if", `(if (== 1 2) (print "equal") (print "not equal"))`,
			`Conditional{FunctionCall{equal,[Number(1),Number(2)]},FunctionCall{print,[String("equal")]},FunctionCall{print,[String("not equal")]}}`},
		{"if without else", `(if (< 1 2) (print "yes"))`,
			`Conditional{FunctionCall{<,[Number(1),Number(2)]},FunctionCall{print,[String("yes")]}}`},
		{"nested call", `(print (* 2 (- 5 1)))`,
			`FunctionCall{print,[FunctionCall{*,[Number(2),FunctionCall{-,[Number(5),Number(1)]}]}]}`},
		{"let", `(let [x 1 y "s"] (print x) (print y))`,
			`LetBinding{[x=Number(1),y=String("s")],[FunctionCall{print,[Symbol(x)]},FunctionCall{print,[Symbol(y)]}]}`},
		{"do", `(do (print 1) (print 2))`,
			`Sequence[FunctionCall{print,[Number(1)]},FunctionCall{print,[Number(2)]}]`},
		{"vector argument", `(print [1 2])`, `FunctionCall{print,[VectorLiteral[Number(1),Number(2)]]}`},
		{"bare literals", `1 "two" 3.5`, `Number(1)`},
		{"zero arity", `(print (readline))`, `FunctionCall{print,[FunctionCall{readline,[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exprs := mustEval(t, tt.src)
			if len(exprs) == 0 {
				t.Fatal("expected expressions")
			}
			if got := exprs[0].String(); got != tt.want {
				t.Errorf("expected\n  %s\ngot\n  %s", tt.want, got)
			}
		})
	}
}

func TestEvalUndeclaredFunction(t *testing.T) {
	exprs, _, err := evalSource(t, `(foo "hi")`)
	if !errors.Is(err, ErrUndeclaredFunction) {
		t.Fatalf("expected ErrUndeclaredFunction, got %v", err)
	}
	if exprs != nil {
		t.Errorf("expected no expressions, got %v", exprs)
	}
	var ee *Error
	if !errors.As(err, &ee) || ee.Name != "foo" {
		t.Errorf("expected error naming foo, got %v", err)
	}
}

func TestEvalArity(t *testing.T) {
	tests := []string{
		`(print)`,
		`(print 1 2)`,
		`(+ 1)`,
		`(+ 1 2 3)`,
		`(< 1 2 3)`,
		`(== 1)`,
		`(readline 1)`,
		`(defn f [a b] a) (f 1)`,
		`(defn f [a b] a) (f 1 2 3)`,
		`(defn f [] 1) (f 1)`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, _, err := evalSource(t, src)
			if !errors.Is(err, ErrIncorrectArguments) {
				t.Errorf("expected ErrIncorrectArguments, got %v", err)
			}
		})
	}

	_, _, err := evalSource(t, `(defn f [a b] a) (f 1)`)
	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ee.Name != "f" || ee.Want != 2 || len(ee.Words) != 1 {
		t.Errorf("unexpected arity error fields: %+v", ee)
	}
}

func TestEvalScopeMonotonicity(t *testing.T) {
	_, _, err := evalSource(t, `(foo 1) (defn foo [x] x)`)
	if !errors.Is(err, ErrUndeclaredFunction) {
		t.Errorf("later declaration must not be visible earlier, got %v", err)
	}

	exprs, scope, err := evalSource(t, `(defn foo [x] x) (foo 1) (print (foo 2))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exprs) != 3 {
		t.Fatalf("expected 3 expressions, got %d", len(exprs))
	}
	if _, ok := scope.Function("foo"); !ok {
		t.Error("returned scope should declare foo")
	}
}

func TestEvalScopeIsNotMutated(t *testing.T) {
	base := BuiltinScope(stdlib.Default())
	words, _ := scanner.Scan(`(defn foo [x] x)`)

	_, extended, err := Evaluate(words, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := base.Function("foo"); ok {
		t.Error("input scope must not change")
	}
	if _, ok := extended.Function("foo"); !ok {
		t.Error("extended scope should declare foo")
	}

	// A second, independent compilation against the same base.
	if _, _, err := Evaluate(words, base); err != nil {
		t.Errorf("redeclaring in a fresh compilation should succeed: %v", err)
	}
}

func TestEvalRecursion(t *testing.T) {
	exprs := mustEval(t, `(defn fact [n] (if (<= n 1) 1 (* n (fact (- n 1)))))`)
	decl, ok := exprs[0].(expr.FnDecl)
	if !ok {
		t.Fatalf("expected FnDecl, got %T", exprs[0])
	}
	if decl.IsOpaque() {
		t.Error("final declaration must carry the Lisp body, not the stub")
	}
	if !strings.Contains(decl.String(), "FunctionCall{fact,[FunctionCall{-,[Symbol(n),Number(1)]}]}") {
		t.Errorf("expected recursive call in body, got %s", decl)
	}

	_, scope, _ := evalSource(t, `(defn fact [n] (fact n))`)
	final, _ := scope.Function("fact")
	if final.IsOpaque() {
		t.Error("scope must hold the final declaration")
	}
}

func TestEvalDeclarationErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{`(defn)`, ErrInvalidFunctionDeclaration},
		{`(defn foo)`, ErrInvalidFunctionDeclaration},
		{`(defn "foo" [] 1)`, ErrInvalidFunctionDeclaration},
		{`(defn foo (x) x)`, ErrInvalidFunctionDeclaration},
		{`(defn foo [1] 1)`, ErrInvalidFunctionDeclaration},
		{`(defn foo [x x] x)`, ErrInvalidFunctionDeclaration},
		{`(defn foo [a-b a_b] 1)`, ErrInvalidFunctionDeclaration},
		{`(defn + [a b] a)`, ErrFunctionAlreadyExists},
		{`(defn print [a] a)`, ErrFunctionAlreadyExists},
		{`(defn foo [] 1) (defn foo [] 2)`, ErrFunctionAlreadyExists},
		{`(defn a-b [] 1) (defn a_b [] 2)`, ErrFunctionAlreadyExists},
		{`(defn add [a b] a)`, ErrFunctionAlreadyExists},
		{`(defn foo [x] (defn foo [] 1))`, ErrFunctionAlreadyExists},
		{`(defn if [] 1)`, ErrReservedName},
		{`(defn defn [] 1)`, ErrReservedName},
		{`(defn let [] 1)`, ErrReservedName},
		{`(defn do [] 1)`, ErrReservedName},
		{`(defn Value [] 1)`, ErrReservedName},
		{`(defn arithmetic [a b] a)`, ErrReservedName},
		{`(defn compare [a b] a)`, ErrReservedName},
		{`(defn truthy [v] v)`, ErrReservedName},
		{`(defn readLine [] 1)`, ErrReservedName},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, err := evalSource(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEvalShapeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{`(if 1)`, ErrInvalidExpression},
		{`(if 1 2 3 4)`, ErrInvalidExpression},
		{`(if)`, ErrInvalidExpression},
		{`(let [x] x)`, ErrInvalidExpression},
		{`(let [1 2] 3)`, ErrInvalidExpression},
		{`(let [x 1])`, ErrInvalidExpression},
		{`(let x 1)`, ErrInvalidExpression},
		{`()`, ErrInvalidExpression},
		{`((print) 1)`, ErrInvalidExpression},
		{`("print" 1)`, ErrInvalidExpression},
		{`(print x)`, ErrUnknownSymbol},
		{`x`, ErrUnknownSymbol},
		{`(print print)`, ErrUnknownSymbol},
		{`(defn f [x] x) (print x)`, ErrUnknownSymbol},
		{`(let [x 1] x) (print x)`, ErrUnknownSymbol},
		{`(if (< 1 2) (print y))`, ErrUnknownSymbol},
		{`(print [1 z])`, ErrUnknownSymbol},
		{`(let [a-b 1 a_b 2] (print a_b))`, ErrInvalidExpression},
		{`(let [x 1 x 2] (print x))`, ErrInvalidExpression},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, err := evalSource(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEvalLetScoping(t *testing.T) {
	exprs := mustEval(t, `(let [x 1 y (+ x 1)] (print y))`)
	want := `LetBinding{[x=Number(1),y=FunctionCall{add,[Symbol(x),Number(1)]}],[FunctionCall{print,[Symbol(y)]}]}`
	if got := exprs[0].String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	exprs = mustEval(t, `(defn f [a] (let [b a] (print b)))`)
	if !strings.Contains(exprs[0].String(), "b=Symbol(a)") {
		t.Errorf("parameters should be visible inside let, got %s", exprs[0])
	}
}

func TestEvalNestedDefn(t *testing.T) {
	exprs := mustEval(t, `(defn outer [x] (defn inner [y] (print y)) (inner x))`)
	want := `FunctionDeclaration{outer,[x],Lisp[FunctionDeclaration{inner,[y],Lisp[FunctionCall{print,[Symbol(y)]}]},FunctionCall{inner,[Symbol(x)]}]}`
	if got := exprs[0].String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	_, _, err := evalSource(t, `(defn outer [x] (defn inner [y] y)) (inner 1)`)
	if !errors.Is(err, ErrUndeclaredFunction) {
		t.Errorf("nested declaration must stay inside its body, got %v", err)
	}
}

func TestEvalSanitizedNames(t *testing.T) {
	exprs := mustEval(t, `(defn my-fn [my-arg] (print my-arg)) (my-fn 1)`)
	if got := exprs[0].String(); got != `FunctionDeclaration{my_fn,[my_arg],Lisp[FunctionCall{print,[Symbol(my_arg)]}]}` {
		t.Errorf("unexpected declaration: %s", got)
	}
	if got := exprs[1].String(); got != `FunctionCall{my_fn,[Number(1)]}` {
		t.Errorf("unexpected call: %s", got)
	}
}

func TestEvalErrorMessage(t *testing.T) {
	_, _, err := evalSource(t, "(print 1)\n(foo 2)")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "line 2, column 1: undeclared function: foo" {
		t.Errorf("unexpected message: %q", got)
	}

	_, _, err = evalSource(t, `(+ 1)`)
	if got := err.Error(); !strings.Contains(got, "incorrect arguments to +: expected 2, got 1") {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"foo":     "foo",
		"foo-bar": "foo_bar",
		"empty?":  "empty_p",
		"set!":    "set_bang",
		"x*":      "x_star",
		"1st":     "_1st",
		"a1":      "a1",
		"in":      "`in`",
		"self":    "`self`",
		"a.b":     "a_u002Eb",
		"héllo":   "héllo",
	}
	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEvalStatementFormsInValuePosition(t *testing.T) {
	tests := []string{
		`(print (let [x 1] x))`,
		`(print (defn f [] 1))`,
		`(print (if (< 1 2) 1 2))`,
		`(print (do (print 1)))`,
		`(let [x (do)] (print x))`,
		`(let [x (if 1 2 3)] (print x))`,
		`(if (let [x 1] x) (print 1))`,
		`(if (do) (print 1))`,
		`(print [(do)])`,
		`(defn f [x] x) (f (defn g [] 1))`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, _, err := evalSource(t, src)
			if !errors.Is(err, ErrInvalidExpression) {
				t.Errorf("expected %v, got %v", ErrInvalidExpression, err)
			}
		})
	}
}

func TestEvalStatementFormsInStatementPosition(t *testing.T) {
	srcs := []string{
		`(if (< 1 2) (do (print 1) (print 2)) (let [x 1] (print x)))`,
		`(do (let [x 1] (print x)) (if 1 (print 2)))`,
		`(defn f [x] (if (< x 1) (let [y 2] y) (do x)))`,
	}
	for _, src := range srcs {
		if _, _, err := evalSource(t, src); err != nil {
			t.Errorf("%s: unexpected error: %v", src, err)
		}
	}
}
