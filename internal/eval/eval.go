// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/lisp2swift/internal/expr"
	"nickandperla.net/lisp2swift/internal/scanner"
	"nickandperla.net/lisp2swift/internal/token"
)

// Special form names. They are reserved and cannot be declared.
const (
	FormDefn = "defn"
	FormIf   = "if"
	FormLet  = "let"
	FormDo   = "do"
)

// IsSpecialForm returns true if name is handled by the evaluator itself.
func IsSpecialForm(name string) bool {
	switch name {
	case FormDefn, FormIf, FormLet, FormDo:
		return true
	}
	return false
}

// Evaluate resolves top-level words under scope. Forms are evaluated left
// to right and each sees the functions declared by the forms before it.
// The returned scope holds every declaration made; on error the input
// scope is returned unchanged.
func Evaluate(words []scanner.Word, scope Scope) ([]expr.Expr, Scope, error) {
	return evalSequence(words, scope)
}

func evalSequence(words []scanner.Word, scope Scope) ([]expr.Expr, Scope, error) {
	exprs := make([]expr.Expr, 0, len(words))
	current := scope
	for _, w := range words {
		e, next, err := evalForm(w, current)
		if err != nil {
			return nil, scope, err
		}
		exprs = append(exprs, e)
		current = next
	}
	return exprs, current, nil
}

// evalForm evaluates a word that may extend the scope for its siblings.
func evalForm(w scanner.Word, scope Scope) (expr.Expr, Scope, error) {
	if w.Kind == token.LIST {
		return evalList(w, scope)
	}
	e, err := evalWord(w, scope)
	return e, scope, err
}

func evalWord(w scanner.Word, scope Scope) (expr.Expr, error) {
	switch w.Kind {
	case token.STRING:
		return expr.StringLit{Value: w.Text}, nil
	case token.NUMBER:
		return expr.NumberLit{Value: w.Text}, nil
	case token.ATOM:
		if !scope.HasSymbol(w.Text) {
			return nil, failure(UnknownSymbol, w, w.Text, nil)
		}
		return expr.Symbol{Name: Sanitize(w.Text)}, nil
	case token.VECTOR:
		elems, err := evalArgs(w.Children, scope)
		if err != nil {
			return nil, err
		}
		return expr.Vector{Elems: elems}, nil
	case token.LIST:
		e, _, err := evalList(w, scope)
		return e, err
	}
	return nil, failure(InvalidExpression, w, "", []scanner.Word{w})
}

// evalValue evaluates a word whose result is used as a value. Special
// forms render as statements and are rejected there.
func evalValue(w scanner.Word, scope Scope) (expr.Expr, error) {
	if w.Kind == token.LIST && len(w.Children) > 0 && w.Children[0].IsAtom() && IsSpecialForm(w.Children[0].Text) {
		return nil, failure(InvalidExpression, w, "", w.Children)
	}
	return evalWord(w, scope)
}

// evalArgs evaluates words in value position.
func evalArgs(words []scanner.Word, scope Scope) ([]expr.Expr, error) {
	exprs := make([]expr.Expr, 0, len(words))
	for _, w := range words {
		e, err := evalValue(w, scope)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func evalList(w scanner.Word, scope Scope) (expr.Expr, Scope, error) {
	if len(w.Children) == 0 || !w.Children[0].IsAtom() {
		return nil, scope, failure(InvalidExpression, w, "", w.Children)
	}
	head := w.Children[0].Text
	rest := w.Children[1:]

	var (
		e   expr.Expr
		err error
	)
	switch head {
	case FormDefn:
		return evalDefn(w, rest, scope)
	case FormIf:
		e, err = evalIf(w, rest, scope)
	case FormLet:
		e, err = evalLet(w, rest, scope)
	case FormDo:
		e, err = evalDo(rest, scope)
	default:
		e, err = evalCall(w, head, rest, scope)
	}
	return e, scope, err
}

// evalDefn handles (defn name [params...] body...). A provisional opaque
// declaration is visible inside the body so the function can call itself.
func evalDefn(w scanner.Word, rest []scanner.Word, scope Scope) (expr.Expr, Scope, error) {
	if len(rest) == 0 || !rest[0].IsAtom() {
		return nil, scope, failure(InvalidFunctionDeclaration, w, "", w.Children)
	}
	name := rest[0].Text
	if IsSpecialForm(name) {
		return nil, scope, failure(ReservedName, rest[0], name, nil)
	}
	if _, ok := scope.Function(name); ok {
		return nil, scope, failure(FunctionAlreadyExists, rest[0], name, nil)
	}
	target := Sanitize(name)
	if _, ok := scope.functionByTarget(target); ok {
		return nil, scope, failure(FunctionAlreadyExists, rest[0], name, nil)
	}
	if scope.reserved(target) {
		return nil, scope, failure(ReservedName, rest[0], name, nil)
	}
	if len(rest) < 2 || !rest[1].IsVector() {
		return nil, scope, failure(InvalidFunctionDeclaration, w, "", w.Children)
	}

	names := make([]string, 0, len(rest[1].Children))
	params := make([]string, 0, len(rest[1].Children))
	seen := make(map[string]bool)
	for _, p := range rest[1].Children {
		if !p.IsAtom() {
			return nil, scope, failure(InvalidFunctionDeclaration, p, "", w.Children)
		}
		param := Sanitize(p.Text)
		if seen[param] {
			return nil, scope, failure(InvalidFunctionDeclaration, p, "", w.Children)
		}
		seen[param] = true
		names = append(names, p.Text)
		params = append(params, param)
	}

	stub := expr.FnDecl{Name: target, Params: params, Body: expr.Opaque{}}
	inner := scope.WithSymbols(names...).WithFunction(name, stub)
	body, _, err := evalSequence(rest[2:], inner)
	if err != nil {
		return nil, scope, err
	}

	decl := expr.FnDecl{Name: target, Params: params, Body: expr.Lisp{Exprs: body}}
	return decl, scope.WithFunction(name, decl), nil
}

// evalIf handles (if cond then [else]).
func evalIf(w scanner.Word, rest []scanner.Word, scope Scope) (expr.Expr, error) {
	if len(rest) != 2 && len(rest) != 3 {
		return nil, failure(InvalidExpression, w, "", w.Children)
	}
	cond, err := evalValue(rest[0], scope)
	if err != nil {
		return nil, err
	}
	branches, err := evalForms(rest[1:], scope)
	if err != nil {
		return nil, err
	}
	c := expr.Conditional{Cond: cond, Then: branches[0]}
	if len(branches) == 2 {
		c.Else = branches[1]
	}
	return c, nil
}

// evalLet handles (let [sym val ...] body...). Every bound symbol is
// visible to all value expressions and to the body.
func evalLet(w scanner.Word, rest []scanner.Word, scope Scope) (expr.Expr, error) {
	if len(rest) < 2 || !rest[0].IsVector() || len(rest[0].Children)%2 != 0 {
		return nil, failure(InvalidExpression, w, "", w.Children)
	}
	pairs := rest[0].Children

	names := make([]string, 0, len(pairs)/2)
	seen := make(map[string]bool)
	for i := 0; i < len(pairs); i += 2 {
		if !pairs[i].IsAtom() {
			return nil, failure(InvalidExpression, pairs[i], "", w.Children)
		}
		sym := Sanitize(pairs[i].Text)
		if seen[sym] {
			return nil, failure(InvalidExpression, pairs[i], "", w.Children)
		}
		seen[sym] = true
		names = append(names, pairs[i].Text)
	}
	inner := scope.WithSymbols(names...)

	bindings := make([]expr.Binding, 0, len(names))
	for i := 0; i < len(pairs); i += 2 {
		value, err := evalValue(pairs[i+1], inner)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, expr.Binding{Name: Sanitize(pairs[i].Text), Value: value})
	}

	body, _, err := evalSequence(rest[1:], inner)
	if err != nil {
		return nil, err
	}
	return expr.Let{Bindings: bindings, Body: body}, nil
}

// evalDo handles (do forms...). No symbols are bound.
func evalDo(rest []scanner.Word, scope Scope) (expr.Expr, error) {
	exprs, err := evalForms(rest, scope)
	if err != nil {
		return nil, err
	}
	return expr.Sequence{Exprs: exprs}, nil
}

// evalForms evaluates words in statement position under the same scope.
func evalForms(words []scanner.Word, scope Scope) ([]expr.Expr, error) {
	exprs := make([]expr.Expr, 0, len(words))
	for _, w := range words {
		e, err := evalWord(w, scope)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func evalCall(w scanner.Word, name string, rest []scanner.Word, scope Scope) (expr.Expr, error) {
	decl, ok := scope.Function(name)
	if !ok {
		return nil, failure(UndeclaredFunction, w, name, nil)
	}
	if len(rest) != decl.Arity() {
		err := failure(IncorrectArguments, w, name, rest)
		err.Want = decl.Arity()
		return nil, err
	}
	args, err := evalArgs(rest, scope)
	if err != nil {
		return nil, err
	}
	return expr.FnCall{Name: decl.Name, Args: args}, nil
}
