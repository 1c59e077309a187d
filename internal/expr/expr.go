// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the resolved expression tree.
package expr

import "strings"

// Expr is the interface all expression types implement.
type Expr interface {
	// String returns a debug rendering of the expression.
	String() string
	expr()
}

// Body is the body of a function declaration: Opaque or Lisp.
type Body interface {
	String() string
	body()
}

// Opaque marks a function implemented outside the tree. Native holds the
// Swift implementation, or is empty when the target language provides it.
type Opaque struct {
	Native string
}

func (Opaque) String() string { return "Opaque" }
func (Opaque) body()          {}

// Lisp is a body of resolved expressions.
type Lisp struct {
	Exprs []Expr
}

func (l Lisp) String() string { return "Lisp" + list(l.Exprs) }
func (Lisp) body()            {}

// FnDecl declares a function. Name is the sanitized target identifier.
type FnDecl struct {
	Name   string
	Params []string
	Body   Body
}

func (d FnDecl) String() string {
	body := "Opaque"
	if d.Body != nil {
		body = d.Body.String()
	}
	return "FunctionDeclaration{" + d.Name + ",[" + strings.Join(d.Params, ",") + "]," + body + "}"
}
func (FnDecl) expr() {}

// Arity returns the declared parameter count.
func (d FnDecl) Arity() int { return len(d.Params) }

// IsOpaque reports whether the declaration is implemented externally.
func (d FnDecl) IsOpaque() bool {
	_, ok := d.Body.(Opaque)
	return ok || d.Body == nil
}

// FnCall calls a declared function.
type FnCall struct {
	Name string
	Args []Expr
}

func (c FnCall) String() string { return "FunctionCall{" + c.Name + "," + list(c.Args) + "}" }
func (FnCall) expr()            {}

// Conditional is an if form. Else is nil when absent.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (c Conditional) String() string {
	s := "Conditional{" + c.Cond.String() + "," + c.Then.String()
	if c.Else != nil {
		s += "," + c.Else.String()
	}
	return s + "}"
}
func (Conditional) expr() {}

// Binding is one symbol/value pair of a let form.
type Binding struct {
	Name  string
	Value Expr
}

func (b Binding) String() string { return b.Name + "=" + b.Value.String() }

// Let binds symbols for the body expressions.
type Let struct {
	Bindings []Binding
	Body     []Expr
}

func (l Let) String() string {
	parts := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		parts[i] = b.String()
	}
	return "LetBinding{[" + strings.Join(parts, ",") + "]," + list(l.Body) + "}"
}
func (Let) expr() {}

// Sequence is a do form.
type Sequence struct {
	Exprs []Expr
}

func (s Sequence) String() string { return "Sequence" + list(s.Exprs) }
func (Sequence) expr()            {}

// Vector is a vector outside special-form syntax.
type Vector struct {
	Elems []Expr
}

func (v Vector) String() string { return "VectorLiteral" + list(v.Elems) }
func (Vector) expr()            {}

// StringLit is a string literal. Value includes the quotes.
type StringLit struct {
	Value string
}

func (s StringLit) String() string { return "String(" + s.Value + ")" }
func (StringLit) expr()            {}

// NumberLit is a number literal in its source spelling.
type NumberLit struct {
	Value string
}

func (n NumberLit) String() string { return "Number(" + n.Value + ")" }
func (NumberLit) expr()            {}

// Symbol references a bound symbol.
type Symbol struct {
	Name string
}

func (s Symbol) String() string { return "Symbol(" + s.Name + ")" }
func (Symbol) expr()            {}

func list(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
