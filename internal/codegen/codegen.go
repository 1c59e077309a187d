// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package codegen renders a resolved expression tree as Swift source.
package codegen

import (
	"fmt"
	"strings"

	"nickandperla.net/lisp2swift/internal/expr"
	"nickandperla.net/lisp2swift/internal/stdlib"
)

// ValueType is the Swift type given to every parameter and local.
const ValueType = "Value"

const indentUnit = "    "

// InvariantError is raised (as a panic) when the tree contains something
// the evaluator guarantees cannot reach rendering.
type InvariantError struct {
	Expr   expr.Expr
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("codegen invariant violated: %s: %s", e.Reason, e.Expr)
}

// Transcode renders exprs after the library prologue.
func Transcode(exprs []expr.Expr, lib *stdlib.Library) string {
	return Prologue(lib) + Render(exprs, lib)
}

// Prologue returns the Swift runtime followed by every native builtin.
func Prologue(lib *stdlib.Library) string {
	var sb strings.Builder
	sb.WriteString("import Foundation\n\n")
	if rt := lib.Runtime(); rt != "" {
		sb.WriteString(rt)
		sb.WriteString("\n\n")
	}
	for _, e := range lib.Entries() {
		if e.Native == "" {
			continue
		}
		sb.WriteString(e.Native)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Render renders exprs without the prologue, one newline-terminated block
// per expression.
func Render(exprs []expr.Expr, lib *stdlib.Library) string {
	g := &generator{lib: lib}
	var sb strings.Builder
	for _, e := range exprs {
		if s := g.statement(e); s != "" {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

type generator struct {
	lib *stdlib.Library
}

// noValue is returned by functions whose last form produces no value.
const noValue = "false"

// statement renders e in statement position. The result may span lines
// and has no trailing newline.
func (g *generator) statement(e expr.Expr) string {
	switch e := e.(type) {
	case expr.FnDecl:
		body, ok := e.Body.(expr.Lisp)
		if !ok {
			// Opaque declarations live in the prologue.
			return ""
		}
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = "_ " + p + ": " + ValueType
		}
		return "@discardableResult\nfunc " + e.Name + "(" + strings.Join(params, ", ") + ") -> " + ValueType + " {\n" +
			indent(g.returning(body.Exprs)) + "}"

	case expr.Conditional:
		s := "if (" + g.condition(e.Cond) + ") {\n" + g.block([]expr.Expr{e.Then}) + "}"
		if e.Else != nil {
			s += " else {\n" + g.block([]expr.Expr{e.Else}) + "}"
		}
		return s

	case expr.Let:
		return "do {\n" + indent(append(g.bindings(e.Bindings), g.statements(e.Body)...)) + "}"

	case expr.Sequence:
		return strings.Join(g.statements(e.Exprs), "\n")
	}
	return g.expression(e)
}

// statements renders each non-empty statement.
func (g *generator) statements(exprs []expr.Expr) []string {
	lines := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if s := g.statement(e); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// block renders statements indented one level, each newline-terminated.
func (g *generator) block(exprs []expr.Expr) string {
	return indent(g.statements(exprs))
}

// returning renders a function body: every form as a statement except the
// last, which returns its value.
func (g *generator) returning(exprs []expr.Expr) []string {
	if len(exprs) == 0 {
		return []string{"return " + noValue}
	}
	last := len(exprs) - 1
	return append(g.statements(exprs[:last]), g.tail(exprs[last]))
}

// tail renders e so that every path through it returns.
func (g *generator) tail(e expr.Expr) string {
	switch e := e.(type) {
	case expr.FnDecl:
		return g.statement(e) + "\nreturn " + noValue

	case expr.Conditional:
		s := "if (" + g.condition(e.Cond) + ") {\n" + indent(g.returning([]expr.Expr{e.Then})) + "}"
		if e.Else == nil {
			return s + "\nreturn " + noValue
		}
		return s + " else {\n" + indent(g.returning([]expr.Expr{e.Else})) + "}"

	case expr.Let:
		return "do {\n" + indent(append(g.bindings(e.Bindings), g.returning(e.Body)...)) + "}"

	case expr.Sequence:
		return strings.Join(g.returning(e.Exprs), "\n")
	}
	return "return " + g.expression(e)
}

func (g *generator) bindings(bs []expr.Binding) []string {
	lines := make([]string, len(bs))
	for i, b := range bs {
		lines[i] = "let " + b.Name + ": " + ValueType + " = " + g.expression(b.Value)
	}
	return lines
}

// condition renders an if condition as a Swift Bool.
func (g *generator) condition(e expr.Expr) string {
	return "truthy(" + g.expression(e) + ")"
}

// expression renders e in value position.
func (g *generator) expression(e expr.Expr) string {
	switch e := e.(type) {
	case expr.StringLit:
		return e.Value
	case expr.NumberLit:
		return e.Value
	case expr.Symbol:
		return e.Name
	case expr.FnCall:
		return g.call(e)
	case expr.Vector:
		panic(&InvariantError{Expr: e, Reason: "vector in rendering position"})
	case expr.FnDecl, expr.Conditional, expr.Let, expr.Sequence:
		panic(&InvariantError{Expr: e, Reason: "statement in value position"})
	case nil:
		panic(&InvariantError{Reason: "missing expression"})
	}
	panic(&InvariantError{Expr: e, Reason: "unknown expression"})
}

func (g *generator) call(c expr.FnCall) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = g.expression(a)
	}
	if entry, ok := g.lib.ByTarget(c.Name); ok {
		switch entry.Style {
		case stdlib.Infix:
			return "(" + strings.Join(args, " "+c.Name+" ") + ")"
		case stdlib.Compare:
			if len(args) != 2 {
				panic(&InvariantError{Expr: c, Reason: "comparison needs exactly two arguments"})
			}
			return args[0] + " " + c.Name + " " + args[1]
		}
	}
	return c.Name + "(" + strings.Join(args, ",") + ")"
}

// indent indents each line of each statement one level.
func indent(stmts []string) string {
	var sb strings.Builder
	for _, s := range stmts {
		for _, line := range strings.Split(s, "\n") {
			sb.WriteString(indentUnit + line + "\n")
		}
	}
	return sb.String()
}
