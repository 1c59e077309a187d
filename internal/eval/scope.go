// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval resolves scanned words into an expression tree.
package eval

import (
	"sort"

	"nickandperla.net/lisp2swift/internal/expr"
	"nickandperla.net/lisp2swift/internal/stdlib"
)

// Scope is the set of bound symbols and declared functions visible at one
// point of evaluation. It is a value: the With methods return an extended
// copy and never modify the receiver.
// The zero Scope is empty and ready to use.
type Scope struct {
	symbols   map[string]struct{}
	functions map[string]expr.FnDecl // keyed by source name
	lib       *stdlib.Library
}

// BuiltinScope creates a scope with every library builtin declared.
func BuiltinScope(lib *stdlib.Library) Scope {
	entries := lib.Entries()
	functions := make(map[string]expr.FnDecl, len(entries))
	for _, e := range entries {
		functions[e.Name] = expr.FnDecl{
			Name:   e.Target,
			Params: e.Params,
			Body:   expr.Opaque{Native: e.Native},
		}
	}
	return Scope{functions: functions, lib: lib}
}

// HasSymbol returns true if name is a bound symbol.
func (s Scope) HasSymbol(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// Function returns the declaration for a source name.
func (s Scope) Function(name string) (expr.FnDecl, bool) {
	d, ok := s.functions[name]
	return d, ok
}

// WithSymbols returns a copy of s with names bound.
func (s Scope) WithSymbols(names ...string) Scope {
	if len(names) == 0 {
		return s
	}
	symbols := make(map[string]struct{}, len(s.symbols)+len(names))
	for k := range s.symbols {
		symbols[k] = struct{}{}
	}
	for _, n := range names {
		symbols[n] = struct{}{}
	}
	return Scope{symbols: symbols, functions: s.functions, lib: s.lib}
}

// WithFunction returns a copy of s with name declared as decl, replacing
// any previous declaration of name in the copy.
func (s Scope) WithFunction(name string, decl expr.FnDecl) Scope {
	functions := make(map[string]expr.FnDecl, len(s.functions)+1)
	for k, v := range s.functions {
		functions[k] = v
	}
	functions[name] = decl
	return Scope{symbols: s.symbols, functions: functions, lib: s.lib}
}

// Functions returns the declared function source names, sorted.
func (s Scope) Functions() []string {
	names := make([]string, 0, len(s.functions))
	for k := range s.functions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// functionByTarget returns the source name already rendered as target.
func (s Scope) functionByTarget(target string) (string, bool) {
	for name, d := range s.functions {
		if d.Name == target {
			return name, true
		}
	}
	return "", false
}

// reserved returns true if target would clash with the library runtime.
func (s Scope) reserved(target string) bool {
	return s.lib != nil && s.lib.Reserved(target)
}
