// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package lisp2swift

import "nickandperla.net/lisp2swift/internal/eval"

// Session compiles a series of inputs as one unit: functions declared by
// an input are visible to every later input. It backs the REPL and is not
// safe for concurrent use.
type Session struct {
	c     *Compiler
	scope eval.Scope
}

// NewSession starts a session with only the builtins declared.
func (c *Compiler) NewSession() *Session {
	return &Session{c: c, scope: eval.BuiltinScope(c.library)}
}

// Compile renders src without the prologue. The session scope advances
// only when src compiles.
func (s *Session) Compile(src string) (string, error) {
	out, next, err := s.c.compileIn(src, s.scope)
	if err != nil {
		return "", err
	}
	s.scope = next
	return out, nil
}

// Functions lists every declared function by source name, builtins included.
func (s *Session) Functions() []string {
	return s.scope.Functions()
}

// Declared lists the functions declared during the session.
func (s *Session) Declared() []string {
	var names []string
	for _, name := range s.scope.Functions() {
		if _, ok := s.c.library.Lookup(name); !ok {
			names = append(names, name)
		}
	}
	return names
}

// Reset forgets every declaration made during the session.
func (s *Session) Reset() {
	s.scope = eval.BuiltinScope(s.c.library)
}
