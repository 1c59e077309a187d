// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package lisp2swift

import (
	"log"

	"nickandperla.net/lisp2swift/internal/stdlib"
	"nickandperla.net/lisp2swift/internal/store"
)

// Option configures a Compiler.
type Option func(*Compiler)

// Library is a builtin function table plus its Swift runtime.
type Library = stdlib.Library

// Builtin describes one builtin function.
type Builtin = stdlib.Entry

// Builtin render styles.
const (
	StyleCall    = stdlib.Call
	StyleInfix   = stdlib.Infix
	StyleCompare = stdlib.Compare
)

// Store interface for custom caches.
type Store = store.Store

// DefaultLibrary returns the builtin library used when none is configured.
func DefaultLibrary() *Library {
	return stdlib.Default()
}

// NewLibrary builds a custom builtin library.
func NewLibrary(runtime string, builtins ...Builtin) (*Library, error) {
	return stdlib.New(runtime, builtins...)
}

// WithLibrary replaces the builtin library.
func WithLibrary(lib *Library) Option {
	return func(c *Compiler) {
		if lib != nil {
			c.library = lib
		}
	}
}

// WithSQLiteStore caches compiled output in a SQLite database at path.
func WithSQLiteStore(path string) Option {
	return func(c *Compiler) {
		s, err := store.NewSQLite(path)
		if err != nil {
			if c.err == nil {
				c.err = err
			}
			return
		}
		c.setStore(s)
	}
}

// WithMemoryStore caches compiled output in memory (for testing).
func WithMemoryStore() Option {
	return func(c *Compiler) {
		c.setStore(store.NewMemory())
	}
}

// WithStore uses a caller supplied cache. The Compiler closes it on Close.
func WithStore(s Store) Option {
	return func(c *Compiler) {
		c.setStore(s)
	}
}

// WithLogger sets the logger for cache and timing diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithoutPrologue omits the Swift prologue from Compile output.
func WithoutPrologue() Option {
	return func(c *Compiler) {
		c.noPrologue = true
	}
}

func (c *Compiler) setStore(s store.Store) {
	if c.store != nil {
		c.store.Close()
	}
	c.store = s
}
