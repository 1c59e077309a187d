// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package lisp2swift provides the public API for the s-expression to Swift
// compiler.
package lisp2swift

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"nickandperla.net/lisp2swift/internal/codegen"
	"nickandperla.net/lisp2swift/internal/eval"
	"nickandperla.net/lisp2swift/internal/expr"
	"nickandperla.net/lisp2swift/internal/scanner"
	"nickandperla.net/lisp2swift/internal/stdlib"
	"nickandperla.net/lisp2swift/internal/store"
)

// metaLibrary records which library produced the cached output.
const metaLibrary = "library_fingerprint"

// Compiler compiles s-expression source to Swift. It is safe for
// concurrent use: every compilation starts from a fresh builtin scope.
type Compiler struct {
	library    *stdlib.Library
	store      store.Store
	logger     *log.Logger
	noPrologue bool
	err        error // first option failure
}

// New creates a new Compiler with the given options.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{
		library: stdlib.Default(),
		logger:  log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.err != nil {
		c.Close()
		return nil, c.err
	}

	// Output depends on the library, so a cache written by another
	// library is stale.
	if ms, ok := c.store.(store.MetadataStore); ok {
		fp := c.library.Fingerprint()
		prev, err := ms.GetMetadata(metaLibrary)
		if err != nil {
			c.Close()
			return nil, err
		}
		if prev != fp {
			if prev != "" {
				c.logger.Printf("library changed, purging cache")
			}
			if err := ms.Purge(); err != nil {
				c.Close()
				return nil, err
			}
			if err := ms.SetMetadata(metaLibrary, fp); err != nil {
				c.Close()
				return nil, err
			}
		}
	}

	return c, nil
}

// Compile compiles src into Swift source text. On failure no output is
// returned and the error is a *StageError.
func (c *Compiler) Compile(src string) (string, error) {
	body, err := c.body(src)
	if err != nil {
		return "", err
	}
	return c.Prologue() + body, nil
}

// CompileReader compiles source read from r.
func (c *Compiler) CompileReader(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return c.Compile(string(b))
}

// CompileFile compiles a source file.
func (c *Compiler) CompileFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return c.CompileReader(f)
}

// Tree returns the resolved expression tree of src, one top-level form per
// line, in debug notation.
func (c *Compiler) Tree(src string) (string, error) {
	exprs, _, err := c.resolve(src, eval.BuiltinScope(c.library))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, e := range exprs {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// Prologue returns the Swift prologue, or "" when disabled.
func (c *Compiler) Prologue() string {
	if c.noPrologue {
		return ""
	}
	return codegen.Prologue(c.library)
}

// Close releases resources.
func (c *Compiler) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// body renders src without the prologue, going through the cache.
func (c *Compiler) body(src string) (string, error) {
	key := store.Key(src)
	if c.store != nil {
		e, ok, err := c.store.Get(key)
		switch {
		case err != nil:
			c.logger.Printf("cache read failed: %v", err)
		case ok && e.Source == src:
			c.logger.Printf("cache hit %s", key[:12])
			return e.Output, nil
		}
	}

	start := time.Now()
	out, _, err := c.compileIn(src, eval.BuiltinScope(c.library))
	if err != nil {
		return "", err
	}
	c.logger.Printf("compiled %d bytes in %s", len(src), time.Since(start))

	if c.store != nil {
		if err := c.store.Put(store.Entry{Key: key, Source: src, Output: out}); err != nil {
			c.logger.Printf("cache write failed: %v", err)
		}
	}
	return out, nil
}

// compileIn runs the pipeline under scope and returns the rendered forms
// and the extended scope.
func (c *Compiler) compileIn(src string, scope eval.Scope) (string, eval.Scope, error) {
	exprs, next, err := c.resolve(src, scope)
	if err != nil {
		return "", scope, err
	}
	out, err := render(exprs, c.library)
	if err != nil {
		return "", scope, &StageError{Stage: StageCodegen, Err: err}
	}
	return out, next, nil
}

// resolve scans and evaluates src under scope.
func (c *Compiler) resolve(src string, scope eval.Scope) ([]expr.Expr, eval.Scope, error) {
	words, err := scanner.Scan(src)
	if err != nil {
		return nil, scope, &StageError{Stage: StageScan, Err: err}
	}
	exprs, next, err := eval.Evaluate(words, scope)
	if err != nil {
		return nil, scope, &StageError{Stage: StageEval, Err: err}
	}
	return exprs, next, nil
}

// render converts the generator's invariant panic into an error. Any other
// panic is not ours and keeps unwinding.
func render(exprs []expr.Expr, lib *stdlib.Library) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*codegen.InvariantError)
			if !ok {
				panic(r)
			}
			err = ie
		}
	}()
	return codegen.Render(exprs, lib), nil
}
