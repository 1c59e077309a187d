// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command lisp2swift compiles s-expression programs to Swift.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"
	"nickandperla.net/lisp2swift/pkg/lisp2swift"
)

// Exit codes.
const (
	exitOK       = 0
	exitCompile  = 1
	exitUsage    = 2
	exitInternal = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lisp2swift", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		evalStr    = fs.String("e", "", "Compile source string")
		file       = fs.String("f", "", "Compile source file")
		outPath    = fs.String("o", "", "Write Swift output to file instead of stdout")
		cachePath  = fs.String("cache", "", "SQLite compilation cache path (disabled when empty)")
		showAST    = fs.Bool("ast", false, "Print the expression tree instead of Swift")
		noPrologue = fs.Bool("no-prologue", false, "Omit the Swift runtime prologue")
		verbose    = fs.Bool("v", false, "Log cache and timing details to stderr")
		forceREPL  = fs.Bool("repl", false, "Start the interactive REPL")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lisp2swift [flags] [source...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	given := 0
	for _, set := range []bool{*evalStr != "", *file != "", fs.NArg() > 0} {
		if set {
			given++
		}
	}
	if given > 1 {
		fmt.Fprintln(stderr, "Error: use only one of -e, -f or positional source")
		return exitUsage
	}
	if *forceREPL && given > 0 {
		fmt.Fprintln(stderr, "Error: -repl takes no source")
		return exitUsage
	}

	// Build options
	var opts []lisp2swift.Option
	if *cachePath != "" {
		opts = append(opts, lisp2swift.WithSQLiteStore(*cachePath))
	}
	if *noPrologue {
		opts = append(opts, lisp2swift.WithoutPrologue())
	}
	if *verbose {
		opts = append(opts, lisp2swift.WithLogger(log.New(stderr, "lisp2swift: ", log.Lmicroseconds)))
	}

	compiler, err := lisp2swift.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening cache: %v\n", err)
		return exitUsage
	}
	defer compiler.Close()

	emit := compiler.Compile
	if *showAST {
		emit = compiler.Tree
	}

	var out string
	switch {
	case *evalStr != "":
		out, err = emit(*evalStr)

	case *file != "" && !*showAST:
		out, err = compiler.CompileFile(*file)

	case *file != "":
		b, rerr := os.ReadFile(*file)
		if rerr != nil {
			fmt.Fprintf(stderr, "Error reading file: %v\n", rerr)
			return exitUsage
		}
		out, err = emit(string(b))

	case fs.NArg() > 0:
		out, err = emit(strings.Join(fs.Args(), " "))

	case *forceREPL || isTerminal(stdin):
		return runREPL(compiler, stdin, stdout)

	default:
		// Piped input
		b, rerr := io.ReadAll(stdin)
		if rerr != nil {
			fmt.Fprintf(stderr, "Error reading stdin: %v\n", rerr)
			return exitUsage
		}
		out, err = emit(string(b))
	}

	if err != nil {
		var se *lisp2swift.StageError
		if !errors.As(err, &se) {
			fmt.Fprintf(stderr, "Error reading file: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if lisp2swift.IsInternal(err) {
			return exitInternal
		}
		return exitCompile
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(out), 0o644); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return exitUsage
		}
		return exitOK
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		return exitUsage
	}
	return exitOK
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
