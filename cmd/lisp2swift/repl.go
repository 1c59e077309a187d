// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"nickandperla.net/lisp2swift/internal/scanner"
	"nickandperla.net/lisp2swift/pkg/lisp2swift"
)

const (
	historyFile = ".lisp2swift_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "lisp2swift REPL (Ctrl+D to exit, :help for commands)")
	fmt.Fprintln(w)
}

// runREPL compiles one input at a time, keeping declarations across inputs.
func runREPL(c *lisp2swift.Compiler, stdin io.Reader, stdout io.Writer) int {
	r := &repl{c: c, session: c.NewSession(), out: stdout}
	printBanner(stdout)

	if !isTerminal(stdin) {
		// Not a TTY, fall back to basic mode
		r.runBasic(stdin)
		return exitOK
	}
	r.runLiner()
	return exitOK
}

type repl struct {
	c       *lisp2swift.Compiler
	session *lisp2swift.Session
	out     io.Writer
}

// runBasic handles non-TTY input (piped input)
func (r *repl) runBasic(in io.Reader) {
	reader := bufio.NewReader(in)
	var buf strings.Builder

	for {
		if buf.Len() == 0 {
			fmt.Fprint(r.out, promptMain)
		} else {
			fmt.Fprint(r.out, promptCont)
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if buf.Len() > 0 {
				r.handle(buf.String())
			}
			fmt.Fprintln(r.out)
			return
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.TrimRight(line, "\r\n"))
		if needsMore(buf.String()) && err == nil {
			continue
		}

		input := buf.String()
		buf.Reset()
		if r.handle(input) || err != nil {
			return
		}
	}
}

// runLiner handles TTY input with line editing and history.
func (r *repl) runLiner() {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(r.out)
			break
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
		if r.handle(input) {
			break
		}
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
}

// readInput prompts until the buffer holds complete forms or a real error.
// It returns false on EOF.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C aborts the current input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

// needsMore returns true while src ends inside an open form or string.
func needsMore(src string) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}
	_, err := scanner.Scan(src)
	return scanner.IsIncomplete(err)
}

// handle runs one REPL input and returns true when the REPL should exit.
func (r *repl) handle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ":") {
		return r.command(strings.Fields(trimmed))
	}

	out, err := r.session.Compile(input)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return false
	}
	fmt.Fprint(r.out, out)
	return false
}

// command handles :help, :quit, :scope, :prologue and :reset.
func (r *repl) command(fields []string) bool {
	switch fields[0] {
	case ":q", ":quit", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(r.out, "  :scope     list functions declared in this session")
		fmt.Fprintln(r.out, "  :prologue  print the Swift runtime prologue")
		fmt.Fprintln(r.out, "  :reset     forget every declaration")
		fmt.Fprintln(r.out, "  :quit      exit")
	case ":scope":
		declared := r.session.Declared()
		if len(declared) == 0 {
			fmt.Fprintln(r.out, "(no declarations)")
			break
		}
		for _, name := range declared {
			fmt.Fprintln(r.out, name)
		}
	case ":prologue":
		fmt.Fprint(r.out, r.c.Prologue())
	case ":reset":
		r.session.Reset()
		fmt.Fprintln(r.out, "scope reset")
	default:
		fmt.Fprintf(r.out, "Unknown command: %s (try :help)\n", fields[0])
	}
	return false
}
