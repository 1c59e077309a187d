// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// lisp2swift-check: Checks that .lisp files compile.
//
// Each file runs through the full scan, resolve and render pipeline.
// Lines starting with "# EXPECTED:" are directives, stripped before
// compiling; a file whose directive starts with "Error" must fail.
//
// Usage:
//
//	lisp2swift-check FILE [FILE...]
//	lisp2swift-check --dir DIR
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nickandperla.net/lisp2swift/pkg/lisp2swift"
)

const directive = "# EXPECTED:"

// checkResult holds the outcome of checking a single file.
type checkResult struct {
	path         string
	err          error
	expectsError bool
}

func (r checkResult) ok() bool {
	return (r.err != nil) == r.expectsError
}

// checkFile compiles a .lisp file with directives stripped.
func checkFile(c *lisp2swift.Compiler, path string) checkResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkResult{path: path, err: err}
	}

	var src []string
	expectsError := false
	for _, line := range strings.Split(string(content), "\n") {
		if rest, ok := strings.CutPrefix(line, directive); ok {
			if strings.HasPrefix(strings.TrimSpace(rest), "Error") {
				expectsError = true
			}
			continue
		}
		src = append(src, line)
	}

	_, err = c.Compile(strings.Join(src, "\n"))
	return checkResult{path: path, err: err, expectsError: expectsError}
}

// findLispFiles recursively finds all .lisp files under dir.
func findLispFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".lisp") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: lisp2swift-check [--dir DIR] FILE [FILE...]")
		return 2
	}

	var files []string
	for i := 0; i < len(args); i++ {
		if args[i] != "--dir" {
			files = append(files, args[i])
			continue
		}
		if i+1 >= len(args) {
			fmt.Fprintln(stderr, "Error: --dir requires an argument")
			return 2
		}
		i++
		found, err := findLispFiles(args[i])
		if err != nil {
			fmt.Fprintf(stderr, "Error scanning directory %s: %v\n", args[i], err)
			return 2
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		fmt.Fprintln(stderr, "No .lisp files found")
		return 2
	}

	c, err := lisp2swift.New()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer c.Close()

	passed, failed, expectedErr := 0, 0, 0
	for _, f := range files {
		r := checkFile(c, f)
		switch {
		case !r.ok():
			failed++
			fmt.Fprintf(stdout, "FAIL %s\n", f)
			if r.err != nil {
				fmt.Fprintf(stdout, "     %v\n", r.err)
			} else {
				fmt.Fprintf(stdout, "     expected an error, compiled cleanly\n")
			}
		case r.expectsError:
			expectedErr++
			fmt.Fprintf(stdout, "OK   %s (expected error: %v)\n", f, r.err)
		default:
			passed++
			fmt.Fprintf(stdout, "OK   %s\n", f)
		}
	}

	fmt.Fprintf(stdout, "\n--- Summary ---\n")
	fmt.Fprintf(stdout, "Passed:          %d\n", passed)
	fmt.Fprintf(stdout, "Expected errors: %d\n", expectedErr)
	fmt.Fprintf(stdout, "Failed:          %d\n", failed)
	fmt.Fprintf(stdout, "Total:           %d\n", len(files))

	if failed > 0 {
		return 1
	}
	return 0
}
