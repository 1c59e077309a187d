// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package stdlib holds the builtin function library and its Swift sources.
package stdlib

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed swift/*.swift
var sources embed.FS

// Style selects how calls to a builtin are rendered.
type Style int

const (
	// Call renders name(a,b).
	Call Style = iota
	// Infix renders a parenthesized chain (a - b - c).
	Infix
	// Compare renders a binary comparison a < b.
	Compare
)

func (s Style) String() string {
	switch s {
	case Call:
		return "call"
	case Infix:
		return "infix"
	case Compare:
		return "compare"
	}
	return "unknown"
}

// Entry describes one builtin.
type Entry struct {
	Name   string   // source spelling, e.g. "+"
	Target string   // Swift identifier or operator, e.g. "add"
	Params []string // parameter names; the count is the enforced arity
	Native string   // Swift implementation, empty when Swift provides it
	Style  Style
}

// Library is an immutable builtin table plus the Swift runtime it needs.
type Library struct {
	runtime  string
	entries  []Entry
	byName   map[string]int
	byTarget map[string]int
	reserved map[string]bool
}

// swiftNames are Swift standard library identifiers the runtime relies on.
var swiftNames = []string{"Swift", "Foundation", "Int", "Double", "String", "Bool", "readLine", "fatalError"}

var declPattern = regexp.MustCompile(`(?m)^(?:func|enum|struct|class|let|var|typealias)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// New builds a library. Names and targets must be unique.
func New(runtime string, entries ...Entry) (*Library, error) {
	l := &Library{
		runtime:  runtime,
		byName:   make(map[string]int, len(entries)),
		byTarget: make(map[string]int, len(entries)),
		reserved: make(map[string]bool),
	}
	for _, name := range swiftNames {
		l.reserved[name] = true
	}
	l.reserve(runtime)
	for i, e := range entries {
		if e.Name == "" || e.Target == "" {
			return nil, fmt.Errorf("builtin %d: name and target are required", i)
		}
		if _, ok := l.byName[e.Name]; ok {
			return nil, fmt.Errorf("builtin %q declared twice", e.Name)
		}
		if _, ok := l.byTarget[e.Target]; ok {
			return nil, fmt.Errorf("builtin target %q declared twice", e.Target)
		}
		if e.Style != Call && len(e.Params) != 2 {
			return nil, fmt.Errorf("builtin %q: %s style needs exactly two parameters", e.Name, e.Style)
		}
		l.byName[e.Name] = i
		l.byTarget[e.Target] = i
		l.entries = append(l.entries, e)
		l.reserve(e.Native)
	}
	return l, nil
}

// reserve records every top-level identifier declared by Swift source.
func (l *Library) reserve(src string) {
	for _, m := range declPattern.FindAllStringSubmatch(src, -1) {
		l.reserved[m[1]] = true
	}
}

var defaultLibrary = sync.OnceValue(func() *Library {
	l, err := New(mustRead("value.swift"),
		Entry{Name: "+", Target: "add", Params: []string{"a", "b"}, Native: mustRead("add.swift")},
		Entry{Name: "-", Target: "-", Params: []string{"a", "b"}, Style: Infix},
		Entry{Name: "*", Target: "*", Params: []string{"a", "b"}, Style: Infix},
		Entry{Name: "/", Target: "/", Params: []string{"a", "b"}, Style: Infix},
		Entry{Name: "<", Target: "<", Params: []string{"a", "b"}, Style: Compare},
		Entry{Name: ">", Target: ">", Params: []string{"a", "b"}, Style: Compare},
		Entry{Name: "<=", Target: "<=", Params: []string{"a", "b"}, Style: Compare},
		Entry{Name: ">=", Target: ">=", Params: []string{"a", "b"}, Style: Compare},
		Entry{Name: "==", Target: "equal", Params: []string{"a", "b"}, Native: mustRead("equal.swift")},
		Entry{Name: "print", Target: "print", Params: []string{"a"}, Native: mustRead("print.swift")},
		Entry{Name: "str", Target: "str", Params: []string{"a"}, Native: mustRead("str.swift")},
		Entry{Name: "random", Target: "random", Params: []string{"a", "b"}, Native: mustRead("random.swift")},
		Entry{Name: "readline", Target: "readline", Native: mustRead("readline.swift")},
	)
	if err != nil {
		panic(err)
	}
	return l
})

// Default returns the standard builtin library.
func Default() *Library {
	return defaultLibrary()
}

func mustRead(name string) string {
	b, err := sources.ReadFile("swift/" + name)
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(string(b))
}

// Lookup returns the builtin with the given source name.
func (l *Library) Lookup(name string) (Entry, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// ByTarget returns the builtin rendered as target.
func (l *Library) ByTarget(target string) (Entry, bool) {
	i, ok := l.byTarget[target]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Entries returns the builtins in declaration order.
func (l *Library) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Reserved returns true if ident is declared by the runtime or a native
// builtin, or is a Swift library name they call.
func (l *Library) Reserved(ident string) bool {
	return l.reserved[ident]
}

// Runtime returns the Swift support code every native implementation relies on.
func (l *Library) Runtime() string {
	return l.runtime
}

// Fingerprint identifies the library contents. Generated output depends on
// it, so caches key on it.
func (l *Library) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00", l.runtime)
	for _, e := range l.entries {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00%s\x00", e.Name, e.Target, strings.Join(e.Params, ","), e.Style, e.Native)
	}
	return hex.EncodeToString(h.Sum(nil))
}
