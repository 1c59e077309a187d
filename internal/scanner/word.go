// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package scanner

import (
	"fmt"
	"strings"

	"nickandperla.net/lisp2swift/internal/token"
)

// Position locates a word in the scanned text.
type Position struct {
	Offset int // rune offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Word is a node of the raw token tree.
type Word struct {
	Kind     token.Kind
	Text     string // leaves only
	Children []Word // LIST and VECTOR only
	Pos      Position
}

// IsAtom reports whether the word is a bare atom.
func (w Word) IsAtom() bool { return w.Kind == token.ATOM }

// IsVector reports whether the word is a vector form.
func (w Word) IsVector() bool { return w.Kind == token.VECTOR }

// String re-serializes the word as source text.
func (w Word) String() string {
	switch w.Kind {
	case token.LIST:
		return "(" + Join(w.Children) + ")"
	case token.VECTOR:
		return "[" + Join(w.Children) + "]"
	}
	return w.Text
}

// Join serializes words separated by single spaces.
func Join(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}
