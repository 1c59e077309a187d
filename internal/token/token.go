// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines s-expression word kinds and delimiter runes.
package token

// Kind represents the kind of a scanned word.
type Kind int

const (
	ILLEGAL Kind = iota

	// Leaves
	STRING // "..." raw text including quotes
	NUMBER // integer or floating-point literal
	ATOM   // bare identifier

	// Forms
	LIST   // ( ... )
	VECTOR // [ ... ]
)

// Delimiter runes.
const (
	RuneQuote      = '"'
	RuneEscape     = '\\'
	RuneListOpen   = '('
	RuneListClose  = ')'
	RuneVectorOpen = '['
	RuneVectorEnd  = ']'
)

// IsDelimiter returns true if the rune opens or closes a form or string.
func IsDelimiter(r rune) bool {
	switch r {
	case RuneQuote, RuneListOpen, RuneListClose, RuneVectorOpen, RuneVectorEnd:
		return true
	}
	return false
}

// IsOpener returns true if the rune opens a list or vector.
func IsOpener(r rune) bool {
	return r == RuneListOpen || r == RuneVectorOpen
}

// IsCloser returns true if the rune closes a list or vector.
func IsCloser(r rune) bool {
	return r == RuneListClose || r == RuneVectorEnd
}

// Closer returns the closing rune matching an opener, or 0.
func Closer(open rune) rune {
	switch open {
	case RuneListOpen:
		return RuneListClose
	case RuneVectorOpen:
		return RuneVectorEnd
	}
	return 0
}

// IsSpace returns true for the whitespace runes the scanner separates on.
func IsSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case STRING:
		return "STRING"
	case NUMBER:
		return "NUMBER"
	case ATOM:
		return "ATOM"
	case LIST:
		return "LIST"
	case VECTOR:
		return "VECTOR"
	}
	return "ILLEGAL"
}
