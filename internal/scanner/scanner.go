// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner turns s-expression text into a tree of words.
package scanner

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"nickandperla.net/lisp2swift/internal/token"
)

// MaxDepth bounds list/vector nesting. Scanning and evaluation both recurse
// once per level.
const MaxDepth = 256

// ErrInvalidExpression is matched by every scan failure.
var ErrInvalidExpression = errors.New("invalid expression")

// Error describes malformed input.
type Error struct {
	Fragment   string
	Reason     string
	Pos        Position
	Incomplete bool // input ended inside an open string, list or vector
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid expression at %s: %s: %s", e.Pos, e.Reason, e.Fragment)
}

func (e *Error) Unwrap() error { return ErrInvalidExpression }

// IsIncomplete returns true if err is a scan error caused by input ending
// before an open form or string was closed.
func IsIncomplete(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Incomplete
}

// Scanner scans one text. It keeps no state between Scan calls.
type Scanner struct {
	src        []rune // whitespace-normalized
	lineStarts []int
}

// New creates a Scanner over text.
func New(text string) *Scanner {
	s := &Scanner{lineStarts: []int{0}}
	for _, r := range text {
		if r == '\n' {
			s.lineStarts = append(s.lineStarts, len(s.src)+1)
		}
		if token.IsSpace(r) {
			r = ' '
		}
		s.src = append(s.src, r)
	}
	return s
}

// Scan tokenizes text into top-level words.
func Scan(text string) ([]Word, error) {
	return New(text).Scan()
}

// Scan returns the top-level words.
func (s *Scanner) Scan() ([]Word, error) {
	return s.scan(0, len(s.src), 0)
}

// strategy consumes one word beginning at start and returns it together
// with the offset just past it.
type strategy func(s *Scanner, start, end, depth int) (Word, int, error)

func strategyFor(r rune) strategy {
	switch r {
	case token.RuneQuote:
		return scanString
	case token.RuneListOpen, token.RuneVectorOpen:
		return scanForm
	}
	return scanBare
}

func (s *Scanner) scan(start, end, depth int) ([]Word, error) {
	var words []Word
	for i := start; i < end; {
		r := s.src[i]
		if token.IsSpace(r) {
			i++
			continue
		}
		if token.IsCloser(r) {
			return nil, s.fail(i, i+1, "unexpected closing delimiter", false)
		}
		w, next, err := strategyFor(r)(s, i, end, depth)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
		i = next
	}
	return words, nil
}

func scanString(s *Scanner, start, end, _ int) (Word, int, error) {
	closeAt, ok := s.skipString(start, end)
	if !ok {
		return Word{}, 0, s.fail(start, end, "unterminated string", true)
	}
	return Word{Kind: token.STRING, Text: string(s.src[start : closeAt+1]), Pos: s.position(start)}, closeAt + 1, nil
}

func scanForm(s *Scanner, start, end, depth int) (Word, int, error) {
	if depth >= MaxDepth {
		return Word{}, 0, s.fail(start, end, fmt.Sprintf("nesting deeper than %d", MaxDepth), false)
	}
	closeAt, err := s.match(start, end)
	if err != nil {
		return Word{}, 0, err
	}
	children, err := s.scan(start+1, closeAt, depth+1)
	if err != nil {
		return Word{}, 0, err
	}
	kind := token.LIST
	if s.src[start] == token.RuneVectorOpen {
		kind = token.VECTOR
	}
	return Word{Kind: kind, Children: children, Pos: s.position(start)}, closeAt + 1, nil
}

func scanBare(s *Scanner, start, end, _ int) (Word, int, error) {
	i := start
	for i < end && !token.IsSpace(s.src[i]) {
		i++
	}
	text := string(s.src[start:i])
	if strings.ContainsFunc(text, token.IsDelimiter) {
		return Word{}, 0, s.fail(start, i, "stray delimiter in token", false)
	}
	kind := token.ATOM
	switch {
	case isNumber(text):
		if !fitsInt(text) {
			return Word{}, 0, s.fail(start, i, "integer literal out of range", false)
		}
		kind = token.NUMBER
	case numeric(text):
		return Word{}, 0, s.fail(start, i, "malformed number", false)
	}
	return Word{Kind: kind, Text: text, Pos: s.position(start)}, i, nil
}

// match returns the offset of the closer matching the opener at start.
// Quoted delimiters are skipped.
func (s *Scanner) match(start, end int) (int, error) {
	stack := []rune{token.Closer(s.src[start])}
	for i := start + 1; i < end; i++ {
		r := s.src[i]
		switch {
		case r == token.RuneQuote:
			closeAt, ok := s.skipString(i, end)
			if !ok {
				return 0, s.fail(start, end, "unterminated string", true)
			}
			i = closeAt
		case token.IsOpener(r):
			stack = append(stack, token.Closer(r))
		case token.IsCloser(r):
			if r != stack[len(stack)-1] {
				return 0, s.fail(start, i+1, "mismatched closing delimiter", false)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
	}
	reason := "unterminated list"
	if s.src[start] == token.RuneVectorOpen {
		reason = "unterminated vector"
	}
	return 0, s.fail(start, end, reason, true)
}

// skipString returns the offset of the quote closing the string opened at start.
func (s *Scanner) skipString(start, end int) (int, bool) {
	for i := start + 1; i < end; i++ {
		switch s.src[i] {
		case token.RuneEscape:
			i++
		case token.RuneQuote:
			return i, true
		}
	}
	return 0, false
}

func (s *Scanner) fail(from, to int, reason string, incomplete bool) error {
	return &Error{
		Fragment:   string(s.src[from:to]),
		Reason:     reason,
		Pos:        s.position(from),
		Incomplete: incomplete,
	}
}

func (s *Scanner) position(offset int) Position {
	line := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset })
	return Position{Offset: offset, Line: line, Column: offset - s.lineStarts[line-1] + 1}
}

// numberPattern matches decimal literals Swift accepts as written: digits
// on both sides of a fraction point and an optional exponent.
var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// isNumber classifies a bare token.
func isNumber(text string) bool {
	return numberPattern.MatchString(text)
}

// numeric returns true if text starts the way a number does: a digit,
// optionally after a sign or a fraction point.
func numeric(text string) bool {
	t := strings.TrimLeft(text, "+-")
	t = strings.TrimPrefix(t, ".")
	return t != "" && t[0] >= '0' && t[0] <= '9'
}

// fitsInt returns false for an integer literal too large for a Swift Int.
func fitsInt(text string) bool {
	if strings.ContainsAny(text, ".eE") {
		return true
	}
	_, err := strconv.ParseInt(text, 10, 64)
	return err == nil
}
