// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"

	"nickandperla.net/lisp2swift/internal/scanner"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	InvalidFunctionDeclaration ErrorKind = iota + 1
	FunctionAlreadyExists
	UndeclaredFunction
	InvalidExpression
	UnknownSymbol
	IncorrectArguments
	ReservedName
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFunctionDeclaration:
		return "invalid function declaration"
	case FunctionAlreadyExists:
		return "function already exists"
	case UndeclaredFunction:
		return "undeclared function"
	case InvalidExpression:
		return "invalid expression"
	case UnknownSymbol:
		return "unknown symbol"
	case IncorrectArguments:
		return "incorrect arguments"
	case ReservedName:
		return "reserved name"
	}
	return "unknown error"
}

// Error is an evaluation failure. Name is the offending function or symbol,
// Words the offending source words.
type Error struct {
	Kind  ErrorKind
	Name  string
	Words []scanner.Word
	Want  int // declared arity, IncorrectArguments only
	Pos   scanner.Position
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidFunctionDeclaration = &Error{Kind: InvalidFunctionDeclaration}
	ErrFunctionAlreadyExists      = &Error{Kind: FunctionAlreadyExists}
	ErrUndeclaredFunction         = &Error{Kind: UndeclaredFunction}
	ErrInvalidExpression          = &Error{Kind: InvalidExpression}
	ErrUnknownSymbol              = &Error{Kind: UnknownSymbol}
	ErrIncorrectArguments         = &Error{Kind: IncorrectArguments}
	ErrReservedName               = &Error{Kind: ReservedName}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch e.Kind {
	case IncorrectArguments:
		msg = fmt.Sprintf("%s to %s: expected %d, got %d", msg, e.Name, e.Want, len(e.Words))
		if len(e.Words) > 0 {
			msg += ": " + scanner.Join(e.Words)
		}
	case InvalidFunctionDeclaration, InvalidExpression:
		if len(e.Words) > 0 {
			msg += ": (" + scanner.Join(e.Words) + ")"
		}
	default:
		if e.Name != "" {
			msg += ": " + e.Name
		}
	}
	if e.Pos.Line > 0 {
		msg = e.Pos.String() + ": " + msg
	}
	return msg
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func failure(kind ErrorKind, at scanner.Word, name string, words []scanner.Word) *Error {
	return &Error{Kind: kind, Name: name, Words: words, Pos: at.Pos}
}
