// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package lisp2swift

import (
	"errors"

	"nickandperla.net/lisp2swift/internal/codegen"
	"nickandperla.net/lisp2swift/internal/eval"
	"nickandperla.net/lisp2swift/internal/scanner"
)

// Stage names the pipeline stage that failed.
type Stage string

const (
	StageScan    Stage = "scan"
	StageEval    Stage = "eval"
	StageCodegen Stage = "codegen"
)

// StageError wraps a failure with the stage it came from.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + " error: " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

// Error sentinels, matched with errors.Is.
var (
	ErrInvalidSyntax              = scanner.ErrInvalidExpression
	ErrInvalidFunctionDeclaration = eval.ErrInvalidFunctionDeclaration
	ErrFunctionAlreadyExists      = eval.ErrFunctionAlreadyExists
	ErrUndeclaredFunction         = eval.ErrUndeclaredFunction
	ErrInvalidExpression          = eval.ErrInvalidExpression
	ErrUnknownSymbol              = eval.ErrUnknownSymbol
	ErrIncorrectArguments         = eval.ErrIncorrectArguments
	ErrReservedName               = eval.ErrReservedName
)

// IsIncomplete returns true if err came from input that ended inside an
// open string, list or vector.
func IsIncomplete(err error) bool {
	return scanner.IsIncomplete(err)
}

// IsInternal returns true if err is a code generator invariant violation
// rather than a problem with the input.
func IsInternal(err error) bool {
	var ie *codegen.InvariantError
	return errors.As(err, &ie)
}
