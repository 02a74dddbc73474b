package resolver

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	// SemanticError is a well-formed address that violates a schema or
	// scoping rule.
	SemanticError ErrorKind = "semantic"
	// SyntaxError is a shape the grammar accepts but the resolver cannot
	// interpret.
	SyntaxError ErrorKind = "syntax"
)

// Error aborts a resolution pass. Token is the offending text, if any.
type Error struct {
	Kind    ErrorKind
	Message string
	Token   string
}

func (e *Error) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error: %s: %q", e.Kind, e.Message, e.Token)
}

func semanticError(token, format string, args ...any) error {
	return &Error{Kind: SemanticError, Message: fmt.Sprintf(format, args...), Token: token}
}

func syntaxError(token, format string, args ...any) error {
	return &Error{Kind: SyntaxError, Message: fmt.Sprintf(format, args...), Token: token}
}

func IsSemantic(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == SemanticError
}

func IsSyntax(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == SyntaxError
}
