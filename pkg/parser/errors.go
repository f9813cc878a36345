package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/jotdown/pkg/jdast"
)

// Parse failure kinds. Every *Error carries exactly one of them.
var (
	ErrUnclosedToken   = errors.New("unclosed token")
	ErrNewlineRequired = errors.New("newline required")
	ErrInvalidStyle    = errors.New("invalid inline style")
	ErrValidation      = errors.New("invalid document")
	ErrPayload         = errors.New("unexpected node payload")
	ErrTreeState       = errors.New("inconsistent tree state")
)

// Error describes why a token could not be parsed. Err holds the underlying
// cause, such as a *validate.Error, when there is one.
type Error struct {
	Kind  error
	Token jdast.Token
	Node  jdast.Kind
	Near  string
	Err   error
}

func (e *Error) Error() string {
	var builder strings.Builder
	switch {
	case errors.Is(e.Kind, ErrUnclosedToken):
		fmt.Fprintf(&builder, "unclosed token '%s'", e.Node)
	case errors.Is(e.Kind, ErrNewlineRequired):
		fmt.Fprintf(&builder, "newline required for node '%s'", e.Node)
	default:
		builder.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	if e.Near != "" {
		fmt.Fprintf(&builder, " near %q", e.Near)
	}
	return builder.String()
}

// Unwrap exposes both the failure kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Offset returns the source offset the error was raised at.
func (e *Error) Offset() int {
	return e.Token.Start
}
