package command

import (
	"errors"
	"fmt"
	"strings"
)

// Parse error kinds. Every *ParseError unwraps to exactly one of these.
var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrMissingArgument    = errors.New("missing argument")
	ErrInvalidValue       = errors.New("invalid value")
	ErrUnknownFlag        = errors.New("unknown flag")
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// ParseError is a user-recoverable argument error. Command is empty when the
// failure happened before a command was selected.
type ParseError struct {
	Kind    error
	Command string
	Label   string // argument label, for MissingArgument and InvalidValue
	Token   string // offending raw token
	Value   string // rejected value, for InvalidValue
	Allowed []string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrUnknownCommand:
		if e.Token == "" {
			return "no command given"
		}
		return fmt.Sprintf("unknown command %q", e.Token)
	case ErrMissingArgument:
		return fmt.Sprintf("missing value for '<%s>'", e.Label)
	case ErrInvalidValue:
		if len(e.Allowed) > 0 {
			return fmt.Sprintf("invalid value %q for '<%s>' (allowed: %s)", e.Value, e.Label, strings.Join(e.Allowed, ", "))
		}
		return fmt.Sprintf("invalid value %q for '<%s>'", e.Value, e.Label)
	case ErrUnknownFlag:
		return fmt.Sprintf("unknown flag %q", e.Token)
	case ErrUnexpectedArgument:
		return fmt.Sprintf("unexpected argument %q", e.Token)
	}
	return "invalid arguments"
}

func (e *ParseError) Unwrap() error { return e.Kind }

// InvalidValue builds the error handlers use when they reject a value the
// dispatcher accepted, such as a whitespace-only prompt.
func InvalidValue(command, label, value string) *ParseError {
	return &ParseError{Kind: ErrInvalidValue, Command: command, Label: label, Value: value}
}
