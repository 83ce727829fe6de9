package backend

import (
	"errors"
	"fmt"

	"kilc/internal/diag"
)

var (
	// ErrUnsupported is returned (wrapped) by a handler for an operation the
	// target cannot express. Translation keeps the block's partial output.
	ErrUnsupported = errors.New("operation not supported")
	// ErrInvalidOp is returned (wrapped) by a handler when the instruction is
	// malformed for the current conversion state, e.g. on stack underflow.
	ErrInvalidOp = errors.New("invalid operation")
)

// Unsupportedf wraps ErrUnsupported with detail.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

// Invalidf wraps ErrInvalidOp with detail.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOp, fmt.Sprintf(format, args...))
}

// ConfigErrorKind enumerates why a target could not be loaded.
type ConfigErrorKind uint8

const (
	ConfigUnknownTarget ConfigErrorKind = iota + 1
	ConfigHandlerNoOpcode
	ConfigDuplicateOpcode
	ConfigMissingPseudoOp
	ConfigMissingConstructor
)

// ConfigurationError aborts a run before any unit is scanned.
type ConfigurationError struct {
	Kind     ConfigErrorKind
	Selector string
	Detail   string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("target %q: %s: %s", e.Selector, e.Code().Title(), e.Detail)
}

// Code maps the error onto the diagnostic code reported by the CLI.
func (e *ConfigurationError) Code() diag.Code {
	switch e.Kind {
	case ConfigUnknownTarget:
		return diag.CfgUnknownTarget
	case ConfigHandlerNoOpcode:
		return diag.CfgHandlerNoOpcode
	case ConfigDuplicateOpcode:
		return diag.CfgDuplicateOpcode
	case ConfigMissingPseudoOp:
		return diag.CfgMissingPseudoOp
	case ConfigMissingConstructor:
		return diag.CfgMissingConstructor
	}
	return diag.UnknownCode
}
