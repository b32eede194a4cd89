package gen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrMalformedConfig indicates a configuration that is not a single
	// string-valued ownership option.
	ErrMalformedConfig = errors.New("atomflag: malformed configuration")
	// ErrUnsupportedOwnership indicates an ownership string that names no known shape.
	ErrUnsupportedOwnership = errors.New("atomflag: unsupported ownership shape")
	// ErrInvalidDeclaration indicates a flag-set declaration that was rejected.
	ErrInvalidDeclaration = errors.New("atomflag: invalid declaration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("atomflag: code generation failed")
)

// ConfigError represents a malformed configuration.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("atomflag: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("atomflag: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMalformedConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// OwnershipError reports an ownership value that is a well-formed string
// but not one of the recognized shapes.
type OwnershipError struct {
	Value string
}

// Error implements the error interface.
func (e *OwnershipError) Error() string {
	return fmt.Sprintf("atomflag: unsupported ownership shape %q: only \"Arc\" and \"Rc\" are supported", e.Value)
}

// Is reports whether the target matches the sentinel error for OwnershipError.
func (e *OwnershipError) Is(target error) bool {
	return target == ErrUnsupportedOwnership
}

// DeclarationError attaches the offending declaration to a cause, so that
// diagnostics point at the flag-set type.
type DeclarationError struct {
	Type  string
	Pos   token.Position
	Cause error
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	var b strings.Builder
	b.WriteString("atomflag: ")
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Type)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Cause.Error(), "atomflag: "))
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DeclarationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DeclarationError.
func (e *DeclarationError) Is(target error) bool {
	return target == ErrInvalidDeclaration
}

// NewDeclarationError creates a new DeclarationError.
func NewDeclarationError(typeName string, pos token.Position, cause error) *DeclarationError {
	return &DeclarationError{
		Type:  typeName,
		Pos:   pos,
		Cause: cause,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "synthesize", "render", "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("atomflag: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsOwnershipError reports whether the error is an OwnershipError.
func IsOwnershipError(err error) bool {
	var ownErr *OwnershipError
	return errors.As(err, &ownErr)
}

// IsDeclarationError reports whether the error is a DeclarationError.
func IsDeclarationError(err error) bool {
	var declErr *DeclarationError
	return errors.As(err, &declErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
