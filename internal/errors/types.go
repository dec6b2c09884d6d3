// Package errors provides the structured error type used across playlint.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRule       ErrorType = "rule"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeReadFailed       = "ERR_READ_FAILED"
	ErrCodeInvalidYAML      = "ERR_INVALID_YAML"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeDuplicateRule    = "ERR_DUPLICATE_RULE"
	ErrCodeRuleNotFound     = "ERR_RULE_NOT_FOUND"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
)

// LintError is a structured error type with context.
type LintError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Rule     string
	FilePath string
	Line     int
	Column   int
}

// Error implements the error interface.
func (e *LintError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Rule != "" {
		parts = append(parts, "rule:"+e.Rule)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				location += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *LintError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *LintError) Is(target error) bool {
	var t *LintError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *LintError) WithContext(key string, value interface{}) *LintError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *LintError) WithLocation(filePath string, line, column int) *LintError {
	e.FilePath = filePath
	e.Line = line
	e.Column = column

	return e
}

// WithRule records the rule the error relates to.
func (e *LintError) WithRule(rule string) *LintError {
	e.Rule = rule

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *LintError {
	return &LintError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *LintError {
	return &LintError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewParseError creates a YAML parse error.
func NewParseError(message string, cause error) *LintError {
	return &LintError{
		Type:    ErrorTypeParse,
		Code:    ErrCodeInvalidYAML,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *LintError {
	return &LintError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewRuleError creates a rule registration or lookup error.
func NewRuleError(code, rule, message string) *LintError {
	return &LintError{
		Type:    ErrorTypeRule,
		Code:    code,
		Message: message,
		Rule:    rule,
	}
}

// IsParseError checks if an error comes from malformed YAML.
func IsParseError(err error) bool {
	var le *LintError
	if errors.As(err, &le) {
		return le.Type == ErrorTypeParse
	}

	return false
}

// IsIOError checks if an error comes from reading a file.
func IsIOError(err error) bool {
	var le *LintError
	if errors.As(err, &le) {
		return le.Type == ErrorTypeIO
	}

	return false
}

// IsRuleError checks if an error comes from rule registration or lookup.
func IsRuleError(err error) bool {
	var le *LintError
	if errors.As(err, &le) {
		return le.Type == ErrorTypeRule
	}

	return false
}
