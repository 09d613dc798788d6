package domain

import "fmt"

// VeroError is the base error type with context.
type VeroError struct {
	Phase      string // "config", "load", "compile", "write", "plan", "store", "debug"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *VeroError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *VeroError) Unwrap() error {
	return e.Cause
}

// NewError creates a new VeroError.
func NewError(phase, file string, line int, message string, cause error) *VeroError {
	return &VeroError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a VeroError carrying a remediation hint.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *VeroError {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}
