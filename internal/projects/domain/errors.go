package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidRecord   = errors.New("invalid project record")
)

// FieldError is one caller-input problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

// PrerequisiteError is returned when a pipeline stage runs before its input exists.
type PrerequisiteError struct {
	Stage   string
	Missing string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("%s requires %s; run that stage first", e.Stage, e.Missing)
}
