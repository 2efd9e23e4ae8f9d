package config

import (
	"fmt"
	"strings"
)

// FieldProblem is one invalid configuration value.
type FieldProblem struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field found by Validate or Load.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) add(field, message string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: message})
}

// Fields returns the names of the invalid fields in the order they were found.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Field
	}
	return out
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Message
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(parts, "; "))
}
