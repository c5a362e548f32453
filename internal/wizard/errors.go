package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrOutOfRange  = errors.New("position out of range")
	ErrUnknownItem = errors.New("unknown item")
)

// ValidationError lists the rejected form fields and why.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := e.fieldNames()
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", n, e.Fields[n]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// First returns the message of the alphabetically first field.
func (e *ValidationError) First() string {
	names := e.fieldNames()
	if len(names) == 0 {
		return ""
	}
	return e.Fields[names[0]]
}

func (e *ValidationError) fieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
