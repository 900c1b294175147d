package template

import (
	"fmt"
	"strings"
)

// NotFoundError reports a template name that resolves to neither a file in
// the template directory nor a built-in.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Name)
}

// RenderError reports a failure while parsing or executing a template that
// was successfully located, such as a reference to a missing variable.
type RenderError struct {
	Name string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template %s: %v", e.Name, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Violation is one schema or model constraint broken by input data.
type Violation struct {
	Field   string
	Message string
}

// ValidationError reports every violation found in a validation pass, not
// just the first. It is raised before any filesystem mutation.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "template data validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if v.Field == "" {
			parts[i] = v.Message
			continue
		}
		parts[i] = v.Field + ": " + v.Message
	}
	return "template data validation failed: " + strings.Join(parts, "; ")
}
