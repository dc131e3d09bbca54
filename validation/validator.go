package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/naming"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{
		"fields": v.errors,
	}

	return appErr
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Path checks that value is a non-empty absolute component path.
func (v *Validator) Path(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
		return v
	}
	if _, err := naming.Parse(value); err != nil {
		v.AddError(field, "must be an absolute component path")
	}
	return v
}

// ModuleNamePattern is the grammar of module names such as DafEar.base.
var ModuleNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Names checks that every entry is a well-formed module name and appears once.
func (v *Validator) Names(field string, values []string) *Validator {
	seen := make(map[string]bool, len(values))
	for i, value := range values {
		name := fmt.Sprintf("%s[%d]", field, i)
		switch {
		case strings.TrimSpace(value) == "":
			v.AddError(name, "is required")
		case !ModuleNamePattern.MatchString(value):
			v.AddError(name, fmt.Sprintf("%q is not a valid module name", value))
		case seen[value]:
			v.AddError(name, fmt.Sprintf("duplicates %q", value))
		}
		seen[value] = true
	}
	return v
}

// OneOf checks if a value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required field and returns an error if empty.
func Required(field, value string) error {
	v := New().Required(field, value)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
