package config

import (
	"fmt"
	"strings"
)

// FieldError is a validation failure of one setting. Field is the dotted
// TOML path, such as "auth.jwt_secret".
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ConfigError reports everything wrong with one config file: environment
// references that did not resolve and settings that failed validation.
type ConfigError struct {
	Path    string
	Missing []string
	Errors  []FieldError
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, ", "))
		if len(e.Errors) > 0 {
			b.WriteString("\n")
		}
	}
	if len(e.Errors) > 0 {
		b.WriteString("validation failed:")
		for _, fe := range e.Errors {
			fmt.Fprintf(&b, "\n  - %s", fe)
		}
	}
	return b.String()
}

// HasErrors reports whether anything is wrong.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

// Field returns the validation error for field, if any.
func (e *ConfigError) Field(field string) (FieldError, bool) {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}
