package config

import (
	"strings"
	"testing"
)

func TestConfigError_Error_Empty(t *testing.T) {
	e := &ConfigError{Path: "/etc/sparkred/config.toml"}
	got := e.Error()
	if got != "" {
		t.Errorf("expected empty string for no errors, got %q", got)
	}
}

func TestConfigError_Error_MissingVars(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/sparkred/config.toml",
		Missing: []string{"API_KEY", "SECRET"},
	}
	got := e.Error()
	want := "/etc/sparkred/config.toml: missing environment variables: API_KEY, SECRET"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConfigError_Error_ValidationErrors(t *testing.T) {
	e := &ConfigError{
		Errors: []FieldError{
			{Field: "server.port", Message: "must be between 1 and 65535, got 0"},
			{Field: "storage.driver", Message: "unknown"},
		},
	}
	got := e.Error()
	want := "validation failed:\n  - server.port: must be between 1 and 65535, got 0\n  - storage.driver: unknown"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConfigError_Error_Both(t *testing.T) {
	e := &ConfigError{
		Path:    "config.toml",
		Missing: []string{"API_KEY"},
		Errors:  []FieldError{{Field: "server.port", Message: "invalid"}},
	}
	got := e.Error()
	if !strings.HasPrefix(got, "config.toml: missing environment variables: API_KEY\n") {
		t.Errorf("expected path and missing vars first, got %q", got)
	}
	if !strings.Contains(got, "validation failed:\n  - server.port: invalid") {
		t.Errorf("expected validation section, got %q", got)
	}
}

func TestConfigError_Field(t *testing.T) {
	e := &ConfigError{Errors: []FieldError{{Field: "auth.jwt_secret", Message: "required"}}}

	fe, ok := e.Field("auth.jwt_secret")
	if !ok || fe.Message != "required" {
		t.Errorf("Field(auth.jwt_secret) = %v, %v", fe, ok)
	}
	if _, ok := e.Field("server.port"); ok {
		t.Error("expected no error for server.port")
	}
}
