package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_MinimalValid(t *testing.T) {
	cfg := &Config{}
	errs := cfg.Validate()
	assert.Empty(t, errs, "expected no errors for empty config")
}

func TestValidate_DefaultsValid(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 99999}}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "server.port"), "expected port error, got %v", errs)
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{Server: ServerConfig{LogLevel: "verbose"}}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "log_level"), "expected log_level error, got %v", errs)
}

func TestValidate_InvalidDriver(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "redis"}}
	errs := cfg.Validate()
	assert.True(t, containsErrorBoth(errs, "storage.driver", "redis"), "expected driver error, got %v", errs)
}

func TestValidate_AuthPartial(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{URL: "https://project.supabase.co"}}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "anon_key must be set together"), "expected auth pairing error, got %v", errs)
}

func TestValidate_AuthInvalidURL(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{URL: "project.supabase.co", AnonKey: "anon"}}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "auth.url"), "expected auth.url error, got %v", errs)
}

func TestValidate_RequireSessionNeedsSecret(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{URL: "https://project.supabase.co", AnonKey: "anon", RequireSession: true}}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "auth.jwt_secret"), "expected jwt_secret error, got %v", errs)

	cfg.Auth.JWTSecret = "secret"
	assert.Empty(t, cfg.Validate())
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{ShutdownTimeout: -1},
		TMDB:   TMDBConfig{Timeout: -1},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "server.shutdown_timeout"), "got %v", errs)
	assert.True(t, containsError(errs, "tmdb.timeout"), "got %v", errs)
}

func TestValidate_MissingTMDBKeyIsNotAnError(t *testing.T) {
	cfg := Default()
	cfg.TMDB.APIKey = ""
	assert.Empty(t, cfg.Validate())
}

func TestValidate_ErrorsNameTheirField(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 70000},
		Storage: StorageConfig{Driver: "redis"},
	}
	errs := cfg.Validate()
	if assert.Len(t, errs, 2) {
		assert.Equal(t, "server.port", errs[0].Field)
		assert.Equal(t, "storage.driver", errs[1].Field)
		assert.Equal(t, `storage.driver: must be one of bolt, sqlite, file, memory; got "redis"`, errs[1].String())
	}
}

func containsError(errs []FieldError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.String(), substr) {
			return true
		}
	}
	return false
}

func containsErrorBoth(errs []FieldError, a, b string) bool {
	for _, e := range errs {
		if strings.Contains(e.String(), a) && strings.Contains(e.String(), b) {
			return true
		}
	}
	return false
}
