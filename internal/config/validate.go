package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validDrivers = map[string]bool{
	"bolt": true, "sqlite": true, "file": true, "memory": true, "": true,
}

// Validate checks the configuration and returns one error per bad setting.
func (c *Config) Validate() []FieldError {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		add("server.port", "must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !validLogLevels[c.Server.LogLevel] {
		add("server.log_level", "must be one of debug, info, warn, error; got %q", c.Server.LogLevel)
	}
	if c.Server.ShutdownTimeout < 0 {
		add("server.shutdown_timeout", "must not be negative")
	}
	if c.Server.PruneInterval < 0 {
		add("server.prune_interval", "must not be negative")
	}

	// TMDB validation; a missing api_key is reported per request instead
	if c.TMDB.BaseURL != "" && !validURL(c.TMDB.BaseURL) {
		add("tmdb.base_url", "invalid URL %q", c.TMDB.BaseURL)
	}
	if c.TMDB.Timeout < 0 {
		add("tmdb.timeout", "must not be negative")
	}

	// Auth validation
	if (c.Auth.URL == "") != (c.Auth.AnonKey == "") {
		add("auth", "url and anon_key must be set together")
	}
	if c.Auth.URL != "" && !validURL(c.Auth.URL) {
		add("auth.url", "invalid URL %q", c.Auth.URL)
	}
	if c.Auth.RequireSession && c.Auth.JWTSecret == "" {
		add("auth.jwt_secret", "required when require_session is enabled")
	}

	// Storage validation
	if !validDrivers[c.Storage.Driver] {
		add("storage.driver", "must be one of bolt, sqlite, file, memory; got %q", c.Storage.Driver)
	}

	// Client validation
	if c.Client.ServerURL != "" && !validURL(c.Client.ServerURL) {
		add("client.server_url", "invalid URL %q", c.Client.ServerURL)
	}
	if !validLogLevels[c.Client.LogLevel] {
		add("client.log_level", "must be one of debug, info, warn, error; got %q", c.Client.LogLevel)
	}

	return errs
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
