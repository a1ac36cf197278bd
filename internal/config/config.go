// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	TMDB    TMDBConfig    `toml:"tmdb"`
	Auth    AuthConfig    `toml:"auth"`
	Storage StorageConfig `toml:"storage"`
	Client  ClientConfig  `toml:"client"`
}

type ServerConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	LogLevel        string        `toml:"log_level"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	PruneInterval   time.Duration `toml:"prune_interval"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TMDBConfig struct {
	APIKey    string        `toml:"api_key"`
	BaseURL   string        `toml:"base_url"`
	Timeout   time.Duration `toml:"timeout"`
	DetailTTL time.Duration `toml:"detail_ttl"`
}

type AuthConfig struct {
	URL            string `toml:"url"`
	AnonKey        string `toml:"anon_key"`
	JWTSecret      string `toml:"jwt_secret"`
	Audience       string `toml:"audience"`
	RequireSession bool   `toml:"require_session"`
}

// Enabled reports whether the identity provider is configured.
func (a AuthConfig) Enabled() bool {
	return a.URL != "" && a.AnonKey != ""
}

type StorageConfig struct {
	Driver string `toml:"driver"` // bolt, sqlite, file or memory
	Path   string `toml:"path"`
}

type ClientConfig struct {
	ServerURL string `toml:"server_url"`
	LogLevel  string `toml:"log_level"`
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation and unresolved variable checks.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8484
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.PruneInterval == 0 {
		c.Server.PruneInterval = time.Minute
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = 10 * time.Second
	}
	if c.TMDB.DetailTTL == 0 {
		c.TMDB.DetailTTL = time.Hour
	}
	if c.Auth.Audience == "" {
		c.Auth.Audience = "authenticated"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "bolt"
	}
	if c.Storage.Path == "" && c.Storage.Driver != "memory" {
		c.Storage.Path = DefaultDataPath(c.Storage.Driver)
	}
	if c.Client.ServerURL == "" {
		c.Client.ServerURL = "http://localhost:8484"
	}
	if c.Client.LogLevel == "" {
		c.Client.LogLevel = "warn"
	}
}

// DefaultDataPath returns the XDG-compliant default client state file.
func DefaultDataPath(driver string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data/sparkred." + dataExt(driver)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "sparkred", "state."+dataExt(driver))
}

func dataExt(driver string) string {
	switch driver {
	case "sqlite":
		return "sqlite"
	case "file":
		return "json"
	default:
		return "db"
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// It returns the substituted content and the references that could not be
// resolved, which are left unchanged. References inside TOML comments are
// not expanded.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		cut := commentStart(line)
		code, comment := line[:cut], line[cut:]
		code = envVarPattern.ReplaceAllStringFunc(code, func(match string) string {
			value, miss := resolveEnvVar(match)
			if miss != "" {
				missing = append(missing, miss)
			}
			return value
		})
		lines[i] = code + comment
	}
	return strings.Join(lines, ""), missing
}

// resolveEnvVar expands one reference. When it cannot be resolved the match
// is returned unchanged along with the name to report.
func resolveEnvVar(match string) (string, string) {
	parts := envVarPattern.FindStringSubmatch(match)
	name, op, arg := parts[1], parts[2], parts[3]
	value, ok := os.LookupEnv(name)

	switch op {
	case ":-":
		if value == "" {
			return arg, ""
		}
		return value, ""
	case ":?":
		if value == "" {
			return match, name + ": " + strings.TrimSpace(arg)
		}
		return value, ""
	default:
		if !ok {
			return match, name
		}
		return value, ""
	}
}

// commentStart returns the offset of the '#' starting a comment on line, or
// len(line) if there is none. A '#' inside a basic or literal string does not
// start a comment.
func commentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '"' && c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return i
		}
	}
	return len(line)
}
