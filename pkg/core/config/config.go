package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	mdwlog "github.com/msto63/ccp/foundation/core/log"
)

// EnvConfigPath names the environment variable that points at the config file.
const EnvConfigPath = "CCP_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Lexer   LexerConfig   `toml:"lexer" yaml:"lexer"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Journal JournalConfig `toml:"journal" yaml:"journal"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// LexerConfig limits what the front end accepts
type LexerConfig struct {
	// MaxSourceBytes rejects larger sources before lexing.
	MaxSourceBytes int `toml:"max_source_bytes" yaml:"max_source_bytes"`
	// CacheSize is the number of token streams long-running commands
	// (serve, repl) keep; 0 disables the cache.
	CacheSize int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL  Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format     string `toml:"format" yaml:"format"` // text, styled, json, yaml
	Color      string `toml:"color" yaml:"color"`   // auto, always, never
	ShowTokens bool   `toml:"show_tokens" yaml:"show_tokens"`
}

// JournalConfig holds the run history settings
type JournalConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string   `toml:"host" yaml:"host"`
	Port         int      `toml:"port" yaml:"port"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// newConfig presets the boolean defaults, which applyDefaults cannot tell
// apart from an explicit false.
func newConfig() *Config {
	return &Config{
		Lexer:  LexerConfig{CacheSize: 256},
		Output: OutputConfig{ShowTokens: true},
	}
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
				WithCode(mdwerror.CodeMissingConfig).
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeIOError).
			WithDetail("path", path)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("path", path)
	}
	return cfg, nil
}

// Parse decodes configuration data. ext selects the syntax: ".yaml" and
// ".yml" are YAML, everything else is TOML. Unset keys keep their defaults.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := newConfig()

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in paths
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from CCP_CONFIG or the first default
// location that exists. Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the locations LoadFromEnv tries, in order
func DefaultPaths() []string {
	paths := []string{"./ccp.toml", "./ccp.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ccp", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.DataDir == "" {
		c.General.DataDir = defaultDataDir()
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Lexer
	if c.Lexer.MaxSourceBytes == 0 {
		c.Lexer.MaxSourceBytes = 1 << 20
	}
	if c.Lexer.CacheTTL.Duration == 0 {
		c.Lexer.CacheTTL.Duration = 10 * time.Minute
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}

	// Journal
	if c.Journal.Path == "" {
		c.Journal.Path = filepath.Join(c.General.DataDir, "journal.db")
	}
	if c.Journal.Retention.Duration == 0 {
		c.Journal.Retention.Duration = 30 * 24 * time.Hour
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Journal.Path = os.ExpandEnv(c.Journal.Path)
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	invalid := func(key string, value interface{}) error {
		return mdwerror.New(fmt.Sprintf("invalid value for %s: %v", key, value)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("key", key)
	}

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel)
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat)
	}
	if c.Lexer.MaxSourceBytes < 0 {
		return invalid("lexer.max_source_bytes", c.Lexer.MaxSourceBytes)
	}
	if c.Lexer.CacheSize < 0 {
		return invalid("lexer.cache_size", c.Lexer.CacheSize)
	}
	switch c.Output.Format {
	case "text", "styled", "json", "yaml":
	default:
		return invalid("output.format", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return invalid("output.color", c.Output.Color)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port)
	}
	return nil
}

// ServerAddress returns the listen address of the HTTP server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".local", "share", "ccp")
	}
	return "./data"
}
