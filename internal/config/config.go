// Package config provides configuration management for devserve.
// Settings come from built-in defaults, an optional YAML or TOML file and
// command-line flags, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/clean-dependency-project/devserve/internal/headers"
	"github.com/clean-dependency-project/devserve/internal/version"
)

// Sentinel errors for configuration validation
var (
	ErrVersionRequired         = errors.New("version is required")
	ErrInvalidPort             = errors.New("port must be between 0 and 65535")
	ErrRootNotDirectory        = errors.New("root must be an existing directory")
	ErrInvalidLanguage         = errors.New("language must be a BCP 47 tag")
	ErrInvalidShutdownTimeout  = errors.New("shutdown_timeout must be a positive duration")
	ErrInvalidContentType      = errors.New("invalid content type override")
	ErrInvalidLogLevel         = errors.New("log level must be one of debug, info, warn, error")
	ErrInvalidLogFormat        = errors.New("log format must be json or text")
	ErrUnsupportedConfigFormat = errors.New("config file must be .yaml, .yml or .toml")
)

// Defaults
const (
	DefaultPort            = 8000
	DefaultLanguage        = "en"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config represents the top-level configuration structure.
type Config struct {
	Version string        `yaml:"version" toml:"version"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Headers HeadersConfig `yaml:"headers" toml:"headers"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// ServerConfig represents listener and document root settings.
type ServerConfig struct {
	Host            string `yaml:"host" toml:"host"` // Empty means all interfaces
	Port            int    `yaml:"port" toml:"port"`
	Root            string `yaml:"root" toml:"root"` // Empty means the executable's directory
	OpenBrowser     bool   `yaml:"open_browser" toml:"open_browser"`
	Language        string `yaml:"language" toml:"language"`
	ShutdownTimeout string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// HeadersConfig represents response header settings.
type HeadersConfig struct {
	// ContentTypes adds forced content types, e.g. ".wasm": "application/wasm".
	// The built-in entries cannot be changed.
	ContentTypes map[string]string `yaml:"content_types,omitempty" toml:"content_types,omitempty"`
}

// LogConfig represents logging settings.
type LogConfig struct {
	Level     string `yaml:"level" toml:"level"`
	Format    string `yaml:"format" toml:"format"`
	AccessLog bool   `yaml:"access_log" toml:"access_log"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Port:            DefaultPort,
			OpenBrowser:     true,
			Language:        DefaultLanguage,
			ShutdownTimeout: DefaultShutdownTimeout.String(),
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// GetShutdownTimeout parses and returns the shutdown grace period.
func (s *ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout == "" {
		return DefaultShutdownTimeout
	}
	timeout, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || timeout <= 0 {
		return DefaultShutdownTimeout
	}
	return timeout
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LoadConfig reads a YAML or TOML file over the defaults and validates the
// result. A relative root in the file is taken relative to the file.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	cfg := Default()
	if err := decode(filePath, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	if cfg.Server.Root != "" && !filepath.IsAbs(cfg.Server.Root) {
		cfg.Server.Root = filepath.Join(filepath.Dir(filePath), cfg.Server.Root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func decode(filePath string, data []byte, cfg *Config) error {
	switch formatOf(filePath) {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown field %q", undecoded[0].String())
		}
		return nil
	default:
		return ErrUnsupportedConfigFormat
	}
}

func formatOf(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

// Validate validates the configuration structure and required fields.
func (c *Config) Validate() error {
	if c.Version == "" {
		return ErrVersionRequired
	}
	if err := version.CheckSchema(c.Version); err != nil {
		return fmt.Errorf("version: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Headers.Validate(); err != nil {
		return fmt.Errorf("headers: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Validate validates server settings.
func (s *ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, s.Port)
	}
	if s.Root != "" {
		info, err := os.Stat(s.Root)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRootNotDirectory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrRootNotDirectory, s.Root)
		}
	}
	if s.Language != "" {
		if _, err := language.Parse(s.Language); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, s.Language)
		}
	}
	if s.ShutdownTimeout != "" {
		d, err := time.ParseDuration(s.ShutdownTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidShutdownTimeout, s.ShutdownTimeout)
		}
	}
	return nil
}

// Validate validates content type overrides.
func (h *HeadersConfig) Validate() error {
	for ext, ct := range h.ContentTypes {
		if err := headers.ValidateOverride(ext, ct); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidContentType, ext, err)
		}
	}
	return nil
}

// Validate validates logging settings.
func (l *LogConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, l.Format)
	}
	return nil
}

// executable is replaced in tests.
var executable = os.Executable

// ResolveRoot returns the absolute document root. An empty root means the
// directory containing the running executable.
func (c *Config) ResolveRoot() (string, error) {
	if c.Server.Root == "" {
		return ExecutableDir()
	}
	root, err := filepath.Abs(c.Server.Root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", c.Server.Root, err)
	}
	return root, nil
}

// ExecutableDir returns the directory of the running executable. Binaries
// built by "go run" live in a temporary build directory, so the working
// directory is used for them instead.
func ExecutableDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	if isGoRunDir(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		return wd, nil
	}
	return dir, nil
}

func isGoRunDir(dir string) bool {
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if strings.HasPrefix(part, "go-build") {
			return true
		}
	}
	return false
}

// Marshal encodes the configuration as "yaml" or "toml".
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, format)
	}
}

// SaveConfig saves the configuration to a YAML or TOML file chosen by extension.
func SaveConfig(cfg *Config, filePath string) error {
	format := formatOf(filePath)
	if format == "" {
		return ErrUnsupportedConfigFormat
	}
	data, err := Marshal(cfg, format)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filePath, err)
	}
	return nil
}
