// Package config registers storage patterns from a YAML document.
//
//	storages:
//	  - pattern: '^cache_(?P<bucket>\w+)$'
//	    backend: redis
//	    prefix: '${bucket}'
//	    redis: { addr: '${REDIS_ADDR:-localhost:6379}' }
//	  - pattern: 'scratch_*'
//	    syntax: glob
//	    backend: memory
//
// Upper-case ${VAR} and ${VAR:-default} references are replaced with
// environment variables when the document is loaded. Match references such
// as $1, ${1} and ${bucket} are left in place and expanded with the captured
// groups each time a storage is constructed, so capture group names should
// be lower-case.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajiwo/dynstore"
)

const (
	SyntaxRegexp = "regexp"
	SyntaxGlob   = "glob"
)

var (
	// ErrInvalidConfig is matched by every validation error.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the root of a configuration document.
type Config struct {
	Logging  LoggingConfig `yaml:"logging"`
	Storages []Storage     `yaml:"storages"`
}

// LoggingConfig mirrors the logger settings of the command line tool.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Storage maps a name pattern to a backend specification.
type Storage struct {
	Pattern string `yaml:"pattern"`
	Syntax  string `yaml:"syntax"` // regexp (default) or glob

	Backend `yaml:",inline"`
}

// Backend describes how to build one backend. String fields may contain
// match references.
type Backend struct {
	Kind   string `yaml:"backend"`
	Prefix string `yaml:"prefix"`

	Memory   *MemoryConfig   `yaml:"memory,omitempty"`
	Redis    *RedisConfig    `yaml:"redis,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
	SQLite   *SQLiteConfig   `yaml:"sqlite,omitempty"`
	Failover *FailoverConfig `yaml:"failover,omitempty"`
}

type MemoryConfig struct {
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
	MaxConns   int32  `yaml:"max_conns"`
	MinConns   int32  `yaml:"min_conns"`
	Table      string `yaml:"table"`
}

type SQLiteConfig struct {
	Path        string        `yaml:"path"`
	Table       string        `yaml:"table"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

type FailoverConfig struct {
	Primary   *Backend `yaml:"primary"`
	Secondary *Backend `yaml:"secondary"`

	FailureThreshold int32         `yaml:"failure_threshold"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout"`
	HealthInterval   time.Duration `yaml:"health_interval"`
	HealthTimeout    time.Duration `yaml:"health_timeout"`
}

// envPattern matches ${VAR} and ${VAR:-default} with an upper-case name.
var envPattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} references to upper-case
// environment variables. An unset or empty variable yields the default.
func ExpandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(ref string) string {
		parts := envPattern.FindStringSubmatch(ref)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the document structure. Pattern syntax is not checked;
// a malformed pattern is reported when a name is resolved against it.
func (c *Config) Validate() error {
	for i, s := range c.Storages {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("storages[%d]: %w", i, err)
		}
	}
	return nil
}

func (s *Storage) Validate() error {
	if s.Pattern == "" {
		return newValidationError("pattern is required")
	}
	switch s.Syntax {
	case "", SyntaxRegexp, SyntaxGlob:
	default:
		return newValidationError("unknown syntax %q", s.Syntax)
	}
	return s.Backend.Validate()
}

// PatternValue returns the dynstore pattern for the storage.
func (s *Storage) PatternValue() dynstore.Pattern {
	if s.Syntax == SyntaxGlob {
		return dynstore.Glob(s.Pattern)
	}
	return dynstore.Regexp(s.Pattern)
}

// Apply registers every storage into reg in document order.
func (c *Config) Apply(reg *dynstore.Registry) error {
	for i := range c.Storages {
		s := c.Storages[i]
		if err := reg.Register(s.PatternValue(), s.Backend.Constructor()); err != nil {
			return fmt.Errorf("storages[%d]: %w", i, err)
		}
	}
	return nil
}

// NewResolver creates a resolver whose registry holds the configured storages.
func (c *Config) NewResolver(opts ...dynstore.Option) (*dynstore.Resolver, error) {
	reg := dynstore.NewRegistry()
	if err := c.Apply(reg); err != nil {
		return nil, err
	}
	return dynstore.New(append([]dynstore.Option{dynstore.WithRegistry(reg)}, opts...)...)
}

func newValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
