package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Vocabulary sources.
const (
	VocabularyCatalog  = "catalog"
	VocabularyDatabase = "database"
)

// DefaultMaxInputBytes bounds the workout text accepted by the HTTP and MCP surfaces.
const DefaultMaxInputBytes = 64 * 1024

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Tailscale  TailscaleConfig  `yaml:"tailscale"`
	Parser     ParserConfig     `yaml:"parser"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig is optional. An empty host runs the service without persistence.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type VocabularyConfig struct {
	// Source is "catalog" (YAML, default) or "database".
	Source      string `yaml:"source"`
	CatalogPath string `yaml:"catalog_path"`
	CacheSize   int    `yaml:"cache_size"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type ParserConfig struct {
	MaxInputBytes int `yaml:"max_input_bytes"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix WODPARSE_ and underscore-separated paths:
//
//	WODPARSE_SERVER_HOST, WODPARSE_SERVER_PORT,
//	WODPARSE_DB_HOST, WODPARSE_DB_PORT, WODPARSE_DB_NAME,
//	WODPARSE_DB_USER, WODPARSE_DB_PASSWORD, WODPARSE_DB_SSLMODE,
//	WODPARSE_AUTH_API_KEY,
//	WODPARSE_VOCABULARY_SOURCE, WODPARSE_VOCABULARY_CATALOG_PATH, WODPARSE_VOCABULARY_CACHE_SIZE,
//	WODPARSE_TAILSCALE_ENABLED, WODPARSE_TAILSCALE_HOSTNAME, WODPARSE_TAILSCALE_STATE_DIR,
//	WODPARSE_PARSER_MAX_INPUT_BYTES
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Host, "WODPARSE_SERVER_HOST")
	setInt(&cfg.Server.Port, "WODPARSE_SERVER_PORT")

	setString(&cfg.Database.Host, "WODPARSE_DB_HOST")
	setInt(&cfg.Database.Port, "WODPARSE_DB_PORT")
	setString(&cfg.Database.Name, "WODPARSE_DB_NAME")
	setString(&cfg.Database.User, "WODPARSE_DB_USER")
	setString(&cfg.Database.Password, "WODPARSE_DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "WODPARSE_DB_SSLMODE")

	setString(&cfg.Auth.APIKey, "WODPARSE_AUTH_API_KEY")

	setString(&cfg.Vocabulary.Source, "WODPARSE_VOCABULARY_SOURCE")
	setString(&cfg.Vocabulary.CatalogPath, "WODPARSE_VOCABULARY_CATALOG_PATH")
	setInt(&cfg.Vocabulary.CacheSize, "WODPARSE_VOCABULARY_CACHE_SIZE")

	setBool(&cfg.Tailscale.Enabled, "WODPARSE_TAILSCALE_ENABLED")
	setString(&cfg.Tailscale.Hostname, "WODPARSE_TAILSCALE_HOSTNAME")
	setString(&cfg.Tailscale.StateDir, "WODPARSE_TAILSCALE_STATE_DIR")

	setInt(&cfg.Parser.MaxInputBytes, "WODPARSE_PARSER_MAX_INPUT_BYTES")
}

func applyDefaults(cfg *Config) {
	if cfg.Vocabulary.Source == "" {
		cfg.Vocabulary.Source = VocabularyCatalog
	}
	if cfg.Parser.MaxInputBytes == 0 {
		cfg.Parser.MaxInputBytes = DefaultMaxInputBytes
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "wodparse"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Enabled() {
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Vocabulary.Source {
	case VocabularyCatalog:
	case VocabularyDatabase:
		if !c.Database.Enabled() {
			return fmt.Errorf("vocabulary.source %q requires database.host", VocabularyDatabase)
		}
	default:
		return fmt.Errorf("vocabulary.source must be %q or %q, got %q",
			VocabularyCatalog, VocabularyDatabase, c.Vocabulary.Source)
	}
	if c.Vocabulary.CacheSize < 0 {
		return fmt.Errorf("vocabulary.cache_size must not be negative")
	}
	if c.Parser.MaxInputBytes < 0 {
		return fmt.Errorf("parser.max_input_bytes must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.StateDir == "" {
		return fmt.Errorf("tailscale.state_dir is required when tailscale is enabled")
	}
	return nil
}
