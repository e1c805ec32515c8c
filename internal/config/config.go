package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Snapshot sources.
const (
	SourcePostgres = "postgres"
	SourceFile     = "file"
)

// Config represents the top-level YAML configuration.
type Config struct {
	Connection     Connection `yaml:"connection"`
	OrganizationID string     `yaml:"organization_id"`
	Snapshot       Snapshot   `yaml:"snapshot"`
	Output         string     `yaml:"output"`
	Log            Log        `yaml:"log"`
}

// Connection holds database connection parameters.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// Snapshot selects where the column universe is read from.
type Snapshot struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DSN builds a PostgreSQL connection string.
func (c *Connection) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv fills in empty Connection fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	conn := &c.Connection
	if conn.Host == "" {
		conn.Host = envOr("PGHOST", "POSTGRES_HOST")
	}
	if conn.Port == 0 {
		if s := envOr("PGPORT", "POSTGRES_PORT"); s != "" {
			if p, err := strconv.Atoi(s); err == nil {
				conn.Port = p
			}
		}
	}
	if conn.Database == "" {
		conn.Database = envOr("PGDATABASE", "POSTGRES_DB")
	}
	if conn.User == "" {
		conn.User = envOr("PGUSER", "POSTGRES_USER")
	}
	if conn.Password == "" {
		conn.Password = envOr("PGPASSWORD", "POSTGRES_PASSWORD")
	}
	if conn.SSLMode == "" {
		conn.SSLMode = envOr("PGSSLMODE")
	}
	if c.OrganizationID == "" {
		c.OrganizationID = envOr("DERIVEDCOL_ORGANIZATION_ID")
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Connection.Port == 0 {
		c.Connection.Port = 5432
	}
	if c.Connection.SSLMode == "" {
		c.Connection.SSLMode = "disable"
	}
	if c.Snapshot.Source == "" {
		if c.Snapshot.Path != "" {
			c.Snapshot.Source = SourceFile
		} else {
			c.Snapshot.Source = SourcePostgres
		}
	}
	if c.Output == "" {
		c.Output = "text"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
}

// validate checks the fields every command needs.
func (c *Config) validate() error {
	switch c.Snapshot.Source {
	case SourcePostgres, SourceFile:
	default:
		return fmt.Errorf("snapshot.source must be %q or %q, got %q", SourcePostgres, SourceFile, c.Snapshot.Source)
	}
	if c.Snapshot.Source == SourceFile && c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path is required when snapshot.source is %q", SourceFile)
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	return nil
}

// ValidateForDatabase checks the fields required to talk to Postgres.
func (c *Config) ValidateForDatabase() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("connection.host is required")
	}
	if c.Connection.Database == "" {
		return fmt.Errorf("connection.database is required")
	}
	if c.Connection.User == "" {
		return fmt.Errorf("connection.user is required")
	}
	if c.OrganizationID == "" {
		return fmt.Errorf("organization_id is required")
	}
	return nil
}

// UseSnapshotFile points the snapshot at a local YAML file.
func (c *Config) UseSnapshotFile(path string) {
	c.Snapshot.Source = SourceFile
	c.Snapshot.Path = path
}
