// Package config defines all configuration structures for the rights-lookup
// service.  No I/O or parsing logic lives here — only plain data types and
// validation; loading is handled by loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the local rights
// catalog mirror.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// SnowflakeConfig holds the warehouse connection parameters used when the
// service reads the rights catalog directly from Snowflake instead of the
// PostgreSQL mirror.
type SnowflakeConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Warehouse string `mapstructure:"warehouse"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Role      string `mapstructure:"role"`
}

// RedisConfig holds cache connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	MetadataTTL  time.Duration `mapstructure:"metadata_ttl"`
}

// KafkaConfig holds audit-event producer parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	AuditTopic   string        `mapstructure:"audit_topic"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LookupConfig bounds lookup requests.
type LookupConfig struct {
	// MaxTracksPerQuery caps the identifier count of one lookup.
	MaxTracksPerQuery int `mapstructure:"max_tracks_per_query"`

	// QueryTimeout bounds the end-to-end evaluation of one lookup.
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// ClientConfig holds CLI-to-server connection parameters.
type ClientConfig struct {
	ServerAddr string        `mapstructure:"server_addr"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration for all service processes.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Lookup    LookupConfig    `mapstructure:"lookup"`
	Client    ClientConfig    `mapstructure:"client"`
	Log       logging.Config  `mapstructure:"log"`
}

// Validate checks cross-field consistency.  Defaults must be applied first;
// see ApplyDefaults.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Lookup.MaxTracksPerQuery <= 0 {
		return fmt.Errorf("lookup.max_tracks_per_query must be positive")
	}
	if c.Lookup.QueryTimeout <= 0 {
		return fmt.Errorf("lookup.query_timeout must be positive")
	}
	if c.Snowflake.Enabled {
		if c.Snowflake.Account == "" || c.Snowflake.User == "" {
			return fmt.Errorf("snowflake.account and snowflake.user are required when snowflake is enabled")
		}
	} else if c.Database.Host == "" {
		return fmt.Errorf("database.host is required when snowflake is disabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
