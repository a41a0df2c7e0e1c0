// Package snowflake reads the rights catalog directly from the warehouse.
// It is the alternative catalog backend to the PostgreSQL mirror, selected
// with snowflake.enabled in the configuration.
package snowflake

import (
	"context"
	"database/sql"
	"time"

	sf "github.com/snowflakedb/gosnowflake"

	"github.com/m0th3rfkr/ejecucion-publica/internal/config"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// Connection wraps a database/sql pool backed by the Snowflake driver.
type Connection struct {
	db     *sql.DB
	cfg    config.SnowflakeConfig
	logger logging.Logger
}

// NewConnection opens and pings a Snowflake session.
func NewConnection(cfg config.SnowflakeConfig, log logging.Logger) (*Connection, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Warehouse: cfg.Warehouse,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Role:      cfg.Role,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid snowflake configuration")
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to open snowflake connection")
	}

	// Warehouse sessions are expensive; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to ping snowflake")
	}

	log.Info("Snowflake connection established",
		logging.String("account", cfg.Account),
		logging.String("warehouse", cfg.Warehouse),
		logging.String("database", cfg.Database),
	)

	return &Connection{db: db, cfg: cfg, logger: log}, nil
}

func (c *Connection) DB() *sql.DB { return c.db }

func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "snowflake health check failed")
	}
	return nil
}

func (c *Connection) Close() error {
	err := c.db.Close()
	if err == nil {
		c.logger.Info("Snowflake connection closed")
	}
	return err
}
