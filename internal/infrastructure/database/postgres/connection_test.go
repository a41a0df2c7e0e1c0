package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m0th3rfkr/ejecucion-publica/internal/config"
)

func TestBuildDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "rights",
		Password: "p@ss/word",
		DBName:   "rights_catalog",
		SSLMode:  "require",
	}

	dsn := buildDSN(cfg)
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "/rights_catalog")
	assert.Contains(t, dsn, "sslmode=require")
	// Password must be URL-escaped, never raw.
	assert.NotContains(t, dsn, "p@ss/word")
}
