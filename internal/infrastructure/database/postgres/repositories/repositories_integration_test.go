//go:build integration

// Integration tests for the catalog mirror repositories.  They require
// Docker and are gated behind the "integration" build tag:
//
//	go test -tags integration ./internal/infrastructure/database/postgres/...
package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/database/postgres/repositories"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
)

// startPostgres launches a PostgreSQL 16 container, applies the schema, and
// returns a connected pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "rights_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/rights_test?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema := []string{
		`CREATE TABLE rights_grants (
			id BIGSERIAL PRIMARY KEY,
			isrc TEXT NOT NULL,
			right_type TEXT NOT NULL,
			effective_from TIMESTAMPTZ NOT NULL,
			effective_to TIMESTAMPTZ,
			territories TEXT NOT NULL DEFAULT '',
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			owner_name TEXT NOT NULL DEFAULT '',
			imprint_desc TEXT NOT NULL DEFAULT '',
			credit_text TEXT NOT NULL DEFAULT '',
			artist_name TEXT NOT NULL DEFAULT '',
			product_title TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE track_metadata (
			isrc TEXT PRIMARY KEY,
			artist_name TEXT NOT NULL DEFAULT '',
			product_title TEXT NOT NULL DEFAULT '',
			imprint_desc TEXT NOT NULL DEFAULT '',
			credit_text TEXT NOT NULL DEFAULT '',
			repertoire_owner TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE territories (
			country_code TEXT PRIMARY KEY,
			country_name TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	return pool
}

func TestCatalogRepositoryFetchGrants(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO rights_grants
			(isrc, right_type, effective_from, effective_to, territories, is_deleted, owner_name)
		VALUES
			('USRC17607839', 'Master', '2020-01-01T00:00:00Z', NULL, 'US,GB', FALSE, 'Atlantic Records'),
			('USRC17607839', 'Distribution', '2019-01-01T00:00:00Z', '2099-01-01T00:00:00Z', 'US', FALSE, 'Warner Records'),
			('GBUM71029604', 'Publishing', '2015-06-01T00:00:00Z', NULL, 'DE', TRUE, 'Parlophone Records')`)
	require.NoError(t, err)

	repo := repositories.NewCatalogRepository(pool, logging.NewNopLogger())

	grants, err := repo.FetchGrants(ctx, []rights.TrackID{"USRC17607839", "GBUM71029604", "MISSING"})
	require.NoError(t, err)
	require.Len(t, grants, 3, "all rows come back; filtering is the resolver's job")

	byTrack := map[rights.TrackID]int{}
	for _, g := range grants {
		byTrack[g.TrackID]++
	}
	assert.Equal(t, 2, byTrack["USRC17607839"])
	assert.Equal(t, 1, byTrack["GBUM71029604"])

	for _, g := range grants {
		if g.TrackID == "USRC17607839" && g.Type == rights.RightTypeMaster {
			assert.True(t, g.Territories.Contains("GB"))
			assert.False(t, g.Territories.Contains("DE"))
			assert.Nil(t, g.EffectiveTo)
			assert.Equal(t, "Atlantic Records", g.OwnerName)
		}
		if g.TrackID == "GBUM71029604" {
			assert.True(t, g.Deleted)
		}
	}
}

func TestCatalogRepositoryEmptyInput(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewCatalogRepository(pool, logging.NewNopLogger())

	grants, err := repo.FetchGrants(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestMetadataRepositoryFetchMetadata(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO track_metadata (isrc, artist_name, product_title, repertoire_owner)
		VALUES ('USRC17607839', 'Artist 7', 'Track Title 12', 'Atlantic Records')`)
	require.NoError(t, err)

	repo := repositories.NewMetadataRepository(pool, logging.NewNopLogger())

	meta, err := repo.FetchMetadata(ctx, []rights.TrackID{"USRC17607839", "MISSING"})
	require.NoError(t, err)
	require.Len(t, meta, 1, "absent tracks are simply missing from the map")
	assert.Equal(t, "Artist 7", meta["USRC17607839"].ArtistName)
}

func TestTerritoryRepositoryListTerritories(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO territories (country_code, country_name)
		VALUES ('US', 'United States'), ('GB', 'United Kingdom'), ('DE', 'Germany')`)
	require.NoError(t, err)

	repo := repositories.NewTerritoryRepository(pool, logging.NewNopLogger())

	got, err := repo.ListTerritories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Ordered by display name.
	assert.Equal(t, "DE", got[0].Code)
	assert.Equal(t, "GB", got[1].Code)
	assert.Equal(t, "US", got[2].Code)
}
