package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// TerritoryRepository lists the known territory directory backing the
// query-territory validation and the territory picker.
type TerritoryRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewTerritoryRepository constructs a ready-to-use TerritoryRepository.
func NewTerritoryRepository(pool *pgxpool.Pool, logger logging.Logger) *TerritoryRepository {
	return &TerritoryRepository{pool: pool, logger: logger.Named("territory_repo")}
}

const listTerritoriesQuery = `
	SELECT country_code, country_name
	FROM territories
	ORDER BY country_name`

// ListTerritories returns all known territories ordered by display name.
func (r *TerritoryRepository) ListTerritories(ctx context.Context) ([]rights.Territory, error) {
	rows, err := r.pool.Query(ctx, listTerritoriesQuery)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query territories")
	}
	defer rows.Close()

	var out []rights.Territory
	for rows.Next() {
		var t rights.Territory
		if err := rows.Scan(&t.Code, &t.Name); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan territory row")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read territory rows")
	}
	return out, nil
}
