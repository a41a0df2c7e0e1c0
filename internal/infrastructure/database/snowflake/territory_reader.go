package snowflake

import (
	"context"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// TerritoryReader serves the territory directory from the warehouse
// COUNTRIES reference table.
type TerritoryReader struct {
	conn   *Connection
	logger logging.Logger
}

func NewTerritoryReader(conn *Connection, log logging.Logger) *TerritoryReader {
	return &TerritoryReader{conn: conn, logger: log.Named("snowflake.territories")}
}

const listTerritoriesQuery = `
SELECT COUNTRY_CODE, COUNTRY_NAME
FROM COUNTRIES
ORDER BY COUNTRY_NAME`

func (r *TerritoryReader) ListTerritories(ctx context.Context) ([]rights.Territory, error) {
	rows, err := r.conn.DB().QueryContext(ctx, listTerritoriesQuery)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query countries")
	}
	defer rows.Close()

	var out []rights.Territory
	for rows.Next() {
		var t rights.Territory
		if err := rows.Scan(&t.Code, &t.Name); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan country row")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read country rows")
	}
	return out, nil
}
