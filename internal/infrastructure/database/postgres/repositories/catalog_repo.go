// Package repositories provides PostgreSQL-backed implementations of the
// rights domain's reader interfaces against the catalog mirror schema.
// Every query is parameterised; identifier lists travel as a single array
// bind so one round trip serves an entire lookup batch.
package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// CatalogRepository reads rights-grant rows from the catalog mirror.
type CatalogRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCatalogRepository constructs a ready-to-use CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool, logger logging.Logger) *CatalogRepository {
	return &CatalogRepository{pool: pool, logger: logger.Named("catalog_repo")}
}

const fetchGrantsQuery = `
	SELECT isrc, right_type, effective_from, effective_to, territories,
	       is_deleted, owner_name, imprint_desc, credit_text,
	       artist_name, product_title
	FROM rights_grants
	WHERE isrc = ANY($1)`

// FetchGrants returns every grant row for the requested tracks, deleted and
// expired rows included — candidate filtering is the resolver's concern.
func (r *CatalogRepository) FetchGrants(ctx context.Context, ids []rights.TrackID) ([]rights.Grant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	r.logger.Debug("CatalogRepository.FetchGrants", logging.Int("ids", len(ids)))

	rows, err := r.pool.Query(ctx, fetchGrantsQuery, trackIDStrings(ids))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query rights_grants")
	}
	defer rows.Close()

	var grants []rights.Grant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read rights_grants rows")
	}
	return grants, nil
}

// scanGrant maps one rights_grants row.  The territory list is stored as a
// delimited string and split into a set here, at the storage boundary, so
// the domain only ever sees exact-membership sets.
func scanGrant(row pgx.Row) (rights.Grant, error) {
	var (
		g           rights.Grant
		isrc        string
		rightType   string
		effectiveTo *time.Time
		territories string
	)
	err := row.Scan(
		&isrc, &rightType, &g.EffectiveFrom, &effectiveTo, &territories,
		&g.Deleted, &g.OwnerName, &g.ImprintDesc, &g.CreditText,
		&g.ArtistName, &g.ProductTitle,
	)
	if err != nil {
		return rights.Grant{}, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan grant row")
	}
	g.TrackID = rights.TrackID(isrc)
	g.Type = rights.ParseRightType(rightType)
	g.EffectiveTo = effectiveTo
	g.Territories = rights.ParseTerritoryList(territories)
	return g, nil
}

// trackIDStrings converts domain IDs to the []string pgx binds as text[].
func trackIDStrings(ids []rights.TrackID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
