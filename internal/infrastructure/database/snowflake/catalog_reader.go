package snowflake

import (
	"context"
	"database/sql"
	"strings"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// CatalogReader reads rights grants from the warehouse TRACK_RIGHTS view.
// Column names follow the warehouse schema, which is not ours to rename.
type CatalogReader struct {
	conn   *Connection
	logger logging.Logger
}

func NewCatalogReader(conn *Connection, log logging.Logger) *CatalogReader {
	return &CatalogReader{conn: conn, logger: log.Named("snowflake.catalog")}
}

const fetchGrantsQuery = `
SELECT
	ISRC,
	RIGHT_TYPE,
	EFFECTIVE_FROM_DATE,
	EFFECTIVE_TO_DATE,
	TRACK_RIGHTS_TERRITORIES,
	IS_DELETED,
	MARKETING_OWNER_NAME,
	WMI_IMPRINT_DESC,
	P_CREDIT,
	ARTIST_DISPLAY_NAME,
	PRODUCT_TITLE
FROM TRACK_RIGHTS
WHERE ISRC IN (%s)`

// FetchGrants returns every grant row for the given identifiers.  Deleted
// and out-of-window rows come back too; filtering them is the resolver's job.
func (r *CatalogReader) FetchGrants(ctx context.Context, ids []rights.TrackID) ([]rights.Grant, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args := expandInList(fetchGrantsQuery, ids)
	rows, err := r.conn.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogUnavailable, "failed to query track rights")
	}
	defer rows.Close()

	var grants []rights.Grant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeCatalogUnavailable, "failed to scan track rights row")
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogUnavailable, "failed to read track rights rows")
	}

	r.logger.Debug("Fetched grants from warehouse",
		logging.Int("tracks", len(ids)),
		logging.Int("grants", len(grants)),
	)
	return grants, nil
}

func scanGrant(rows *sql.Rows) (rights.Grant, error) {
	var (
		g           rights.Grant
		isrc        string
		rightType   sql.NullString
		from        sql.NullTime
		to          sql.NullTime
		territories sql.NullString
		deleted     sql.NullBool
		owner       sql.NullString
		imprint     sql.NullString
		credit      sql.NullString
		artist      sql.NullString
		title       sql.NullString
	)
	err := rows.Scan(&isrc, &rightType, &from, &to, &territories,
		&deleted, &owner, &imprint, &credit, &artist, &title)
	if err != nil {
		return rights.Grant{}, err
	}

	g.TrackID = rights.TrackID(isrc)
	g.Type = rights.ParseRightType(rightType.String)
	// A null EFFECTIVE_FROM_DATE leaves the zero time; Validate flags the
	// row as malformed downstream.
	g.EffectiveFrom = from.Time
	if to.Valid {
		t := to.Time
		g.EffectiveTo = &t
	}
	g.Territories = rights.ParseTerritoryList(territories.String)
	g.Deleted = deleted.Valid && deleted.Bool
	g.OwnerName = owner.String
	g.ImprintDesc = imprint.String
	g.CreditText = credit.String
	g.ArtistName = artist.String
	g.ProductTitle = title.String
	return g, nil
}

// expandInList substitutes one "?" placeholder per identifier into the
// query's %s slot.  The Snowflake driver has no array bind equivalent of
// pgx's ANY($1).
func expandInList(query string, ids []rights.TrackID) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = string(id)
	}
	return strings.Replace(query, "%s", strings.Join(placeholders, ", "), 1), args
}
