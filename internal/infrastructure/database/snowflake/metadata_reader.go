package snowflake

import (
	"context"
	"database/sql"
	"strings"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// MetadataReader reads descriptive track metadata from the warehouse
// TRACK_CATALOG view.
type MetadataReader struct {
	conn   *Connection
	logger logging.Logger
}

func NewMetadataReader(conn *Connection, log logging.Logger) *MetadataReader {
	return &MetadataReader{conn: conn, logger: log.Named("snowflake.metadata")}
}

const fetchMetadataQuery = `
SELECT
	ISRC,
	ARTIST_DISPLAY_NAME,
	PRODUCT_TITLE,
	WMI_IMPRINT_DESC,
	P_CREDIT,
	WW_REPERTOIRE_OWNER
FROM TRACK_CATALOG
WHERE ISRC IN (%s)`

// FetchMetadata returns metadata keyed by identifier.  Tracks with no
// catalog row are absent from the map.
func (r *MetadataReader) FetchMetadata(ctx context.Context, ids []rights.TrackID) (map[rights.TrackID]rights.TrackMetadata, error) {
	out := make(map[rights.TrackID]rights.TrackMetadata, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args := expandInList(fetchMetadataQuery, ids)
	rows, err := r.conn.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMetadataUnavailable, "failed to query track catalog")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			isrc                                     string
			artist, title, imprint, credit, repOwner sql.NullString
		)
		if err := rows.Scan(&isrc, &artist, &title, &imprint, &credit, &repOwner); err != nil {
			return nil, errors.Wrap(err, errors.CodeMetadataUnavailable, "failed to scan track catalog row")
		}
		out[rights.TrackID(strings.TrimSpace(isrc))] = rights.TrackMetadata{
			ArtistName:      artist.String,
			ProductTitle:    title.String,
			ImprintDesc:     imprint.String,
			CreditText:      credit.String,
			RepertoireOwner: repOwner.String,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeMetadataUnavailable, "failed to read track catalog rows")
	}

	r.logger.Debug("Fetched metadata from warehouse",
		logging.Int("requested", len(ids)),
		logging.Int("found", len(out)),
	)
	return out, nil
}
