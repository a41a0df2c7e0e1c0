package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// MetadataRepository reads descriptive track metadata from the catalog
// mirror.
type MetadataRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewMetadataRepository constructs a ready-to-use MetadataRepository.
func NewMetadataRepository(pool *pgxpool.Pool, logger logging.Logger) *MetadataRepository {
	return &MetadataRepository{pool: pool, logger: logger.Named("metadata_repo")}
}

const fetchMetadataQuery = `
	SELECT isrc, artist_name, product_title, imprint_desc,
	       credit_text, repertoire_owner
	FROM track_metadata
	WHERE isrc = ANY($1)`

// FetchMetadata returns metadata keyed by track.  Tracks without a metadata
// row are simply absent from the map; the projector renders them with null
// fields.
func (r *MetadataRepository) FetchMetadata(ctx context.Context, ids []rights.TrackID) (map[rights.TrackID]rights.TrackMetadata, error) {
	if len(ids) == 0 {
		return map[rights.TrackID]rights.TrackMetadata{}, nil
	}
	r.logger.Debug("MetadataRepository.FetchMetadata", logging.Int("ids", len(ids)))

	rows, err := r.pool.Query(ctx, fetchMetadataQuery, trackIDStrings(ids))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query track_metadata")
	}
	defer rows.Close()

	out := make(map[rights.TrackID]rights.TrackMetadata, len(ids))
	for rows.Next() {
		var (
			isrc string
			m    rights.TrackMetadata
		)
		if err := rows.Scan(&isrc, &m.ArtistName, &m.ProductTitle,
			&m.ImprintDesc, &m.CreditText, &m.RepertoireOwner); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan metadata row")
		}
		out[rights.TrackID(isrc)] = m
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read track_metadata rows")
	}
	return out, nil
}
