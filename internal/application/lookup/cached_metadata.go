package lookup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/database/redis"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/prometheus"
)

const metadataKeyPrefix = "meta:"

// CachedMetadataReader is a read-through cache in front of a MetadataReader.
// Cache failures degrade to the inner reader; they never fail a lookup.
type CachedMetadataReader struct {
	inner   rights.MetadataReader
	cache   redis.Cache
	ttl     time.Duration
	metrics *prometheus.LookupMetrics
	logger  logging.Logger
}

// NewCachedMetadataReader wraps inner with cache.  A zero ttl falls back to
// the cache's default.  metrics may be nil.
func NewCachedMetadataReader(inner rights.MetadataReader, cache redis.Cache, ttl time.Duration, metrics *prometheus.LookupMetrics, log logging.Logger) *CachedMetadataReader {
	return &CachedMetadataReader{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  log.Named("metadata.cache"),
	}
}

func (r *CachedMetadataReader) FetchMetadata(ctx context.Context, ids []rights.TrackID) (map[rights.TrackID]rights.TrackMetadata, error) {
	out := make(map[rights.TrackID]rights.TrackMetadata, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = metadataKeyPrefix + string(id)
	}

	cached, err := r.cache.MGet(ctx, keys)
	if err != nil {
		r.logger.Warn("metadata cache read failed, falling back to source", logging.Err(err))
		cached = map[string][]byte{}
	}

	var misses []rights.TrackID
	hits := 0
	for i, id := range ids {
		raw, ok := cached[keys[i]]
		if !ok {
			misses = append(misses, id)
			continue
		}
		hits++
		if raw == nil {
			// Known absent; no entry and no source fetch.
			continue
		}
		var meta rights.TrackMetadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			hits--
			misses = append(misses, id)
			continue
		}
		out[id] = meta
	}

	r.count(hits, len(misses))
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := r.inner.FetchMetadata(ctx, misses)
	if err != nil {
		return nil, err
	}

	for _, id := range misses {
		meta, ok := fetched[id]
		key := metadataKeyPrefix + string(id)
		if !ok {
			// Remember absence so repeated lookups for unknown tracks do
			// not hit the source every time.
			if err := r.cache.SetNull(ctx, key); err != nil {
				r.logger.Debug("metadata null-marker write failed", logging.Err(err))
			}
			continue
		}
		out[id] = meta
		if err := r.cache.Set(ctx, key, meta, r.ttl); err != nil {
			r.logger.Debug("metadata cache write failed", logging.Err(err))
		}
	}

	return out, nil
}

func (r *CachedMetadataReader) count(hits, misses int) {
	if r.metrics == nil {
		return
	}
	if hits > 0 {
		r.metrics.CacheHitsTotal.WithLabelValues().Add(float64(hits))
	}
	if misses > 0 {
		r.metrics.CacheMissesTotal.WithLabelValues().Add(float64(misses))
	}
}
