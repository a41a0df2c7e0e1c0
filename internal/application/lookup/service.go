// Package lookup orchestrates the rights lookup pipeline: normalization,
// territory validation, resolution against the catalog, and projection of
// the final result set.
package lookup

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m0th3rfkr/ejecucion-publica/internal/config"
	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/messaging/kafka"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/prometheus"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// AuditPublisher emits one event per completed lookup.  Publishing is
// best-effort; the service logs failures and moves on.
type AuditPublisher interface {
	PublishLookupCompleted(ctx context.Context, evt kafka.LookupCompletedEvent) error
}

// Request is one lookup as received from the transport layer, before
// normalization.
type Request struct {
	TrackIDs  []string
	Territory string
	AsOf      *time.Time
}

// Response is the completed lookup plus the normalized query it answered.
type Response struct {
	Territory string
	AsOf      time.Time
	Result    *rights.Result
}

// Service runs lookups end to end.  Construct it with NewService; the
// zero value is not usable.
type Service struct {
	catalog      rights.CatalogReader
	metadata     rights.MetadataReader
	directory    *territoryDirectory
	resolver     *rights.Resolver
	projector    *rights.Projector
	audit        AuditPublisher
	metrics      *prometheus.LookupMetrics
	logger       logging.Logger
	maxTracks    int
	queryTimeout time.Duration
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithAuditPublisher wires the audit event sink.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithMetrics wires the Prometheus metric set.
func WithMetrics(m *prometheus.LookupMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService assembles the lookup pipeline over the given catalog backends.
func NewService(
	cfg config.LookupConfig,
	catalog rights.CatalogReader,
	metadata rights.MetadataReader,
	territories rights.TerritoryDirectory,
	log logging.Logger,
	opts ...Option,
) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &Service{
		catalog:      catalog,
		metadata:     metadata,
		directory:    newTerritoryDirectory(territories, log),
		resolver:     rights.NewResolver(log),
		projector:    rights.NewProjector(),
		logger:       log.Named("lookup"),
		maxTracks:    cfg.MaxTracksPerQuery,
		queryTimeout: cfg.QueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs one lookup.  Validation failures and backend outages return
// an error; tracks that simply resolve to nothing do not.
func (s *Service) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	q, err := rights.NormalizeQuery(req.TrackIDs, req.Territory, req.AsOf)
	if err != nil {
		s.record(req.Territory, "rejected", start, nil)
		return nil, err
	}
	if s.maxTracks > 0 && len(q.IDs) > s.maxTracks {
		s.record(q.Territory, "rejected", start, nil)
		return nil, errors.Newf(errors.CodeInvalidParam,
			"query holds %d identifiers, limit is %d", len(q.IDs), s.maxTracks)
	}

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	if err := s.validateTerritory(ctx, q.Territory); err != nil {
		s.record(q.Territory, "rejected", start, nil)
		return nil, err
	}

	// Resolution and the metadata prefetch hit different backends, so run
	// them concurrently.  The prefetch covers every queried track; the
	// projector only consumes entries for tracks that resolved.
	var (
		resolution *rights.Resolution
		prefetched map[rights.TrackID]rights.TrackMetadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		started := time.Now()
		resolution, err = s.resolver.Resolve(gctx, q, s.catalog)
		if s.metrics != nil {
			s.metrics.CatalogFetchDuration.WithLabelValues("catalog").
				Observe(time.Since(started).Seconds())
			if err != nil {
				s.metrics.CatalogErrorsTotal.WithLabelValues("catalog").Inc()
			}
		}
		return err
	})
	g.Go(func() error {
		if s.metadata == nil {
			return nil
		}
		var err error
		prefetched, err = s.metadata.FetchMetadata(gctx, q.IDs)
		if err != nil {
			return errors.Wrap(err, errors.CodeMetadataUnavailable,
				"failed to fetch track metadata")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.record(q.Territory, "error", start, nil)
		s.publishAudit(q, nil, time.Since(start), err)
		return nil, err
	}

	result, err := s.projector.Project(ctx, resolution, mapReader(prefetched))
	if err != nil {
		s.record(q.Territory, "error", start, nil)
		s.publishAudit(q, nil, time.Since(start), err)
		return nil, err
	}

	s.record(q.Territory, "ok", start, result)
	s.publishAudit(q, result, time.Since(start), nil)

	s.logger.Info("lookup complete",
		logging.String("territory", q.Territory),
		logging.Time("as_of", q.AsOf),
		logging.Int("queried", len(q.IDs)),
		logging.Int("resolved", len(result.Rows)),
		logging.Int("unresolved", len(result.Unresolved)),
		logging.Duration("elapsed", time.Since(start)),
	)

	return &Response{Territory: q.Territory, AsOf: q.AsOf, Result: result}, nil
}

// Territories lists the known territory directory for UI pickers.
func (s *Service) Territories(ctx context.Context) ([]rights.Territory, error) {
	return s.directory.list(ctx)
}

func (s *Service) validateTerritory(ctx context.Context, code string) error {
	known, err := s.directory.contains(ctx, code)
	if err != nil {
		return err
	}
	if !known {
		return errors.Newf(errors.CodeUnknownTerritory, "unknown territory %q", code)
	}
	return nil
}

func (s *Service) record(territory, outcome string, start time.Time, result *rights.Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.LookupsTotal.WithLabelValues(territory, outcome).Inc()
	if outcome != "ok" || result == nil {
		return
	}
	s.metrics.LookupDuration.WithLabelValues(territory).Observe(time.Since(start).Seconds())
	s.metrics.TracksQueried.WithLabelValues().Observe(float64(len(result.Rows) + len(result.Unresolved)))
	for _, entry := range result.Summary {
		if entry.Count > 0 {
			s.metrics.TracksResolved.WithLabelValues(string(entry.Type)).Add(float64(entry.Count))
		}
	}
	if n := len(result.Unresolved); n > 0 {
		s.metrics.TracksUnresolved.WithLabelValues().Add(float64(n))
	}
	if result.MalformedSkipped > 0 {
		s.metrics.MalformedGrantsTotal.WithLabelValues().Add(float64(result.MalformedSkipped))
	}
}

func (s *Service) publishAudit(q rights.Query, result *rights.Result, elapsed time.Duration, lookupErr error) {
	if s.audit == nil {
		return
	}
	evt := kafka.LookupCompletedEvent{
		Territory:     q.Territory,
		AsOf:          q.AsOf,
		TracksQueried: len(q.IDs),
		DurationMs:    elapsed.Milliseconds(),
		Outcome:       kafka.OutcomeOK,
	}
	if lookupErr != nil {
		evt.Outcome = kafka.OutcomeError
		evt.ErrorCode = errors.GetCode(lookupErr).String()
	} else if result != nil {
		evt.TracksResolved = len(result.Rows)
		evt.TracksUnresolved = len(result.Unresolved)
		evt.MalformedSkipped = result.MalformedSkipped
	}

	// Detached context: the lookup's deadline may already be spent, and
	// audit delivery must not extend the request.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.audit.PublishLookupCompleted(ctx, evt); err != nil {
		s.logger.Warn("failed to publish audit event", logging.Err(err))
	}
}

// mapReader adapts a prefetched metadata map to the MetadataReader interface
// the projector consumes.
type mapReader map[rights.TrackID]rights.TrackMetadata

func (m mapReader) FetchMetadata(_ context.Context, ids []rights.TrackID) (map[rights.TrackID]rights.TrackMetadata, error) {
	out := make(map[rights.TrackID]rights.TrackMetadata, len(ids))
	for _, id := range ids {
		if meta, ok := m[id]; ok {
			out[id] = meta
		}
	}
	return out, nil
}
