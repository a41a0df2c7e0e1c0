package lookup

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
)

// directoryTTL bounds how long the in-memory territory directory is served
// without a refresh.  The directory is reference data that changes rarely.
const directoryTTL = 15 * time.Minute

// territoryDirectory memoizes the backing TerritoryDirectory.  Every lookup
// validates its territory code, so hitting the store each time would turn
// reference data into a hot path.
type territoryDirectory struct {
	source rights.TerritoryDirectory
	logger logging.Logger
	sf     singleflight.Group

	mu        sync.Mutex
	entries   []rights.Territory
	codes     map[string]struct{}
	refreshed time.Time
}

func newTerritoryDirectory(source rights.TerritoryDirectory, log logging.Logger) *territoryDirectory {
	return &territoryDirectory{
		source: source,
		logger: log.Named("territories"),
	}
}

func (d *territoryDirectory) list(ctx context.Context) ([]rights.Territory, error) {
	if err := d.refresh(ctx); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]rights.Territory, len(d.entries))
	copy(out, d.entries)
	return out, nil
}

// contains reports whether code is a known territory.  Matching is exact on
// the upper-cased code; "US" is never found inside "AUS".
func (d *territoryDirectory) contains(ctx context.Context, code string) (bool, error) {
	if err := d.refresh(ctx); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.codes[strings.ToUpper(code)]
	return ok, nil
}

func (d *territoryDirectory) refresh(ctx context.Context) error {
	if d.isFresh() {
		return nil
	}

	// Collapse concurrent refreshes into a single store read.
	_, err, _ := d.sf.Do("refresh", func() (interface{}, error) {
		if d.isFresh() {
			return nil, nil
		}
		return nil, d.load(ctx)
	})
	return err
}

func (d *territoryDirectory) isFresh() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.codes != nil && time.Since(d.refreshed) < directoryTTL
}

func (d *territoryDirectory) load(ctx context.Context) error {
	entries, err := d.source.ListTerritories(ctx)
	if err != nil {
		d.mu.Lock()
		stale := d.codes != nil
		d.mu.Unlock()
		if stale {
			// Serve the stale copy rather than failing lookups over
			// reference data.
			d.logger.Warn("territory directory refresh failed, serving stale copy",
				logging.Err(err))
			return nil
		}
		return err
	}

	codes := make(map[string]struct{}, len(entries))
	for _, t := range entries {
		codes[strings.ToUpper(t.Code)] = struct{}{}
	}

	d.mu.Lock()
	d.entries = entries
	d.codes = codes
	d.refreshed = time.Now()
	d.mu.Unlock()

	d.logger.Debug("territory directory refreshed", logging.Int("territories", len(entries)))
	return nil
}
