package rights

import (
	"context"
	"sort"

	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// ResolvedRight is the outcome of resolution for one track: the winning
// grant plus the territory set aggregated across all catalog rows that
// described the same rights period.
type ResolvedRight struct {
	TrackID TrackID

	// Grant is the representative row of the winning group.  Its own
	// Territories field reflects the single row it came from; Territories
	// below carries the full aggregated set.
	Grant Grant

	// Territories is the union of the territory sets of every candidate row
	// sharing the winning group key.
	Territories TerritorySet
}

// Resolution is the full outcome of one resolve call.
type Resolution struct {
	// Rights holds at most one ResolvedRight per queried track, in the
	// query's first-seen identifier order.
	Rights []ResolvedRight

	// Unresolved lists queried tracks with no surviving candidate, in query
	// order.  Absence of a right is not an error.
	Unresolved []TrackID

	// MalformedSkipped counts catalog rows dropped for violating grant
	// invariants.  Such rows never abort resolution of other tracks.
	MalformedSkipped int
}

// Resolver selects the single current, applicable right per track.  It holds
// no cross-call state; every Resolve call is a pure function of the query
// and the catalog snapshot.
type Resolver struct {
	logger logging.Logger
}

// NewResolver constructs a Resolver.  A nil logger is replaced with a nop
// implementation.
func NewResolver(logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{logger: logger.Named("resolver")}
}

// Resolve fetches all grants for the queried tracks in one batch and, per
// track, filters, groups, ranks, and selects the winning right:
//
//  1. Candidates must be non-deleted, must cover the as-of instant, and must
//     contain the target territory in their territory set (exact membership,
//     never substring).
//  2. Surviving rows are grouped by (type, effective_from, effective_to);
//     each group unions its rows' territory sets, collapsing duplicate rows
//     that fragment one rights period across territories.
//  3. Groups are ranked by type priority (Master first), then earliest
//     effective_from, then longest-running window, then owner name — a total
//     order, so output is deterministic for a fixed snapshot.
//  4. The top group becomes the track's ResolvedRight; a track with no
//     surviving candidate is reported in Unresolved.
//
// A catalog read failure aborts the whole call with CodeCatalogUnavailable;
// no partial results are returned.
func (r *Resolver) Resolve(ctx context.Context, q Query, catalog CatalogReader) (*Resolution, error) {
	grants, err := catalog.FetchGrants(ctx, q.IDs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogUnavailable,
			"failed to fetch grants from rights catalog")
	}

	res := &Resolution{}

	// Bucket rows per track; tracks resolve independently of one another.
	byTrack := make(map[TrackID][]Grant, len(q.IDs))
	for _, g := range grants {
		byTrack[g.TrackID] = append(byTrack[g.TrackID], g)
	}

	for _, id := range q.IDs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeTimeout, "resolution abandoned")
		}

		winner, malformed := r.resolveTrack(id, byTrack[id], q)
		res.MalformedSkipped += malformed
		if winner == nil {
			res.Unresolved = append(res.Unresolved, id)
			continue
		}
		res.Rights = append(res.Rights, *winner)
	}

	r.logger.Debug("resolution complete",
		logging.Int("queried", len(q.IDs)),
		logging.Int("resolved", len(res.Rights)),
		logging.Int("unresolved", len(res.Unresolved)),
		logging.Int("malformed_skipped", res.MalformedSkipped),
	)
	return res, nil
}

// resolveTrack applies the filter/group/rank pipeline to a single track's
// rows and returns the winning right, or nil when no candidate survives.
func (r *Resolver) resolveTrack(id TrackID, rows []Grant, q Query) (*ResolvedRight, int) {
	malformed := 0

	type group struct {
		rep         Grant
		territories TerritorySet
	}
	groups := make(map[string]*group)
	order := make([]string, 0, len(rows))

	for _, g := range rows {
		if err := g.Validate(); err != nil {
			malformed++
			r.logger.Warn("skipping malformed grant row",
				logging.String("track_id", string(id)),
				logging.Err(err),
			)
			continue
		}
		if g.Deleted || !g.CoversInstant(q.AsOf) || !g.Territories.Contains(q.Territory) {
			continue
		}

		key := g.groupKey()
		if existing, ok := groups[key]; ok {
			existing.territories = existing.territories.Union(g.Territories)
			continue
		}
		groups[key] = &group{rep: g, territories: g.Territories.Union(nil)}
		order = append(order, key)
	}

	if len(groups) == 0 {
		return nil, malformed
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]].rep, groups[order[j]].rep
		return lessGrant(a, b)
	})

	top := groups[order[0]]
	return &ResolvedRight{
		TrackID:     id,
		Grant:       top.rep,
		Territories: top.territories,
	}, malformed
}

// lessGrant is the total order used to rank candidate groups:
// type priority ascending, effective_from ascending, open-ended (then later)
// effective_to first, owner name ascending.  Every comparison level is
// deterministic so repeated runs over the same snapshot rank identically.
func lessGrant(a, b Grant) bool {
	if pa, pb := a.Type.Priority(), b.Type.Priority(); pa != pb {
		return pa < pb
	}
	if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
		return a.EffectiveFrom.Before(b.EffectiveFrom)
	}
	// Prefer the longer-running window: open-ended beats dated, later end
	// beats earlier end.
	switch {
	case a.EffectiveTo == nil && b.EffectiveTo != nil:
		return true
	case a.EffectiveTo != nil && b.EffectiveTo == nil:
		return false
	case a.EffectiveTo != nil && b.EffectiveTo != nil && !a.EffectiveTo.Equal(*b.EffectiveTo):
		return a.EffectiveTo.After(*b.EffectiveTo)
	}
	return a.OwnerName < b.OwnerName
}
