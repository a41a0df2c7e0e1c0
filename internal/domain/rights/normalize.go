package rights

import (
	"strings"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// Query is a normalized lookup request: an ordered, deduplicated identifier
// set, a target territory, and the instant validity windows are evaluated
// against.
type Query struct {
	// IDs preserves first-seen order from the raw input; output rows follow
	// this order.
	IDs       []TrackID
	Territory string
	AsOf      time.Time
}

// NormalizeTrackIDs cleans a raw identifier list: each entry is trimmed and
// upper-cased, blanks are dropped, and duplicates are removed preserving the
// first occurrence's position.  Normalizing an already-normalized list
// returns it unchanged.
func NormalizeTrackIDs(raw []string) []TrackID {
	seen := make(map[TrackID]struct{}, len(raw))
	out := make([]TrackID, 0, len(raw))
	for _, r := range raw {
		id := TrackID(strings.ToUpper(strings.TrimSpace(r)))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// NormalizeQuery builds a Query from raw user input.  Identifiers are
// normalized per NormalizeTrackIDs; the territory token is passed through
// with only a whitespace trim (validation against the territory directory is
// the caller's concern); a nil asOf defaults to the current UTC instant.
//
// Returns a CodeEmptyQuery error when no identifier survives normalization —
// no query may run against zero identifiers.
func NormalizeQuery(rawIDs []string, rawTerritory string, asOf *time.Time) (Query, error) {
	ids := NormalizeTrackIDs(rawIDs)
	if len(ids) == 0 {
		return Query{}, errors.New(errors.CodeEmptyQuery,
			"no valid track identifiers after normalization")
	}

	at := time.Now().UTC()
	if asOf != nil {
		at = asOf.UTC()
	}

	return Query{
		IDs:       ids,
		Territory: strings.TrimSpace(rawTerritory),
		AsOf:      at,
	}, nil
}
