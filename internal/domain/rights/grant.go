// Package rights implements the rights-resolution core of the lookup
// service: given a catalog of per-track rights grants and a query (track
// identifiers, target territory, as-of instant), it deterministically
// resolves the single currently-applicable right per track.  All decision
// rules — right-type priority, validity-window filtering, territory
// matching, deduplication — live here; data access (warehouse, cache) is
// handled by separate repository adapters.
package rights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// TrackID is an opaque track identifier (an ISRC).  It is case- and
// whitespace-normalized before lookup; see NormalizeTrackIDs.
type TrackID string

// ─────────────────────────────────────────────────────────────────────────────
// RightType
// ─────────────────────────────────────────────────────────────────────────────

// RightType is the category of legal right over a recording.  Types carry an
// implied precedence: Master beats Distribution beats Publishing beats Other.
type RightType string

const (
	RightTypeMaster       RightType = "Master"
	RightTypeDistribution RightType = "Distribution"
	RightTypePublishing   RightType = "Publishing"
	RightTypeOther        RightType = "Other"
)

// RightTypesByPriority lists all right types in descending precedence.
// Summary output follows this order.
var RightTypesByPriority = []RightType{
	RightTypeMaster,
	RightTypeDistribution,
	RightTypePublishing,
	RightTypeOther,
}

// Priority returns the rank of the right type; lower is stronger.
// Master=1, Distribution=2, Publishing=3, Other=4.
func (t RightType) Priority() int {
	switch t {
	case RightTypeMaster:
		return 1
	case RightTypeDistribution:
		return 2
	case RightTypePublishing:
		return 3
	default:
		return 4
	}
}

func (t RightType) String() string { return string(t) }

// ParseRightType maps a raw catalog value to a RightType.  Matching is
// case-insensitive; anything unrecognised collapses to RightTypeOther so a
// new warehouse category can never crash resolution.
func ParseRightType(raw string) RightType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "master":
		return RightTypeMaster
	case "distribution":
		return RightTypeDistribution
	case "publishing":
		return RightTypePublishing
	default:
		return RightTypeOther
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// TerritorySet
// ─────────────────────────────────────────────────────────────────────────────

// TerritorySet is a set of territory codes.  Membership is always exact:
// "US" is never matched inside "AUS".  The warehouse stores territories as a
// delimited list; ParseTerritoryList converts that representation into a set
// at scan time.
type TerritorySet map[string]struct{}

// NewTerritorySet builds a set from the given codes.  Codes are trimmed and
// upper-cased; blanks are dropped.
func NewTerritorySet(codes ...string) TerritorySet {
	s := make(TerritorySet, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			s[c] = struct{}{}
		}
	}
	return s
}

// ParseTerritoryList splits a delimited territory list ("US,GB,EU") into a
// TerritorySet.  Commas and semicolons are accepted as delimiters.
func ParseTerritoryList(raw string) TerritorySet {
	return NewTerritorySet(strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})...)
}

// Contains reports whether code is a member of the set.  The code is
// normalized the same way set members are.
func (s TerritorySet) Contains(code string) bool {
	_, ok := s[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Union returns a new set holding the members of both s and other.
// Neither input is mutated.
func (s TerritorySet) Union(other TerritorySet) TerritorySet {
	out := make(TerritorySet, len(s)+len(other))
	for c := range s {
		out[c] = struct{}{}
	}
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}

// List returns the members sorted ascending, for deterministic output.
func (s TerritorySet) List() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// String renders the set as a sorted comma-separated list.
func (s TerritorySet) String() string {
	return strings.Join(s.List(), ",")
}

// ─────────────────────────────────────────────────────────────────────────────
// Grant
// ─────────────────────────────────────────────────────────────────────────────

// Grant is one row of the rights catalog: a rights grant for a single track,
// with a type, an effective window, a territory set, and a soft-delete flag.
// The descriptive fields are never used in resolution, only carried through
// to projection.
//
// Grants are created and mutated exclusively by the warehouse ETL; the
// resolver treats them as an immutable snapshot for the duration of a query.
type Grant struct {
	TrackID TrackID
	Type    RightType

	// EffectiveFrom / EffectiveTo bound the validity window.  A nil
	// EffectiveTo means the grant is open-ended (currently in force).
	EffectiveFrom time.Time
	EffectiveTo   *time.Time

	Territories TerritorySet
	Deleted     bool

	// Descriptive metadata carried from the catalog row.
	OwnerName    string
	ImprintDesc  string
	CreditText   string
	ArtistName   string
	ProductTitle string
}

// Validate reports whether the grant satisfies the catalog row invariants.
// Violations yield a CodeMalformedGrant error; such rows are skipped and
// counted during resolution, never fatal.
func (g Grant) Validate() error {
	if strings.TrimSpace(string(g.TrackID)) == "" {
		return errors.New(errors.CodeMalformedGrant, "grant has empty track identifier")
	}
	if g.EffectiveFrom.IsZero() {
		return errors.Newf(errors.CodeMalformedGrant,
			"grant for track %s has no effective_from date", g.TrackID)
	}
	if g.EffectiveTo != nil && g.EffectiveFrom.After(*g.EffectiveTo) {
		return errors.Newf(errors.CodeMalformedGrant,
			"grant for track %s has effective_from %s after effective_to %s",
			g.TrackID,
			g.EffectiveFrom.Format(time.RFC3339),
			g.EffectiveTo.Format(time.RFC3339))
	}
	return nil
}

// CoversInstant reports whether the grant's validity window contains asOf.
// The window is half-open: effective_from is inclusive, effective_to is
// exclusive, so a grant whose effective_to equals asOf is no longer current.
// A nil effective_to means the grant is open-ended and always covers asOf
// once started.
func (g Grant) CoversInstant(asOf time.Time) bool {
	if g.EffectiveFrom.After(asOf) {
		return false
	}
	return g.EffectiveTo == nil || g.EffectiveTo.After(asOf)
}

// groupKey identifies one distinct rights period for deduplication: catalog
// rows that share (type, effective_from, effective_to) describe the same
// grant split across territory fragments and are merged into a single
// candidate with the union of their territory sets.
func (g Grant) groupKey() string {
	to := "open"
	if g.EffectiveTo != nil {
		to = g.EffectiveTo.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%s|%s|%s", g.Type, g.EffectiveFrom.UTC().Format(time.RFC3339Nano), to)
}
