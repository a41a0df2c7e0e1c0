package rights

import (
	"context"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// ResultRow is one line of the final lookup output: a resolved right joined
// with descriptive track metadata.  Metadata fields are pointers so a track
// whose metadata is absent keeps its row with null fields.
type ResultRow struct {
	TrackID       TrackID
	RightType     RightType
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	Territories   []string

	// OwnerName comes from the winning grant itself.
	OwnerName string

	// Joined metadata; nil when the metadata source has no entry.
	ArtistName      *string
	ProductTitle    *string
	ImprintDesc     *string
	CreditText      *string
	RepertoireOwner *string
}

// SummaryEntry is the count of resolved rights of one type.
type SummaryEntry struct {
	Type  RightType
	Count int
}

// Summary maps right type to resolved-row count, ordered by type priority.
// Types with zero resolved rights are included, so callers can render a
// stable four-line summary.
type Summary []SummaryEntry

// Count returns the count recorded for t, or 0.
func (s Summary) Count(t RightType) int {
	for _, e := range s {
		if e.Type == t {
			return e.Count
		}
	}
	return 0
}

// Result is the shaped output of one lookup: rows in query order, a per-type
// summary, and the tracks that resolved to nothing.
type Result struct {
	Rows             []ResultRow
	Summary          Summary
	Unresolved       []TrackID
	MalformedSkipped int
}

// Projector joins resolved rights with descriptive metadata and shapes the
// final tabular output.  Like the resolver it is stateless; each call is a
// pure function of its inputs.
type Projector struct{}

// NewProjector constructs a Projector.
func NewProjector() *Projector { return &Projector{} }

// Project left-joins each resolved right with its track metadata and
// computes the per-type summary.  Rows keep the resolution's query order;
// tracks missing from the metadata map are emitted with null metadata
// fields.  A metadata read failure is fatal for the call.
func (p *Projector) Project(ctx context.Context, resolution *Resolution, metadata MetadataReader) (*Result, error) {
	ids := make([]TrackID, 0, len(resolution.Rights))
	for _, rr := range resolution.Rights {
		ids = append(ids, rr.TrackID)
	}

	meta := map[TrackID]TrackMetadata{}
	if metadata != nil && len(ids) > 0 {
		var err error
		meta, err = metadata.FetchMetadata(ctx, ids)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeMetadataUnavailable,
				"failed to fetch track metadata")
		}
	}

	result := &Result{
		Rows:             make([]ResultRow, 0, len(resolution.Rights)),
		Unresolved:       resolution.Unresolved,
		MalformedSkipped: resolution.MalformedSkipped,
	}

	counts := make(map[RightType]int, len(RightTypesByPriority))
	for _, rr := range resolution.Rights {
		row := ResultRow{
			TrackID:       rr.TrackID,
			RightType:     rr.Grant.Type,
			EffectiveFrom: rr.Grant.EffectiveFrom,
			EffectiveTo:   rr.Grant.EffectiveTo,
			Territories:   rr.Territories.List(),
			OwnerName:     rr.Grant.OwnerName,
		}
		if m, ok := meta[rr.TrackID]; ok {
			row.ArtistName = strPtr(m.ArtistName)
			row.ProductTitle = strPtr(m.ProductTitle)
			row.ImprintDesc = strPtr(m.ImprintDesc)
			row.CreditText = strPtr(m.CreditText)
			row.RepertoireOwner = strPtr(m.RepertoireOwner)
		}
		result.Rows = append(result.Rows, row)
		counts[rr.Grant.Type]++
	}

	result.Summary = make(Summary, 0, len(RightTypesByPriority))
	for _, t := range RightTypesByPriority {
		result.Summary = append(result.Summary, SummaryEntry{Type: t, Count: counts[t]})
	}

	return result, nil
}

func strPtr(s string) *string { return &s }
