package rights

import (
	"context"
	"testing"

	stderrors "errors"

	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

type stubMetadata struct {
	meta map[TrackID]TrackMetadata
	err  error
}

func (s *stubMetadata) FetchMetadata(_ context.Context, ids []TrackID) (map[TrackID]TrackMetadata, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[TrackID]TrackMetadata)
	for _, id := range ids {
		if m, ok := s.meta[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func sampleResolution() *Resolution {
	return &Resolution{
		Rights: []ResolvedRight{
			{
				TrackID: "A",
				Grant: Grant{
					TrackID:       "A",
					Type:          RightTypeMaster,
					EffectiveFrom: date(2020, 1, 1),
					OwnerName:     "Atlantic Records",
				},
				Territories: NewTerritorySet("US", "GB"),
			},
			{
				TrackID: "B",
				Grant: Grant{
					TrackID:       "B",
					Type:          RightTypeDistribution,
					EffectiveFrom: date(2019, 1, 1),
					OwnerName:     "Elektra Records",
				},
				Territories: NewTerritorySet("US"),
			},
		},
		Unresolved:       []TrackID{"C"},
		MalformedSkipped: 2,
	}
}

func TestProjectJoinsMetadata(t *testing.T) {
	metadata := &stubMetadata{meta: map[TrackID]TrackMetadata{
		"A": {
			ArtistName:      "Artist 7",
			ProductTitle:    "Track Title 12",
			ImprintDesc:     "Atlantic",
			CreditText:      "Main Artist: Artist 7",
			RepertoireOwner: "Atlantic Records",
		},
	}}

	result, err := NewProjector().Project(context.Background(), sampleResolution(), metadata)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}

	a := result.Rows[0]
	if a.ArtistName == nil || *a.ArtistName != "Artist 7" {
		t.Errorf("metadata not joined for A: %+v", a)
	}
	if a.OwnerName != "Atlantic Records" {
		t.Errorf("grant owner lost in projection: %+v", a)
	}

	// B has no metadata: row kept, fields null.
	b := result.Rows[1]
	if b.ArtistName != nil || b.ProductTitle != nil {
		t.Errorf("absent metadata must project as null fields: %+v", b)
	}
	if b.TrackID != "B" {
		t.Error("row for metadata-less track must not be dropped")
	}
}

func TestProjectSummaryIncludesZeroCounts(t *testing.T) {
	result, err := NewProjector().Project(context.Background(), sampleResolution(), &stubMetadata{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Summary) != len(RightTypesByPriority) {
		t.Fatalf("summary must cover all right types, got %d entries", len(result.Summary))
	}
	// Priority order: Master first.
	if result.Summary[0].Type != RightTypeMaster || result.Summary[0].Count != 1 {
		t.Errorf("unexpected first summary entry: %+v", result.Summary[0])
	}
	if result.Summary.Count(RightTypePublishing) != 0 {
		t.Error("publishing count must be 0")
	}
	if result.Summary.Count(RightTypeDistribution) != 1 {
		t.Error("distribution count must be 1")
	}
}

func TestProjectCarriesResolutionBookkeeping(t *testing.T) {
	result, err := NewProjector().Project(context.Background(), sampleResolution(), &stubMetadata{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Unresolved) != 1 || result.Unresolved[0] != "C" {
		t.Errorf("unresolved tracks lost: %v", result.Unresolved)
	}
	if result.MalformedSkipped != 2 {
		t.Errorf("malformed count lost: %d", result.MalformedSkipped)
	}
}

func TestProjectMetadataFailureIsFatal(t *testing.T) {
	metadata := &stubMetadata{err: stderrors.New("metadata source down")}
	_, err := NewProjector().Project(context.Background(), sampleResolution(), metadata)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.CodeMetadataUnavailable) {
		t.Errorf("expected CodeMetadataUnavailable, got %v", err)
	}
}

func TestProjectEmptyResolution(t *testing.T) {
	result, err := NewProjector().Project(context.Background(), &Resolution{}, &stubMetadata{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 0 {
		t.Error("empty resolution projects no rows")
	}
	for _, e := range result.Summary {
		if e.Count != 0 {
			t.Errorf("expected all-zero summary, got %+v", e)
		}
	}
}
