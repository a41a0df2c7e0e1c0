package rights

import (
	"testing"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y, m, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestParseRightType(t *testing.T) {
	cases := map[string]RightType{
		"Master":       RightTypeMaster,
		"master":       RightTypeMaster,
		" DISTRIBUTION ": RightTypeDistribution,
		"publishing":   RightTypePublishing,
		"Sync":         RightTypeOther,
		"":             RightTypeOther,
	}
	for raw, want := range cases {
		if got := ParseRightType(raw); got != want {
			t.Errorf("ParseRightType(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestRightTypePriority(t *testing.T) {
	if RightTypeMaster.Priority() >= RightTypeDistribution.Priority() {
		t.Error("Master must outrank Distribution")
	}
	if RightTypeDistribution.Priority() >= RightTypePublishing.Priority() {
		t.Error("Distribution must outrank Publishing")
	}
	if RightTypePublishing.Priority() >= RightTypeOther.Priority() {
		t.Error("Publishing must outrank Other")
	}
}

func TestParseTerritoryList(t *testing.T) {
	s := ParseTerritoryList("US, gb ,EU;;JP,")
	for _, code := range []string{"US", "GB", "EU", "JP"} {
		if !s.Contains(code) {
			t.Errorf("expected %s in set %v", code, s.List())
		}
	}
	if len(s) != 4 {
		t.Errorf("expected 4 members, got %v", s.List())
	}
}

// Exact membership: "US" must never match inside "AUS".  This is the
// corrected behavior replacing the substring matching of the legacy query.
func TestTerritoryExactMembership(t *testing.T) {
	s := ParseTerritoryList("AUS,GB")
	if s.Contains("US") {
		t.Error("US must not substring-match AUS")
	}
	if !s.Contains("aus") {
		t.Error("membership should be case-insensitive on lookup")
	}
}

func TestTerritorySetUnion(t *testing.T) {
	a := NewTerritorySet("US", "GB")
	b := NewTerritorySet("GB", "DE")
	u := a.Union(b)
	if got := u.String(); got != "DE,GB,US" {
		t.Errorf("unexpected union %q", got)
	}
	// Inputs untouched.
	if len(a) != 2 || len(b) != 2 {
		t.Error("Union must not mutate its inputs")
	}
}

func TestGrantCoversInstant(t *testing.T) {
	g := Grant{
		TrackID:       "USX1",
		Type:          RightTypeMaster,
		EffectiveFrom: date(2020, 1, 1),
		EffectiveTo:   datePtr(2025, 1, 1),
	}

	if !g.CoversInstant(date(2020, 1, 1)) {
		t.Error("effective_from is inclusive")
	}
	if !g.CoversInstant(date(2024, 12, 31)) {
		t.Error("instant inside window must be covered")
	}
	if g.CoversInstant(date(2025, 1, 1)) {
		t.Error("effective_to is exclusive at the boundary instant")
	}
	if g.CoversInstant(date(2019, 12, 31)) {
		t.Error("instant before window must not be covered")
	}

	open := Grant{TrackID: "USX1", EffectiveFrom: date(2020, 1, 1)}
	if !open.CoversInstant(date(2099, 6, 1)) {
		t.Error("open-ended grant covers any instant after start")
	}
}

func TestGrantValidate(t *testing.T) {
	good := Grant{TrackID: "USX1", EffectiveFrom: date(2020, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	inverted := Grant{
		TrackID:       "USX1",
		EffectiveFrom: date(2022, 1, 1),
		EffectiveTo:   datePtr(2020, 1, 1),
	}
	err := inverted.Validate()
	if err == nil {
		t.Fatal("expected malformed-grant error")
	}
	if !errors.IsCode(err, errors.CodeMalformedGrant) {
		t.Errorf("expected CodeMalformedGrant, got %v", err)
	}

	if (Grant{EffectiveFrom: date(2020, 1, 1)}).Validate() == nil {
		t.Error("empty track id must be malformed")
	}
	if (Grant{TrackID: "USX1"}).Validate() == nil {
		t.Error("zero effective_from must be malformed")
	}
}
