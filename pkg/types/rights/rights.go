// Package rights holds the wire types shared by the HTTP API, the SDK
// client, and the CLI.
package rights

import "time"

// Right type values as they appear on the wire.
const (
	RightTypeMaster       = "Master"
	RightTypeDistribution = "Distribution"
	RightTypePublishing   = "Publishing"
	RightTypeOther        = "Other"
)

// LookupRequest asks which right applies to each track in a territory at a
// point in time.  AsOf defaults to the current instant when omitted.
type LookupRequest struct {
	TrackIDs  []string   `json:"track_ids"`
	Territory string     `json:"territory"`
	AsOf      *time.Time `json:"as_of,omitempty"`
}

// ResolvedRow is one resolved track: the winning right joined with track
// metadata.  Metadata fields are null when the metadata source has no entry
// for the track.
type ResolvedRow struct {
	ISRC          string     `json:"isrc"`
	RightType     string     `json:"right_type"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
	Territories   []string   `json:"territories"`
	OwnerName     string     `json:"owner_name"`

	ArtistName      *string `json:"artist_name"`
	ProductTitle    *string `json:"product_title"`
	ImprintDesc     *string `json:"imprint_desc"`
	CreditText      *string `json:"credit_text"`
	RepertoireOwner *string `json:"repertoire_owner"`
}

// SummaryEntry counts resolved rows of one right type.  Every lookup
// response carries all four types, zero counts included.
type SummaryEntry struct {
	RightType string `json:"right_type"`
	Count     int    `json:"count"`
}

// LookupResponse is the full lookup outcome.
type LookupResponse struct {
	Territory        string         `json:"territory"`
	AsOf             time.Time      `json:"as_of"`
	Rows             []ResolvedRow  `json:"rows"`
	Summary          []SummaryEntry `json:"summary"`
	Unresolved       []string       `json:"unresolved"`
	MalformedSkipped int            `json:"malformed_skipped"`
}

// Territory is one entry of the territory directory.
type Territory struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TerritoriesResponse lists the known territories, sorted by display name.
type TerritoriesResponse struct {
	Territories []Territory `json:"territories"`
}
