package rights

import "context"

// CatalogReader is the data-access capability the resolver consumes: a batch
// fetch of all grant rows for a set of tracks.  Implementations exist for the
// PostgreSQL mirror, the Snowflake warehouse, and in-memory fixtures; the
// resolver never opens connections itself.
//
// FetchGrants returns every row for the requested tracks, including deleted
// and out-of-window grants — filtering is the resolver's job, so all
// implementations stay dumb and interchangeable.
type CatalogReader interface {
	FetchGrants(ctx context.Context, ids []TrackID) ([]Grant, error)
}

// TrackMetadata is the descriptive metadata joined onto resolved rights.
// It is display-only and plays no part in resolution.
type TrackMetadata struct {
	ArtistName      string
	ProductTitle    string
	ImprintDesc     string
	CreditText      string
	RepertoireOwner string
}

// MetadataReader supplies descriptive track metadata for projection.
// Tracks absent from the returned map are projected with null metadata
// fields, never dropped.
type MetadataReader interface {
	FetchMetadata(ctx context.Context, ids []TrackID) (map[TrackID]TrackMetadata, error)
}

// Territory is one entry of the known-territory directory.
type Territory struct {
	Code string
	Name string
}

// TerritoryDirectory lists the territory codes a query may target.  Queries
// against unknown territories are rejected before resolution.
type TerritoryDirectory interface {
	ListTerritories(ctx context.Context) ([]Territory, error)
}
