package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m0th3rfkr/ejecucion-publica/internal/config"
	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/messaging/kafka"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

type fakeCatalog struct {
	grants []rights.Grant
	err    error
	calls  int
}

func (f *fakeCatalog) FetchGrants(_ context.Context, _ []rights.TrackID) ([]rights.Grant, error) {
	f.calls++
	return f.grants, f.err
}

type fakeMetadata struct {
	meta map[rights.TrackID]rights.TrackMetadata
	err  error
	got  []rights.TrackID
}

func (f *fakeMetadata) FetchMetadata(_ context.Context, ids []rights.TrackID) (map[rights.TrackID]rights.TrackMetadata, error) {
	f.got = ids
	return f.meta, f.err
}

type fakeDirectory struct {
	territories []rights.Territory
	err         error
	calls       int
}

func (f *fakeDirectory) ListTerritories(_ context.Context) ([]rights.Territory, error) {
	f.calls++
	return f.territories, f.err
}

type fakeAudit struct {
	events []kafka.LookupCompletedEvent
	err    error
}

func (f *fakeAudit) PublishLookupCompleted(_ context.Context, evt kafka.LookupCompletedEvent) error {
	f.events = append(f.events, evt)
	return f.err
}

func usDirectory() *fakeDirectory {
	return &fakeDirectory{territories: []rights.Territory{
		{Code: "DE", Name: "Germany"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "US", Name: "United States"},
	}}
}

func openGrant(id string, typ rights.RightType, from time.Time, territories ...string) rights.Grant {
	return rights.Grant{
		TrackID:       rights.TrackID(id),
		Type:          typ,
		EffectiveFrom: from,
		Territories:   rights.NewTerritorySet(territories...),
		OwnerName:     "Atlantic Records",
	}
}

func defaultConfig() config.LookupConfig {
	return config.LookupConfig{MaxTracksPerQuery: 100, QueryTimeout: 30 * time.Second}
}

func TestExecuteResolvesAndJoins(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog := &fakeCatalog{grants: []rights.Grant{
		openGrant("USRC17607839", rights.RightTypeMaster, from, "US", "GB"),
	}}
	metadata := &fakeMetadata{meta: map[rights.TrackID]rights.TrackMetadata{
		"USRC17607839": {ArtistName: "Artist 7", ProductTitle: "Track Title 12"},
	}}
	audit := &fakeAudit{}

	svc := NewService(defaultConfig(), catalog, metadata, usDirectory(), logging.NewNopLogger(),
		WithAuditPublisher(audit))

	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{" usrc17607839 "},
		Territory: "US",
		AsOf:      &asOf,
	})
	require.NoError(t, err)
	assert.Equal(t, "US", resp.Territory)
	assert.Equal(t, asOf, resp.AsOf)

	require.Len(t, resp.Result.Rows, 1)
	row := resp.Result.Rows[0]
	assert.Equal(t, rights.TrackID("USRC17607839"), row.TrackID)
	assert.Equal(t, rights.RightTypeMaster, row.RightType)
	require.NotNil(t, row.ArtistName)
	assert.Equal(t, "Artist 7", *row.ArtistName)
	assert.Equal(t, 1, resp.Result.Summary.Count(rights.RightTypeMaster))

	require.Len(t, audit.events, 1)
	assert.Equal(t, kafka.OutcomeOK, audit.events[0].Outcome)
	assert.Equal(t, 1, audit.events[0].TracksQueried)
	assert.Equal(t, 1, audit.events[0].TracksResolved)
}

func TestExecuteEmptyQuery(t *testing.T) {
	svc := NewService(defaultConfig(), &fakeCatalog{}, &fakeMetadata{}, usDirectory(), logging.NewNopLogger())

	_, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"", "   "},
		Territory: "US",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyQuery))
}

func TestExecuteUnknownTerritory(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewService(defaultConfig(), catalog, &fakeMetadata{}, usDirectory(), logging.NewNopLogger())

	_, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"USRC17607839"},
		Territory: "XX",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownTerritory))
	assert.Zero(t, catalog.calls, "rejected before the catalog is read")
}

func TestExecuteTooManyTracks(t *testing.T) {
	cfg := config.LookupConfig{MaxTracksPerQuery: 2, QueryTimeout: time.Second}
	svc := NewService(cfg, &fakeCatalog{}, &fakeMetadata{}, usDirectory(), logging.NewNopLogger())

	_, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"A", "B", "C"},
		Territory: "US",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestExecuteCatalogFailure(t *testing.T) {
	catalog := &fakeCatalog{err: assert.AnError}
	audit := &fakeAudit{}
	svc := NewService(defaultConfig(), catalog, &fakeMetadata{}, usDirectory(), logging.NewNopLogger(),
		WithAuditPublisher(audit))

	_, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"USRC17607839"},
		Territory: "US",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCatalogUnavailable))

	require.Len(t, audit.events, 1)
	assert.Equal(t, kafka.OutcomeError, audit.events[0].Outcome)
	assert.Equal(t, errors.CodeCatalogUnavailable.String(), audit.events[0].ErrorCode)
}

func TestExecuteMetadataFailure(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog := &fakeCatalog{grants: []rights.Grant{
		openGrant("USRC17607839", rights.RightTypeMaster, from, "US"),
	}}
	metadata := &fakeMetadata{err: assert.AnError}
	svc := NewService(defaultConfig(), catalog, metadata, usDirectory(), logging.NewNopLogger())

	_, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"USRC17607839"},
		Territory: "US",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMetadataUnavailable))
}

func TestExecuteUnresolvedIsNotAnError(t *testing.T) {
	svc := NewService(defaultConfig(), &fakeCatalog{}, &fakeMetadata{}, usDirectory(), logging.NewNopLogger())

	resp, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"USRC17607839"},
		Territory: "US",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Result.Rows)
	assert.Equal(t, []rights.TrackID{"USRC17607839"}, resp.Result.Unresolved)
	// The summary still lists every right type.
	assert.Len(t, resp.Result.Summary, 4)
}

func TestExecuteAuditFailureIsSwallowed(t *testing.T) {
	svc := NewService(defaultConfig(), &fakeCatalog{}, &fakeMetadata{}, usDirectory(), logging.NewNopLogger(),
		WithAuditPublisher(&fakeAudit{err: assert.AnError}))

	_, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"USRC17607839"},
		Territory: "US",
	})
	assert.NoError(t, err)
}

func TestExecuteWithoutMetadataReader(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog := &fakeCatalog{grants: []rights.Grant{
		openGrant("USRC17607839", rights.RightTypeMaster, from, "US"),
	}}
	svc := NewService(defaultConfig(), catalog, nil, usDirectory(), logging.NewNopLogger())

	resp, err := svc.Execute(context.Background(), Request{
		TrackIDs:  []string{"USRC17607839"},
		Territory: "US",
	})
	require.NoError(t, err)
	require.Len(t, resp.Result.Rows, 1)
	assert.Nil(t, resp.Result.Rows[0].ArtistName)
}

func TestTerritoriesListsDirectory(t *testing.T) {
	dir := usDirectory()
	svc := NewService(defaultConfig(), &fakeCatalog{}, &fakeMetadata{}, dir, logging.NewNopLogger())

	got, err := svc.Territories(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Second call is served from the memoized copy.
	_, err = svc.Territories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dir.calls)
}
