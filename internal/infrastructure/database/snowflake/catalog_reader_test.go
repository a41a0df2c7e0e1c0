package snowflake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
)

func TestExpandInList(t *testing.T) {
	query, args := expandInList("SELECT X FROM T WHERE ISRC IN (%s)",
		[]rights.TrackID{"USRC17607839", "GBUM71029604"})

	assert.Equal(t, "SELECT X FROM T WHERE ISRC IN (?, ?)", query)
	assert.Equal(t, []interface{}{"USRC17607839", "GBUM71029604"}, args)
}

func TestExpandInListSingle(t *testing.T) {
	query, args := expandInList("IN (%s)", []rights.TrackID{"A"})

	assert.Equal(t, "IN (?)", query)
	assert.Len(t, args, 1)
}

func TestQueriesHaveOnePlaceholderSlot(t *testing.T) {
	for _, q := range []string{fetchGrantsQuery, fetchMetadataQuery} {
		assert.Equal(t, 1, strings.Count(q, "%s"))
	}
	assert.NotContains(t, listTerritoriesQuery, "%s")
}
