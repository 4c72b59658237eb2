package entity

import (
	"testing"

	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(f float64) *float64 { return &f }

func TestSortRanked_CountThenDistance(t *testing.T) {
	near := RankedProvider{ID: uuid.New(), Name: "near", RankCount: 2, Distance: ptrFloat(100)}
	far := RankedProvider{ID: uuid.New(), Name: "far", RankCount: 2, Distance: ptrFloat(900)}
	big := RankedProvider{ID: uuid.New(), Name: "big", RankCount: 5, Distance: ptrFloat(5000)}
	unknown := RankedProvider{ID: uuid.New(), Name: "unknown", RankCount: 2}
	empty := RankedProvider{ID: uuid.New(), Name: "empty", RankCount: 0, Distance: ptrFloat(1)}

	rows := []RankedProvider{unknown, empty, far, big, near}
	SortRanked(rows)

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"big", "near", "far", "unknown", "empty"}, names)

	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].RankCount, rows[i].RankCount)
		if rows[i-1].RankCount == rows[i].RankCount && rows[i-1].Distance != nil && rows[i].Distance != nil {
			assert.LessOrEqual(t, *rows[i-1].Distance, *rows[i].Distance)
		}
	}
}

func TestCompareRanked_TieBreaksOnID(t *testing.T) {
	a := RankedProvider{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), RankCount: 1}
	b := RankedProvider{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), RankCount: 1}

	assert.Negative(t, compareRanked(a, b))
	assert.Positive(t, compareRanked(b, a))
	assert.Zero(t, compareRanked(a, a))
}

func TestProviderQuery_NormalizeTop(t *testing.T) {
	origin, err := geo.Parse("12.9", "77.6")
	require.NoError(t, err)

	q := ProviderQuery{Mode: QueryModeTop, Origin: &origin, Limit: 500, Offset: 20, Role: ProviderRoleDoctor}.Normalize()

	assert.Equal(t, TopCandidateLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, ProviderRoleHospital, q.Role)
	require.NotNil(t, q.Approved)
	assert.True(t, *q.Approved)
}

func TestProviderQuery_NormalizeSearchDropsOrigin(t *testing.T) {
	origin, _ := geo.Parse("12.9", "77.6")

	q := ProviderQuery{Origin: &origin, Search: "  city  "}.Normalize()

	assert.Equal(t, QueryModeSearch, q.Mode)
	assert.Equal(t, "city", q.Search)
	assert.Nil(t, q.Origin)
	assert.Equal(t, DefaultListLimit, q.Limit)
}

func TestProviderQuery_NormalizeClampsLimit(t *testing.T) {
	q := ProviderQuery{Limit: 1000, Offset: -3}.Normalize()
	assert.Equal(t, MaxListLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestRerankFrom_MeasuresFromExactOrigin(t *testing.T) {
	requester, err := geo.Parse("12.9004", "77.6004")
	require.NoError(t, err)
	bucket := TopCacheOrigin(requester)

	atRequester := RankedProvider{ID: uuid.New(), Name: "here", RankCount: 3,
		Latitude: requester.Latitude, Longitude: requester.Longitude, Distance: ptrFloat(62.11)}
	atBucket := RankedProvider{ID: uuid.New(), Name: "corner", RankCount: 3,
		Latitude: bucket.Latitude, Longitude: bucket.Longitude, Distance: ptrFloat(0)}
	unlocated := RankedProvider{ID: uuid.New(), Name: "nowhere", RankCount: 3}
	busy := RankedProvider{ID: uuid.New(), Name: "busy", RankCount: 9,
		Latitude: bucket.Latitude, Longitude: bucket.Longitude, Distance: ptrFloat(0)}

	// candidate order as seen from the bucket corner
	rows := []RankedProvider{busy, atBucket, atRequester, unlocated}
	got := RerankFrom(rows, requester, TopProvidersLimit)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"busy", "here", "corner", "nowhere"},
		[]string{got[0].Name, got[1].Name, got[2].Name, got[3].Name})
	require.NotNil(t, got[1].Distance)
	assert.Equal(t, 0.0, *got[1].Distance)
	assert.InDelta(t, 62.1, *got[2].Distance, 0.5)
	assert.Nil(t, got[3].Distance)
	assert.Equal(t, 0.0, *rows[1].Distance, "input rows are left untouched")
}

func TestRerankFrom_KeepsLimit(t *testing.T) {
	origin, err := geo.Parse("0", "0")
	require.NoError(t, err)

	rows := make([]RankedProvider, TopCandidateLimit)
	for i := range rows {
		rows[i] = RankedProvider{ID: uuid.New(), RankCount: int64(i)}
	}

	got := RerankFrom(rows, origin, TopProvidersLimit)
	require.Len(t, got, TopProvidersLimit)
	assert.Equal(t, int64(TopCandidateLimit-1), got[0].RankCount)
	assert.Empty(t, RerankFrom(nil, origin, TopProvidersLimit))
}

func TestCountSeverities(t *testing.T) {
	counts := CountSeverities([]Specialty{
		{Severity: SeverityHigh}, {Severity: SeverityLow}, {Severity: SeverityHigh},
	})
	assert.Equal(t, SeverityCounts{Low: 1, High: 2}, counts)
	assert.Equal(t, SeverityCounts{Low: -1, High: -2}, counts.Negate())
}
