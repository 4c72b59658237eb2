package geo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptional_BothEmpty(t *testing.T) {
	coord, err := ParseOptional("", " ")
	require.NoError(t, err)
	assert.Nil(t, coord)
}

func TestParseOptional_OnlyOneSide(t *testing.T) {
	_, err := ParseOptional("12.9", "")
	assert.ErrorIs(t, err, ErrMissingCoordinates)

	_, err = ParseOptional("", "77.6")
	assert.ErrorIs(t, err, ErrMissingCoordinates)
}

func TestParseOptional_Garbage(t *testing.T) {
	_, err := ParseOptional("north", "77.6")
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestParse_Ranges(t *testing.T) {
	_, err := Parse("90.0001", "0")
	assert.ErrorIs(t, err, ErrLatitudeOutOfRange)

	_, err = Parse("0", "-180.5")
	assert.ErrorIs(t, err, ErrLongitudeOutOfRange)

	coord, err := Parse("-90", "180")
	require.NoError(t, err)
	assert.True(t, coord.Latitude.Equal(decimal.NewFromInt(-90)))
}

func TestParse_PreservesPrecision(t *testing.T) {
	coord, err := Parse("12.971598712345", "77.594562987654")
	require.NoError(t, err)
	assert.Equal(t, "12.971598712345", coord.Latitude.String())
	assert.Equal(t, "77.594562987654", coord.Longitude.String())
}

func TestCoordinate_StoredMatchesColumnScale(t *testing.T) {
	coord, err := Parse("12.971598712345", "-77.594562987654")
	require.NoError(t, err)

	stored := coord.Stored()
	assert.Equal(t, "12.9715987", stored.Latitude.String())
	assert.Equal(t, "-77.594563", stored.Longitude.String())
	assert.Equal(t, "SRID=4326;POINT(-77.594563 12.9715987)", stored.EWKT())
}

func TestFromPointers_Missing(t *testing.T) {
	lat := decimal.RequireFromString("12.9")
	_, err := FromPointers(&lat, nil)
	assert.ErrorIs(t, err, ErrMissingCoordinates)
}

func TestCoordinate_LongitudeFirst(t *testing.T) {
	coord, err := Parse("12.9", "77.6")
	require.NoError(t, err)

	assert.Equal(t, "SRID=4326;POINT(77.6 12.9)", coord.EWKT())
	assert.Equal(t, []interface{}{77.6, 12.9}, coord.PointArgs())
}

func TestCoordinate_Round(t *testing.T) {
	coord, err := Parse("12.97159", "77.59456")
	require.NoError(t, err)

	rounded := coord.Round(3)
	assert.Equal(t, "12.972", rounded.Latitude.String())
	assert.Equal(t, "77.595", rounded.Longitude.String())
}

func TestDistanceMeters(t *testing.T) {
	bangalore, _ := Parse("12.9716", "77.5946")
	chennai, _ := Parse("13.0827", "80.2707")
	equator, _ := Parse("0", "0")
	oneDegreeEast, _ := Parse("0", "1")

	assert.Equal(t, 0.0, DistanceMeters(bangalore, bangalore))
	assert.InDelta(t, 111194.68, DistanceMeters(equator, oneDegreeEast), 0.5)
	assert.InDelta(t, 290171.39, DistanceMeters(bangalore, chennai), 1)
	assert.InDelta(t, DistanceMeters(bangalore, chennai), DistanceMeters(chennai, bangalore), 1e-6)
}
