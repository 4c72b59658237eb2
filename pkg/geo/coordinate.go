package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SRID is the spatial reference used for every stored point (WGS84).
const SRID = 4326

// StoredDecimals is the scale of the latitude/longitude columns.
const StoredDecimals = 7

// EarthRadiusMeters matches the sphere used by PostGIS ST_DistanceSphere.
const EarthRadiusMeters = 6370986.0

var (
	ErrMissingCoordinates  = errors.New("latitude and longitude are required")
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
	ErrInvalidCoordinate   = errors.New("coordinate is not a valid decimal")
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// Coordinate is a WGS84 position kept in arbitrary precision so repeated
// writes never drift.
type Coordinate struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

func NewCoordinate(latitude, longitude decimal.Decimal) (Coordinate, error) {
	if latitude.Abs().GreaterThan(maxLatitude) {
		return Coordinate{}, ErrLatitudeOutOfRange
	}
	if longitude.Abs().GreaterThan(maxLongitude) {
		return Coordinate{}, ErrLongitudeOutOfRange
	}
	return Coordinate{Latitude: latitude, Longitude: longitude}, nil
}

// FromPointers builds a coordinate from optional request fields.
func FromPointers(latitude, longitude *decimal.Decimal) (Coordinate, error) {
	if latitude == nil || longitude == nil {
		return Coordinate{}, ErrMissingCoordinates
	}
	return NewCoordinate(*latitude, *longitude)
}

// ParseOptional parses query string values. Both empty means no coordinate;
// only one present is an error.
func ParseOptional(latitude, longitude string) (*Coordinate, error) {
	latitude = strings.TrimSpace(latitude)
	longitude = strings.TrimSpace(longitude)
	if latitude == "" && longitude == "" {
		return nil, nil
	}
	if latitude == "" || longitude == "" {
		return nil, ErrMissingCoordinates
	}

	lat, err := decimal.NewFromString(latitude)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinate, latitude)
	}
	lon, err := decimal.NewFromString(longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinate, longitude)
	}

	coord, err := NewCoordinate(lat, lon)
	if err != nil {
		return nil, err
	}
	return &coord, nil
}

// Parse is ParseOptional for callers that cannot proceed without a coordinate.
func Parse(latitude, longitude string) (Coordinate, error) {
	coord, err := ParseOptional(latitude, longitude)
	if err != nil {
		return Coordinate{}, err
	}
	if coord == nil {
		return Coordinate{}, ErrMissingCoordinates
	}
	return *coord, nil
}

func (c Coordinate) LatFloat() float64 {
	f, _ := c.Latitude.Float64()
	return f
}

func (c Coordinate) LonFloat() float64 {
	f, _ := c.Longitude.Float64()
	return f
}

// PointArgs returns the (x, y) pair for ST_MakePoint, longitude first.
func (c Coordinate) PointArgs() []interface{} {
	return []interface{}{c.LonFloat(), c.LatFloat()}
}

// EWKT renders the point as extended well-known text.
func (c Coordinate) EWKT() string {
	return fmt.Sprintf("SRID=%d;POINT(%s %s)", SRID, c.Longitude.String(), c.Latitude.String())
}

// Round snaps the coordinate to the given number of decimal places.
func (c Coordinate) Round(places int32) Coordinate {
	return Coordinate{Latitude: c.Latitude.Round(places), Longitude: c.Longitude.Round(places)}
}

// Stored rounds to the column scale so what a write echoes is what a later read returns.
func (c Coordinate) Stored() Coordinate {
	return c.Round(StoredDecimals)
}

// DistanceMeters is the great-circle distance on the PostGIS sphere.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := toRadians(a.LatFloat())
	lat2 := toRadians(b.LatFloat())
	dLat := lat2 - lat1
	dLon := toRadians(b.LonFloat() - a.LonFloat())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
