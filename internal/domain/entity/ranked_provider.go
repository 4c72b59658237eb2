package entity

import (
	"slices"
	"strings"
	"time"

	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QueryMode selects how a provider listing is filtered and ordered
type QueryMode int

const (
	// QueryModeBrowse ranks by the live child count, then distance
	QueryModeBrowse QueryMode = iota
	// QueryModeTop ranks root hospitals by the cached doctor_count, then distance
	QueryModeTop
	// QueryModeSearch is a name match ordered alphabetically, no distance
	QueryModeSearch
	// QueryModeInstant lists doctors with a free slot inside a date window
	QueryModeInstant
)

const (
	TopProvidersLimit     = 8
	TopCandidateLimit     = 32
	DefaultListLimit      = 50
	MaxListLimit          = 100
	InstantWindowDays     = 7
	TopSpecialtiesLimit   = 10
	topCacheRoundDecimals = 3
)

// ProviderQuery is a domain-level filter for ranked provider listings.
// Used by repository layer to avoid coupling with delivery DTOs.
type ProviderQuery struct {
	Mode         QueryMode
	Origin       *geo.Coordinate
	Emergency    *bool
	Role         ProviderRole
	Approved     *bool
	Search       string
	Severity     Severity
	ParentID     *uuid.UUID
	FreeSlotFrom *time.Time
	FreeSlotTo   *time.Time
	Limit        int
	Offset       int
}

// Normalize clamps paging and applies the fixed constraints of each mode.
func (q ProviderQuery) Normalize() ProviderQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Search != "" && q.Mode == QueryModeBrowse {
		q.Mode = QueryModeSearch
	}

	switch q.Mode {
	case QueryModeTop:
		q.Role = ProviderRoleHospital
		approved := true
		q.Approved = &approved
		q.Limit = TopCandidateLimit
		q.Offset = 0
	case QueryModeSearch:
		q.Origin = nil
	case QueryModeInstant:
		q.Role = ProviderRoleDoctor
		approved := true
		q.Approved = &approved
	}

	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// TopCacheOrigin is the rounded coordinate used as the cache key of top queries.
// The candidate set is fetched from it; distances are always recomputed with RerankFrom.
func TopCacheOrigin(c geo.Coordinate) geo.Coordinate {
	return c.Round(topCacheRoundDecimals)
}

// RankedProvider is one row of a ranked listing.
// RankCount holds the live child count in browse mode and the cached counter in top mode.
type RankedProvider struct {
	ID              uuid.UUID          `json:"id"`
	Role            ProviderRole       `json:"role"`
	ParentID        *uuid.UUID         `json:"parent_id,omitempty"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone,omitempty"`
	Address         string             `json:"address,omitempty"`
	Latitude        decimal.Decimal    `json:"latitude"`
	Longitude       decimal.Decimal    `json:"longitude"`
	DoctorCount     int                `json:"doctor_count"`
	LiveDoctorCount int64              `json:"live_doctor_count"`
	RankCount       int64              `json:"rank_count"`
	LowSeverity     int                `json:"low_severity"`
	MediumSeverity  int                `json:"medium_severity"`
	HighSeverity    int                `json:"high_severity"`
	MaxAppointments int                `json:"max_appointments"`
	FreeSlotDate    *time.Time         `json:"free_slot_date,omitempty"`
	Emergency       bool               `json:"emergency"`
	Approved        bool               `json:"approved"`
	Distance        *float64           `json:"distance,omitempty"`
	Specialties     SpecialtySummaries `json:"specialties"`
}

// compareRanked orders by count descending, distance ascending with unknown
// distance last, then id for a total order.
func compareRanked(a, b RankedProvider) int {
	if a.RankCount != b.RankCount {
		if a.RankCount > b.RankCount {
			return -1
		}
		return 1
	}

	switch {
	case a.Distance != nil && b.Distance == nil:
		return -1
	case a.Distance == nil && b.Distance != nil:
		return 1
	case a.Distance != nil && b.Distance != nil && *a.Distance != *b.Distance:
		if *a.Distance < *b.Distance {
			return -1
		}
		return 1
	}

	return strings.Compare(a.ID.String(), b.ID.String())
}

// SortRanked sorts rows in place by the ranking order.
func SortRanked(rows []RankedProvider) {
	slices.SortStableFunc(rows, compareRanked)
}

// RerankFrom measures every located row from origin, sorts by the ranking
// order and keeps the first limit rows. Rows without a location keep a nil
// distance. The input slice is not modified.
func RerankFrom(rows []RankedProvider, origin geo.Coordinate, limit int) []RankedProvider {
	out := make([]RankedProvider, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].Distance == nil {
			continue
		}
		d := geo.DistanceMeters(origin, geo.Coordinate{Latitude: out[i].Latitude, Longitude: out[i].Longitude})
		out[i].Distance = &d
	}
	SortRanked(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
