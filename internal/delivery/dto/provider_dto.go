package dto

import (
	"time"

	"go-hospital-directory/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// ListProvidersRequest is built from the /hospitals query string
type ListProvidersRequest struct {
	Latitude  string
	Longitude string
	Emergency *bool
	Role      string `validate:"omitempty,oneof=Hospital Doctor"`
	Approved  *bool
	Search    string `validate:"omitempty,max=100"`
	Severity  string `validate:"omitempty,oneof=low medium high"`
	Limit     int    `validate:"gte=0,lte=100"`
	Offset    int    `validate:"gte=0"`
}

type ListDoctorsRequest struct {
	Latitude  string
	Longitude string
	Instant   bool
	Hospital  *uuid.UUID
	Limit     int `validate:"gte=0,lte=100"`
	Offset    int `validate:"gte=0"`
}

type UpdateLocationRequest struct {
	ID        uuid.UUID        `json:"id" validate:"required"`
	Latitude  *decimal.Decimal `json:"latitude" validate:"required,latitude"`
	Longitude *decimal.Decimal `json:"longitude" validate:"required,longitude"`
}

type ApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type RatingRequest struct {
	Score   int    `json:"score" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// Response DTOs

type SpecialtySummaryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SeverityCountsResponse struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// RankedProviderResponse is one row of a ranked listing.
// Distance is in meters and absent when no requester coordinate was given.
type RankedProviderResponse struct {
	ID              uuid.UUID                  `json:"id"`
	Role            entity.ProviderRole        `json:"role"`
	ParentID        *uuid.UUID                 `json:"parent_id,omitempty"`
	Name            string                     `json:"name"`
	Email           string                     `json:"email"`
	Phone           string                     `json:"phone,omitempty"`
	Address         string                     `json:"address,omitempty"`
	Latitude        decimal.Decimal            `json:"latitude"`
	Longitude       decimal.Decimal            `json:"longitude"`
	DoctorCount     int                        `json:"doctor_count"`
	LiveDoctorCount int64                      `json:"live_doctor_count"`
	Severity        SeverityCountsResponse     `json:"severity"`
	MaxAppointments int                        `json:"max_appointments"`
	FreeSlotDate    *string                    `json:"free_slot_date,omitempty"`
	Emergency       bool                       `json:"emergency"`
	Approved        bool                       `json:"approved"`
	Distance        *float64                   `json:"distance,omitempty"`
	Specialties     []SpecialtySummaryResponse `json:"specialties"`
}

type ProviderResponse struct {
	ID              uuid.UUID                  `json:"id"`
	Role            entity.ProviderRole        `json:"role"`
	ParentID        *uuid.UUID                 `json:"parent_id,omitempty"`
	Name            string                     `json:"name"`
	Email           string                     `json:"email"`
	Phone           string                     `json:"phone,omitempty"`
	Address         string                     `json:"address,omitempty"`
	Latitude        decimal.Decimal            `json:"latitude"`
	Longitude       decimal.Decimal            `json:"longitude"`
	DoctorCount     int                        `json:"doctor_count"`
	Severity        SeverityCountsResponse     `json:"severity"`
	MaxAppointments int                        `json:"max_appointments"`
	FreeSlotDate    *string                    `json:"free_slot_date,omitempty"`
	Emergency       bool                       `json:"emergency"`
	Approved        bool                       `json:"approved"`
	Specialties     []SpecialtySummaryResponse `json:"specialties"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

type ProviderDetailResponse struct {
	ProviderResponse
	LiveDoctorCount int64                 `json:"live_doctor_count"`
	Timings         entity.WeekTimings    `json:"timings"`
	TimingsSummary  entity.TimingsSummary `json:"timings_summary"`
	Rating          entity.RatingSummary  `json:"rating"`
}

type TimingsResponse struct {
	ProviderID uuid.UUID             `json:"provider_id"`
	Timings    entity.WeekTimings    `json:"timings"`
	Summary    entity.TimingsSummary `json:"summary"`
}

type LocationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
	Point     string          `json:"point"`
}
