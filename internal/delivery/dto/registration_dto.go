package dto

import (
	"go-hospital-directory/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type DocumentRequest struct {
	Kind string `json:"kind" validate:"required,max=50"`
	URL  string `json:"url" validate:"required,url"`
}

// RegisterProviderRequest registers a hospital or, with Hospital set, a doctor under it
type RegisterProviderRequest struct {
	Name            string             `json:"name" validate:"required,min=2,max=255"`
	Email           string             `json:"email" validate:"required,email"`
	Phone           string             `json:"phone" validate:"omitempty,max=20"`
	Password        string             `json:"password" validate:"required,min=6"`
	Address         string             `json:"address" validate:"omitempty,max=500"`
	Latitude        *decimal.Decimal   `json:"latitude" validate:"required,latitude"`
	Longitude       *decimal.Decimal   `json:"longitude" validate:"required,longitude"`
	Hospital        *uuid.UUID         `json:"hospital"`
	Specialties     []uint             `json:"specialties" validate:"omitempty,dive,gt=0"`
	Emergency       bool               `json:"emergency"`
	MaxAppointments int                `json:"max_appointments" validate:"gte=0"`
	FreeSlotDate    string             `json:"free_slot_date" validate:"omitempty,datetime=2006-01-02"`
	Timings         entity.WeekTimings `json:"timings"`
	Documents       []DocumentRequest  `json:"documents" validate:"omitempty,dive"`
}

type BulkRegisterRequest struct {
	Items []RegisterProviderRequest `json:"items" validate:"required,min=1,max=100"`
}

// Response DTOs

// BulkItemResult is the per-item entry of a multi-status response
type BulkItemResult struct {
	Index   int               `json:"index"`
	Status  int               `json:"status"`
	ID      *uuid.UUID        `json:"id,omitempty"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type ReconcileResponse struct {
	DoctorCountsRepaired    int64 `json:"doctor_counts_repaired"`
	SpecialtyCountsRepaired int64 `json:"specialty_counts_repaired"`
}
