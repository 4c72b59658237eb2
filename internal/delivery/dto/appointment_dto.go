package dto

import (
	"time"

	"go-hospital-directory/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookAppointmentRequest struct {
	ProviderID uuid.UUID       `json:"provider_id" validate:"required"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string          `json:"time" validate:"required,datetime=15:04"`
	Amount     decimal.Decimal `json:"amount" validate:"gte=0"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled expired refund_in_progress refunded"`
}

type AppointmentResponse struct {
	ID            uuid.UUID                `json:"id"`
	PatientID     uuid.UUID                `json:"patient_id"`
	ProviderID    uuid.UUID                `json:"provider_id"`
	ProviderName  string                   `json:"provider_name,omitempty"`
	ScheduledDate string                   `json:"scheduled_date"`
	ScheduledTime string                   `json:"scheduled_time"`
	Amount        decimal.Decimal          `json:"amount"`
	Status        entity.AppointmentStatus `json:"status"`
	FineAmount    decimal.Decimal          `json:"fine_amount"`
	FineReason    string                   `json:"fine_reason,omitempty"`
	CancelledAt   *time.Time               `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}
