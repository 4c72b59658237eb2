package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending          AppointmentStatus = "pending"
	AppointmentStatusCompleted        AppointmentStatus = "completed"
	AppointmentStatusCancelled        AppointmentStatus = "cancelled"
	AppointmentStatusExpired          AppointmentStatus = "expired"
	AppointmentStatusRefundInProgress AppointmentStatus = "refund_in_progress"
	AppointmentStatusRefunded         AppointmentStatus = "refunded"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusExpired,
		AppointmentStatusRefundInProgress,
	},
	AppointmentStatusCancelled:        {AppointmentStatusRefundInProgress},
	AppointmentStatusRefundInProgress: {AppointmentStatusRefunded},
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled,
		AppointmentStatusExpired, AppointmentStatusRefundInProgress, AppointmentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks the appointment state machine
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
// Cancelled is not terminal: a refund can still be requested.
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// OpenAppointmentStatuses lists every status that still has a lifecycle ahead of it
func OpenAppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusCancelled,
		AppointmentStatusRefundInProgress,
	}
}

// HoldsSlot reports whether the appointment still consumes daily capacity
func (s AppointmentStatus) HoldsSlot() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusCompleted
}

// Appointment links a patient to a provider on a given day
type Appointment struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"provider_id"`
	ScheduledDate time.Time         `gorm:"type:date;not null;index" json:"scheduled_date"`
	ScheduledTime string            `gorm:"type:varchar(5);not null" json:"scheduled_time"`
	Amount        decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	Status        AppointmentStatus `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	FineAmount    decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"fine_amount"`
	FineReason    string            `gorm:"type:text" json:"fine_reason,omitempty"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  User     `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Provider Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// StartsAt combines the scheduled date and HH:MM time in UTC
func (a *Appointment) StartsAt() time.Time {
	clock, err := time.Parse(clockLayout, a.ScheduledTime)
	if err != nil {
		return a.ScheduledDate
	}
	d := a.ScheduledDate
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// LateCancellationFine returns the fine owed when cancelling at now, or zero
// when the cancellation happens before the fine window opens.
func (a *Appointment) LateCancellationFine(now time.Time, window time.Duration, percent decimal.Decimal) decimal.Decimal {
	if a.StartsAt().Sub(now) > window {
		return decimal.Zero
	}
	return a.Amount.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
}

// Rating is a patient's score for a provider
type Rating struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ratings_provider_patient_key" json:"provider_id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ratings_provider_patient_key" json:"patient_id"`
	Score      int       `gorm:"not null" json:"score"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

// RatingSummary is the aggregate rating of a provider
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
