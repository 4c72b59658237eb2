package repository

import (
	"time"

	"go-hospital-directory/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	CountHeldForDay(db *gorm.DB, providerID uuid.UUID, day time.Time) (int64, error)
	// CountOpenByProvider counts appointments that are not yet in a terminal status.
	CountOpenByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error)
	// Transition moves the row only if it is still in the from status.
	Transition(db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error)
	ExpirePending(db *gorm.DB, startedBefore time.Time) (int64, error)
	DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error)
}
