package repository

import (
	"errors"
	"time"

	"go-hospital-directory/internal/domain/entity"
	domainRepo "go-hospital-directory/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Provider").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Provider").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Provider").
		Where("patient_id = ?", patientID).
		Order("scheduled_date DESC, scheduled_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// CountHeldForDay counts appointments that still occupy capacity on a day.
func (r *appointmentRepository) CountHeldForDay(db *gorm.DB, providerID uuid.UUID, day time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("provider_id = ? AND scheduled_date = ? AND status IN ?", providerID, day,
			[]entity.AppointmentStatus{entity.AppointmentStatusPending, entity.AppointmentStatusCompleted}).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountOpenByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("provider_id = ? AND status IN ?", providerID, entity.OpenAppointmentStatuses()).
		Count(&count).Error
	return count, err
}

// Transition is a compare-and-set on status; 0 rows means a concurrent change won.
func (r *appointmentRepository) Transition(db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, from).
		Updates(map[string]interface{}{
			"status":       appointment.Status,
			"fine_amount":  appointment.FineAmount,
			"fine_reason":  appointment.FineReason,
			"cancelled_at": appointment.CancelledAt,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) ExpirePending(db *gorm.DB, startedBefore time.Time) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("status = ? AND (scheduled_date + scheduled_time::time) < ?", entity.AppointmentStatusPending, startedBefore).
		Update("status", entity.AppointmentStatusExpired)
	return result.RowsAffected, result.Error
}

// DeleteByProvider removes only settled appointments; open ones survive and
// keep the provider row pinned through the foreign key.
func (r *appointmentRepository) DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	result := db.Where("provider_id = ? AND status NOT IN ?", providerID, entity.OpenAppointmentStatuses()).
		Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
