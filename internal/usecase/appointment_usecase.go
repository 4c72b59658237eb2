package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-hospital-directory/config"
	"go-hospital-directory/internal/converter"
	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/delivery/http/middleware"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/domain/repository"
	"go-hospital-directory/internal/service"
	"go-hospital-directory/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrInvalidAppointmentDate = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidAppointmentTime = errors.New("invalid time format, use HH:MM")
	ErrAppointmentInPast      = errors.New("cannot book an appointment in the past")
	ErrProviderNotBookable    = errors.New("provider is not accepting appointments")
	ErrProviderClosed         = errors.New("provider is closed on that day")
	ErrOutsideOpeningHours    = errors.New("requested time is outside opening hours")
	ErrInvalidStatus          = errors.New("unknown appointment status")
	ErrInvalidTransition      = errors.New("appointment status change not allowed")
)

const compensationTimeout = 5 * time.Second

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error)
	ListMine(ctx context.Context) ([]dto.AppointmentResponse, error)
	ExpireStale(ctx context.Context) (int64, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	providerRepo    repository.ProviderRepository
	auditService    service.AuditService
	quota           service.AppointmentQuota
	publisher       service.EventPublisher
	cfg             config.AppointmentConfig
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	providerRepo repository.ProviderRepository,
	auditService service.AuditService,
	quota service.AppointmentQuota,
	publisher service.EventPublisher,
	cfg config.AppointmentConfig,
	m *metrics.Metrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		providerRepo:    providerRepo,
		auditService:    auditService,
		quota:           quota,
		publisher:       publisher,
		cfg:             cfg,
		metrics:         m,
		now:             time.Now,
	}
}

// Book reserves a slot for the logged-in patient.
//
// Flow:
// 1. Validate the day against the provider's weekly timings
// 2. Redis Reserve (seeded from the database on the first booking of the day)
// 3. Insert the appointment, moving free_slot_date when the day fills up
// 4. If the transaction fails -> compensate: Release the slot
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	day, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, ErrInvalidAppointmentTime
	}
	if day.Before(truncateDay(u.now())) {
		return nil, ErrAppointmentInPast
	}

	db := u.db.WithContext(ctx)
	provider, err := u.providerRepo.FindByID(db, req.ProviderID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", req.ProviderID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}
	if !provider.Approved {
		return nil, ErrProviderNotBookable
	}

	// an unset day has no published hours and is bookable
	switch timing := provider.Timings.Day(day.Weekday()); timing.State {
	case entity.DayClosed:
		return nil, ErrProviderClosed
	case entity.DayOpen:
		if !timing.Covers(req.Time) {
			return nil, ErrOutsideOpeningHours
		}
	}

	limited := provider.MaxAppointments > 0
	remaining := int64(-1)
	if limited {
		held, err := u.appointmentRepo.CountHeldForDay(db, provider.ID, day)
		if err != nil {
			u.log.Warnf("Failed to count appointments of provider %s: %+v", provider.ID, err)
			return nil, err
		}
		remaining, err = u.quota.Reserve(ctx, provider.ID, day, int64(provider.MaxAppointments)-held)
		if err != nil {
			if errors.Is(err, service.ErrQuotaFull) {
				u.metrics.Booking("full")
				return nil, service.ErrQuotaFull
			}
			return nil, err
		}
	}

	appointment := &entity.Appointment{
		PatientID:     patientID,
		ProviderID:    provider.ID,
		ScheduledDate: day,
		ScheduledTime: req.Time,
		Amount:        req.Amount,
		Status:        entity.AppointmentStatusPending,
	}

	if err := u.insertAppointment(ctx, provider, appointment, remaining == 0); err != nil {
		u.metrics.Booking("failed")
		if limited {
			u.log.Errorf("Failed to insert appointment, compensating quota: %+v", err)
			u.releaseSlot(provider.ID, day)
		}
		return nil, err
	}

	u.metrics.Booking("booked")
	u.log.Infof("Appointment booked: id=%s, provider=%s, date=%s %s", appointment.ID, provider.ID, req.Date, req.Time)
	publishEvents(ctx, u.publisher, u.log, entity.NewAppointmentEvent(entity.EventAppointmentBooked, appointment))

	appointment.Provider = *provider
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) insertAppointment(ctx context.Context, provider *entity.Provider, appointment *entity.Appointment, lastSlot bool) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isForeignKeyError(err, "provider") {
			return ErrProviderNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return err
	}

	day := appointment.ScheduledDate
	if lastSlot && provider.FreeSlotDate != nil && truncateDay(*provider.FreeSlotDate).Equal(day) {
		next := day.AddDate(0, 0, 1)
		if _, err := u.providerRepo.MoveFreeSlot(tx, provider.ID, day, next); err != nil {
			u.log.Warnf("Failed to move free slot of provider %s: %+v", provider.ID, err)
			return err
		}
		provider.FreeSlotDate = &next
	}

	if err := u.auditService.LogCreate(ctx, tx, &appointment.PatientID, entity.AuditActionAppointmentBook,
		"appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// releaseSlot outlives the request so a cancelled client cannot leak capacity
func (u *appointmentUsecase) releaseSlot(providerID uuid.UUID, day time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()
	if err := u.quota.Release(ctx, providerID, day); err != nil {
		u.log.Errorf("CRITICAL: Failed to release quota of provider %s on %s: %+v", providerID, day.Format(time.DateOnly), err)
	}
}

// Cancel cancels a pending appointment of the logged-in patient. Inside the
// fine window a percentage of the amount is recorded as a fine.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	// another patient's appointment is reported as missing
	if appointment == nil || appointment.PatientID != patientID {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.Status.CanTransitionTo(entity.AppointmentStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	now := u.now().UTC()
	from := appointment.Status
	appointment.Status = entity.AppointmentStatusCancelled
	appointment.CancelledAt = &now
	if fine := appointment.LateCancellationFine(now, u.cfg.FineWindow, u.cfg.FinePercent); fine.IsPositive() {
		appointment.FineAmount = fine
		appointment.FineReason = fmt.Sprintf("cancelled less than %s before the appointment", u.cfg.FineWindow)
	}

	if err := u.transition(ctx, appointment, from, entity.AuditActionAppointmentCancel); err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error) {
	next := entity.AppointmentStatus(status)
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	from := appointment.Status
	appointment.Status = next
	if next == entity.AppointmentStatusCancelled {
		now := u.now().UTC()
		appointment.CancelledAt = &now
	}

	if err := u.transition(ctx, appointment, from, entity.AuditActionAppointmentStatus); err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// transition persists a status change guarded on the previous status, then
// hands the slot back when the appointment stops holding capacity.
func (u *appointmentUsecase) transition(ctx context.Context, appointment *entity.Appointment, from entity.AppointmentStatus, action string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.appointmentRepo.Transition(tx, appointment, from)
	if err != nil {
		u.log.Warnf("Failed to move appointment %s to %s: %+v", appointment.ID, appointment.Status, err)
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}

	if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), action,
		"appointment", appointment.ID.String(), from, appointment.Status); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if from.HoldsSlot() && !appointment.Status.HoldsSlot() && appointment.Provider.MaxAppointments > 0 {
		u.releaseSlot(appointment.ProviderID, appointment.ScheduledDate)
	}

	publishEvents(ctx, u.publisher, u.log, entity.NewAppointmentEvent(entity.EventAppointmentStatus, appointment))
	return nil
}

func (u *appointmentUsecase) ListMine(ctx context.Context) ([]dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return converter.AppointmentsToResponses(appointments), nil
}

// ExpireStale marks pending appointments whose start passed more than the
// grace period ago as expired.
func (u *appointmentUsecase) ExpireStale(ctx context.Context) (int64, error) {
	cutoff := u.now().UTC().Add(-u.cfg.ExpiryGrace)

	expired, err := u.appointmentRepo.ExpirePending(u.db.WithContext(ctx), cutoff)
	if err != nil {
		u.log.Warnf("Failed to expire stale appointments: %+v", err)
		return 0, err
	}
	if expired > 0 {
		u.log.Infof("Expired %d appointment(s) that started before %s", expired, cutoff.Format(time.RFC3339))
	}
	return expired, nil
}
