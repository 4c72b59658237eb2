package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go-hospital-directory/internal/converter"
	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/delivery/http/middleware"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/domain/repository"
	"go-hospital-directory/internal/service"
	"go-hospital-directory/pkg/geo"
	"go-hospital-directory/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrHospitalRequired        = errors.New("hospital id is required to register a doctor")
	ErrHospitalWithParent      = errors.New("a hospital cannot belong to another provider")
	ErrHospitalNotFound        = errors.New("associated hospital not found")
	ErrParentNotHospital       = errors.New("associated provider is not a hospital")
	ErrInvalidFreeSlotDate     = errors.New("invalid free slot date, use YYYY-MM-DD")
	ErrHospitalHasDoctors      = errors.New("hospital still has doctors attached")
	ErrProviderHasAppointments = errors.New("provider has open appointments")
)

// RegistrationOutcome is the result of one bulk item
type RegistrationOutcome struct {
	Provider *dto.ProviderResponse
	Err      error
}

type RegistrationUsecase interface {
	Register(ctx context.Context, role entity.ProviderRole, req *dto.RegisterProviderRequest) (*dto.ProviderResponse, error)
	RegisterBulk(ctx context.Context, role entity.ProviderRole, reqs []dto.RegisterProviderRequest) []RegistrationOutcome
	DeleteProvider(ctx context.Context, id uuid.UUID) error
	ReconcileCounts(ctx context.Context) (*dto.ReconcileResponse, error)
}

type registrationUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	providerRepo    repository.ProviderRepository
	specialtyRepo   repository.SpecialtyRepository
	documentRepo    repository.DocumentRepository
	ratingRepo      repository.RatingRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	cache           service.DirectoryCache
	publisher       service.EventPublisher
	metrics         *metrics.Metrics
	hashCost        int
}

func NewRegistrationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	specialtyRepo repository.SpecialtyRepository,
	documentRepo repository.DocumentRepository,
	ratingRepo repository.RatingRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	cache service.DirectoryCache,
	publisher service.EventPublisher,
	m *metrics.Metrics,
) RegistrationUsecase {
	return &registrationUsecase{
		db:              db,
		log:             log,
		providerRepo:    providerRepo,
		specialtyRepo:   specialtyRepo,
		documentRepo:    documentRepo,
		ratingRepo:      ratingRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		cache:           cache,
		publisher:       publisher,
		metrics:         m,
		hashCost:        bcrypt.DefaultCost,
	}
}

// Register creates a hospital, or a doctor under an existing hospital.
//
// Everything happens in one transaction: the row, its location point, the
// specialty links and counters, the parent's doctor_count and severity
// counters, the documents and the audit entry.
func (u *registrationUsecase) Register(ctx context.Context, role entity.ProviderRole, req *dto.RegisterProviderRequest) (*dto.ProviderResponse, error) {
	if !role.IsValid() {
		return nil, ErrInvalidProviderRole
	}
	switch {
	case role == entity.ProviderRoleDoctor && req.Hospital == nil:
		return nil, ErrHospitalRequired
	case role == entity.ProviderRoleHospital && req.Hospital != nil:
		return nil, ErrHospitalWithParent
	}

	coord, err := geo.FromPointers(req.Latitude, req.Longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	coord = coord.Stored()
	if err := req.Timings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimings, err)
	}

	var freeSlot *time.Time
	if req.FreeSlotDate != "" {
		day, err := time.Parse(time.DateOnly, req.FreeSlotDate)
		if err != nil {
			return nil, ErrInvalidFreeSlotDate
		}
		freeSlot = &day
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.hashCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var parent *entity.Provider
	if role == entity.ProviderRoleDoctor {
		parent, err = u.providerRepo.FindByID(tx, *req.Hospital)
		if err != nil {
			u.log.Warnf("Failed to find hospital %s: %+v", *req.Hospital, err)
			return nil, err
		}
		if parent == nil {
			return nil, ErrHospitalNotFound
		}
		if !parent.IsHospital() {
			return nil, ErrParentNotHospital
		}
	}

	specialtyIDs := uniqueIDs(req.Specialties)
	specialties, err := u.specialtyRepo.FindByIDs(tx, specialtyIDs)
	if err != nil {
		u.log.Warnf("Failed to find specialties %v: %+v", specialtyIDs, err)
		return nil, err
	}
	if len(specialties) != len(specialtyIDs) {
		return nil, ErrSpecialtyNotFound
	}
	severity := entity.CountSeverities(specialties)

	provider := &entity.Provider{
		Role:            role,
		ParentID:        req.Hospital,
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           req.Phone,
		Password:        string(hashedPassword),
		Address:         req.Address,
		Latitude:        coord.Latitude,
		Longitude:       coord.Longitude,
		LowSeverity:     severity.Low,
		MediumSeverity:  severity.Medium,
		HighSeverity:    severity.High,
		MaxAppointments: req.MaxAppointments,
		FreeSlotDate:    freeSlot,
		Timings:         req.Timings,
		Emergency:       req.Emergency,
		Specialties:     specialties,
	}

	if err := u.providerRepo.Create(tx, provider); err != nil {
		if isDuplicateKeyError(err, "providers_email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "parent") {
			return nil, ErrHospitalNotFound
		}
		u.log.Warnf("Failed to create provider: %+v", err)
		return nil, err
	}

	if _, err := u.providerRepo.SetLocation(tx, provider.ID, coord); err != nil {
		u.log.Warnf("Failed to set location of provider %s: %+v", provider.ID, err)
		return nil, err
	}

	if err := u.specialtyRepo.AdjustProviderCounts(tx, specialtyIDs, role, 1); err != nil {
		u.log.Warnf("Failed to bump specialty counters: %+v", err)
		return nil, err
	}

	if parent != nil {
		if err := u.providerRepo.IncrementDoctorCount(tx, parent.ID, 1); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrHospitalNotFound
			}
			u.log.Warnf("Failed to increment doctor count of hospital %s: %+v", parent.ID, err)
			return nil, err
		}
		if err := u.providerRepo.AdjustSeverityCounts(tx, parent.ID, severity); err != nil {
			u.log.Warnf("Failed to adjust severity counters of hospital %s: %+v", parent.ID, err)
			return nil, err
		}
	}

	if len(req.Documents) > 0 {
		documents := make([]entity.Document, len(req.Documents))
		for i, d := range req.Documents {
			documents[i] = entity.Document{ProviderID: provider.ID, Kind: d.Kind, URL: d.URL}
		}
		if err := u.documentRepo.CreateBatch(tx, documents); err != nil {
			u.log.Warnf("Failed to store documents of provider %s: %+v", provider.ID, err)
			return nil, err
		}
	}

	resp := converter.ProviderToResponse(provider)
	if err := u.auditService.LogCreate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionProviderRegister,
		"provider", provider.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Registered %s %s", role, provider.ID)
	invalidateTopHospitals(ctx, u.cache, u.log)
	if len(specialtyIDs) > 0 {
		u.cache.InvalidateSpecialties()
	}
	publishEvents(ctx, u.publisher, u.log, entity.NewProviderEvent(entity.EventProviderRegistered, provider))

	return resp, nil
}

// RegisterBulk runs every item in its own transaction; one failure never aborts the rest
func (u *registrationUsecase) RegisterBulk(ctx context.Context, role entity.ProviderRole, reqs []dto.RegisterProviderRequest) []RegistrationOutcome {
	outcomes := make([]RegistrationOutcome, len(reqs))
	for i := range reqs {
		if err := ctx.Err(); err != nil {
			outcomes[i] = RegistrationOutcome{Err: err}
			continue
		}
		provider, err := u.Register(ctx, role, &reqs[i])
		outcomes[i] = RegistrationOutcome{Provider: provider, Err: err}
	}
	return outcomes
}

// DeleteProvider removes a provider and keeps every cached counter in step.
// A hospital that still has doctors is refused, as is any provider with an
// appointment outside a terminal status. Settled appointments go with it.
func (u *registrationUsecase) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	provider, err := u.providerRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", id, err)
		return err
	}
	if provider == nil {
		return ErrProviderNotFound
	}

	if provider.Role == entity.ProviderRoleHospital {
		doctors, err := u.providerRepo.CountChildren(tx, id)
		if err != nil {
			u.log.Warnf("Failed to count doctors of hospital %s: %+v", id, err)
			return err
		}
		if doctors > 0 {
			return ErrHospitalHasDoctors
		}
	}

	// appointments still owing a refund or a fine block the delete
	open, err := u.appointmentRepo.CountOpenByProvider(tx, id)
	if err != nil {
		u.log.Warnf("Failed to count open appointments of provider %s: %+v", id, err)
		return err
	}
	if open > 0 {
		return ErrProviderHasAppointments
	}

	if _, err := u.documentRepo.DeleteByProvider(tx, id); err != nil {
		u.log.Warnf("Failed to delete documents of provider %s: %+v", id, err)
		return err
	}
	if _, err := u.ratingRepo.DeleteByProvider(tx, id); err != nil {
		u.log.Warnf("Failed to delete ratings of provider %s: %+v", id, err)
		return err
	}
	if _, err := u.appointmentRepo.DeleteByProvider(tx, id); err != nil {
		u.log.Warnf("Failed to delete settled appointments of provider %s: %+v", id, err)
		return err
	}

	if len(provider.Specialties) > 0 {
		ids := make([]uint, len(provider.Specialties))
		for i, s := range provider.Specialties {
			ids[i] = s.ID
		}
		if err := u.specialtyRepo.AdjustProviderCounts(tx, ids, provider.Role, -1); err != nil {
			u.log.Warnf("Failed to decrement specialty counters: %+v", err)
			return err
		}
		if err := u.providerRepo.DetachSpecialties(tx, provider); err != nil {
			u.log.Warnf("Failed to detach specialties of provider %s: %+v", id, err)
			return err
		}
	}

	affected, err := u.providerRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete provider %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrProviderNotFound
	}

	if provider.ParentID != nil {
		parentID := *provider.ParentID
		if err := u.providerRepo.IncrementDoctorCount(tx, parentID, -1); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			u.log.Warnf("Failed to decrement doctor count of hospital %s: %+v", parentID, err)
			return err
		}
		severity := entity.CountSeverities(provider.Specialties).Negate()
		if err := u.providerRepo.AdjustSeverityCounts(tx, parentID, severity); err != nil {
			u.log.Warnf("Failed to adjust severity counters of hospital %s: %+v", parentID, err)
			return err
		}
	}

	if err := u.auditService.LogDelete(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionProviderDelete,
		"provider", id.String(), converter.ProviderToResponse(provider)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Deleted %s %s", provider.Role, id)
	invalidateTopHospitals(ctx, u.cache, u.log)
	u.cache.InvalidateSpecialties()
	publishEvents(ctx, u.publisher, u.log, entity.NewProviderEvent(entity.EventProviderDeleted, provider))

	return nil
}

// ReconcileCounts rewrites cached counters that drifted from the child rows
// and the specialty join table.
func (u *registrationUsecase) ReconcileCounts(ctx context.Context) (*dto.ReconcileResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctorRows, err := u.providerRepo.ReconcileDoctorCounts(tx)
	if err != nil {
		u.log.Warnf("Failed to reconcile doctor counts: %+v", err)
		return nil, err
	}

	specialtyRows, err := u.specialtyRepo.ReconcileCounts(tx)
	if err != nil {
		u.log.Warnf("Failed to reconcile specialty counts: %+v", err)
		return nil, err
	}

	result := &dto.ReconcileResponse{
		DoctorCountsRepaired:    doctorRows,
		SpecialtyCountsRepaired: specialtyRows,
	}

	if doctorRows+specialtyRows > 0 {
		if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionCountsReconcile,
			"provider", "*", nil, result); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.Repaired("doctor_count", doctorRows)
	u.metrics.Repaired("specialty_counts", specialtyRows)

	if doctorRows+specialtyRows > 0 {
		u.log.Infof("Reconciled counters: %d hospitals, %d specialties", doctorRows, specialtyRows)
		invalidateTopHospitals(ctx, u.cache, u.log)
		u.cache.InvalidateSpecialties()
		publishEvents(ctx, u.publisher, u.log, entity.DomainEvent{
			Type:       entity.EventCountersReconciled,
			OccurredAt: time.Now().UTC(),
			Payload: map[string]interface{}{
				"doctor_counts":    doctorRows,
				"specialty_counts": specialtyRows,
			},
		})
	}

	return result, nil
}

func uniqueIDs(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
