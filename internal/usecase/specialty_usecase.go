package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go-hospital-directory/internal/converter"
	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/delivery/http/middleware"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/domain/repository"
	"go-hospital-directory/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidSeverity = errors.New("severity must be one of low, medium, high")
	ErrSpecialtyExists = errors.New("specialty name already exists")
)

type SpecialtyUsecase interface {
	TopSpecialties(ctx context.Context, severity string) ([]dto.TopSpecialtyResponse, error)
	CreateSpecialty(ctx context.Context, req *dto.CreateSpecialtyRequest) (*dto.SpecialtyResponse, error)
	ListSpecialties(ctx context.Context) ([]dto.SpecialtyResponse, error)
}

type specialtyUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	specialtyRepo repository.SpecialtyRepository
	auditService  service.AuditService
	cache         service.DirectoryCache
}

func NewSpecialtyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	specialtyRepo repository.SpecialtyRepository,
	auditService service.AuditService,
	cache service.DirectoryCache,
) SpecialtyUsecase {
	return &specialtyUsecase{
		db:            db,
		log:           log,
		specialtyRepo: specialtyRepo,
		auditService:  auditService,
		cache:         cache,
	}
}

// TopSpecialties aggregates at read time: specialties tagged with the
// severity, with live counts of the hospitals and doctors offering them.
func (u *specialtyUsecase) TopSpecialties(ctx context.Context, severity string) ([]dto.TopSpecialtyResponse, error) {
	sev := entity.Severity(strings.ToLower(strings.TrimSpace(severity)))
	if !sev.IsValid() {
		return nil, ErrInvalidSeverity
	}

	if rows, ok := u.cache.GetTopSpecialties(sev); ok {
		return converter.SpecialtyRankingsToResponses(rows), nil
	}

	rows, err := u.specialtyRepo.FindTopBySeverity(u.db.WithContext(ctx), sev, entity.TopSpecialtiesLimit)
	if err != nil {
		u.log.Warnf("Failed to find top %s severity specialties: %+v", sev, err)
		return nil, err
	}

	u.cache.SetTopSpecialties(sev, rows)
	return converter.SpecialtyRankingsToResponses(rows), nil
}

func (u *specialtyUsecase) CreateSpecialty(ctx context.Context, req *dto.CreateSpecialtyRequest) (*dto.SpecialtyResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty := &entity.Specialty{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Severity:    entity.Severity(req.Severity),
	}

	if err := u.specialtyRepo.Create(tx, specialty); err != nil {
		if isDuplicateKeyError(err, "specialties_name") {
			return nil, ErrSpecialtyExists
		}
		u.log.Warnf("Failed to create specialty: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionSpecialtyCreate,
		"specialty", strconv.FormatUint(uint64(specialty.ID), 10), specialty); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.InvalidateSpecialties()
	return converter.SpecialtyToResponse(specialty), nil
}

func (u *specialtyUsecase) ListSpecialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	specialties, err := u.specialtyRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list specialties: %+v", err)
		return nil, err
	}
	return converter.SpecialtiesToResponses(specialties), nil
}
