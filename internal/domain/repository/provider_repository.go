package repository

import (
	"time"

	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderRepository interface {
	Create(db *gorm.DB, provider *entity.Provider) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Provider, error)
	FindRanked(db *gorm.DB, query entity.ProviderQuery) ([]entity.RankedProvider, error)
	CountChildren(db *gorm.DB, id uuid.UUID) (int64, error)
	SetLocation(db *gorm.DB, id uuid.UUID, coord geo.Coordinate) (int64, error)
	IncrementDoctorCount(db *gorm.DB, hospitalID uuid.UUID, delta int) error
	AdjustSeverityCounts(db *gorm.DB, id uuid.UUID, delta entity.SeverityCounts) error
	AdvanceFreeSlot(db *gorm.DB, id uuid.UUID, before, next time.Time) (int64, error)
	MoveFreeSlot(db *gorm.DB, id uuid.UUID, from, next time.Time) (int64, error)
	UpdateTimings(db *gorm.DB, id uuid.UUID, timings entity.WeekTimings) (int64, error)
	UpdateApproval(db *gorm.DB, id uuid.UUID, approved bool) (int64, error)
	DetachSpecialties(db *gorm.DB, provider *entity.Provider) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	ReconcileDoctorCounts(db *gorm.DB) (int64, error)
}
