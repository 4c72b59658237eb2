package repository

import (
	"go-hospital-directory/internal/domain/entity"

	"gorm.io/gorm"
)

type SpecialtyRepository interface {
	Create(db *gorm.DB, specialty *entity.Specialty) error
	FindAll(db *gorm.DB) ([]entity.Specialty, error)
	FindByIDs(db *gorm.DB, ids []uint) ([]entity.Specialty, error)
	AdjustProviderCounts(db *gorm.DB, ids []uint, role entity.ProviderRole, delta int) error
	FindTopBySeverity(db *gorm.DB, severity entity.Severity, limit int) ([]entity.SpecialtyRanking, error)
	ReconcileCounts(db *gorm.DB) (int64, error)
}
