package repository

import (
	"go-hospital-directory/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(db *gorm.DB, rating *entity.Rating) error
	SummaryByProvider(db *gorm.DB, providerID uuid.UUID) (*entity.RatingSummary, error)
	DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error)
}
