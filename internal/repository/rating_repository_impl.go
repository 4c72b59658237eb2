package repository

import (
	"go-hospital-directory/internal/domain/entity"
	domainRepo "go-hospital-directory/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ratingRepository struct{}

func NewRatingRepository() domainRepo.RatingRepository {
	return &ratingRepository{}
}

func (r *ratingRepository) Create(db *gorm.DB, rating *entity.Rating) error {
	return db.Create(rating).Error
}

func (r *ratingRepository) SummaryByProvider(db *gorm.DB, providerID uuid.UUID) (*entity.RatingSummary, error) {
	var summary entity.RatingSummary
	err := db.Model(&entity.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("provider_id = ?", providerID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *ratingRepository) DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	result := db.Where("provider_id = ?", providerID).Delete(&entity.Rating{})
	return result.RowsAffected, result.Error
}
