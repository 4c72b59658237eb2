package repository

import (
	"go-hospital-directory/internal/domain/entity"
	domainRepo "go-hospital-directory/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRepository struct{}

func NewDocumentRepository() domainRepo.DocumentRepository {
	return &documentRepository{}
}

func (r *documentRepository) CreateBatch(db *gorm.DB, documents []entity.Document) error {
	if len(documents) == 0 {
		return nil
	}
	return db.Create(&documents).Error
}

func (r *documentRepository) DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	result := db.Where("provider_id = ?", providerID).Delete(&entity.Document{})
	return result.RowsAffected, result.Error
}
