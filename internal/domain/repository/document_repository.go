package repository

import (
	"go-hospital-directory/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	CreateBatch(db *gorm.DB, documents []entity.Document) error
	DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error)
}
