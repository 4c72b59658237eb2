package repository

import (
	"go-hospital-directory/internal/domain/entity"
	domainRepo "go-hospital-directory/internal/domain/repository"

	"gorm.io/gorm"
)

type specialtyRepository struct{}

func NewSpecialtyRepository() domainRepo.SpecialtyRepository {
	return &specialtyRepository{}
}

func (r *specialtyRepository) Create(db *gorm.DB, specialty *entity.Specialty) error {
	return db.Create(specialty).Error
}

func (r *specialtyRepository) FindAll(db *gorm.DB) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	err := db.Order("name ASC").Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}

func (r *specialtyRepository) FindByIDs(db *gorm.DB, ids []uint) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	if len(ids) == 0 {
		return specialties, nil
	}
	err := db.Where("id IN ?", ids).Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}

// AdjustProviderCounts moves the cached hospital or doctor counter of each specialty.
func (r *specialtyRepository) AdjustProviderCounts(db *gorm.DB, ids []uint, role entity.ProviderRole, delta int) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}

	column := "hospital_count"
	if role == entity.ProviderRoleDoctor {
		column = "doctor_count"
	}

	return db.Model(&entity.Specialty{}).
		Where("id IN ?", ids).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta)).Error
}

// FindTopBySeverity counts hospitals and doctors live from the join table.
func (r *specialtyRepository) FindTopBySeverity(db *gorm.DB, severity entity.Severity, limit int) ([]entity.SpecialtyRanking, error) {
	var rankings []entity.SpecialtyRanking
	err := db.Raw(`
		SELECT s.id, s.name, COALESCE(s.description, '') AS description, s.severity,
			COUNT(DISTINCT p.id) FILTER (WHERE p.role = ?) AS hospital_count,
			COUNT(DISTINCT p.id) FILTER (WHERE p.role = ?) AS doctor_count
		FROM specialties s
		LEFT JOIN provider_specialties ps ON ps.specialty_id = s.id
		LEFT JOIN providers p ON p.id = ps.provider_id
		WHERE s.severity = ?
		GROUP BY s.id
		ORDER BY COUNT(DISTINCT p.id) DESC, s.name ASC
		LIMIT ?`,
		entity.ProviderRoleHospital, entity.ProviderRoleDoctor, severity, limit,
	).Scan(&rankings).Error
	if err != nil {
		return nil, err
	}
	return rankings, nil
}

func (r *specialtyRepository) ReconcileCounts(db *gorm.DB) (int64, error) {
	result := db.Exec(`
		UPDATE specialties s
		SET hospital_count = c.hospitals, doctor_count = c.doctors
		FROM (
			SELECT sp.id,
				COUNT(p.id) FILTER (WHERE p.role = ?) AS hospitals,
				COUNT(p.id) FILTER (WHERE p.role = ?) AS doctors
			FROM specialties sp
			LEFT JOIN provider_specialties ps ON ps.specialty_id = sp.id
			LEFT JOIN providers p ON p.id = ps.provider_id
			GROUP BY sp.id
		) c
		WHERE s.id = c.id AND (s.hospital_count <> c.hospitals OR s.doctor_count <> c.doctors)`,
		entity.ProviderRoleHospital, entity.ProviderRoleDoctor,
	)
	return result.RowsAffected, result.Error
}
