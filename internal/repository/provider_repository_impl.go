package repository

import (
	"errors"
	"strings"
	"time"

	"go-hospital-directory/internal/domain/entity"
	domainRepo "go-hospital-directory/internal/domain/repository"
	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type providerRepository struct{}

func NewProviderRepository() domainRepo.ProviderRepository {
	return &providerRepository{}
}

// Create inserts the provider and its specialty links. Specialties must
// already exist, so only the join rows are written.
func (r *providerRepository) Create(db *gorm.DB, provider *entity.Provider) error {
	return db.Omit("Specialties.*", "Parent", "Documents").Create(provider).Error
}

func (r *providerRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Provider, error) {
	var provider entity.Provider
	err := db.Preload("Specialties").Where("id = ?", id).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindRanked(db *gorm.DB, query entity.ProviderQuery) ([]entity.RankedProvider, error) {
	sql, args := buildRankedQuery(query)

	var rows []entity.RankedProvider
	if err := db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *providerRepository) CountChildren(db *gorm.DB, id uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Provider{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

// SetLocation writes the decimal pair and the PostGIS point in one statement.
func (r *providerRepository) SetLocation(db *gorm.DB, id uuid.UUID, coord geo.Coordinate) (int64, error) {
	result := db.Exec(
		`UPDATE providers
		SET latitude = ?, longitude = ?, location = ST_SetSRID(ST_MakePoint(?, ?), 4326), updated_at = NOW()
		WHERE id = ?`,
		coord.Latitude, coord.Longitude, coord.LonFloat(), coord.LatFloat(), id,
	)
	return result.RowsAffected, result.Error
}

// IncrementDoctorCount applies delta with a single UPDATE expression so
// concurrent registrations never lose an increment. The counter never goes below zero.
func (r *providerRepository) IncrementDoctorCount(db *gorm.DB, hospitalID uuid.UUID, delta int) error {
	result := db.Model(&entity.Provider{}).
		Where("id = ? AND role = ?", hospitalID, entity.ProviderRoleHospital).
		UpdateColumn("doctor_count", gorm.Expr("GREATEST(doctor_count + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *providerRepository) AdjustSeverityCounts(db *gorm.DB, id uuid.UUID, delta entity.SeverityCounts) error {
	if delta.IsZero() {
		return nil
	}
	return db.Model(&entity.Provider{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"low_severity":    gorm.Expr("GREATEST(low_severity + ?, 0)", delta.Low),
			"medium_severity": gorm.Expr("GREATEST(medium_severity + ?, 0)", delta.Medium),
			"high_severity":   gorm.Expr("GREATEST(high_severity + ?, 0)", delta.High),
		}).Error
}

// AdvanceFreeSlot moves a lapsed free slot forward. Zero affected rows means
// another reader already advanced it or it had not lapsed.
func (r *providerRepository) AdvanceFreeSlot(db *gorm.DB, id uuid.UUID, before, next time.Time) (int64, error) {
	result := db.Model(&entity.Provider{}).
		Where("id = ? AND free_slot_date < ?", id, before).
		UpdateColumn("free_slot_date", next)
	return result.RowsAffected, result.Error
}

func (r *providerRepository) MoveFreeSlot(db *gorm.DB, id uuid.UUID, from, next time.Time) (int64, error) {
	result := db.Model(&entity.Provider{}).
		Where("id = ? AND free_slot_date = ?", id, from).
		UpdateColumn("free_slot_date", next)
	return result.RowsAffected, result.Error
}

func (r *providerRepository) UpdateTimings(db *gorm.DB, id uuid.UUID, timings entity.WeekTimings) (int64, error) {
	result := db.Model(&entity.Provider{}).Where("id = ?", id).Update("timings", timings)
	return result.RowsAffected, result.Error
}

func (r *providerRepository) UpdateApproval(db *gorm.DB, id uuid.UUID, approved bool) (int64, error) {
	result := db.Model(&entity.Provider{}).Where("id = ?", id).Update("approved", approved)
	return result.RowsAffected, result.Error
}

func (r *providerRepository) DetachSpecialties(db *gorm.DB, provider *entity.Provider) error {
	return db.Model(provider).Association("Specialties").Clear()
}

func (r *providerRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Provider{})
	return result.RowsAffected, result.Error
}

// ReconcileDoctorCounts rewrites every hospital counter that disagrees with its children.
func (r *providerRepository) ReconcileDoctorCounts(db *gorm.DB) (int64, error) {
	result := db.Exec(`
		UPDATE providers h
		SET doctor_count = c.live, updated_at = NOW()
		FROM (
			SELECT hp.id, COUNT(d.id) AS live
			FROM providers hp
			LEFT JOIN providers d ON d.parent_id = hp.id
			WHERE hp.role = ?
			GROUP BY hp.id
		) c
		WHERE h.id = c.id AND h.doctor_count <> c.live`,
		entity.ProviderRoleHospital,
	)
	return result.RowsAffected, result.Error
}

const rankedColumns = `SELECT p.id, p.role, p.parent_id, p.name, p.email, p.phone, p.address,
	p.latitude, p.longitude, p.doctor_count, p.low_severity, p.medium_severity, p.high_severity,
	p.max_appointments, p.free_slot_date, p.emergency, p.approved,
	(SELECT COUNT(*) FROM providers c WHERE c.parent_id = p.id) AS live_doctor_count`

const rankedFrom = `
	COALESCE(
		jsonb_agg(DISTINCT jsonb_build_object('id', s.id, 'name', s.name, 'description', COALESCE(s.description, '')))
		FILTER (WHERE s.id IS NOT NULL),
		'[]'::jsonb
	) AS specialties
FROM providers p
LEFT JOIN provider_specialties ps ON ps.provider_id = p.id
LEFT JOIN specialties s ON s.id = ps.specialty_id`

// buildRankedQuery renders one grouped statement per listing: counts, distance
// and the deduplicated specialty list come back together.
func buildRankedQuery(query entity.ProviderQuery) (string, []interface{}) {
	q := query.Normalize()
	args := make([]interface{}, 0, 10)

	var sb strings.Builder
	sb.WriteString(rankedColumns)

	if q.Mode == entity.QueryModeTop {
		sb.WriteString(",\n\tp.doctor_count AS rank_count")
	} else {
		sb.WriteString(",\n\t(SELECT COUNT(*) FROM providers c WHERE c.parent_id = p.id) AS rank_count")
	}

	if q.Origin != nil {
		sb.WriteString(",\n\tST_DistanceSphere(p.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)) AS distance,")
		args = append(args, q.Origin.PointArgs()...)
	} else {
		sb.WriteString(",\n\tNULL::double precision AS distance,")
	}
	sb.WriteString(rankedFrom)

	var where []string
	if q.Mode == entity.QueryModeTop {
		where = append(where, "p.parent_id IS NULL")
	}
	if q.Role != "" {
		where = append(where, "p.role = ?")
		args = append(args, q.Role)
	}
	if q.Approved != nil {
		where = append(where, "p.approved = ?")
		args = append(args, *q.Approved)
	}
	if q.Emergency != nil {
		where = append(where, "p.emergency = ?")
		args = append(args, *q.Emergency)
	}
	if q.ParentID != nil {
		where = append(where, "p.parent_id = ?")
		args = append(args, *q.ParentID)
	}
	if q.Severity != "" {
		where = append(where, `EXISTS (
		SELECT 1 FROM provider_specialties sp
		JOIN specialties sv ON sv.id = sp.specialty_id
		WHERE sp.provider_id = p.id AND sv.severity = ?)`)
		args = append(args, q.Severity)
	}
	if q.Mode == entity.QueryModeSearch {
		where = append(where, "p.name ILIKE ?")
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}
	if q.FreeSlotFrom != nil {
		where = append(where, "p.free_slot_date >= ?")
		args = append(args, *q.FreeSlotFrom)
	}
	if q.FreeSlotTo != nil {
		where = append(where, "p.free_slot_date <= ?")
		args = append(args, *q.FreeSlotTo)
	}

	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, "\n\tAND "))
	}

	sb.WriteString("\nGROUP BY p.id\nORDER BY ")
	switch q.Mode {
	case entity.QueryModeSearch:
		sb.WriteString("p.name ASC, p.id ASC")
	case entity.QueryModeInstant:
		sb.WriteString("p.free_slot_date ASC, distance ASC NULLS LAST, p.id ASC")
	default:
		sb.WriteString("rank_count DESC, distance ASC NULLS LAST, p.id ASC")
	}

	sb.WriteString("\nLIMIT ? OFFSET ?")
	args = append(args, q.Limit, q.Offset)

	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
