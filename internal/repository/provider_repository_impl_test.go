package repository

import (
	"testing"
	"time"

	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/geo"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func mustCoordinate(t *testing.T, lat, lon string) *geo.Coordinate {
	coord, err := geo.Parse(lat, lon)
	require.NoError(t, err)
	return &coord
}

func TestBuildRankedQuery_BrowseWithOrigin(t *testing.T) {
	sql, args := buildRankedQuery(entity.ProviderQuery{Origin: mustCoordinate(t, "12.9", "77.6")})

	assert.Contains(t, sql, "ST_DistanceSphere(p.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)) AS distance")
	assert.Contains(t, sql, "(SELECT COUNT(*) FROM providers c WHERE c.parent_id = p.id) AS rank_count")
	assert.Contains(t, sql, "jsonb_agg(DISTINCT jsonb_build_object(")
	assert.Contains(t, sql, "GROUP BY p.id")
	assert.Contains(t, sql, "ORDER BY rank_count DESC, distance ASC NULLS LAST, p.id ASC")
	assert.NotContains(t, sql, "WHERE ")

	require.Len(t, args, 4)
	assert.Equal(t, 77.6, args[0], "longitude goes first into ST_MakePoint")
	assert.Equal(t, 12.9, args[1])
	assert.Equal(t, entity.DefaultListLimit, args[2])
	assert.Equal(t, 0, args[3])
}

func TestBuildRankedQuery_BrowseWithoutOrigin(t *testing.T) {
	approved := true
	emergency := false
	sql, args := buildRankedQuery(entity.ProviderQuery{
		Approved:  &approved,
		Emergency: &emergency,
		Role:      entity.ProviderRoleHospital,
		Severity:  entity.SeverityHigh,
		Limit:     10,
		Offset:    20,
	})

	assert.Contains(t, sql, "NULL::double precision AS distance")
	assert.Contains(t, sql, "p.role = ?")
	assert.Contains(t, sql, "p.approved = ?")
	assert.Contains(t, sql, "p.emergency = ?")
	assert.Contains(t, sql, "sv.severity = ?")
	assert.Equal(t, []interface{}{entity.ProviderRoleHospital, true, false, entity.SeverityHigh, 10, 20}, args)
}

func TestBuildRankedQuery_TopUsesCachedCounter(t *testing.T) {
	sql, args := buildRankedQuery(entity.ProviderQuery{
		Mode:   entity.QueryModeTop,
		Origin: mustCoordinate(t, "12.9", "77.6"),
		Limit:  100,
	})

	assert.Contains(t, sql, "p.doctor_count AS rank_count")
	assert.Contains(t, sql, "p.parent_id IS NULL")
	assert.Contains(t, sql, "ORDER BY rank_count DESC, distance ASC NULLS LAST")
	assert.Equal(t, []interface{}{77.6, 12.9, entity.ProviderRoleHospital, true, entity.TopCandidateLimit, 0}, args)
}

func TestBuildRankedQuery_SearchSkipsDistance(t *testing.T) {
	sql, args := buildRankedQuery(entity.ProviderQuery{
		Origin: mustCoordinate(t, "12.9", "77.6"),
		Search: "50%_off",
	})

	assert.Contains(t, sql, "NULL::double precision AS distance")
	assert.NotContains(t, sql, "ST_DistanceSphere")
	assert.Contains(t, sql, "p.name ILIKE ?")
	assert.Contains(t, sql, "ORDER BY p.name ASC, p.id ASC")
	assert.Equal(t, []interface{}{`%50\%\_off%`, entity.DefaultListLimit, 0}, args)
}

func TestBuildRankedQuery_InstantWindow(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	sql, args := buildRankedQuery(entity.ProviderQuery{
		Mode:         entity.QueryModeInstant,
		FreeSlotFrom: &from,
		FreeSlotTo:   &to,
	})

	assert.Contains(t, sql, "p.free_slot_date >= ?")
	assert.Contains(t, sql, "p.free_slot_date <= ?")
	assert.Contains(t, sql, "ORDER BY p.free_slot_date ASC")
	assert.Equal(t, []interface{}{entity.ProviderRoleDoctor, true, from, to, entity.DefaultListLimit, 0}, args)
}

func TestProviderRepository_FindRankedScansRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProviderRepository()

	hospitalID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "role", "parent_id", "name", "email", "phone", "address", "latitude", "longitude",
		"doctor_count", "low_severity", "medium_severity", "high_severity", "max_appointments",
		"free_slot_date", "emergency", "approved", "live_doctor_count", "rank_count", "distance", "specialties",
	}).AddRow(
		hospitalID.String(), "Hospital", nil, "City Care", "city@care.test", "", "", "12.9000000", "77.6000000",
		int64(2), int64(0), int64(1), int64(0), int64(0),
		nil, true, true, int64(2), int64(2), float64(0), []byte(`[{"id":1,"name":"Cardiology","description":"Heart"}]`),
	)
	mock.ExpectQuery(`ST_DistanceSphere`).WillReturnRows(rows)

	result, err := repo.FindRanked(db, entity.ProviderQuery{Origin: mustCoordinate(t, "12.9", "77.6")})
	require.NoError(t, err)
	require.Len(t, result, 1)

	row := result[0]
	assert.Equal(t, hospitalID, row.ID)
	assert.Equal(t, entity.ProviderRoleHospital, row.Role)
	assert.Nil(t, row.ParentID)
	assert.Equal(t, "12.9", row.Latitude.String())
	assert.Equal(t, int64(2), row.LiveDoctorCount)
	require.NotNil(t, row.Distance)
	assert.Equal(t, 0.0, *row.Distance)
	require.Len(t, row.Specialties, 1)
	assert.Equal(t, "Cardiology", row.Specialties[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProviderRepository_IncrementDoctorCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProviderRepository()
	hospitalID := uuid.New()

	mock.ExpectExec(`UPDATE "providers" SET "doctor_count"=GREATEST\(doctor_count \+ \$1, 0\)`).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementDoctorCount(db, hospitalID, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProviderRepository_IncrementDoctorCountMissingHospital(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProviderRepository()

	mock.ExpectExec(`UPDATE "providers" SET "doctor_count"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementDoctorCount(db, uuid.New(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProviderRepository_SetLocationSingleStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProviderRepository()

	mock.ExpectExec(`UPDATE providers\s+SET latitude = \$1, longitude = \$2, location = ST_SetSRID\(ST_MakePoint\(\$3, \$4\), 4326\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 77.6, 12.9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.SetLocation(db, uuid.New(), *mustCoordinate(t, "12.9", "77.6"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProviderRepository_AdvanceFreeSlotIsConditional(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProviderRepository()
	today := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "providers" SET "free_slot_date"=\$1 WHERE id = \$2 AND free_slot_date < \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.AdvanceFreeSlot(db, uuid.New(), today, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProviderRepository_ReconcileDoctorCounts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProviderRepository()

	mock.ExpectExec(`UPDATE providers h\s+SET doctor_count = c.live`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	fixed, err := repo.ReconcileDoctorCounts(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fixed)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
