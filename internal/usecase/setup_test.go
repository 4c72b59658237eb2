package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"go-hospital-directory/internal/delivery/http/middleware"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is a Sunday
var fixedNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func asUser(userID uuid.UUID, roleID int) context.Context {
	return middleware.WithClaims(context.Background(), &jwt.Claims{UserID: userID, RoleID: roleID})
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newHospital() *entity.Provider {
	return &entity.Provider{
		ID:        uuid.New(),
		Role:      entity.ProviderRoleHospital,
		Name:      "City Care",
		Latitude:  decimal.RequireFromString("12.9"),
		Longitude: decimal.RequireFromString("77.6"),
		Approved:  true,
	}
}

func newDoctor(parentID uuid.UUID) *entity.Provider {
	return &entity.Provider{
		ID:        uuid.New(),
		Role:      entity.ProviderRoleDoctor,
		ParentID:  &parentID,
		Name:      "Dr. Rao",
		Latitude:  decimal.RequireFromString("12.9"),
		Longitude: decimal.RequireFromString("77.6"),
		Approved:  true,
	}
}

func ptrFloat(f float64) *float64 { return &f }
