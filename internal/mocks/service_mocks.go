package mocks

import (
	"context"
	"time"

	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type AuditService struct {
	mock.Mock
}

func (m *AuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return m.Called(ctx, tx, userID, action, entityName, entityID, newValue).Error(0)
}

func (m *AuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, userID, action, entityName, entityID, oldValue, newValue).Error(0)
}

func (m *AuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return m.Called(ctx, tx, userID, action, entityName, entityID, oldValue).Error(0)
}

type AppointmentQuota struct {
	mock.Mock
}

func (m *AppointmentQuota) Reserve(ctx context.Context, providerID uuid.UUID, day time.Time, seed int64) (int64, error) {
	args := m.Called(ctx, providerID, day, seed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AppointmentQuota) Release(ctx context.Context, providerID uuid.UUID, day time.Time) error {
	return m.Called(ctx, providerID, day).Error(0)
}

type DirectoryCache struct {
	mock.Mock
}

func (m *DirectoryCache) GetTopHospitals(ctx context.Context, origin geo.Coordinate) ([]entity.RankedProvider, int64, bool) {
	args := m.Called(ctx, origin)
	rows, _ := args.Get(0).([]entity.RankedProvider)
	return rows, args.Get(1).(int64), args.Bool(2)
}

func (m *DirectoryCache) SetTopHospitals(ctx context.Context, origin geo.Coordinate, generation int64, rows []entity.RankedProvider) {
	m.Called(ctx, origin, generation, rows)
}

func (m *DirectoryCache) InvalidateTopHospitals(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *DirectoryCache) GetTopSpecialties(severity entity.Severity) ([]entity.SpecialtyRanking, bool) {
	args := m.Called(severity)
	rows, _ := args.Get(0).([]entity.SpecialtyRanking)
	return rows, args.Bool(1)
}

func (m *DirectoryCache) SetTopSpecialties(severity entity.Severity, rows []entity.SpecialtyRanking) {
	m.Called(severity, rows)
}

func (m *DirectoryCache) InvalidateSpecialties() {
	m.Called()
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, events ...entity.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

func (m *EventPublisher) Close() error {
	return m.Called().Error(0)
}

type TokenStore struct {
	mock.Mock
}

func (m *TokenStore) Store(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, userID, tokenID, ttl).Error(0)
}

func (m *TokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	args := m.Called(ctx, userID, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *TokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return m.Called(ctx, userID, tokenID).Error(0)
}
