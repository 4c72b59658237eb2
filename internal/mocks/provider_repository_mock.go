package mocks

import (
	"time"

	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type ProviderRepository struct {
	mock.Mock
}

func (m *ProviderRepository) Create(db *gorm.DB, provider *entity.Provider) error {
	args := m.Called(db, provider)
	return args.Error(0)
}

func (m *ProviderRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Provider, error) {
	args := m.Called(db, id)
	provider, _ := args.Get(0).(*entity.Provider)
	return provider, args.Error(1)
}

func (m *ProviderRepository) FindRanked(db *gorm.DB, query entity.ProviderQuery) ([]entity.RankedProvider, error) {
	args := m.Called(db, query)
	rows, _ := args.Get(0).([]entity.RankedProvider)
	return rows, args.Error(1)
}

func (m *ProviderRepository) CountChildren(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProviderRepository) SetLocation(db *gorm.DB, id uuid.UUID, coord geo.Coordinate) (int64, error) {
	args := m.Called(db, id, coord)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProviderRepository) IncrementDoctorCount(db *gorm.DB, hospitalID uuid.UUID, delta int) error {
	args := m.Called(db, hospitalID, delta)
	return args.Error(0)
}

func (m *ProviderRepository) AdjustSeverityCounts(db *gorm.DB, id uuid.UUID, delta entity.SeverityCounts) error {
	args := m.Called(db, id, delta)
	return args.Error(0)
}

func (m *ProviderRepository) AdvanceFreeSlot(db *gorm.DB, id uuid.UUID, before, next time.Time) (int64, error) {
	args := m.Called(db, id, before, next)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProviderRepository) MoveFreeSlot(db *gorm.DB, id uuid.UUID, from, next time.Time) (int64, error) {
	args := m.Called(db, id, from, next)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProviderRepository) UpdateTimings(db *gorm.DB, id uuid.UUID, timings entity.WeekTimings) (int64, error) {
	args := m.Called(db, id, timings)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProviderRepository) UpdateApproval(db *gorm.DB, id uuid.UUID, approved bool) (int64, error) {
	args := m.Called(db, id, approved)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProviderRepository) DetachSpecialties(db *gorm.DB, provider *entity.Provider) error {
	args := m.Called(db, provider)
	return args.Error(0)
}

func (m *ProviderRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProviderRepository) ReconcileDoctorCounts(db *gorm.DB) (int64, error) {
	args := m.Called(db)
	return args.Get(0).(int64), args.Error(1)
}
