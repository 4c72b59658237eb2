package mocks

import (
	"time"

	"go-hospital-directory/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type SpecialtyRepository struct {
	mock.Mock
}

func (m *SpecialtyRepository) Create(db *gorm.DB, specialty *entity.Specialty) error {
	return m.Called(db, specialty).Error(0)
}

func (m *SpecialtyRepository) FindAll(db *gorm.DB) ([]entity.Specialty, error) {
	args := m.Called(db)
	rows, _ := args.Get(0).([]entity.Specialty)
	return rows, args.Error(1)
}

func (m *SpecialtyRepository) FindByIDs(db *gorm.DB, ids []uint) ([]entity.Specialty, error) {
	args := m.Called(db, ids)
	rows, _ := args.Get(0).([]entity.Specialty)
	return rows, args.Error(1)
}

func (m *SpecialtyRepository) AdjustProviderCounts(db *gorm.DB, ids []uint, role entity.ProviderRole, delta int) error {
	return m.Called(db, ids, role, delta).Error(0)
}

func (m *SpecialtyRepository) FindTopBySeverity(db *gorm.DB, severity entity.Severity, limit int) ([]entity.SpecialtyRanking, error) {
	args := m.Called(db, severity, limit)
	rows, _ := args.Get(0).([]entity.SpecialtyRanking)
	return rows, args.Error(1)
}

func (m *SpecialtyRepository) ReconcileCounts(db *gorm.DB) (int64, error) {
	args := m.Called(db)
	return args.Get(0).(int64), args.Error(1)
}

type AppointmentRepository struct {
	mock.Mock
}

func (m *AppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(db, appointment).Error(0)
}

func (m *AppointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(db, id)
	appointment, _ := args.Get(0).(*entity.Appointment)
	return appointment, args.Error(1)
}

func (m *AppointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(db, patientID)
	rows, _ := args.Get(0).([]entity.Appointment)
	return rows, args.Error(1)
}

func (m *AppointmentRepository) CountHeldForDay(db *gorm.DB, providerID uuid.UUID, day time.Time) (int64, error) {
	args := m.Called(db, providerID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AppointmentRepository) CountOpenByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	args := m.Called(db, providerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AppointmentRepository) Transition(db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, appointment, from)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AppointmentRepository) ExpirePending(db *gorm.DB, startedBefore time.Time) (int64, error) {
	args := m.Called(db, startedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AppointmentRepository) DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	args := m.Called(db, providerID)
	return args.Get(0).(int64), args.Error(1)
}

type RatingRepository struct {
	mock.Mock
}

func (m *RatingRepository) Create(db *gorm.DB, rating *entity.Rating) error {
	return m.Called(db, rating).Error(0)
}

func (m *RatingRepository) SummaryByProvider(db *gorm.DB, providerID uuid.UUID) (*entity.RatingSummary, error) {
	args := m.Called(db, providerID)
	summary, _ := args.Get(0).(*entity.RatingSummary)
	return summary, args.Error(1)
}

func (m *RatingRepository) DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	args := m.Called(db, providerID)
	return args.Get(0).(int64), args.Error(1)
}

type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) CreateBatch(db *gorm.DB, documents []entity.Document) error {
	return m.Called(db, documents).Error(0)
}

func (m *DocumentRepository) DeleteByProvider(db *gorm.DB, providerID uuid.UUID) (int64, error) {
	args := m.Called(db, providerID)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

func (m *UserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *UserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type AuditLogRepository struct {
	mock.Mock
}

func (m *AuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return m.Called(db, log).Error(0)
}

func (m *AuditLogRepository) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	args := m.Called(db, filter)
	rows, _ := args.Get(0).([]entity.AuditLog)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *AuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(db, id)
	log, _ := args.Get(0).(*entity.AuditLog)
	return log, args.Error(1)
}
