package handler

import (
	"context"

	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type providerUsecaseMock struct {
	mock.Mock
}

func (m *providerUsecaseMock) ListProviders(ctx context.Context, req *dto.ListProvidersRequest) ([]dto.RankedProviderResponse, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]dto.RankedProviderResponse)
	return rows, args.Error(1)
}

func (m *providerUsecaseMock) TopHospitals(ctx context.Context, latitude, longitude string) ([]dto.RankedProviderResponse, error) {
	args := m.Called(ctx, latitude, longitude)
	rows, _ := args.Get(0).([]dto.RankedProviderResponse)
	return rows, args.Error(1)
}

func (m *providerUsecaseMock) ListDoctors(ctx context.Context, req *dto.ListDoctorsRequest) ([]dto.RankedProviderResponse, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]dto.RankedProviderResponse)
	return rows, args.Error(1)
}

func (m *providerUsecaseMock) GetProvider(ctx context.Context, id uuid.UUID) (*dto.ProviderDetailResponse, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*dto.ProviderDetailResponse)
	return detail, args.Error(1)
}

func (m *providerUsecaseMock) GetTimings(ctx context.Context, id uuid.UUID) (*dto.TimingsResponse, error) {
	args := m.Called(ctx, id)
	timings, _ := args.Get(0).(*dto.TimingsResponse)
	return timings, args.Error(1)
}

func (m *providerUsecaseMock) UpdateTimings(ctx context.Context, id uuid.UUID, timings entity.WeekTimings) (*dto.TimingsResponse, error) {
	args := m.Called(ctx, id, timings)
	resp, _ := args.Get(0).(*dto.TimingsResponse)
	return resp, args.Error(1)
}

func (m *providerUsecaseMock) UpdateLocation(ctx context.Context, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.LocationResponse)
	return resp, args.Error(1)
}

func (m *providerUsecaseMock) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*dto.ProviderResponse, error) {
	args := m.Called(ctx, id, approved)
	resp, _ := args.Get(0).(*dto.ProviderResponse)
	return resp, args.Error(1)
}

func (m *providerUsecaseMock) AddRating(ctx context.Context, id uuid.UUID, req *dto.RatingRequest) (*entity.RatingSummary, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*entity.RatingSummary)
	return resp, args.Error(1)
}

type registrationUsecaseMock struct {
	mock.Mock
}

func (m *registrationUsecaseMock) Register(ctx context.Context, role entity.ProviderRole, req *dto.RegisterProviderRequest) (*dto.ProviderResponse, error) {
	args := m.Called(ctx, role, req)
	resp, _ := args.Get(0).(*dto.ProviderResponse)
	return resp, args.Error(1)
}

func (m *registrationUsecaseMock) RegisterBulk(ctx context.Context, role entity.ProviderRole, reqs []dto.RegisterProviderRequest) []usecase.RegistrationOutcome {
	args := m.Called(ctx, role, reqs)
	outcomes, _ := args.Get(0).([]usecase.RegistrationOutcome)
	return outcomes
}

func (m *registrationUsecaseMock) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *registrationUsecaseMock) ReconcileCounts(ctx context.Context) (*dto.ReconcileResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*dto.ReconcileResponse)
	return resp, args.Error(1)
}

type specialtyUsecaseMock struct {
	mock.Mock
}

func (m *specialtyUsecaseMock) TopSpecialties(ctx context.Context, severity string) ([]dto.TopSpecialtyResponse, error) {
	args := m.Called(ctx, severity)
	rows, _ := args.Get(0).([]dto.TopSpecialtyResponse)
	return rows, args.Error(1)
}

func (m *specialtyUsecaseMock) CreateSpecialty(ctx context.Context, req *dto.CreateSpecialtyRequest) (*dto.SpecialtyResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.SpecialtyResponse)
	return resp, args.Error(1)
}

func (m *specialtyUsecaseMock) ListSpecialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]dto.SpecialtyResponse)
	return rows, args.Error(1)
}

type appointmentUsecaseMock struct {
	mock.Mock
}

func (m *appointmentUsecaseMock) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *appointmentUsecaseMock) Cancel(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *appointmentUsecaseMock) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, id, status)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *appointmentUsecaseMock) ListMine(ctx context.Context) ([]dto.AppointmentResponse, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]dto.AppointmentResponse)
	return rows, args.Error(1)
}

func (m *appointmentUsecaseMock) ExpireStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
