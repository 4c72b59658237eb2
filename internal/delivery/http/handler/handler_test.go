package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/service"
	"go-hospital-directory/internal/usecase"
	"go-hospital-directory/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func withVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

const doctorBody = `{
	"name": "Dr. Rao",
	"email": "rao@clinic.test",
	"password": "secret123",
	"latitude": 12.9716,
	"longitude": 77.5946,
	"hospital": "%s"
}`

func TestRegister_UnknownHospital(t *testing.T) {
	uc := new(registrationUsecaseMock)
	h := NewRegistrationHandler(uc, validator.NewValidator())

	hospitalID := uuid.New()
	uc.On("Register", mock.Anything, entity.ProviderRoleDoctor, mock.Anything).Return(nil, usecase.ErrHospitalNotFound)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitals/register?user=Doctor",
		strings.NewReader(fmt.Sprintf(doctorBody, hospitalID)))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Associated Hospital not found", body.Message)
}

func TestRegister_RequiresUserParameter(t *testing.T) {
	h := NewRegistrationHandler(new(registrationUsecaseMock), validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitals/register?user=Nurse", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	h := NewRegistrationHandler(new(registrationUsecaseMock), validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitals/register?user=hospital",
		strings.NewReader(`{"name": "City Care", "email": "city@care.test", "password": "secret123", "latitude": 95, "longitude": 77.6}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Contains(t, body.Error, "Latitude")
}

func TestRegisterBulk_MultiStatus(t *testing.T) {
	uc := new(registrationUsecaseMock)
	h := NewRegistrationHandler(uc, validator.NewValidator())

	createdID := uuid.New()
	uc.On("RegisterBulk", mock.Anything, entity.ProviderRoleDoctor, mock.MatchedBy(func(reqs []dto.RegisterProviderRequest) bool {
		return len(reqs) == 2
	})).Return([]usecase.RegistrationOutcome{
		{Provider: &dto.ProviderResponse{ID: createdID}},
		{Err: usecase.ErrHospitalNotFound},
	})

	hospitalID := uuid.New()
	body := fmt.Sprintf(`{"items": [%s, {"name": "x"}, %s]}`,
		fmt.Sprintf(doctorBody, hospitalID), fmt.Sprintf(doctorBody, uuid.New()))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitals/register/bulk?user=Doctor", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.RegisterBulk(rec, req)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)

	var items []dto.BulkItemResult
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 3)
	assert.Equal(t, http.StatusCreated, items[0].Status)
	assert.Equal(t, createdID, *items[0].ID)
	assert.Equal(t, http.StatusBadRequest, items[1].Status)
	assert.NotEmpty(t, items[1].Errors)
	assert.Equal(t, 2, items[2].Index)
	assert.Equal(t, http.StatusNotFound, items[2].Status)
	assert.Equal(t, "Associated Hospital not found", items[2].Message)
}

func TestDeleteProvider_HospitalWithDoctors(t *testing.T) {
	uc := new(registrationUsecaseMock)
	h := NewRegistrationHandler(uc, validator.NewValidator())

	id := uuid.New()
	uc.On("DeleteProvider", mock.Anything, id).Return(usecase.ErrHospitalHasDoctors)

	req := withVars(httptest.NewRequest(http.MethodDelete, "/api/v1/hospitals/"+id.String(), nil),
		map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.DeleteProvider(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteProvider_OpenAppointments(t *testing.T) {
	uc := new(registrationUsecaseMock)
	h := NewRegistrationHandler(uc, validator.NewValidator())

	id := uuid.New()
	uc.On("DeleteProvider", mock.Anything, id).Return(usecase.ErrProviderHasAppointments)

	req := withVars(httptest.NewRequest(http.MethodDelete, "/api/v1/hospitals/"+id.String(), nil),
		map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.DeleteProvider(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Provider has appointments awaiting completion or refund", decodeEnvelope(t, rec).Message)
}

func TestTopHospitals_MissingCoordinates(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	uc.On("TopHospitals", mock.Anything, "", "").
		Return(nil, fmt.Errorf("%w: latitude and longitude are required", usecase.ErrInvalidCoordinates))

	rec := httptest.NewRecorder()
	h.TopHospitals(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hospitals/top", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Message, "latitude and longitude are required")
}

func TestTopHospitals_EmptyStore(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	uc.On("TopHospitals", mock.Anything, "12.9", "77.6").Return([]dto.RankedProviderResponse{}, nil)

	rec := httptest.NewRecorder()
	h.TopHospitals(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hospitals/top?latitude=12.9&longitude=77.6", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.JSONEq(t, `[]`, string(body.Data))
}

func TestListProviders_ParsesFilters(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	uc.On("ListProviders", mock.Anything, mock.MatchedBy(func(req *dto.ListProvidersRequest) bool {
		return req.Latitude == "12.9" && *req.Emergency && req.Approved == nil &&
			req.Role == "Hospital" && req.Search == "city" && req.Limit == 10
	})).Return([]dto.RankedProviderResponse{}, nil)

	rec := httptest.NewRecorder()
	h.ListProviders(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/hospitals?latitude=12.9&longitude=77.6&emergency=true&role=Hospital&search=city&limit=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestListProviders_BadBoolean(t *testing.T) {
	h := NewProviderHandler(new(providerUsecaseMock), validator.NewValidator())

	rec := httptest.NewRecorder()
	h.ListProviders(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hospitals?emergency=maybe", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDoctors_Instant(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	uc.On("ListDoctors", mock.Anything, mock.MatchedBy(func(req *dto.ListDoctorsRequest) bool {
		return req.Instant && req.Hospital == nil
	})).Return([]dto.RankedProviderResponse{}, nil)

	rec := httptest.NewRecorder()
	h.ListDoctors(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hospitals/doctors?instant=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestGetProvider_NotFound(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	id := uuid.New()
	uc.On("GetProvider", mock.Anything, id).Return(nil, usecase.ErrProviderNotFound)

	req := withVars(httptest.NewRequest(http.MethodGet, "/api/v1/hospitals/"+id.String(), nil),
		map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.GetProvider(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTimings_ThreeStates(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	id := uuid.New()
	uc.On("UpdateTimings", mock.Anything, id, mock.MatchedBy(func(w entity.WeekTimings) bool {
		return w.Day(time.Monday).State == entity.DayOpen &&
			w.Day(time.Sunday).State == entity.DayClosed &&
			w.Day(time.Tuesday).State == entity.DayUnset
	})).Return(&dto.TimingsResponse{ProviderID: id}, nil)

	req := withVars(httptest.NewRequest(http.MethodPut, "/api/v1/hospitals/"+id.String()+"/timings",
		strings.NewReader(`{"monday": {"start": "09:00", "end": "17:00"}, "sunday": null}`)),
		map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.UpdateTimings(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestUpdateTimings_UnknownDay(t *testing.T) {
	h := NewProviderHandler(new(providerUsecaseMock), validator.NewValidator())

	id := uuid.New()
	req := withVars(httptest.NewRequest(http.MethodPut, "/api/v1/hospitals/"+id.String()+"/timings",
		strings.NewReader(`{"funday": null}`)), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.UpdateTimings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTimings_InvertedHours(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	id := uuid.New()
	uc.On("UpdateTimings", mock.Anything, id, mock.Anything).
		Return(nil, fmt.Errorf("%w: monday: opening time must be before closing time", usecase.ErrInvalidTimings))

	req := withVars(httptest.NewRequest(http.MethodPut, "/api/v1/hospitals/"+id.String()+"/timings",
		strings.NewReader(`{"monday": {"start": "18:00", "end": "09:00"}}`)), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.UpdateTimings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLocation_RequiresCoordinates(t *testing.T) {
	h := NewProviderHandler(new(providerUsecaseMock), validator.NewValidator())

	rec := httptest.NewRecorder()
	h.UpdateLocation(rec, httptest.NewRequest(http.MethodPost, "/api/v1/hospitals/location",
		strings.NewReader(fmt.Sprintf(`{"id": "%s", "longitude": 77.6}`, uuid.New()))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error, "Latitude")
}

func TestAddRating_Duplicate(t *testing.T) {
	uc := new(providerUsecaseMock)
	h := NewProviderHandler(uc, validator.NewValidator())

	id := uuid.New()
	uc.On("AddRating", mock.Anything, id, mock.Anything).Return(nil, usecase.ErrRatingExists)

	req := withVars(httptest.NewRequest(http.MethodPost, "/api/v1/hospitals/"+id.String()+"/ratings",
		strings.NewReader(`{"score": 4}`)), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.AddRating(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTopSpecialties_InvalidSeverity(t *testing.T) {
	uc := new(specialtyUsecaseMock)
	h := NewSpecialtyHandler(uc, validator.NewValidator())

	uc.On("TopSpecialties", mock.Anything, "extreme").Return(nil, usecase.ErrInvalidSeverity)

	rec := httptest.NewRecorder()
	h.TopSpecialties(rec, httptest.NewRequest(http.MethodGet, "/api/v1/speciality/top?severity=extreme", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSpecialty_Duplicate(t *testing.T) {
	uc := new(specialtyUsecaseMock)
	h := NewSpecialtyHandler(uc, validator.NewValidator())

	uc.On("CreateSpecialty", mock.Anything, mock.Anything).Return(nil, usecase.ErrSpecialtyExists)

	rec := httptest.NewRecorder()
	h.CreateSpecialty(rec, httptest.NewRequest(http.MethodPost, "/api/v1/speciality",
		strings.NewReader(`{"name": "Cardiology", "severity": "high"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBook_QuotaFull(t *testing.T) {
	uc := new(appointmentUsecaseMock)
	h := NewAppointmentHandler(uc, validator.NewValidator())

	uc.On("Book", mock.Anything, mock.Anything).Return(nil, service.ErrQuotaFull)

	rec := httptest.NewRecorder()
	h.Book(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments",
		strings.NewReader(fmt.Sprintf(`{"provider_id": "%s", "date": "2026-05-11", "time": "10:00", "amount": "500"}`, uuid.New()))))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBook_ClosedDay(t *testing.T) {
	uc := new(appointmentUsecaseMock)
	h := NewAppointmentHandler(uc, validator.NewValidator())

	uc.On("Book", mock.Anything, mock.Anything).Return(nil, usecase.ErrProviderClosed)

	rec := httptest.NewRecorder()
	h.Book(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments",
		strings.NewReader(fmt.Sprintf(`{"provider_id": "%s", "date": "2026-05-11", "time": "10:00"}`, uuid.New()))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecase.ErrProviderClosed.Error(), decodeEnvelope(t, rec).Message)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	uc := new(appointmentUsecaseMock)
	h := NewAppointmentHandler(uc, validator.NewValidator())

	id := uuid.New()
	uc.On("UpdateStatus", mock.Anything, id, "refunded").Return(nil, usecase.ErrInvalidTransition)

	req := withVars(httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id.String()+"/status",
		strings.NewReader(`{"status": "refunded"}`)), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
