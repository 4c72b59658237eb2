package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/usecase"
	"go-hospital-directory/pkg/response"
	"go-hospital-directory/pkg/validator"
)

type RegistrationHandler struct {
	registrationUsecase usecase.RegistrationUsecase
	validator           *validator.CustomValidator
}

func NewRegistrationHandler(registrationUsecase usecase.RegistrationUsecase, validator *validator.CustomValidator) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUsecase: registrationUsecase,
		validator:           validator,
	}
}

// providerRole reads ?user=Hospital|Doctor, case-insensitively
func providerRole(r *http.Request) (entity.ProviderRole, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("user"))
	for _, role := range []entity.ProviderRole{entity.ProviderRoleHospital, entity.ProviderRoleDoctor} {
		if strings.EqualFold(raw, string(role)) {
			return role, true
		}
	}
	return "", false
}

// registrationError maps a registration failure to its status and message
func registrationError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrHospitalNotFound):
		return http.StatusNotFound, "Associated Hospital not found"
	case errors.Is(err, usecase.ErrSpecialtyNotFound):
		return http.StatusNotFound, "Specialty not found"
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, usecase.ErrHospitalRequired),
		errors.Is(err, usecase.ErrHospitalWithParent),
		errors.Is(err, usecase.ErrParentNotHospital),
		errors.Is(err, usecase.ErrInvalidProviderRole),
		errors.Is(err, usecase.ErrInvalidFreeSlotDate),
		errors.Is(err, usecase.ErrInvalidCoordinates),
		errors.Is(err, usecase.ErrInvalidTimings):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Failed to register provider"
	}
}

// Register handles hospital and doctor registration
// @Summary Register a provider
// @Description user=Doctor requires the id of an existing hospital
// @Tags Hospitals
// @Accept json
// @Produce json
// @Param user query string true "Hospital or Doctor"
// @Param request body dto.RegisterProviderRequest true "Register Provider Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /hospitals/register [post]
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	role, ok := providerRole(r)
	if !ok {
		response.BadRequest(w, "Query parameter user must be Hospital or Doctor")
		return
	}

	var req dto.RegisterProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	provider, err := h.registrationUsecase.Register(r.Context(), role, &req)
	if err != nil {
		status, message := registrationError(err)
		response.Error(w, status, message, nil)
		return
	}

	response.Success(w, http.StatusCreated, string(role)+" registered successfully", provider)
}

// RegisterBulk registers every item independently and reports per-item status with 207
func (h *RegistrationHandler) RegisterBulk(w http.ResponseWriter, r *http.Request) {
	role, ok := providerRole(r)
	if !ok {
		response.BadRequest(w, "Query parameter user must be Hospital or Doctor")
		return
	}

	var req dto.BulkRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	results := make([]dto.BulkItemResult, len(req.Items))
	valid := make([]dto.RegisterProviderRequest, 0, len(req.Items))
	positions := make([]int, 0, len(req.Items))
	for i := range req.Items {
		if err := h.validator.Validate(&req.Items[i]); err != nil {
			results[i] = dto.BulkItemResult{
				Index:   i,
				Status:  http.StatusBadRequest,
				Message: "Validation failed",
				Errors:  h.validator.FormatValidationErrors(err),
			}
			continue
		}
		valid = append(valid, req.Items[i])
		positions = append(positions, i)
	}

	outcomes := h.registrationUsecase.RegisterBulk(r.Context(), role, valid)
	for j, outcome := range outcomes {
		i := positions[j]
		if outcome.Err != nil {
			status, message := registrationError(outcome.Err)
			results[i] = dto.BulkItemResult{Index: i, Status: status, Message: message}
			continue
		}
		id := outcome.Provider.ID
		results[i] = dto.BulkItemResult{Index: i, Status: http.StatusCreated, ID: &id, Message: "Registered"}
	}

	allSucceeded := true
	for _, result := range results {
		if result.Status != http.StatusCreated {
			allSucceeded = false
			break
		}
	}

	response.MultiStatus(w, "Bulk registration processed", results, allSucceeded)
}

func (h *RegistrationHandler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	if err := h.registrationUsecase.DeleteProvider(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrProviderNotFound):
			response.NotFound(w, "Provider not found")
		case errors.Is(err, usecase.ErrHospitalHasDoctors):
			response.Conflict(w, "Hospital still has doctors attached")
		case errors.Is(err, usecase.ErrProviderHasAppointments):
			response.Conflict(w, "Provider has appointments awaiting completion or refund")
		default:
			response.InternalServerError(w, "Failed to delete provider")
		}
		return
	}

	response.Success(w, http.StatusOK, "Provider deleted successfully", nil)
}

func (h *RegistrationHandler) ReconcileCounts(w http.ResponseWriter, r *http.Request) {
	result, err := h.registrationUsecase.ReconcileCounts(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to reconcile counters")
		return
	}

	response.Success(w, http.StatusOK, "Counters reconciled successfully", result)
}
