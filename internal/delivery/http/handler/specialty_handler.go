package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/usecase"
	"go-hospital-directory/pkg/response"
	"go-hospital-directory/pkg/validator"
)

type SpecialtyHandler struct {
	specialtyUsecase usecase.SpecialtyUsecase
	validator        *validator.CustomValidator
}

func NewSpecialtyHandler(specialtyUsecase usecase.SpecialtyUsecase, validator *validator.CustomValidator) *SpecialtyHandler {
	return &SpecialtyHandler{
		specialtyUsecase: specialtyUsecase,
		validator:        validator,
	}
}

// TopSpecialties handles the severity-filtered specialty ranking
// @Summary Top specialties
// @Tags Speciality
// @Produce json
// @Param severity query string true "low, medium or high"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /speciality/top [get]
func (h *SpecialtyHandler) TopSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.specialtyUsecase.TopSpecialties(r.Context(), r.URL.Query().Get("severity"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSeverity) {
			response.BadRequest(w, "Severity must be one of low, medium, high")
			return
		}
		response.InternalServerError(w, "Failed to get top specialties")
		return
	}

	response.Success(w, http.StatusOK, "Top specialties retrieved successfully", specialties)
}

func (h *SpecialtyHandler) CreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSpecialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	specialty, err := h.specialtyUsecase.CreateSpecialty(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrSpecialtyExists) {
			response.Conflict(w, "Specialty name already exists")
			return
		}
		response.InternalServerError(w, "Failed to create specialty")
		return
	}

	response.Success(w, http.StatusCreated, "Specialty created successfully", specialty)
}

func (h *SpecialtyHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.specialtyUsecase.ListSpecialties(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}
