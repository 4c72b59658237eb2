package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/usecase"
	"go-hospital-directory/pkg/response"
	"go-hospital-directory/pkg/validator"

	"github.com/google/uuid"
)

type ProviderHandler struct {
	providerUsecase usecase.ProviderUsecase
	validator       *validator.CustomValidator
}

func NewProviderHandler(providerUsecase usecase.ProviderUsecase, validator *validator.CustomValidator) *ProviderHandler {
	return &ProviderHandler{
		providerUsecase: providerUsecase,
		validator:       validator,
	}
}

// ListProviders handles the ranked directory listing
// @Summary List providers
// @Description Providers ranked by doctor count, then distance from the requester
// @Tags Hospitals
// @Produce json
// @Param latitude query number false "Requester latitude"
// @Param longitude query number false "Requester longitude"
// @Param emergency query bool false "Emergency capable only"
// @Param role query string false "Hospital or Doctor"
// @Param approved query bool false "Approval state"
// @Param search query string false "Name search"
// @Param severity query string false "low, medium or high"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /hospitals [get]
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.ListProvidersRequest{
		Latitude:  q.Get("latitude"),
		Longitude: q.Get("longitude"),
		Role:      q.Get("role"),
		Search:    q.Get("search"),
		Severity:  q.Get("severity"),
	}

	var err error
	if req.Emergency, err = queryBool(r, "emergency"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if req.Approved, err = queryBool(r, "approved"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if req.Limit, req.Offset, err = queryPaging(r); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	providers, err := h.providerUsecase.ListProviders(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to list providers")
		return
	}

	response.Success(w, http.StatusOK, "Providers retrieved successfully", providers)
}

// TopHospitals handles the top-8 hospitals around the requester
// @Summary Top hospitals
// @Tags Hospitals
// @Produce json
// @Param latitude query number true "Requester latitude"
// @Param longitude query number true "Requester longitude"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /hospitals/top [get]
func (h *ProviderHandler) TopHospitals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hospitals, err := h.providerUsecase.TopHospitals(r.Context(), q.Get("latitude"), q.Get("longitude"))
	if err != nil {
		h.writeError(w, err, "Failed to get top hospitals")
		return
	}

	response.Success(w, http.StatusOK, "Top hospitals retrieved successfully", hospitals)
}

// ListDoctors handles doctor listings; instant=true restricts to a free slot in the next week
// @Summary List doctors
// @Tags Hospitals
// @Produce json
// @Param instant query bool false "Free slot within seven days"
// @Param hospital query string false "Parent hospital id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /hospitals/doctors [get]
func (h *ProviderHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.ListDoctorsRequest{
		Latitude:  q.Get("latitude"),
		Longitude: q.Get("longitude"),
	}

	instant, err := queryBool(r, "instant")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	req.Instant = instant != nil && *instant

	if raw := q.Get("hospital"); raw != "" {
		hospitalID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid hospital ID")
			return
		}
		req.Hospital = &hospitalID
	}
	if req.Limit, req.Offset, err = queryPaging(r); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctors, err := h.providerUsecase.ListDoctors(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// GetProvider handles provider detail
// @Summary Get provider
// @Description Reading a doctor whose free slot has passed moves it to tomorrow
// @Tags Hospitals
// @Produce json
// @Param id path string true "Provider ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hospitals/{id} [get]
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	provider, err := h.providerUsecase.GetProvider(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get provider")
		return
	}

	response.Success(w, http.StatusOK, "Provider retrieved successfully", provider)
}

func (h *ProviderHandler) GetTimings(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	timings, err := h.providerUsecase.GetTimings(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get timings")
		return
	}

	response.Success(w, http.StatusOK, "Timings retrieved successfully", timings)
}

// UpdateTimings replaces the whole weekly map. A missing day is unset, null is closed.
func (h *ProviderHandler) UpdateTimings(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	var timings entity.WeekTimings
	if err := json.NewDecoder(r.Body).Decode(&timings); err != nil {
		if errors.Is(err, entity.ErrInvalidTimingDay) {
			response.BadRequest(w, err.Error())
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	updated, err := h.providerUsecase.UpdateTimings(r.Context(), id, timings)
	if err != nil {
		h.writeError(w, err, "Failed to update timings")
		return
	}

	response.Success(w, http.StatusOK, "Timings updated successfully", updated)
}

func (h *ProviderHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	location, err := h.providerUsecase.UpdateLocation(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to update location")
		return
	}

	response.Success(w, http.StatusOK, "Location updated successfully", location)
}

func (h *ProviderHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	var req dto.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	provider, err := h.providerUsecase.SetApproval(r.Context(), id, *req.Approved)
	if err != nil {
		h.writeError(w, err, "Failed to update approval")
		return
	}

	response.Success(w, http.StatusOK, "Approval updated successfully", provider)
}

func (h *ProviderHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	var req dto.RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	summary, err := h.providerUsecase.AddRating(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to add rating")
		return
	}

	response.Success(w, http.StatusCreated, "Rating added successfully", summary)
}

func (h *ProviderHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCoordinates), errors.Is(err, usecase.ErrInvalidTimings):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrProviderNotFound):
		response.NotFound(w, "Provider not found")
	case errors.Is(err, usecase.ErrRatingExists):
		response.Conflict(w, "You have already rated this provider")
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "Invalid token")
	default:
		response.InternalServerError(w, fallback)
	}
}
