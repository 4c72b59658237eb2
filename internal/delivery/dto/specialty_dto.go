package dto

import "go-hospital-directory/internal/domain/entity"

type CreateSpecialtyRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Severity    string `json:"severity" validate:"required,oneof=low medium high"`
}

type SpecialtyResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Severity      entity.Severity `json:"severity"`
	HospitalCount int             `json:"hospital_count"`
	DoctorCount   int             `json:"doctor_count"`
}

// TopSpecialtyResponse carries live provider counts
type TopSpecialtyResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Severity      entity.Severity `json:"severity"`
	HospitalCount int64           `json:"hospital_count"`
	DoctorCount   int64           `json:"doctor_count"`
	Total         int64           `json:"total"`
}
