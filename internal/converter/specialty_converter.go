package converter

import (
	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/domain/entity"
)

func SpecialtyToResponse(s *entity.Specialty) *dto.SpecialtyResponse {
	if s == nil {
		return nil
	}
	return &dto.SpecialtyResponse{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Severity:      s.Severity,
		HospitalCount: s.HospitalCount,
		DoctorCount:   s.DoctorCount,
	}
}

func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	responses := make([]dto.SpecialtyResponse, len(specialties))
	for i := range specialties {
		responses[i] = *SpecialtyToResponse(&specialties[i])
	}
	return responses
}

func SpecialtyRankingsToResponses(rows []entity.SpecialtyRanking) []dto.TopSpecialtyResponse {
	responses := make([]dto.TopSpecialtyResponse, len(rows))
	for i, r := range rows {
		responses[i] = dto.TopSpecialtyResponse{
			ID:            r.ID,
			Name:          r.Name,
			Description:   r.Description,
			Severity:      r.Severity,
			HospitalCount: r.HospitalCount,
			DoctorCount:   r.DoctorCount,
			Total:         r.Total(),
		}
	}
	return responses
}
