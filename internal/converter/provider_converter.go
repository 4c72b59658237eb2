package converter

import (
	"time"

	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/geo"
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func specialtySummaries(summaries entity.SpecialtySummaries) []dto.SpecialtySummaryResponse {
	out := make([]dto.SpecialtySummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = dto.SpecialtySummaryResponse{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	return out
}

func RankedProviderToResponse(row entity.RankedProvider) dto.RankedProviderResponse {
	return dto.RankedProviderResponse{
		ID:              row.ID,
		Role:            row.Role,
		ParentID:        row.ParentID,
		Name:            row.Name,
		Email:           row.Email,
		Phone:           row.Phone,
		Address:         row.Address,
		Latitude:        row.Latitude,
		Longitude:       row.Longitude,
		DoctorCount:     row.DoctorCount,
		LiveDoctorCount: row.LiveDoctorCount,
		Severity: dto.SeverityCountsResponse{
			Low:    row.LowSeverity,
			Medium: row.MediumSeverity,
			High:   row.HighSeverity,
		},
		MaxAppointments: row.MaxAppointments,
		FreeSlotDate:    formatDate(row.FreeSlotDate),
		Emergency:       row.Emergency,
		Approved:        row.Approved,
		Distance:        row.Distance,
		Specialties:     specialtySummaries(row.Specialties),
	}
}

func RankedProvidersToResponses(rows []entity.RankedProvider) []dto.RankedProviderResponse {
	responses := make([]dto.RankedProviderResponse, len(rows))
	for i, row := range rows {
		responses[i] = RankedProviderToResponse(row)
	}
	return responses
}

// ProviderToResponse converts a Provider entity; Specialties are included when loaded
func ProviderToResponse(p *entity.Provider) *dto.ProviderResponse {
	if p == nil {
		return nil
	}

	specialties := make([]dto.SpecialtySummaryResponse, len(p.Specialties))
	for i, s := range p.Specialties {
		specialties[i] = dto.SpecialtySummaryResponse{ID: s.ID, Name: s.Name, Description: s.Description}
	}

	return &dto.ProviderResponse{
		ID:          p.ID,
		Role:        p.Role,
		ParentID:    p.ParentID,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		DoctorCount: p.DoctorCount,
		Severity: dto.SeverityCountsResponse{
			Low:    p.LowSeverity,
			Medium: p.MediumSeverity,
			High:   p.HighSeverity,
		},
		MaxAppointments: p.MaxAppointments,
		FreeSlotDate:    formatDate(p.FreeSlotDate),
		Emergency:       p.Emergency,
		Approved:        p.Approved,
		Specialties:     specialties,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ProviderToDetailResponse(p *entity.Provider, liveDoctorCount int64, rating *entity.RatingSummary) *dto.ProviderDetailResponse {
	if p == nil {
		return nil
	}
	detail := &dto.ProviderDetailResponse{
		ProviderResponse: *ProviderToResponse(p),
		LiveDoctorCount:  liveDoctorCount,
		Timings:          p.Timings,
		TimingsSummary:   p.Timings.Summary(),
	}
	if rating != nil {
		detail.Rating = *rating
	}
	return detail
}

func TimingsToResponse(p *entity.Provider) *dto.TimingsResponse {
	return &dto.TimingsResponse{
		ProviderID: p.ID,
		Timings:    p.Timings,
		Summary:    p.Timings.Summary(),
	}
}

func LocationToResponse(p *entity.Provider, coord geo.Coordinate) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        p.ID,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		Point:     coord.EWKT(),
	}
}
