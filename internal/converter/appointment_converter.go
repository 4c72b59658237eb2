package converter

import (
	"time"

	"go-hospital-directory/internal/delivery/dto"
	"go-hospital-directory/internal/domain/entity"
)

func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}
	return &dto.AppointmentResponse{
		ID:            a.ID,
		PatientID:     a.PatientID,
		ProviderID:    a.ProviderID,
		ProviderName:  a.Provider.Name,
		ScheduledDate: a.ScheduledDate.Format(time.DateOnly),
		ScheduledTime: a.ScheduledTime,
		Amount:        a.Amount,
		Status:        a.Status,
		FineAmount:    a.FineAmount,
		FineReason:    a.FineReason,
		CancelledAt:   a.CancelledAt,
		CreatedAt:     a.CreatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
