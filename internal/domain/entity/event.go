package entity

import (
	"time"

	"github.com/google/uuid"
)

// Directory event types published to the message bus
const (
	EventProviderRegistered = "provider.registered"
	EventProviderDeleted    = "provider.deleted"
	EventProviderRelocated  = "provider.relocated"
	EventProviderApproval   = "provider.approval"
	EventAppointmentBooked  = "appointment.booked"
	EventAppointmentStatus  = "appointment.status"
	EventCountersReconciled = "provider.counters_reconciled"
)

// DomainEvent is the envelope written to the event topic
type DomainEvent struct {
	Type       string                 `json:"type"`
	EntityID   string                 `json:"entity_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

func NewProviderEvent(eventType string, p *Provider) DomainEvent {
	payload := map[string]interface{}{
		"role": p.Role,
		"name": p.Name,
	}
	if p.ParentID != nil {
		payload["parent_id"] = p.ParentID.String()
	}
	return DomainEvent{
		Type:       eventType,
		EntityID:   p.ID.String(),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func NewAppointmentEvent(eventType string, a *Appointment) DomainEvent {
	return DomainEvent{
		Type:       eventType,
		EntityID:   a.ID.String(),
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"provider_id": a.ProviderID.String(),
			"patient_id":  a.PatientID.String(),
			"status":      a.Status,
			"date":        a.ScheduledDate.Format("2006-01-02"),
		},
	}
}

// EventKey partitions events by entity
func (e DomainEvent) EventKey() []byte {
	if e.EntityID == "" {
		return []byte(uuid.Nil.String())
	}
	return []byte(e.EntityID)
}
