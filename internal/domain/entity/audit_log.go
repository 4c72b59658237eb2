package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is a trail entry for directory mutations
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

const (
	AuditActionUserRegister      = "user.register"
	AuditActionProviderRegister  = "provider.register"
	AuditActionProviderDelete    = "provider.delete"
	AuditActionProviderLocation  = "provider.location"
	AuditActionProviderTimings   = "provider.timings"
	AuditActionProviderApproval  = "provider.approval"
	AuditActionCountsReconcile   = "provider.reconcile"
	AuditActionSpecialtyCreate   = "specialty.create"
	AuditActionAppointmentBook   = "appointment.book"
	AuditActionAppointmentCancel = "appointment.cancel"
	AuditActionAppointmentStatus = "appointment.status"
)

// AuditLogFilter narrows audit log listings
type AuditLogFilter struct {
	Action string
	Limit  int
	Offset int
}
