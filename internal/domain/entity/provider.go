package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderRole discriminates root hospitals from the doctors attached to them
type ProviderRole string

const (
	ProviderRoleHospital ProviderRole = "Hospital"
	ProviderRoleDoctor   ProviderRole = "Doctor"
)

func (r ProviderRole) IsValid() bool {
	return r == ProviderRoleHospital || r == ProviderRoleDoctor
}

// Provider is a hospital or a doctor. Doctors always carry ParentID of a hospital.
//
// The PostGIS point column (location) is not mapped here; it is written by the
// repository in the same statement as Latitude/Longitude.
type Provider struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Role            ProviderRole    `gorm:"type:varchar(20);not null;index" json:"role"`
	ParentID        *uuid.UUID      `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name            string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Email           string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Password        string          `gorm:"type:text;not null" json:"-"`
	Address         string          `gorm:"type:text" json:"address,omitempty"`
	Latitude        decimal.Decimal `gorm:"type:decimal(10,7);not null" json:"latitude"`
	Longitude       decimal.Decimal `gorm:"type:decimal(10,7);not null" json:"longitude"`
	DoctorCount     int             `gorm:"not null;default:0" json:"doctor_count"`
	LowSeverity     int             `gorm:"not null;default:0" json:"low_severity"`
	MediumSeverity  int             `gorm:"not null;default:0" json:"medium_severity"`
	HighSeverity    int             `gorm:"not null;default:0" json:"high_severity"`
	MaxAppointments int             `gorm:"not null;default:0" json:"max_appointments"`
	FreeSlotDate    *time.Time      `gorm:"type:date;index" json:"free_slot_date,omitempty"`
	Timings         WeekTimings     `gorm:"type:jsonb;not null;default:'{}'" json:"timings"`
	Emergency       bool            `gorm:"not null;default:false;index" json:"emergency"`
	Approved        bool            `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Parent      *Provider   `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Specialties []Specialty `gorm:"many2many:provider_specialties;" json:"specialties,omitempty"`
	Documents   []Document  `gorm:"foreignKey:ProviderID" json:"documents,omitempty"`
}

func (Provider) TableName() string {
	return "providers"
}

func (p *Provider) IsHospital() bool {
	return p.Role == ProviderRoleHospital && p.ParentID == nil
}

func (p *Provider) IsDoctor() bool {
	return p.Role == ProviderRoleDoctor
}

// FreeSlotLapsed reports whether the next free slot is before the given day.
func (p *Provider) FreeSlotLapsed(today time.Time) bool {
	return p.FreeSlotDate != nil && p.FreeSlotDate.Before(today)
}

// SeverityCounts is a delta applied to a provider's severity counters
type SeverityCounts struct {
	Low    int
	Medium int
	High   int
}

func (c SeverityCounts) IsZero() bool {
	return c.Low == 0 && c.Medium == 0 && c.High == 0
}

func (c SeverityCounts) Negate() SeverityCounts {
	return SeverityCounts{Low: -c.Low, Medium: -c.Medium, High: -c.High}
}

// CountSeverities tallies the severity tags of a specialty set.
func CountSeverities(specialties []Specialty) SeverityCounts {
	var counts SeverityCounts
	for _, s := range specialties {
		switch s.Severity {
		case SeverityLow:
			counts.Low++
		case SeverityMedium:
			counts.Medium++
		case SeverityHigh:
			counts.High++
		}
	}
	return counts
}

// Document is an uploaded registration document reference
type Document struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	Kind       string    `gorm:"type:varchar(50);not null" json:"kind"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Document) TableName() string {
	return "documents"
}
