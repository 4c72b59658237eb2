package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Severity tags a specialty with the urgency of conditions it treats
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Specialty carries cached counts of associated hospitals and doctors
type Specialty struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	Severity      Severity  `gorm:"type:varchar(10);not null;index" json:"severity"`
	HospitalCount int       `gorm:"not null;default:0" json:"hospital_count"`
	DoctorCount   int       `gorm:"not null;default:0" json:"doctor_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Specialty) TableName() string {
	return "specialties"
}

// SpecialtySummary is the projection embedded in ranked provider rows
type SpecialtySummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SpecialtySummaries scans the jsonb array aggregated by the ranking query
type SpecialtySummaries []SpecialtySummary

func (s SpecialtySummaries) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SpecialtySummaries) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = SpecialtySummaries{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SpecialtySummaries", value)
	}

	var out SpecialtySummaries
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = SpecialtySummaries{}
	}
	*s = out
	return nil
}

// SpecialtyRanking is a specialty with live provider counts
type SpecialtyRanking struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Severity      Severity `json:"severity"`
	HospitalCount int64    `json:"hospital_count"`
	DoctorCount   int64    `json:"doctor_count"`
}

func (r SpecialtyRanking) Total() int64 {
	return r.HospitalCount + r.DoctorCount
}
