package models

import (
	"time"

	"gorm.io/gorm"
)

// Evidence is a logged tool reading worth keeping for the hunt journal.
type Evidence struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	HuntID         uint           `gorm:"not null;index;uniqueIndex:idx_evidence_hunt_kind_value" json:"hunt_id"`
	Kind           string         `gorm:"size:20;not null;uniqueIndex:idx_evidence_hunt_kind_value" json:"kind"` // EMF_5, COLD_READING, PHOTO, SPIRIT_BOX
	Value          string         `gorm:"size:128;uniqueIndex:idx_evidence_hunt_kind_value" json:"value"`
	DistanceMeters float64        `json:"distance_meters"`
	Bearing        float64        `json:"bearing"`
	PhotoURL       string         `gorm:"size:512" json:"photo_url,omitempty"`
	CapturedAt     time.Time      `gorm:"not null" json:"captured_at"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Evidence) TableName() string {
	return "evidence"
}

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Resource  string    `gorm:"size:100;index" json:"resource"`
	IP        string    `gorm:"size:45" json:"ip"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
