package models

import (
	"time"

	"deadsignal/internal/domain"
	"deadsignal/pkg/location"

	"gorm.io/gorm"
)

// Hunt is one player's search for one hidden ghost.
type Hunt struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Code                 string         `gorm:"uniqueIndex;size:36;not null" json:"code"`
	UserID               uint           `gorm:"not null;index" json:"user_id"`
	GhostTypeID          uint           `gorm:"not null;index" json:"-"`
	GhostLatitude        float64        `gorm:"type:decimal(10,8);not null" json:"-"`
	GhostLongitude       float64        `gorm:"type:decimal(11,8);not null" json:"-"`
	Status               string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE, SOLVED, ABANDONED
	ActiveUserID         *uint          `gorm:"uniqueIndex" json:"-"`                 // = UserID while ACTIVE, NULL once closed
	SpiritBoxLockedSince *time.Time     `json:"-"`
	StartedAt            time.Time      `gorm:"not null" json:"started_at"`
	EndedAt              *time.Time     `json:"ended_at"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	EvidenceCount int64 `gorm:"-" json:"evidence_count,omitempty"`

	GhostType GhostType  `gorm:"foreignKey:GhostTypeID" json:"-"`
	Evidence  []Evidence `gorm:"foreignKey:HuntID" json:"evidence,omitempty"`
}

func (Hunt) TableName() string {
	return "hunts"
}

func (h *Hunt) IsActive() bool { return h.Status == domain.HuntStatusActive }

func (h *Hunt) GhostPosition() location.GeoPosition {
	return location.GeoPosition{Lat: h.GhostLatitude, Lng: h.GhostLongitude}
}
