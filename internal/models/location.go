package models

import (
	"time"

	"deadsignal/pkg/location"

	"gorm.io/gorm"
)

// PlayerLocation stores the player's last accepted GPS fix and compass heading.
type PlayerLocation struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Latitude       float64        `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude      float64        `gorm:"type:decimal(11,8);not null" json:"longitude"`
	AccuracyMeters float64        `gorm:"type:decimal(8,2)" json:"accuracy_meters"`
	Heading        float64        `gorm:"type:decimal(6,2)" json:"heading"`
	LastUpdatedAt  time.Time      `gorm:"not null;index" json:"last_updated_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PlayerLocation) TableName() string {
	return "player_locations"
}

func (l *PlayerLocation) Position() location.GeoPosition {
	return location.GeoPosition{
		Lat:       l.Latitude,
		Lng:       l.Longitude,
		Accuracy:  l.AccuracyMeters,
		Timestamp: l.LastUpdatedAt,
	}
}
