package models

import (
	"time"

	"deadsignal/pkg/sensor"

	"gorm.io/gorm"
)

// GhostType is the static behaviour profile of a ghost: how it reads on each
// tool. Seeded from content data, never computed.
type GhostType struct {
	ID              uint                   `gorm:"primaryKey" json:"id"`
	Name            string                 `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description     string                 `gorm:"type:text" json:"description"`
	ThermalCategory sensor.ThermalCategory `gorm:"size:20;not null;default:'normal'" json:"thermal_category"`
	Personality     sensor.Personality     `gorm:"size:20" json:"personality"`
	SpiritKnobA     float64                `json:"-"`
	SpiritKnobB     float64                `json:"-"`
	SpiritTolerance float64                `json:"-"`
	Manifestations  []sensor.Manifestation `gorm:"serializer:json;type:text" json:"manifestations"`
	Words           sensor.WordFamily      `gorm:"serializer:json;type:text" json:"-"`
	IsActive        bool                   `gorm:"default:true;index" json:"-"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	DeletedAt       gorm.DeletedAt         `gorm:"index" json:"-"`
}

func (GhostType) TableName() string {
	return "ghost_types"
}

// SpiritBox returns the knob signature the ghost answers on.
func (g *GhostType) SpiritBox() sensor.SpiritBoxSignature {
	return sensor.SpiritBoxSignature{
		KnobA:     g.SpiritKnobA,
		KnobB:     g.SpiritKnobB,
		Tolerance: g.SpiritTolerance,
	}
}
