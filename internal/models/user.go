package models

import (
	"time"

	"deadsignal/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // PLAYER | ADMIN
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	HuntsSolved  int            `gorm:"default:0" json:"hunts_solved"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Location *PlayerLocation `gorm:"foreignKey:UserID" json:"location,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
