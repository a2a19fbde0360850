package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nickname     string    `gorm:"size:100;uniqueIndex;not null" json:"nickname"`
	PhotoURL     string    `gorm:"size:500" json:"photo_url,omitempty"`
	Online       bool      `gorm:"not null;default:false" json:"online"`
	TeamID       *uint     `gorm:"index" json:"team_id,omitempty"`
	IsCaptain    bool      `gorm:"not null;default:false" json:"is_captain"`
	ConnectionID string    `gorm:"size:64;default:''" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
