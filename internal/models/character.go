package models

import "time"

type Character struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	PhotoURL       string    `gorm:"size:500" json:"photo_url,omitempty"`
	Role           string    `gorm:"size:100" json:"role,omitempty"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	VisibleToTeams bool      `gorm:"not null;default:true" json:"visible_to_teams"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
