package models

import "time"

type Team struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Score        int       `gorm:"not null;default:0" json:"score"`
	Avatar       string    `gorm:"size:100" json:"avatar"`
	Color        string    `gorm:"size:7;default:''" json:"color"`
	CaptainName  string    `gorm:"size:100" json:"captain_name"`
	Clues        []Clue    `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"clues,omitempty"`
	Badges       []Badge   `gorm:"many2many:team_badges;constraint:OnDelete:CASCADE" json:"badges,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
