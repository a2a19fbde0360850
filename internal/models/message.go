package models

import "time"

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;index" json:"team_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Nickname  string    `gorm:"size:100;not null" json:"nickname"`
	Text      string    `gorm:"size:1000;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
