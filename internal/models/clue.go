package models

import "time"

type Clue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;index" json:"team_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Timestamp string    `gorm:"size:20" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// GeneralClue is an admin-authored clue visible to every team, distinct
// from a team's own clue list.
type GeneralClue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Timestamp string    `gorm:"size:20" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}
