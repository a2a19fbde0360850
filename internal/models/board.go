package models

import "time"

// BoardItem is a character pinned on a team's murder board. The unique
// index closes the read-then-insert race on duplicate pins.
type BoardItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeamID      uint      `gorm:"not null;index;uniqueIndex:idx_board_team_character" json:"team_id"`
	CharacterID uint      `gorm:"not null;uniqueIndex:idx_board_team_character" json:"character_id"`
	Character   Character `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE" json:"character,omitempty"`
	X           float64   `gorm:"not null;default:0" json:"x"`
	Y           float64   `gorm:"not null;default:0" json:"y"`
	Note        string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BoardConnection is a directed edge between two of the same team's board
// items. Parallel duplicate edges are allowed.
type BoardConnection struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TeamID     uint      `gorm:"not null;index" json:"team_id"`
	FromItemID uint      `gorm:"not null" json:"from_item_id"`
	FromItem   BoardItem `gorm:"foreignKey:FromItemID;constraint:OnDelete:CASCADE" json:"-"`
	ToItemID   uint      `gorm:"not null" json:"to_item_id"`
	ToItem     BoardItem `gorm:"foreignKey:ToItemID;constraint:OnDelete:CASCADE" json:"-"`
	Note       string    `gorm:"size:500" json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
