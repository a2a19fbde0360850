package models

import "time"

// IPActivity is an append-only log row used by the abuse guard's
// rolling-window counts. Rows older than 7 days are purged.
type IPActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IP        string    `gorm:"size:45;not null;index:idx_ip_action" json:"ip"`
	Action    string    `gorm:"size:50;not null;index:idx_ip_action" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
