package services

import (
	"log"
	"time"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

const activityRetention = 7 * 24 * time.Hour

// AbuseGuard counts durable per-IP actions over a rolling window, across
// all connections sharing that IP. Unlike the in-process rate limiter it
// survives restarts.
type AbuseGuard struct {
	db *gorm.DB
}

func NewAbuseGuard(db *gorm.DB) *AbuseGuard {
	return &AbuseGuard{db: db}
}

// CheckLimit reports whether the IP is still under maxAllowed actions in
// the trailing window. If the count query itself fails the guard fails
// open: this is a secondary defense layer and availability wins.
func (g *AbuseGuard) CheckLimit(ip, action string, maxAllowed int, windowHours int) bool {
	since := time.Now().Add(-time.Duration(windowHours) * time.Hour)

	var count int64
	err := g.db.Model(&models.IPActivity{}).
		Where("ip = ? AND action = ? AND created_at > ?", ip, action, since).
		Count(&count).Error
	if err != nil {
		log.Printf("abuse: count query failed, allowing %s/%s: %v", ip, action, err)
		return true
	}

	if count >= int64(maxAllowed) {
		log.Printf("abuse: limit reached for %s/%s (%d in %dh)", ip, action, count, windowHours)
		return false
	}
	return true
}

// RecordActivity appends one log row. Call only after the guarded
// operation fully succeeded.
func (g *AbuseGuard) RecordActivity(ip, action string) {
	row := models.IPActivity{IP: ip, Action: action, CreatedAt: time.Now()}
	if err := g.db.Create(&row).Error; err != nil {
		log.Printf("abuse: record failed for %s/%s: %v", ip, action, err)
	}
}

// Run purges rows older than the retention window every hour until stop
// is closed.
func (g *AbuseGuard) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.purge()
		}
	}
}

func (g *AbuseGuard) purge() {
	cutoff := time.Now().Add(-activityRetention)
	res := g.db.Where("created_at < ?", cutoff).Delete(&models.IPActivity{})
	if res.Error != nil {
		log.Printf("abuse: purge failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("abuse: purged %d stale activity rows", res.RowsAffected)
	}
}
