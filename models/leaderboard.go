package models

import "time"

// LeaderboardSnapshot is a denormalized ranking row rebuilt periodically by
// the scheduler so leaderboard reads never scan user_profiles.
type LeaderboardSnapshot struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Facet     string    `gorm:"uniqueIndex:idx_lb_facet_user;index;not null" json:"facet"` // core, season, community
	UserID    string    `gorm:"uniqueIndex:idx_lb_facet_user;not null" json:"user_id"`
	Rank      int       `gorm:"index" json:"rank"`
	XP        int64     `json:"xp"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
