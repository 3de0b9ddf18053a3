package models

import (
	"time"
)

// BadgeType: static config (seeded at startup)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "FIRST_POST", "STREAK_7"
	Name        string `gorm:"not null"`             // "Day One", "Week Streak"
	Description string
	Icon        string    `gorm:"type:text"`                         // emoji or R2 URL
	Rarity      string    `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// UserBadge: awarded instance (many-to-many)
type UserBadge struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID      string    `gorm:"index;not null"`
	BadgeTypeID string    `gorm:"index;not null"`
	EarnedAt    time.Time `gorm:"autoCreateTime"`
	Metadata    string    `gorm:"type:jsonb"` // e.g., {"post_id": "...", "streak": 7}
}

// Badge trigger codes checked after every progression update. The engine's
// milestone predicate maps onto these; re-grants are deduped at award time.
const (
	BadgeFirstPost = "FIRST_POST"
	BadgeStreak7   = "STREAK_7"
	BadgeXP1000    = "XP_1000"
)

// Predefined badge catalog
var BadgeCatalog = []BadgeType{
	{
		Code:        BadgeFirstPost,
		Name:        "Day One",
		Description: "Shipped your first progress update",
		Icon:        "🚀",
		Rarity:      "common",
	},
	{
		Code:        BadgeStreak7,
		Name:        "Week Streak",
		Description: "Posted 7 days in a row",
		Icon:        "🔥",
		Rarity:      "rare",
	},
	{
		Code:        BadgeXP1000,
		Name:        "Four Digits",
		Description: "Reached 1000 XP",
		Icon:        "💎",
		Rarity:      "epic",
	},
}
