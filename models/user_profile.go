package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile is the gated-community profile plus the denormalized
// gamification state the progression engine reads and writes.
type UserProfile struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"` // links to auth service

	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Name     string  `gorm:"not null" json:"name"`
	Bio      *string `json:"bio,omitempty"`
	City     *string `json:"city,omitempty"`
	Country  *string `gorm:"index" json:"country,omitempty"`

	BuilderIntent *string `json:"builder_intent,omitempty"`
	WebsiteURL    *string `json:"website_url,omitempty"`
	LinkedinURL   *string `json:"linkedin_url,omitempty"`
	TwitterURL    *string `json:"twitter_url,omitempty"`
	ProfileImage  *string `gorm:"type:text" json:"profile_image,omitempty"`
	BannerImage   *string `gorm:"type:text" json:"banner_image,omitempty"`

	// Core progression (level is redundant with XP but persisted for reads;
	// invariant: Level == XP/100 + 1 after every update)
	XP                 int64      `json:"xp" gorm:"default:0"`
	Level              int        `json:"level" gorm:"default:1"`
	Streak             int        `json:"streak" gorm:"default:0"`
	LastPostDate       *time.Time `gorm:"type:date" json:"last_post_date,omitempty"`
	FirstPostCompleted bool       `json:"first_post_completed" gorm:"default:false"`

	// XP facets for the leaderboard tabs; social actions credit these
	CoreXP       int64 `json:"core_xp" gorm:"default:0"`
	EraXP        int64 `json:"era_xp" gorm:"default:0"`
	SeasonXP     int64 `json:"season_xp" gorm:"default:0"`
	CommunityXP  int64 `json:"community_xp" gorm:"default:0"`
	ReputationXP int64 `json:"reputation_xp" gorm:"default:0"`

	OnboardingCompleted bool `json:"onboarding_completed" gorm:"default:false"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
