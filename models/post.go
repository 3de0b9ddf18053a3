package models

// Post is one daily progress update. XPEarned records what the engine
// credited at publish time so history survives future award tuning.
type Post struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID   string `gorm:"index;not null" json:"user_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	XPEarned int64  `json:"xp_earned" gorm:"default:0"`

	Timestamps
}
