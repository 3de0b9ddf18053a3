package models

// Comment supports one level of threading via ParentID (replies to replies
// attach to the root comment client-side).
type Comment struct {
	ID       string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PostID   string  `gorm:"index;not null" json:"post_id"`
	UserID   string  `gorm:"index;not null" json:"user_id"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	ParentID *string `gorm:"index" json:"parent_id,omitempty"`

	Timestamps
}
