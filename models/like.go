package models

import "time"

type Like struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_like_user_post;not null" json:"user_id"`
	PostID    string    `gorm:"uniqueIndex:idx_like_user_post;index;not null" json:"post_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
