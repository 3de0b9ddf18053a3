package models

import "time"

// WaitlistEntry gates the community: signups land here and an admin flips
// IsApproved before the account can be created.
type WaitlistEntry struct {
	ID                 string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name               string  `gorm:"not null" json:"name"`
	Email              string  `gorm:"uniqueIndex;not null" json:"email"`
	WhatsappPhone      string  `gorm:"not null" json:"whatsapp_phone"`
	ProjectDescription string  `gorm:"type:text;not null" json:"project_description"`
	Role               string  `gorm:"not null" json:"role"`
	LinkedinURL        string  `gorm:"not null" json:"linkedin_url"`
	TwitterURL         *string `json:"twitter_url,omitempty"`
	WebsiteURL         *string `json:"website_url,omitempty"`

	IsApproved bool      `json:"is_approved" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
