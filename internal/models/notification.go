package models

import "time"

// Notification is a per-user message about something that happened to their
// content, e.g. "Your comment was approved". Target references and extra
// metadata are optional; ExtraData holds free-form JSON.
type Notification struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Verb            string    `gorm:"size:200;not null" json:"verb"`
	Read            bool      `gorm:"not null;default:false" json:"read"`
	TargetPostID    *uint     `json:"target_post_id,omitempty"`
	TargetCommentID *uint     `json:"target_comment_id,omitempty"`
	ExtraData       string    `gorm:"type:text" json:"extra_data,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
