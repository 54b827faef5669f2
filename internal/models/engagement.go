package models

import (
	"time"

	"gorm.io/gorm"
)

// Like records a user's like on a post.
// The combination of UserID and PostID must be unique; a duplicate like is a
// no-op, not an error.
type Like struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint           `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

// SavedPost bookmarks a local post for a user. Saving the same post twice
// leaves exactly one record.
type SavedPost struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;uniqueIndex:idx_saved_user_post" json:"user_id"`
	PostID  uint      `gorm:"not null;uniqueIndex:idx_saved_user_post" json:"post_id"`
	SavedAt time.Time `gorm:"autoCreateTime" json:"saved_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

// Favorite bookmarks an external news article from the syndication feed.
// External articles carry no natural dedup key, so creation is an
// unconditional append.
type Favorite struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	Title    string    `gorm:"size:500;not null" json:"title"`
	Link     string    `gorm:"not null" json:"link"`
	ImageURL string    `json:"image_url"`
	Source   string    `gorm:"size:200" json:"source"`
	SavedAt  time.Time `gorm:"autoCreateTime" json:"saved_at"`
}

// SavedArticle stores a fuller snapshot of an external article for later
// reading.
type SavedArticle struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:500;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	URL         string    `gorm:"not null" json:"url"`
	ImageURL    string    `json:"image_url"`
	SourceName  string    `gorm:"size:200" json:"source_name"`
	SavedAt     time.Time `gorm:"autoCreateTime" json:"saved_at"`
}

// Subscriber is a newsletter signup. Email is unique; re-subscribing the
// same address is a no-op.
type Subscriber struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`
}
