package models

import "time"

// JournalistRequest statuses. Approval and rejection are both terminal.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// JournalistRequest is an application to join the Journalists group,
// created at registration time. An account may hold at most one pending
// request; while it is pending the account cannot complete login.
type JournalistRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Status    string    `gorm:"not null;default:pending;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
