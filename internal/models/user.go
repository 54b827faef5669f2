// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// JournalistsGroup is the group whose members may author posts.
const JournalistsGroup = "Journalists"

// User represents an account in the Sabuzz application.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	IsSuperuser bool           `gorm:"not null;default:false" json:"is_superuser"`
	Groups      []Group        `gorm:"many2many:user_groups" json:"groups,omitempty"`
	Profile     *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName returns "First Last" when set, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// InGroup reports whether the user belongs to the named group.
// Groups must have been preloaded.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// Group is a named role group users can belong to.
type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// Profile roles.
const (
	RoleReader     = "reader"
	RoleJournalist = "journalist"
	RoleAdmin      = "admin"
)

// Profile holds per-account display and subscription state. Exactly one
// Profile exists per User; it is created in the same transaction as the
// account.
type Profile struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName      string     `json:"display_name"`
	Role             string     `gorm:"not null;default:reader" json:"role"`
	ProfileImage     string     `json:"profile_image"`
	IsSubscribed     bool       `gorm:"not null;default:false" json:"is_subscribed"`
	SubscriptionDate *time.Time `json:"subscription_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
