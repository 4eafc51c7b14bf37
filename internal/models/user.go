// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
}

// UserProfile serializes a user with their posts, keeping the key when the list is empty.
type UserProfile struct {
	*User
	Posts []Post `json:"posts"`
}

// NewUserProfile wraps user for serialization.
func NewUserProfile(user *User) UserProfile {
	posts := user.Posts
	if posts == nil {
		posts = []Post{}
	}
	return UserProfile{User: user, Posts: posts}
}
