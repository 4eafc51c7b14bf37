package models

import (
	"time"
)

// Post is a blog entry owned by exactly one user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanMutate reports whether actingUserID owns the post and may update or delete it.
func CanMutate(post *Post, actingUserID uint) bool {
	if post == nil {
		return false
	}
	return post.UserID == actingUserID
}
