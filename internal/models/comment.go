package models

import (
	"time"
)

type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	Post        Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	ParentID    *uint     `gorm:"index" json:"parent_id"` // nullable for top-level comments
	UserID      *uint     `gorm:"index" json:"user_id"`   // set when the visitor was logged in
	Content     string    `gorm:"type:text;not null" json:"content"`
	AuthorName  string    `gorm:"size:120;not null" json:"author_name"`
	AuthorEmail string    `gorm:"size:255;not null" json:"author_email"`
	IsAnonymous bool      `gorm:"default:false" json:"is_anonymous"`
	Approved    bool      `gorm:"default:false;index" json:"approved"`
	SpamScore   int       `gorm:"default:0" json:"spam_score"` // kept for the moderation queue
	IPAddress   string    `gorm:"size:45" json:"-"`
	UserAgent   string    `gorm:"size:255" json:"-"`
	Upvotes     int       `gorm:"default:0" json:"upvotes"`
	Downvotes   int       `gorm:"default:0" json:"downvotes"`
	CreatedAt   time.Time `json:"created_at"`
}
