package models

import (
	"time"
)

// CommentSubmission is the append-only ledger the rate limiter and the
// duplicate check read. Rows older than the longest observation window are
// dead weight and get pruned lazily.
type CommentSubmission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IPAddress   string    `gorm:"size:45;not null;index" json:"ip_address"`
	Email       *string   `gorm:"size:255;index" json:"email"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	ContentHash string    `gorm:"size:64;not null;index" json:"content_hash"` // sha256 of normalized content
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
