package models

import (
	"time"
)

type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// VoteIdentity identifies a voter. UserID wins whenever present; IP and Email
// only matter for anonymous voters.
type VoteIdentity struct {
	UserID *uint
	IP     string
	Email  *string
}

// CommentVote holds one live vote per identity. Exactly one identity key is
// set: UserID for logged-in voters, (VoterIP, VoterEmail) or VoterIP alone for
// anonymous ones. The unique indexes are defense-in-depth; the toggle protocol
// in the comment service is what actually keeps votes single.
type CommentVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CommentID  uint      `gorm:"not null;index;uniqueIndex:idx_vote_user;uniqueIndex:idx_vote_anon" json:"comment_id"`
	UserID     *uint     `gorm:"uniqueIndex:idx_vote_user" json:"user_id"`
	VoterIP    *string   `gorm:"size:45;uniqueIndex:idx_vote_anon" json:"-"`
	VoterEmail *string   `gorm:"size:255;uniqueIndex:idx_vote_anon" json:"-"`
	VoteType   VoteType  `gorm:"size:10;not null" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
}
