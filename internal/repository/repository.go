package repository

import (
	"time"

	"tinta/internal/models"
)

// Repositories are the only code that talks to the store. Services depend on
// these interfaces so the moderation and agent pipelines can be tested against
// in-memory fakes.

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id uint) error
	List(filter CommentFilter) ([]models.Comment, error)
	CountApprovedByUser(userID uint) (int64, error)
	// AdjustVotes applies counter deltas atomically, clamped at zero.
	AdjustVotes(id uint, upDelta, downDelta int) error
}

// CommentFilter narrows admin/public comment listings. Nil fields are ignored.
type CommentFilter struct {
	PostID   *uint
	Approved *bool
}

type VoteRepository interface {
	// FindByIdentity resolves the live vote for one identity tuple, or nil.
	FindByIdentity(commentID uint, identity models.VoteIdentity) (*models.CommentVote, error)
	Create(vote *models.CommentVote) error
	UpdateType(id uint, voteType models.VoteType) error
	Delete(id uint) error
}

type SubmissionRepository interface {
	CountByIPSince(ip string, since time.Time) (int64, error)
	CountByEmailSince(email string, since time.Time) (int64, error)
	CountByPostIPSince(postID uint, ip string, since time.Time) (int64, error)
	HashExistsForIPSince(hash, ip string, since time.Time) (bool, error)
	HashExistsForEmailSince(hash, email string, since time.Time) (bool, error)
	Record(sub *models.CommentSubmission) error
	// PruneBefore drops ledger rows older than t. Best effort.
	PruneBefore(t time.Time) error
}

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	Update(post *models.Post) error
	Delete(id uint) error
	List(publishedOnly bool) ([]models.Post, error)
}

type AgentRepository interface {
	Create(agent *models.AIAgent) error
	GetByID(id uint) (*models.AIAgent, error)
	Update(agent *models.AIAgent) error
	Delete(id uint) error
	List(enabledOnly bool) ([]models.AIAgent, error)
}

type ExecutionRepository interface {
	Create(exec *models.AIExecution) error
	ListByAgent(agentID uint, limit int) ([]models.AIExecution, error)
}

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

type NotificationRepository interface {
	Create(n *models.Notification) error
	ListByUser(userID uint, limit int) ([]models.Notification, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
	Delete(id, userID uint) error
}
