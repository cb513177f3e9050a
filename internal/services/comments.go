package services

import (
	"fmt"
	"strings"

	"tinta/internal/apperrors"
	"tinta/internal/models"
	"tinta/internal/repository"

	"github.com/rs/zerolog"
)

const (
	// AutoApproveThreshold is the number of previously approved comments an
	// authenticated visitor needs before new ones skip the moderation queue.
	AutoApproveThreshold = 5

	maxContentLength = 5000

	// Sentinels stored instead of PII when the visitor asked to stay anonymous.
	AnonymousName  = "Anónimo"
	AnonymousEmail = "anon@tinta.local"
)

// CommentInput is one public submission, already stripped of transport details.
type CommentInput struct {
	PostID      uint
	Content     string
	AuthorName  string
	AuthorEmail string
	Website     string // honeypot: legitimate clients never fill this
	ParentID    *uint
	IsAnonymous bool
	IPAddress   string
	UserAgent   string
	User        *models.User // resolved session identity, nil for guests
}

// VoteResult reports what the toggle did: created, removed or updated.
type VoteResult struct {
	Action   string           `json:"action"`
	VoteType *models.VoteType `json:"voteType"`
}

// CommentService orchestrates the public submission pipeline, admin
// moderation and vote toggling.
type CommentService struct {
	comments repository.CommentRepository
	votes    repository.VoteRepository
	posts    repository.PostRepository
	guard    *GuardService
	spam     *SpamService
	notify   *NotifyService
	log      zerolog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	votes repository.VoteRepository,
	posts repository.PostRepository,
	guard *GuardService,
	spam *SpamService,
	notify *NotifyService,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		votes:    votes,
		posts:    posts,
		guard:    guard,
		spam:     spam,
		notify:   notify,
		log:      log,
	}
}

// Submit runs the whole public pipeline: honeypot, validation, post lookup,
// guard, heuristics, auto-approval, persistence, ledger record and the
// fire-and-forget author notification.
func (s *CommentService) Submit(input CommentInput) (*models.Comment, error) {
	// Bots fill hidden fields. The message matches an ordinary validation
	// failure so scrapers learn nothing from the response.
	if input.Website != "" {
		return nil, apperrors.Validation("comentario inválido")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperrors.Validation("el comentario no puede estar vacío")
	}
	if len([]rune(content)) > maxContentLength {
		return nil, apperrors.Validation(fmt.Sprintf("el comentario supera los %d caracteres", maxContentLength))
	}

	authorName := strings.TrimSpace(input.AuthorName)
	authorEmail := strings.TrimSpace(input.AuthorEmail)
	if input.IsAnonymous {
		authorName = AnonymousName
		authorEmail = AnonymousEmail
	} else if authorName == "" || authorEmail == "" {
		return nil, apperrors.Validation("nombre y email son requeridos")
	}

	post, err := s.posts.GetByID(input.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.NotFound("el post no existe")
	}

	if input.ParentID != nil {
		parent, err := s.comments.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, apperrors.Validation("el comentario padre no existe")
		}
	}

	// Email only counts toward the guard when it is real.
	var guardEmail *string
	if !input.IsAnonymous && authorEmail != "" {
		guardEmail = &authorEmail
	}

	if err := s.guard.CheckRateLimit(input.IPAddress, guardEmail, post.ID); err != nil {
		return nil, err
	}
	if err := s.guard.CheckDuplicate(content, input.IPAddress, guardEmail); err != nil {
		return nil, err
	}

	check := s.spam.ScoreContent(content)
	if check.IsSpam {
		s.log.Info().
			Int("score", check.Score).
			Strs("reasons", check.Reasons).
			Str("ip", input.IPAddress).
			Msg("comment rejected as spam")
		return nil, apperrors.SpamRejected("Comentario rechazado: " + strings.Join(check.Reasons, ", "))
	}

	approved := false
	var userID *uint
	if input.User != nil {
		userID = &input.User.ID
		priorApproved, err := s.comments.CountApprovedByUser(input.User.ID)
		if err != nil {
			return nil, err
		}
		approved = priorApproved >= AutoApproveThreshold
	}

	comment := &models.Comment{
		PostID:      post.ID,
		ParentID:    input.ParentID,
		UserID:      userID,
		Content:     content,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		IsAnonymous: input.IsAnonymous,
		Approved:    approved,
		SpamScore:   check.Score, // stored for audit even when it passed
		IPAddress:   input.IPAddress,
		UserAgent:   input.UserAgent,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "no se pudo guardar el comentario", err)
	}

	// Ledger entry only after the comment actually persisted.
	s.guard.RecordSubmission(input.IPAddress, guardEmail, post.ID, content)

	s.notify.NotifyAsync(models.NotificationTypeComment,
		"Nuevo comentario",
		fmt.Sprintf("%s comentó en \"%s\"", authorName, post.Title),
		post.AuthorID,
		"/posts/"+post.Slug,
		map[string]string{
			"commentId": fmt.Sprintf("%d", comment.ID),
			"postId":    fmt.Sprintf("%d", post.ID),
		})

	return comment, nil
}

// Approve marks a comment approved. Approving twice is a no-op, not an error.
func (s *CommentService) Approve(id uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperrors.NotFound("el comentario no existe")
	}
	if comment.Approved {
		return comment, nil
	}
	comment.Approved = true
	if err := s.comments.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateContent lets an admin edit the comment body in place.
func (s *CommentService) UpdateContent(id uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("el comentario no puede estar vacío")
	}

	comment, err := s.comments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperrors.NotFound("el comentario no existe")
	}
	comment.Content = content
	if err := s.comments.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete hard-deletes a comment and its votes, returning what was removed.
func (s *CommentService) Delete(id uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperrors.NotFound("el comentario no existe")
	}
	if err := s.comments.Delete(id); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns comments for the admin queue or a public post page.
func (s *CommentService) List(filter repository.CommentFilter) ([]models.Comment, error) {
	return s.comments.List(filter)
}

// Vote applies the 3-state toggle: no vote creates one, the same type removes
// it, the opposite type flips it. Counters move with the vote rows.
func (s *CommentService) Vote(commentID uint, voteType models.VoteType, identity models.VoteIdentity) (*VoteResult, error) {
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, apperrors.Validation("tipo de voto inválido")
	}

	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperrors.NotFound("el comentario no existe")
	}
	if !comment.Approved {
		return nil, apperrors.Auth("no se puede votar un comentario sin aprobar")
	}

	existing, err := s.votes.FindByIdentity(commentID, identity)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		vote := &models.CommentVote{
			CommentID: commentID,
			UserID:    identity.UserID,
			VoteType:  voteType,
		}
		if identity.UserID == nil {
			ip := identity.IP
			vote.VoterIP = &ip
			vote.VoterEmail = identity.Email
		}
		if err := s.votes.Create(vote); err != nil {
			return nil, err
		}
		if err := s.adjustCounter(commentID, voteType, 1); err != nil {
			return nil, err
		}
		return &VoteResult{Action: "created", VoteType: &voteType}, nil

	case existing.VoteType == voteType:
		// Same button again: toggle off.
		if err := s.votes.Delete(existing.ID); err != nil {
			return nil, err
		}
		if err := s.adjustCounter(commentID, voteType, -1); err != nil {
			return nil, err
		}
		return &VoteResult{Action: "removed", VoteType: nil}, nil

	default:
		if err := s.votes.UpdateType(existing.ID, voteType); err != nil {
			return nil, err
		}
		if err := s.adjustCounter(commentID, existing.VoteType, -1); err != nil {
			return nil, err
		}
		if err := s.adjustCounter(commentID, voteType, 1); err != nil {
			return nil, err
		}
		return &VoteResult{Action: "updated", VoteType: &voteType}, nil
	}
}

// GetVote returns the current vote type for an identity, or nil.
func (s *CommentService) GetVote(commentID uint, identity models.VoteIdentity) (*models.VoteType, error) {
	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperrors.NotFound("el comentario no existe")
	}

	vote, err := s.votes.FindByIdentity(commentID, identity)
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return nil, nil
	}
	return &vote.VoteType, nil
}

func (s *CommentService) adjustCounter(commentID uint, voteType models.VoteType, delta int) error {
	if voteType == models.VoteUp {
		return s.comments.AdjustVotes(commentID, delta, 0)
	}
	return s.comments.AdjustVotes(commentID, 0, delta)
}
