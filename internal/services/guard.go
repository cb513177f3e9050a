package services

import (
	"fmt"
	"time"

	"tinta/internal/apperrors"
	"tinta/internal/models"
	"tinta/internal/repository"
	"tinta/internal/utils"

	"github.com/rs/zerolog"
)

// Rate limit windows. Checks run in this order; the first one that trips
// short-circuits with its own message.
const (
	maxPerIP    = 5
	maxPerEmail = 3
	maxPerPost  = 2

	ipWindow    = 60 * time.Minute
	emailWindow = 60 * time.Minute
	postWindow  = 10 * time.Minute

	duplicateWindow = 60 * time.Minute
)

// GuardService runs the windowed rate limits and the duplicate-content check
// against the submission ledger. All checks are read-only; recording happens
// separately, after the comment actually persisted, so a failed write
// downstream does not burn the submitter's quota.
type GuardService struct {
	submissions repository.SubmissionRepository
	log         zerolog.Logger
}

func NewGuardService(submissions repository.SubmissionRepository, log zerolog.Logger) *GuardService {
	return &GuardService{submissions: submissions, log: log}
}

// CheckRateLimit enforces the three windowed counters.
func (s *GuardService) CheckRateLimit(ip string, email *string, postID uint) error {
	now := time.Now()

	ipCount, err := s.submissions.CountByIPSince(ip, now.Add(-ipWindow))
	if err != nil {
		return err
	}
	if ipCount >= maxPerIP {
		return apperrors.RateLimited(fmt.Sprintf(
			"Has excedido el límite de %d comentarios por hora desde esta IP. Por favor, intenta más tarde.", maxPerIP))
	}

	if email != nil && *email != "" {
		emailCount, err := s.submissions.CountByEmailSince(*email, now.Add(-emailWindow))
		if err != nil {
			return err
		}
		if emailCount >= maxPerEmail {
			return apperrors.RateLimited(fmt.Sprintf(
				"Has excedido el límite de %d comentarios por hora con este email. Por favor, intenta más tarde.", maxPerEmail))
		}
	}

	postCount, err := s.submissions.CountByPostIPSince(postID, ip, now.Add(-postWindow))
	if err != nil {
		return err
	}
	if postCount >= maxPerPost {
		return apperrors.RateLimited(fmt.Sprintf(
			"Has excedido el límite de %d comentarios por post cada %d minutos. Por favor, espera un momento.",
			maxPerPost, int(postWindow.Minutes())))
	}

	return nil
}

// CheckDuplicate rejects content whose normalized hash was already submitted
// by the same IP or the same email inside the window. Runs after rate
// limiting, never before.
func (s *GuardService) CheckDuplicate(content, ip string, email *string) error {
	hash := utils.ContentHash(content)
	since := time.Now().Add(-duplicateWindow)

	exists, err := s.submissions.HashExistsForIPSince(hash, ip, since)
	if err != nil {
		return err
	}
	if !exists && email != nil && *email != "" {
		exists, err = s.submissions.HashExistsForEmailSince(hash, *email, since)
		if err != nil {
			return err
		}
	}
	if exists {
		return apperrors.SpamRejected("Ya has enviado un comentario idéntico recientemente")
	}
	return nil
}

// RecordSubmission appends the ledger row for a persisted comment and lazily
// prunes rows past the longest window. Errors here are logged, not surfaced:
// the comment is already saved.
func (s *GuardService) RecordSubmission(ip string, email *string, postID uint, content string) {
	sub := &models.CommentSubmission{
		IPAddress:   ip,
		Email:       email,
		PostID:      postID,
		ContentHash: utils.ContentHash(content),
	}
	if err := s.submissions.Record(sub); err != nil {
		s.log.Error().Err(err).Str("ip", ip).Msg("failed to record comment submission")
		return
	}
	if err := s.submissions.PruneBefore(time.Now().Add(-duplicateWindow)); err != nil {
		s.log.Warn().Err(err).Msg("failed to prune submission ledger")
	}
}
