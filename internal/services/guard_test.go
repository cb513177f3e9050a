package services

import (
	"testing"
	"time"

	"tinta/internal/apperrors"
	"tinta/internal/mocks"
	"tinta/internal/models"

	"github.com/rs/zerolog"
)

func testGuard() (*GuardService, *mocks.SubmissionRepo) {
	repo := mocks.NewSubmissionRepo()
	return NewGuardService(repo, zerolog.Nop()), repo
}

func recordN(repo *mocks.SubmissionRepo, n int, ip string, email *string, postID uint, hash string) {
	for i := 0; i < n; i++ {
		repo.Record(&models.CommentSubmission{
			IPAddress:   ip,
			Email:       email,
			PostID:      postID,
			ContentHash: hash,
			CreatedAt:   time.Now(),
		})
	}
}

func TestCheckRateLimitPerIP(t *testing.T) {
	guard, repo := testGuard()

	// Five prior submissions from distinct posts keep the per-post counter calm.
	for i := 0; i < 5; i++ {
		recordN(repo, 1, "1.2.3.4", nil, uint(100+i), "h")
	}

	err := guard.CheckRateLimit("1.2.3.4", nil, 999)
	if apperrors.KindOf(err) != apperrors.KindRateLimited {
		t.Fatalf("expected rate limited, got %v", err)
	}

	// A different IP is unaffected.
	if err := guard.CheckRateLimit("5.6.7.8", nil, 999); err != nil {
		t.Fatalf("unexpected error for fresh ip: %v", err)
	}
}

func TestCheckRateLimitPerEmail(t *testing.T) {
	guard, repo := testGuard()
	email := "spammer@example.com"

	for i := 0; i < 3; i++ {
		recordN(repo, 1, "9.9.9.9", &email, uint(200+i), "h")
	}

	// Fourth submission with the same email from a new IP still trips.
	err := guard.CheckRateLimit("8.8.8.8", &email, 999)
	if apperrors.KindOf(err) != apperrors.KindRateLimited {
		t.Fatalf("expected rate limited by email, got %v", err)
	}

	// The new IP without the email passes: nothing counts against it.
	if err := guard.CheckRateLimit("8.8.8.8", nil, 999); err != nil {
		t.Fatalf("unexpected error without email: %v", err)
	}
}

func TestCheckRateLimitPerPost(t *testing.T) {
	guard, repo := testGuard()

	recordN(repo, 2, "1.2.3.4", nil, 42, "h")

	err := guard.CheckRateLimit("1.2.3.4", nil, 42)
	if apperrors.KindOf(err) != apperrors.KindRateLimited {
		t.Fatalf("expected per-post rate limit, got %v", err)
	}

	// Another post from the same IP is still allowed.
	if err := guard.CheckRateLimit("1.2.3.4", nil, 43); err != nil {
		t.Fatalf("unexpected error for different post: %v", err)
	}
}

func TestCheckRateLimitIgnoresOldRows(t *testing.T) {
	guard, repo := testGuard()

	for i := 0; i < 5; i++ {
		repo.Record(&models.CommentSubmission{
			IPAddress:   "1.2.3.4",
			PostID:      uint(100 + i),
			ContentHash: "h",
			CreatedAt:   time.Now().Add(-2 * time.Hour),
		})
	}

	if err := guard.CheckRateLimit("1.2.3.4", nil, 999); err != nil {
		t.Fatalf("submissions outside the window must not count: %v", err)
	}
}

func TestCheckDuplicate(t *testing.T) {
	guard, _ := testGuard()
	content := "Este comentario es único y tiene suficiente longitud."
	email := "dup@example.com"

	guard.RecordSubmission("1.2.3.4", &email, 1, content)

	// Same content from the same IP.
	err := guard.CheckDuplicate(content, "1.2.3.4", nil)
	if apperrors.KindOf(err) != apperrors.KindSpamRejected {
		t.Fatalf("expected duplicate rejection by ip, got %v", err)
	}

	// Same content, new IP, same email.
	err = guard.CheckDuplicate(content, "5.6.7.8", &email)
	if apperrors.KindOf(err) != apperrors.KindSpamRejected {
		t.Fatalf("expected duplicate rejection by email, got %v", err)
	}

	// Same content, new IP, no email: passes.
	if err := guard.CheckDuplicate(content, "5.6.7.8", nil); err != nil {
		t.Fatalf("unexpected error for fresh identity: %v", err)
	}
}

func TestCheckDuplicateNormalizesContent(t *testing.T) {
	guard, _ := testGuard()

	guard.RecordSubmission("1.2.3.4", nil, 1, "Hola Mundo Comentario")

	// Case and surrounding whitespace do not make it a new comment.
	err := guard.CheckDuplicate("  hola mundo comentario  ", "1.2.3.4", nil)
	if apperrors.KindOf(err) != apperrors.KindSpamRejected {
		t.Fatalf("expected normalized duplicate to be rejected, got %v", err)
	}
}

func TestRecordSubmissionPrunesOldRows(t *testing.T) {
	guard, repo := testGuard()

	repo.Record(&models.CommentSubmission{
		IPAddress:   "1.2.3.4",
		PostID:      1,
		ContentHash: "old",
		CreatedAt:   time.Now().Add(-3 * time.Hour),
	})

	guard.RecordSubmission("1.2.3.4", nil, 2, "contenido nuevo del comentario")

	if len(repo.Submissions) != 1 {
		t.Fatalf("expected stale row pruned, have %d rows", len(repo.Submissions))
	}
	if repo.Submissions[0].PostID != 2 {
		t.Errorf("surviving row should be the fresh one")
	}
}
