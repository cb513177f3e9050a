package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tinta/internal/mocks"
	"tinta/internal/models"
	"tinta/internal/services"
	"tinta/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func testRouter(t *testing.T) (*gin.Engine, *mocks.PostRepo, *mocks.CommentRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	comments := mocks.NewCommentRepo()
	posts := mocks.NewPostRepo()
	log := zerolog.Nop()
	guard := services.NewGuardService(mocks.NewSubmissionRepo(), log)
	spam := services.NewSpamService([]string{"viagra", "casino"})
	notify := services.NewNotifyService(mocks.NewNotificationRepo(), mocks.NewUserRepo(), nil, log)
	svc := services.NewCommentService(comments, mocks.NewVoteRepo(), posts, guard, spam, notify, log)

	cache, err := utils.NewCache(16)
	if err != nil {
		t.Fatal(err)
	}
	h := NewCommentHandler(svc, cache)
	r := gin.New()
	r.POST("/api/comments", h.Create)
	r.POST("/api/comments/:id/vote", h.Vote)
	return r, posts, comments
}

func seedPost(t *testing.T, posts *mocks.PostRepo) *models.Post {
	t.Helper()
	post := &models.Post{Slug: "hola", AuthorID: 1, Title: "Hola", Published: true}
	if err := posts.Create(post); err != nil {
		t.Fatal(err)
	}
	return post
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCommentEndpoint(t *testing.T) {
	r, posts, comments := testRouter(t)
	seedPost(t, posts)

	w := postJSON(r, "/api/comments",
		`{"post_id":1,"content":"Un comentario razonable sobre el artículo.","author_name":"Ana","author_email":"ana@example.com"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Comment models.Comment `json:"comment"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Comment.Approved {
		t.Error("guest comment must be queued, not approved")
	}
	if resp.Message != "Comentario enviado, pendiente de moderación" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(comments.Comments) != 1 {
		t.Fatalf("expected one stored comment, got %d", len(comments.Comments))
	}
	// Transport details must not serialize.
	if strings.Contains(w.Body.String(), "user_agent") || strings.Contains(w.Body.String(), "ip_address") {
		t.Error("ip or user agent leaked into the response")
	}
}

func TestCreateCommentHoneypotEndpoint(t *testing.T) {
	r, posts, comments := testRouter(t)
	seedPost(t, posts)

	w := postJSON(r, "/api/comments",
		`{"post_id":1,"content":"Contenido cualquiera del robot.","author_name":"Bot","author_email":"bot@example.com","website":"http://spam.example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(comments.Comments) != 0 {
		t.Error("honeypot submission persisted")
	}
}

func TestCreateCommentSpamStatus(t *testing.T) {
	r, posts, _ := testRouter(t)
	seedPost(t, posts)

	w := postJSON(r, "/api/comments",
		`{"post_id":1,"content":"compra viagra en el casino ya","author_name":"X","author_email":"x@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for spam, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Comentario rechazado") {
		t.Errorf("expected rejection reasons in body: %s", w.Body.String())
	}
}

func TestVoteEndpoint(t *testing.T) {
	r, posts, comments := testRouter(t)
	post := seedPost(t, posts)
	comment := &models.Comment{PostID: post.ID, Content: "c", AuthorName: "a", AuthorEmail: "a@b.c", Approved: true}
	comments.Create(comment)

	w := postJSON(r, "/api/comments/1/vote", `{"vote_type":"upvote"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result services.VoteResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Action != "created" {
		t.Errorf("expected created, got %+v", result)
	}

	// Same vote from the same client toggles off.
	w = postJSON(r, "/api/comments/1/vote", `{"vote_type":"upvote"}`)
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Action != "removed" {
		t.Errorf("expected removed, got %+v", result)
	}
}

func TestVoteEndpointRejectsBadType(t *testing.T) {
	r, posts, comments := testRouter(t)
	post := seedPost(t, posts)
	comment := &models.Comment{PostID: post.ID, Content: "c", AuthorName: "a", AuthorEmail: "a@b.c", Approved: true}
	comments.Create(comment)

	w := postJSON(r, "/api/comments/1/vote", `{"vote_type":"sideways"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
