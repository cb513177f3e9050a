package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tinta/internal/apperrors"
	"tinta/internal/middleware"
	"tinta/internal/models"
	"tinta/internal/repository"
	"tinta/internal/services"
	"tinta/internal/utils"

	"github.com/gin-gonic/gin"
)

// Short TTL: vote counter changes ride it out instead of invalidating.
const commentCacheTTL = time.Minute

type CommentHandler struct {
	comments *services.CommentService
	cache    *utils.Cache
}

func NewCommentHandler(comments *services.CommentService, cache *utils.Cache) *CommentHandler {
	return &CommentHandler{comments: comments, cache: cache}
}

type commentRequest struct {
	PostID      uint   `json:"post_id"`
	Content     string `json:"content"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Website     string `json:"website"` // honeypot, hidden in the form
	ParentID    *uint  `json:"parent_id"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// Create accepts a public comment submission.
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}

	comment, err := h.comments.Submit(services.CommentInput{
		PostID:      req.PostID,
		Content:     req.Content,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Website:     req.Website,
		ParentID:    req.ParentID,
		IsAnonymous: req.IsAnonymous,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		User:        middleware.CurrentUser(c),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	status := http.StatusCreated
	message := "Comentario publicado"
	if comment.Approved {
		h.cache.Delete(commentCacheKey(comment.PostID))
	} else {
		message = "Comentario enviado, pendiente de moderación"
	}
	c.JSON(status, gin.H{"comment": comment, "message": message})
}

// ListByPost returns the approved comments of one post, cached until the next
// mutation touching the post.
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID := paramID(c, "id")
	if postID == 0 {
		renderError(c, apperrors.Validation("id de post inválido"))
		return
	}

	cacheKey := commentCacheKey(postID)
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, gin.H{"comments": cached})
		return
	}

	approved := true
	comments, err := h.comments.List(repository.CommentFilter{PostID: &postID, Approved: &approved})
	if err != nil {
		renderError(c, err)
		return
	}
	h.cache.Set(cacheKey, comments, commentCacheTTL)
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func commentCacheKey(postID uint) string {
	return fmt.Sprintf("comments:post:%d", postID)
}

// Queue returns the admin moderation queue. ?approved=true flips to the
// already-approved listing.
func (h *CommentHandler) Queue(c *gin.Context) {
	approved := c.Query("approved") == "true"
	filter := repository.CommentFilter{Approved: &approved}
	if postIDStr := c.Query("post_id"); postIDStr != "" {
		if id, err := strconv.ParseUint(postIDStr, 10, 32); err == nil {
			postID := uint(id)
			filter.PostID = &postID
		}
	}
	comments, err := h.comments.List(filter)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *CommentHandler) Approve(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de comentario inválido"))
		return
	}
	comment, err := h.comments.Approve(id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.cache.Delete(commentCacheKey(comment.PostID))
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Update(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de comentario inválido"))
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}
	comment, err := h.comments.UpdateContent(id, req.Content)
	if err != nil {
		renderError(c, err)
		return
	}
	h.cache.Delete(commentCacheKey(comment.PostID))
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de comentario inválido"))
		return
	}
	removed, err := h.comments.Delete(id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.cache.Delete(commentCacheKey(removed.PostID))
	c.JSON(http.StatusOK, gin.H{"message": "Comentario eliminado"})
}

// Vote toggles an up/down vote. Identity comes from the session when logged
// in, otherwise from the client IP plus an optional email.
func (h *CommentHandler) Vote(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de comentario inválido"))
		return
	}
	var req struct {
		VoteType models.VoteType `json:"vote_type"`
		Email    string          `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}

	result, err := h.comments.Vote(id, req.VoteType, h.voterIdentity(c, req.Email))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetVote reports the caller's current vote on a comment, if any.
func (h *CommentHandler) GetVote(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de comentario inválido"))
		return
	}
	voteType, err := h.comments.GetVote(id, h.voterIdentity(c, c.Query("email")))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vote_type": voteType})
}

func (h *CommentHandler) voterIdentity(c *gin.Context, email string) models.VoteIdentity {
	identity := models.VoteIdentity{IP: c.ClientIP()}
	if user := middleware.CurrentUser(c); user != nil {
		identity.UserID = &user.ID
	} else if email != "" {
		identity.Email = &email
	}
	return identity
}
