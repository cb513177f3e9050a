package handlers

import (
	"net/http"
	"strings"
	"time"

	"tinta/internal/apperrors"
	"tinta/internal/models"
	"tinta/internal/repository"
	"tinta/internal/services"
	"tinta/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	excerptLength = 300
	postCacheTTL  = 5 * time.Minute
)

type PostHandler struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	llm      *services.LLMClient
	cache    *utils.Cache
}

func NewPostHandler(posts repository.PostRepository, comments repository.CommentRepository, llm *services.LLMClient, cache *utils.Cache) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, llm: llm, cache: cache}
}

type postRequest struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	Published bool   `json:"published"`
}

// List returns published posts. The cached copy serves the public index.
func (h *PostHandler) List(c *gin.Context) {
	if cached := h.cache.Get("posts:published"); cached != nil {
		c.JSON(http.StatusOK, gin.H{"posts": cached})
		return
	}
	posts, err := h.posts.List(true)
	if err != nil {
		renderError(c, err)
		return
	}
	h.cache.Set("posts:published", posts, postCacheTTL)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Get serves one published post by slug with the markdown rendered.
func (h *PostHandler) Get(c *gin.Context) {
	slug := c.Param("slug")

	cacheKey := "post:" + slug
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	post, err := h.posts.GetBySlug(slug)
	if err != nil {
		renderError(c, err)
		return
	}
	if post == nil || !post.Published {
		renderError(c, apperrors.NotFound("el post no existe"))
		return
	}

	approved := true
	if comments, err := h.comments.List(repository.CommentFilter{PostID: &post.ID, Approved: &approved}); err == nil {
		post.CommentCount = len(comments)
	}

	payload := gin.H{
		"post": post,
		"html": utils.RenderMarkdown(post.Content),
	}
	h.cache.Set(cacheKey, payload, postCacheTTL)
	c.JSON(http.StatusOK, payload)
}

// AdminList returns every post, drafts included.
func (h *PostHandler) AdminList(c *gin.Context) {
	posts, err := h.posts.List(false)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Slug) == "" {
		renderError(c, apperrors.Validation("título y slug son requeridos"))
		return
	}

	user := mustUser(c)
	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = utils.Excerpt(req.Content, excerptLength)
	}
	post := &models.Post{
		Slug:      req.Slug,
		AuthorID:  user.ID,
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   excerpt,
		Published: req.Published,
	}
	if err := h.posts.Create(post); err != nil {
		renderError(c, err)
		return
	}
	h.invalidate(post.Slug)
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de post inválido"))
		return
	}
	post, err := h.posts.GetByID(id)
	if err != nil {
		renderError(c, err)
		return
	}
	if post == nil {
		renderError(c, apperrors.NotFound("el post no existe"))
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}

	oldSlug := post.Slug
	if req.Slug != "" {
		post.Slug = req.Slug
	}
	if req.Title != "" {
		post.Title = req.Title
	}
	post.Content = req.Content
	post.Published = req.Published
	if req.Excerpt != "" {
		post.Excerpt = req.Excerpt
	}

	if err := h.posts.Update(post); err != nil {
		renderError(c, err)
		return
	}
	h.invalidate(oldSlug)
	h.invalidate(post.Slug)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de post inválido"))
		return
	}
	post, err := h.posts.GetByID(id)
	if err != nil {
		renderError(c, err)
		return
	}
	if post == nil {
		renderError(c, apperrors.NotFound("el post no existe"))
		return
	}
	if err := h.posts.Delete(id); err != nil {
		renderError(c, err)
		return
	}
	h.invalidate(post.Slug)
	c.JSON(http.StatusOK, gin.H{"message": "Post eliminado"})
}

// GenerateExcerpt summarizes draft content into an excerpt without saving
// anything. Goes through the AI backend; falls back to a plain-text cut when
// the backend is down or unconfigured.
func (h *PostHandler) GenerateExcerpt(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		renderError(c, apperrors.Validation("el contenido no puede estar vacío"))
		return
	}

	excerpt, err := h.llm.Complete(
		"Eres un editor. Escribe un extracto atractivo de máximo 2 frases para el artículo del usuario. Responde solo con el extracto, sin comillas.",
		req.Content, "", 0, 0)
	if err != nil {
		excerpt = utils.Excerpt(req.Content, excerptLength)
	}
	c.JSON(http.StatusOK, gin.H{"excerpt": excerpt})
}

func (h *PostHandler) invalidate(slug string) {
	h.cache.Delete("posts:published")
	h.cache.Delete("post:" + slug)
}
