package handlers

import (
	"net/http"
	"strings"

	"tinta/internal/apperrors"
	"tinta/internal/middleware"
	"tinta/internal/models"
	"tinta/internal/repository"
	"tinta/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users repository.UserRepository
}

func NewAuthHandler(users repository.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		renderError(c, apperrors.Validation("nombre, email y contraseña (mínimo 8 caracteres) son requeridos"))
		return
	}

	existing, err := h.users.GetByEmail(req.Email)
	if err != nil {
		renderError(c, err)
		return
	}
	if existing != nil {
		renderError(c, apperrors.Validation("el email ya está registrado"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	user := &models.User{Name: req.Name, Email: req.Email, Password: hash, Role: "user"}
	if err := h.users.Create(user); err != nil {
		renderError(c, err)
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}

	user, err := h.users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		renderError(c, err)
		return
	}
	// Same message for unknown email and wrong password.
	if user == nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		renderError(c, apperrors.Auth("credenciales inválidas"))
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada"})
}

// Me returns the session user, or null for anonymous visitors.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		// Session failure leaves the account intact; the client can retry login.
		renderError(c, apperrors.Wrap(apperrors.KindUnknown, "no se pudo iniciar la sesión", err))
	}
}
