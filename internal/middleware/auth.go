package middleware

import (
	"net/http"

	"tinta/internal/models"
	"tinta/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const UserKey = "user"

// LoadUser resolves the session user, if any, and puts it on the context.
// Never aborts; anonymous requests continue with no user set.
func LoadUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if id, ok := userID.(uint); ok {
			if user, err := users.GetByID(id); err == nil && user != nil {
				c.Set(UserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the session user set by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(UserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// AuthRequired rejects requests with no session user. LoadUser must run first.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "debes iniciar sesión"})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects requests whose session user is not an admin.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "debes iniciar sesión"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "se requieren permisos de administrador"})
			return
		}
		c.Next()
	}
}
