package handlers

import (
	"strconv"

	"tinta/internal/apperrors"
	"tinta/internal/middleware"
	"tinta/internal/models"

	"github.com/gin-gonic/gin"
)

// renderError translates a service error into the JSON error envelope. The
// status comes from the error kind; internal detail never reaches the client.
func renderError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.UserMessage(err)})
}

// paramID parses the :id path segment. Zero means it was missing or garbage.
func paramID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// mustUser returns the session user on routes behind AuthRequired.
func mustUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}
