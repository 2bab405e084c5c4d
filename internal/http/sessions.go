package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SessionsController exposes the import session history.
type SessionsController struct {
	store SessionStore
}

// NewSessionsController creates a new SessionsController.
func NewSessionsController(store SessionStore) *SessionsController {
	return &SessionsController{store: store}
}

// ListSessions handles GET /api/imports/sessions
// Supports "page" and "limit" query parameters.
func (controller *SessionsController) ListSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := (page - 1) * limit

	sessions, total, err := controller.store.List(limit, offset)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
