package api

import (
	"net/http"
	"strconv"

	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service *service.SessionService
}

func NewSessionHandler(service *service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return models.DefaultSessionLimit
	}
	return limit
}

// GetUserSessions handles GET /me/sessions?limit=
func (h *SessionHandler) GetUserSessions(c *gin.Context) {
	respondOK(c, h.service.GetUserSessions(c.Request.Context(), limitParam(c)))
}

// GetRecentSessions handles GET /sessions/recent?limit=
func (h *SessionHandler) GetRecentSessions(c *gin.Context) {
	respondOK(c, h.service.GetRecentSessions(c.Request.Context(), limitParam(c)))
}

// AddToSessionHistory handles POST /companions/:id/sessions
func (h *SessionHandler) AddToSessionHistory(c *gin.Context) {
	respond(c, http.StatusCreated, h.service.AddToSessionHistory(c.Request.Context(), c.Param("id")))
}

// RegisterRoutes registers session routes on the versioned group.
func (h *SessionHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/me/sessions", h.GetUserSessions)
	v1.GET("/sessions/recent", h.GetRecentSessions)
	v1.POST("/companions/:id/sessions", h.AddToSessionHistory)
}
