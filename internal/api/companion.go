package api

import (
	"net/http"

	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/result"
	"companion-app/frontend/internal/service"
	apperrors "companion-app/frontend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type CompanionHandler struct {
	service *service.CompanionService
}

func NewCompanionHandler(service *service.CompanionService) *CompanionHandler {
	return &CompanionHandler{service: service}
}

// ListCompanions handles GET /companions?limit=&page=&subject=&topic=
func (h *CompanionHandler) ListCompanions(c *gin.Context) {
	var params models.ListCompanionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondOK(c, result.Fail[[]models.Companion](apperrors.KindInvalidInput, "Invalid query parameters."))
		return
	}
	respondOK(c, h.service.GetAllCompanions(c.Request.Context(), params))
}

// CreateCompanion handles POST /companions. The service enforces the
// creation quota before the insert.
func (h *CompanionHandler) CreateCompanion(c *gin.Context) {
	var req models.CreateCompanionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondOK(c, result.Fail[*models.Companion](apperrors.KindInvalidInput, "Invalid companion details."))
		return
	}
	respond(c, http.StatusCreated, h.service.CreateCompanion(c.Request.Context(), req))
}

// GetCompanion handles GET /companions/:id
func (h *CompanionHandler) GetCompanion(c *gin.Context) {
	respondOK(c, h.service.GetCompanion(c.Request.Context(), c.Param("id")))
}

// GetUserCompanions handles GET /me/companions
func (h *CompanionHandler) GetUserCompanions(c *gin.Context) {
	respondOK(c, h.service.GetUserCompanions(c.Request.Context()))
}

// RegisterRoutes registers companion routes on the versioned group.
func (h *CompanionHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/companions", h.ListCompanions)
	v1.POST("/companions", h.CreateCompanion)
	v1.GET("/companions/:id", h.GetCompanion)
	v1.GET("/me/companions", h.GetUserCompanions)
}
