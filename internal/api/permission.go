package api

import (
	"companion-app/frontend/internal/service"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	service *service.PermissionService
}

func NewPermissionHandler(service *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// CheckCompanionCreation handles GET /me/permissions/companions
func (h *PermissionHandler) CheckCompanionCreation(c *gin.Context) {
	respondOK(c, h.service.CheckCompanionCreationPermissions(c.Request.Context()))
}

// NewCompanion handles GET /me/permissions/companions/new
func (h *PermissionHandler) NewCompanion(c *gin.Context) {
	respondOK(c, h.service.NewCompanionPermissions(c.Request.Context()))
}

// RegisterRoutes registers permission routes on the versioned group.
func (h *PermissionHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/me/permissions/companions", h.CheckCompanionCreation)
	v1.GET("/me/permissions/companions/new", h.NewCompanion)
}
