package api

import (
	"net/http"

	"companion-app/frontend/internal/service"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	service *service.BookmarkService
}

func NewBookmarkHandler(service *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

type bookmarkRequest struct {
	// Path is the page to revalidate after the change.
	Path string `json:"path" form:"path"`
}

func (r bookmarkRequest) path() string {
	if r.Path == "" {
		return "/"
	}
	return r.Path
}

// AddBookmark handles POST /companions/:id/bookmark
func (h *BookmarkHandler) AddBookmark(c *gin.Context) {
	var req bookmarkRequest
	_ = c.ShouldBind(&req)
	respond(c, http.StatusCreated, h.service.AddBookmark(c.Request.Context(), c.Param("id"), req.path()))
}

// RemoveBookmark handles DELETE /companions/:id/bookmark?path=
func (h *BookmarkHandler) RemoveBookmark(c *gin.Context) {
	req := bookmarkRequest{Path: c.Query("path")}
	respondOK(c, h.service.RemoveBookmark(c.Request.Context(), c.Param("id"), req.path()))
}

// GetBookmarkedCompanions handles GET /me/bookmarks
func (h *BookmarkHandler) GetBookmarkedCompanions(c *gin.Context) {
	respondOK(c, h.service.GetBookmarkedCompanions(c.Request.Context()))
}

// RegisterRoutes registers bookmark routes on the versioned group.
func (h *BookmarkHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/companions/:id/bookmark", h.AddBookmark)
	v1.DELETE("/companions/:id/bookmark", h.RemoveBookmark)
	v1.GET("/me/bookmarks", h.GetBookmarkedCompanions)
}
