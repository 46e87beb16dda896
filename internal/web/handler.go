// Package web serves the server-rendered pages.
package web

import (
	"bytes"
	"net/http"
	"strings"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/service"
	"companion-app/frontend/internal/web/views"
	apperrors "companion-app/frontend/pkg/errors"
	"companion-app/frontend/pkg/logger"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	signInPath  = "/sign-in"

	homePopularLimit = 3
	homeRecentLimit  = 10
	journeyLimit     = 10
)

// Services are the operations the pages are composed from.
type Services struct {
	Companions  *service.CompanionService
	Sessions    *service.SessionService
	Bookmarks   *service.BookmarkService
	Permissions *service.PermissionService
}

// Handler renders the pages and handles their form posts.
type Handler struct {
	svc      Services
	fallback FallbackPolicy
	pageSize int
}

// NewHandler creates the page handler. pageSize is the library page size.
func NewHandler(svc Services, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = models.DefaultPageLimit
	}
	return &Handler{svc: svc, fallback: DefaultFallback, pageSize: pageSize}
}

// RegisterRoutes mounts the pages on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/companions", h.Library)
	r.GET("/companions/new", h.NewCompanion)
	r.POST("/companions", h.CreateCompanion)
	r.GET("/companions/:id", h.Companion)
	r.POST("/companions/:id/bookmark", h.AddBookmark)
	r.POST("/companions/:id/unbookmark", h.RemoveBookmark)
	r.POST("/companions/:id/sessions", h.StartSession)
	r.GET("/my-journey", h.MyJourney)
}

func viewerOf(c *gin.Context) views.Viewer {
	id := identity.FromContext(c.Request.Context())
	return views.Viewer{SignedIn: id.Authenticated(), UserID: id.UserID}
}

// render writes a full page. Pages carrying toasts are never cached.
func (h *Handler) render(c *gin.Context, status int, title string, toasts []views.Toast, body templ.Component) {
	if flash, err := c.Cookie(flashCookie); err == nil && flash != "" {
		toasts = append(toasts, views.Toast{Level: h.fallback.ToastLevel, Message: flash})
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	if len(toasts) > 0 {
		c.Set(noStoreKey, true)
	}

	var buf bytes.Buffer
	if err := views.Layout(title, viewerOf(c), toasts, body).Render(c.Request.Context(), &buf); err != nil {
		logger.FromGin(c).LogError(err, "Failed to render page", "title", title)
		c.Error(apperrors.NewInternalServerError("RENDER_FAILED", "Failed to render page"))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) renderMessage(c *gin.Context, kind apperrors.Kind, message string) {
	heading := "Something went wrong"
	if kind == apperrors.KindNotFound {
		heading = "Not found"
	}
	h.render(c, kind.StatusCode(), heading, nil, views.MessagePage(heading, message))
}

func appendToast(toasts []views.Toast, t *views.Toast) []views.Toast {
	if t == nil {
		return toasts
	}
	return append(toasts, *t)
}

// Home shows popular companions and recent sessions.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	var toasts []views.Toast

	popular, toast := List(h.fallback, h.svc.Companions.GetAllCompanions(ctx, models.ListCompanionsParams{Limit: homePopularLimit}), "Failed to load companions")
	toasts = appendToast(toasts, toast)

	recent, toast := List(h.fallback, h.svc.Sessions.GetRecentSessions(ctx, homeRecentLimit), "Failed to load recent sessions")
	toasts = appendToast(toasts, toast)

	h.render(c, http.StatusOK, "Home", toasts, views.HomePage(views.HomeData{
		Popular: popular,
		Recent:  recent,
		ColorOf: SubjectColor,
	}))
}

// Library shows the searchable catalog.
func (h *Handler) Library(c *gin.Context) {
	var params models.ListCompanionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		params = models.ListCompanionsParams{}
	}
	params.Limit = h.pageSize
	params = params.Normalized(h.pageSize)

	companions, toast := List(h.fallback, h.svc.Companions.GetAllCompanions(c.Request.Context(), params), "Failed to load companions")
	h.render(c, http.StatusOK, "Companion Library", appendToast(nil, toast), views.LibraryPage(views.LibraryData{
		Companions: companions,
		Params:     params,
		Subjects:   Subjects,
		ColorOf:    SubjectColor,
		HasNext:    len(companions) == params.Limit,
	}))
}

// Companion shows one companion.
func (h *Handler) Companion(c *gin.Context) {
	res := h.svc.Companions.GetCompanion(c.Request.Context(), c.Param("id"))
	if !res.Success {
		h.renderMessage(c, res.Kind, res.Message)
		return
	}
	h.render(c, http.StatusOK, res.Data.Name, nil,
		views.CompanionPage(*res.Data, SubjectColor(res.Data.Subject), viewerOf(c).SignedIn))
}

// gate runs the creation permission check and renders the outcome when
// creation is not allowed. It reports whether the handler may continue.
func (h *Handler) gate(c *gin.Context) bool {
	res := h.svc.Permissions.NewCompanionPermissions(c.Request.Context())
	switch {
	case res.Success:
		return true
	case res.Is(apperrors.KindAuthRequired):
		c.Redirect(http.StatusSeeOther, signInPath)
	case res.Is(apperrors.KindForbidden):
		h.render(c, http.StatusForbidden, "Companion limit", nil, views.LimitReachedPage(res.Message))
	default:
		h.renderMessage(c, res.Kind, res.Message)
	}
	return false
}

// NewCompanion shows the companion builder when the plan allows another.
func (h *Handler) NewCompanion(c *gin.Context) {
	if !h.gate(c) {
		return
	}
	h.render(c, http.StatusOK, "New Companion", nil,
		views.NewCompanionPage(views.CompanionForm{}, Subjects, Voices, Styles))
}

// CreateCompanion handles the builder form.
func (h *Handler) CreateCompanion(c *gin.Context) {
	if !h.gate(c) {
		return
	}

	var req models.CreateCompanionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "New Companion", nil,
			views.NewCompanionPage(views.CompanionForm{Request: req, Error: "Invalid companion details."}, Subjects, Voices, Styles))
		return
	}

	res := h.svc.Companions.CreateCompanion(c.Request.Context(), req)
	if !res.Success {
		h.render(c, res.Kind.StatusCode(), "New Companion", nil,
			views.NewCompanionPage(views.CompanionForm{Request: req, Error: res.Message}, Subjects, Voices, Styles))
		return
	}
	c.Redirect(http.StatusSeeOther, "/companions/"+res.Data.ID)
}

// MyJourney shows the caller's companions, sessions and bookmarks.
func (h *Handler) MyJourney(c *gin.Context) {
	caller := identity.FromContext(c.Request.Context())
	if !caller.Authenticated() {
		c.Redirect(http.StatusSeeOther, signInPath)
		return
	}
	ctx := c.Request.Context()
	var toasts []views.Toast

	created, toast := List(h.fallback, h.svc.Companions.GetUserCompanions(ctx), "Failed to load your companions")
	toasts = appendToast(toasts, toast)
	sessions, toast := List(h.fallback, h.svc.Sessions.GetUserSessions(ctx, journeyLimit), "Failed to load your sessions")
	toasts = appendToast(toasts, toast)
	bookmarked, toast := List(h.fallback, h.svc.Bookmarks.GetBookmarkedCompanions(ctx), "Failed to load bookmarks")
	toasts = appendToast(toasts, toast)

	h.render(c, http.StatusOK, "My Journey", toasts, views.JourneyPage(views.JourneyData{
		UserID:     caller.UserID,
		Created:    created,
		Sessions:   sessions,
		Bookmarked: bookmarked,
		ColorOf:    SubjectColor,
	}))
}

// returnPath reads the path form value, accepting only local paths.
func returnPath(c *gin.Context, fallback string) string {
	path := c.PostForm("path")
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return fallback
	}
	return path
}

// redirectAfter sends the caller back to path, carrying a failure message
// in the flash cookie.
func redirectAfter(c *gin.Context, ok bool, kind apperrors.Kind, message, path string) {
	if !ok {
		if kind == apperrors.KindAuthRequired {
			c.Redirect(http.StatusSeeOther, signInPath)
			return
		}
		c.SetCookie(flashCookie, message, 60, "/", "", false, true)
	}
	c.Redirect(http.StatusSeeOther, path)
}

// AddBookmark handles the bookmark form.
func (h *Handler) AddBookmark(c *gin.Context) {
	path := returnPath(c, "/companions")
	res := h.svc.Bookmarks.AddBookmark(c.Request.Context(), c.Param("id"), path)
	redirectAfter(c, res.Success, res.Kind, res.Message, path)
}

// RemoveBookmark handles the unbookmark form.
func (h *Handler) RemoveBookmark(c *gin.Context) {
	path := returnPath(c, "/companions")
	res := h.svc.Bookmarks.RemoveBookmark(c.Request.Context(), c.Param("id"), path)
	redirectAfter(c, res.Success, res.Kind, res.Message, path)
}

// StartSession records a session and returns to the companion page.
func (h *Handler) StartSession(c *gin.Context) {
	id := c.Param("id")
	path := returnPath(c, "/companions/"+id)
	res := h.svc.Sessions.AddToSessionHistory(c.Request.Context(), id)
	redirectAfter(c, res.Success, res.Kind, res.Message, path)
}
