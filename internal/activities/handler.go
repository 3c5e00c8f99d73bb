package activities

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mergington/internal/auth"
	"mergington/internal/httperr"
)

// Handler handles HTTP requests for activities
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new activities handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// ListActivities handles GET /activities?category=&q=
func (h *Handler) ListActivities(c *gin.Context) {
	var filter Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httperr.Write(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.service.List(filter))
}

// ListCategories handles GET /activities/categories
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Categories())
}

// RequireActivity answers 404 for unknown activity names. It runs ahead of
// the auth guard so a missing activity is reported regardless of auth state.
func (h *Handler) RequireActivity(c *gin.Context) {
	if !h.service.Exists(c.Param("name")) {
		httperr.Abort(c, http.StatusNotFound, httperr.CodeNotFound, "Activity not found")
		return
	}
	c.Next()
}

// Signup handles POST /activities/:name/signup?email=
func (h *Handler) Signup(c *gin.Context) {
	name := c.Param("name")

	var req RosterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.Write(c, http.StatusBadRequest, httperr.CodeInvalidRequest, "email query parameter is required")
		return
	}
	actor, _ := auth.CurrentUser(c)

	if err := h.service.Signup(c.Request.Context(), name, req.Email, actor); err != nil {
		h.writeRosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", req.Email, name),
	})
}

// Unregister handles DELETE /activities/:name/unregister?email=
func (h *Handler) Unregister(c *gin.Context) {
	name := c.Param("name")

	var req RosterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.Write(c, http.StatusBadRequest, httperr.CodeInvalidRequest, "email query parameter is required")
		return
	}
	actor, _ := auth.CurrentUser(c)

	if err := h.service.Unregister(c.Request.Context(), name, req.Email, actor); err != nil {
		h.writeRosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", req.Email, name),
	})
}

func (h *Handler) writeRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		httperr.Write(c, http.StatusNotFound, httperr.CodeNotFound, "Activity not found")
	case errors.Is(err, ErrAlreadySignedUp):
		httperr.Write(c, http.StatusBadRequest, httperr.CodeConflict, "Student is already signed up")
	case errors.Is(err, ErrNotSignedUp):
		httperr.Write(c, http.StatusBadRequest, httperr.CodeConflict, "Student is not signed up for this activity")
	case errors.Is(err, ErrActivityFull):
		httperr.Write(c, http.StatusBadRequest, httperr.CodeConflict, "Activity is full")
	default:
		h.logger.Error("Roster change failed", "activity", c.Param("name"), "error", err)
		httperr.Write(c, http.StatusInternalServerError, httperr.CodeInternal, "failed to update roster")
	}
}
