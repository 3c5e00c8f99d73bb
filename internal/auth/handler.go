package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mergington/internal/httperr"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new authentication handler
func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the /auth endpoints on r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	group := r.Group("/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/logout", h.Logout)
		group.GET("/status", h.Status)
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Write(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err.Error())
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httperr.Write(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Invalid username or password")
			return
		}
		h.logger.Error("Login failed", "username", req.Username, "error", err)
		httperr.Write(c, http.StatusInternalServerError, httperr.CodeInternal, "failed to create session")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		Username: req.Username,
	})
}

// Logout handles POST /auth/logout. It always succeeds.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), TokenFromRequest(c)); err != nil {
		h.logger.Warn("Failed to delete session", "error", err)
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Status handles GET /auth/status
func (h *Handler) Status(c *gin.Context) {
	token := TokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusOK, StatusResponse{Authenticated: false})
		return
	}

	username, err := h.service.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Authenticated: true,
		Username:      username,
	})
}
