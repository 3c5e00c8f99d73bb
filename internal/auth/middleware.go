package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mergington/internal/httperr"
)

// ContextUsernameKey is the gin context key holding the authenticated username
const ContextUsernameKey = "username"

// TokenFromRequest returns the session token from the Authorization header.
// The raw token is expected; a "Bearer " scheme prefix is tolerated.
func TokenFromRequest(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// RequireAuth rejects requests without a valid session token and injects the
// username into the gin context
func RequireAuth(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Not authenticated")
			return
		}

		username, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUsernameKey, username)
		c.Next()
	}
}

// CurrentUser returns the username set by RequireAuth
func CurrentUser(c *gin.Context) (string, bool) {
	username := c.GetString(ContextUsernameKey)
	return username, username != ""
}
