// Package httperr writes the service's structured error bodies.
package httperr

import "github.com/gin-gonic/gin"

// Error codes carried in the "error" field
const (
	CodeUnauthorized   = "unauthorized"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInvalidRequest = "invalid_request"
	CodeInternal       = "internal_error"
)

// Response is the body of every non-2xx answer
type Response struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Write sends an error body without stopping the handler chain
func Write(c *gin.Context, status int, code, detail string) {
	c.JSON(status, Response{Error: code, Detail: detail})
}

// Abort sends an error body and stops the remaining handlers
func Abort(c *gin.Context, status int, code, detail string) {
	c.AbortWithStatusJSON(status, Response{Error: code, Detail: detail})
}
