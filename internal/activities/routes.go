package activities

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the activity endpoints; guard protects roster changes
func (h *Handler) RegisterRoutes(r gin.IRouter, guard gin.HandlerFunc) {
	r.GET("/activities", h.ListActivities)            // GET /activities?category=&q=
	r.GET("/activities/categories", h.ListCategories) // GET /activities/categories

	roster := r.Group("/activities/:name")
	roster.Use(h.RequireActivity, guard)
	{
		roster.POST("/signup", h.Signup)           // POST /activities/:name/signup?email=
		roster.DELETE("/unregister", h.Unregister) // DELETE /activities/:name/unregister?email=
	}
}
