package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mergington/internal/activities"
	"mergington/internal/auth"
	"mergington/internal/httperr"
	"mergington/internal/middleware"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Activities int    `json:"activities"`
	Sessions   int    `json:"sessions"`
}

// RegisterRoutes builds the gin engine serving the whole API
func (s *Server) RegisterRoutes() http.Handler {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(s.logger),
		gin.CustomRecovery(s.recoverPanic),
		middleware.CORS(s.cfg.CORSAllowedOrigins),
	)

	r.GET("/", s.rootHandler)
	r.Static("/static", s.cfg.StaticDir)
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth.NewHandler(s.auth, s.logger).RegisterRoutes(r)
	activities.NewHandler(s.activities, s.logger).RegisterRoutes(r, auth.RequireAuth(s.auth))

	r.NoRoute(func(c *gin.Context) {
		httperr.Write(c, http.StatusNotFound, httperr.CodeNotFound, "Not found")
	})

	return r
}

func (s *Server) rootHandler(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/static/")
}

func (s *Server) healthHandler(c *gin.Context) {
	sessions, err := s.sessions.Count(c.Request.Context())
	if err != nil {
		s.logger.Warn("Failed to count sessions", "error", err)
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     "healthy",
		Service:    s.cfg.ServiceName,
		Activities: s.activities.Count(),
		Sessions:   sessions,
	})
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error("Recovered from panic",
		"request_id", c.GetString(middleware.ContextRequestIDKey),
		"path", c.Request.URL.Path,
		"panic", recovered)
	httperr.Abort(c, http.StatusInternalServerError, httperr.CodeInternal, "internal server error")
}
