package server

import (
	"github.com/gin-gonic/gin"

	"github.com/plateworks/plate-redact/internal/jobs"
)

// DefaultMaxUploadMB caps uploaded image size when no limit is configured.
const DefaultMaxUploadMB = 10

// serviceName identifies this service in health responses.
const serviceName = "license-plate-privacy"

// Server wires the job coordinator to the HTTP API.
type Server struct {
	coordinator *jobs.Coordinator

	// MaxUploadBytes is the largest accepted image upload.
	MaxUploadBytes int64
}

// New returns a Server backed by the given coordinator. maxUploadMB
// bounds upload size in megabytes; zero or negative selects the default.
func New(coordinator *jobs.Coordinator, maxUploadMB int) *Server {
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadMB
	}
	return &Server{
		coordinator:    coordinator,
		MaxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	lp := r.Group("/license-plate")
	{
		lp.POST("/process", s.handleProcess)
		lp.GET("/status/:id", s.handleStatus)
		lp.DELETE("/clear/:id", s.handleClear)
		lp.GET("/health", s.handleHealth)
	}

	return r
}

// Run starts the HTTP server on the given port (e.g. "8080").
func (s *Server) Run(port string) error {
	return s.Router().Run(":" + port)
}
