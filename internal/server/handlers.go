package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plateworks/plate-redact/internal/jobs"
)

// allowedContentTypes lists the upload MIME types the pipeline can decode.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/bmp":  true,
}

// handleProcess accepts a multipart image upload and queues it for
// detection and redaction. Responds 202 with the process id; the actual
// work happens in the background.
func (s *Server) handleProcess(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	if header.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded image is empty"})
		return
	}
	if header.Size > s.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "uploaded image exceeds the size limit",
		})
		return
	}

	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if !allowedContentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unsupported image type, expected JPEG, PNG or BMP",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Printf("failed to open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.MaxUploadBytes+1))
	if err != nil {
		log.Printf("failed to read upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded image"})
		return
	}
	if int64(len(data)) > s.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "uploaded image exceeds the size limit",
		})
		return
	}

	id := s.coordinator.Submit(data)

	c.JSON(http.StatusAccepted, gin.H{
		"processId": id,
		"status":    jobs.StatusProcessing,
		"message":   "image accepted for processing",
	})
}

// handleStatus returns the current result for a process id. While the job
// is running the result carries PROCESSING; once terminal it carries the
// full detection and redaction payload.
func (s *Server) handleStatus(c *gin.Context) {
	job, err := s.coordinator.Status(c.Param("id"))
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "process not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not look up process"})
		return
	}

	c.JSON(http.StatusOK, job.Result)
}

// handleClear removes a finished (or running) job from the cache. Clearing
// an unknown id succeeds; the outcome is the same either way.
func (s *Server) handleClear(c *gin.Context) {
	id := c.Param("id")
	s.coordinator.Clear(id)

	c.JSON(http.StatusOK, gin.H{
		"processId": id,
		"message":   "process cleared",
	})
}

// handleHealth reports service liveness and the current result cache size.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"service":   serviceName,
		"timestamp": time.Now().Format(time.RFC3339),
		"cacheSize": s.coordinator.CacheSize(),
	})
}
