package jobs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plateworks/plate-redact/internal/detection"
	"github.com/plateworks/plate-redact/internal/imaging"
	"github.com/plateworks/plate-redact/internal/redact"
)

// Status is the lifecycle state of a job. PROCESSING moves exactly
// once to one of the terminal states; terminal states are absorbing.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusError      Status = "ERROR"
)

// ErrJobNotFound is returned by Status for unknown or cleared ids.
var ErrJobNotFound = errors.New("job not found")

// Default processing budget checked before detection starts.
const DefaultTimeout = 30 * time.Second

// Result is the externally visible outcome of a job, shaped for the
// transport layer's JSON responses.
type Result struct {
	Status               Status            `json:"status"`
	ProcessID            string            `json:"processId"`
	LicensePlate         string            `json:"licensePlate,omitempty"`
	PlateFormat          detection.Format  `json:"plateFormat,omitempty"`
	Coordinates          *detection.Region `json:"coordinates,omitempty"`
	ProcessedImageBase64 string            `json:"processedImageBase64,omitempty"`
	Message              string            `json:"message,omitempty"`
	ProcessingTimeMs     int64             `json:"processingTimeMs,omitempty"`
}

// Job is one tracked unit of asynchronous work. The coordinator owns
// all jobs; identity is the id and ids are never reused.
type Job struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Result    *Result   `json:"result,omitempty"`
}

// PlateDetector is the detection capability the pipeline consumes.
type PlateDetector interface {
	Detect(img image.Image) detection.Result
}

// ArtifactStore persists originals and processed outputs as a
// best-effort side channel; failures never affect job status.
type ArtifactStore interface {
	SaveOriginal(jobID string, data []byte) (string, error)
	SaveProcessed(jobID string, data []byte, plateText string) (string, error)
}

// Config carries the coordinator's tunables. Zero values fall back to
// package defaults.
type Config struct {
	// Timeout is the soft processing budget (advisory, see package
	// docs).
	Timeout time.Duration

	// MinWidth and MinHeight reject undersized uploads at decode time.
	MinWidth  int
	MinHeight int
}

// Coordinator owns the concurrent job registry and runs the processing
// pipeline for each submission.
type Coordinator struct {
	detector PlateDetector
	redactor *redact.Redactor
	store    ArtifactStore

	timeout   time.Duration
	minWidth  int
	minHeight int

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewCoordinator builds a coordinator around the given detector and
// redactor. The artifact store may be nil to disable persistence.
func NewCoordinator(detector PlateDetector, redactor *redact.Redactor, store ArtifactStore, cfg Config) *Coordinator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MinWidth <= 0 {
		cfg.MinWidth = detection.DefaultMinImageWidth
	}
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = detection.DefaultMinImageHeight
	}
	return &Coordinator{
		detector:  detector,
		redactor:  redactor,
		store:     store,
		timeout:   cfg.Timeout,
		minWidth:  cfg.MinWidth,
		minHeight: cfg.MinHeight,
		jobs:      make(map[string]*Job),
	}
}

// Submit registers a new PROCESSING job for the image bytes, schedules
// the pipeline without blocking, and returns the fresh job id
// immediately.
func (c *Coordinator) Submit(data []byte) string {
	id := uuid.New().String()
	now := time.Now()
	job := &Job{
		ID:        id,
		Status:    StatusProcessing,
		CreatedAt: now,
		Result:    &Result{Status: StatusProcessing, ProcessID: id},
	}

	c.mu.Lock()
	c.jobs[id] = job
	c.mu.Unlock()

	go c.run(id, data, now)
	return id
}

// Status returns a copy of the job, or ErrJobNotFound for unknown or
// cleared ids.
func (c *Coordinator) Status(id string) (Job, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	job, ok := c.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return *job, nil
}

// Clear removes the job if present. Clearing an unknown id is a no-op.
func (c *Coordinator) Clear(id string) {
	c.mu.Lock()
	delete(c.jobs, id)
	c.mu.Unlock()
}

// CacheSize reports the number of jobs currently held in the registry.
func (c *Coordinator) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.jobs)
}

// run executes the pipeline for one job: decode and validate, detect
// (unless the budget is already spent), redact or compress, then write
// the terminal result. Any failure or panic becomes a terminal ERROR
// job; a PROCESSING entry is never silently abandoned.
func (c *Coordinator) run(id string, data []byte, start time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("job %s: pipeline panic: %v", id, r)
			c.finish(id, &Result{
				Status:    StatusError,
				ProcessID: id,
				Message:   fmt.Sprintf("internal processing error: %v", r),
			}, start)
		}
	}()

	if c.store != nil {
		if _, err := c.store.SaveOriginal(id, data); err != nil {
			log.Printf("job %s: failed to save original: %v", id, err)
		}
	}

	img, err := imaging.DecodeValidated(data, c.minWidth, c.minHeight)
	if err != nil {
		c.finish(id, &Result{
			Status:    StatusError,
			ProcessID: id,
			Message:   fmt.Sprintf("could not process image: %v", err),
		}, start)
		return
	}

	var det detection.Result
	if elapsed := time.Since(start); elapsed > c.timeout {
		log.Printf("job %s: budget exceeded before detection (%s > %s), compressing only",
			id, elapsed, c.timeout)
	} else {
		det = c.detector.Detect(img)
	}

	var processed []byte
	if det.Found {
		processed, err = c.redactor.RedactJPEG(img, det.Region)
	} else {
		processed, err = c.redactor.CompressJPEG(img)
	}
	if err != nil {
		c.finish(id, &Result{
			Status:    StatusError,
			ProcessID: id,
			Message:   fmt.Sprintf("could not encode processed image: %v", err),
		}, start)
		return
	}

	if c.store != nil {
		if _, err := c.store.SaveProcessed(id, processed, det.PlateText); err != nil {
			log.Printf("job %s: failed to save processed image: %v", id, err)
		}
	}

	result := &Result{
		Status:               StatusCompleted,
		ProcessID:            id,
		ProcessedImageBase64: base64.StdEncoding.EncodeToString(processed),
	}
	if det.Found {
		result.LicensePlate = det.PlateText
		result.PlateFormat = det.Format
		result.Coordinates = det.Region
	}
	c.finish(id, result, start)
}

// finish writes the terminal result for a job. The whole job value is
// replaced under the lock so readers never observe a partial write.
// If the job was cleared mid-flight, or already terminal, the result
// is dropped: terminal states are absorbing.
func (c *Coordinator) finish(id string, result *Result, start time.Time) {
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[id]
	if !ok || job.Status != StatusProcessing {
		return
	}
	c.jobs[id] = &Job{
		ID:        id,
		Status:    result.Status,
		CreatedAt: job.CreatedAt,
		Result:    result,
	}
}
