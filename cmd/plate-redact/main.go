package main

import (
	"fmt"
	"log"
	"os"

	"github.com/plateworks/plate-redact/internal/config"
	"github.com/plateworks/plate-redact/internal/detection"
	"github.com/plateworks/plate-redact/internal/jobs"
	"github.com/plateworks/plate-redact/internal/ocr"
	"github.com/plateworks/plate-redact/internal/redact"
	"github.com/plateworks/plate-redact/internal/server"
	"github.com/plateworks/plate-redact/internal/storage"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("plate-redact %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("plate-redact - license plate detection and redaction service")
			fmt.Println()
			fmt.Println("Usage: plate-redact [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SERVER_PORT                HTTP listen port (default 8080)")
			fmt.Println("  PROCESS_TIMEOUT_SECONDS    Per-job processing budget (default 30)")
			fmt.Println("  JPEG_QUALITY               Output JPEG quality (default 85)")
			fmt.Println("  MAX_IMAGE_WIDTH/HEIGHT     Output size cap (default 1920x1080)")
			fmt.Println("  MIN_IMAGE_WIDTH/HEIGHT     Smallest accepted input (default 100x100)")
			fmt.Println("  MAX_UPLOAD_MB              Upload size limit (default 10)")
			fmt.Println("  IMAGE_SAVE_ENABLED         Persist originals and results (default true)")
			fmt.Println("  IMAGE_SAVE_PATH            Artifact directory (default ./processed_images)")
			fmt.Println("  TESSERACT_LANGUAGE         OCR language code (default eng)")
			fmt.Println()
			fmt.Println("A .env file in the working directory is loaded on startup.")
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()

	if ocr.Available() {
		log.Printf("plate-redact v%s starting (tesseract %s, language %s)",
			Version, ocr.Version(), cfg.TesseractLanguage)
	} else {
		log.Printf("plate-redact v%s starting without OCR: built without CGO, plates will not be recognized", Version)
	}

	detector := detection.NewDetector(ocr.New(cfg.TesseractLanguage))
	detector.MinWidth = cfg.MinImageWidth
	detector.MinHeight = cfg.MinImageHeight

	redactor := redact.New()
	redactor.JPEGQuality = cfg.JPEGQuality
	redactor.MaxWidth = cfg.MaxWidth
	redactor.MaxHeight = cfg.MaxHeight

	var store jobs.ArtifactStore
	if cfg.ImageSaveEnabled {
		store = storage.New(cfg.ImageSavePath, true)
	}

	coordinator := jobs.NewCoordinator(detector, redactor, store, jobs.Config{
		Timeout:   cfg.ProcessTimeout,
		MinWidth:  cfg.MinImageWidth,
		MinHeight: cfg.MinImageHeight,
	})

	srv := server.New(coordinator, cfg.MaxUploadMB)
	log.Printf("listening on :%s", cfg.ServerPort)
	if err := srv.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
