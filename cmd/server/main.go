package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/vishakh-abhayan/Maki-ai/internal/cleanup"
	"github.com/vishakh-abhayan/Maki-ai/internal/config"
	"github.com/vishakh-abhayan/Maki-ai/internal/diarize"
	"github.com/vishakh-abhayan/Maki-ai/internal/handlers"
	"github.com/vishakh-abhayan/Maki-ai/internal/insights"
	"github.com/vishakh-abhayan/Maki-ai/internal/queue"
	"github.com/vishakh-abhayan/Maki-ai/internal/storage"
	"github.com/vishakh-abhayan/Maki-ai/internal/transcription"
	"github.com/vishakh-abhayan/Maki-ai/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if err := cleanup.EnsureTempDirExists(cfg.Storage.TempDir); err != nil {
		logrus.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(cfg.Storage.OutputDir, 0755); err != nil {
		logrus.Fatalf("Failed to create output directory: %v", err)
	}

	logrus.Info("Initializing components...")

	// External collaborators: speech-to-text, insight extraction, and
	// the speaker-embedding sidecar. Each is constructed once and shared
	// across workers.
	transcriber := transcription.NewGroqTranscriber(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.TranscriptionModel)
	extractor := insights.NewExtractor(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.InsightModel)
	embedder := diarize.NewHTTPEmbedder(cfg.Embedding.URL, cfg.Embedding.Dimension)
	diarizer := diarize.New(embedder)

	localStorage := storage.NewLocalStorage(cfg.Storage.OutputDir)

	// Google Drive export is optional; missing credentials just disable it.
	var driveClient *storage.DriveClient
	if _, err := os.Stat(cfg.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = storage.NewDriveClient(
			cfg.GoogleDrive.CredentialsFile,
			cfg.GoogleDrive.TokenFile,
			cfg.GoogleDrive.FolderName,
		)
		if err != nil {
			logrus.Warnf("Google Drive not available: %v", err)
			driveClient = nil
		} else {
			logrus.Info("Google Drive export enabled")
		}
	} else {
		logrus.Info("Google Drive credentials not found - saving locally only")
	}

	store, err := storage.NewStore(cfg.Storage.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	workerPool := queue.NewWorkerPool(
		cfg.Workers.Count,
		cfg.Storage.TempDir,
		transcriber,
		diarizer,
		extractor,
		localStorage,
		driveClient,
		store,
	)
	workerPool.Start()

	cleanupScheduler := cleanup.NewScheduler(
		cfg.Storage.TempDir,
		cfg.Cleanup.IntervalMinutes,
		cfg.Cleanup.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	if cfg.Watch.Enabled {
		fw, err := watcher.New(
			cfg.Watch.Folder,
			time.Duration(cfg.Watch.DebounceSeconds)*time.Second,
			workerPool,
			cfg.Diarization.DefaultNumSpeakers,
		)
		if err != nil {
			logrus.Fatalf("Failed to create folder watcher: %v", err)
		}
		if err := fw.Start(); err != nil {
			logrus.Fatalf("Failed to start folder watcher: %v", err)
		}
		defer fw.Stop()
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Limits.MaxFileSizeMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	transcribeHandler := handlers.NewTranscribeHandler(
		workerPool, cfg.Storage.TempDir, cfg.Limits.MaxFileSizeMB, cfg.Diarization.DefaultNumSpeakers)
	jobHandler := handlers.NewJobHandler(workerPool)
	reminderHandler := handlers.NewReminderHandler(store)
	statusHandler := handlers.NewStatusHandler(workerPool)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/transcribe", transcribeHandler.Handle)
	app.Get("/jobs/:id", jobHandler.Handle)
	app.Get("/ws/jobs/:id", websocket.New(statusHandler.Handle))

	app.Get("/reminders", reminderHandler.List)
	app.Patch("/reminders/:id", reminderHandler.Update)

	app.Get("/transcripts", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		transcripts, err := store.ListTranscripts(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if transcripts == nil {
			transcripts = []*storage.TranscriptRecord{}
		}
		return c.JSON(transcripts)
	})

	app.Get("/transcripts/:id/text", func(c *fiber.Ctx) error {
		rec, err := store.GetTranscript(c.Params("id"))
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Transcript not found"})
		}
		return c.SendString(rec.Transcript)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logrus.Infof("Server starting on %s", addr)
	logrus.Info("Endpoints:")
	logrus.Info("   POST  /transcribe            - Upload audio for transcription")
	logrus.Info("   GET   /jobs/:id              - Job status and results")
	logrus.Info("   GET   /ws/jobs/:id           - WebSocket job status feed")
	logrus.Info("   GET   /transcripts           - List stored transcripts")
	logrus.Info("   GET   /transcripts/:id/text  - Transcript text")
	logrus.Info("   GET   /reminders             - List reminders")
	logrus.Info("   PATCH /reminders/:id         - Complete or snooze a reminder")
	logrus.Info("   GET   /health                - Health check")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logrus.Info("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}
