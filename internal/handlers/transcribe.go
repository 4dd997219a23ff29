// Package handlers implements the HTTP API surface.
package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vishakh-abhayan/Maki-ai/internal/audio"
	"github.com/vishakh-abhayan/Maki-ai/internal/queue"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// TranscribeHandler accepts audio uploads for processing
type TranscribeHandler struct {
	workerPool         *queue.WorkerPool
	tempDir            string
	maxSizeMB          int
	defaultNumSpeakers int
}

// NewTranscribeHandler creates a new upload handler
func NewTranscribeHandler(workerPool *queue.WorkerPool, tempDir string, maxSizeMB, defaultNumSpeakers int) *TranscribeHandler {
	return &TranscribeHandler{
		workerPool:         workerPool,
		tempDir:            tempDir,
		maxSizeMB:          maxSizeMB,
		defaultNumSpeakers: defaultNumSpeakers,
	}
}

// Handle processes a multipart upload with an optional num_speakers field
func (h *TranscribeHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "No file uploaded",
			"code":  "ERR_NO_FILE",
		})
	}

	requestName := c.FormValue("name")
	if requestName == "" {
		requestName = file.Filename
	}

	numSpeakers := h.defaultNumSpeakers
	if v := c.FormValue("num_speakers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.Status(400).JSON(fiber.Map{
				"error": "num_speakers must be a positive integer",
				"code":  "ERR_INVALID_SPEAKERS",
			})
		}
		numSpeakers = n
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB),
			"code":  "ERR_FILE_TOO_LARGE",
		})
	}

	if !audio.ValidateFormat(file.Filename) {
		return c.Status(400).JSON(fiber.Map{
			"error": "Unsupported audio format",
			"code":  "ERR_INVALID_FORMAT",
		})
	}

	jobID := uuid.New().String()
	tempPath := filepath.Join(h.tempDir, fmt.Sprintf("%s%s", jobID, filepath.Ext(file.Filename)))

	if err := c.SaveFile(file, tempPath); err != nil {
		logrus.Errorf("Failed to save uploaded file: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to save file",
			"code":  "ERR_SAVE_FAILED",
		})
	}

	job := queue.NewJob(jobID, requestName, types.SourceUpload, tempPath, numSpeakers)
	h.workerPool.EnqueueJob(job)

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "queued",
		"message": "File uploaded successfully, processing started",
	})
}
