package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vishakh-abhayan/Maki-ai/internal/insights"
	"github.com/vishakh-abhayan/Maki-ai/internal/queue"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// JobHandler reports job status and delivers finished results
type JobHandler struct {
	workerPool *queue.WorkerPool
}

// NewJobHandler creates a new job status handler
func NewJobHandler(workerPool *queue.WorkerPool) *JobHandler {
	return &JobHandler{workerPool: workerPool}
}

// Handle returns the state of one job. Completed jobs carry the full
// transcript, per-speaker insights and the normalized reminder list.
func (h *JobHandler) Handle(c *fiber.Ctx) error {
	job, ok := h.workerPool.Snapshot(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Job not found"})
	}

	resp := fiber.Map{
		"job_id":     job.ID,
		"name":       job.RequestName,
		"status":     job.Status,
		"created_at": job.CreatedAt,
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	if job.Warning != "" {
		resp["warning"] = job.Warning
	}

	if job.Status == types.StatusCompleted && job.Result != nil {
		resp["transcript"] = job.Result.Transcript
		resp["duration"] = job.Result.Duration
		resp["language"] = job.Result.Language
		resp["word_count"] = job.Result.WordCount
		resp["local_path"] = job.Result.LocalPath
		if job.Result.GDriveURL != "" {
			resp["gdrive_url"] = job.Result.GDriveURL
		}
		if job.Insights != nil {
			resp["insights"] = job.Insights.Speakers
			resp["reminders"] = job.Insights.Reminders
		} else {
			resp["insights"] = map[string]insights.SpeakerInsights{}
			resp["reminders"] = []*insights.Reminder{}
		}
	}

	return c.JSON(resp)
}
