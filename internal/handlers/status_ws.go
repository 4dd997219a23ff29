package handlers

import (
	"fmt"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/vishakh-abhayan/Maki-ai/internal/queue"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// StatusHandler streams job status transitions over WebSocket so a
// client can follow a recording through the pipeline without polling.
type StatusHandler struct {
	workerPool *queue.WorkerPool
}

// NewStatusHandler creates a new status stream handler
func NewStatusHandler(workerPool *queue.WorkerPool) *StatusHandler {
	return &StatusHandler{workerPool: workerPool}
}

// statusConn is the slice of the websocket connection the stream writes
// to, split out so the loop can be driven by a fake in tests.
type statusConn interface {
	WriteMessage(messageType int, data []byte) error
}

// Handle pushes one message per status change and closes once the job
// reaches a terminal state.
func (h *StatusHandler) Handle(c *websocket.Conn) {
	defer c.Close()
	h.stream(c, c.Params("id"))
}

func (h *StatusHandler) stream(c statusConn, jobID string) {
	// Subscribe before reading the snapshot: a job finishing between the
	// two would otherwise notify an empty subscriber list and leave this
	// handler ranging over a channel that never delivers.
	updates, cancel := h.workerPool.Subscribe(jobID)
	defer cancel()

	job, ok := h.workerPool.Snapshot(jobID)
	if !ok {
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"Job not found"}`))
		return
	}

	send := func(status string) bool {
		msg := fmt.Sprintf(`{"job_id":%q,"status":%q}`, jobID, status)
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			logrus.Warnf("WebSocket write failed for job %s: %v", jobID, err)
			return false
		}
		return true
	}

	if !send(job.Status) {
		return
	}
	if job.Status == types.StatusCompleted || job.Status == types.StatusFailed {
		return
	}

	for status := range updates {
		if !send(status) {
			return
		}
		if status == types.StatusCompleted || status == types.StatusFailed {
			return
		}
	}
}
