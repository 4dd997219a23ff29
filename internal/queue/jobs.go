package queue

import (
	"time"

	"github.com/vishakh-abhayan/Maki-ai/internal/insights"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// Job represents one recording moving through the processing pipeline
type Job struct {
	ID          string
	RequestName string
	SourceType  string
	FilePath    string
	NumSpeakers int
	Status      string
	Error       string
	Warning     string
	Result      *types.TranscriptionResult
	Insights    *insights.Insights
	CreatedAt   time.Time
	FinishedAt  time.Time
}

// NewJob creates a queued job with default values
func NewJob(id, requestName, sourceType, filePath string, numSpeakers int) *Job {
	return &Job{
		ID:          id,
		RequestName: requestName,
		SourceType:  sourceType,
		FilePath:    filePath,
		NumSpeakers: numSpeakers,
		Status:      types.StatusQueued,
		CreatedAt:   time.Now(),
	}
}
