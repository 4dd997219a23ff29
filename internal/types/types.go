package types

import "time"

// Job status constants
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Source type constants
const (
	SourceUpload = "upload"
	SourceFolder = "folder"
)

// Speaker label fallbacks
const (
	SpeakerUnknown           = "UNKNOWN_SPEAKER"
	SpeakerDiarizationFailed = "DIARIZATION_FAILED"
)

// Segment represents a timestamped span of transcribed speech.
// Speaker is empty until diarization assigns a label.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// TranscriptionResult represents the fully processed output for one recording
type TranscriptionResult struct {
	JobID       string
	Transcript  string
	Language    string
	Duration    float64
	Segments    []Segment
	NumSpeakers int
	WordCount   int
	ProcessedAt time.Time
	LocalPath   string
	GDriveURL   string
}
