package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vishakh-abhayan/Maki-ai/internal/transcript"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// LocalStorage saves finished transcripts and subtitles to the local
// filesystem under dated directories.
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new local storage handler
func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{
		outputDir: outputDir,
	}
}

// SaveTranscript writes the transcript text, an SRT subtitle file, and a
// metadata JSON to disk. Returns the transcript text path.
func (ls *LocalStorage) SaveTranscript(requestName string, result *types.TranscriptionResult) (string, error) {
	// Dated directory structure: outputs/2025/01/23/
	now := time.Now()
	dateDir := filepath.Join(ls.outputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %v", err)
	}

	// Filename pattern: 20250123_143022_team_standup.txt
	timestamp := now.Format("20060102_150405")
	baseFilename := fmt.Sprintf("%s_%s", timestamp, sanitizeFilename(requestName))

	txtPath := filepath.Join(dateDir, baseFilename+".txt")
	srtPath := filepath.Join(dateDir, baseFilename+".srt")
	metaPath := filepath.Join(dateDir, baseFilename+"_meta.json")

	if err := transcript.WriteText(txtPath, result.Segments); err != nil {
		return "", fmt.Errorf("failed to save transcript: %v", err)
	}

	if err := transcript.WriteSRT(srtPath, result.Segments); err != nil {
		return "", fmt.Errorf("failed to save subtitles: %v", err)
	}

	metadata := map[string]interface{}{
		"job_id":           result.JobID,
		"request_name":     requestName,
		"duration_seconds": result.Duration,
		"num_speakers":     result.NumSpeakers,
		"word_count":       result.WordCount,
		"language":         result.Language,
		"created_at":       result.ProcessedAt,
		"segments":         result.Segments,
		"local_path":       txtPath,
		"gdrive_url":       result.GDriveURL,
	}

	metaJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %v", err)
	}

	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to save metadata: %v", err)
	}

	return txtPath, nil
}

// sanitizeFilename strips path separators and caps the length
func sanitizeFilename(name string) string {
	result := filepath.Base(name)
	if result == "." || result == string(filepath.Separator) {
		result = "untitled"
	}
	if len(result) > 100 {
		result = result[:100]
	}
	return result
}
