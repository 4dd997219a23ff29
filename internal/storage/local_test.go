package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

func TestSaveTranscriptWritesAllArtifacts(t *testing.T) {
	ls := NewLocalStorage(t.TempDir())
	result := &types.TranscriptionResult{
		JobID: "job-1",
		Segments: []types.Segment{
			{Start: 0, End: 2, Text: "hello everyone", Speaker: "SPEAKER 1"},
			{Start: 2, End: 5, Text: "hi there", Speaker: "SPEAKER 2"},
		},
		Transcript:  "**SPEAKER 1** [0:00:00]\nhello everyone\n\n**SPEAKER 2** [0:00:02]\nhi there",
		NumSpeakers: 2,
		WordCount:   4,
		Language:    "en",
		Duration:    5,
		ProcessedAt: time.Now(),
	}

	txtPath, err := ls.SaveTranscript("team standup", result)
	require.NoError(t, err)

	text, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "**SPEAKER 1** [0:00:00]")
	assert.Contains(t, string(text), "**SPEAKER 2** [0:00:02]")
	assert.Contains(t, string(text), "hello everyone")

	base := strings.TrimSuffix(txtPath, ".txt")
	srt, err := os.ReadFile(base + ".srt")
	require.NoError(t, err)
	assert.Contains(t, string(srt), "SPEAKER 1: hello everyone")
	assert.Contains(t, string(srt), "00:00:02,000 -->")

	meta, err := os.ReadFile(base + "_meta.json")
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"job_id": "job-1"`)
}

func TestSaveTranscriptSanitizesRequestName(t *testing.T) {
	ls := NewLocalStorage(t.TempDir())
	result := &types.TranscriptionResult{
		Segments: []types.Segment{{Start: 0, End: 1, Text: "ok", Speaker: "SPEAKER 1"}},
	}

	txtPath, err := ls.SaveTranscript("../../etc/passwd", result)
	require.NoError(t, err)
	assert.Equal(t, "passwd", strings.TrimSuffix(filepath.Base(txtPath)[16:], ".txt"))
}
