// Package transcription wraps the hosted Whisper speech-to-text service.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// GroqTranscriber transcribes audio through the Groq audio API using
// whisper-large-v3. The client is stateless and safe for concurrent use.
type GroqTranscriber struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroqTranscriber creates a transcriber. model defaults to
// whisper-large-v3 when empty.
func NewGroqTranscriber(apiKey, baseURL, model string) *GroqTranscriber {
	if model == "" {
		model = "whisper-large-v3"
	}
	return &GroqTranscriber{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// verboseTranscription matches the verbose_json response format.
type verboseTranscription struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the audio file and returns time-stamped segments.
func (gt *GroqTranscriber) Transcribe(ctx context.Context, audioPath string) ([]types.Segment, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio file: %v", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to buffer audio file: %v", err)
	}
	writer.WriteField("model", gt.model)
	writer.WriteField("response_format", "verbose_json")
	writer.WriteField("language", "en")
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gt.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create transcription request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+gt.apiKey)

	logrus.Infof("Transcribing %s with %s", filepath.Base(audioPath), gt.model)
	resp, err := gt.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("transcription request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read transcription response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var out verboseTranscription
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, "", fmt.Errorf("failed to parse transcription response: %v", err)
	}

	segments := make([]types.Segment, len(out.Segments))
	for i, seg := range out.Segments {
		segments[i] = types.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
	}

	logrus.Infof("Transcription completed: %d segments, %.2fs duration", len(segments), out.Duration)
	return segments, out.Language, nil
}
