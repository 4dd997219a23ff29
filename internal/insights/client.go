package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const extractionPrompt = `You are an expert meeting summarization assistant. Analyze the transcript and extract:
1. Action items for each speaker
2. Key information shared
3. Reminders with specific dates/times

Identify speakers' actual names when mentioned. Extract any time-sensitive reminders with:
- Title/description of the reminder
- Who it's from (speaker name or context)
- When it needs to happen (the phrase as spoken)
- Priority level (high/normal/low based on urgency or importance mentioned)
- Category (meeting, call, task, deadline, personal)

Return a single valid JSON object with this structure:
{
  "speakers": {
    "Speaker_Name_or_Number": {
      "action_items": ["list of action items"],
      "key_information": ["list of key points"]
    }
  },
  "reminders": [
    {
      "title": "Reminder description",
      "from": "Source/speaker",
      "due_date_text": "Human readable time (e.g., 'Tomorrow at 2 PM')",
      "priority": "high/normal/low",
      "category": "meeting/call/task/deadline/personal",
      "extracted_from": "Original text that mentioned this reminder"
    }
  ]
}

Always return valid JSON only, no additional text.`

// Extractor calls the Groq chat-completions API to pull structured
// insights out of a transcript.
type Extractor struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewExtractor creates an insight extractor. model is the chat model id
// (e.g. "openai/gpt-oss-120b").
func NewExtractor(apiKey, baseURL, model string) *Extractor {
	return &Extractor{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Extract sends the transcript to the model and parses the reply into
// the typed insight schema. A non-JSON reply is surfaced as an error
// rather than silently repaired.
func (e *Extractor) Extract(ctx context.Context, transcript string) (*Insights, error) {
	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionPrompt},
			{Role: "user", Content: transcript},
		},
		Temperature: 0.2,
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	logrus.Infof("Extracting insights with model %s", e.model)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(body))
	}

	var reply chatResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %v", err)
	}
	if len(reply.Choices) == 0 {
		return nil, fmt.Errorf("chat response contained no choices")
	}

	var ins Insights
	if err := json.Unmarshal([]byte(reply.Choices[0].Message.Content), &ins); err != nil {
		return nil, fmt.Errorf("insight model returned invalid JSON: %v", err)
	}
	if ins.Speakers == nil {
		ins.Speakers = map[string]SpeakerInsights{}
	}

	logrus.Infof("Extracted insights for %d speakers, %d reminders", len(ins.Speakers), len(ins.Reminders))
	return &ins, nil
}
