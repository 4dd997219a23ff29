// Package insights extracts structured meeting intelligence — per-speaker
// action items, key facts, and time-sensitive reminders — from a finished
// transcript.
package insights

import (
	"time"

	"github.com/vishakh-abhayan/Maki-ai/internal/timeparse"
)

// Priority and category defaults applied when the model omits them.
const (
	DefaultPriority = "normal"
	DefaultCategory = "task"
)

// Insights is the validated shape of the extraction model's response.
type Insights struct {
	Speakers  map[string]SpeakerInsights `json:"speakers"`
	Reminders []*Reminder                `json:"reminders"`
}

// SpeakerInsights holds what one speaker committed to and shared.
type SpeakerInsights struct {
	ActionItems    []string `json:"action_items"`
	KeyInformation []string `json:"key_information"`
}

// Reminder is a time-sensitive task extracted from the transcript.
// DueDateText carries the model's free-form phrase ("next Friday",
// "tomorrow at 2 PM"); DueDate and Timestamp are filled in by Normalize
// and stay null when the phrase cannot be resolved.
type Reminder struct {
	Title         string `json:"title"`
	From          string `json:"from,omitempty"`
	DueDateText   string `json:"due_date_text,omitempty"`
	Priority      string `json:"priority,omitempty"`
	Category      string `json:"category,omitempty"`
	ExtractedFrom string `json:"extracted_from,omitempty"`

	DueDate   *string `json:"due_date"`
	Timestamp *int64  `json:"timestamp"`
}

// Normalize resolves each reminder's due-date phrase against now,
// attaching an ISO-8601 due date and epoch timestamp on success.
// Unresolvable reminders keep null date fields but are never dropped;
// the title text is still useful without a date. Pure transform, no
// network calls.
func (ins *Insights) Normalize(now time.Time) {
	for _, r := range ins.Reminders {
		if r.Priority == "" {
			r.Priority = DefaultPriority
		}
		if r.Category == "" {
			r.Category = DefaultCategory
		}
		if t, ok := timeparse.Resolve(r.DueDateText, now); ok {
			iso := t.Format(time.RFC3339)
			epoch := t.Unix()
			r.DueDate = &iso
			r.Timestamp = &epoch
		}
	}
}
