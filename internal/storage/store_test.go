package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishakh-abhayan/Maki-ai/internal/insights"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(id string) *TranscriptRecord {
	return &TranscriptRecord{
		ID:          id,
		Filename:    "standup.mp3",
		NumSpeakers: 2,
		Transcript:  "**SPEAKER 1** [0:00:00]\nhello there",
		Insights: map[string]insights.SpeakerInsights{
			"Alice": {ActionItems: []string{"ship v2"}, KeyInformation: []string{"budget approved"}},
		},
		Language:  "en",
		Duration:  42.5,
		WordCount: 2,
		LocalPath: "/outputs/standup.txt",
		CreatedAt: time.Now().UTC(),
	}
}

func TestSaveAndGetTranscript(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveTranscript(sampleRecord("job-1")))

	got, err := store.GetTranscript("job-1")
	require.NoError(t, err)
	assert.Equal(t, "standup.mp3", got.Filename)
	assert.Equal(t, 2, got.NumSpeakers)
	assert.Contains(t, got.Transcript, "SPEAKER 1")
	require.Contains(t, got.Insights, "Alice")
	assert.Equal(t, []string{"ship v2"}, got.Insights["Alice"].ActionItems)
}

func TestGetTranscriptUnknownID(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetTranscript("nope")
	assert.Error(t, err)
}

func TestListTranscriptsMostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	first := sampleRecord("job-1")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second := sampleRecord("job-2")
	require.NoError(t, store.SaveTranscript(first))
	require.NoError(t, store.SaveTranscript(second))

	records, err := store.ListTranscripts(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "job-2", records[0].ID)
	assert.Equal(t, "job-1", records[1].ID)
}

func TestSaveAndListReminders(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveTranscript(sampleRecord("job-1")))

	due := "2025-03-14T10:30:00Z"
	ts := int64(1741948200)
	reminders := []*insights.Reminder{
		{Title: "Client demo", From: "Alice", DueDateText: "next Friday", Priority: "high", Category: "meeting", DueDate: &due, Timestamp: &ts},
		{Title: "Think about roadmap", DueDateText: "sometime", Priority: "normal", Category: "task"},
	}
	require.NoError(t, store.SaveReminders("job-1", "standup.mp3", reminders))

	got, err := store.ListReminders(true, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Dated reminders sort before undated ones.
	assert.Equal(t, "Client demo", got[0].Title)
	require.NotNil(t, got[0].DueDate)
	assert.Equal(t, due, *got[0].DueDate)
	assert.Nil(t, got[1].DueDate)
	assert.Equal(t, "Think about roadmap", got[1].Title)
}

func TestUpdateReminderCompletedAndSnooze(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveReminders("job-1", "standup.mp3",
		[]*insights.Reminder{{Title: "Call Sam", Priority: "normal", Category: "call"}}))

	records, err := store.ListReminders(true, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	id := records[0].ID

	done := true
	require.NoError(t, store.UpdateReminder(id, &done, ""))

	// Completed reminders drop out of the upcoming view.
	upcoming, err := store.ListReminders(true, 10)
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	all, err := store.ListReminders(false, 10)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Completed)

	// Snooze writes a new due date.
	require.NoError(t, store.UpdateReminder(id, nil, "2025-04-01T09:00:00Z"))
	all, err = store.ListReminders(false, 10)
	require.NoError(t, err)
	require.NotNil(t, all[0].DueDate)
	assert.Equal(t, "2025-04-01T09:00:00Z", *all[0].DueDate)
}

func TestUpdateReminderUnknownID(t *testing.T) {
	store := newTestStore(t)
	done := true
	err := store.UpdateReminder("missing", &done, "")
	assert.Error(t, err)
}
