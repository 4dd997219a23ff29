// Package storage persists transcripts and reminders and exports
// finished artifacts.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vishakh-abhayan/Maki-ai/internal/insights"
)

// Store handles SQLite database operations for transcripts and reminders
type Store struct {
	db *sql.DB
}

// TranscriptRecord is a persisted transcript with its per-speaker insights.
type TranscriptRecord struct {
	ID          string                              `json:"id"`
	Filename    string                              `json:"filename"`
	NumSpeakers int                                 `json:"num_speakers"`
	Transcript  string                              `json:"transcript"`
	Insights    map[string]insights.SpeakerInsights `json:"insights"`
	Language    string                              `json:"language"`
	Duration    float64                             `json:"duration"`
	WordCount   int                                 `json:"word_count"`
	LocalPath   string                              `json:"local_path"`
	GDriveURL   string                              `json:"gdrive_url,omitempty"`
	CreatedAt   time.Time                           `json:"created_at"`
}

// ReminderRecord is a persisted reminder extracted from one transcript.
type ReminderRecord struct {
	ID            string    `json:"id"`
	TranscriptID  string    `json:"transcript_id"`
	Filename      string    `json:"filename"`
	Title         string    `json:"title"`
	From          string    `json:"from"`
	DueDate       *string   `json:"due_date"`
	DueDateText   string    `json:"due_date_text"`
	Priority      string    `json:"priority"`
	Category      string    `json:"category"`
	ExtractedFrom string    `json:"extracted_from"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewStore opens (or creates) the database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		num_speakers INTEGER NOT NULL,
		transcript TEXT NOT NULL,
		insights TEXT,
		language TEXT,
		duration REAL,
		word_count INTEGER,
		local_path TEXT,
		gdrive_url TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		transcript_id TEXT NOT NULL,
		filename TEXT,
		title TEXT NOT NULL,
		from_speaker TEXT,
		due_date TEXT,
		due_date_text TEXT,
		priority TEXT NOT NULL DEFAULT 'normal',
		category TEXT NOT NULL DEFAULT 'task',
		extracted_from TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transcripts_created ON transcripts(created_at);
	CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(due_date);
	CREATE INDEX IF NOT EXISTS idx_reminders_transcript ON reminders(transcript_id);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &Store{db: db}, nil
}

// SaveTranscript inserts a transcript record
func (s *Store) SaveTranscript(rec *TranscriptRecord) error {
	insightsJSON, err := json.Marshal(rec.Insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %v", err)
	}

	query := `
	INSERT INTO transcripts (id, filename, num_speakers, transcript, insights, language, duration, word_count, local_path, gdrive_url, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query, rec.ID, rec.Filename, rec.NumSpeakers, rec.Transcript,
		string(insightsJSON), rec.Language, rec.Duration, rec.WordCount,
		rec.LocalPath, rec.GDriveURL, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save transcript: %v", err)
	}
	return nil
}

// GetTranscript retrieves a transcript record by id
func (s *Store) GetTranscript(id string) (*TranscriptRecord, error) {
	query := `
	SELECT id, filename, num_speakers, transcript, insights, language, duration, word_count, local_path, gdrive_url, created_at
	FROM transcripts WHERE id = ?
	`
	return scanTranscript(s.db.QueryRow(query, id))
}

// ListTranscripts returns the most recent transcripts
func (s *Store) ListTranscripts(limit int) ([]*TranscriptRecord, error) {
	query := `
	SELECT id, filename, num_speakers, transcript, insights, language, duration, word_count, local_path, gdrive_url, created_at
	FROM transcripts ORDER BY created_at DESC LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %v", err)
	}
	defer rows.Close()

	var records []*TranscriptRecord
	for rows.Next() {
		rec, err := scanTranscript(rows)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTranscript(row rowScanner) (*TranscriptRecord, error) {
	var (
		rec          TranscriptRecord
		insightsJSON sql.NullString
		gdriveURL    sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Filename, &rec.NumSpeakers, &rec.Transcript,
		&insightsJSON, &rec.Language, &rec.Duration, &rec.WordCount,
		&rec.LocalPath, &gdriveURL, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transcript: %v", err)
	}
	if insightsJSON.Valid && insightsJSON.String != "" {
		if err := json.Unmarshal([]byte(insightsJSON.String), &rec.Insights); err != nil {
			rec.Insights = map[string]insights.SpeakerInsights{}
		}
	}
	rec.GDriveURL = gdriveURL.String
	return &rec, nil
}

// SaveReminders inserts one record per extracted reminder
func (s *Store) SaveReminders(transcriptID, filename string, reminders []*insights.Reminder) error {
	query := `
	INSERT INTO reminders (id, transcript_id, filename, title, from_speaker, due_date, due_date_text, priority, category, extracted_from, completed, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`
	now := time.Now().UTC()
	for _, r := range reminders {
		var dueDate interface{}
		if r.DueDate != nil {
			dueDate = *r.DueDate
		}
		_, err := s.db.Exec(query, uuid.New().String(), transcriptID, filename,
			r.Title, r.From, dueDate, r.DueDateText, r.Priority, r.Category,
			r.ExtractedFrom, now, now)
		if err != nil {
			return fmt.Errorf("failed to save reminder %q: %v", r.Title, err)
		}
	}
	return nil
}

// ListReminders returns reminders sorted by due date, then recency.
// upcomingOnly filters out completed reminders.
func (s *Store) ListReminders(upcomingOnly bool, limit int) ([]*ReminderRecord, error) {
	query := `
	SELECT id, transcript_id, filename, title, from_speaker, due_date, due_date_text, priority, category, extracted_from, completed, created_at, updated_at
	FROM reminders
	`
	if upcomingOnly {
		query += " WHERE completed = 0"
	}
	query += " ORDER BY due_date IS NULL, due_date ASC, created_at DESC LIMIT ?"

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %v", err)
	}
	defer rows.Close()

	var records []*ReminderRecord
	for rows.Next() {
		var (
			rec     ReminderRecord
			dueDate sql.NullString
		)
		err := rows.Scan(&rec.ID, &rec.TranscriptID, &rec.Filename, &rec.Title,
			&rec.From, &dueDate, &rec.DueDateText, &rec.Priority, &rec.Category,
			&rec.ExtractedFrom, &rec.Completed, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			continue
		}
		if dueDate.Valid {
			rec.DueDate = &dueDate.String
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// UpdateReminder marks a reminder completed and/or snoozes it to a new
// due date. Returns sql.ErrNoRows when the id is unknown.
func (s *Store) UpdateReminder(id string, completed *bool, snoozeUntil string) error {
	query := "UPDATE reminders SET updated_at = ?"
	args := []interface{}{time.Now().UTC()}
	if completed != nil {
		query += ", completed = ?"
		args = append(args, *completed)
	}
	if snoozeUntil != "" {
		query += ", due_date = ?"
		args = append(args, snoozeUntil)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
