// Package queue runs the transcription pipeline on a pool of workers.
package queue

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishakh-abhayan/Maki-ai/internal/audio"
	"github.com/vishakh-abhayan/Maki-ai/internal/diarize"
	"github.com/vishakh-abhayan/Maki-ai/internal/insights"
	"github.com/vishakh-abhayan/Maki-ai/internal/storage"
	"github.com/vishakh-abhayan/Maki-ai/internal/transcript"
	"github.com/vishakh-abhayan/Maki-ai/internal/transcription"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// WorkerPool manages a pool of workers processing transcription jobs
// and keeps a registry of job state for status queries.
type WorkerPool struct {
	jobQueue     chan *Job
	workerCount  int
	tempDir      string
	transcriber  *transcription.GroqTranscriber
	diarizer     *diarize.Diarizer
	extractor    *insights.Extractor
	localStorage *storage.LocalStorage
	driveClient  *storage.DriveClient
	store        *storage.Store

	mu   sync.RWMutex
	jobs map[string]*Job
	subs map[string][]chan string
}

// NewWorkerPool creates a new worker pool. driveClient may be nil when
// Drive export is not configured.
func NewWorkerPool(
	workerCount int,
	tempDir string,
	transcriber *transcription.GroqTranscriber,
	diarizer *diarize.Diarizer,
	extractor *insights.Extractor,
	localStorage *storage.LocalStorage,
	driveClient *storage.DriveClient,
	store *storage.Store,
) *WorkerPool {
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100),
		workerCount:  workerCount,
		tempDir:      tempDir,
		transcriber:  transcriber,
		diarizer:     diarizer,
		extractor:    extractor,
		localStorage: localStorage,
		driveClient:  driveClient,
		store:        store,
		jobs:         make(map[string]*Job),
		subs:         make(map[string][]chan string),
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	logrus.Infof("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob registers a job and adds it to the queue
func (wp *WorkerPool) EnqueueJob(job *Job) {
	wp.mu.Lock()
	job.Status = types.StatusQueued
	wp.jobs[job.ID] = job
	wp.mu.Unlock()

	wp.jobQueue <- job
	logrus.Infof("Job %s enqueued (source: %s, name: %s, speakers: %d)",
		job.ID, job.SourceType, job.RequestName, job.NumSpeakers)
}

// Snapshot returns a copy of the job's current state.
func (wp *WorkerPool) Snapshot(id string) (Job, bool) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	job, ok := wp.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Subscribe returns a channel delivering status transitions for a job,
// plus a cancel function the caller must invoke when done.
func (wp *WorkerPool) Subscribe(id string) (<-chan string, func()) {
	ch := make(chan string, 8)
	wp.mu.Lock()
	wp.subs[id] = append(wp.subs[id], ch)
	wp.mu.Unlock()

	cancel := func() {
		wp.mu.Lock()
		defer wp.mu.Unlock()
		chans := wp.subs[id]
		for i, c := range chans {
			if c == ch {
				wp.subs[id] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

// setStatus updates a job's status and notifies subscribers. Slow
// subscribers miss transitions instead of blocking the worker.
func (wp *WorkerPool) setStatus(job *Job, status string) {
	wp.mu.Lock()
	job.Status = status
	if status == types.StatusCompleted || status == types.StatusFailed {
		job.FinishedAt = time.Now()
	}
	chans := append([]chan string(nil), wp.subs[job.ID]...)
	wp.mu.Unlock()

	for _, ch := range chans {
		select {
		case ch <- status:
		default:
		}
	}
}

func (wp *WorkerPool) fail(job *Job, err error) {
	logrus.Errorf("Job %s failed: %v", job.ID, err)
	wp.mu.Lock()
	job.Error = err.Error()
	wp.mu.Unlock()
	wp.setStatus(job, types.StatusFailed)
	wp.cleanupTempFile(job.FilePath)
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	logrus.Infof("Worker %d started", id)

	for job := range wp.jobQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.Errorf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.ID, r, string(debug.Stack()))
					wp.fail(job, fmt.Errorf("worker panic: %v", r))
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob runs the complete pipeline for one recording: convert,
// transcribe, diarize, assemble, extract insights, normalize reminder
// dates, persist and export.
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	logrus.Infof("Worker %d: Processing job %s", workerID, job.ID)
	wp.setStatus(job, types.StatusProcessing)
	ctx := context.Background()

	// Step 1: Convert to 16kHz mono WAV
	wavPath, err := audio.ConvertToWAV(job.FilePath, wp.tempDir)
	if err != nil {
		wp.fail(job, fmt.Errorf("audio conversion failed: %v", err))
		return
	}
	defer wp.cleanupTempFile(wavPath)

	// Step 2: Transcribe
	segments, language, err := wp.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		wp.fail(job, fmt.Errorf("transcription failed: %v", err))
		return
	}
	if len(segments) == 0 {
		wp.fail(job, fmt.Errorf("transcription returned no segments"))
		return
	}

	// Step 3: Diarize. Failure inside degrades to fallback labels and
	// never fails the job.
	if wave, err := audio.Load(wavPath); err != nil {
		logrus.Warnf("Worker %d: cannot load waveform for diarization: %v", workerID, err)
		for i := range segments {
			segments[i].Speaker = types.SpeakerDiarizationFailed
		}
	} else {
		segments = wp.diarizer.AssignSpeakers(ctx, wave, segments, job.NumSpeakers)
	}

	// Step 4: Assemble the speaker transcript
	finalTranscript := transcript.Assemble(segments)

	// Step 5: Extract insights and normalize reminder dates. A model
	// failure degrades to an empty insight set; the transcript is still
	// worth returning.
	ins, err := wp.extractor.Extract(ctx, finalTranscript)
	if err != nil {
		logrus.Warnf("Worker %d: insight extraction failed for job %s: %v", workerID, job.ID, err)
		wp.mu.Lock()
		job.Warning = fmt.Sprintf("insight extraction failed: %v", err)
		wp.mu.Unlock()
		ins = &insights.Insights{Speakers: map[string]insights.SpeakerInsights{}}
	}
	ins.Normalize(time.Now())

	duration := segments[len(segments)-1].End
	result := &types.TranscriptionResult{
		JobID:       job.ID,
		Transcript:  finalTranscript,
		Language:    language,
		Duration:    duration,
		Segments:    segments,
		NumSpeakers: job.NumSpeakers,
		WordCount:   len(strings.Fields(finalTranscript)),
		ProcessedAt: time.Now(),
	}

	// Step 6: Save artifacts locally
	localPath, err := wp.localStorage.SaveTranscript(job.RequestName, result)
	if err != nil {
		wp.fail(job, fmt.Errorf("local save failed: %v", err))
		return
	}
	result.LocalPath = localPath

	// Step 7: Export to Google Drive (best effort, with retry)
	if wp.driveClient != nil {
		var driveURL string
		for attempt := 1; attempt <= 3; attempt++ {
			driveURL, err = wp.driveClient.Upload(job.RequestName, result)
			if err == nil {
				result.GDriveURL = driveURL
				break
			}
			logrus.Warnf("Worker %d: Drive upload attempt %d/3 failed: %v", workerID, attempt, err)
			if attempt < 3 {
				time.Sleep(time.Duration(attempt*attempt) * time.Second)
			}
		}
	}

	// Step 8: Persist transcript and reminders
	if wp.store != nil {
		rec := &storage.TranscriptRecord{
			ID:          job.ID,
			Filename:    job.RequestName,
			NumSpeakers: job.NumSpeakers,
			Transcript:  finalTranscript,
			Insights:    ins.Speakers,
			Language:    language,
			Duration:    duration,
			WordCount:   result.WordCount,
			LocalPath:   localPath,
			GDriveURL:   result.GDriveURL,
			CreatedAt:   time.Now().UTC(),
		}
		if err := wp.store.SaveTranscript(rec); err != nil {
			logrus.Errorf("Worker %d: database save failed: %v", workerID, err)
		} else if len(ins.Reminders) > 0 {
			if err := wp.store.SaveReminders(job.ID, job.RequestName, ins.Reminders); err != nil {
				logrus.Errorf("Worker %d: reminder save failed: %v", workerID, err)
			} else {
				logrus.Infof("Worker %d: saved %d reminders for job %s", workerID, len(ins.Reminders), job.ID)
			}
		}
	}

	wp.cleanupTempFile(job.FilePath)

	wp.mu.Lock()
	job.Result = result
	job.Insights = ins
	wp.mu.Unlock()
	wp.setStatus(job, types.StatusCompleted)
	logrus.Infof("Worker %d: Job %s completed (%d segments, %d reminders)",
		workerID, job.ID, len(segments), len(ins.Reminders))
}

// cleanupTempFile removes a temporary file
func (wp *WorkerPool) cleanupTempFile(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Failed to cleanup temp file %s: %v", filePath, err)
	}
}
