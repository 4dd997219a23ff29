// Package watcher ingests recordings dropped into a watched folder.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vishakh-abhayan/Maki-ai/internal/audio"
	"github.com/vishakh-abhayan/Maki-ai/internal/queue"
	"github.com/vishakh-abhayan/Maki-ai/internal/types"
)

// FolderWatcher monitors a drop directory and enqueues a transcription
// job for every audio file that appears. Writes are debounced so a file
// is only picked up once it has stopped growing.
type FolderWatcher struct {
	watcher     *fsnotify.Watcher
	folder      string
	debounce    time.Duration
	workerPool  *queue.WorkerPool
	numSpeakers int

	mu      sync.Mutex
	pending map[string]*time.Timer
	stop    chan struct{}
}

// New creates a watcher over folder. numSpeakers is applied to every
// ingested file since the drop folder carries no per-file metadata.
func New(folder string, debounce time.Duration, workerPool *queue.WorkerPool, numSpeakers int) (*FolderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FolderWatcher{
		watcher:     w,
		folder:      folder,
		debounce:    debounce,
		workerPool:  workerPool,
		numSpeakers: numSpeakers,
		pending:     make(map[string]*time.Timer),
		stop:        make(chan struct{}),
	}, nil
}

// Start begins monitoring the drop folder
func (fw *FolderWatcher) Start() error {
	if err := os.MkdirAll(fw.folder, 0755); err != nil {
		return err
	}
	if err := fw.watcher.Add(fw.folder); err != nil {
		return err
	}

	go fw.loop()
	logrus.Infof("Watching drop folder %s (debounce: %s)", fw.folder, fw.debounce)
	return nil
}

// Stop shuts the watcher down
func (fw *FolderWatcher) Stop() {
	close(fw.stop)
	fw.watcher.Close()
}

func (fw *FolderWatcher) loop() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				fw.schedule(event.Name)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logrus.Warnf("Watcher error: %v", err)
		case <-fw.stop:
			return
		}
	}
}

// schedule (re)arms the debounce timer for a path. Each write pushes
// the pickup further out until the file settles.
func (fw *FolderWatcher) schedule(path string) {
	if !audio.ValidateFormat(path) {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if timer, ok := fw.pending[path]; ok {
		timer.Reset(fw.debounce)
		return
	}
	fw.pending[path] = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		delete(fw.pending, path)
		fw.mu.Unlock()
		fw.ingest(path)
	})
}

func (fw *FolderWatcher) ingest(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return
	}

	name := filepath.Base(path)
	job := queue.NewJob(uuid.New().String(), name, types.SourceFolder, path, fw.numSpeakers)
	fw.workerPool.EnqueueJob(job)
	logrus.Infof("Ingested %s from drop folder as job %s", name, job.ID)
}
