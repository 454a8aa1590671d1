package downloader

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"tokscraper/pkg/errors"
	"tokscraper/pkg/logger"
	"tokscraper/pkg/retry"
)

// Task is a single media download: one post's media URL
type Task struct {
	PostID   string
	MediaURL string
}

// Result is the outcome of one Task. Err is set on failure; failures are
// per-task and never abort sibling tasks.
type Result struct {
	PostID   string
	Path     string
	Err      error
	Size     int
	Duration time.Duration
}

// MediaDownloader fetches media bytes
type MediaDownloader interface {
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}

// MediaStorage persists media bytes
type MediaStorage interface {
	IsDownloaded(postID string) bool
	MediaPath(postID string) string
	SaveMedia(r io.Reader, postID string) (string, error)
}

// Pool downloads media with bounded parallelism
type Pool struct {
	numWorkers int
	client     MediaDownloader
	storage    MediaStorage
	limiter    *rate.Limiter
	retryCfg   *retry.Config
	logger     logger.Logger
}

// NewPool creates a download pool. numWorkers must be at least 1.
func NewPool(
	numWorkers int,
	client MediaDownloader,
	storage MediaStorage,
	limiter *rate.Limiter,
	retryCfg *retry.Config,
	log logger.Logger,
) (*Pool, error) {
	if numWorkers < 1 {
		return nil, errors.Newf(errors.KindDownload, "concurrency must be at least 1, got %d", numWorkers)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Pool{
		numWorkers: numWorkers,
		client:     client,
		storage:    storage,
		limiter:    limiter,
		retryCfg:   retryCfg,
		logger:     log,
	}, nil
}

// Run processes all tasks with at most numWorkers in flight and returns one
// Result per task, in task order. Workers complete out of order internally;
// results are reconciled back onto the input ordering.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))

	type indexedTask struct {
		idx  int
		task Task
	}

	jobs := make(chan indexedTask)

	var wg sync.WaitGroup
	for i := 0; i < p.numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobs {
				results[job.idx] = p.processTask(ctx, job.task, workerID)
			}
		}(i)
	}

	p.logger.InfoWithFields("download pool started", map[string]interface{}{
		"num_workers": p.numWorkers,
		"num_tasks":   len(tasks),
	})

	for i, t := range tasks {
		jobs <- indexedTask{idx: i, task: t}
	}
	close(jobs)
	wg.Wait()

	return results
}

// processTask handles a single download with retry on transient failures
func (p *Pool) processTask(ctx context.Context, task Task, workerID int) Result {
	start := time.Now()
	result := Result{PostID: task.PostID}

	if task.MediaURL == "" {
		result.Err = errors.New(errors.KindDownload, "post has no media url")
		result.Duration = time.Since(start)
		return result
	}

	if p.storage.IsDownloaded(task.PostID) {
		p.logger.DebugWithFields("media already downloaded", map[string]interface{}{
			"worker_id": workerID,
			"post_id":   task.PostID,
		})
		result.Path = p.storage.MediaPath(task.PostID)
		result.Duration = time.Since(start)
		return result
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			result.Err = errors.Newf(errors.KindDownload, "rate limiter wait: %v", err)
			result.Duration = time.Since(start)
			return result
		}
	}

	data, err := retry.DoWithResult(func() ([]byte, error) {
		return p.client.DownloadMedia(ctx, task.MediaURL)
	}, p.retryCfg)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)

		p.logger.ErrorWithFields("media download failed", map[string]interface{}{
			"worker_id": workerID,
			"post_id":   task.PostID,
			"error":     err.Error(),
		})
		return result
	}
	result.Size = len(data)

	path, err := p.storage.SaveMedia(bytes.NewReader(data), task.PostID)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)

		p.logger.ErrorWithFields("media save failed", map[string]interface{}{
			"worker_id": workerID,
			"post_id":   task.PostID,
			"error":     err.Error(),
		})
		return result
	}

	result.Path = path
	result.Duration = time.Since(start)

	p.logger.DebugWithFields("media downloaded", map[string]interface{}{
		"worker_id": workerID,
		"post_id":   task.PostID,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}
