package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

var ErrWorkerStopped = errors.New("worker stopped")

// SubmissionResult is the outcome of one queued submission.
type SubmissionResult struct {
	Resume *models.Resume
	Err    error
}

// Worker runs submissions on a bounded pool of goroutines.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(ctx context.Context, sub Submission, observer ProgressObserver) (<-chan SubmissionResult, error)
}

// ResumeIndexer receives saved records for secondary indexing.
type ResumeIndexer interface {
	IndexResume(ctx context.Context, resume *models.Resume) error
}

type submissionJob struct {
	ctx      context.Context
	sub      Submission
	observer ProgressObserver
	done     chan SubmissionResult
}

type worker struct {
	pipeline     *Pipeline
	indexer      ResumeIndexer
	jobQueue     chan submissionJob
	concurrency  int
	indexTimeout time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once

	// mu keeps Enqueue from sending once Stop has drained the queue.
	mu      sync.RWMutex
	stopped bool
}

// NewWorker builds a pool. indexer may be nil.
func NewWorker(pipeline *Pipeline, indexer ResumeIndexer, concurrency, queueSize int) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &worker{
		pipeline:     pipeline,
		indexer:      indexer,
		jobQueue:     make(chan submissionJob, queueSize),
		concurrency:  concurrency,
		indexTimeout: 30 * time.Second,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)

		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()

		w.wg.Wait()
		w.drainQueue()
		log.Println("✅ Worker stopped")
	})
}

// drainQueue answers submissions that were accepted but never picked up.
func (w *worker) drainQueue() {
	for {
		select {
		case job := <-w.jobQueue:
			log.Printf("⚠️  Worker stopped before processing %s\n", job.sub.File.Name)
			job.done <- SubmissionResult{Err: ErrWorkerStopped}
		default:
			return
		}
	}
}

// Enqueue implements Worker. The returned channel receives exactly one
// result, including when the worker stops first. Cancelling ctx cancels the
// submission.
func (w *worker) Enqueue(ctx context.Context, sub Submission, observer ProgressObserver) (<-chan SubmissionResult, error) {
	job := submissionJob{
		ctx:      ctx,
		sub:      sub,
		observer: observer,
		done:     make(chan SubmissionResult, 1),
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		log.Printf("⚠️  Worker stopped, cannot enqueue %s\n", sub.File.Name)
		return nil, ErrWorkerStopped
	}

	select {
	case w.jobQueue <- job:
		log.Printf("📥 Submission for %s enqueued\n", sub.File.Name)
		return job.done, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue %s\n", sub.File.Name)
		return nil, ErrWorkerStopped
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case job := <-w.jobQueue:
			w.run(ctx, workerID, job)
		}
	}
}

func (w *worker) run(ctx context.Context, workerID int, job submissionJob) {
	log.Printf("👷 Worker #%d processing %s\n", workerID, job.sub.File.Name)

	resume, err := w.pipeline.Submit(job.ctx, job.sub, job.observer)
	if err != nil {
		log.Printf("❌ Worker #%d failed to process %s: %v\n", workerID, job.sub.File.Name, err)
	} else {
		log.Printf("✅ Worker #%d completed %s\n", workerID, resume.ID)
	}
	job.done <- SubmissionResult{Resume: resume, Err: err}

	if err == nil && w.indexer != nil && len(resume.MatchedJobs) > 0 {
		indexCtx, cancel := context.WithTimeout(ctx, w.indexTimeout)
		defer cancel()
		if err := w.indexer.IndexResume(indexCtx, resume); err != nil {
			log.Printf("⚠️  Worker #%d failed to index jobs for %s: %v\n", workerID, resume.ID, err)
		}
	}
}
