package media

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrJanitorStopped is returned when an enqueue races with shutdown.
var ErrJanitorStopped = errors.New("media janitor stopped")

// AssetDeleter removes a stored asset by its public location.
type AssetDeleter interface {
	Delete(ctx context.Context, location string) error
}

// Janitor deletes replaced or orphaned assets in the background so request
// handlers never wait on the object store twice.
type Janitor struct {
	deleter  AssetDeleter
	logger   *slog.Logger
	jobs     chan string
	attempts int
	backoff  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	mu     sync.Mutex
	closed bool
}

// NewJanitor starts workers draining the deletion queue.
func NewJanitor(deleter AssetDeleter, logger *slog.Logger, queueSize, workers int) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &Janitor{
		deleter:  deleter,
		logger:   logger,
		jobs:     make(chan string, queueSize),
		attempts: 3,
		backoff:  2 * time.Second,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < workers; i++ {
		j.wg.Add(1)
		go j.worker()
	}

	return j
}

// Enqueue schedules an asset for deletion. It blocks only when the queue is
// full and gives up if the caller's context or the janitor itself is done.
// The mutex is held across the send so Shutdown cannot close the queue
// underneath a racing caller.
func (j *Janitor) Enqueue(ctx context.Context, location string) error {
	if location == "" {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrJanitorStopped
	}

	select {
	case j.jobs <- location:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-j.ctx.Done():
		return ErrJanitorStopped
	}
}

// Shutdown stops accepting work and waits for in-flight deletions, bounded by ctx.
func (j *Janitor) Shutdown(ctx context.Context) error {
	j.once.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.jobs)
		j.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.cancel()
		return nil
	case <-ctx.Done():
		j.cancel()
		return ctx.Err()
	}
}

func (j *Janitor) worker() {
	defer j.wg.Done()

	for location := range j.jobs {
		j.delete(location)
	}
}

func (j *Janitor) delete(location string) {
	var err error
	for attempt := 1; attempt <= j.attempts; attempt++ {
		err = j.deleter.Delete(j.ctx, location)
		if err == nil {
			j.logger.Debug("deleted stored asset", "location", location)
			return
		}
		if j.ctx.Err() != nil {
			break
		}
		if attempt < j.attempts {
			select {
			case <-time.After(j.backoff * time.Duration(attempt)):
			case <-j.ctx.Done():
			}
		}
	}

	j.logger.Error("failed to delete stored asset", "location", location, "error", err)
}
