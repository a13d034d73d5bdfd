package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jerilmartin/rankprobe/internal/domain"
)

const (
	// defaultWorkers is the number of scans processed concurrently
	defaultWorkers = 4
	// defaultQueueSize is the pending backlog before submissions are rejected
	defaultQueueSize = 64
	// defaultScanTimeout bounds a single scan end to end
	defaultScanTimeout = 5 * time.Minute
	// notifyTimeout bounds a completion notification delivery
	notifyTimeout = 15 * time.Second
)

// Notifier receives scan completion events.
type Notifier interface {
	// ScanFinished is called once a scan reaches a terminal state
	ScanFinished(ctx context.Context, sc Scan) error
}

// Runner owns the scan queue and its worker pool. Submissions are validated
// and enqueued immediately; workers pick scans up and drive them through the
// pipeline.
type Runner struct {
	store     Store
	pipeline  *Pipeline
	notifier  Notifier
	queue     chan string
	workers   int
	queueSize int
	timeout   time.Duration
	wg        sync.WaitGroup
}

// RunnerOption configures the Runner
type RunnerOption func(*Runner)

// WithWorkers sets the number of scans processed concurrently
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithQueueSize sets the pending backlog before submissions are rejected
func WithQueueSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithScanTimeout bounds a single scan end to end
func WithScanTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithNotifier sets the completion notifier
func WithNotifier(notifier Notifier) RunnerOption {
	return func(r *Runner) {
		if notifier != nil {
			r.notifier = notifier
		}
	}
}

// NewRunner creates a scan runner backed by the given store and pipeline.
func NewRunner(store Store, pipeline *Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:     store,
		pipeline:  pipeline,
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		timeout:   defaultScanTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.queue = make(chan string, r.queueSize)

	return r
}

// Start launches the worker pool. Workers stop picking up scans when ctx is
// canceled; a scan already running finishes on its own detached context.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)

		go r.worker(ctx)
	}
}

// Wait blocks until every worker has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Submit validates the target, registers a new scan, and enqueues it for
// the next free worker. The scan id is returned immediately; callers poll
// the store until the status is terminal.
func (r *Runner) Submit(rawURL string) (string, error) {
	info, err := domain.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	sc := &Scan{
		ID:        uuid.NewString(),
		URL:       info.URL,
		Domain:    info.Domain,
		Status:    StatusEnqueued,
		CreatedAt: time.Now().UTC(),
	}

	r.store.Create(sc)

	select {
	case r.queue <- sc.ID:
	default:
		r.store.Remove(sc.ID)

		return "", ErrQueueFull
	}

	log.Info().Str("scan_id", sc.ID).Str("domain", sc.Domain).Msg("scan enqueued")

	return sc.ID, nil
}

// worker claims enqueued scans until ctx is canceled.
func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case id := <-r.queue:
			r.run(id)
		}
	}
}

// run drives one scan through the pipeline. The pipeline gets its own
// context bounded only by the scan timeout, so a server drain or client
// disconnect never aborts probes mid-flight.
func (r *Runner) run(id string) {
	sc, ok := r.store.Get(id)
	if !ok {
		return
	}

	r.store.SetRunning(id)
	log.Info().Str("scan_id", id).Str("domain", sc.Domain).Msg("scan started")

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	result, err := r.pipeline.Run(ctx, sc.URL, func(step string, percent int) {
		r.store.SetProgress(id, step, percent)
	})
	if err != nil {
		log.Warn().Err(err).Str("scan_id", id).Str("domain", sc.Domain).Msg("scan failed")
		r.store.SetFail(id, err.Error())
	} else {
		log.Info().Str("scan_id", id).Str("domain", sc.Domain).Int("health_score", result.HealthScore).Msg("scan complete")
		r.store.SetComplete(id, result)
	}

	r.notify(id)
}

// notify posts the completion summary when a notifier is configured.
// Delivery failures are logged and never affect the scan outcome.
func (r *Runner) notify(id string) {
	if r.notifier == nil {
		return
	}

	sc, ok := r.store.Get(id)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := r.notifier.ScanFinished(ctx, sc); err != nil {
		log.Error().Err(err).Str("scan_id", id).Msg("scan notification failed")
	}
}
