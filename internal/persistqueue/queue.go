// Package persistqueue provides a small sharded work queue that guarantees
// FIFO order per key while allowing parallelism across shards. The SDK uses
// it to serialize state snapshot writes per storage key so store mutations
// never block on the persistence backend.
//
// Contract: callers must not invoke Submit concurrently for the *same* key;
// FIFO ordering relies on that external serialisation.
package persistqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	sdkerrors "github.com/lucidwell/lucidwell-client/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// Queue executes Jobs on worker goroutines partitioned by a stable hash of
// the key. FIFO ordering is preserved within a shard; jobs with different
// keys may run in parallel.
type Queue struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 running, 1 closed

	wg sync.WaitGroup
}

// NewQueue constructs the queue and starts its shard workers.
func NewQueue(cfg Config) *Queue {
	if cfg.Shards <= 0 {
		cfg.Shards = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 50 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	q := &Queue{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		q.queues[i] = ch
		q.wg.Add(1)
		go q.runWorker(i, ch)
	}
	return q
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrQueueClosed if the queue is stopped.
//   - Returns a *QueueFullError (matching ErrQueueFull) if the shard is still
//     full after EnqueueTimeout.
//   - Returns ctx.Err() if the caller's context is cancelled first.
func (q *Queue) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&q.closed) == 1 {
		return ErrQueueClosed
	}
	// Complementary check: done may already be closed even if the flag
	// change was missed.
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	qj := queuedJob{ctx: ctx, job: job}
	shard := q.shardFor(key)
	ch := q.queues[shard]

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil

	case <-q.done: // Stop() may race with a full shard
		return ErrQueueClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{
			Shard:    shard,
			Length:   len(ch),
			Capacity: cap(ch),
		}
	}
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// guaranteeing that all previously submitted jobs for that key have finished.
func (q *Queue) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := q.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop signals every worker to drain its queue, waits for them to terminate,
// and returns. Idempotent and safe for concurrent use.
func (q *Queue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return
	}
	close(q.done)
	q.wg.Wait()
	log.Debug().Int("shards", q.cfg.Shards).Msg("persistqueue: stopped, all shards drained")
}

// Close lets Queue satisfy io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (q *Queue) runWorker(idx int, ch <-chan queuedJob) {
	defer q.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("shard", idx).Interface("panic", r).Msg("persistqueue: worker panic")
		}
	}()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}

			// Honour the submitting context so a cancelled job doesn't
			// stall the shard.
			select {
			case <-qj.ctx.Done():
				q.safeHandleError(qj.ctx.Err())
			default:
				q.runWithRetry(label, qj)
			}

			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-q.done:
			// Drain remaining jobs in FIFO order, then exit.
			for {
				select {
				case qj := <-ch:
					if qj.job != nil {
						_ = qj.job.Run(qj.ctx)
					}
				default:
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// runWithRetry runs one job, retrying recoverable failures with exponential
// backoff up to MaxAttempts.
func (q *Queue) runWithRetry(label string, qj queuedJob) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = q.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = q.cfg.MaxInterval
	exp.Reset()

	attempts := 0
	for {
		start := time.Now()
		err := qj.job.Run(qj.ctx)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil {
			return
		}
		if sdkerrors.IsIrrecoverable(err) {
			q.safeHandleError(err)
			return
		}
		if attempts >= q.cfg.MaxAttempts-1 {
			q.safeHandleError(err)
			return
		}

		attempts++
		select {
		case <-time.After(exp.NextBackOff()):
		case <-q.done:
			return
		case <-qj.ctx.Done():
			q.safeHandleError(qj.ctx.Err())
			return
		}
	}
}

func (q *Queue) safeHandleError(err error) {
	if err == nil || q.cfg.ErrorHandler == nil {
		return
	}
	func() {
		// Guard against panics in the user-supplied handler.
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("persistqueue: error handler panic")
			}
		}()
		q.cfg.ErrorHandler(err)
	}()
}

func (q *Queue) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % q.cfg.Shards
}
