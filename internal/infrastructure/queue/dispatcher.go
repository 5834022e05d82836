package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccontapub/accounts-api/internal/api/metrics"
	"github.com/ccontapub/accounts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

const (
	kindConfirmation  = "confirmation"
	kindPasswordReset = "password_reset"
)

type mailJob struct {
	kind         string
	notification ports.Notification
}

// Dispatcher decouples notification delivery from the request path. It
// implements ports.Notifier itself: Send* enqueue and return
// immediately, and a fixed set of workers performs the actual delivery.
// Jobs are sharded by recipient so messages to the same address keep
// their order.
type Dispatcher struct {
	workers  []chan mailJob
	delegate ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher delivering through delegate with
// numWorkers sharded workers. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, delegate ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan mailJob, numWorkers),
		delegate: delegate,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// SendConfirmation enqueues a confirmation message. Always returns nil:
// delivery failures are handled (logged and counted) by the worker.
func (d *Dispatcher) SendConfirmation(_ context.Context, n ports.Notification) error {
	d.enqueue(mailJob{kind: kindConfirmation, notification: n})
	return nil
}

// SendPasswordReset enqueues a password reset message.
func (d *Dispatcher) SendPasswordReset(_ context.Context, n ports.Notification) error {
	d.enqueue(mailJob{kind: kindPasswordReset, notification: n})
	return nil
}

// enqueue routes a job to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) enqueue(job mailJob) {
	i := d.shardIndex(job.notification.Email)
	d.workers[i] <- job
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan mailJob) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			d.deliver(ctx, id, job)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, job mailJob) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	var err error
	switch job.kind {
	case kindPasswordReset:
		err = d.delegate.SendPasswordReset(sendCtx, job.notification)
	default:
		err = d.delegate.SendConfirmation(sendCtx, job.notification)
	}
	metrics.NotificationSendDuration.WithLabelValues(job.kind).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsSentTotal.WithLabelValues(job.kind, "error").Inc()
		d.log.Error().Err(err).
			Str("email", job.notification.Email).
			Str("kind", job.kind).
			Int("worker_id", id).
			Msg("notification delivery failed")
		return
	}

	metrics.NotificationsSentTotal.WithLabelValues(job.kind, "ok").Inc()
}
