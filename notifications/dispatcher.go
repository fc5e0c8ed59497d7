package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"houseshow-backend/services"
)

const (
	DefaultQueueSize = 256
	deliveryTimeout  = 10 * time.Second
)

// Sink delivers one notice over one channel (mail, push, log...).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n services.TransitionNotice) error
}

// Dispatcher fans committed transitions out to sinks in the background.
// Publish never blocks: when the queue is full the notice is dropped.
type Dispatcher struct {
	queue chan services.TransitionNotice
	sinks []Sink
	log   *zap.SugaredLogger

	// mu orders Publish against stop so nothing is enqueued after the final drain.
	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

func NewDispatcher(size int, log *zap.SugaredLogger, sinks ...Sink) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Dispatcher{
		queue: make(chan services.TransitionNotice, size),
		sinks: sinks,
		log:   log,
		done:  make(chan struct{}),
	}
}

func (d *Dispatcher) Publish(n services.TransitionNotice) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.log.Warnw("notification dropped after shutdown", "booking_id", n.BookingID, "to", n.To)
		return
	}
	select {
	case d.queue <- n:
	default:
		d.log.Warnw("notification queue full, dropping notice", "booking_id", n.BookingID, "to", n.To)
	}
}

// Run delivers queued notices until ctx is done, then drains what is left.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		case <-ctx.Done():
			d.stop()
			d.drain()
			return
		}
	}
}

// Done is closed once Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

func (d *Dispatcher) drain() {
	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(n services.TransitionNotice) {
	for _, sink := range d.sinks {
		if err := d.deliverTo(sink, n); err != nil {
			d.log.Warnw("notification delivery failed",
				"sink", sink.Name(),
				"booking_id", n.BookingID,
				"to", n.To,
				"error", err,
			)
		}
	}
}

func (d *Dispatcher) deliverTo(sink Sink, n services.TransitionNotice) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	return sink.Deliver(ctx, n)
}
