package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// errRetryable marks handler failures worth retrying. Handlers wrap errors
// with Retryable to request the backoff schedule; everything else fails
// permanently on the first attempt.
var errRetryable = errors.New("retryable")

// Retryable marks err as retryable for the dispatcher.
func Retryable(err error) error {
	return fmt.Errorf("%w: %w", errRetryable, err)
}

// Handler reacts to events observed on attached topics. Implementations run
// concurrently with each other and must not assume any cross-handler order.
type Handler interface {
	Name() string
	Handle(ctx context.Context, topic string, ev Event) error
}

type handlerFunc struct {
	name string
	fn   func(ctx context.Context, topic string, ev Event) error
}

func (h handlerFunc) Name() string { return h.name }
func (h handlerFunc) Handle(ctx context.Context, topic string, ev Event) error {
	return h.fn(ctx, topic, ev)
}

// NewHandler adapts a function to the Handler interface.
func NewHandler(name string, fn func(ctx context.Context, topic string, ev Event) error) Handler {
	return handlerFunc{name: name, fn: fn}
}

// DispatcherConfig tunes invocation isolation.
type DispatcherConfig struct {
	// Timeout bounds a single handler invocation.
	Timeout time.Duration
	// MaxRetries is the number of re-invocations after the first failure.
	MaxRetries int
	// BackoffBase is the first retry delay; it doubles per attempt.
	BackoffBase time.Duration
	// QueueSize bounds each handler's per-topic backlog.
	QueueSize int
	// PoolSize bounds concurrently running handler bodies.
	PoolSize int
}

// DefaultDispatcherConfig mirrors the documented defaults: 5s timeout,
// 3 retries, 100ms doubling backoff.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Timeout:     5 * time.Second,
		MaxRetries:  3,
		BackoffBase: 100 * time.Millisecond,
		QueueSize:   64,
		PoolSize:    256,
	}
}

// Dispatcher layers a static handler list over the bus. For every event on
// an attached topic each handler is invoked independently: its own ordered
// queue, its own timeout and retry budget. One handler failing or stalling
// never delays another handler or the publisher.
type Dispatcher struct {
	bus      *Bus
	cfg      DispatcherConfig
	log      *zap.Logger
	pool     *ants.Pool
	handlers []Handler

	mu     sync.Mutex
	topics map[string]*attachment
	wg     sync.WaitGroup
}

type attachment struct {
	sub    *Subscription
	queues []chan Event
}

// NewDispatcher builds a dispatcher over bus. Register all handlers before
// the first Attach; the handler list is static afterwards.
func NewDispatcher(bus *Bus, cfg DispatcherConfig, log *zap.Logger) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("dispatcher pool: %w", err)
	}
	return &Dispatcher{
		bus:    bus,
		cfg:    cfg,
		log:    log,
		pool:   pool,
		topics: make(map[string]*attachment),
	}, nil
}

// Register appends a handler to the static list.
func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.topics) > 0 {
		panic("dispatcher: Register after Attach")
	}
	d.handlers = append(d.handlers, h)
}

// Attach subscribes the dispatcher to a topic and starts delivering its
// events to every handler. Attaching an already attached topic is a no-op.
func (d *Dispatcher) Attach(topic string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.topics[topic]; ok {
		return
	}

	att := &attachment{sub: d.bus.Subscribe(topic)}
	for _, h := range d.handlers {
		q := make(chan Event, d.cfg.QueueSize)
		att.queues = append(att.queues, q)
		d.wg.Add(1)
		go d.handlerLoop(topic, h, q)
	}
	d.topics[topic] = att

	d.wg.Add(1)
	go d.fanLoop(topic, att)
}

// Detach unsubscribes from a topic and drains its handler queues.
func (d *Dispatcher) Detach(topic string) {
	d.mu.Lock()
	att, ok := d.topics[topic]
	if ok {
		delete(d.topics, topic)
	}
	d.mu.Unlock()
	if ok {
		d.bus.Unsubscribe(att.sub)
	}
}

// Close detaches every topic, waits for in-flight handlers and releases the
// worker pool.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	topics := make([]string, 0, len(d.topics))
	for t := range d.topics {
		topics = append(topics, t)
	}
	d.mu.Unlock()
	for _, t := range topics {
		d.Detach(t)
	}
	d.wg.Wait()
	d.pool.Release()
}

// fanLoop copies the subscription stream into each handler's private queue.
// Queues are bounded: a handler that cannot keep up loses events instead of
// holding back its peers.
func (d *Dispatcher) fanLoop(topic string, att *attachment) {
	defer d.wg.Done()
	for ev := range att.sub.Events() {
		for i, q := range att.queues {
			select {
			case q <- ev:
			default:
				d.log.Warn("handler queue full, dropping event",
					zap.String("topic", topic),
					zap.String("handler", d.handlers[i].Name()),
					zap.String("kind", string(ev.Kind)))
			}
		}
	}
	for _, q := range att.queues {
		close(q)
	}
}

func (d *Dispatcher) handlerLoop(topic string, h Handler, q <-chan Event) {
	defer d.wg.Done()
	for ev := range q {
		d.invoke(topic, h, ev)
	}
}

// invoke runs one handler for one event with timeout and backoff retry.
// Failures are logged, never propagated: this is the isolation boundary
// between publishers and consumers.
func (d *Dispatcher) invoke(topic string, h Handler, ev Event) {
	backoff := d.cfg.BackoffBase
	for attempt := 0; ; attempt++ {
		err := d.invokeOnce(h, topic, ev)
		if err == nil {
			return
		}

		retry := errors.Is(err, errRetryable) || errors.Is(err, context.DeadlineExceeded)
		if !retry {
			d.log.Error("handler failed",
				zap.String("topic", topic),
				zap.String("handler", h.Name()),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err))
			return
		}
		if attempt >= d.cfg.MaxRetries {
			d.log.Error("handler failed permanently",
				zap.String("topic", topic),
				zap.String("handler", h.Name()),
				zap.String("kind", string(ev.Kind)),
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return
		}

		d.log.Warn("handler failed, retrying",
			zap.String("topic", topic),
			zap.String("handler", h.Name()),
			zap.String("kind", string(ev.Kind)),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		time.Sleep(backoff)
		backoff *= 2
	}
}

func (d *Dispatcher) invokeOnce(h Handler, topic string, ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()

	done := make(chan error, 1)
	if err := d.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("handler panic: %v", r)
			}
		}()
		done <- h.Handle(ctx, topic, ev)
	}); err != nil {
		return Retryable(err)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return context.DeadlineExceeded
	}
}
