package component

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asakaida/dirschema/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultQueueSize is the event queue capacity used when none is configured.
const DefaultQueueSize = 64

// Reducer folds a message into the component state.
// It returns the next state, whether the view must be re-rendered, and an error.
// When err is non-nil the returned state is ignored.
type Reducer[S, M any] interface {
	Reduce(state S, msg M) (next S, rerender bool, err error)
}

// ReducerFunc adapts a function to the Reducer interface.
type ReducerFunc[S, M any] func(state S, msg M) (S, bool, error)

// Reduce calls f(state, msg).
func (f ReducerFunc[S, M]) Reduce(state S, msg M) (S, bool, error) {
	return f(state, msg)
}

// Query is an asynchronous remote call producing a typed response.
type Query[R any] func(ctx context.Context) (R, error)

// Recorder receives component metrics. *metrics.Collector implements it.
type Recorder interface {
	RecordMessage(component string)
	RecordFailure(component, source string)
	RecordStale(component string)
}

type options struct {
	logger    zerolog.Logger
	recorder  Recorder
	queueSize int
	strict    bool
}

// Option configures a Core.
type Option func(*options)

// WithLogger sets the logger used for component events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithQueueSize sets the event queue capacity.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithStrict makes contract violations panic instead of being stored as internal failures.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

type event[M any] struct {
	msg        M
	failure    *Failure
	action     func() bool
	fromQuery  bool
	generation uint64
	queryID    string
}

// Core is the generic state holder of a remote-backed component.
type Core[S, M any] struct {
	name    string
	reducer Reducer[S, M]
	opts    options

	state      S
	failure    *Failure
	generation uint64
	onRender   func(state S, failure *Failure)

	queue     chan event[M]
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a component core in the given initial state.
func New[S, M any](name string, initial S, reducer Reducer[S, M], opts ...Option) *Core[S, M] {
	o := options{
		logger:    zerolog.Nop(),
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("component", name).Logger()

	return &Core[S, M]{
		name:    name,
		reducer: reducer,
		opts:    o,
		state:   initial,
		queue:   make(chan event[M], o.queueSize),
		done:    make(chan struct{}),
	}
}

// Name returns the component name used in logs and metrics.
func (c *Core[S, M]) Name() string {
	return c.name
}

// State returns the current state.
func (c *Core[S, M]) State() S {
	return c.state
}

// Failure returns the stored failure, or nil.
func (c *Core[S, M]) Failure() *Failure {
	return c.failure
}

// Err returns the stored failure as an error, or nil.
func (c *Core[S, M]) Err() error {
	if c.failure == nil {
		return nil
	}
	return c.failure
}

// Generation returns the generation of the most recently initiated query.
func (c *Core[S, M]) Generation() uint64 {
	return c.generation
}

// OnRender sets the hook invoked after every event that requested a re-render.
// The hook runs on the loop goroutine and must not retain the state past the call
// unless the state is treated as immutable.
func (c *Core[S, M]) OnRender(fn func(state S, failure *Failure)) {
	c.onRender = fn
}

// InitiateQuery fires query in its own goroutine and returns immediately.
// The outcome is delivered as exactly one queued event: onSuccess(response) when the
// query succeeds, a SourceQuery failure qualified by failureContext otherwise.
// It returns the generation assigned to the query.
func InitiateQuery[S, M, R any](ctx context.Context, c *Core[S, M], query Query[R], onSuccess func(R) M, failureContext string) uint64 {
	c.generation++
	gen := c.generation
	queryID := uuid.NewString()

	ctx = logger.WithRequestID(ctx, queryID)
	c.opts.logger.Debug().
		Str("query_id", queryID).
		Uint64("generation", gen).
		Msg("query initiated")

	go func() {
		resp, err := query(ctx)
		ev := event[M]{fromQuery: true, generation: gen, queryID: queryID}
		if err != nil {
			ev.failure = &Failure{Source: SourceQuery, Context: failureContext, QueryID: queryID, Err: err}
		} else {
			ev.msg = onSuccess(resp)
		}
		if !c.enqueue(ev) {
			c.opts.logger.Debug().Str("query_id", queryID).Msg("query resolved after close")
		}
	}()

	return gen
}

// Send enqueues a message reported by a child component.
func (c *Core[S, M]) Send(ctx context.Context, msg M) error {
	if c.closed() {
		return ErrClosed
	}
	select {
	case c.queue <- event[M]{msg: msg}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// Invoke enqueues fn to run on the loop goroutine between two events.
// fn may read the state, call Dispatch or InitiateQuery; its result requests a re-render.
func (c *Core[S, M]) Invoke(ctx context.Context, fn func() bool) error {
	if c.closed() {
		return ErrClosed
	}
	select {
	case c.queue <- event[M]{action: fn}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// Dispatch folds msg into the state through the reducer and reports whether a
// re-render is needed. Reducer errors are stored in the failure slot and always
// request a re-render; the state is left unchanged.
func (c *Core[S, M]) Dispatch(msg M) bool {
	next, rerender, err := c.reducer.Reduce(c.state, msg)
	if err != nil {
		if errors.Is(err, ErrContractViolation) {
			if c.opts.strict {
				panic(fmt.Sprintf("%s: %v", c.name, err))
			}
			c.opts.logger.Error().Err(err).Msg("internal consistency error, message dropped")
			c.setFailure(&Failure{Source: SourceInternal, Err: err})
			return true
		}
		c.setFailure(&Failure{Source: SourceMessage, Err: err})
		return true
	}

	c.state = next
	return rerender
}

// Next waits for one queued event and processes it.
func (c *Core[S, M]) Next(ctx context.Context) (bool, error) {
	if c.closed() {
		return false, ErrClosed
	}
	select {
	case ev := <-c.queue:
		return c.process(ev), nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-c.done:
		return false, ErrClosed
	}
}

// Run processes events until ctx is done or Close is called.
// It returns nil after Close and ctx.Err() on cancellation.
func (c *Core[S, M]) Run(ctx context.Context) error {
	c.render()
	for {
		if _, err := c.Next(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// Close stops the loop and releases goroutines blocked on the queue.
// Events still queued are dropped.
func (c *Core[S, M]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Core[S, M]) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Core[S, M]) enqueue(ev event[M]) bool {
	if c.closed() {
		return false
	}
	select {
	case c.queue <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *Core[S, M]) process(ev event[M]) bool {
	if c.opts.recorder != nil {
		c.opts.recorder.RecordMessage(c.name)
	}

	var rerender bool
	switch {
	case ev.action != nil:
		rerender = ev.action()
	case ev.fromQuery && ev.generation != c.generation:
		c.opts.logger.Debug().
			Str("query_id", ev.queryID).
			Uint64("generation", ev.generation).
			Uint64("current_generation", c.generation).
			Msg("stale query resolution discarded")
		if c.opts.recorder != nil {
			c.opts.recorder.RecordStale(c.name)
		}
		return false
	case ev.failure != nil:
		c.setFailure(ev.failure)
		rerender = true
	default:
		rerender = c.Dispatch(ev.msg)
	}

	if rerender {
		c.render()
	}
	return rerender
}

func (c *Core[S, M]) render() {
	if c.onRender != nil {
		c.onRender(c.state, c.failure)
	}
}

func (c *Core[S, M]) setFailure(f *Failure) {
	c.failure = f
	c.opts.logger.Warn().
		Err(f).
		Str("source", f.Source.String()).
		Str("query_id", f.QueryID).
		Msg("component failure")
	if c.opts.recorder != nil {
		c.opts.recorder.RecordFailure(c.name, f.Source.String())
	}
}
