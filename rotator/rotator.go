// Package rotator runs the adaptive rename loop for one business
// connection and reacts to connection lifecycle events.
package rotator

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/telegram"
)

type loopHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (h *loopHandle) finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Rotator owns the connection state, the variant pool and the interval.
type Rotator struct {
	ctx      context.Context
	setter   *Setter
	interval *common.Interval
	pool     []string
	baseName string
	pick     func(n int) int
	observer Observer
	logger   common.Logger

	mu           sync.Mutex
	connectionID string
	loop         *loopHandle
	closed       bool
}

// New builds a Rotator whose loops live at most as long as ctx.
func New(ctx context.Context, setter *Setter, opts ...Option) (*Rotator, error) {
	if ctx == nil {
		return nil, common.NewNamecyclerError("context cannot be nil", common.ErrTypeValidation, nil)
	}
	if setter == nil {
		return nil, common.NewNamecyclerError("setter cannot be nil", common.ErrTypeValidation, nil)
	}

	cfg := defaultRotatorConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Rotator{
		ctx:      ctx,
		setter:   setter,
		interval: common.NewInterval(cfg.policy),
		pool:     cfg.pool(),
		baseName: cfg.baseName,
		pick:     cfg.pick,
		observer: cfg.observer,
		logger:   cfg.logger,
	}

	r.logger.Info("Generated name variants", "count", len(r.pool), "base", r.baseName)
	return r, nil
}

// Start (re)launches the rename loop. A loop that is already running is
// cancelled but not waited for.
func (r *Rotator) Start() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("Ignoring start after shutdown")
		return
	}
	if r.loop != nil && !r.loop.finished() {
		r.loop.cancel()
	}

	cur := r.interval.Reset()
	ctx, cancel := context.WithCancel(r.ctx)
	h := &loopHandle{cancel: cancel, done: make(chan struct{})}
	r.loop = h
	r.observer.LoopStateChanged(true)
	r.mu.Unlock()

	r.logger.Info("Interval reset", "interval", cur)
	r.observer.IntervalChanged(cur)

	go r.run(ctx, h)
	r.logger.Info("Rename loop launched")
}

// Stop requests cancellation of the running loop. It returns
// ErrNotRunning when there is nothing to stop.
func (r *Rotator) Stop() error {
	r.mu.Lock()
	h := r.loop
	r.mu.Unlock()

	if h == nil || h.finished() {
		return common.ErrNotRunning
	}
	h.cancel()
	r.logger.Info("Rename loop stop requested")
	return nil
}

// Shutdown stops the loop and waits for it to exit or for ctx to expire.
// Later Start calls are ignored.
func (r *Rotator) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	h := r.loop
	if h != nil {
		h.cancel()
	}
	r.mu.Unlock()

	r.logger.Info("Shutting down rotator")
	if h == nil {
		return nil
	}

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleBusinessConnection stores the connection id and starts or stops
// the loop depending on whether the connection is enabled.
func (r *Rotator) HandleBusinessConnection(conn telegram.BusinessConnection) {
	r.mu.Lock()
	r.connectionID = conn.ID
	r.mu.Unlock()

	r.logger.Info("Business connection changed",
		"connectionId", conn.ID,
		"user", conn.User.FirstName,
		"username", conn.User.Username,
		"enabled", conn.IsEnabled)

	if conn.IsEnabled {
		r.Start()
		return
	}

	r.logger.Warn("Business connection is not enabled", "connectionId", conn.ID)
	if err := r.Stop(); err != nil {
		r.logger.Debug("Nothing to stop", "connectionId", conn.ID, "error", err)
	}
}

func (r *Rotator) ConnectionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectionID
}

// SetConnectionID binds the loop to a connection without starting it.
func (r *Rotator) SetConnectionID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectionID = id
}

func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loop != nil && !r.loop.finished()
}

func (r *Rotator) Interval() time.Duration {
	return r.interval.Current()
}

func (r *Rotator) Variants() []string {
	return append([]string(nil), r.pool...)
}

func (r *Rotator) run(ctx context.Context, h *loopHandle) {
	defer r.loopExited(h)

	policy := r.interval.Policy()
	r.logger.Info("Rename loop started",
		"base", r.baseName,
		"minInterval", policy.Min,
		"maxInterval", policy.Max)

	var count int64
	for {
		connectionID := r.ConnectionID()
		if connectionID == "" {
			r.logger.Warn("Waiting for a business connection", "error", common.ErrNoConnection)
			if common.Sleep(ctx, r.interval.Current()) != nil {
				return
			}
			continue
		}

		name := r.pool[r.pick(len(r.pool))]
		count++
		r.logger.Info("Renaming",
			"attempt", count,
			"name", name,
			"interval", r.interval.Current())

		r.attempt(ctx, connectionID, name)

		wait := r.interval.Current()
		r.logger.Info("Waiting", "interval", wait, "progress", fmt.Sprintf("%.1f%%", r.interval.Progress()))
		if common.Sleep(ctx, wait) != nil {
			return
		}
	}
}

func (r *Rotator) attempt(ctx context.Context, connectionID, name string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Rename attempt panicked",
				"panic", rec,
				"stack", string(debug.Stack()))
		}
	}()

	a := r.setter.Apply(ctx, connectionID, name)

	for _, o := range a.Outcomes() {
		if o.RateLimited() {
			r.increase(o.Path + " rate limited")
		}
	}
	if a.OK() {
		r.increase("success")
	}

	r.observer.AttemptFinished(a)
}

func (r *Rotator) increase(reason string) {
	old, cur := r.interval.Increase()
	if old == cur {
		return
	}
	r.logger.Info("Interval increased", "from", old, "to", cur, "reason", reason)
	r.observer.IntervalChanged(cur)
}

func (r *Rotator) loopExited(h *loopHandle) {
	r.mu.Lock()
	close(h.done)
	if r.loop == h {
		r.observer.LoopStateChanged(false)
	}
	r.mu.Unlock()

	r.logger.Info("Rename loop stopped")
}
