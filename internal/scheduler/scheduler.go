// Package scheduler refreshes the search engine's inventory on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrRefreshThrottled is returned by Trigger when manual refreshes arrive
// faster than the configured minimum interval.
var ErrRefreshThrottled = errors.New("refresh throttled: try again later")

// Refresher is implemented by the search engine.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ErrorReporter receives every failed refresh.
type ErrorReporter func(err error)

// Scheduler calls Refresh every interval from a single goroutine, so two
// refreshes started by the scheduler never overlap.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	limiter   *rate.Limiter
	report    ErrorReporter
	logger    *zap.Logger

	trigger  chan struct{}
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. The default error reporter logs to it.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithErrorReporter replaces the default error reporter.
func WithErrorReporter(r ErrorReporter) Option {
	return func(s *Scheduler) { s.report = r }
}

// WithMinTriggerInterval limits Trigger to one call per d. Zero disables the limit.
func WithMinTriggerInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRefreshTimeout bounds each refresh. Zero means no bound beyond the fetcher's own.
func WithRefreshTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

// New creates a scheduler that refreshes r every interval.
func New(r Refresher, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		refresher: r,
		interval:  interval,
		limiter:   rate.NewLimiter(rate.Every(30*time.Second), 1),
		logger:    zap.NewNop(),
		trigger:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.report == nil {
		logger := s.logger
		s.report = func(err error) {
			logger.Error("scheduled inventory refresh failed", zap.Error(err))
		}
	}
	return s
}

// Start runs the refresh loop until ctx is cancelled or Stop is called.
// The first timed refresh happens one interval after Start.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.started = true
	s.logger.Info("refresh scheduler started", zap.Duration("interval", s.interval))
	go s.run(ctx)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx, "timer")
		case <-s.trigger:
			s.refresh(ctx, "manual")
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context, reason string) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.logger.Debug("refreshing inventory", zap.String("reason", reason))
	if err := s.refresher.Refresh(ctx); err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return
		}
		s.report(err)
	}
}

// Trigger asks the loop for an immediate refresh. It does not wait for the
// refresh to finish. A trigger while one is already pending is coalesced.
func (s *Scheduler) Trigger() error {
	if !s.limiter.Allow() {
		return ErrRefreshThrottled
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return nil
}

// Stop stops the loop and waits for an in-progress refresh to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		started := s.started
		cancel := s.cancel
		s.mu.Unlock()
		if !started {
			return
		}
		cancel()
		<-s.done
		s.logger.Info("refresh scheduler stopped")
	})
}
