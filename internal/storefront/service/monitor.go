package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/events"
)

const DefaultMonitorInterval = 30 * time.Second

type MonitorOptions struct {
	// CheckOnStart runs a check as soon as the monitor starts.
	CheckOnStart bool

	// CheckOnInterval runs a check every Interval.
	CheckOnInterval bool

	// Interval defaults to DefaultMonitorInterval.
	Interval time.Duration

	// RedirectOnInvalid hands invalid verdicts to the invalidator when no
	// OnInvalid callback is set. Otherwise they are only logged.
	RedirectOnInvalid bool

	// OnInvalid replaces the default handling of an invalid verdict. It is
	// called once per invalid streak, not on every check: after it fires
	// the monitor waits for a valid verdict or a login event before calling
	// it again.
	OnInvalid func(ctx context.Context, v domain.Verdict)
}

// Monitor re-validates the session on a timer and on demand. It reports an
// invalid verdict once and stays quiet until the session has been valid
// again, so a logged out user is not told so on every tick.
type Monitor struct {
	validator   Checker
	invalidator SessionEnder
	logger      *slog.Logger
	opts        MonitorOptions

	checkCh chan struct{}

	mu       sync.Mutex
	stop     func()
	done     chan struct{}
	reported bool
	last     domain.Verdict
	checked  bool
}

func NewMonitor(validator Checker, invalidator SessionEnder, logger *slog.Logger, opts MonitorOptions) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultMonitorInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		validator:   validator,
		invalidator: invalidator,
		logger:      logger,
		opts:        opts,
		checkCh:     make(chan struct{}, 1),
	}
}

// Start launches the background loop and returns the function that stops
// it. Stop is idempotent and waits for an in-flight check to finish.
// Starting a running monitor returns the existing stop function.
func (m *Monitor) Start(ctx context.Context) (stop func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil && !isClosed(m.done) {
		return m.stop
	}

	// A request queued while stopped belongs to a previous run.
	select {
	case <-m.checkCh:
	default:
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	m.done = doneCh
	go m.run(ctx, stopCh, doneCh)

	var once sync.Once
	stop = func() {
		once.Do(func() {
			close(stopCh)
			<-doneCh

			m.mu.Lock()
			if m.done == doneCh {
				m.stop = nil
			}
			m.mu.Unlock()

			m.logger.Debug("auth monitor stopped")
		})
	}
	m.stop = stop

	m.logger.Debug("auth monitor started",
		"interval", m.opts.Interval,
		"check_on_start", m.opts.CheckOnStart,
		"check_on_interval", m.opts.CheckOnInterval,
	)
	return stop
}

// CheckNow asks the running loop for a check. Requests made while one is
// already queued are coalesced. It does nothing when the monitor is stopped.
func (m *Monitor) CheckNow() {
	select {
	case m.checkCh <- struct{}{}:
	default:
	}
}

// Check validates synchronously and handles the verdict like the loop does.
func (m *Monitor) Check(ctx context.Context) domain.Verdict {
	v := m.validator.Validate(ctx)
	m.report(ctx, v)
	return v
}

// Last returns the most recent verdict and whether any check has run.
func (m *Monitor) Last() (domain.Verdict, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.checked
}

// SessionChanged keeps the monitor in step with sign-ins and logouts made
// elsewhere. A session that was ended on purpose counts as already reported.
// It has the events.Handler signature so it can subscribe to the bus.
func (m *Monitor) SessionChanged(_ context.Context, ev events.AuthChanged) {
	m.mu.Lock()
	m.reported = !ev.Authenticated
	m.mu.Unlock()

	m.CheckNow()
}

func (m *Monitor) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	var tick <-chan time.Time
	if m.opts.CheckOnInterval {
		ticker := time.NewTicker(m.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	if m.opts.CheckOnStart {
		m.Check(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-tick:
			m.Check(ctx)
		case <-m.checkCh:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) report(ctx context.Context, v domain.Verdict) {
	m.mu.Lock()
	m.last = v
	m.checked = true
	if v.Valid {
		m.reported = false
		m.mu.Unlock()
		return
	}
	if m.reported {
		m.mu.Unlock()
		return
	}
	m.reported = true
	m.mu.Unlock()

	switch {
	case m.opts.OnInvalid != nil:
		m.opts.OnInvalid(ctx, v)
	case m.opts.RedirectOnInvalid && m.invalidator != nil:
		m.invalidator.Invalidate(ctx, string(v.Reason), v.Message)
	default:
		m.logger.WarnContext(ctx, "session is no longer valid", "reason", v.Reason)
	}
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
