package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/events"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/testutil"
	"github.com/stretchr/testify/require"
)

// scriptedChecker returns the verdicts it is given, repeating the last one.
type scriptedChecker struct {
	mu       sync.Mutex
	verdicts []domain.Verdict
	calls    int
}

func (c *scriptedChecker) Validate(context.Context) domain.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.calls
	if i >= len(c.verdicts) {
		i = len(c.verdicts) - 1
	}
	c.calls++
	return c.verdicts[i]
}

func (c *scriptedChecker) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var expired = domain.InvalidVerdict(domain.ReasonTokenExpired, "expired")

func TestMonitorReportsInvalidOnce(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{expired}}
	ender := &testutil.RecordingEnder{}

	m := service.NewMonitor(checker, ender, nil, service.MonitorOptions{RedirectOnInvalid: true})
	ctx := context.Background()

	m.Check(ctx)
	m.Check(ctx)
	m.Check(ctx)

	require.Equal(t, 1, ender.Count())
	require.Equal(t, []string{string(domain.ReasonTokenExpired)}, ender.Reasons)
}

func TestMonitorReportsAgainAfterValid(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{
		expired,
		domain.ValidVerdict(),
		expired,
	}}
	ender := &testutil.RecordingEnder{}

	m := service.NewMonitor(checker, ender, nil, service.MonitorOptions{RedirectOnInvalid: true})
	ctx := context.Background()

	m.Check(ctx)
	m.Check(ctx)
	m.Check(ctx)

	require.Equal(t, 2, ender.Count())
}

func TestMonitorCallbackReplacesRedirect(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{expired}}
	ender := &testutil.RecordingEnder{}

	var got []domain.Verdict
	m := service.NewMonitor(checker, ender, nil, service.MonitorOptions{
		RedirectOnInvalid: true,
		OnInvalid:         func(_ context.Context, v domain.Verdict) { got = append(got, v) },
	})

	m.Check(context.Background())

	require.Equal(t, []domain.Verdict{expired}, got)
	require.Zero(t, ender.Count())
}

func TestMonitorCallbackOncePerInvalidStreak(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{expired, expired, domain.ValidVerdict(), expired}}

	calls := 0
	m := service.NewMonitor(checker, nil, nil, service.MonitorOptions{
		OnInvalid: func(context.Context, domain.Verdict) { calls++ },
	})
	ctx := context.Background()

	m.Check(ctx)
	m.Check(ctx)
	require.Equal(t, 1, calls)

	m.Check(ctx)
	m.Check(ctx)
	require.Equal(t, 2, calls)
}

func TestMonitorLogsWithoutRedirect(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{expired}}
	ender := &testutil.RecordingEnder{}

	m := service.NewMonitor(checker, ender, nil, service.MonitorOptions{})
	v := m.Check(context.Background())

	require.False(t, v.Valid)
	require.Zero(t, ender.Count())

	last, ok := m.Last()
	require.True(t, ok)
	require.Equal(t, expired, last)
}

func TestMonitorLastBeforeAnyCheck(t *testing.T) {
	m := service.NewMonitor(&scriptedChecker{verdicts: []domain.Verdict{expired}}, nil, nil, service.MonitorOptions{})

	_, ok := m.Last()
	require.False(t, ok)
}

func TestMonitorCheckOnStart(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{expired}}
	ender := &testutil.RecordingEnder{}

	m := service.NewMonitor(checker, ender, nil, service.MonitorOptions{
		CheckOnStart:      true,
		RedirectOnInvalid: true,
	})

	stop := m.Start(context.Background())
	defer stop()

	require.Eventually(t, func() bool { return ender.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestMonitorInterval(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{domain.ValidVerdict()}}

	m := service.NewMonitor(checker, nil, nil, service.MonitorOptions{
		CheckOnInterval: true,
		Interval:        10 * time.Millisecond,
	})

	stop := m.Start(context.Background())
	require.Eventually(t, func() bool { return checker.Calls() >= 3 }, time.Second, 5*time.Millisecond)
	stop()

	calls := checker.Calls()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, calls, checker.Calls(), "no checks after stop")
}

func TestMonitorCheckNow(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{domain.ValidVerdict()}}

	m := service.NewMonitor(checker, nil, nil, service.MonitorOptions{})

	// Requests made while stopped are dropped on start.
	m.CheckNow()

	stop := m.Start(context.Background())
	defer stop()

	m.CheckNow()
	require.Eventually(t, func() bool { return checker.Calls() >= 1 }, time.Second, 5*time.Millisecond)

	_, ok := m.Last()
	require.True(t, ok)
}

func TestMonitorStartStopIdempotent(t *testing.T) {
	m := service.NewMonitor(&scriptedChecker{verdicts: []domain.Verdict{domain.ValidVerdict()}}, nil, nil, service.MonitorOptions{})

	stop1 := m.Start(context.Background())
	stop2 := m.Start(context.Background())

	require.NotPanics(t, func() {
		stop1()
		stop1()
		stop2()
	})
}

func TestMonitorRestartsAfterContextCancel(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{domain.ValidVerdict()}}
	m := service.NewMonitor(checker, nil, nil, service.MonitorOptions{CheckOnStart: true})

	ctx, cancel := context.WithCancel(context.Background())
	stop := m.Start(ctx)
	require.Eventually(t, func() bool { return checker.Calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	stop()

	stop = m.Start(context.Background())
	defer stop()
	require.Eventually(t, func() bool { return checker.Calls() == 2 }, time.Second, 5*time.Millisecond)
}

func TestMonitorQuietAfterExternalLogout(t *testing.T) {
	checker := &scriptedChecker{verdicts: []domain.Verdict{domain.ValidVerdict(), expired}}
	ender := &testutil.RecordingEnder{}

	m := service.NewMonitor(checker, ender, nil, service.MonitorOptions{RedirectOnInvalid: true})
	ctx := context.Background()

	m.Check(ctx)
	m.SessionChanged(ctx, events.AuthChanged{Authenticated: false, Reason: "LOGOUT"})
	m.Check(ctx)

	require.Zero(t, ender.Count())

	m.SessionChanged(ctx, events.AuthChanged{Authenticated: true})
	m.Check(ctx)
	require.Equal(t, 1, ender.Count())
}
