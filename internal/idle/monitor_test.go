package idle

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningPrecedesIdle(t *testing.T) {
	var warnedAt, idledAt atomic.Int64
	start := time.Now()

	m := NewMonitor(Options{
		IdleTimeout: 120 * time.Millisecond,
		WarningLead: 60 * time.Millisecond,
		OnWarning:   func() { warnedAt.Store(int64(time.Since(start))) },
		OnIdle:      func() { idledAt.Store(int64(time.Since(start))) },
	})
	m.Start()
	defer m.Stop()

	time.Sleep(90 * time.Millisecond)
	assert.NotZero(t, warnedAt.Load(), "warning should have fired at the lead point")
	assert.Zero(t, idledAt.Load(), "idle must not fire before the timeout")
	assert.Equal(t, StateWarningPending, m.State())

	time.Sleep(80 * time.Millisecond)
	require.NotZero(t, idledAt.Load())
	assert.Less(t, warnedAt.Load(), idledAt.Load(), "warning must strictly precede idle")
	assert.Equal(t, StateIdle, m.State())
}

func TestActivitySuppressesWarning(t *testing.T) {
	var warned, idled atomic.Int32

	m := NewMonitor(Options{
		IdleTimeout: 150 * time.Millisecond,
		WarningLead: 50 * time.Millisecond,
		OnWarning:   func() { warned.Add(1) },
		OnIdle:      func() { idled.Add(1) },
	})
	m.Start()
	defer m.Stop()

	// Keep signalling activity before the warning point; the original
	// absolute deadlines must never fire.
	for i := 0; i < 5; i++ {
		time.Sleep(60 * time.Millisecond)
		m.OnActivity()
	}

	assert.Zero(t, warned.Load())
	assert.Zero(t, idled.Load())
	assert.Equal(t, StateActive, m.State())
}

func TestRapidResetArmsSingleSchedule(t *testing.T) {
	var warned, idled atomic.Int32

	m := NewMonitor(Options{
		IdleTimeout: 80 * time.Millisecond,
		WarningLead: 40 * time.Millisecond,
		OnWarning:   func() { warned.Add(1) },
		OnIdle:      func() { idled.Add(1) },
	})
	m.Start()
	defer m.Stop()

	for i := 0; i < 200; i++ {
		m.ResetIdleTimer()
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), warned.Load(), "previous schedules must be cancelled, not stacked")
	assert.Equal(t, int32(1), idled.Load())
}

func TestDisabledMonitorIsSilent(t *testing.T) {
	var fired atomic.Int32

	m := NewMonitor(Options{
		IdleTimeout: 30 * time.Millisecond,
		WarningLead: 10 * time.Millisecond,
		OnWarning:   func() { fired.Add(1) },
		OnIdle:      func() { fired.Add(1) },
		Disabled:    true,
	})
	m.Start()
	defer m.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestWarningLeadAtLeastTimeoutSkipsWarning(t *testing.T) {
	var warned, idled atomic.Int32

	m := NewMonitor(Options{
		IdleTimeout: 50 * time.Millisecond,
		WarningLead: 50 * time.Millisecond,
		OnWarning:   func() { warned.Add(1) },
		OnIdle:      func() { idled.Add(1) },
	})
	m.Start()
	defer m.Stop()

	time.Sleep(120 * time.Millisecond)
	assert.Zero(t, warned.Load(), "warning is never scheduled when the lead swallows the timeout")
	assert.Equal(t, int32(1), idled.Load())
}

func TestIdleIsTerminalForOrdinaryActivity(t *testing.T) {
	m := NewMonitor(Options{
		IdleTimeout: 40 * time.Millisecond,
		WarningLead: 10 * time.Millisecond,
	})
	m.Start()
	defer m.Stop()

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, StateIdle, m.State())

	m.OnActivity()
	assert.Equal(t, StateIdle, m.State(), "activity signals must not revive an idle session")

	// The explicit "stay logged in" reset does.
	m.ResetIdleTimer()
	assert.Equal(t, StateActive, m.State())
}

func TestStopCancelsPendingSchedules(t *testing.T) {
	var fired atomic.Int32

	m := NewMonitor(Options{
		IdleTimeout: 40 * time.Millisecond,
		WarningLead: 10 * time.Millisecond,
		OnWarning:   func() { fired.Add(1) },
		OnIdle:      func() { fired.Add(1) },
	})
	m.Start()
	m.Stop()
	m.Stop() // idempotent

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestManagerLifecycle(t *testing.T) {
	var idle, warn atomic.Int32

	mgr := NewManager(ManagerOptions{
		IdleTimeout: 60 * time.Millisecond,
		WarningLead: 20 * time.Millisecond,
		OnIdle:      func(string) { idle.Add(1) },
		OnWarning:   func(string) { warn.Add(1) },
	})
	defer mgr.StopAll()

	mgr.Watch("s1")
	state, ok := mgr.StateOf("s1")
	require.True(t, ok)
	assert.Equal(t, StateActive, state)

	_, ok = mgr.StateOf("unknown")
	assert.False(t, ok)
	assert.False(t, mgr.KeepAlive("unknown"))

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), warn.Load())
	assert.Equal(t, int32(1), idle.Load())

	// Expiry evicts the monitor; reviving an expired login is a fresh Watch,
	// not a keepalive.
	_, ok = mgr.StateOf("s1")
	assert.False(t, ok)
	assert.False(t, mgr.KeepAlive("s1"))

	mgr.Watch("s1")
	state, _ = mgr.StateOf("s1")
	assert.Equal(t, StateActive, state)

	mgr.Release("s1")
	_, ok = mgr.StateOf("s1")
	assert.False(t, ok)
}

func TestManagerEvictsExpiredMonitors(t *testing.T) {
	var idled atomic.Int32

	mgr := NewManager(ManagerOptions{
		IdleTimeout: 30 * time.Millisecond,
		WarningLead: 10 * time.Millisecond,
		OnIdle:      func(string) { idled.Add(1) },
	})
	defer mgr.StopAll()

	for i := 0; i < 100; i++ {
		mgr.Watch(fmt.Sprintf("login-%d", i))
	}

	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(100), idled.Load())

	mgr.mu.RLock()
	remaining := len(mgr.monitors)
	mgr.mu.RUnlock()
	assert.Zero(t, remaining, "expired logins must not accumulate monitors")

	_, ok := mgr.StateOf("login-0")
	assert.False(t, ok)
}

func TestManagerKeepAliveAtWarningRetainsMonitor(t *testing.T) {
	warned := make(chan struct{}, 1)

	mgr := NewManager(ManagerOptions{
		IdleTimeout: 80 * time.Millisecond,
		WarningLead: 50 * time.Millisecond,
		OnWarning:   func(string) { warned <- struct{}{} },
	})
	defer mgr.StopAll()

	mgr.Watch("s1")
	<-warned

	// The "stay logged in" reset during the warning window keeps the monitor.
	require.True(t, mgr.KeepAlive("s1"))
	state, ok := mgr.StateOf("s1")
	require.True(t, ok)
	assert.Equal(t, StateActive, state)
}

func TestManagerDisabled(t *testing.T) {
	mgr := NewManager(ManagerOptions{
		IdleTimeout: 20 * time.Millisecond,
		WarningLead: 5 * time.Millisecond,
		Disabled:    true,
		OnIdle:      func(string) { t.Error("disabled manager must not fire") },
	})
	defer mgr.StopAll()

	mgr.Watch("s1")
	_, ok := mgr.StateOf("s1")
	assert.False(t, ok, "disabled manager attaches no monitors")

	time.Sleep(60 * time.Millisecond)
}
