package idle

import (
	"sync"
	"time"
)

type State string

const (
	StateActive         State = "active"
	StateWarningPending State = "warning_pending"
	StateIdle           State = "idle"
)

const (
	DefaultIdleTimeout = 15 * time.Minute
	DefaultWarningLead = 2 * time.Minute
)

// Options configures a Monitor. Zero-value durations fall back to the
// defaults; a zero-value Options is enabled.
type Options struct {
	OnIdle      func()
	OnWarning   func()
	IdleTimeout time.Duration
	WarningLead time.Duration
	Disabled    bool
}

// Monitor drives the two-stage inactivity sequence for one session: a warning
// WarningLead before the hard timeout, then the idle callback at the timeout
// itself. Each Monitor owns its own timer handles and is torn down with Stop.
type Monitor struct {
	mu      sync.Mutex
	opts    Options
	started bool

	warnTimer *time.Timer
	idleTimer *time.Timer

	// cycle identifies the current arming cycle. Timer callbacks carry the
	// cycle they were armed under and no-op if a reset has since re-armed,
	// closing the race between Timer.Stop and an already-queued callback.
	cycle uint64

	state          State
	lastActivityAt time.Time
	warningFired   bool
	timeoutFired   bool
}

func NewMonitor(opts Options) *Monitor {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.WarningLead <= 0 {
		opts.WarningLead = DefaultWarningLead
	}
	return &Monitor{
		opts:  opts,
		state: StateActive,
	}
}

// Start arms the schedules. A disabled monitor attaches nothing and never
// fires.
func (m *Monitor) Start() {
	if m.opts.Disabled {
		return
	}
	m.mu.Lock()
	m.started = true
	m.rearmLocked()
	m.mu.Unlock()
}

// OnActivity is the activity-signal entry point. It re-arms both schedules
// unless the monitor has already gone idle; once idle, only an explicit
// ResetIdleTimer (the "stay logged in" path) revives the session.
func (m *Monitor) OnActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started || m.state == StateIdle {
		return
	}
	m.rearmLocked()
}

// ResetIdleTimer re-arms the warning and idle schedules from now, cancelling
// any pending firings. Safe to call at arbitrary frequency.
func (m *Monitor) ResetIdleTimer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	m.rearmLocked()
}

// rearmLocked cancels both pending timers and schedules a fresh one-shot pair.
// Callers hold m.mu.
func (m *Monitor) rearmLocked() {
	m.cancelTimersLocked()

	m.cycle++
	cycle := m.cycle
	m.state = StateActive
	m.lastActivityAt = time.Now()
	m.warningFired = false
	m.timeoutFired = false

	// A lead >= the timeout means the warning point is in the past; the
	// warning is simply never scheduled for this cycle.
	if m.opts.WarningLead < m.opts.IdleTimeout {
		m.warnTimer = time.AfterFunc(m.opts.IdleTimeout-m.opts.WarningLead, func() { m.fireWarning(cycle) })
	}
	m.idleTimer = time.AfterFunc(m.opts.IdleTimeout, func() { m.fireIdle(cycle) })
}

func (m *Monitor) cancelTimersLocked() {
	if m.warnTimer != nil {
		m.warnTimer.Stop()
		m.warnTimer = nil
	}
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
}

func (m *Monitor) fireWarning(cycle uint64) {
	m.mu.Lock()
	if !m.started || m.cycle != cycle || m.state != StateActive {
		m.mu.Unlock()
		return
	}
	m.state = StateWarningPending
	m.warningFired = true
	cb := m.opts.OnWarning
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (m *Monitor) fireIdle(cycle uint64) {
	m.mu.Lock()
	if !m.started || m.cycle != cycle || m.state == StateIdle {
		m.mu.Unlock()
		return
	}
	m.state = StateIdle
	m.timeoutFired = true
	cb := m.opts.OnIdle
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Stop cancels all pending schedules. Idempotent; no callbacks fire after it
// returns (a callback already past its state check may still complete).
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.cancelTimersLocked()
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) LastActivityAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivityAt
}

func (m *Monitor) WarningFired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warningFired
}
