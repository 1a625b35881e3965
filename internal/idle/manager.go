package idle

import (
	"sync"
	"time"
)

// Manager owns one Monitor per authenticated session. Monitors are created on
// login, fed activity signals by the HTTP middleware, stopped on logout, and
// evicted automatically once their idle callback has run, so expired logins
// do not accumulate monitors for the life of the process.
type Manager struct {
	mu       sync.RWMutex
	monitors map[string]*Monitor

	idleTimeout time.Duration
	warningLead time.Duration
	disabled    bool

	onIdle    func(sessionID string)
	onWarning func(sessionID string)
}

type ManagerOptions struct {
	IdleTimeout time.Duration
	WarningLead time.Duration
	Disabled    bool
	OnIdle      func(sessionID string)
	OnWarning   func(sessionID string)
}

func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		monitors:    make(map[string]*Monitor),
		idleTimeout: opts.IdleTimeout,
		warningLead: opts.WarningLead,
		disabled:    opts.Disabled,
		onIdle:      opts.OnIdle,
		onWarning:   opts.OnWarning,
	}
}

// Watch starts monitoring a session. Watching an already-watched session
// re-arms its schedules.
func (mgr *Manager) Watch(sessionID string) {
	if mgr.disabled {
		return
	}

	mgr.mu.Lock()
	m, ok := mgr.monitors[sessionID]
	if !ok {
		m = NewMonitor(Options{
			IdleTimeout: mgr.idleTimeout,
			WarningLead: mgr.warningLead,
			OnIdle: func() {
				if mgr.onIdle != nil {
					mgr.onIdle(sessionID)
				}
				mgr.evictIfIdle(sessionID)
			},
			OnWarning: func() {
				if mgr.onWarning != nil {
					mgr.onWarning(sessionID)
				}
			},
		})
		mgr.monitors[sessionID] = m
		mgr.mu.Unlock()
		m.Start()
		return
	}
	mgr.mu.Unlock()
	m.ResetIdleTimer()
}

// Touch feeds an activity signal to the session's monitor, if any. A session
// that already went idle is not revived by ordinary activity.
func (mgr *Manager) Touch(sessionID string) {
	mgr.mu.RLock()
	m := mgr.monitors[sessionID]
	mgr.mu.RUnlock()
	if m != nil {
		m.OnActivity()
	}
}

// KeepAlive is the explicit "stay logged in" reset. Unlike Touch it re-arms
// even a session that has already gone idle.
func (mgr *Manager) KeepAlive(sessionID string) bool {
	mgr.mu.RLock()
	m := mgr.monitors[sessionID]
	mgr.mu.RUnlock()
	if m == nil {
		return false
	}
	m.ResetIdleTimer()
	return true
}

// StateOf reports the session's monitor state. The second return is false for
// unknown sessions.
func (mgr *Manager) StateOf(sessionID string) (State, bool) {
	mgr.mu.RLock()
	m := mgr.monitors[sessionID]
	mgr.mu.RUnlock()
	if m == nil {
		return "", false
	}
	return m.State(), true
}

// evictIfIdle drops an expired session's monitor, unless a keepalive revived
// it between the idle callback and now.
func (mgr *Manager) evictIfIdle(sessionID string) {
	mgr.mu.Lock()
	m := mgr.monitors[sessionID]
	if m == nil || m.State() != StateIdle {
		mgr.mu.Unlock()
		return
	}
	delete(mgr.monitors, sessionID)
	mgr.mu.Unlock()
	m.Stop()
}

// Release stops and forgets the session's monitor. Idempotent.
func (mgr *Manager) Release(sessionID string) {
	mgr.mu.Lock()
	m := mgr.monitors[sessionID]
	delete(mgr.monitors, sessionID)
	mgr.mu.Unlock()
	if m != nil {
		m.Stop()
	}
}

// StopAll tears down every monitor, used on server shutdown.
func (mgr *Manager) StopAll() {
	mgr.mu.Lock()
	monitors := mgr.monitors
	mgr.monitors = make(map[string]*Monitor)
	mgr.mu.Unlock()
	for _, m := range monitors {
		m.Stop()
	}
}
