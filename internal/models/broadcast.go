package models

import "sync"

// BroadcastManager tracks which admins have broadcast mode armed. The state
// is per-process only: a restart always comes up with every admin disarmed.
type BroadcastManager struct {
	mu    sync.Mutex
	armed map[int64]struct{}
}

func NewBroadcastManager() *BroadcastManager {
	return &BroadcastManager{
		armed: make(map[int64]struct{}),
	}
}

// Arm marks the admin's next message as the broadcast payload.
func (m *BroadcastManager) Arm(adminID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed[adminID] = struct{}{}
}

// Disarm clears the armed flag and reports whether it was set. The
// fetch-and-clear in one step is what guarantees exactly one payload message
// is consumed per arming.
func (m *BroadcastManager) Disarm(adminID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, was := m.armed[adminID]
	delete(m.armed, adminID)
	return was
}

// IsArmed reports whether the admin currently has broadcast mode armed.
func (m *BroadcastManager) IsArmed(adminID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.armed[adminID]
	return ok
}
