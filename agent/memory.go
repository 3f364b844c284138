package agent

import "sync"

// Memory is the append-only log of conclusions for one session.
type Memory struct {
	mu          sync.RWMutex
	conclusions []string
}

// Append records a conclusion. Conclusions are never edited or removed.
func (m *Memory) Append(conclusion string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conclusions = append(m.conclusions, conclusion)
}

// Conclusions returns a copy of the log in insertion order.
func (m *Memory) Conclusions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.conclusions))
	copy(out, m.conclusions)
	return out
}

// Len returns the number of conclusions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conclusions)
}

// Last returns the most recent conclusion.
func (m *Memory) Last() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.conclusions) == 0 {
		return "", false
	}
	return m.conclusions[len(m.conclusions)-1], true
}
