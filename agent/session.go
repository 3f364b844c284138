package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"edachat/dataset"
)

// Session is the per-conversation state: the current dataset and the
// memory log. Sessions are independent; nothing is shared between them.
type Session struct {
	ID      string
	Created time.Time

	// turn serializes LoadDataset and AnswerQuestion.
	turn sync.Mutex

	mu      sync.RWMutex
	dataset *dataset.Dataset
	memory  Memory
}

// NewSession creates an empty session. A blank id gets a random UUID.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, Created: time.Now()}
}

// Dataset returns the current dataset, or nil before the first load.
func (s *Session) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

func (s *Session) setDataset(d *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = d
}

// Memory returns the session's conclusion log.
func (s *Session) Memory() *Memory {
	return &s.memory
}
