package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is one answered question.
type Turn struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// History is the process-wide, append-only list of turns. Appends are
// serialized so concurrent callers always observe a consistent order.
// It is never pruned.
type History struct {
	mu    sync.RWMutex
	turns []Turn
	now   func() time.Time
}

func NewHistory() *History {
	return &History{now: time.Now}
}

// Append records a successful turn and returns it.
func (h *History) Append(question, answer string) Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	turn := Turn{
		ID:        uuid.New(),
		Question:  question,
		Answer:    answer,
		CreatedAt: h.now(),
	}
	h.turns = append(h.turns, turn)
	return turn
}

// Snapshot returns a copy of the turns in append order.
func (h *History) Snapshot() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}
