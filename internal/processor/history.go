package processor

import (
	"sync"
	"time"

	"djp.chapter42.de/printerbridge/internal/data"
)

// Job statuses shown in the history.
const (
	StatusPending   = "pending"
	StatusPrinting  = "printing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCleared   = "cleared"
)

// JobRecord is the display view of a queued job.
type JobRecord struct {
	ID          string     `json:"id"`
	Kind        data.Kind  `json:"kind"`
	Service     string     `json:"service"`
	Status      string     `json:"status"`
	EnqueuedAt  time.Time  `json:"enqueued_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// History is a thread-safe ring buffer of job records.
type History struct {
	mu      sync.RWMutex
	entries []JobRecord
	cap     int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{
		entries: make([]JobRecord, 0, capacity),
		cap:     capacity,
	}
}

func (h *History) Add(rec JobRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) >= h.cap {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = rec
	} else {
		h.entries = append(h.entries, rec)
	}
}

// Entries returns all records, newest first.
func (h *History) Entries() []JobRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]JobRecord, len(h.entries))
	for i, j := 0, len(h.entries)-1; j >= 0; i, j = i+1, j-1 {
		result[i] = h.entries[j]
	}
	return result
}

func (h *History) UpdateStatus(jobID, status, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].ID == jobID {
			h.entries[i].Status = status
			if errMsg != "" {
				h.entries[i].Error = errMsg
			}
			if status == StatusCompleted || status == StatusFailed || status == StatusCleared {
				now := time.Now()
				h.entries[i].CompletedAt = &now
			}
			return
		}
	}
}
