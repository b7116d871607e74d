package lab

import (
	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/terrain"
)

// HistoryCapacity is the number of snapshots kept for replay.
const HistoryCapacity = 600

// Snapshot is one recorded tick.
type Snapshot struct {
	Tick    int
	Terrain *terrain.Terrain
	Stats   erosion.StepStats
}

// History is a bounded replay buffer, oldest first. It is not safe for
// concurrent use on its own; Session guards it.
type History struct {
	capacity int
	items    []Snapshot
}

// NewHistory returns a buffer holding at most capacity snapshots.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &History{capacity: capacity, items: make([]Snapshot, 0, capacity)}
}

// Push appends s, evicting the oldest entry when full.
func (h *History) Push(s Snapshot) {
	h.items = append(h.items, s)
	if len(h.items) > h.capacity {
		h.items = h.items[1:]
	}
}

func (h *History) Len() int { return len(h.items) }

// At returns the i-th oldest snapshot.
func (h *History) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(h.items) {
		return Snapshot{}, false
	}
	return h.items[i], true
}

// Latest returns the newest snapshot.
func (h *History) Latest() (Snapshot, bool) {
	return h.At(len(h.items) - 1)
}

func (h *History) Reset() {
	h.items = h.items[:0]
}
