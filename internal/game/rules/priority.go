package rules

import (
	"errors"
	"sync"
)

// ErrNotPriorityHolder is returned when a player other than the current
// holder attempts to pass priority.
var ErrNotPriorityHolder = errors.New("player does not hold priority")

// PriorityTracker maintains the rotation of living players, the current
// priority holder and the consecutive-pass counter. The rotation always
// starts with the active player and proceeds in seating order.
type PriorityTracker struct {
	mu     sync.Mutex
	order  []string
	holder int
	passes int
}

// NewPriorityTracker creates a tracker over the given seating order. The
// first entry is treated as the active player until Reset is called.
func NewPriorityTracker(order []string) *PriorityTracker {
	cpy := make([]string, len(order))
	copy(cpy, order)
	return &PriorityTracker{order: cpy}
}

// Reset rotates the order so activePlayer holds priority and zeroes the pass
// counter. Called whenever priority is (re)assigned: on step entry, after a
// stack push and after each resolution.
func (pt *PriorityTracker) Reset(activePlayer string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.passes = 0
	for i, id := range pt.order {
		if id == activePlayer {
			pt.holder = i
			return
		}
	}
	// Active player not in rotation (eliminated mid-turn): priority falls to
	// the current holder unchanged.
	if pt.holder >= len(pt.order) {
		pt.holder = 0
	}
}

// Holder returns the player who currently has priority, or "" if the
// rotation is empty.
func (pt *PriorityTracker) Holder() string {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if len(pt.order) == 0 {
		return ""
	}
	return pt.order[pt.holder]
}

// Pass records a priority pass by playerID and advances the holder. Returns
// true when every player in the rotation has passed consecutively since the
// last non-pass event.
func (pt *PriorityTracker) Pass(playerID string) (bool, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if len(pt.order) == 0 || pt.order[pt.holder] != playerID {
		return false, ErrNotPriorityHolder
	}
	pt.passes++
	pt.holder = (pt.holder + 1) % len(pt.order)
	return pt.passes >= len(pt.order), nil
}

// AllPassed reports whether the pass counter has reached the rotation size.
func (pt *PriorityTracker) AllPassed() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return len(pt.order) > 0 && pt.passes >= len(pt.order)
}

// Passes returns the consecutive-pass counter.
func (pt *PriorityTracker) Passes() int {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.passes
}

// Remove drops an eliminated player from the rotation. The holder index is
// adjusted so the same player keeps priority if they are still alive;
// otherwise priority moves to the next player in order.
func (pt *PriorityTracker) Remove(playerID string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	for i, id := range pt.order {
		if id != playerID {
			continue
		}
		pt.order = append(pt.order[:i], pt.order[i+1:]...)
		if len(pt.order) == 0 {
			pt.holder = 0
			return
		}
		if i < pt.holder {
			pt.holder--
		}
		pt.holder %= len(pt.order)
		return
	}
}

// Order returns a copy of the current rotation, starting with the player who
// would receive priority on the next Reset to the first entry.
func (pt *PriorityTracker) Order() []string {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	cpy := make([]string, len(pt.order))
	copy(cpy, pt.order)
	return cpy
}

// Size returns the number of players still in the rotation.
func (pt *PriorityTracker) Size() int {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return len(pt.order)
}
