package counters

import "fmt"

// Common counter names used by the engine.
const (
	PlusOnePlusOne   = "+1/+1"
	MinusOneMinusOne = "-1/-1"
)

// Counter represents a named counter placed on a card instance.
type Counter struct {
	Name  string
	Count int
}

// Counters tracks all counters on a single card instance.
type Counters struct {
	byName map[string]int
}

// New creates an empty counter set.
func New() *Counters {
	return &Counters{byName: make(map[string]int)}
}

// Add places amount counters of the given name.
func (cs *Counters) Add(name string, amount int) {
	if amount <= 0 {
		return
	}
	cs.byName[name] += amount
}

// Remove takes up to amount counters of the given name, never below zero.
func (cs *Counters) Remove(name string, amount int) {
	if amount <= 0 {
		return
	}
	if cs.byName[name] <= amount {
		delete(cs.byName, name)
		return
	}
	cs.byName[name] -= amount
}

// Count returns the number of counters with the given name.
func (cs *Counters) Count(name string) int {
	return cs.byName[name]
}

// Boost returns the net power/toughness contribution of +1/+1 and -1/-1
// counters.
func (cs *Counters) Boost() (power, toughness int) {
	delta := cs.byName[PlusOnePlusOne] - cs.byName[MinusOneMinusOne]
	return delta, delta
}

// All returns a copy of the counter set as a slice, for views and logging.
func (cs *Counters) All() []Counter {
	out := make([]Counter, 0, len(cs.byName))
	for name, count := range cs.byName {
		out = append(out, Counter{Name: name, Count: count})
	}
	return out
}

// Clear removes every counter. Counters reset when a card leaves the
// battlefield.
func (cs *Counters) Clear() {
	cs.byName = make(map[string]int)
}

// Copy creates a deep copy of the counter set.
func (cs *Counters) Copy() *Counters {
	cpy := New()
	for name, count := range cs.byName {
		cpy.byName[name] = count
	}
	return cpy
}

func (cs *Counters) String() string {
	return fmt.Sprintf("%v", cs.byName)
}
