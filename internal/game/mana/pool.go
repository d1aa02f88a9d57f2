package mana

import (
	"sync"
)

// Type represents a type of mana.
type Type string

const (
	White     Type = "WHITE"
	Blue      Type = "BLUE"
	Black     Type = "BLACK"
	Red       Type = "RED"
	Green     Type = "GREEN"
	Colorless Type = "COLORLESS"
)

// Types lists all concrete mana types in WUBRG-C order.
var Types = []Type{White, Blue, Black, Red, Green, Colorless}

// Symbol returns the single-letter cost symbol for the mana type.
func (t Type) Symbol() string {
	switch t {
	case White:
		return "W"
	case Blue:
		return "U"
	case Black:
		return "B"
	case Red:
		return "R"
	case Green:
		return "G"
	case Colorless:
		return "C"
	}
	return "?"
}

// Pool represents a player's mana pool: per-type counters that are emptied
// at the cleanup points the engine defines.
type Pool struct {
	mu      sync.RWMutex
	amounts map[Type]int
}

// NewPool creates a new empty mana pool.
func NewPool() *Pool {
	return &Pool{amounts: make(map[Type]int, len(Types))}
}

// Add adds mana of the given type to the pool.
func (p *Pool) Add(t Type, amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.amounts[t] += amount
}

// Get returns the amount of a specific mana type in the pool.
func (p *Pool) Get(t Type) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.amounts[t]
}

// Total returns the total mana count across all types.
func (p *Pool) Total() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	total := 0
	for _, amount := range p.amounts {
		total += amount
	}
	return total
}

// Spend removes mana of the given type from the pool. Returns false without
// mutating if the pool holds less than the requested amount.
func (p *Pool) Spend(t Type, amount int) bool {
	if amount <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.amounts[t] < amount {
		return false
	}
	p.amounts[t] -= amount
	return true
}

// SpendAny removes the given amount of mana of any types, used for generic
// costs. Types are drained in WUBRG-C order. Returns false without mutating
// if the pool total is insufficient.
func (p *Pool) SpendAny(amount int) bool {
	if amount <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, a := range p.amounts {
		total += a
	}
	if total < amount {
		return false
	}
	for _, t := range Types {
		if amount == 0 {
			break
		}
		take := p.amounts[t]
		if take > amount {
			take = amount
		}
		p.amounts[t] -= take
		amount -= take
	}
	return true
}

// Empty clears the mana pool.
func (p *Pool) Empty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for t := range p.amounts {
		p.amounts[t] = 0
	}
}

// Snapshot returns a copy of the per-type amounts.
func (p *Pool) Snapshot() map[Type]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cpy := make(map[Type]int, len(p.amounts))
	for t, a := range p.amounts {
		if a > 0 {
			cpy[t] = a
		}
	}
	return cpy
}
