package mana

import (
	"errors"
	"sort"
)

// ErrInsufficientMana is returned when a cost cannot be covered by the pool
// plus the available untapped sources.
var ErrInsufficientMana = errors.New("insufficient mana")

// Source describes an untapped permanent that can be tapped for mana as part
// of paying a cost.
type Source struct {
	ID       string
	Produces []Type
}

// Tap records that a source should be tapped to produce the given type.
type Tap struct {
	SourceID string
	Produces Type
}

// Plan is a complete payment for a cost: mana already in the pool to spend,
// plus sources to tap. A plan is computed in full before any mutation so a
// failed affordability check never taps anything.
type Plan struct {
	FromPool        map[Type]int
	GenericFromPool int
	Taps            []Tap
}

// PlanPayment determines how to pay cost from the given pool snapshot and
// untapped sources. Colored pips are satisfied first (pool before taps,
// narrower producers before flexible ones), then the generic component from
// whatever remains. Returns ErrInsufficientMana if the cost cannot be met.
func PlanPayment(cost Cost, pool *Pool, sources []Source) (Plan, error) {
	plan := Plan{FromPool: make(map[Type]int)}

	avail := pool.Snapshot()
	remaining := make([]Source, len(sources))
	copy(remaining, sources)
	// Narrow producers first so flexible sources stay free for later pips.
	sort.SliceStable(remaining, func(i, j int) bool {
		return len(remaining[i].Produces) < len(remaining[j].Produces)
	})

	produces := func(s Source, t Type) bool {
		for _, p := range s.Produces {
			if p == t {
				return true
			}
		}
		return false
	}

	for _, t := range Types {
		need := cost.Colored[t]
		if need == 0 {
			continue
		}
		fromPool := avail[t]
		if fromPool > need {
			fromPool = need
		}
		avail[t] -= fromPool
		plan.FromPool[t] += fromPool
		need -= fromPool

		for need > 0 {
			found := -1
			for i, s := range remaining {
				if produces(s, t) {
					found = i
					break
				}
			}
			if found < 0 {
				return Plan{}, ErrInsufficientMana
			}
			plan.Taps = append(plan.Taps, Tap{SourceID: remaining[found].ID, Produces: t})
			remaining = append(remaining[:found], remaining[found+1:]...)
			need--
		}
	}

	generic := cost.Generic
	for _, t := range Types {
		if generic == 0 {
			break
		}
		take := avail[t]
		if take > generic {
			take = generic
		}
		avail[t] -= take
		plan.GenericFromPool += take
		generic -= take
	}
	for generic > 0 {
		if len(remaining) == 0 {
			return Plan{}, ErrInsufficientMana
		}
		s := remaining[0]
		remaining = remaining[1:]
		if len(s.Produces) == 0 {
			continue
		}
		plan.Taps = append(plan.Taps, Tap{SourceID: s.ID, Produces: s.Produces[0]})
		generic--
	}

	return plan, nil
}

// CanPay reports whether the cost is affordable from the pool and sources.
func CanPay(cost Cost, pool *Pool, sources []Source) bool {
	_, err := PlanPayment(cost, pool, sources)
	return err == nil
}
