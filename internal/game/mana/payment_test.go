package mana

import (
	"errors"
	"testing"
)

func TestPlanPaymentFromPoolOnly(t *testing.T) {
	pool := NewPool()
	pool.Add(Green, 1)
	pool.Add(Red, 3)

	plan, err := PlanPayment(MustParseCost("{2}{G}"), pool, nil)
	if err != nil {
		t.Fatalf("PlanPayment: %v", err)
	}
	if len(plan.Taps) != 0 {
		t.Errorf("plan taps %d sources with a sufficient pool", len(plan.Taps))
	}
	if plan.FromPool[Green] != 1 {
		t.Errorf("green from pool = %d, want 1", plan.FromPool[Green])
	}
	if plan.GenericFromPool != 2 {
		t.Errorf("generic from pool = %d, want 2", plan.GenericFromPool)
	}
}

func TestPlanPaymentTapsSources(t *testing.T) {
	pool := NewPool()
	sources := []Source{
		{ID: "forest", Produces: []Type{Green}},
		{ID: "mountain", Produces: []Type{Red}},
		{ID: "tower", Produces: []Type{White, Blue, Black, Red, Green}},
	}

	plan, err := PlanPayment(MustParseCost("{1}{G}{R}"), pool, sources)
	if err != nil {
		t.Fatalf("PlanPayment: %v", err)
	}
	if len(plan.Taps) != 3 {
		t.Fatalf("plan taps %d sources, want 3", len(plan.Taps))
	}

	// Narrow producers cover the colored pips so the flexible tower is left
	// for the generic component.
	byID := make(map[string]Type, len(plan.Taps))
	for _, tap := range plan.Taps {
		byID[tap.SourceID] = tap.Produces
	}
	if byID["forest"] != Green {
		t.Errorf("forest tapped for %s, want GREEN", byID["forest"])
	}
	if byID["mountain"] != Red {
		t.Errorf("mountain tapped for %s, want RED", byID["mountain"])
	}
	if _, ok := byID["tower"]; !ok {
		t.Error("tower should cover the generic pip")
	}
}

func TestPlanPaymentPrefersPoolOverTaps(t *testing.T) {
	pool := NewPool()
	pool.Add(Green, 1)
	sources := []Source{{ID: "forest", Produces: []Type{Green}}}

	plan, err := PlanPayment(MustParseCost("{G}"), pool, sources)
	if err != nil {
		t.Fatalf("PlanPayment: %v", err)
	}
	if len(plan.Taps) != 0 {
		t.Error("pool mana should be preferred over tapping")
	}
}

func TestPlanPaymentInsufficient(t *testing.T) {
	pool := NewPool()
	sources := []Source{{ID: "island", Produces: []Type{Blue}}}

	_, err := PlanPayment(MustParseCost("{G}"), pool, sources)
	if !errors.Is(err, ErrInsufficientMana) {
		t.Errorf("wrong-color payment: got %v, want ErrInsufficientMana", err)
	}

	_, err = PlanPayment(MustParseCost("{2}"), pool, sources)
	if !errors.Is(err, ErrInsufficientMana) {
		t.Errorf("short payment: got %v, want ErrInsufficientMana", err)
	}
}

func TestCanPay(t *testing.T) {
	pool := NewPool()
	pool.Add(Red, 1)
	sources := []Source{{ID: "mountain", Produces: []Type{Red}}}

	if !CanPay(MustParseCost("{1}{R}"), pool, sources) {
		t.Error("affordable cost reported unaffordable")
	}
	if CanPay(MustParseCost("{R}{R}{R}"), pool, sources) {
		t.Error("unaffordable cost reported affordable")
	}
	// CanPay never mutates.
	if pool.Get(Red) != 1 {
		t.Errorf("CanPay mutated pool, red = %d", pool.Get(Red))
	}
}
