package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/commander-engine-go/internal/game/rules"
)

func TestPlayLandOncePerTurn(t *testing.T) {
	h := NewGameTestHarness(t, "landdrop", []string{"p1", "p2"}, HarnessOptions{})
	first := h.PutInHand("p1", "forest")
	second := h.PutInHand("p1", "forest")

	h.AdvanceToStep("p1", rules.StepMain1)

	h.MustApply(Action{Kind: ActionPlayLand, PlayerID: "p1", CardID: first})
	assert.Equal(t, ZoneBattlefield, h.CardZone(first))

	result := h.Submit(Action{Kind: ActionPlayLand, PlayerID: "p1", CardID: second})
	assert.False(t, result.Applied)
	assert.Equal(t, RejectLandLimitExceeded, result.Rejection)
	assert.Equal(t, ZoneHand, h.CardZone(second), "rejected land stays in hand")

	// The entitlement resets on the player's next turn.
	h.AdvanceToStep("p2", rules.StepUpkeep)
	h.AdvanceToStep("p1", rules.StepMain1)
	h.MustApply(Action{Kind: ActionPlayLand, PlayerID: "p1", CardID: second})
	assert.Equal(t, ZoneBattlefield, h.CardZone(second))
}

func TestPlayLandTimingRestrictions(t *testing.T) {
	h := NewGameTestHarness(t, "landtiming", []string{"p1", "p2"}, HarnessOptions{})
	land := h.PutInHand("p2", "forest")

	h.AdvanceToStep("p1", rules.StepMain1)

	// Not the active player.
	result := h.Submit(Action{Kind: ActionPlayLand, PlayerID: "p2", CardID: land})
	assert.Equal(t, RejectNotActivePlayer, result.Rejection)

	// Active player outside a main phase.
	ownLand := h.PutInHand("p1", "forest")
	h.AdvanceToStep("p1", rules.StepBeginCombat)
	result = h.Submit(Action{Kind: ActionPlayLand, PlayerID: "p1", CardID: ownLand})
	assert.Equal(t, RejectWrongPhase, result.Rejection)
}

func TestCastCreatureResolvesToBattlefieldSick(t *testing.T) {
	h := NewGameTestHarness(t, "castcreature", []string{"p1", "p2"}, HarnessOptions{})
	h.PlaceLands("p1", "forest", 2)
	bears := h.PutInHand("p1", "grizzly-bears")

	h.AdvanceToStep("p1", rules.StepMain1)
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: bears})
	assert.Equal(t, ZoneStack, h.CardZone(bears), "spell waits on the stack")

	h.PassAll()

	assert.Equal(t, ZoneBattlefield, h.CardZone(bears))
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	card := g.cards[bears]
	assert.True(t, card.SummoningSick, "creature enters summoning sick")
	assert.Equal(t, "p1", g.priority.Holder(), "priority returns to the active player after resolution")
}

func TestCastWithoutManaRejected(t *testing.T) {
	h := NewGameTestHarness(t, "nomana", []string{"p1", "p2"}, HarnessOptions{})
	bears := h.PutInHand("p1", "grizzly-bears")

	h.AdvanceToStep("p1", rules.StepMain1)
	result := h.Submit(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: bears})
	assert.False(t, result.Applied)
	assert.Equal(t, RejectInsufficientMana, result.Rejection)
	assert.Equal(t, ZoneHand, h.CardZone(bears))
}

func TestStaleCardReferenceRejected(t *testing.T) {
	h := NewGameTestHarness(t, "stale", []string{"p1", "p2"}, HarnessOptions{})
	lands := h.PlaceLands("p1", "forest", 2)
	bear := h.PlaceCreature(CreatureSpec{ID: "bear", Power: 2, Toughness: 2, Controller: "p1"})

	h.AdvanceToStep("p1", rules.StepMain1)

	// The creature exists but already sits on the battlefield: casting it
	// from hand is a stale claim about its zone.
	result := h.Submit(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: bear})
	assert.False(t, result.Applied)
	assert.Equal(t, RejectInvalidZoneTransition, result.Rejection)

	// Same for a land drop naming a land that is already in play.
	result = h.Submit(Action{Kind: ActionPlayLand, PlayerID: "p1", CardID: lands[0]})
	assert.Equal(t, RejectInvalidZoneTransition, result.Rejection)

	// A card the game has never seen is a bad source, not a stale one.
	result = h.Submit(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: "no-such-card"})
	assert.Equal(t, RejectInvalidSource, result.Rejection)
}

func TestSorceryTimingEnforced(t *testing.T) {
	h := NewGameTestHarness(t, "sorcerytiming", []string{"p1", "p2"}, HarnessOptions{})
	h.PlaceLands("p1", "mountain", 5)
	axe := h.PutInHand("p1", "lava-axe")

	// Sorceries cannot be cast during combat.
	h.AdvanceToStep("p1", rules.StepBeginCombat)
	result := h.Submit(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: axe, TargetID: "p2"})
	assert.False(t, result.Applied)
	assert.Equal(t, RejectWrongTiming, result.Rejection)

	// Second main is fine.
	h.AdvanceToStep("p1", rules.StepMain2)
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: axe, TargetID: "p2"})
	h.PassAll()
	assert.Equal(t, 35, h.Life("p2"))
	assert.Equal(t, ZoneGraveyard, h.CardZone(axe))
}

func TestInstantAtAnyPriority(t *testing.T) {
	h := NewGameTestHarness(t, "instant", []string{"p1", "p2"}, HarnessOptions{})
	h.PlaceLands("p2", "mountain", 1)
	bolt := h.PutInHand("p2", "lightning-bolt")

	h.AdvanceToStep("p1", rules.StepUpkeep)
	// p2 does not hold priority yet.
	result := h.Submit(Action{Kind: ActionCastSpell, PlayerID: "p2", CardID: bolt, TargetID: "p1"})
	assert.Equal(t, RejectNotPriorityHolder, result.Rejection)

	h.MustApply(Action{Kind: ActionPassPriority, PlayerID: "p1"})
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p2", CardID: bolt, TargetID: "p1"})
	h.PassAll()
	assert.Equal(t, 37, h.Life("p1"))
}

func TestStackResolvesLIFO(t *testing.T) {
	h := NewGameTestHarness(t, "lifo", []string{"p1", "p2"}, HarnessOptions{})
	h.PlaceLands("p1", "forest", 3)
	h.PlaceLands("p2", "island", 2)
	bears := h.PutInHand("p1", "grizzly-bears")
	counter := h.PutInHand("p2", "counterspell")

	h.AdvanceToStep("p1", rules.StepMain1)
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: bears})

	g := h.GameState()
	g.mu.Lock()
	objects := g.stack.List()
	g.mu.Unlock()
	require.Len(t, objects, 1)

	// p1 holds priority after casting; p2 answers with a counterspell.
	h.MustApply(Action{Kind: ActionPassPriority, PlayerID: "p1"})
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p2", CardID: counter, TargetID: objects[0].ID})

	// Both pass: the counterspell, cast last, resolves first.
	h.PassAll()

	assert.Equal(t, ZoneGraveyard, h.CardZone(bears), "countered spell never resolves")
	assert.Equal(t, ZoneGraveyard, h.CardZone(counter))

	g.mu.Lock()
	defer g.mu.Unlock()
	assert.True(t, g.stack.IsEmpty())
}

func TestBuffSpellWearsOffAtCleanup(t *testing.T) {
	h := NewGameTestHarness(t, "buff", []string{"p1", "p2"}, HarnessOptions{})
	h.PlaceLands("p1", "forest", 1)
	bear := h.PlaceCreature(CreatureSpec{ID: "bear", Power: 2, Toughness: 2, Controller: "p1"})
	growth := h.PutInHand("p1", "giant-growth")

	h.AdvanceToStep("p1", rules.StepMain1)
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: growth, TargetID: bear})
	h.PassAll()

	g := h.GameState()
	g.mu.Lock()
	assert.Equal(t, 5, g.cards[bear].currentPower())
	assert.Equal(t, 5, g.cards[bear].currentToughness())
	g.mu.Unlock()

	h.AdvanceToStep("p2", rules.StepUpkeep)

	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Equal(t, 2, g.cards[bear].currentPower(), "buff expires at cleanup")
}

func TestSpellFizzlesWhenTargetVanishes(t *testing.T) {
	h := NewGameTestHarness(t, "fizzle", []string{"p1", "p2"}, HarnessOptions{})
	h.PlaceLands("p1", "forest", 1)
	h.PlaceLands("p2", "mountain", 1)
	bear := h.PlaceCreature(CreatureSpec{ID: "bear", Power: 2, Toughness: 2, Controller: "p1"})
	growth := h.PutInHand("p1", "giant-growth")
	bolt := h.PutInHand("p2", "lightning-bolt")

	h.AdvanceToStep("p1", rules.StepMain1)
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: growth, TargetID: bear})
	h.MustApply(Action{Kind: ActionPassPriority, PlayerID: "p1"})
	// Bolt the bear in response; it dies before the growth resolves.
	h.MustApply(Action{Kind: ActionCastSpell, PlayerID: "p2", CardID: bolt, TargetID: bear})
	h.PassAll()

	assert.Equal(t, ZoneGraveyard, h.CardZone(bear))

	// Growth is still on the stack; it fizzles on resolution.
	h.PassAll()
	assert.Equal(t, ZoneGraveyard, h.CardZone(growth))
	assert.Equal(t, StatusInProgress, func() GameStatus {
		g := h.GameState()
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.status
	}())
}

func TestRejectionLeavesStateUntouched(t *testing.T) {
	h := NewGameTestHarness(t, "atomic", []string{"p1", "p2"}, HarnessOptions{})
	lands := h.PlaceLands("p1", "forest", 1)
	bears := h.PutInHand("p1", "grizzly-bears")

	h.AdvanceToStep("p1", rules.StepMain1)

	g := h.GameState()
	g.mu.Lock()
	eventsBefore := len(g.history)
	g.mu.Unlock()

	// One forest cannot pay {1}{G}.
	result := h.Submit(Action{Kind: ActionCastSpell, PlayerID: "p1", CardID: bears})
	require.False(t, result.Applied)

	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Equal(t, eventsBefore, len(g.history), "rejection emits no events")
	assert.False(t, g.cards[lands[0]].Tapped, "rejection taps nothing")
	assert.Zero(t, g.players["p1"].Pool.Total())
}
