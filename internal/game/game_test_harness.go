package game

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/mana"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// GameTestHarness provides utilities for setting up and driving game
// scenarios in tests.
type GameTestHarness struct {
	t       *testing.T
	engine  *Engine
	gameID  string
	players []string
}

// HarnessOptions tweaks game setup for a test scenario.
type HarnessOptions struct {
	Decks      map[string][]string // per-player deck lists; defaults to 40 forests
	Commanders map[string]string   // per-player commander definition IDs
	Options    Options
}

// NewGameTestHarness creates an engine over the starter catalog and starts a
// game for the given players.
func NewGameTestHarness(t *testing.T, gameID string, players []string, opts HarnessOptions) *GameTestHarness {
	logger := zaptest.NewLogger(t)
	if opts.Options.Seed == 0 {
		opts.Options.Seed = 1
	}
	engine := NewEngine(logger, catalog.NewStarterStore(), opts.Options)

	seats := make([]Seat, 0, len(players))
	for _, id := range players {
		deck := opts.Decks[id]
		if deck == nil {
			for i := 0; i < 40; i++ {
				deck = append(deck, "forest")
			}
		}
		seats = append(seats, Seat{
			PlayerID:    id,
			Name:        id,
			Deck:        deck,
			CommanderID: opts.Commanders[id],
		})
	}
	if _, err := engine.CreateGame(gameID, seats); err != nil {
		t.Fatalf("failed to create game: %v", err)
	}

	return &GameTestHarness{
		t:       t,
		engine:  engine,
		gameID:  gameID,
		players: players,
	}
}

// Engine returns the engine under test.
func (h *GameTestHarness) Engine() *Engine {
	return h.engine
}

// GameState returns the internal game state for direct manipulation.
func (h *GameTestHarness) GameState() *gameState {
	h.engine.mu.RLock()
	g := h.engine.games[h.gameID]
	h.engine.mu.RUnlock()
	return g
}

// CreatureSpec defines the properties of a test creature placed directly on
// the battlefield.
type CreatureSpec struct {
	ID          string
	Name        string
	Power       int
	Toughness   int
	Controller  string
	Keywords    []string
	Tapped      bool
	Sick        bool
	IsCommander bool
}

// PlaceCreature adds a creature instance to the battlefield, bypassing
// casting.
func (h *GameTestHarness) PlaceCreature(spec CreatureSpec) string {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.player(spec.Controller)
	if !ok {
		h.t.Fatalf("unknown controller %s", spec.Controller)
	}
	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	card, err := h.engine.instantiate("grizzly-bears", spec.Controller)
	if err != nil {
		h.t.Fatalf("instantiate: %v", err)
	}
	card.ID = spec.ID
	card.Def.ID = spec.ID
	card.Def.Name = name
	card.Def.Power = spec.Power
	card.Def.Toughness = spec.Toughness
	card.Def.Keywords = spec.Keywords
	card.Zone = ZoneBattlefield
	card.Tapped = spec.Tapped
	card.SummoningSick = spec.Sick
	card.IsCommander = spec.IsCommander
	if spec.IsCommander {
		p.CommanderID = card.ID
	}

	g.cards[card.ID] = card
	p.Battlefield = append(p.Battlefield, card)
	return card.ID
}

// PlaceLands adds the given number of untapped basic lands to the player's
// battlefield.
func (h *GameTestHarness) PlaceLands(playerID, defID string, count int) []string {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.player(playerID)
	if !ok {
		h.t.Fatalf("unknown player %s", playerID)
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		card, err := h.engine.instantiate(defID, playerID)
		if err != nil {
			h.t.Fatalf("instantiate %s: %v", defID, err)
		}
		card.Zone = ZoneBattlefield
		g.cards[card.ID] = card
		p.Battlefield = append(p.Battlefield, card)
		ids = append(ids, card.ID)
	}
	return ids
}

// PutInHand creates a card instance of the given definition in the player's
// hand and returns its instance ID.
func (h *GameTestHarness) PutInHand(playerID, defID string) string {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.player(playerID)
	if !ok {
		h.t.Fatalf("unknown player %s", playerID)
	}
	card, err := h.engine.instantiate(defID, playerID)
	if err != nil {
		h.t.Fatalf("instantiate %s: %v", defID, err)
	}
	card.Zone = ZoneHand
	g.cards[card.ID] = card
	p.Hand = append(p.Hand, card)
	return card.ID
}

// AddMana adds mana directly to the player's pool.
func (h *GameTestHarness) AddMana(playerID string, t mana.Type, amount int) {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players[playerID].Pool.Add(t, amount)
}

// SetLife sets a player's life total directly.
func (h *GameTestHarness) SetLife(playerID string, life int) {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players[playerID].Life = life
}

// Submit submits an action and fails the test on transport errors.
func (h *GameTestHarness) Submit(action Action) ActionResult {
	result, err := h.engine.SubmitAction(h.gameID, action)
	if err != nil {
		h.t.Fatalf("submit %s by %s: %v", action.Kind, action.PlayerID, err)
	}
	return result
}

// MustApply submits an action and fails the test if it is rejected.
func (h *GameTestHarness) MustApply(action Action) ActionResult {
	result := h.Submit(action)
	if !result.Applied {
		h.t.Fatalf("action %s by %s rejected: %s", action.Kind, action.PlayerID, result.Rejection)
	}
	return result
}

// PassAll makes every living player pass priority once, in rotation order.
func (h *GameTestHarness) PassAll() {
	g := h.GameState()
	for i := 0; i < len(h.players); i++ {
		g.mu.Lock()
		holder := g.priority.Holder()
		status := g.status
		g.mu.Unlock()
		if status != StatusInProgress || holder == "" {
			return
		}
		h.MustApply(Action{Kind: ActionPassPriority, PlayerID: holder})
	}
}

// AdvanceToStep passes priority in rotation until the game sits at the given
// step of the given player's turn. Fails the test if the step is not reached
// within a bounded number of passes.
func (h *GameTestHarness) AdvanceToStep(activePlayer string, step rules.Step) {
	g := h.GameState()
	for i := 0; i < 500; i++ {
		g.mu.Lock()
		active := g.turns.ActivePlayer()
		current := g.turns.CurrentStep()
		holder := g.priority.Holder()
		status := g.status
		needAttackDecl := current == rules.StepDeclareAttackers && !g.attackersDeclared
		g.mu.Unlock()
		if active == activePlayer && current == step {
			return
		}
		if status != StatusInProgress {
			h.t.Fatalf("game ended while advancing to %s/%s", activePlayer, step)
		}
		if needAttackDecl && holder == active {
			h.MustApply(Action{Kind: ActionDeclareAttackers, PlayerID: active})
			continue
		}
		h.MustApply(Action{Kind: ActionPassPriority, PlayerID: holder})
	}
	h.t.Fatalf("never reached %s step of %s's turn", step, activePlayer)
}

// CurrentStep returns the step the game currently sits at.
func (h *GameTestHarness) CurrentStep() rules.Step {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turns.CurrentStep()
}

// PriorityHolder returns the current priority holder.
func (h *GameTestHarness) PriorityHolder() string {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.priority.Holder()
}

// CardZone returns the zone of a card instance.
func (h *GameTestHarness) CardZone(cardID string) Zone {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	card, ok := g.cards[cardID]
	if !ok {
		h.t.Fatalf("unknown card %s", cardID)
	}
	return card.Zone
}

// Life returns a player's life total.
func (h *GameTestHarness) Life(playerID string) int {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[playerID].Life
}

// DumpZones logs every player's zone contents, for debugging failing tests.
func (h *GameTestHarness) DumpZones() {
	g := h.GameState()
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range g.playerOrder {
		p := g.players[id]
		h.t.Logf("%s: life=%d hand=%d battlefield=%s graveyard=%d",
			id, p.Life, len(p.Hand), zoneNamesOf(p.Battlefield), len(p.Graveyard))
	}
}

func zoneNamesOf(cards []*cardInstance) string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.Def.Name)
	}
	return fmt.Sprintf("%v", names)
}
