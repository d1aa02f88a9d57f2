package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/counters"
	"github.com/magefree/commander-engine-go/internal/game/mana"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// Commander rule constants.
const (
	defaultStartingLife     = 40
	defaultStartingHandSize = 7
	defaultMaxHandSize      = 7
	commandTaxIncrement     = 2
	lethalCommanderDamage   = 21
)

// Options holds game defaults the embedding process may override.
type Options struct {
	StartingLife     int
	StartingHandSize int
	MaxHandSize      int
	// Seed drives library shuffles; zero means time-seeded.
	Seed int64
}

func (o Options) withDefaults() Options {
	if o.StartingLife <= 0 {
		o.StartingLife = defaultStartingLife
	}
	if o.StartingHandSize <= 0 {
		o.StartingHandSize = defaultStartingHandSize
	}
	if o.MaxHandSize <= 0 {
		o.MaxHandSize = defaultMaxHandSize
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// Seat describes one player joining a game: an identity, a deck of card
// definition IDs and the commander's definition ID. The commander is not
// part of the deck list; it starts in the command zone.
type Seat struct {
	PlayerID    string   `json:"player_id"`
	Name        string   `json:"name"`
	Deck        []string `json:"deck"`
	CommanderID string   `json:"commander_id"`
}

// Engine is the rules-enforcement core. It owns every game state exclusively:
// external collaborators observe snapshots and submit candidate actions, and
// no mutation happens outside SubmitAction.
type Engine struct {
	logger  *zap.Logger
	catalog catalog.Store
	opts    Options

	mu    sync.RWMutex
	games map[string]*gameState
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates an engine over the given card catalog.
func NewEngine(logger *zap.Logger, store catalog.Store, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		logger:  logger,
		catalog: store,
		opts:    opts,
		games:   make(map[string]*gameState),
		rng:     rand.New(rand.NewSource(opts.Seed)),
	}
}

// CreateGame sets up a new game: instantiates every deck card, shuffles
// libraries, places commanders in command zones, deals opening hands and
// assigns the first turn and priority to the first seat. An empty gameID is
// replaced with a generated one; the effective ID is returned.
func (e *Engine) CreateGame(gameID string, seats []Seat) (string, error) {
	if gameID == "" {
		gameID = uuid.NewString()
	}
	if len(seats) < 2 {
		return "", fmt.Errorf("at least 2 players required")
	}

	g := &gameState{
		gameID:             gameID,
		status:             StatusInProgress,
		players:            make(map[string]*playerState, len(seats)),
		playerOrder:        make([]string, 0, len(seats)),
		cards:              make(map[string]*cardInstance),
		stack:              rules.NewStackManager(),
		events:             rules.NewEventBus(),
		combat:             newCombatState(),
		blockersDeclaredBy: make(map[string]bool),
		startedAt:          time.Now(),
	}

	for _, seat := range seats {
		if seat.PlayerID == "" {
			return "", fmt.Errorf("seat missing player id")
		}
		if _, dup := g.players[seat.PlayerID]; dup {
			return "", fmt.Errorf("duplicate player %s", seat.PlayerID)
		}
		name := seat.Name
		if name == "" {
			name = seat.PlayerID
		}
		p := &playerState{
			ID:              seat.PlayerID,
			Name:            name,
			Life:            e.opts.StartingLife,
			Pool:            mana.NewPool(),
			CommanderDamage: make(map[string]int),
		}

		for _, defID := range seat.Deck {
			card, err := e.instantiate(defID, seat.PlayerID)
			if err != nil {
				return "", err
			}
			card.Zone = ZoneLibrary
			g.cards[card.ID] = card
			p.Library = append(p.Library, card)
		}
		e.shuffle(p.Library)

		if seat.CommanderID != "" {
			commander, err := e.instantiate(seat.CommanderID, seat.PlayerID)
			if err != nil {
				return "", err
			}
			if commander.Def.Kind != catalog.KindCreature {
				return "", fmt.Errorf("commander %s is not a creature", seat.CommanderID)
			}
			commander.Zone = ZoneCommand
			commander.IsCommander = true
			g.cards[commander.ID] = commander
			p.CommandZone = append(p.CommandZone, commander)
			p.CommanderID = commander.ID
		}

		g.players[seat.PlayerID] = p
		g.playerOrder = append(g.playerOrder, seat.PlayerID)
	}

	g.turns = rules.NewTurnManager(g.playerOrder[0])
	g.priority = rules.NewPriorityTracker(g.playerOrder)
	g.priority.Reset(g.playerOrder[0])

	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return "", fmt.Errorf("game %s already exists", gameID)
	}
	e.games[gameID] = g
	e.mu.Unlock()

	g.mu.Lock()
	g.emit(rules.Event{Type: rules.EventGameStarted, Detail: gameID})
	for _, id := range g.playerOrder {
		p := g.players[id]
		for i := 0; i < e.opts.StartingHandSize; i++ {
			g.drawCard(p)
		}
	}
	// Turn 1 begins at the untap step, which carries no priority round;
	// fast-forward through automatic steps to the first decision point.
	e.beginTurn(g)
	e.enterStep(g)
	if !g.turns.CurrentStep().HasPriorityRound() {
		e.advanceUntilPriority(g)
	}
	g.mu.Unlock()

	e.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.Strings("players", g.playerOrder),
	)
	return gameID, nil
}

// instantiate creates a fresh card instance of the given definition.
func (e *Engine) instantiate(defID, ownerID string) (*cardInstance, error) {
	def, ok := e.catalog.Definition(defID)
	if !ok {
		return nil, fmt.Errorf("unknown card definition %s", defID)
	}
	return &cardInstance{
		ID:           uuid.NewString(),
		Def:          def,
		OwnerID:      ownerID,
		ControllerID: ownerID,
		Counters:     counters.New(),
	}, nil
}

func (e *Engine) shuffle(library []*cardInstance) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(len(library), func(i, j int) {
		library[i], library[j] = library[j], library[i]
	})
}

// game returns the state for the given ID.
func (e *Engine) game(gameID string) (*gameState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// Subscribe registers an event listener for the given game. Listeners are
// invoked synchronously on the submitting goroutine and must not call back
// into the engine.
func (e *Engine) Subscribe(gameID string, listener rules.Listener) (int, error) {
	g, err := e.game(gameID)
	if err != nil {
		return -1, err
	}
	return g.events.Subscribe(listener), nil
}

// Unsubscribe removes a listener previously registered with Subscribe.
func (e *Engine) Unsubscribe(gameID string, handle int) {
	if g, err := e.game(gameID); err == nil {
		g.events.Unsubscribe(handle)
	}
}

// Events returns the buffered event history for the game.
func (e *Engine) Events(gameID string) ([]rules.Event, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]rules.Event, len(g.history))
	copy(out, g.history)
	return out, nil
}

// abort marks the game corrupted. Called when an internal invariant fails
// during processing (after validation has passed); no repair is attempted.
func (e *Engine) abort(g *gameState, err error) {
	g.status = StatusAborted
	e.logger.Error("game aborted on invariant violation",
		zap.String("game_id", g.gameID),
		zap.Error(err),
	)
}

// resolveTopAndReset pops and resolves the top stack object, runs the
// state-based sweep and hands priority back to the active player.
func (e *Engine) resolveTopAndReset(g *gameState) {
	obj, err := g.stack.ResolveTop()
	if err != nil {
		e.abort(g, fmt.Errorf("resolve top: %w", err))
		return
	}
	g.emit(rules.Event{
		Type:     rules.EventStackResolved,
		PlayerID: obj.Controller,
		SourceID: obj.SourceID,
		Detail:   obj.Description,
	})
	e.runStateBasedActions(g)
	if g.status != StatusInProgress {
		return
	}
	g.priority.Reset(g.turns.ActivePlayer())
	g.emit(rules.Event{Type: rules.EventPriorityAssigned, PlayerID: g.priority.Holder()})
}

// advanceUntilPriority advances the turn structure step by step, performing
// each step's turn-based actions, until it reaches a step where a living
// player receives priority (or the game ends).
func (e *Engine) advanceUntilPriority(g *gameState) {
	for g.status == StatusInProgress {
		var next string
		if g.turns.TurnWrapped() {
			next = g.nextLivingAfter(g.turns.ActivePlayer())
		}
		prevTurn := g.turns.TurnNumber()
		g.turns.AdvanceStep(next)
		if g.turns.TurnNumber() != prevTurn {
			e.beginTurn(g)
		}
		g.emit(rules.Event{
			Type:     rules.EventStepChanged,
			PlayerID: g.turns.ActivePlayer(),
		})

		e.enterStep(g)
		e.runStateBasedActions(g)
		if g.status != StatusInProgress {
			return
		}

		if g.turns.CurrentStep().HasPriorityRound() {
			g.priority.Reset(g.turns.ActivePlayer())
			g.emit(rules.Event{Type: rules.EventPriorityAssigned, PlayerID: g.priority.Holder()})
			return
		}
	}
}

// beginTurn resets per-turn entitlements when a new turn starts.
func (e *Engine) beginTurn(g *gameState) {
	for _, p := range g.players {
		p.LandsPlayedThisTurn = 0
	}
	g.emit(rules.Event{Type: rules.EventTurnBegan, PlayerID: g.turns.ActivePlayer()})
}

// enterStep performs the turn-based actions of the step just entered.
func (e *Engine) enterStep(g *gameState) {
	active, ok := g.player(g.turns.ActivePlayer())
	if !ok {
		e.abort(g, fmt.Errorf("active player %s: %w", g.turns.ActivePlayer(), ErrUnknownPlayer))
		return
	}

	// Mana pools empty as steps and phases end.
	for _, p := range g.players {
		p.Pool.Empty()
	}

	switch g.turns.CurrentStep() {
	case rules.StepUntap:
		if active.Eliminated {
			return
		}
		for _, card := range active.Battlefield {
			if card.Tapped {
				card.Tapped = false
				g.emit(rules.Event{Type: rules.EventUntapped, PlayerID: active.ID, SourceID: card.ID})
			}
			card.SummoningSick = false
		}
	case rules.StepDraw:
		if active.Eliminated {
			return
		}
		g.drawCard(active)
	case rules.StepCombatDamage:
		e.applyCombatDamage(g)
	case rules.StepEndCombat:
		e.clearCombat(g)
	case rules.StepCleanup:
		e.cleanupStep(g, active)
	}
}

// cleanupStep clears until-end-of-turn state and discards down to the
// maximum hand size. Discards are oldest-first, a deterministic stand-in for
// player choice.
func (e *Engine) cleanupStep(g *gameState, active *playerState) {
	for _, card := range g.cards {
		if card.Zone != ZoneBattlefield {
			continue
		}
		card.Damage = 0
		card.TempPower = 0
		card.TempToughness = 0
	}
	if active.Eliminated {
		return
	}
	for len(active.Hand) > e.opts.MaxHandSize {
		card := active.Hand[0]
		if err := g.moveCard(card.ID, ZoneHand, ZoneGraveyard, "discard to hand size"); err != nil {
			e.abort(g, err)
			return
		}
		g.emit(rules.Event{Type: rules.EventDiscardedCard, PlayerID: active.ID, SourceID: card.ID})
	}
}
