package game

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// ActionKind enumerates the actions a player may submit.
type ActionKind string

const (
	ActionPassPriority         ActionKind = "PASS_PRIORITY"
	ActionPlayLand             ActionKind = "PLAY_LAND"
	ActionCastSpell            ActionKind = "CAST_SPELL"
	ActionCastCommander        ActionKind = "CAST_COMMANDER"
	ActionTapForMana           ActionKind = "TAP_FOR_MANA"
	ActionDeclareAttackers     ActionKind = "DECLARE_ATTACKERS"
	ActionDeclareBlockers      ActionKind = "DECLARE_BLOCKERS"
	ActionSetCommanderRedirect ActionKind = "SET_COMMANDER_REDIRECT"
)

// AttackDecl assigns one attacking creature to one defending player.
type AttackDecl struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`
}

// BlockDecl assigns one blocking creature to one attacking creature.
type BlockDecl struct {
	BlockerID  string `json:"blocker_id"`
	AttackerID string `json:"attacker_id"`
}

// Action is a candidate game action submitted by a player. Which fields are
// consulted depends on Kind.
type Action struct {
	Kind     ActionKind `json:"kind"`
	PlayerID string     `json:"player_id"`
	CardID   string     `json:"card_id,omitempty"`
	TargetID string     `json:"target_id,omitempty"`

	Attacks []AttackDecl `json:"attacks,omitempty"`
	Blocks  []BlockDecl  `json:"blocks,omitempty"`

	DeclineCommanderRedirect bool `json:"decline_commander_redirect,omitempty"`
}

// ActionResult is the engine's answer to a submitted action. Rejections are
// ordinary outcomes, not errors: the state is untouched and Rejection names
// the rule that blocked the action.
type ActionResult struct {
	Applied   bool          `json:"applied"`
	Rejection RejectionKind `json:"rejection,omitempty"`

	// Waiting names the player who must act next.
	Waiting string `json:"waiting,omitempty"`

	Events   []rules.Event `json:"events,omitempty"`
	Snapshot *GameView     `json:"snapshot,omitempty"`
}

// SubmitAction validates and, if legal, applies a player action. Validation
// is total before any mutation: a rejected action leaves the game state
// bit-for-bit unchanged.
func (e *Engine) SubmitAction(gameID string, action Action) (ActionResult, error) {
	g, err := e.game(gameID)
	if err != nil {
		return ActionResult{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	historyMark := len(g.history)

	result := e.dispatch(g, action)

	if g.status == StatusAborted {
		return ActionResult{}, fmt.Errorf("game %s: %w", gameID, ErrGameCorrupted)
	}

	result.Events = append(result.Events, g.history[historyMark:]...)
	result.Waiting = e.waitingOn(g)
	result.Snapshot = e.snapshotLocked(g, action.PlayerID)

	if !result.Applied {
		e.logger.Debug("action rejected",
			zap.String("game_id", gameID),
			zap.String("player_id", action.PlayerID),
			zap.String("kind", string(action.Kind)),
			zap.String("rejection", string(result.Rejection)),
		)
	}
	return result, nil
}

func (e *Engine) dispatch(g *gameState, action Action) ActionResult {
	if g.status != StatusInProgress {
		return ActionResult{Rejection: RejectGameOver}
	}
	p, ok := g.player(action.PlayerID)
	if !ok || p.Eliminated {
		return ActionResult{Rejection: RejectNotPriorityHolder}
	}

	switch action.Kind {
	case ActionPassPriority:
		return e.passPriority(g, action)
	case ActionPlayLand:
		return e.playLand(g, action)
	case ActionCastSpell:
		return e.castSpell(g, action, false)
	case ActionCastCommander:
		return e.castSpell(g, action, true)
	case ActionTapForMana:
		return e.tapForMana(g, action)
	case ActionDeclareAttackers:
		return e.declareAttackers(g, action)
	case ActionDeclareBlockers:
		return e.declareBlockers(g, action)
	case ActionSetCommanderRedirect:
		p.DeclineCommanderRedirect = action.DeclineCommanderRedirect
		return ActionResult{Applied: true}
	default:
		return ActionResult{Rejection: RejectUnknownAction}
	}
}

// waitingOn names the player the game is suspended on.
func (e *Engine) waitingOn(g *gameState) string {
	if g.status != StatusInProgress {
		return ""
	}
	return g.priority.Holder()
}

// passPriority advances the pass count. When every living player has passed
// consecutively, either the top of the stack resolves or, with an empty
// stack, the turn structure advances.
func (e *Engine) passPriority(g *gameState, action Action) ActionResult {
	allPassed, err := g.priority.Pass(action.PlayerID)
	if err != nil {
		return ActionResult{Rejection: RejectNotPriorityHolder}
	}
	g.emit(rules.Event{Type: rules.EventPriorityPassed, PlayerID: action.PlayerID})

	if !allPassed {
		g.emit(rules.Event{Type: rules.EventPriorityAssigned, PlayerID: g.priority.Holder()})
		return ActionResult{Applied: true}
	}

	if !g.stack.IsEmpty() {
		e.resolveTopAndReset(g)
		return ActionResult{Applied: true}
	}

	e.advanceUntilPriority(g)
	return ActionResult{Applied: true}
}

// playLand puts a land from the submitting player's hand onto the
// battlefield. Lands do not use the stack; one per turn, main phase, empty
// stack, active player only.
func (e *Engine) playLand(g *gameState, action Action) ActionResult {
	p, _ := g.player(action.PlayerID)

	if action.PlayerID != g.turns.ActivePlayer() {
		return ActionResult{Rejection: RejectNotActivePlayer}
	}
	if g.priority.Holder() != action.PlayerID {
		return ActionResult{Rejection: RejectNotPriorityHolder}
	}
	if !g.turns.CurrentPhase().IsMain() || !g.stack.IsEmpty() {
		return ActionResult{Rejection: RejectWrongPhase}
	}
	if p.LandsPlayedThisTurn >= 1 {
		return ActionResult{Rejection: RejectLandLimitExceeded}
	}

	card := g.findInZone(p.Hand, action.CardID)
	if card == nil {
		return ActionResult{Rejection: g.rejectCardRef(action.CardID)}
	}
	if card.Def.Kind != catalog.KindLand {
		return ActionResult{Rejection: RejectInvalidSource}
	}

	if err := g.moveCard(card.ID, ZoneHand, ZoneBattlefield, "land play"); err != nil {
		e.abort(g, err)
		return ActionResult{}
	}
	p.LandsPlayedThisTurn++
	g.emit(rules.Event{Type: rules.EventLandPlayed, PlayerID: p.ID, SourceID: card.ID, Detail: card.Def.Name})
	e.runStateBasedActions(g)
	return ActionResult{Applied: true}
}

// tapForMana taps a battlefield permanent for mana. Mana abilities do not
// use the stack and may be activated whenever the player holds priority.
// The first produced type is added unless TargetID selects another.
func (e *Engine) tapForMana(g *gameState, action Action) ActionResult {
	p, _ := g.player(action.PlayerID)
	if g.priority.Holder() != action.PlayerID {
		return ActionResult{Rejection: RejectNotPriorityHolder}
	}

	card := g.findInZone(p.Battlefield, action.CardID)
	if card == nil {
		return ActionResult{Rejection: g.rejectCardRef(action.CardID)}
	}
	if len(card.Def.Produces) == 0 {
		return ActionResult{Rejection: RejectInvalidSource}
	}
	if card.Tapped {
		return ActionResult{Rejection: RejectInvalidSource}
	}

	produced := card.Def.Produces[0]
	if action.TargetID != "" {
		found := false
		for _, t := range card.Def.Produces {
			if string(t) == action.TargetID {
				produced = t
				found = true
				break
			}
		}
		if !found {
			return ActionResult{Rejection: RejectInvalidTarget}
		}
	}

	card.Tapped = true
	p.Pool.Add(produced, 1)
	g.emit(rules.Event{Type: rules.EventTapped, PlayerID: p.ID, SourceID: card.ID})
	g.emit(rules.Event{Type: rules.EventManaAdded, PlayerID: p.ID, SourceID: card.ID, Amount: 1, Detail: string(produced)})
	return ActionResult{Applied: true}
}

// castSpell casts a card from hand (or, for commanders, from the command
// zone). The full cost is computed, a payment plan is proved against pool
// plus untapped sources, and only then is anything mutated: payment is made,
// the card moves to the stack and priority resets to the active player.
func (e *Engine) castSpell(g *gameState, action Action, fromCommandZone bool) ActionResult {
	p, _ := g.player(action.PlayerID)
	if g.priority.Holder() != action.PlayerID {
		return ActionResult{Rejection: RejectNotPriorityHolder}
	}

	var card *cardInstance
	var fromZone Zone
	if fromCommandZone {
		card = g.findInZone(p.CommandZone, action.CardID)
		fromZone = ZoneCommand
		if card == nil {
			return ActionResult{Rejection: g.rejectCardRef(action.CardID)}
		}
		if !card.IsCommander {
			return ActionResult{Rejection: RejectInvalidSource}
		}
	} else {
		card = g.findInZone(p.Hand, action.CardID)
		fromZone = ZoneHand
		if card == nil {
			return ActionResult{Rejection: g.rejectCardRef(action.CardID)}
		}
	}
	if card.Def.Kind == catalog.KindLand {
		return ActionResult{Rejection: RejectInvalidSource}
	}

	// Sorcery-speed spells need the caster's own main phase and an empty
	// stack; instants cast any time their controller holds priority.
	if card.Def.SorcerySpeed() {
		if action.PlayerID != g.turns.ActivePlayer() {
			return ActionResult{Rejection: RejectNotActivePlayer}
		}
		if !g.turns.CurrentPhase().IsMain() || !g.stack.IsEmpty() {
			return ActionResult{Rejection: RejectWrongTiming}
		}
	}

	targets, rejection := g.validateTargets(card, action.TargetID)
	if rejection != RejectNone {
		return ActionResult{Rejection: rejection}
	}

	cost := card.Def.Cost
	if fromCommandZone {
		cost = cost.AddGeneric(p.CommandTax)
	}
	if err := e.payCost(g, p, cost); err != nil {
		return ActionResult{Rejection: RejectInsufficientMana}
	}

	if err := g.moveCard(card.ID, fromZone, ZoneStack, "cast"); err != nil {
		e.abort(g, err)
		return ActionResult{}
	}

	obj := rules.StackObject{
		ID:          uuid.NewString(),
		Kind:        rules.StackObjectSpell,
		Controller:  p.ID,
		SourceID:    card.ID,
		Description: card.Def.Name,
		Targets:     targets,
		Resolve:     e.spellResolver(g, card),
	}
	g.stack.Push(obj)

	g.emit(rules.Event{
		Type:     rules.EventSpellCast,
		PlayerID: p.ID,
		SourceID: card.ID,
		Detail:   card.Def.Name,
		Amount:   cost.Value(),
	})

	g.priority.Reset(g.turns.ActivePlayer())
	g.emit(rules.Event{Type: rules.EventPriorityAssigned, PlayerID: g.priority.Holder()})
	return ActionResult{Applied: true}
}

// findInZone locates a card instance by ID inside one zone container.
func (g *gameState) findInZone(zone []*cardInstance, cardID string) *cardInstance {
	if cardID == "" {
		return nil
	}
	for _, card := range zone {
		if card.ID == cardID {
			return card
		}
	}
	return nil
}
