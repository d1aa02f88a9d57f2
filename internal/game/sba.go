package game

import (
	"sort"

	"go.uber.org/zap"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// runStateBasedActions sweeps the game for rule-mandated consequences and
// applies them until none remain: creatures with lethal damage or zero
// toughness die, players at or below zero life, at 21+ commander damage
// from a single commander or who drew from an empty library are eliminated,
// and end-of-game conditions are checked. The sweep is idempotent: a state
// with no pending consequences is untouched.
func (e *Engine) runStateBasedActions(g *gameState) {
	if g.status != StatusInProgress {
		return
	}

	for {
		acted := false

		if e.sweepCreatures(g) {
			acted = true
		}
		if e.sweepPlayers(g) {
			acted = true
		}
		if g.status != StatusInProgress {
			return
		}
		if !acted {
			return
		}
	}
}

// sweepCreatures destroys every battlefield creature whose marked damage
// meets its toughness or whose toughness is zero or less. Destruction order
// is deterministic by instance ID.
func (e *Engine) sweepCreatures(g *gameState) bool {
	var dead []*cardInstance
	for _, card := range g.cards {
		if card.Zone != ZoneBattlefield || card.Def.Kind != catalog.KindCreature {
			continue
		}
		toughness := card.currentToughness()
		if toughness <= 0 || card.Damage >= toughness {
			dead = append(dead, card)
		}
	}
	if len(dead) == 0 {
		return false
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].ID < dead[j].ID })

	for _, card := range dead {
		g.emit(rules.Event{
			Type:     rules.EventCreatureDestroyed,
			PlayerID: card.ControllerID,
			SourceID: card.ID,
			Detail:   card.Def.Name,
		})
		if err := g.moveCard(card.ID, ZoneBattlefield, ZoneGraveyard, "lethal damage"); err != nil {
			e.abort(g, err)
			return false
		}
	}
	return true
}

// sweepPlayers eliminates players who meet a loss condition and settles the
// end of the game when one or zero players remain.
func (e *Engine) sweepPlayers(g *gameState) bool {
	acted := false
	for _, id := range g.playerOrder {
		p := g.players[id]
		if p.Eliminated {
			continue
		}
		reason := lossReason(p)
		if reason == "" {
			continue
		}
		e.eliminate(g, p, reason)
		acted = true
	}

	living := g.livingPlayers()
	switch len(living) {
	case 0:
		g.status = StatusDraw
		g.emit(rules.Event{Type: rules.EventGameDraw})
		acted = true
	case 1:
		g.status = StatusFinished
		g.winnerID = living[0]
		g.emit(rules.Event{Type: rules.EventGameOver, PlayerID: living[0]})
		acted = true
	}
	return acted
}

// lossReason names the loss condition the player currently meets, or "".
func lossReason(p *playerState) string {
	if p.Life <= 0 {
		return "life total at or below zero"
	}
	for _, dmg := range p.CommanderDamage {
		if dmg >= lethalCommanderDamage {
			return "21 or more combat damage from a single commander"
		}
	}
	if p.DrewFromEmptyLibrary {
		return "drew from an empty library"
	}
	return ""
}

// eliminate removes a player from the game: they drop from the priority
// rotation and their seat is skipped by the turn order from now on. Their
// cards are left in place; only their pending spells cease to exist.
func (e *Engine) eliminate(g *gameState, p *playerState, reason string) {
	p.Eliminated = true
	// An eliminated player's commander no longer returns to the command
	// zone.
	p.DeclineCommanderRedirect = true

	// Spells the player controls on the stack cease to exist.
	for _, obj := range g.stack.List() {
		if obj.Controller != p.ID {
			continue
		}
		g.stack.Remove(obj.ID)
		if card, ok := g.cards[obj.SourceID]; ok && card.Zone == ZoneStack {
			if err := g.moveCard(card.ID, ZoneStack, ZoneGraveyard, "controller eliminated"); err != nil {
				e.abort(g, err)
				return
			}
		}
	}

	g.priority.Remove(p.ID)

	g.emit(rules.Event{
		Type:     rules.EventPlayerEliminated,
		PlayerID: p.ID,
		Detail:   reason,
	})
	e.logger.Info("player eliminated",
		zap.String("game_id", g.gameID),
		zap.String("player_id", p.ID),
		zap.String("reason", reason),
	)
}
