package game

import (
	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/mana"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// LegalAction describes one action the player could legally submit right
// now. Card-targeted kinds carry the card; the caller fills in targets.
type LegalAction struct {
	Kind   ActionKind `json:"kind"`
	CardID string     `json:"card_id,omitempty"`
	Name   string     `json:"name,omitempty"`
}

// LegalActions enumerates what the given player may do in the current state.
// The enumeration mirrors the validators exactly: an action listed here
// passes validation, and one absent here is rejected.
func (e *Engine) LegalActions(gameID, playerID string) ([]LegalAction, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusInProgress {
		return nil, nil
	}
	p, ok := g.player(playerID)
	if !ok || p.Eliminated {
		return nil, nil
	}

	var actions []LegalAction
	actions = append(actions, LegalAction{Kind: ActionSetCommanderRedirect})

	holdsPriority := g.priority.Holder() == playerID
	if !holdsPriority {
		if e.mayDeclareBlockers(g, playerID) {
			actions = append(actions, LegalAction{Kind: ActionDeclareBlockers})
		}
		return actions, nil
	}

	actions = append(actions, LegalAction{Kind: ActionPassPriority})

	for _, card := range p.Battlefield {
		if !card.Tapped && len(card.Def.Produces) > 0 {
			actions = append(actions, LegalAction{Kind: ActionTapForMana, CardID: card.ID, Name: card.Def.Name})
		}
	}

	active := playerID == g.turns.ActivePlayer()
	mainOpen := active && g.turns.CurrentPhase().IsMain() && g.stack.IsEmpty()

	if mainOpen && p.LandsPlayedThisTurn < 1 {
		for _, card := range p.Hand {
			if card.Def.Kind == catalog.KindLand {
				actions = append(actions, LegalAction{Kind: ActionPlayLand, CardID: card.ID, Name: card.Def.Name})
			}
		}
	}

	sources := p.untappedManaSources()
	for _, card := range p.Hand {
		if card.Def.Kind == catalog.KindLand {
			continue
		}
		if card.Def.SorcerySpeed() && !mainOpen {
			continue
		}
		if !mana.CanPay(card.Def.Cost, p.Pool, sources) {
			continue
		}
		actions = append(actions, LegalAction{Kind: ActionCastSpell, CardID: card.ID, Name: card.Def.Name})
	}

	if commander := g.findInZone(p.CommandZone, p.CommanderID); commander != nil {
		if mainOpen || !commander.Def.SorcerySpeed() {
			cost := commander.Def.Cost.AddGeneric(p.CommandTax)
			if mana.CanPay(cost, p.Pool, sources) {
				actions = append(actions, LegalAction{Kind: ActionCastCommander, CardID: commander.ID, Name: commander.Def.Name})
			}
		}
	}

	if active && g.turns.CurrentStep() == rules.StepDeclareAttackers && !g.attackersDeclared {
		actions = append(actions, LegalAction{Kind: ActionDeclareAttackers})
	}
	if e.mayDeclareBlockers(g, playerID) {
		actions = append(actions, LegalAction{Kind: ActionDeclareBlockers})
	}

	return actions, nil
}

// mayDeclareBlockers reports whether the player is a defender who has not
// yet declared blockers this combat.
func (e *Engine) mayDeclareBlockers(g *gameState, playerID string) bool {
	if g.turns.CurrentStep() != rules.StepDeclareBlockers {
		return false
	}
	if playerID == g.turns.ActivePlayer() || g.blockersDeclaredBy[playerID] {
		return false
	}
	return g.combat.hasDefender(playerID)
}
