package game

import (
	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// attackRecord tracks one attacking creature for the current combat.
type attackRecord struct {
	AttackerID  string
	DefenderID  string
	IsCommander bool
	// Blockers in declaration order; damage assignment follows this order.
	Blockers []string
}

// combatState holds the attack assignments for the current combat phase.
// Cleared when the end-of-combat step begins.
type combatState struct {
	attackers map[string]*attackRecord
	order     []string
}

func newCombatState() *combatState {
	return &combatState{attackers: make(map[string]*attackRecord)}
}

func (c *combatState) reset() {
	c.attackers = make(map[string]*attackRecord)
	c.order = nil
}

// hasDefender reports whether at least one attacker is assaulting the player.
func (c *combatState) hasDefender(playerID string) bool {
	for _, record := range c.attackers {
		if record.DefenderID == playerID {
			return true
		}
	}
	return false
}

// declareAttackers processes the active player's attack declaration. The
// whole declaration validates before any creature taps; an empty declaration
// is legal and skips combat damage.
func (e *Engine) declareAttackers(g *gameState, action Action) ActionResult {
	p, _ := g.player(action.PlayerID)

	if action.PlayerID != g.turns.ActivePlayer() {
		return ActionResult{Rejection: RejectNotActivePlayer}
	}
	if g.turns.CurrentStep() != rules.StepDeclareAttackers {
		return ActionResult{Rejection: RejectWrongPhase}
	}
	if g.priority.Holder() != action.PlayerID {
		return ActionResult{Rejection: RejectNotPriorityHolder}
	}
	if g.attackersDeclared {
		return ActionResult{Rejection: RejectAlreadyDeclared}
	}

	seen := make(map[string]bool, len(action.Attacks))
	for _, decl := range action.Attacks {
		if seen[decl.AttackerID] {
			return ActionResult{Rejection: RejectInvalidSource}
		}
		seen[decl.AttackerID] = true

		card := g.findInZone(p.Battlefield, decl.AttackerID)
		if card == nil || !card.canAttack() {
			return ActionResult{Rejection: RejectInvalidSource}
		}
		defender, ok := g.player(decl.DefenderID)
		if !ok || defender.Eliminated || decl.DefenderID == action.PlayerID {
			return ActionResult{Rejection: RejectInvalidTarget}
		}
	}

	for _, decl := range action.Attacks {
		card := g.findInZone(p.Battlefield, decl.AttackerID)
		if !card.Def.HasKeyword(catalog.KeywordVigilance) {
			card.Tapped = true
		}
		card.AttackingPlayer = decl.DefenderID
		g.combat.attackers[decl.AttackerID] = &attackRecord{
			AttackerID:  decl.AttackerID,
			DefenderID:  decl.DefenderID,
			IsCommander: card.IsCommander,
		}
		g.combat.order = append(g.combat.order, decl.AttackerID)
	}
	g.attackersDeclared = true

	g.emit(rules.Event{
		Type:     rules.EventAttackersDeclared,
		PlayerID: p.ID,
		Amount:   len(action.Attacks),
	})

	g.priority.Reset(g.turns.ActivePlayer())
	g.emit(rules.Event{Type: rules.EventPriorityAssigned, PlayerID: g.priority.Holder()})
	return ActionResult{Applied: true}
}

// declareBlockers processes one defending player's block declaration. Each
// defender declares once per combat; blockers must be that player's untapped
// creatures, and each may block only an attacker assaulting its controller.
func (e *Engine) declareBlockers(g *gameState, action Action) ActionResult {
	p, _ := g.player(action.PlayerID)

	if g.turns.CurrentStep() != rules.StepDeclareBlockers {
		return ActionResult{Rejection: RejectWrongPhase}
	}
	if action.PlayerID == g.turns.ActivePlayer() {
		return ActionResult{Rejection: RejectInvalidSource}
	}
	if g.blockersDeclaredBy[action.PlayerID] {
		return ActionResult{Rejection: RejectAlreadyDeclared}
	}
	// Only a player someone is attacking declares blocks.
	if !g.combat.hasDefender(action.PlayerID) {
		return ActionResult{Rejection: RejectIllegalBlock}
	}

	seen := make(map[string]bool, len(action.Blocks))
	for _, decl := range action.Blocks {
		if seen[decl.BlockerID] {
			return ActionResult{Rejection: RejectIllegalBlock}
		}
		seen[decl.BlockerID] = true

		blocker := g.findInZone(p.Battlefield, decl.BlockerID)
		if blocker == nil || !blocker.canBlock() {
			return ActionResult{Rejection: RejectIllegalBlock}
		}
		record, ok := g.combat.attackers[decl.AttackerID]
		if !ok || record.DefenderID != action.PlayerID {
			return ActionResult{Rejection: RejectIllegalBlock}
		}
	}

	for _, decl := range action.Blocks {
		record := g.combat.attackers[decl.AttackerID]
		record.Blockers = append(record.Blockers, decl.BlockerID)
	}
	g.blockersDeclaredBy[action.PlayerID] = true

	g.emit(rules.Event{
		Type:     rules.EventBlockersDeclared,
		PlayerID: p.ID,
		Amount:   len(action.Blocks),
	})

	g.priority.Reset(g.turns.ActivePlayer())
	g.emit(rules.Event{Type: rules.EventPriorityAssigned, PlayerID: g.priority.Holder()})
	return ActionResult{Applied: true}
}

// applyCombatDamage assigns and deals all combat damage simultaneously as
// the combat damage step begins. Unblocked attackers damage the defending
// player; blocked attackers assign lethal damage to each blocker in declared
// order with any remainder spilling onto the last blocker. Blockers strike
// their attacker back. Deaths are not processed here; the state-based sweep
// after the step entry destroys lethally damaged creatures.
func (e *Engine) applyCombatDamage(g *gameState) {
	type pendingDamage struct {
		target *cardInstance
		amount int
	}
	type pendingPlayerDamage struct {
		player        *playerState
		amount        int
		fromCommander string // attacking player's ID when damage is commander damage
		sourceID      string
	}

	var toCreatures []pendingDamage
	var toPlayers []pendingPlayerDamage

	for _, attackerID := range g.combat.order {
		record := g.combat.attackers[attackerID]
		attacker, ok := g.cards[attackerID]
		if !ok || attacker.Zone != ZoneBattlefield {
			continue // attacker left combat
		}
		power := attacker.currentPower()

		var blockers []*cardInstance
		for _, blockerID := range record.Blockers {
			blocker, ok := g.cards[blockerID]
			if ok && blocker.Zone == ZoneBattlefield {
				blockers = append(blockers, blocker)
			}
		}

		if len(blockers) == 0 {
			defender, ok := g.player(record.DefenderID)
			if !ok || defender.Eliminated || power <= 0 {
				continue
			}
			pd := pendingPlayerDamage{player: defender, amount: power, sourceID: attackerID}
			if record.IsCommander {
				pd.fromCommander = attacker.ControllerID
			}
			toPlayers = append(toPlayers, pd)
		} else {
			remaining := power
			for i, blocker := range blockers {
				if remaining <= 0 {
					break
				}
				assign := blocker.currentToughness() - blocker.Damage
				if assign < 0 {
					assign = 0
				}
				if i == len(blockers)-1 || assign > remaining {
					assign = remaining
				}
				toCreatures = append(toCreatures, pendingDamage{target: blocker, amount: assign})
				remaining -= assign
			}
			for _, blocker := range blockers {
				if bp := blocker.currentPower(); bp > 0 {
					toCreatures = append(toCreatures, pendingDamage{target: attacker, amount: bp})
				}
			}
		}
	}

	for _, pd := range toCreatures {
		if pd.amount <= 0 {
			continue
		}
		pd.target.Damage += pd.amount
		g.emit(rules.Event{
			Type:     rules.EventCombatDamage,
			TargetID: pd.target.ID,
			Amount:   pd.amount,
		})
	}
	for _, pd := range toPlayers {
		pd.player.Life -= pd.amount
		g.emit(rules.Event{
			Type:     rules.EventCombatDamage,
			PlayerID: pd.player.ID,
			SourceID: pd.sourceID,
			Amount:   pd.amount,
		})
		if pd.fromCommander != "" {
			pd.player.CommanderDamage[pd.fromCommander] += pd.amount
			g.emit(rules.Event{
				Type:     rules.EventCommanderDamage,
				PlayerID: pd.player.ID,
				SourceID: pd.sourceID,
				Amount:   pd.player.CommanderDamage[pd.fromCommander],
				Detail:   pd.fromCommander,
			})
		}
	}
}

// clearCombat wipes combat assignments as the end-of-combat step begins.
func (e *Engine) clearCombat(g *gameState) {
	for _, attackerID := range g.combat.order {
		if card, ok := g.cards[attackerID]; ok {
			card.AttackingPlayer = ""
		}
	}
	g.combat.reset()
	g.attackersDeclared = false
	g.blockersDeclaredBy = make(map[string]bool)
}
