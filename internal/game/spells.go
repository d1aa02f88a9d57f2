package game

import (
	"fmt"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/mana"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// validateTargets checks the submitted target against the card's effect and
// returns the target list to stamp on the stack object. Targets are
// validated again at resolution; a vanished target fizzles the spell.
func (g *gameState) validateTargets(card *cardInstance, targetID string) ([]string, RejectionKind) {
	effect := card.Def.Effect
	if !effect.RequiresTarget() {
		if targetID != "" {
			return nil, RejectInvalidTarget
		}
		return nil, RejectNone
	}
	if targetID == "" {
		return nil, RejectInvalidTarget
	}
	if !g.targetLegal(effect, targetID) {
		return nil, RejectInvalidTarget
	}
	return []string{targetID}, RejectNone
}

// targetLegal reports whether the ID names a legal target for the effect
// right now.
func (g *gameState) targetLegal(effect catalog.Effect, targetID string) bool {
	switch effect.Kind {
	case catalog.EffectDamage:
		// Damage targets any creature on the battlefield or any living
		// player.
		if p, ok := g.player(targetID); ok {
			return !p.Eliminated
		}
		card, ok := g.cards[targetID]
		return ok && card.Zone == ZoneBattlefield && card.Def.Kind == catalog.KindCreature
	case catalog.EffectBuff:
		card, ok := g.cards[targetID]
		return ok && card.Zone == ZoneBattlefield && card.Def.Kind == catalog.KindCreature
	case catalog.EffectCounter:
		obj, ok := g.stack.Find(targetID)
		return ok && obj.Kind == rules.StackObjectSpell
	}
	return false
}

// payCost proves a payment plan against the player's pool and untapped mana
// sources, then executes it: sources tap, their mana enters the pool and the
// full cost is spent. Nothing mutates unless the whole cost is payable.
func (e *Engine) payCost(g *gameState, p *playerState, cost mana.Cost) error {
	plan, err := mana.PlanPayment(cost, p.Pool, p.untappedManaSources())
	if err != nil {
		return err
	}

	for _, tap := range plan.Taps {
		card, ok := g.cards[tap.SourceID]
		if !ok || card.Tapped {
			return fmt.Errorf("payment plan references unusable source %s", tap.SourceID)
		}
		card.Tapped = true
		p.Pool.Add(tap.Produces, 1)
		g.emit(rules.Event{Type: rules.EventTapped, PlayerID: p.ID, SourceID: card.ID})
		g.emit(rules.Event{Type: rules.EventManaAdded, PlayerID: p.ID, SourceID: card.ID, Amount: 1, Detail: string(tap.Produces)})
	}

	for t, n := range cost.Colored {
		if !p.Pool.Spend(t, n) {
			return fmt.Errorf("spend %d %s: %w", n, t, mana.ErrInsufficientMana)
		}
	}
	if !p.Pool.SpendAny(cost.Generic) {
		return fmt.Errorf("spend %d generic: %w", cost.Generic, mana.ErrInsufficientMana)
	}
	return nil
}

// spellResolver builds the resolution closure for a spell on the stack.
// Permanents enter the battlefield (creatures summoning-sick); one-shot
// spells apply their effect and go to the graveyard. A spell whose sole
// target is gone fizzles straight to the graveyard with no effect.
func (e *Engine) spellResolver(g *gameState, card *cardInstance) func(rules.StackObject) error {
	return func(obj rules.StackObject) error {
		effect := card.Def.Effect
		if effect.RequiresTarget() {
			if len(obj.Targets) != 1 || !g.targetLegal(effect, obj.Targets[0]) {
				g.emit(rules.Event{
					Type:     rules.EventStackCountered,
					PlayerID: obj.Controller,
					SourceID: card.ID,
					Detail:   fmt.Sprintf("%s fizzled", card.Def.Name),
				})
				return g.moveCard(card.ID, ZoneStack, ZoneGraveyard, "fizzled")
			}
		}

		if card.Def.IsPermanent() {
			if err := g.moveCard(card.ID, ZoneStack, ZoneBattlefield, "resolved"); err != nil {
				return err
			}
			if card.Def.Kind == catalog.KindCreature {
				card.SummoningSick = true
			}
			return nil
		}

		if err := g.applyEffect(obj.Controller, card, obj.Targets); err != nil {
			return err
		}
		return g.moveCard(card.ID, ZoneStack, ZoneGraveyard, "resolved")
	}
}

// applyEffect carries out a one-shot spell effect. Destruction from lethal
// damage is not applied here; the state-based sweep after resolution handles
// it.
func (g *gameState) applyEffect(controllerID string, card *cardInstance, targets []string) error {
	effect := card.Def.Effect
	switch effect.Kind {
	case catalog.EffectNone:
		return nil

	case catalog.EffectDamage:
		targetID := targets[0]
		if p, ok := g.player(targetID); ok {
			p.Life -= effect.Amount
			g.emit(rules.Event{
				Type:     rules.EventLifeChanged,
				PlayerID: p.ID,
				SourceID: card.ID,
				Amount:   -effect.Amount,
				Detail:   fmt.Sprintf("%s deals %d damage", card.Def.Name, effect.Amount),
			})
			return nil
		}
		target, ok := g.cards[targetID]
		if !ok {
			return fmt.Errorf("damage target %s vanished", targetID)
		}
		target.Damage += effect.Amount
		g.emit(rules.Event{
			Type:     rules.EventDamagedCreature,
			PlayerID: controllerID,
			TargetID: target.ID,
			SourceID: card.ID,
			Amount:   effect.Amount,
		})
		return nil

	case catalog.EffectBuff:
		target, ok := g.cards[targets[0]]
		if !ok {
			return fmt.Errorf("buff target %s vanished", targets[0])
		}
		target.TempPower += effect.Power
		target.TempToughness += effect.Toughness
		return nil

	case catalog.EffectCounter:
		countered, ok := g.stack.Remove(targets[0])
		if !ok {
			return fmt.Errorf("countered spell %s vanished", targets[0])
		}
		g.emit(rules.Event{
			Type:     rules.EventStackCountered,
			PlayerID: controllerID,
			TargetID: countered.SourceID,
			SourceID: card.ID,
			Detail:   countered.Description,
		})
		// The countered card goes to its owner's graveyard without
		// resolving. A countered commander is still redirect-eligible.
		return g.moveCard(countered.SourceID, ZoneStack, ZoneGraveyard, "countered")
	}
	return fmt.Errorf("unhandled effect kind %q", effect.Kind)
}
