package game

import (
	"fmt"

	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// errStaleZone signals that a caller tried to move a card that is not where
// it believes it is. Every move request is validated before it is issued, so
// a stale claim here means corrupted state.
type errStaleZone struct {
	cardID  string
	claimed Zone
	actual  Zone
}

func (e *errStaleZone) Error() string {
	return fmt.Sprintf("card %s is in %s, not %s", e.cardID, e.actual, e.claimed)
}

// rejectCardRef classifies a failed card lookup at the action boundary. A
// card that exists but sits in another zone is a stale claim about where it
// is; one the game has never seen is a bad source.
func (g *gameState) rejectCardRef(cardID string) RejectionKind {
	if _, ok := g.cards[cardID]; ok {
		return RejectInvalidZoneTransition
	}
	return RejectInvalidSource
}

// moveCard relocates a card instance between zones. It is the single
// mutation point for card placement: zone exclusivity holds because the card
// is removed from its source container and appended to exactly one
// destination under the game lock.
//
// Commander instances headed to a graveyard or exile are redirected to their
// owner's command zone unless the owner has declined, and each such redirect
// accrues 2 command tax.
func (g *gameState) moveCard(cardID string, from, to Zone, reason string) error {
	card, ok := g.cards[cardID]
	if !ok {
		return &errStaleZone{cardID: cardID, claimed: from, actual: -1}
	}
	if card.Zone != from {
		return &errStaleZone{cardID: cardID, claimed: from, actual: card.Zone}
	}

	owner, ok := g.player(card.OwnerID)
	if !ok {
		return fmt.Errorf("card %s: %w", cardID, ErrUnknownPlayer)
	}

	if card.IsCommander && (to == ZoneGraveyard || to == ZoneExile) && !owner.DeclineCommanderRedirect {
		to = ZoneCommand
		owner.CommandTax += commandTaxIncrement
		g.emit(rules.Event{
			Type:     rules.EventCommanderReturned,
			PlayerID: owner.ID,
			SourceID: card.ID,
			Amount:   owner.CommandTax,
			Detail:   reason,
		})
	}

	if from != ZoneStack {
		slice, ok := owner.zoneSlice(from)
		if !ok {
			return fmt.Errorf("card %s: no container for zone %s", cardID, from)
		}
		if !removeInstance(slice, cardID) {
			return &errStaleZone{cardID: cardID, claimed: from, actual: card.Zone}
		}
	}

	// Battlefield-transient state resets on departure: tap status, sickness,
	// marked damage, counters and temporary modifiers all belong to the
	// permanent, not the card.
	if from == ZoneBattlefield {
		card.Tapped = false
		card.SummoningSick = false
		card.Damage = 0
		card.TempPower = 0
		card.TempToughness = 0
		card.AttackingPlayer = ""
		card.Counters.Clear()
		card.ControllerID = card.OwnerID
	}

	if to != ZoneStack {
		slice, ok := owner.zoneSlice(to)
		if !ok {
			return fmt.Errorf("card %s: no container for zone %s", cardID, to)
		}
		*slice = append(*slice, card)
	}
	card.Zone = to

	g.emit(rules.Event{
		Type:     rules.EventZoneChange,
		PlayerID: card.OwnerID,
		SourceID: card.ID,
		Detail:   fmt.Sprintf("%s: %s -> %s (%s)", card.Def.Name, from, to, reason),
	})
	return nil
}

// removeInstance deletes the card with the given ID from a zone container,
// preserving order. Returns false if the card is not present.
func removeInstance(slice *[]*cardInstance, cardID string) bool {
	cards := *slice
	for i, card := range cards {
		if card.ID == cardID {
			*slice = append(cards[:i], cards[i+1:]...)
			return true
		}
	}
	return false
}

// drawCard moves the top card of the player's library to their hand. An
// empty-library draw is recorded but does not eliminate immediately; the
// state-based sweep asserts the loss, preserving ordering with simultaneous
// effects.
func (g *gameState) drawCard(p *playerState) {
	if len(p.Library) == 0 {
		p.DrewFromEmptyLibrary = true
		g.emit(rules.Event{Type: rules.EventDrewFromEmptyLibrary, PlayerID: p.ID})
		return
	}
	card := p.Library[0]
	p.Library = p.Library[1:]
	p.Hand = append(p.Hand, card)
	card.Zone = ZoneHand
	g.emit(rules.Event{Type: rules.EventDrewCard, PlayerID: p.ID, SourceID: card.ID})
}
