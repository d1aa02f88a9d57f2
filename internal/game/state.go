package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/counters"
	"github.com/magefree/commander-engine-go/internal/game/mana"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

// Zone identifies the container a card instance currently occupies.
type Zone int

const (
	ZoneLibrary Zone = iota
	ZoneHand
	ZoneBattlefield
	ZoneGraveyard
	ZoneStack
	ZoneExile
	ZoneCommand
)

var zoneNames = map[Zone]string{
	ZoneLibrary:     "LIBRARY",
	ZoneHand:        "HAND",
	ZoneBattlefield: "BATTLEFIELD",
	ZoneGraveyard:   "GRAVEYARD",
	ZoneStack:       "STACK",
	ZoneExile:       "EXILE",
	ZoneCommand:     "COMMAND",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(z))
}

// GameStatus reports whether a game is still accepting actions.
type GameStatus string

const (
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinished   GameStatus = "FINISHED"
	StatusDraw       GameStatus = "DRAW"
	// StatusAborted marks a game whose internal invariants were violated.
	// Aborted games reject every further action.
	StatusAborted GameStatus = "ABORTED"
)

// cardInstance is a unique, non-reusable token identifying one physical
// card's presence in a zone. An instance occupies exactly one zone at any
// instant; moveCard is the only way its container changes.
type cardInstance struct {
	ID           string
	Def          catalog.Definition
	OwnerID      string
	ControllerID string
	Zone         Zone

	Tapped        bool
	SummoningSick bool
	IsCommander   bool

	Damage   int
	Counters *counters.Counters
	// Until-end-of-turn modifiers, cleared at cleanup.
	TempPower     int
	TempToughness int

	// Combat state, cleared when combat ends.
	AttackingPlayer string
}

// currentPower returns the creature's power after counters and temporary
// modifiers.
func (c *cardInstance) currentPower() int {
	if c.Def.Kind != catalog.KindCreature {
		return 0
	}
	boost, _ := c.Counters.Boost()
	return c.Def.Power + boost + c.TempPower
}

// currentToughness returns the creature's toughness after counters and
// temporary modifiers.
func (c *cardInstance) currentToughness() int {
	if c.Def.Kind != catalog.KindCreature {
		return 0
	}
	_, boost := c.Counters.Boost()
	return c.Def.Toughness + boost + c.TempToughness
}

// canAttack reports whether the creature may be declared as an attacker.
func (c *cardInstance) canAttack() bool {
	if c.Def.Kind != catalog.KindCreature || c.Zone != ZoneBattlefield || c.Tapped {
		return false
	}
	if c.SummoningSick && !c.Def.HasKeyword(catalog.KeywordHaste) {
		return false
	}
	return true
}

// canBlock reports whether the creature may be declared as a blocker.
// Summoning sickness does not prevent blocking.
func (c *cardInstance) canBlock() bool {
	return c.Def.Kind == catalog.KindCreature && c.Zone == ZoneBattlefield && !c.Tapped
}

// playerState is the per-player aggregate. Owned exclusively by the game and
// mutated only through the engine.
type playerState struct {
	ID   string
	Name string
	Life int

	Library     []*cardInstance // index 0 is the top of the library
	Hand        []*cardInstance
	Battlefield []*cardInstance
	Graveyard   []*cardInstance
	Exile       []*cardInstance
	CommandZone []*cardInstance

	Pool *mana.Pool

	CommanderID string
	// CommanderDamage maps an attacking player's ID to cumulative combat
	// damage received from that player's commander.
	CommanderDamage map[string]int
	CommandTax      int

	LandsPlayedThisTurn  int
	DrewFromEmptyLibrary bool
	Eliminated           bool

	// DeclineCommanderRedirect lets the owner send a dying commander to the
	// graveyard/exile instead of the command zone.
	DeclineCommanderRedirect bool
}

// zoneSlice returns a pointer to the container backing the given zone.
// Cards on the stack are not held in any player container.
func (p *playerState) zoneSlice(zone Zone) (*[]*cardInstance, bool) {
	switch zone {
	case ZoneLibrary:
		return &p.Library, true
	case ZoneHand:
		return &p.Hand, true
	case ZoneBattlefield:
		return &p.Battlefield, true
	case ZoneGraveyard:
		return &p.Graveyard, true
	case ZoneExile:
		return &p.Exile, true
	case ZoneCommand:
		return &p.CommandZone, true
	}
	return nil, false
}

// gameState is the complete internal state of one Commander game. All zones,
// mana pools and the stack are mutated only under g.mu through the engine.
type gameState struct {
	mu sync.Mutex

	gameID   string
	status   GameStatus
	winnerID string

	players     map[string]*playerState
	playerOrder []string
	cards       map[string]*cardInstance

	turns    *rules.TurnManager
	stack    *rules.StackManager
	priority *rules.PriorityTracker
	events   *rules.EventBus
	history  []rules.Event

	combat             *combatState
	attackersDeclared  bool
	blockersDeclaredBy map[string]bool

	startedAt time.Time
}

// player returns the player with the given ID.
func (g *gameState) player(playerID string) (*playerState, bool) {
	p, ok := g.players[playerID]
	return p, ok
}

// livingPlayers returns the IDs of players still in the game, in seating
// order.
func (g *gameState) livingPlayers() []string {
	out := make([]string, 0, len(g.playerOrder))
	for _, id := range g.playerOrder {
		if !g.players[id].Eliminated {
			out = append(out, id)
		}
	}
	return out
}

// nextLivingAfter returns the next non-eliminated player clockwise from the
// given seat, or "" if none remain besides (possibly) the seat itself.
func (g *gameState) nextLivingAfter(playerID string) string {
	start := -1
	for i, id := range g.playerOrder {
		if id == playerID {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	for off := 1; off <= len(g.playerOrder); off++ {
		candidate := g.playerOrder[(start+off)%len(g.playerOrder)]
		if !g.players[candidate].Eliminated {
			return candidate
		}
	}
	return ""
}

// emit stamps the event with turn/phase/step context, records it in the game
// history and publishes it on the bus.
func (g *gameState) emit(event rules.Event) {
	event.Turn = g.turns.TurnNumber()
	event.Phase = g.turns.CurrentPhase().String()
	event.Step = g.turns.CurrentStep().String()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	g.history = append(g.history, event)
	g.events.Publish(event)
}

// untappedManaSources lists the player's untapped battlefield permanents
// that can be tapped for mana.
func (p *playerState) untappedManaSources() []mana.Source {
	var sources []mana.Source
	for _, card := range p.Battlefield {
		if card.Tapped || len(card.Def.Produces) == 0 {
			continue
		}
		sources = append(sources, mana.Source{ID: card.ID, Produces: card.Def.Produces})
	}
	return sources
}
