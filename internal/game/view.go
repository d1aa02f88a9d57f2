package game

import (
	"time"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game/counters"
)

// CardView is the externally visible form of a card instance.
type CardView struct {
	ID            string `json:"id"`
	DefinitionID  string `json:"definition_id"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Zone          string `json:"zone"`
	Tapped        bool   `json:"tapped,omitempty"`
	SummoningSick bool   `json:"summoning_sick,omitempty"`
	IsCommander   bool   `json:"is_commander,omitempty"`
	Power         int    `json:"power,omitempty"`
	Toughness     int    `json:"toughness,omitempty"`
	Damage        int    `json:"damage,omitempty"`
	Attacking     string `json:"attacking,omitempty"`
	ControllerID  string `json:"controller_id,omitempty"`

	Counters []counters.Counter `json:"counters,omitempty"`
}

// PlayerView is the externally visible form of a player. Hidden zones are
// redacted for everyone but the player themselves: opponents see hand and
// library sizes, never contents.
type PlayerView struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Life            int            `json:"life"`
	Eliminated      bool           `json:"eliminated,omitempty"`
	HandSize        int            `json:"hand_size"`
	LibrarySize     int            `json:"library_size"`
	Hand            []CardView     `json:"hand,omitempty"`
	Battlefield     []CardView     `json:"battlefield"`
	Graveyard       []CardView     `json:"graveyard"`
	CommandZone     []CardView     `json:"command_zone"`
	ManaPool        map[string]int `json:"mana_pool,omitempty"`
	CommandTax      int            `json:"command_tax"`
	CommanderDamage map[string]int `json:"commander_damage,omitempty"`
	LandsPlayed     int            `json:"lands_played"`
}

// StackObjectView is the externally visible form of a stack object.
type StackObjectView struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Controller  string   `json:"controller"`
	SourceID    string   `json:"source_id"`
	Description string   `json:"description"`
	Targets     []string `json:"targets,omitempty"`
}

// GameView is a snapshot of the game from one player's perspective.
type GameView struct {
	GameID       string            `json:"game_id"`
	Status       GameStatus        `json:"status"`
	WinnerID     string            `json:"winner_id,omitempty"`
	Turn         int               `json:"turn"`
	Phase        string            `json:"phase"`
	Step         string            `json:"step"`
	ActivePlayer string            `json:"active_player"`
	Priority     string            `json:"priority,omitempty"`
	Players      []PlayerView      `json:"players"`
	Stack        []StackObjectView `json:"stack"`
	StartedAt    time.Time         `json:"started_at"`
}

// View returns a snapshot of the game redacted for the given viewer. An
// empty viewer ID yields a spectator view with all hidden zones redacted.
func (e *Engine) View(gameID, viewerID string) (*GameView, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return e.snapshotLocked(g, viewerID), nil
}

// snapshotLocked builds a GameView. Caller holds g.mu.
func (e *Engine) snapshotLocked(g *gameState, viewerID string) *GameView {
	view := &GameView{
		GameID:       g.gameID,
		Status:       g.status,
		WinnerID:     g.winnerID,
		Turn:         g.turns.TurnNumber(),
		Phase:        g.turns.CurrentPhase().String(),
		Step:         g.turns.CurrentStep().String(),
		ActivePlayer: g.turns.ActivePlayer(),
		Priority:     e.waitingOn(g),
		StartedAt:    g.startedAt,
	}

	for _, id := range g.playerOrder {
		p := g.players[id]
		pv := PlayerView{
			ID:          p.ID,
			Name:        p.Name,
			Life:        p.Life,
			Eliminated:  p.Eliminated,
			HandSize:    len(p.Hand),
			LibrarySize: len(p.Library),
			Battlefield: cardViews(p.Battlefield),
			Graveyard:   cardViews(p.Graveyard),
			CommandZone: cardViews(p.CommandZone),
			CommandTax:  p.CommandTax,
			LandsPlayed: p.LandsPlayedThisTurn,
		}
		if len(p.CommanderDamage) > 0 {
			pv.CommanderDamage = make(map[string]int, len(p.CommanderDamage))
			for from, dmg := range p.CommanderDamage {
				pv.CommanderDamage[from] = dmg
			}
		}
		if id == viewerID {
			pv.Hand = cardViews(p.Hand)
			pool := p.Pool.Snapshot()
			if len(pool) > 0 {
				pv.ManaPool = make(map[string]int, len(pool))
				for t, n := range pool {
					pv.ManaPool[string(t)] = n
				}
			}
		}
		view.Players = append(view.Players, pv)
	}

	for _, obj := range g.stack.List() {
		view.Stack = append(view.Stack, StackObjectView{
			ID:          obj.ID,
			Kind:        string(obj.Kind),
			Controller:  obj.Controller,
			SourceID:    obj.SourceID,
			Description: obj.Description,
			Targets:     obj.Targets,
		})
	}
	return view
}

func cardViews(cards []*cardInstance) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardView(card))
	}
	return out
}

func cardView(card *cardInstance) CardView {
	cv := CardView{
		ID:           card.ID,
		DefinitionID: card.Def.ID,
		Name:         card.Def.Name,
		Kind:         string(card.Def.Kind),
		Zone:         card.Zone.String(),
		Tapped:       card.Tapped,
		IsCommander:  card.IsCommander,
		Attacking:    card.AttackingPlayer,
		ControllerID: card.ControllerID,
	}
	if card.Def.Kind == catalog.KindCreature {
		cv.SummoningSick = card.SummoningSick
		cv.Power = card.currentPower()
		cv.Toughness = card.currentToughness()
		cv.Damage = card.Damage
		if all := card.Counters.All(); len(all) > 0 {
			cv.Counters = all
		}
	}
	return cv
}
