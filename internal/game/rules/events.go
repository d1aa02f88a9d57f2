package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Game lifecycle events
	EventGameStarted EventType = "GAME_STARTED"
	EventGameOver    EventType = "GAME_OVER"
	EventGameDraw    EventType = "GAME_DRAW"

	// Turn structure events
	EventTurnBegan   EventType = "TURN_BEGAN"
	EventStepChanged EventType = "STEP_CHANGED"

	// Zone events
	EventZoneChange           EventType = "ZONE_CHANGE"
	EventDrewCard             EventType = "DREW_CARD"
	EventDrewFromEmptyLibrary EventType = "DREW_FROM_EMPTY_LIBRARY"
	EventDiscardedCard        EventType = "DISCARDED_CARD"

	// Stack and priority events
	EventSpellCast        EventType = "SPELL_CAST"
	EventStackResolved    EventType = "STACK_RESOLVED"
	EventStackCountered   EventType = "STACK_COUNTERED"
	EventPriorityPassed   EventType = "PRIORITY_PASSED"
	EventPriorityAssigned EventType = "PRIORITY_ASSIGNED"

	// Action events
	EventLandPlayed EventType = "LAND_PLAYED"
	EventManaAdded  EventType = "MANA_ADDED"
	EventTapped     EventType = "TAPPED"
	EventUntapped   EventType = "UNTAPPED"

	// Combat events
	EventAttackersDeclared EventType = "ATTACKERS_DECLARED"
	EventBlockersDeclared  EventType = "BLOCKERS_DECLARED"
	EventCombatDamage      EventType = "COMBAT_DAMAGE"
	EventCommanderDamage   EventType = "COMMANDER_DAMAGE"

	// Life and state-based events
	EventLifeChanged       EventType = "LIFE_CHANGED"
	EventDamagedCreature   EventType = "DAMAGED_CREATURE"
	EventCreatureDestroyed EventType = "CREATURE_DESTROYED"
	EventCommanderReturned EventType = "COMMANDER_RETURNED"
	EventPlayerEliminated  EventType = "PLAYER_ELIMINATED"
)

// Event represents a state change that observers may react to. Every event
// is stamped with the turn, phase and step it occurred in so external
// tooling (logging, opponent modeling) can reconstruct the game history.
type Event struct {
	Type      EventType
	ID        string
	Turn      int
	Phase     string
	Step      string
	PlayerID  string
	TargetID  string
	SourceID  string
	Amount    int
	Detail    string
	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// EventBus provides a synchronous publish/subscribe implementation. Events
// are delivered in publication order; listeners must not mutate game state.
type EventBus struct {
	mu         sync.RWMutex
	listeners  map[int]Listener
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	for _, listener := range bus.listeners {
		listener(event)
	}
}
