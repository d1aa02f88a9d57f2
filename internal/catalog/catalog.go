package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/magefree/commander-engine-go/internal/game/mana"
)

// Kind is the tagged card-definition variant. A card's kind is resolved once
// at catalog load; the engine never inspects rules text at runtime.
type Kind string

const (
	KindLand        Kind = "LAND"
	KindCreature    Kind = "CREATURE"
	KindInstant     Kind = "INSTANT"
	KindSorcery     Kind = "SORCERY"
	KindEnchantment Kind = "ENCHANTMENT"
	KindArtifact    Kind = "ARTIFACT"
)

// Keyword abilities the engine models. Anything else in a card's keyword
// list is carried but ignored.
const (
	KeywordHaste     = "haste"
	KeywordVigilance = "vigilance"
)

// EffectKind tags the structured resolution effect of an instant or sorcery.
type EffectKind string

const (
	// EffectNone: the spell resolves with no modeled effect.
	EffectNone EffectKind = "NONE"
	// EffectDamage deals Amount damage to a target creature or player.
	EffectDamage EffectKind = "DAMAGE"
	// EffectCounter removes a target stack object without effect.
	EffectCounter EffectKind = "COUNTER"
	// EffectBuff gives a target creature +Power/+Toughness until end of turn.
	EffectBuff EffectKind = "BUFF"
)

// Effect is a structured effect descriptor attached to a definition.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	Amount    int        `json:"amount,omitempty"`
	Power     int        `json:"power,omitempty"`
	Toughness int        `json:"toughness,omitempty"`
}

// RequiresTarget reports whether the effect needs exactly one target.
func (e Effect) RequiresTarget() bool {
	switch e.Kind {
	case EffectDamage, EffectCounter, EffectBuff:
		return true
	}
	return false
}

// Definition is an immutable card definition. The engine looks definitions
// up by ID and never copies or mutates them.
type Definition struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       Kind        `json:"kind"`
	CostString string      `json:"cost"`
	Cost       mana.Cost   `json:"-"`
	Power      int         `json:"power,omitempty"`
	Toughness  int         `json:"toughness,omitempty"`
	Keywords   []string    `json:"keywords,omitempty"`
	Produces   []mana.Type `json:"produces,omitempty"`
	Effect     Effect      `json:"effect"`
	Text       string      `json:"text,omitempty"`
}

// HasKeyword reports whether the definition carries the given keyword.
func (d Definition) HasKeyword(keyword string) bool {
	for _, k := range d.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

// IsPermanent reports whether the card stays on the battlefield when it
// resolves.
func (d Definition) IsPermanent() bool {
	switch d.Kind {
	case KindCreature, KindLand, KindEnchantment, KindArtifact:
		return true
	}
	return false
}

// SorcerySpeed reports whether the card may only be cast at sorcery speed:
// main phase, empty stack, active player with priority.
func (d Definition) SorcerySpeed() bool {
	return d.Kind != KindInstant
}

// Store provides read-only card definition lookup. Supplied to the engine at
// setup time; implementations must be safe for concurrent readers.
type Store interface {
	// Definition returns the definition for the given card ID.
	Definition(cardID string) (Definition, bool)
	// All returns every definition in the store.
	All() []Definition
}

// MemoryStore is an in-memory Store, used for tests and the embedded
// starter catalog.
type MemoryStore struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewMemoryStore creates a store from the given definitions, parsing each
// mana cost. Returns an error on duplicate IDs or malformed costs.
func NewMemoryStore(defs []Definition) (*MemoryStore, error) {
	store := &MemoryStore{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("card definition %q missing id", def.Name)
		}
		if _, exists := store.defs[def.ID]; exists {
			return nil, fmt.Errorf("duplicate card definition id %s", def.ID)
		}
		cost, err := mana.ParseCost(def.CostString)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", def.ID, err)
		}
		def.Cost = cost
		store.defs[def.ID] = def
	}
	return store, nil
}

// Definition returns the definition for the given card ID.
func (s *MemoryStore) Definition(cardID string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[cardID]
	return def, ok
}

// All returns every definition in the store.
func (s *MemoryStore) All() []Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Definition, 0, len(s.defs))
	for _, def := range s.defs {
		out = append(out, def)
	}
	return out
}
