package catalog

import "github.com/magefree/commander-engine-go/internal/game/mana"

// StarterDefinitions returns the embedded card set used when no external
// catalog is configured. It covers every mechanic the engine models: basic
// and multicolor lands, vanilla and keyworded creatures, removal, a counter
// and a combat trick.
func StarterDefinitions() []Definition {
	anyColor := []mana.Type{mana.White, mana.Blue, mana.Black, mana.Red, mana.Green}
	return []Definition{
		{ID: "plains", Name: "Plains", Kind: KindLand, Produces: []mana.Type{mana.White}},
		{ID: "island", Name: "Island", Kind: KindLand, Produces: []mana.Type{mana.Blue}},
		{ID: "swamp", Name: "Swamp", Kind: KindLand, Produces: []mana.Type{mana.Black}},
		{ID: "mountain", Name: "Mountain", Kind: KindLand, Produces: []mana.Type{mana.Red}},
		{ID: "forest", Name: "Forest", Kind: KindLand, Produces: []mana.Type{mana.Green}},
		{ID: "command-tower", Name: "Command Tower", Kind: KindLand, Produces: anyColor,
			Text: "{T}: Add one mana of any color in your commander's color identity."},

		{ID: "grizzly-bears", Name: "Grizzly Bears", Kind: KindCreature,
			CostString: "{1}{G}", Power: 2, Toughness: 2},
		{ID: "hill-giant", Name: "Hill Giant", Kind: KindCreature,
			CostString: "{3}{R}", Power: 3, Toughness: 3},
		{ID: "serra-angel", Name: "Serra Angel", Kind: KindCreature,
			CostString: "{3}{W}{W}", Power: 4, Toughness: 4,
			Keywords: []string{KeywordVigilance},
			Text:     "Flying, vigilance"},
		{ID: "raging-goblin", Name: "Raging Goblin", Kind: KindCreature,
			CostString: "{R}", Power: 1, Toughness: 1,
			Keywords: []string{KeywordHaste},
			Text:     "Haste"},
		{ID: "colossal-dreadmaw", Name: "Colossal Dreadmaw", Kind: KindCreature,
			CostString: "{4}{G}{G}", Power: 6, Toughness: 6},

		{ID: "lightning-bolt", Name: "Lightning Bolt", Kind: KindInstant,
			CostString: "{R}",
			Effect:     Effect{Kind: EffectDamage, Amount: 3},
			Text:       "Lightning Bolt deals 3 damage to any target."},
		{ID: "lava-axe", Name: "Lava Axe", Kind: KindSorcery,
			CostString: "{4}{R}",
			Effect:     Effect{Kind: EffectDamage, Amount: 5},
			Text:       "Lava Axe deals 5 damage to target player."},
		{ID: "counterspell", Name: "Counterspell", Kind: KindInstant,
			CostString: "{U}{U}",
			Effect:     Effect{Kind: EffectCounter},
			Text:       "Counter target spell."},
		{ID: "giant-growth", Name: "Giant Growth", Kind: KindInstant,
			CostString: "{G}",
			Effect:     Effect{Kind: EffectBuff, Power: 3, Toughness: 3},
			Text:       "Target creature gets +3/+3 until end of turn."},
	}
}

// NewStarterStore builds a memory store over the embedded starter set.
func NewStarterStore() *MemoryStore {
	store, err := NewMemoryStore(StarterDefinitions())
	if err != nil {
		// The starter set is static; a parse failure is a programming error.
		panic(err)
	}
	return store
}
