package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/commander-engine-go/internal/game/mana"
)

func TestNewMemoryStoreParsesCosts(t *testing.T) {
	store, err := NewMemoryStore([]Definition{
		{ID: "bears", Name: "Bears", Kind: KindCreature, CostString: "{1}{G}", Power: 2, Toughness: 2},
	})
	require.NoError(t, err)

	def, ok := store.Definition("bears")
	require.True(t, ok)
	assert.Equal(t, 1, def.Cost.Generic)
	assert.Equal(t, 1, def.Cost.Colored[mana.Green])
}

func TestNewMemoryStoreRejectsDuplicates(t *testing.T) {
	_, err := NewMemoryStore([]Definition{
		{ID: "x", Name: "A", Kind: KindLand},
		{ID: "x", Name: "B", Kind: KindLand},
	})
	assert.Error(t, err)
}

func TestNewMemoryStoreRejectsBadCost(t *testing.T) {
	_, err := NewMemoryStore([]Definition{
		{ID: "weird", Name: "Weird", Kind: KindInstant, CostString: "{X}{R}"},
	})
	assert.Error(t, err)
}

func TestStarterStoreCoverage(t *testing.T) {
	store := NewStarterStore()

	bolt, ok := store.Definition("lightning-bolt")
	require.True(t, ok)
	assert.Equal(t, KindInstant, bolt.Kind)
	assert.False(t, bolt.SorcerySpeed())
	assert.True(t, bolt.Effect.RequiresTarget())
	assert.False(t, bolt.IsPermanent())

	tower, ok := store.Definition("command-tower")
	require.True(t, ok)
	assert.Len(t, tower.Produces, 5)
	assert.True(t, tower.IsPermanent())

	angel, ok := store.Definition("serra-angel")
	require.True(t, ok)
	assert.True(t, angel.HasKeyword(KeywordVigilance))
	assert.False(t, angel.HasKeyword(KeywordHaste))
	assert.True(t, angel.SorcerySpeed())

	assert.NotEmpty(t, store.All())
}

func TestHasKeywordCaseInsensitive(t *testing.T) {
	def := Definition{Keywords: []string{"Haste"}}
	assert.True(t, def.HasKeyword("haste"))
}
