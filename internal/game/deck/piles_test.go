package deck_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
)

// TestNewShuffledPiles verifies the draw pile starts with the whole catalog
// and an empty discard pile.
func TestNewShuffledPiles(t *testing.T) {
	cat, err := deck.DefaultCatalog()
	require.NoError(t, err)
	piles := deck.NewShuffledPiles(cat, dice.NewSeededSource(1))

	assert.Len(t, piles.DrawIDs(), deck.CatalogSize)
	assert.Empty(t, piles.DiscardIDs())
	assert.Equal(t, deck.CatalogSize, piles.Count())
}

// TestPiles_DrawReshufflesDiscard verifies an exhausted draw pile silently
// recycles the discard pile instead of failing.
func TestPiles_DrawReshufflesDiscard(t *testing.T) {
	cat, err := deck.DefaultCatalog()
	require.NoError(t, err)
	src := dice.NewSeededSource(3)
	piles := deck.NewShuffledPiles(cat, src)

	// Drain the draw pile entirely, discarding everything drawn.
	for i := 0; i < deck.CatalogSize/3; i++ {
		ids, err := piles.Draw(3, src)
		require.NoError(t, err)
		piles.Discard(ids...)
	}
	require.Empty(t, piles.DrawIDs())
	require.Len(t, piles.DiscardIDs(), deck.CatalogSize)

	ids, err := piles.Draw(3, src)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, deck.CatalogSize-3, piles.Count())
}

// TestPiles_PartitionInvariant uses property-based testing to verify that for
// any interleaving of draws and discards, the draw pile, discard pile, and
// outstanding hand always partition the 30 catalog ids exactly.
func TestPiles_PartitionInvariant(t *testing.T) {
	cat, err := deck.DefaultCatalog()
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		piles := deck.NewShuffledPiles(cat, src)
		var held []int

		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if len(held) > 0 && (piles.Count() < 3 || rapid.Bool().Draw(rt, "discard")) {
				piles.Discard(held...)
				held = nil
			} else {
				ids, err := piles.Draw(3, src)
				require.NoError(rt, err)
				held = append(held, ids...)
			}
			checkPartition(rt, piles, held)
		}
	})
}

func checkPartition(t require.TestingT, piles *deck.Piles, held []int) {
	all := append(piles.DrawIDs(), piles.DiscardIDs()...)
	all = append(all, held...)
	require.Len(t, all, deck.CatalogSize, "piles plus hand must cover the catalog")
	sort.Ints(all)
	for i, id := range all {
		require.Equal(t, i+1, id, "catalog ids must appear exactly once")
	}
}
