package memory

import (
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"
)

// Deal draws level.PairCount distinct symbols from pool without
// replacement, duplicates each one and returns the cards in a uniformly
// random order (Fisher-Yates). Card IDs are their final positions.
func Deal(rng *rand.Rand, level LevelDefinition, pool []string) ([]Card, error) {
	if level.PairCount > len(pool) {
		return nil, fmt.Errorf("dealing level %d: %w", level.Ordinal, ErrPoolTooSmall)
	}

	picks := lo.Map(rng.Perm(len(pool))[:level.PairCount], func(i, _ int) string {
		return pool[i]
	})

	deck := make([]string, 0, level.CardCount())
	deck = append(deck, picks...)
	deck = append(deck, picks...)
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	return lo.Map(deck, func(symbol string, i int) Card {
		return Card{ID: i, Symbol: symbol}
	}), nil
}
