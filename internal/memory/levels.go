package memory

import (
	"errors"
	"fmt"
)

var ErrPoolTooSmall = errors.New("symbol pool smaller than pair count")

type LevelDefinition struct {
	Ordinal   int `json:"ordinal"`
	Columns   int `json:"columns"`
	Rows      int `json:"rows"`
	PairCount int `json:"pairCount"`
}

// CardCount is the number of cards dealt for the level.
func (l LevelDefinition) CardCount() int { return 2 * l.PairCount }

func (l LevelDefinition) Validate() error {
	switch {
	case l.Ordinal < 1:
		return fmt.Errorf("level %d: ordinal must be at least 1", l.Ordinal)
	case l.Columns <= 0 || l.Rows <= 0:
		return fmt.Errorf("level %d: grid must be positive, got %dx%d", l.Ordinal, l.Columns, l.Rows)
	case l.PairCount <= 0:
		return fmt.Errorf("level %d: pair count must be positive", l.Ordinal)
	case l.Columns*l.Rows < l.CardCount():
		return fmt.Errorf("level %d: %dx%d grid cannot hold %d cards", l.Ordinal, l.Columns, l.Rows, l.CardCount())
	}
	return nil
}

// Catalog is the ordered list of levels played in one game.
type Catalog []LevelDefinition

// DefaultCatalog is the ten-level progression.
var DefaultCatalog = Catalog{
	{Ordinal: 1, Columns: 3, Rows: 2, PairCount: 3},
	{Ordinal: 2, Columns: 3, Rows: 4, PairCount: 6},
	{Ordinal: 3, Columns: 4, Rows: 4, PairCount: 8},
	{Ordinal: 4, Columns: 4, Rows: 5, PairCount: 10},
	{Ordinal: 5, Columns: 4, Rows: 6, PairCount: 12},
	{Ordinal: 6, Columns: 5, Rows: 6, PairCount: 15},
	{Ordinal: 7, Columns: 5, Rows: 6, PairCount: 15},
	{Ordinal: 8, Columns: 6, Rows: 6, PairCount: 18},
	{Ordinal: 9, Columns: 6, Rows: 7, PairCount: 21},
	{Ordinal: 10, Columns: 6, Rows: 8, PairCount: 24},
}

// Validate checks every level and that poolSize symbols are enough for the
// largest level, so dealing can never fail at runtime.
func (c Catalog) Validate(poolSize int) error {
	if len(c) == 0 {
		return errors.New("catalog is empty")
	}
	for i, l := range c {
		if err := l.Validate(); err != nil {
			return err
		}
		if l.Ordinal != i+1 {
			return fmt.Errorf("level at index %d has ordinal %d", i, l.Ordinal)
		}
		if l.PairCount > poolSize {
			return fmt.Errorf("level %d needs %d symbols, pool has %d: %w", l.Ordinal, l.PairCount, poolSize, ErrPoolTooSmall)
		}
	}
	return nil
}

func (c Catalog) IsLast(index int) bool { return index == len(c)-1 }
