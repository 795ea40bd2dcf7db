package memory

import (
	"errors"
	"testing"
)

func TestDefaultCatalogFitsBoard(t *testing.T) {
	for _, l := range DefaultCatalog {
		if l.Columns*l.Rows < 2*l.PairCount {
			t.Errorf("level %d: %dx%d grid cannot hold %d pairs", l.Ordinal, l.Columns, l.Rows, l.PairCount)
		}
	}
}

func TestDefaultCatalogValid(t *testing.T) {
	if err := DefaultCatalog.Validate(len(DefaultSymbols)); err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if len(DefaultCatalog) != 10 {
		t.Errorf("expected 10 levels, got %d", len(DefaultCatalog))
	}
	if !DefaultCatalog.IsLast(9) || DefaultCatalog.IsLast(8) {
		t.Error("expected index 9 to be the last level")
	}
}

func TestDefaultSymbolsDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range DefaultSymbols {
		if seen[s] {
			t.Errorf("duplicate symbol %q", s)
		}
		seen[s] = true
	}
}

func TestLevelValidate(t *testing.T) {
	tests := []struct {
		name  string
		level LevelDefinition
		ok    bool
	}{
		{"valid", LevelDefinition{Ordinal: 1, Columns: 3, Rows: 2, PairCount: 3}, true},
		{"spare cells", LevelDefinition{Ordinal: 1, Columns: 3, Rows: 3, PairCount: 4}, true},
		{"zero ordinal", LevelDefinition{Ordinal: 0, Columns: 3, Rows: 2, PairCount: 3}, false},
		{"zero columns", LevelDefinition{Ordinal: 1, Columns: 0, Rows: 2, PairCount: 1}, false},
		{"zero pairs", LevelDefinition{Ordinal: 1, Columns: 2, Rows: 2, PairCount: 0}, false},
		{"too small", LevelDefinition{Ordinal: 1, Columns: 2, Rows: 2, PairCount: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.level.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestCatalogValidatePool(t *testing.T) {
	err := DefaultCatalog.Validate(10)
	if !errors.Is(err, ErrPoolTooSmall) {
		t.Fatalf("expected ErrPoolTooSmall, got %v", err)
	}

	gap := Catalog{{Ordinal: 1, Columns: 1, Rows: 2, PairCount: 1}, {Ordinal: 3, Columns: 1, Rows: 2, PairCount: 1}}
	if err := gap.Validate(5); err == nil {
		t.Fatal("expected error for ordinal gap")
	}
	if err := (Catalog{}).Validate(5); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := map[int]string{0: "00:00", 9: "00:09", 61: "01:01", 600: "10:00"}
	for in, want := range tests {
		if got := FormatElapsed(in); got != want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", in, got, want)
		}
	}
}
