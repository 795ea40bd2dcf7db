package memory

import "testing"

func TestNewVersusStateNames(t *testing.T) {
	vs := NewVersusState("  ana ", "")
	if vs.Player1.Name != "ANA" {
		t.Errorf("expected ANA, got %q", vs.Player1.Name)
	}
	if vs.Player2.Name != DefaultPlayer2 {
		t.Errorf("expected %q, got %q", DefaultPlayer2, vs.Player2.Name)
	}
	if vs.CurrentTurn != 1 {
		t.Errorf("expected player 1 to start, got %d", vs.CurrentTurn)
	}
}

func TestRoundWinner(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Player
		want   Winner
	}{
		{"higher score", Player{RoundScore: 30, RoundPairs: 1}, Player{RoundScore: 20, RoundPairs: 2}, WinnerPlayer1},
		{"equal score more pairs", Player{RoundScore: 20, RoundPairs: 1}, Player{RoundScore: 20, RoundPairs: 2}, WinnerPlayer2},
		{"equal score equal pairs", Player{RoundScore: 20, RoundPairs: 2}, Player{RoundScore: 20, RoundPairs: 2}, WinnerNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := &VersusState{Player1: tt.p1, Player2: tt.p2, CurrentTurn: 1}
			if got := vs.tallyRound(); got != tt.want {
				t.Fatalf("expected winner %d, got %d", tt.want, got)
			}
			wins1, wins2 := 0, 0
			switch tt.want {
			case WinnerPlayer1:
				wins1 = 1
			case WinnerPlayer2:
				wins2 = 1
			}
			if vs.Player1.TotalWins != wins1 || vs.Player2.TotalWins != wins2 {
				t.Errorf("expected wins %d-%d, got %d-%d", wins1, wins2, vs.Player1.TotalWins, vs.Player2.TotalWins)
			}
			if vs.Player1.TotalScore != tt.p1.RoundScore || vs.Player2.TotalScore != tt.p2.RoundScore {
				t.Errorf("round scores not added to totals: %+v %+v", vs.Player1, vs.Player2)
			}
		})
	}
}

func TestGameWinner(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Player
		want   string
	}{
		{"more wins", Player{Name: "A", TotalWins: 3, TotalScore: 10}, Player{Name: "B", TotalWins: 2, TotalScore: 90}, "A"},
		{"equal wins higher score", Player{Name: "A", TotalWins: 2, TotalScore: 10}, Player{Name: "B", TotalWins: 2, TotalScore: 90}, "B"},
		{"total draw", Player{Name: "A", TotalWins: 2, TotalScore: 50}, Player{Name: "B", TotalWins: 2, TotalScore: 50}, TotalDrawLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := &VersusState{Player1: tt.p1, Player2: tt.p2}
			if got := vs.Name(vs.GameWinner(), TotalDrawLabel); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResetRound(t *testing.T) {
	vs := NewVersusState("a", "b")
	vs.Player1 = Player{Name: "A", RoundScore: 40, RoundPairs: 4, TotalWins: 1, TotalScore: 90}
	vs.CurrentTurn = 2
	vs.ComboStreak = 3

	vs.resetRound()
	if vs.Player1.RoundScore != 0 || vs.Player1.RoundPairs != 0 || vs.ComboStreak != 0 || vs.CurrentTurn != 1 {
		t.Errorf("round not reset: %+v", vs)
	}
	if vs.Player1.TotalWins != 1 || vs.Player1.TotalScore != 90 {
		t.Errorf("totals must survive a round reset: %+v", vs.Player1)
	}
}
