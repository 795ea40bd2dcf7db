package memory

import "strings"

const (
	matchPoints     = 10
	comboMultiplier = 3
	comboThreshold  = 5

	DefaultPlayer1 = "PLAYER 1"
	DefaultPlayer2 = "PLAYER 2"
	DrawLabel      = "DRAW"
	TotalDrawLabel = "TOTAL DRAW"
)

type Player struct {
	Name       string `json:"name"`
	RoundScore int    `json:"roundScore"`
	RoundPairs int    `json:"roundPairs"`
	TotalWins  int    `json:"totalWins"`
	TotalScore int    `json:"totalScore"`
}

type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayer1
	WinnerPlayer2
)

// VersusState holds the two players, whose turn it is and the current
// combo streak. CurrentTurn is 1 or 2.
type VersusState struct {
	Player1     Player `json:"player1"`
	Player2     Player `json:"player2"`
	CurrentTurn int    `json:"currentTurn"`
	ComboStreak int    `json:"comboStreak"`
}

// NewVersusState uppercases the names and substitutes defaults for blanks.
func NewVersusState(name1, name2 string) *VersusState {
	return &VersusState{
		Player1:     Player{Name: playerName(name1, DefaultPlayer1)},
		Player2:     Player{Name: playerName(name2, DefaultPlayer2)},
		CurrentTurn: 1,
	}
}

func playerName(name, fallback string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return fallback
	}
	return name
}

// Current returns the player whose turn it is.
func (v *VersusState) Current() *Player {
	if v.CurrentTurn == 2 {
		return &v.Player2
	}
	return &v.Player1
}

// scoreMatch credits the current player and returns the points awarded.
// The multiplier applies once the streak, including this match, reaches
// the threshold.
func (v *VersusState) scoreMatch() int {
	v.ComboStreak++
	points := matchPoints
	if v.ComboStreak >= comboThreshold {
		points *= comboMultiplier
	}
	p := v.Current()
	p.RoundScore += points
	p.RoundPairs++
	return points
}

func (v *VersusState) breakStreak() { v.ComboStreak = 0 }

func (v *VersusState) SwitchTurn() {
	if v.CurrentTurn == 1 {
		v.CurrentTurn = 2
	} else {
		v.CurrentTurn = 1
	}
}

// resetRound clears per-round counters and hands the first turn to player 1.
func (v *VersusState) resetRound() {
	v.Player1.RoundScore, v.Player1.RoundPairs = 0, 0
	v.Player2.RoundScore, v.Player2.RoundPairs = 0, 0
	v.ComboStreak = 0
	v.CurrentTurn = 1
}

// RoundWinner compares round scores first and round pairs second.
func (v *VersusState) RoundWinner() Winner {
	switch {
	case v.Player1.RoundScore > v.Player2.RoundScore:
		return WinnerPlayer1
	case v.Player2.RoundScore > v.Player1.RoundScore:
		return WinnerPlayer2
	case v.Player1.RoundPairs > v.Player2.RoundPairs:
		return WinnerPlayer1
	case v.Player2.RoundPairs > v.Player1.RoundPairs:
		return WinnerPlayer2
	}
	return WinnerNone
}

// tallyRound folds the round scores into the totals and credits the win.
func (v *VersusState) tallyRound() Winner {
	w := v.RoundWinner()
	v.Player1.TotalScore += v.Player1.RoundScore
	v.Player2.TotalScore += v.Player2.RoundScore
	switch w {
	case WinnerPlayer1:
		v.Player1.TotalWins++
	case WinnerPlayer2:
		v.Player2.TotalWins++
	}
	return w
}

// GameWinner compares round wins first and total score second.
func (v *VersusState) GameWinner() Winner {
	switch {
	case v.Player1.TotalWins > v.Player2.TotalWins:
		return WinnerPlayer1
	case v.Player2.TotalWins > v.Player1.TotalWins:
		return WinnerPlayer2
	case v.Player1.TotalScore > v.Player2.TotalScore:
		return WinnerPlayer1
	case v.Player2.TotalScore > v.Player1.TotalScore:
		return WinnerPlayer2
	}
	return WinnerNone
}

// Name returns the player's name for w, or drawLabel when nobody won.
func (v *VersusState) Name(w Winner, drawLabel string) string {
	switch w {
	case WinnerPlayer1:
		return v.Player1.Name
	case WinnerPlayer2:
		return v.Player2.Name
	}
	return drawLabel
}
