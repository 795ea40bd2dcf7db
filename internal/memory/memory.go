// Package memory implements the emoji matching game: the level catalog,
// card dealing, the flip/match engine and the session controller that
// sequences levels, timers and versus rounds.
// It has no knowledge of HTTP; rendering goes through the Renderer interface.
package memory

import "fmt"

type Mode string

const (
	ModeSolo   Mode = "solo"
	ModeVersus Mode = "versus"
)

// Card is one tile on the board. ID is its position in the dealt layout.
type Card struct {
	ID      int    `json:"id"`
	Symbol  string `json:"symbol"`
	FaceUp  bool   `json:"faceUp"`
	Matched bool   `json:"matched"`
}

// GameSession is the per-game state owned by a Session.
type GameSession struct {
	Mode           Mode `json:"mode"`
	LevelIndex     int  `json:"levelIndex"`
	ElapsedSeconds int  `json:"elapsedSeconds"`
	MatchedPairs   int  `json:"matchedPairs"`
	Active         bool `json:"active"`
}

// FormatElapsed renders seconds as mm:ss.
func FormatElapsed(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
