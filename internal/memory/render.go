package memory

type Modal string

const (
	ModalTurn          Modal = "turn"
	ModalLevelComplete Modal = "level_complete"
	ModalVictory       Modal = "victory"
)

// CardView is the client-facing projection of a Card. The symbol is only
// revealed once the card is face up or matched.
type CardView struct {
	ID          int    `json:"id"`
	Symbol      string `json:"symbol,omitempty"`
	FaceUp      bool   `json:"faceUp"`
	Matched     bool   `json:"matched"`
	Interactive bool   `json:"interactive"`
}

func viewOf(c Card, interactive bool) CardView {
	v := CardView{ID: c.ID, FaceUp: c.FaceUp, Matched: c.Matched, Interactive: interactive}
	if c.FaceUp || c.Matched {
		v.Symbol = c.Symbol
	}
	return v
}

// Stat is one side of the HUD: the clock and pair counter in solo, a
// player's score in versus.
type Stat struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

type ModalDetail struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Level     int    `json:"level,omitempty"`
	Player    string `json:"player,omitempty"`
	StatLabel string `json:"statLabel,omitempty"`
	StatValue string `json:"statValue,omitempty"`
}

// Renderer receives presentation updates from a Session. Calls are made
// with the session lock held and must not call back into the session.
type Renderer interface {
	DrawBoard(level LevelDefinition, cards []CardView)
	SetCard(card CardView)
	SetHUD(left, right Stat)
	ShowModal(modal Modal, detail ModalDetail)
	HideModal(modal Modal)
}

type NopRenderer struct{}

func (NopRenderer) DrawBoard(LevelDefinition, []CardView) {}
func (NopRenderer) SetCard(CardView)                      {}
func (NopRenderer) SetHUD(Stat, Stat)                     {}
func (NopRenderer) ShowModal(Modal, ModalDetail)          {}
func (NopRenderer) HideModal(Modal)                       {}
