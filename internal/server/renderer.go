package server

import "github.com/playperu/emojimemory/internal/memory"

// SSE event names sent on a game stream.
const (
	eventBoard = "board"
	eventCard  = "card"
	eventHUD   = "hud"
	eventModal = "modal"
)

type BoardEvent struct {
	Level memory.LevelDefinition `json:"level"`
	Cards []memory.CardView      `json:"cards"`
}

type HUDEvent struct {
	Left  memory.Stat `json:"left"`
	Right memory.Stat `json:"right"`
}

type ModalEvent struct {
	Modal   memory.Modal        `json:"modal"`
	Visible bool                `json:"visible"`
	Detail  *memory.ModalDetail `json:"detail,omitempty"`
}

// sseRenderer publishes a session's render calls on its game topic.
type sseRenderer struct {
	broker *Broker
	topic  string
}

func newSSERenderer(broker *Broker, sessionID string) *sseRenderer {
	return &sseRenderer{broker: broker, topic: gameTopic(sessionID)}
}

func (r *sseRenderer) DrawBoard(level memory.LevelDefinition, cards []memory.CardView) {
	r.broker.Publish(r.topic, eventBoard, BoardEvent{Level: level, Cards: cards})
}

func (r *sseRenderer) SetCard(card memory.CardView) {
	r.broker.Publish(r.topic, eventCard, card)
}

func (r *sseRenderer) SetHUD(left, right memory.Stat) {
	r.broker.Publish(r.topic, eventHUD, HUDEvent{Left: left, Right: right})
}

func (r *sseRenderer) ShowModal(modal memory.Modal, detail memory.ModalDetail) {
	r.broker.Publish(r.topic, eventModal, ModalEvent{Modal: modal, Visible: true, Detail: &detail})
}

func (r *sseRenderer) HideModal(modal memory.Modal) {
	r.broker.Publish(r.topic, eventModal, ModalEvent{Modal: modal})
}
