package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/playperu/emojimemory/internal/scores"
)

// handleGameEvents streams a session's render events. The current board
// is sent first so a reconnecting client can redraw.
func handleGameEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		snap := s.Snapshot()

		var initial []Message
		if snap.Level != nil {
			data, _ := json.Marshal(BoardEvent{Level: *snap.Level, Cards: snap.Cards})
			initial = append(initial, Message{Event: eventBoard, Data: data})
			data, _ = json.Marshal(HUDEvent{Left: snap.HUD[0], Right: snap.HUD[1]})
			initial = append(initial, Message{Event: eventHUD, Data: data})
		}
		stream(w, r, broker, gameTopic(s.ID()), initial)
	}
}

// handleScoreEvents streams leaderboard and connectivity changes.
func handleScoreEvents(broker *Broker, fb *scores.Fallback, feed *scores.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var initial []Message
		if b, ok := feed.Last(); ok {
			data, _ := json.Marshal(newScoresResponse(b))
			initial = append(initial, Message{Event: eventLeaderboard, Data: data})
		}
		data, _ := json.Marshal(connectivityOf(fb))
		initial = append(initial, Message{Event: eventConnectivity, Data: data})

		stream(w, r, broker, scoresTopic, initial)
	}
}

func stream(w http.ResponseWriter, r *http.Request, broker *Broker, topic string, initial []Message) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := broker.Subscribe(topic)
	defer broker.Unsubscribe(topic, ch)

	for _, msg := range initial {
		writeEvent(w, msg)
	}
	flusher.Flush()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			writeEvent(w, msg)
			flusher.Flush()
		case <-ping.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, msg Message) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
}
