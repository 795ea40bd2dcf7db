package server

import (
	"encoding/json"
	"sync"
)

const scoresTopic = "scores"

func gameTopic(sessionID string) string { return "game:" + sessionID }

// Message is one SSE frame: the event name and its JSON payload.
type Message struct {
	Event string
	Data  []byte
}

// Broker is an in-process pub/sub for SSE events, keyed by topic. Each game
// session has its own topic; the leaderboard shares one.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Message]struct{}),
	}
}

// Subscribe returns a channel that receives events published to topic.
func (b *Broker) Subscribe(topic string) chan Message {
	ch := make(chan Message, 64)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan Message]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan Message) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of topic.
func (b *Broker) Publish(topic, event string, payload any) {
	data, _ := json.Marshal(payload)
	msg := Message{Event: event, Data: data}
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- msg:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
