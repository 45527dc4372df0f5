package service

import (
	"sync"

	"trybud/internal/model"
)

const (
	EventStageUp = "STAGE_UP"

	subscriberBuffer = 8
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Notifier fans events out to the live connections of a wallet. Slow
// subscribers miss events rather than block publishers.
type Notifier struct {
	mu   sync.RWMutex
	subs map[model.Address]map[chan Event]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[model.Address]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener for owner. The returned cancel func closes the
// channel and may be called more than once.
func (n *Notifier) Subscribe(owner model.Address) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	n.mu.Lock()
	if n.subs[owner] == nil {
		n.subs[owner] = make(map[chan Event]struct{})
	}
	n.subs[owner][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()

			delete(n.subs[owner], ch)
			if len(n.subs[owner]) == 0 {
				delete(n.subs, owner)
			}
			close(ch)
		})
	}
}

// Publish returns how many subscribers received the event.
func (n *Notifier) Publish(owner model.Address, event Event) int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	delivered := 0
	for ch := range n.subs[owner] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

func (n *Notifier) Subscribers(owner model.Address) int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.subs[owner])
}
