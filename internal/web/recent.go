package web

import (
	"sync"

	"aisrx/internal/receiver"
)

// MessageRing keeps the most recently decoded messages for the API.
type MessageRing struct {
	mu   sync.Mutex
	ring []receiver.Message
	next int
	size int
}

func NewMessageRing(max int) *MessageRing {
	if max <= 0 {
		max = 50
	}
	return &MessageRing{ring: make([]receiver.Message, max)}
}

func (r *MessageRing) Add(msg receiver.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ring[r.next] = msg
	r.next = (r.next + 1) % len(r.ring)
	if r.size < len(r.ring) {
		r.size++
	}
}

// Snapshot returns up to tail messages, newest first.
func (r *MessageRing) Snapshot(tail int) []receiver.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tail <= 0 || tail > r.size {
		tail = r.size
	}
	out := make([]receiver.Message, 0, tail)
	for i := 0; i < tail; i++ {
		idx := r.next - 1 - i
		for idx < 0 {
			idx += len(r.ring)
		}
		out = append(out, r.ring[idx])
	}
	return out
}
