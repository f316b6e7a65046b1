package ais

import (
	"fmt"
	"sync"

	"aisrx/internal/nmea"
)

// Status classifies the outcome of one accepted fragment.
type Status int

const (
	// StatusPending: fragment buffered, more expected.
	StatusPending Status = iota
	// StatusComplete: the fragment finished its message.
	StatusComplete
	// StatusRejected: the fragment arrived out of order; the partial
	// chain for its sequential ID has been discarded.
	StatusRejected
)

// Result is the outcome of Assembler.Accept for a single fragment.
type Result struct {
	Status Status
	// Payload is the full armored payload, concatenated in fragment
	// order. Set when Status is StatusComplete.
	Payload string
	// FillBits is the pad bit count from the final fragment. Set when
	// Status is StatusComplete.
	FillBits int
	// Expected is the fragment index the assembler wanted. Set when
	// Status is StatusRejected.
	Expected int
}

type slot struct {
	fragment int
	payload  string
}

// Assembler stitches multi-fragment AIS messages back together.
//
// Fragments of one message share a sequential message ID and must arrive
// in order. In-flight chains live in an insertion-ordered map keyed by
// that ID; the map may be capacity-bounded, in which case the oldest
// chain is evicted to make room and reported via the notify hook.
//
// Accept is safe for concurrent use; each call runs as one atomic unit.
type Assembler struct {
	mu     sync.Mutex
	limit  int
	notify func(string)
	slots  map[string]*slot
	order  []string
}

// NewAssembler returns an assembler holding at most limit in-flight
// chains; limit <= 0 means unbounded. notify is invoked (outside any
// error path) when an incomplete chain is evicted for capacity; nil
// disables notification.
func NewAssembler(limit int, notify func(string)) *Assembler {
	return &Assembler{
		limit:  limit,
		notify: notify,
		slots:  make(map[string]*slot),
	}
}

// Accept records one fragment and reports whether its message is still
// pending, now complete, or out of order.
//
// The fragment is stored as the new tip for its sequential ID before
// validation. A fragment with index 1 always starts a fresh chain,
// silently discarding any prior incomplete chain for the same ID. A
// fragment whose index is not exactly one past the stored tip rejects:
// the chain is dropped so a fresh sequence can start cleanly afterward.
func (a *Assembler) Accept(v nmea.VDM) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev, hadPrev := a.slots[v.SeqID]
	a.insertLocked(v.SeqID, &slot{fragment: v.Fragment, payload: v.Payload})

	// Capacity: evict the oldest chain by insertion order.
	if a.limit > 0 && len(a.slots) > a.limit {
		oldest := a.order[0]
		a.removeLocked(oldest)
		if a.notify != nil {
			a.notify(fmt.Sprintf("failed to complete sequential message with id %q (limit reached)", oldest))
		}
	}

	// Fragment 1 always starts fresh; whatever was buffered for this ID
	// is void.
	if v.Fragment == 1 {
		hadPrev = false
	}

	last := 0
	prevPayload := ""
	if hadPrev {
		last = prev.fragment
		prevPayload = prev.payload
	}

	if v.Fragment != last+1 {
		a.removeLocked(v.SeqID)
		return Result{Status: StatusRejected, Expected: last + 1}
	}

	full := prevPayload + v.Payload
	if s, ok := a.slots[v.SeqID]; ok {
		s.fragment = v.Fragment
		s.payload = full
	}

	if v.Fragment == v.Count {
		a.removeLocked(v.SeqID)
		return Result{Status: StatusComplete, Payload: full, FillBits: v.FillBits}
	}
	return Result{Status: StatusPending}
}

// Size returns the number of in-flight chains.
func (a *Assembler) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slots)
}

// insertLocked replaces the slot for key, keeping its insertion-order
// position if it already exists.
func (a *Assembler) insertLocked(key string, s *slot) {
	if _, ok := a.slots[key]; !ok {
		a.order = append(a.order, key)
	}
	a.slots[key] = s
}

func (a *Assembler) removeLocked(key string) {
	if _, ok := a.slots[key]; !ok {
		return
	}
	delete(a.slots, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}
