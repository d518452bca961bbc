// Package outstation implements the outstation endpoint: the event
// buffer, the static point database, and the request-dispatching
// session described in spec.md §4.4 and §4.6.
package outstation

import (
	"sync"

	"github.com/open-dnp3/godnp3/internal/ring"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// Event is one buffered change-of-value record awaiting delivery to a
// master, either as part of a solicited class read or an unsolicited
// response.
type Event struct {
	Seq            uint64
	Class          objects.Class
	GroupVariation objects.GroupVariation
	Index          uint32
	// Payload holds the already-encoded object value (the output of the
	// relevant pkg/objects Encode function), so the event buffer never
	// needs to know the value's concrete Go type.
	Payload []byte
}

// ClassMask selects a subset of {class1, class2, class3} for an event
// query, e.g. a READ request naming g60v2/v3/v4 or an
// ENABLE_UNSOLICITED request naming the classes to report.
type ClassMask uint8

const (
	ClassMask1 ClassMask = 1 << 0
	ClassMask2 ClassMask = 1 << 1
	ClassMask3 ClassMask = 1 << 2
)

// Has reports whether c is included in the mask.
func (m ClassMask) Has(c objects.Class) bool {
	switch c {
	case objects.Class1:
		return m&ClassMask1 != 0
	case objects.Class2:
		return m&ClassMask2 != 0
	case objects.Class3:
		return m&ClassMask3 != 0
	default:
		return false
	}
}

// EventBuffer holds one bounded per-class FIFO of pending events,
// assigning each a monotonic sequence number so a master's application
// confirm can release exactly the events it has acknowledged. Grounded
// on internal/fifo's circular-buffer technique (generalized here via
// internal/ring to typed records) plus the teacher's pkg/emergency.EMCY,
// which buffers timestamped records behind a mutex with an overflow
// counter for a listener to drain.
type EventBuffer struct {
	mu        sync.Mutex
	rings     map[objects.Class]*ring.Ring[Event]
	nextSeq   uint64
	overflows uint64
}

// NewEventBuffer allocates one ring per class with the given per-class
// capacity and overflow policy.
func NewEventBuffer(capacity int, policy ring.OverflowPolicy) *EventBuffer {
	b := &EventBuffer{rings: make(map[objects.Class]*ring.Ring[Event], 3)}
	for _, c := range []objects.Class{objects.Class1, objects.Class2, objects.Class3} {
		b.rings[c] = ring.New[Event](capacity, policy)
	}
	return b
}

// Enqueue adds an event to its class's ring, assigning the next
// sequence number. It reports whether the push overflowed the ring.
func (b *EventBuffer) Enqueue(class objects.Class, gv objects.GroupVariation, index uint32, payload []byte) (seq uint64, overflowed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	ev := Event{Seq: b.nextSeq, Class: class, GroupVariation: gv, Index: index, Payload: payload}
	r, ok := b.rings[class]
	if !ok {
		return ev.Seq, false
	}
	overflowed = r.Push(ev)
	if overflowed {
		b.overflows++
	}
	return ev.Seq, overflowed
}

// HasEvents reports whether any class matched by mask has a pending
// event, the trigger condition for an unsolicited response.
func (b *EventBuffer) HasEvents(mask ClassMask) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for c, r := range b.rings {
		if mask.Has(c) && r.Len() > 0 {
			return true
		}
	}
	return false
}

// Select returns a snapshot of every pending event in a class matched by
// mask, oldest first within each class, without removing anything. The
// events remain buffered until ConfirmThrough acknowledges them, so a
// response that goes unconfirmed can be rebuilt identically on retry.
func (b *EventBuffer) Select(mask ClassMask) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Event
	for _, c := range []objects.Class{objects.Class1, objects.Class2, objects.Class3} {
		if !mask.Has(c) {
			continue
		}
		out = append(out, b.rings[c].Peek()...)
	}
	return out
}

// ConfirmThrough drops every buffered event with Seq <= seq from every
// class ring, called once a master's application confirm acknowledges
// receipt of a response that carried them.
func (b *EventBuffer) ConfirmThrough(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range b.rings {
		r.DropWhile(func(ev Event) bool { return ev.Seq <= seq })
	}
}

// Overflows reports the cumulative count of events dropped to overflow
// across all classes, for diagnostics.
func (b *EventBuffer) Overflows() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflows
}

// Count reports the number of pending events in one class.
func (b *EventBuffer) Count(class objects.Class) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.rings[class]
	if !ok {
		return 0
	}
	return r.Len()
}
