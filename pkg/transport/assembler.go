package transport

import (
	"github.com/open-dnp3/godnp3/internal/fifo"
)

// DefaultMaxFragmentSize is the default reassembly buffer size in bytes,
// per spec.md §4.2.
const DefaultMaxFragmentSize = 2048

type assemblerState int

const (
	stateEmpty assemblerState = iota
	stateRunning
	stateComplete
)

// DropReason explains why HandleSegment discarded a segment, for decode
// tracing; the zero value means nothing was dropped.
type DropReason string

const (
	DropNone             DropReason = ""
	DropNoLeadingFIR     DropReason = "non-FIR segment with no running fragment"
	DropSequenceGap      DropReason = "sequence/peer mismatch mid-fragment"
	DropOverflow         DropReason = "fragment exceeds reassembly buffer"
	DropBroadcastMultiple DropReason = "broadcast fragment must be a single segment"
)

// Assembler reassembles transport segments into complete application
// fragments, per the state machine in spec.md §4.2.
type Assembler struct {
	capacity    int
	buf         *fifo.Fifo
	state       assemblerState
	peerAddress uint16
	lastSeq     uint8
}

// NewAssembler creates an Assembler with the given maximum fragment size.
func NewAssembler(capacity int) *Assembler {
	if capacity <= 0 {
		capacity = DefaultMaxFragmentSize
	}
	capacity = min(capacity, 1<<16-2)
	return &Assembler{capacity: capacity, buf: fifo.NewFifo(uint16(capacity + 1))}
}

// Reset discards any in-progress fragment.
func (a *Assembler) Reset() {
	a.buf.Reset()
	a.state = stateEmpty
}

// HandleSegment feeds one received segment into the assembler.
//
// peerAddress is the source link address of the frame carrying this
// segment; broadcast indicates the frame's link destination was a
// broadcast address. It returns whether a complete fragment is now ready
// (Peek/Discard), and a DropReason if the segment itself was discarded.
func (a *Assembler) HandleSegment(peerAddress uint16, broadcast bool, header Header, payload []byte) (complete bool, dropped DropReason) {
	if broadcast && !(header.FIR && header.FIN) {
		return false, DropBroadcastMultiple
	}

	if header.FIR {
		a.buf.Reset()
		a.state = stateRunning
		a.peerAddress = peerAddress
		a.lastSeq = header.SEQ
	} else {
		if a.state != stateRunning {
			return false, DropNoLeadingFIR
		}
		expected := NextSequence(a.lastSeq)
		if peerAddress != a.peerAddress || header.SEQ != expected {
			a.Reset()
			return false, DropSequenceGap
		}
		a.lastSeq = header.SEQ
	}

	if a.buf.GetOccupied()+len(payload) > a.capacity {
		a.Reset()
		return false, DropOverflow
	}
	a.buf.Write(payload)

	if header.FIN {
		a.state = stateComplete
		return true, DropNone
	}
	return false, DropNone
}

// Ready reports whether a complete fragment is currently buffered.
func (a *Assembler) Ready() bool {
	return a.state == stateComplete
}

// Peek returns the bytes of the complete fragment without consuming them.
// It returns nil if Ready() is false.
func (a *Assembler) Peek() []byte {
	if a.state != stateComplete {
		return nil
	}
	return a.buf.PeekAll()
}

// Discard consumes the complete fragment, returning the assembler to Empty
// so it can start reassembling the next one.
func (a *Assembler) Discard() {
	a.buf.Reset()
	a.state = stateEmpty
}
