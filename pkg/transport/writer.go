package transport

import "github.com/open-dnp3/godnp3/pkg/link"

// Segments splits an application fragment into transport segments no
// larger than link.MaxAppBytesPerFrame bytes of application data apiece,
// returning each segment's transport header and application-data slice in
// order. seq is the starting transport sequence number (it increments by
// one, mod 64, for each subsequent segment); the caller is responsible for
// persisting the final returned sequence for its next fragment.
func Segments(fragment []byte, seq uint8) []Segment {
	if len(fragment) == 0 {
		return []Segment{{Header: Header{FIR: true, FIN: true, SEQ: seq}, Data: nil}}
	}

	var segments []Segment
	first := true
	for len(fragment) > 0 {
		n := len(fragment)
		if n > link.MaxAppBytesPerFrame {
			n = link.MaxAppBytesPerFrame
		}
		chunk := fragment[:n]
		fragment = fragment[n:]

		segments = append(segments, Segment{
			Header: Header{FIR: first, FIN: len(fragment) == 0, SEQ: seq},
			Data:   chunk,
		})
		first = false
		seq = NextSequence(seq)
	}
	return segments
}

// Segment is one transport-layer segment ready to be wrapped in a link
// frame by the caller.
type Segment struct {
	Header Header
	Data   []byte
}
