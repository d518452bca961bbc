package app

import (
	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// RequestWriter builds a single-fragment request into a caller-supplied
// buffer.
type RequestWriter struct {
	w *cursor.Writer
}

// NewRequestWriter starts a request with the given control and function.
func NewRequestWriter(buf []byte, ctrl Control, fn Function) (*RequestWriter, error) {
	w := cursor.NewWriter(buf)
	if err := WriteHeaderBytes(w, ctrl, fn); err != nil {
		return nil, err
	}
	return &RequestWriter{w: w}, nil
}

// WriteHeader appends one object header (with no following payload, e.g.
// a READ request naming a class or range).
func (rw *RequestWriter) WriteHeader(group, variation uint8, rng objects.Range) error {
	return objects.WriteObjectHeader(rw.w, group, variation, rng)
}

// Cursor exposes the underlying writer so callers can append object
// payloads with the objects package's per-variation encoders.
func (rw *RequestWriter) Cursor() *cursor.Writer { return rw.w }

// Bytes returns the bytes written so far.
func (rw *RequestWriter) Bytes() []byte { return rw.w.Written() }

// ResponseWriter builds response fragments, tracking the application
// sequence number and splitting across multiple fragments when the
// caller's buffer is too small for everything it wants to write.
type ResponseWriter struct {
	buf        []byte
	w          *cursor.Writer
	seq        uint8
	unsolicited bool
}

// NewResponseWriter starts a response fragment echoing the request's SEQ.
func NewResponseWriter(buf []byte, seq uint8, unsolicited bool, iin IIN) (*ResponseWriter, error) {
	rw := &ResponseWriter{buf: buf, seq: seq, unsolicited: unsolicited}
	if err := rw.startFragment(true, false, iin); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *ResponseWriter) startFragment(fir, con bool, iin IIN) error {
	rw.w = cursor.NewWriter(rw.buf)
	fn := FuncResponse
	if rw.unsolicited {
		fn = FuncUnsolicitedResponse
	}
	ctrl := Control{FIR: fir, FIN: true, CON: con, UNS: rw.unsolicited, SEQ: rw.seq}
	if err := WriteHeaderBytes(rw.w, ctrl, fn); err != nil {
		return err
	}
	return WriteIIN(rw.w, iin)
}

// Remaining reports how many bytes are left in the current fragment.
func (rw *ResponseWriter) Remaining() int { return rw.w.Remaining() }

// WriteHeader appends an object header to the current fragment.
func (rw *ResponseWriter) WriteHeader(group, variation uint8, rng objects.Range) error {
	return objects.WriteObjectHeader(rw.w, group, variation, rng)
}

// Cursor exposes the underlying writer for object payload encoding.
func (rw *ResponseWriter) Cursor() *cursor.Writer { return rw.w }

// Bytes returns the current fragment's bytes written so far. The caller
// must mark the fragment CON=1/FIN=0 and call NextFragment to continue a
// multi-fragment response — see MarkContinued.
func (rw *ResponseWriter) Bytes() []byte { return rw.w.Written() }

// MarkFinal rewrites the current fragment's control byte to FIN=1 and the
// given CON value, for use once the caller knows this is the last
// fragment of the response.
func (rw *ResponseWriter) MarkFinal(con bool) {
	ctrl := Control{FIR: rw.w.Written()[0]&ctrlFIR != 0, FIN: true, CON: con, UNS: rw.unsolicited, SEQ: rw.seq}
	rw.buf[0] = ctrl.ToByte()
}

// MarkContinued rewrites the current fragment's control byte to FIN=0,
// CON=1 (MULTI_FRAG_RESPONSE requires a confirm between fragments) and
// returns it; the caller transmits it, waits for the matching application
// confirm, then calls NextFragment to start the next one.
func (rw *ResponseWriter) MarkContinued() []byte {
	ctrl := Control{FIR: rw.w.Written()[0]&ctrlFIR != 0, FIN: false, CON: true, UNS: rw.unsolicited, SEQ: rw.seq}
	rw.buf[0] = ctrl.ToByte()
	return rw.w.Written()
}

// NextFragment starts a new fragment (FIR=0) continuing the same
// response, with a freshly incremented SEQ.
func (rw *ResponseWriter) NextFragment(iin IIN) error {
	rw.seq = NextSequence(rw.seq)
	return rw.startFragment(false, false, iin)
}
