package app

import "github.com/open-dnp3/godnp3/pkg/cursor"

const (
	ctrlFIR = 0x80
	ctrlFIN = 0x40
	ctrlCON = 0x20
	ctrlUNS = 0x10
	ctrlSEQ = 0x0F

	// MaxSequence is the modulus of the 4-bit application sequence
	// number.
	MaxSequence = 16
)

// Control is the decoded application-layer control byte: fragmentation
// flags, confirm-required flag, unsolicited flag, and the 4-bit sequence.
type Control struct {
	FIR bool
	FIN bool
	CON bool
	UNS bool
	SEQ uint8
}

// ParseControl decodes the application control byte.
func ParseControl(b byte) Control {
	return Control{
		FIR: b&ctrlFIR != 0,
		FIN: b&ctrlFIN != 0,
		CON: b&ctrlCON != 0,
		UNS: b&ctrlUNS != 0,
		SEQ: b & ctrlSEQ,
	}
}

// ToByte encodes the control field back to its wire byte.
func (c Control) ToByte() byte {
	var b byte
	if c.FIR {
		b |= ctrlFIR
	}
	if c.FIN {
		b |= ctrlFIN
	}
	if c.CON {
		b |= ctrlCON
	}
	if c.UNS {
		b |= ctrlUNS
	}
	b |= c.SEQ & ctrlSEQ
	return b
}

// NextSequence increments an application sequence number modulo 16.
func NextSequence(seq uint8) uint8 {
	return (seq + 1) % MaxSequence
}

// SingleFragment returns the control byte for a non-unsolicited,
// single-fragment request or response (FIR=FIN=1, CON=UNS=0).
func SingleFragment(seq uint8) Control {
	return Control{FIR: true, FIN: true, SEQ: seq & ctrlSEQ}
}

// ReadHeaderBytes reads the two fixed bytes common to every fragment:
// control and function code. The IIN field, present only on responses, is
// read separately by the caller once it knows which this is.
func ReadHeaderBytes(r *cursor.Reader) (Control, Function, error) {
	cb, err := r.ReadUint8()
	if err != nil {
		return Control{}, 0, err
	}
	fb, err := r.ReadUint8()
	if err != nil {
		return Control{}, 0, err
	}
	return ParseControl(cb), Function(fb), nil
}

// WriteHeaderBytes writes the control and function code bytes.
func WriteHeaderBytes(w *cursor.Writer, ctrl Control, fn Function) error {
	if err := w.WriteUint8(ctrl.ToByte()); err != nil {
		return err
	}
	return w.WriteUint8(uint8(fn))
}
