package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// DecodeCounter32 reads a g20v1/g21v1/g22v1/g23v1-style 32-bit flagged
// counter.
func DecodeCounter32(r *cursor.Reader) (Counter, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return Counter{}, err
	}
	v, err := r.ReadUint32()
	if err != nil {
		return Counter{}, err
	}
	return Counter{Value: v, Flags: Flags(f)}, nil
}

// EncodeCounter32 writes a 32-bit flagged counter.
func EncodeCounter32(w *cursor.Writer, c Counter) error {
	if err := w.WriteUint8(uint8(c.Flags)); err != nil {
		return err
	}
	return w.WriteUint32(c.Value)
}

// DecodeCounter16 reads a g20v2/g21v2/g22v2/g23v2-style 16-bit flagged
// counter.
func DecodeCounter16(r *cursor.Reader) (Counter, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return Counter{}, err
	}
	v, err := r.ReadUint16()
	if err != nil {
		return Counter{}, err
	}
	return Counter{Value: uint32(v), Flags: Flags(f)}, nil
}

// EncodeCounter16 writes a 16-bit flagged counter.
func EncodeCounter16(w *cursor.Writer, c Counter) error {
	if err := w.WriteUint8(uint8(c.Flags)); err != nil {
		return err
	}
	return w.WriteUint16(uint16(c.Value))
}

// DecodeCounter32NoFlags reads a g20v5/g21v9-style bare 32-bit counter
// (flags defaulted to GoodOnlineFlags since none are on the wire).
func DecodeCounter32NoFlags(r *cursor.Reader) (Counter, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return Counter{}, err
	}
	return Counter{Value: v, Flags: GoodOnlineFlags}, nil
}

// EncodeCounter32NoFlags writes a bare 32-bit counter.
func EncodeCounter32NoFlags(w *cursor.Writer, c Counter) error {
	return w.WriteUint32(c.Value)
}

// DecodeCounter16NoFlags reads a g20v6/g21v10-style bare 16-bit counter.
func DecodeCounter16NoFlags(r *cursor.Reader) (Counter, error) {
	v, err := r.ReadUint16()
	if err != nil {
		return Counter{}, err
	}
	return Counter{Value: uint32(v), Flags: GoodOnlineFlags}, nil
}

// EncodeCounter16NoFlags writes a bare 16-bit counter.
func EncodeCounter16NoFlags(w *cursor.Writer, c Counter) error {
	return w.WriteUint16(uint16(c.Value))
}
