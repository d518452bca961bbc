package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// This file gives AnalogOutputStatus (g40, and g42's output-event
// counterpart) its own codec functions. The wire layouts are identical
// to analog.go's AnalogInput codecs (flags byte + value); they are
// duplicated onto AnalogOutputStatus rather than shared because the two
// value types are intentionally distinct in the static database (an
// input point and an output status point are never interchangeable,
// even though their events pack identically on the wire).

// DecodeAnalogOutputStatusInt32 reads a g40v1/g42v1-style 32-bit flagged
// analog output status.
func DecodeAnalogOutputStatusInt32(r *cursor.Reader) (AnalogOutputStatus, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	v, err := r.ReadInt32()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	return AnalogOutputStatus{Value: float64(v), Flags: Flags(f)}, nil
}

// EncodeAnalogOutputStatusInt32 writes a 32-bit flagged analog output
// status.
func EncodeAnalogOutputStatusInt32(w *cursor.Writer, a AnalogOutputStatus) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteInt32(int32(a.Value))
}

// DecodeAnalogOutputStatusInt16 reads a g40v2/g42v2-style 16-bit flagged
// analog output status.
func DecodeAnalogOutputStatusInt16(r *cursor.Reader) (AnalogOutputStatus, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	v, err := r.ReadInt16()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	return AnalogOutputStatus{Value: float64(v), Flags: Flags(f)}, nil
}

// EncodeAnalogOutputStatusInt16 writes a 16-bit flagged analog output
// status.
func EncodeAnalogOutputStatusInt16(w *cursor.Writer, a AnalogOutputStatus) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteInt16(int16(a.Value))
}

// DecodeAnalogOutputStatusFloat32 reads a g40v3/g42v5-style flagged
// single-precision analog output status.
func DecodeAnalogOutputStatusFloat32(r *cursor.Reader) (AnalogOutputStatus, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	v, err := r.ReadFloat32()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	return AnalogOutputStatus{Value: float64(v), Flags: Flags(f)}, nil
}

// EncodeAnalogOutputStatusFloat32 writes a flagged single-precision
// analog output status.
func EncodeAnalogOutputStatusFloat32(w *cursor.Writer, a AnalogOutputStatus) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteFloat32(float32(a.Value))
}

// DecodeAnalogOutputStatusFloat64 reads a g40v4/g42v6-style flagged
// double-precision analog output status.
func DecodeAnalogOutputStatusFloat64(r *cursor.Reader) (AnalogOutputStatus, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	v, err := r.ReadFloat64()
	if err != nil {
		return AnalogOutputStatus{}, err
	}
	return AnalogOutputStatus{Value: v, Flags: Flags(f)}, nil
}

// EncodeAnalogOutputStatusFloat64 writes a flagged double-precision
// analog output status.
func EncodeAnalogOutputStatusFloat64(w *cursor.Writer, a AnalogOutputStatus) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteFloat64(a.Value)
}
