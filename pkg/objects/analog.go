package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// DecodeAnalogInt16 reads a g30v2/g32v2/g40v2/g42v2-style 16-bit flagged
// analog value.
func DecodeAnalogInt16(r *cursor.Reader) (AnalogInput, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogInput{}, err
	}
	v, err := r.ReadInt16()
	if err != nil {
		return AnalogInput{}, err
	}
	return AnalogInput{Value: float64(v), Flags: Flags(f)}, nil
}

// EncodeAnalogInt16 writes a 16-bit flagged analog value.
func EncodeAnalogInt16(w *cursor.Writer, a AnalogInput) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteInt16(int16(a.Value))
}

// DecodeAnalogInt32 reads a g30v1/g32v1/g40v1/g42v1-style 32-bit flagged
// analog value.
func DecodeAnalogInt32(r *cursor.Reader) (AnalogInput, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogInput{}, err
	}
	v, err := r.ReadInt32()
	if err != nil {
		return AnalogInput{}, err
	}
	return AnalogInput{Value: float64(v), Flags: Flags(f)}, nil
}

// EncodeAnalogInt32 writes a 32-bit flagged analog value.
func EncodeAnalogInt32(w *cursor.Writer, a AnalogInput) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteInt32(int32(a.Value))
}

// DecodeAnalogFloat32 reads a g30v5/g32v5/g40v3/g42v5-style flagged
// single-precision analog value.
func DecodeAnalogFloat32(r *cursor.Reader) (AnalogInput, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogInput{}, err
	}
	v, err := r.ReadFloat32()
	if err != nil {
		return AnalogInput{}, err
	}
	return AnalogInput{Value: float64(v), Flags: Flags(f)}, nil
}

// EncodeAnalogFloat32 writes a flagged single-precision analog value.
func EncodeAnalogFloat32(w *cursor.Writer, a AnalogInput) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteFloat32(float32(a.Value))
}

// DecodeAnalogFloat64 reads a g30v6/g32v6/g40v4/g42v6-style flagged
// double-precision analog value.
func DecodeAnalogFloat64(r *cursor.Reader) (AnalogInput, error) {
	f, err := r.ReadUint8()
	if err != nil {
		return AnalogInput{}, err
	}
	v, err := r.ReadFloat64()
	if err != nil {
		return AnalogInput{}, err
	}
	return AnalogInput{Value: v, Flags: Flags(f)}, nil
}

// EncodeAnalogFloat64 writes a flagged double-precision analog value.
func EncodeAnalogFloat64(w *cursor.Writer, a AnalogInput) error {
	if err := w.WriteUint8(uint8(a.Flags)); err != nil {
		return err
	}
	return w.WriteFloat64(a.Value)
}

// DecodeAnalogInt32NoFlags reads a g30v3-style bare 32-bit analog value.
func DecodeAnalogInt32NoFlags(r *cursor.Reader) (AnalogInput, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return AnalogInput{}, err
	}
	return AnalogInput{Value: float64(v), Flags: GoodOnlineFlags}, nil
}

// EncodeAnalogInt32NoFlags writes a bare 32-bit analog value.
func EncodeAnalogInt32NoFlags(w *cursor.Writer, a AnalogInput) error {
	return w.WriteInt32(int32(a.Value))
}

// DecodeAnalogInt16NoFlags reads a g30v4-style bare 16-bit analog value.
func DecodeAnalogInt16NoFlags(r *cursor.Reader) (AnalogInput, error) {
	v, err := r.ReadInt16()
	if err != nil {
		return AnalogInput{}, err
	}
	return AnalogInput{Value: float64(v), Flags: GoodOnlineFlags}, nil
}

// EncodeAnalogInt16NoFlags writes a bare 16-bit analog value.
func EncodeAnalogInt16NoFlags(w *cursor.Writer, a AnalogInput) error {
	return w.WriteInt16(int16(a.Value))
}

// DecodeDeadband16 reads a g34v1-style 16-bit dead-band threshold.
func DecodeDeadband16(r *cursor.Reader) (AnalogDeadband, error) {
	v, err := r.ReadUint16()
	if err != nil {
		return AnalogDeadband{}, err
	}
	return AnalogDeadband{Value: float64(v)}, nil
}

// EncodeDeadband16 writes a 16-bit dead-band threshold.
func EncodeDeadband16(w *cursor.Writer, d AnalogDeadband) error {
	return w.WriteUint16(uint16(d.Value))
}

// DecodeDeadband32 reads a g34v2-style 32-bit dead-band threshold.
func DecodeDeadband32(r *cursor.Reader) (AnalogDeadband, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return AnalogDeadband{}, err
	}
	return AnalogDeadband{Value: float64(v)}, nil
}

// EncodeDeadband32 writes a 32-bit dead-band threshold.
func EncodeDeadband32(w *cursor.Writer, d AnalogDeadband) error {
	return w.WriteUint32(uint32(d.Value))
}

// DecodeDeadbandFloat32 reads a g34v3-style single-precision dead-band
// threshold.
func DecodeDeadbandFloat32(r *cursor.Reader) (AnalogDeadband, error) {
	v, err := r.ReadFloat32()
	if err != nil {
		return AnalogDeadband{}, err
	}
	return AnalogDeadband{Value: float64(v)}, nil
}

// EncodeDeadbandFloat32 writes a single-precision dead-band threshold.
func EncodeDeadbandFloat32(w *cursor.Writer, d AnalogDeadband) error {
	return w.WriteFloat32(float32(d.Value))
}
