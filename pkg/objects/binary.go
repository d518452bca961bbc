package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// packedByteCount returns how many bytes hold count values packed bitsPer
// bits each.
func packedByteCount(count int, bitsPer int) int {
	bits := count * bitsPer
	return (bits + 7) / 8
}

// DecodeBinaryPacked reads g1v1/g10v1-style packed bits: one bit per point,
// LSB first, padded to a byte boundary.
func DecodeBinaryPacked(r *cursor.Reader, count int) ([]bool, error) {
	raw, err := r.ReadBytes(packedByteCount(count, 1))
	if err != nil {
		return nil, err
	}
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		out[i] = raw[i/8]&(1<<uint(i%8)) != 0
	}
	return out, nil
}

// EncodeBinaryPacked writes values in g1v1/g10v1 packed-bit format.
func EncodeBinaryPacked(w *cursor.Writer, values []bool) error {
	raw := make([]byte, packedByteCount(len(values), 1))
	for i, v := range values {
		if v {
			raw[i/8] |= 1 << uint(i%8)
		}
	}
	return w.WriteBytes(raw)
}

// DecodeDoubleBitPacked reads g3v1-style packed double-bit states: two bits
// per point, LSB first within each byte.
func DecodeDoubleBitPacked(r *cursor.Reader, count int) ([]DoubleBitState, error) {
	raw, err := r.ReadBytes(packedByteCount(count, 2))
	if err != nil {
		return nil, err
	}
	out := make([]DoubleBitState, count)
	for i := 0; i < count; i++ {
		shift := uint((i % 4) * 2)
		out[i] = DoubleBitState((raw[i/4] >> shift) & 0x03)
	}
	return out, nil
}

// EncodeDoubleBitPacked writes states in g3v1 packed-bit format.
func EncodeDoubleBitPacked(w *cursor.Writer, states []DoubleBitState) error {
	raw := make([]byte, packedByteCount(len(states), 2))
	for i, s := range states {
		shift := uint((i % 4) * 2)
		raw[i/4] |= byte(s&0x03) << shift
	}
	return w.WriteBytes(raw)
}

// DecodeBinaryInput reads one g1v2/g11v1-style flagged binary point.
func DecodeBinaryInput(r *cursor.Reader) (BinaryInput, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return BinaryInput{}, err
	}
	f := Flags(b)
	return BinaryInput{Value: f.BinaryState(), Flags: f}, nil
}

// EncodeBinaryInput writes one flagged binary point.
func EncodeBinaryInput(w *cursor.Writer, v BinaryInput) error {
	return w.WriteUint8(uint8(v.Flags.withBinaryState(v.Value)))
}

// DecodeBinaryOutputStatus reads one g10v2 flagged binary output status.
func DecodeBinaryOutputStatus(r *cursor.Reader) (BinaryOutputStatus, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return BinaryOutputStatus{}, err
	}
	f := Flags(b)
	return BinaryOutputStatus{Value: f.BinaryState(), Flags: f}, nil
}

// EncodeBinaryOutputStatus writes one g10v2 point.
func EncodeBinaryOutputStatus(w *cursor.Writer, v BinaryOutputStatus) error {
	return w.WriteUint8(uint8(v.Flags.withBinaryState(v.Value)))
}

// DecodeDoubleBitInput reads one g3v2/g4-style flagged double-bit point.
func DecodeDoubleBitInput(r *cursor.Reader) (DoubleBitInput, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return DoubleBitInput{}, err
	}
	f := Flags(b)
	return DoubleBitInput{State: f.DoubleBitState(), Flags: f}, nil
}

// EncodeDoubleBitInput writes one flagged double-bit point.
func EncodeDoubleBitInput(w *cursor.Writer, v DoubleBitInput) error {
	return w.WriteUint8(uint8(v.Flags.withDoubleBitState(v.State)))
}
