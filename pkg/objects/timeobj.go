package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// DecodeTimestamp reads a g50-style 48-bit absolute time value (used for
// g50v1, g50v3 "recorded at", and g50v4 "CTO").
func DecodeTimestamp(r *cursor.Reader) (Timestamp, error) {
	v, err := r.ReadUint48Millis()
	if err != nil {
		return 0, err
	}
	return Timestamp(v), nil
}

// EncodeTimestamp writes a 48-bit absolute time value.
func EncodeTimestamp(w *cursor.Writer, t Timestamp) error {
	return w.WriteUint48Millis(uint64(t))
}

// DecodeRelativeTimeMillis reads a g2v3/g4v3/g22v.../g32v... event's
// 16-bit relative-time-of-occurrence offset, in milliseconds before the
// fragment's g51 common time-of-occurrence object.
func DecodeRelativeTimeMillis(r *cursor.Reader) (uint16, error) {
	return r.ReadUint16()
}

// EncodeRelativeTimeMillis writes a 16-bit relative time offset.
func EncodeRelativeTimeMillis(w *cursor.Writer, ms uint16) error {
	return w.WriteUint16(ms)
}

// DecodeTimeDelay reads a g52v1/v2-style 16-bit time delay, in seconds
// for the coarse variation and milliseconds for the fine variation.
func DecodeTimeDelay(r *cursor.Reader) (uint16, error) {
	return r.ReadUint16()
}

// EncodeTimeDelay writes a 16-bit time delay.
func EncodeTimeDelay(w *cursor.Writer, delay uint16) error {
	return w.WriteUint16(delay)
}
