package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// DecodeAnalogOutputCommandInt16 reads a g41v2 analog output command.
func DecodeAnalogOutputCommandInt16(r *cursor.Reader) (AnalogOutputCommand, error) {
	v, err := r.ReadInt16()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	status, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	return AnalogOutputCommand{Value: float64(v), Status: CommandStatus(status)}, nil
}

// EncodeAnalogOutputCommandInt16 writes a g41v2 object.
func EncodeAnalogOutputCommandInt16(w *cursor.Writer, c AnalogOutputCommand) error {
	if err := w.WriteInt16(int16(c.Value)); err != nil {
		return err
	}
	return w.WriteUint8(uint8(c.Status))
}

// DecodeAnalogOutputCommandInt32 reads a g41v1 analog output command.
func DecodeAnalogOutputCommandInt32(r *cursor.Reader) (AnalogOutputCommand, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	status, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	return AnalogOutputCommand{Value: float64(v), Status: CommandStatus(status)}, nil
}

// EncodeAnalogOutputCommandInt32 writes a g41v1 object.
func EncodeAnalogOutputCommandInt32(w *cursor.Writer, c AnalogOutputCommand) error {
	if err := w.WriteInt32(int32(c.Value)); err != nil {
		return err
	}
	return w.WriteUint8(uint8(c.Status))
}

// DecodeAnalogOutputCommandFloat32 reads a g41v3 analog output command.
func DecodeAnalogOutputCommandFloat32(r *cursor.Reader) (AnalogOutputCommand, error) {
	v, err := r.ReadFloat32()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	status, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	return AnalogOutputCommand{Value: float64(v), Status: CommandStatus(status)}, nil
}

// EncodeAnalogOutputCommandFloat32 writes a g41v3 object.
func EncodeAnalogOutputCommandFloat32(w *cursor.Writer, c AnalogOutputCommand) error {
	if err := w.WriteFloat32(float32(c.Value)); err != nil {
		return err
	}
	return w.WriteUint8(uint8(c.Status))
}

// DecodeAnalogOutputCommandFloat64 reads a g41v4 analog output command.
func DecodeAnalogOutputCommandFloat64(r *cursor.Reader) (AnalogOutputCommand, error) {
	v, err := r.ReadFloat64()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	status, err := r.ReadUint8()
	if err != nil {
		return AnalogOutputCommand{}, err
	}
	return AnalogOutputCommand{Value: v, Status: CommandStatus(status)}, nil
}

// EncodeAnalogOutputCommandFloat64 writes a g41v4 object.
func EncodeAnalogOutputCommandFloat64(w *cursor.Writer, c AnalogOutputCommand) error {
	if err := w.WriteFloat64(c.Value); err != nil {
		return err
	}
	return w.WriteUint8(uint8(c.Status))
}

// Equal reports whether two analog output commands carry the same
// commanded value, for the select-before-operate fingerprint check.
func (c AnalogOutputCommand) Equal(other AnalogOutputCommand) bool {
	return c.Value == other.Value
}
