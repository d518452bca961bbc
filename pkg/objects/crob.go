package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// DecodeCROB reads a g12v1 Control Relay Output Block.
func DecodeCROB(r *cursor.Reader) (CROB, error) {
	codeByte, err := r.ReadUint8()
	if err != nil {
		return CROB{}, err
	}
	count, err := r.ReadUint8()
	if err != nil {
		return CROB{}, err
	}
	onTime, err := r.ReadUint32()
	if err != nil {
		return CROB{}, err
	}
	offTime, err := r.ReadUint32()
	if err != nil {
		return CROB{}, err
	}
	status, err := r.ReadUint8()
	if err != nil {
		return CROB{}, err
	}
	return CROB{
		Code:    ParseControlCode(codeByte),
		Count:   count,
		OnTime:  onTime,
		OffTime: offTime,
		Status:  CommandStatus(status),
	}, nil
}

// EncodeCROB writes a g12v1 object.
func EncodeCROB(w *cursor.Writer, c CROB) error {
	if err := w.WriteUint8(c.Code.ToByte()); err != nil {
		return err
	}
	if err := w.WriteUint8(c.Count); err != nil {
		return err
	}
	if err := w.WriteUint32(c.OnTime); err != nil {
		return err
	}
	if err := w.WriteUint32(c.OffTime); err != nil {
		return err
	}
	return w.WriteUint8(uint8(c.Status))
}

// Equal reports whether two CROBs are byte-identical for the purposes of
// the select-before-operate fingerprint check (status is excluded: a
// request's status field is always 0 and is not meaningful for comparison).
func (c CROB) Equal(other CROB) bool {
	return c.Code == other.Code && c.Count == other.Count &&
		c.OnTime == other.OnTime && c.OffTime == other.OffTime
}
