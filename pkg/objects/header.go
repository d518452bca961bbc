package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// ObjectHeader is one decoded object header: group, variation, and the
// range/count specifier describing how many object instances follow.
type ObjectHeader struct {
	Group     uint8
	Variation uint8
	Range     Range
}

// GroupVariation returns the (group, variation) pair this header names.
func (h ObjectHeader) GroupVariation() GroupVariation {
	return GroupVariation{Group: h.Group, Variation: h.Variation}
}

// ParseObjectHeader reads a group/variation/qualifier/range header.
func ParseObjectHeader(r *cursor.Reader) (ObjectHeader, error) {
	group, err := r.ReadUint8()
	if err != nil {
		return ObjectHeader{}, err
	}
	variation, err := r.ReadUint8()
	if err != nil {
		return ObjectHeader{}, err
	}
	rng, err := ParseRange(r)
	if err != nil {
		return ObjectHeader{}, err
	}
	return ObjectHeader{Group: group, Variation: variation, Range: rng}, nil
}

// WriteObjectHeader writes a group/variation/qualifier/range header.
func WriteObjectHeader(w *cursor.Writer, group, variation uint8, rng Range) error {
	if err := w.WriteUint8(group); err != nil {
		return err
	}
	if err := w.WriteUint8(variation); err != nil {
		return err
	}
	return WriteRange(w, rng)
}
