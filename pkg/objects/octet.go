package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// DecodeOctetString reads a g110/g111 octet string whose length is given
// by the object header's variation number (the wire-format encodes length
// structurally, not in-band).
func DecodeOctetString(r *cursor.Reader, length int) (OctetString, error) {
	b, err := r.ReadBytes(length)
	if err != nil {
		return nil, err
	}
	out := make(OctetString, length)
	copy(out, b)
	return out, nil
}

// EncodeOctetString writes a g110/g111 octet string. The caller is
// responsible for ensuring len(s) matches the variation number under
// which it is being written.
func EncodeOctetString(w *cursor.Writer, s OctetString) error {
	return w.WriteBytes(s)
}
