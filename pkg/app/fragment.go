package app

import (
	"errors"
	"fmt"

	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// ErrBadHeader is returned when the control byte violates the CON/UNS
// rules for its function code.
var ErrBadHeader = errors.New("app: bad fragment header")

// RawObject is one parsed object header together with the undecoded bytes
// of its object instances, borrowed (zero-copy) from the fragment buffer.
// Callers decode Payload with the objects package function appropriate to
// Header.GroupVariation().
type RawObject struct {
	Header  objects.ObjectHeader
	Payload []byte
}

// Fragment is one parsed application-layer fragment: its control header,
// function code, optional IIN (responses only), and its object headers.
type Fragment struct {
	Control Control
	Function Function
	HasIIN  bool
	IIN     IIN
	Objects []RawObject
}

// ParseFragment decodes one complete application fragment's bytes
// (already reassembled by pkg/transport). It validates the CON/UNS rules
// and iterates object headers until the buffer is exhausted.
func ParseFragment(data []byte) (*Fragment, error) {
	r := cursor.NewReader(data)
	ctrl, fn, err := ReadHeaderBytes(r)
	if err != nil {
		return nil, err
	}

	frag := &Fragment{Control: ctrl, Function: fn}

	if fn.IsResponse() {
		iin, err := ParseIIN(r)
		if err != nil {
			return nil, err
		}
		frag.HasIIN = true
		frag.IIN = iin
	} else if err := validateRequestControl(ctrl, fn); err != nil {
		return nil, err
	}

	for r.Remaining() > 0 {
		obj, err := parseOneHeader(r)
		if err != nil {
			return nil, err
		}
		frag.Objects = append(frag.Objects, obj)
	}
	return frag, nil
}

func validateRequestControl(ctrl Control, fn Function) error {
	if fn == FuncConfirm {
		return nil
	}
	if ctrl.CON {
		return fmt.Errorf("%w: CON set on non-confirm request %s", ErrBadHeader, fn)
	}
	if ctrl.UNS {
		return fmt.Errorf("%w: UNS set on non-confirm request %s", ErrBadHeader, fn)
	}
	return nil
}

func parseOneHeader(r *cursor.Reader) (RawObject, error) {
	header, err := objects.ParseObjectHeader(r)
	if err != nil {
		return RawObject{}, err
	}
	desc, err := objects.Lookup(header.GroupVariation())
	if err != nil {
		return RawObject{}, err
	}

	n := int(header.Range.NumObjects())
	var size int
	switch desc.SizeKind {
	case objects.SizeFixed:
		size = desc.FixedSize * n
	case objects.SizeOctetString:
		size = desc.FixedSize * n
	case objects.SizePacked1Bit:
		size = (n + 7) / 8
	case objects.SizePacked2Bit:
		size = (n*2 + 7) / 8
	case objects.SizeVariable:
		// Free-format objects (file transfer) are each individually
		// length-prefixed; consume count of (2-byte size + payload)
		// blocks and hand back the whole run, including the prefixes,
		// for the caller to walk.
		start := r.Bytes()
		for i := 0; i < n; i++ {
			l, err := r.ReadUint16()
			if err != nil {
				return RawObject{}, err
			}
			if err := r.Skip(int(l)); err != nil {
				return RawObject{}, err
			}
		}
		payload := start[:len(start)-r.Remaining()]
		return RawObject{Header: header, Payload: payload}, nil
	default:
		return RawObject{}, fmt.Errorf("%w: %s", objects.ErrUnknownVariation, header.GroupVariation())
	}

	payload, err := r.ReadBytes(size)
	if err != nil {
		return RawObject{}, err
	}
	return RawObject{Header: header, Payload: payload}, nil
}
