package link

import (
	"encoding/binary"

	"github.com/open-dnp3/godnp3/internal/crc"
)

// ParseOne attempts to parse a single link frame from the front of data.
//
// It returns (frame, consumed, nil) on success; (nil, 0, nil) when more
// bytes are needed before a decision can be made ("NeedMore" in spec.md
// terms); or (nil, consumed, err) on a framing error, where consumed is the
// number of bytes the caller may safely skip to attempt resynchronization
// under ErrorMode Discard (it is meaningless under ErrorMode Close, which
// should treat the session as dead).
func ParseOne(data []byte) (frame *Frame, consumed int, err error) {
	if len(data) < 1 {
		return nil, 0, nil
	}
	if data[0] != Sync1 {
		return nil, 1, &FrameError{Kind: ErrUnexpectedSync1, Value: data[0]}
	}
	if len(data) < 2 {
		return nil, 0, nil
	}
	if data[1] != Sync2 {
		return nil, 1, &FrameError{Kind: ErrUnexpectedSync2, Value: data[1]}
	}
	if len(data) < HeaderLength {
		return nil, 0, nil
	}

	length := data[2]
	if length < MinHeaderLengthByte {
		return nil, HeaderLength, &FrameError{Kind: ErrBadLength, Value: length}
	}
	userDataLen := int(length) - 5
	if userDataLen > MaxUserDataLength {
		return nil, HeaderLength, &FrameError{Kind: ErrBadLength, Value: length}
	}

	headerCRC := crc.Compute(data[0:8])
	wantCRC := binary.LittleEndian.Uint16(data[8:10])
	if headerCRC != wantCRC {
		return nil, HeaderLength, &FrameError{Kind: ErrBadHeaderCRC}
	}

	totalFrameLen := HeaderLength + wireLength(userDataLen)
	if len(data) < totalFrameLen {
		return nil, 0, nil
	}

	control := ParseControlField(data[3])
	destination := binary.LittleEndian.Uint16(data[4:6])
	source := binary.LittleEndian.Uint16(data[6:8])

	payload := make([]byte, 0, userDataLen)
	pos := HeaderLength
	remaining := userDataLen
	for remaining > 0 {
		blockLen := remaining
		if blockLen > MaxBlockSize {
			blockLen = MaxBlockSize
		}
		block := data[pos : pos+blockLen]
		blockCRC := data[pos+blockLen : pos+blockLen+CRCLength]
		if crc.Compute(block) != binary.LittleEndian.Uint16(blockCRC) {
			return nil, totalFrameLen, &FrameError{Kind: ErrBadBodyCRC}
		}
		payload = append(payload, block...)
		pos += blockLen + CRCLength
		remaining -= blockLen
	}

	return &Frame{
		Header: Header{
			Control:     control,
			Destination: destination,
			Source:      source,
		},
		Payload: payload,
	}, totalFrameLen, nil
}
