package link

import (
	"errors"

	"github.com/open-dnp3/godnp3/internal/crc"
	"github.com/open-dnp3/godnp3/pkg/cursor"
)

// ErrPayloadTooLarge is returned when WriteData is asked to carry more than
// MaxUserDataLength bytes of transport+application data (that is, more
// than MaxAppBytesPerFrame application bytes) in one frame.
var ErrPayloadTooLarge = errors.New("link: payload exceeds one frame's capacity")

// writeHeader encodes the 10-byte link header (with its own CRC) for a
// frame carrying userDataLen bytes of payload.
func writeHeader(w *cursor.Writer, control ControlField, destination, source uint16, userDataLen int) error {
	start := w.Position()
	if err := w.WriteUint8(Sync1); err != nil {
		return err
	}
	if err := w.WriteUint8(Sync2); err != nil {
		return err
	}
	if err := w.WriteUint8(byte(5 + userDataLen)); err != nil {
		return err
	}
	if err := w.WriteUint8(control.ToByte()); err != nil {
		return err
	}
	if err := w.WriteUint16(destination); err != nil {
		return err
	}
	if err := w.WriteUint16(source); err != nil {
		return err
	}
	headerCRC := crc.Compute(w.WrittenSince(start))
	return w.WriteUint16(headerCRC)
}

// WriteHeaderOnly formats a header-only frame (used for ACK/NACK/link-status
// replies and reset-link-states requests, which carry no payload).
func WriteHeaderOnly(control ControlField, destination, source uint16, out []byte) ([]byte, error) {
	w := cursor.NewWriter(out)
	if err := writeHeader(w, control, destination, source, 0); err != nil {
		return nil, err
	}
	return w.Written(), nil
}

// WriteData formats a complete data-bearing link frame: the header followed
// by transportByte and appBytes split into CRC-terminated 16-byte blocks.
// 1+len(appBytes) must not exceed MaxUserDataLength, i.e. len(appBytes)
// must not exceed MaxAppBytesPerFrame.
func WriteData(control ControlField, destination, source uint16, transportByte byte, appBytes []byte, out []byte) ([]byte, error) {
	userDataLen := 1 + len(appBytes)
	if userDataLen > MaxUserDataLength {
		return nil, ErrPayloadTooLarge
	}

	w := cursor.NewWriter(out)
	if err := writeHeader(w, control, destination, source, userDataLen); err != nil {
		return nil, err
	}

	payload := make([]byte, 0, userDataLen)
	payload = append(payload, transportByte)
	payload = append(payload, appBytes...)

	for len(payload) > 0 {
		blockLen := len(payload)
		if blockLen > MaxBlockSize {
			blockLen = MaxBlockSize
		}
		block := payload[:blockLen]
		start := w.Position()
		if err := w.WriteBytes(block); err != nil {
			return nil, err
		}
		blockCRC := crc.Compute(w.WrittenSince(start))
		if err := w.WriteUint16(blockCRC); err != nil {
			return nil, err
		}
		payload = payload[blockLen:]
	}

	return w.Written(), nil
}
