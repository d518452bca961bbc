package objects

import "github.com/open-dnp3/godnp3/pkg/cursor"

// Named IIN1 bit indices, as addressed by a g80v1 WRITE (e.g. index 7
// clears DEVICE_RESTART).
const (
	IIN1BroadcastReceived uint8 = 0
	IIN1Class1Events      uint8 = 1
	IIN1Class2Events      uint8 = 2
	IIN1Class3Events      uint8 = 3
	IIN1NeedTime          uint8 = 4
	IIN1LocalControl      uint8 = 5
	IIN1DeviceTrouble     uint8 = 6
	IIN1DeviceRestart     uint8 = 7
)

// DecodeIINBit reads one g80v1 packed-bit index/value pair; the index
// itself comes from the enclosing object header's range, not the wire
// payload, so this only reads the single bit's value.
func DecodeIINBit(r *cursor.Reader, index uint8) (IINBit, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return IINBit{}, err
	}
	return IINBit{Index: index, Value: b != 0}, nil
}

// EncodeIINBit writes one g80v1 bit value.
func EncodeIINBit(w *cursor.Writer, v IINBit) error {
	var b uint8
	if v.Value {
		b = 1
	}
	return w.WriteUint8(b)
}
