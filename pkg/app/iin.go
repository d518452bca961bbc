package app

import "github.com/open-dnp3/godnp3/pkg/cursor"

// IIN1 bits (first IIN byte).
const (
	IIN1BroadcastReceived uint16 = 1 << 0
	IIN1Class1Events      uint16 = 1 << 1
	IIN1Class2Events      uint16 = 1 << 2
	IIN1Class3Events      uint16 = 1 << 3
	IIN1NeedTime          uint16 = 1 << 4
	IIN1LocalControl      uint16 = 1 << 5
	IIN1DeviceTrouble     uint16 = 1 << 6
	IIN1DeviceRestart     uint16 = 1 << 7
)

// IIN2 bits (second IIN byte, shifted into the upper half of the combined
// 16-bit field).
const (
	IIN2NoFuncCodeSupport  uint16 = 1 << 8
	IIN2ObjectUnknown      uint16 = 1 << 9
	IIN2ParameterError     uint16 = 1 << 10
	IIN2EventBufferOverflow uint16 = 1 << 11
	IIN2AlreadyExecuting   uint16 = 1 << 12
	IIN2ConfigCorrupt      uint16 = 1 << 13
)

// IIN is the 16-bit Internal Indications field carried by every response.
type IIN uint16

func (i *IIN) Set(bit uint16)     { *i |= IIN(bit) }
func (i *IIN) Clear(bit uint16)   { *i &^= IIN(bit) }
func (i IIN) Has(bit uint16) bool { return uint16(i)&bit != 0 }

// ParseIIN reads the two-byte IIN field (IIN1 then IIN2 on the wire).
func ParseIIN(r *cursor.Reader) (IIN, error) {
	iin1, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}
	iin2, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}
	return IIN(iin1) | IIN(iin2)<<8, nil
}

// WriteIIN writes the two-byte IIN field.
func WriteIIN(w *cursor.Writer, iin IIN) error {
	if err := w.WriteUint8(uint8(iin)); err != nil {
		return err
	}
	return w.WriteUint8(uint8(iin >> 8))
}
