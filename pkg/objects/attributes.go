package objects

import (
	"fmt"

	"github.com/open-dnp3/godnp3/pkg/cursor"
)

// Well-known g0 device attribute variation numbers (IEEE 1815 Annex
// Table 11-1, the subset this engine exposes).
const (
	AttrConfigID          uint8 = 196
	AttrConfigVersion     uint8 = 197
	AttrDeviceManufacturerName uint8 = 252
	AttrDeviceManufacturerSoftwareVersion uint8 = 249
	AttrDeviceManufacturerHardwareVersion uint8 = 250
	AttrUserAssignedSecondaryOperatorName uint8 = 244
	AttrDeviceSerialNumber uint8 = 246
	AttrListOfAttributeVariations uint8 = 255
)

// DecodeDeviceAttribute reads one g0 attribute: a one-byte data-type tag,
// a one-byte length, then that many bytes of payload.
func DecodeDeviceAttribute(r *cursor.Reader, variation uint8) (DeviceAttribute, error) {
	dt, err := r.ReadUint8()
	if err != nil {
		return DeviceAttribute{}, err
	}
	length, err := r.ReadUint8()
	if err != nil {
		return DeviceAttribute{}, err
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return DeviceAttribute{}, err
	}
	out := make([]byte, length)
	copy(out, data)
	return DeviceAttribute{Variation: variation, DataType: AttributeDataType(dt), Data: out}, nil
}

// EncodeDeviceAttribute writes one g0 attribute.
func EncodeDeviceAttribute(w *cursor.Writer, a DeviceAttribute) error {
	if len(a.Data) > 0xFF {
		return fmt.Errorf("objects: device attribute g0v%d too long: %d bytes", a.Variation, len(a.Data))
	}
	if err := w.WriteUint8(uint8(a.DataType)); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(len(a.Data))); err != nil {
		return err
	}
	return w.WriteBytes(a.Data)
}

// VisibleStringAttribute builds a DeviceAttribute carrying a VisibleString
// payload, the common case for manufacturer/model/serial attributes.
func VisibleStringAttribute(variation uint8, s string) DeviceAttribute {
	return DeviceAttribute{Variation: variation, DataType: AttrTypeVisibleString, Data: []byte(s)}
}
