package objects

import "fmt"

// GroupVariation identifies a DNP3 object type by its group and variation
// numbers, e.g. {1, 2} is "Binary Input with Flags".
type GroupVariation struct {
	Group     uint8
	Variation uint8
}

func (gv GroupVariation) String() string {
	return fmt.Sprintf("g%dv%d", gv.Group, gv.Variation)
}

// Named group/variation constants for every type this package codes,
// per spec.md §4.3.
var (
	BinaryInputPacked     = GroupVariation{1, 1}
	BinaryInputFlags      = GroupVariation{1, 2}
	BinaryInputEventNoTime = GroupVariation{2, 1}
	BinaryInputEventTime   = GroupVariation{2, 2}
	BinaryInputEventRelTime = GroupVariation{2, 3}

	DoubleBitInputPacked = GroupVariation{3, 1}
	DoubleBitInputFlags  = GroupVariation{3, 2}
	DoubleBitEventNoTime = GroupVariation{4, 1}
	DoubleBitEventTime   = GroupVariation{4, 2}
	DoubleBitEventRelTime = GroupVariation{4, 3}

	BinaryOutputPacked = GroupVariation{10, 1}
	BinaryOutputFlags  = GroupVariation{10, 2}
	BinaryOutputEventNoTime = GroupVariation{11, 1}
	BinaryOutputEventTime   = GroupVariation{11, 2}

	// CROBGroupVariation is g12v1's header identity; the value type
	// itself is CROB (see values.go), named without a variation suffix
	// since g12 has only one variation.
	CROBGroupVariation = GroupVariation{12, 1}

	Counter32Flags       = GroupVariation{20, 1}
	Counter16Flags       = GroupVariation{20, 2}
	Counter32NoFlags     = GroupVariation{20, 5}
	Counter16NoFlags     = GroupVariation{20, 6}
	FrozenCounter32Flags = GroupVariation{21, 1}
	FrozenCounter16Flags = GroupVariation{21, 2}
	FrozenCounter32NoFlags = GroupVariation{21, 9}
	FrozenCounter16NoFlags = GroupVariation{21, 10}
	CounterEvent32NoTime = GroupVariation{22, 1}
	CounterEvent16NoTime = GroupVariation{22, 2}
	CounterEvent32Time   = GroupVariation{22, 5}
	CounterEvent16Time   = GroupVariation{22, 6}
	FrozenCounterEvent32NoTime = GroupVariation{23, 1}
	FrozenCounterEvent16NoTime = GroupVariation{23, 2}
	FrozenCounterEvent32Time   = GroupVariation{23, 5}
	FrozenCounterEvent16Time   = GroupVariation{23, 6}

	AnalogInput32Flags   = GroupVariation{30, 1}
	AnalogInput16Flags   = GroupVariation{30, 2}
	AnalogInput32NoFlags = GroupVariation{30, 3}
	AnalogInput16NoFlags = GroupVariation{30, 4}
	AnalogInputFloat32Flags = GroupVariation{30, 5}
	AnalogInputFloat64Flags = GroupVariation{30, 6}

	AnalogInputEvent32NoTime  = GroupVariation{32, 1}
	AnalogInputEvent16NoTime  = GroupVariation{32, 2}
	AnalogInputEvent32Time    = GroupVariation{32, 3}
	AnalogInputEvent16Time    = GroupVariation{32, 4}
	AnalogInputEventFloat32NoTime = GroupVariation{32, 5}
	AnalogInputEventFloat64NoTime = GroupVariation{32, 6}
	AnalogInputEventFloat32Time   = GroupVariation{32, 7}
	AnalogInputEventFloat64Time   = GroupVariation{32, 8}

	AnalogInputDeadband16 = GroupVariation{34, 1}
	AnalogInputDeadband32 = GroupVariation{34, 2}
	AnalogInputDeadbandFloat32 = GroupVariation{34, 3}

	AnalogOutputStatus32 = GroupVariation{40, 1}
	AnalogOutputStatus16 = GroupVariation{40, 2}
	AnalogOutputStatusFloat32 = GroupVariation{40, 3}
	AnalogOutputStatusFloat64 = GroupVariation{40, 4}

	AnalogOutputCommand32 = GroupVariation{41, 1}
	AnalogOutputCommand16 = GroupVariation{41, 2}
	AnalogOutputCommandFloat32 = GroupVariation{41, 3}
	AnalogOutputCommandFloat64 = GroupVariation{41, 4}

	AnalogOutputEvent32NoTime = GroupVariation{42, 1}
	AnalogOutputEvent16NoTime = GroupVariation{42, 2}
	AnalogOutputEventFloat32NoTime = GroupVariation{42, 5}
	AnalogOutputEventFloat64NoTime = GroupVariation{42, 6}
	AnalogOutputEvent32Time   = GroupVariation{42, 3}
	AnalogOutputEvent16Time   = GroupVariation{42, 4}
	AnalogOutputEventFloat32Time = GroupVariation{42, 7}
	AnalogOutputEventFloat64Time = GroupVariation{42, 8}

	TimeAndDate        = GroupVariation{50, 1}
	TimeAndDateRecorded = GroupVariation{50, 3}
	TimeAndDateCTO      = GroupVariation{50, 4}

	TimeDelayCoarse = GroupVariation{52, 1}
	TimeDelayFine   = GroupVariation{52, 2}

	ClassData0 = GroupVariation{60, 1}
	ClassData1 = GroupVariation{60, 2}
	ClassData2 = GroupVariation{60, 3}
	ClassData3 = GroupVariation{60, 4}

	FileStringInfo     = GroupVariation{70, 2}
	FileCommand        = GroupVariation{70, 3}
	FileCommandStatus  = GroupVariation{70, 4}
	FileTransportData  = GroupVariation{70, 5}
	FileTransportStatus = GroupVariation{70, 6}
	FileDescriptor     = GroupVariation{70, 7}
	FileSpecString     = GroupVariation{70, 8}

	DeviceAttribute = GroupVariation{0, 0} // variation carries the attribute variation number directly

	OctetString      = GroupVariation{110, 0} // variation carries the string length
	OctetStringEvent = GroupVariation{111, 0}

	InternalIndications = GroupVariation{80, 1}
)
