package objects

import "fmt"

// SizeKind classifies how an object's wire length is determined.
type SizeKind int

const (
	// SizeFixed objects are always FixedSize bytes long.
	SizeFixed SizeKind = iota
	// SizePacked1Bit objects (g1v1, g10v1) pack one bit per point across
	// the whole range; per-object size isn't meaningful.
	SizePacked1Bit
	// SizePacked2Bit objects (g3v1) pack two bits per point.
	SizePacked2Bit
	// SizeOctetString objects (g110/g111) are exactly Variation bytes
	// long — the variation number doubles as the length.
	SizeOctetString
	// SizeVariable objects (g70 file transfer, g0 device attributes) have
	// no fixed per-object size; pkg/app frames them with an explicit
	// free-format length prefix.
	SizeVariable
)

// Descriptor documents one group/variation's wire shape, used by pkg/app
// to validate object headers and size incoming payloads before handing
// them to the per-variation decoder.
type Descriptor struct {
	SizeKind  SizeKind
	FixedSize int // bytes, when SizeKind == SizeFixed
}

// ErrUnknownVariation is returned by Lookup for a (group, variation) this
// codec does not implement.
var ErrUnknownVariation = fmt.Errorf("objects: unknown group/variation")

// registry enumerates every (group, variation) this codec implements and
// its wire-size shape, per spec.md §4.3.
var registry = map[GroupVariation]Descriptor{
	BinaryInputPacked:      {SizeKind: SizePacked1Bit},
	BinaryInputFlags:       {SizeKind: SizeFixed, FixedSize: 1},
	BinaryInputEventNoTime: {SizeKind: SizeFixed, FixedSize: 1},
	BinaryInputEventTime:   {SizeKind: SizeFixed, FixedSize: 7},
	BinaryInputEventRelTime: {SizeKind: SizeFixed, FixedSize: 3},

	DoubleBitInputPacked:   {SizeKind: SizePacked2Bit},
	DoubleBitInputFlags:    {SizeKind: SizeFixed, FixedSize: 1},
	DoubleBitEventNoTime:   {SizeKind: SizeFixed, FixedSize: 1},
	DoubleBitEventTime:     {SizeKind: SizeFixed, FixedSize: 7},
	DoubleBitEventRelTime:  {SizeKind: SizeFixed, FixedSize: 3},

	BinaryOutputPacked:      {SizeKind: SizePacked1Bit},
	BinaryOutputFlags:       {SizeKind: SizeFixed, FixedSize: 1},
	BinaryOutputEventNoTime: {SizeKind: SizeFixed, FixedSize: 1},
	BinaryOutputEventTime:   {SizeKind: SizeFixed, FixedSize: 7},

	CROBGroupVariation: {SizeKind: SizeFixed, FixedSize: 11},

	Counter32Flags:         {SizeKind: SizeFixed, FixedSize: 5},
	Counter16Flags:         {SizeKind: SizeFixed, FixedSize: 3},
	Counter32NoFlags:       {SizeKind: SizeFixed, FixedSize: 4},
	Counter16NoFlags:       {SizeKind: SizeFixed, FixedSize: 2},
	FrozenCounter32Flags:   {SizeKind: SizeFixed, FixedSize: 5},
	FrozenCounter16Flags:   {SizeKind: SizeFixed, FixedSize: 3},
	FrozenCounter32NoFlags: {SizeKind: SizeFixed, FixedSize: 4},
	FrozenCounter16NoFlags: {SizeKind: SizeFixed, FixedSize: 2},
	CounterEvent32NoTime:   {SizeKind: SizeFixed, FixedSize: 5},
	CounterEvent16NoTime:   {SizeKind: SizeFixed, FixedSize: 3},
	CounterEvent32Time:     {SizeKind: SizeFixed, FixedSize: 11},
	CounterEvent16Time:     {SizeKind: SizeFixed, FixedSize: 9},
	FrozenCounterEvent32NoTime: {SizeKind: SizeFixed, FixedSize: 5},
	FrozenCounterEvent16NoTime: {SizeKind: SizeFixed, FixedSize: 3},
	FrozenCounterEvent32Time:   {SizeKind: SizeFixed, FixedSize: 11},
	FrozenCounterEvent16Time:   {SizeKind: SizeFixed, FixedSize: 9},

	AnalogInput32Flags:      {SizeKind: SizeFixed, FixedSize: 5},
	AnalogInput16Flags:      {SizeKind: SizeFixed, FixedSize: 3},
	AnalogInput32NoFlags:    {SizeKind: SizeFixed, FixedSize: 4},
	AnalogInput16NoFlags:    {SizeKind: SizeFixed, FixedSize: 2},
	AnalogInputFloat32Flags: {SizeKind: SizeFixed, FixedSize: 5},
	AnalogInputFloat64Flags: {SizeKind: SizeFixed, FixedSize: 9},

	AnalogInputEvent32NoTime:       {SizeKind: SizeFixed, FixedSize: 5},
	AnalogInputEvent16NoTime:       {SizeKind: SizeFixed, FixedSize: 3},
	AnalogInputEvent32Time:         {SizeKind: SizeFixed, FixedSize: 11},
	AnalogInputEvent16Time:         {SizeKind: SizeFixed, FixedSize: 9},
	AnalogInputEventFloat32NoTime:  {SizeKind: SizeFixed, FixedSize: 5},
	AnalogInputEventFloat64NoTime:  {SizeKind: SizeFixed, FixedSize: 9},
	AnalogInputEventFloat32Time:    {SizeKind: SizeFixed, FixedSize: 11},
	AnalogInputEventFloat64Time:    {SizeKind: SizeFixed, FixedSize: 15},

	AnalogInputDeadband16:      {SizeKind: SizeFixed, FixedSize: 2},
	AnalogInputDeadband32:      {SizeKind: SizeFixed, FixedSize: 4},
	AnalogInputDeadbandFloat32: {SizeKind: SizeFixed, FixedSize: 4},

	AnalogOutputStatus32:      {SizeKind: SizeFixed, FixedSize: 5},
	AnalogOutputStatus16:      {SizeKind: SizeFixed, FixedSize: 3},
	AnalogOutputStatusFloat32: {SizeKind: SizeFixed, FixedSize: 5},
	AnalogOutputStatusFloat64: {SizeKind: SizeFixed, FixedSize: 9},

	AnalogOutputCommand32:      {SizeKind: SizeFixed, FixedSize: 5},
	AnalogOutputCommand16:      {SizeKind: SizeFixed, FixedSize: 3},
	AnalogOutputCommandFloat32: {SizeKind: SizeFixed, FixedSize: 5},
	AnalogOutputCommandFloat64: {SizeKind: SizeFixed, FixedSize: 9},

	AnalogOutputEvent32NoTime:      {SizeKind: SizeFixed, FixedSize: 5},
	AnalogOutputEvent16NoTime:      {SizeKind: SizeFixed, FixedSize: 3},
	AnalogOutputEventFloat32NoTime: {SizeKind: SizeFixed, FixedSize: 5},
	AnalogOutputEventFloat64NoTime: {SizeKind: SizeFixed, FixedSize: 9},
	AnalogOutputEvent32Time:        {SizeKind: SizeFixed, FixedSize: 11},
	AnalogOutputEvent16Time:        {SizeKind: SizeFixed, FixedSize: 9},
	AnalogOutputEventFloat32Time:   {SizeKind: SizeFixed, FixedSize: 11},
	AnalogOutputEventFloat64Time:   {SizeKind: SizeFixed, FixedSize: 15},

	TimeAndDate:         {SizeKind: SizeFixed, FixedSize: 6},
	TimeAndDateRecorded: {SizeKind: SizeFixed, FixedSize: 6},
	TimeAndDateCTO:      {SizeKind: SizeFixed, FixedSize: 6},

	TimeDelayCoarse: {SizeKind: SizeFixed, FixedSize: 2},
	TimeDelayFine:   {SizeKind: SizeFixed, FixedSize: 2},

	FileStringInfo:      {SizeKind: SizeVariable},
	FileCommand:         {SizeKind: SizeVariable},
	FileCommandStatus:   {SizeKind: SizeVariable},
	FileTransportData:   {SizeKind: SizeVariable},
	FileTransportStatus: {SizeKind: SizeVariable},
	FileDescriptor:      {SizeKind: SizeVariable},
	FileSpecString:      {SizeKind: SizeVariable},

	InternalIndications: {SizeKind: SizeFixed, FixedSize: 1},
}

// Lookup returns the wire-shape descriptor for a (group, variation) pair.
// g0 (device attributes) and g110/g111 (octet strings) are not in the
// static table: their size depends on the variation number itself, so
// Lookup answers for them (and for g60, which carries no payload) before
// consulting the table.
func Lookup(gv GroupVariation) (Descriptor, error) {
	if gv.Group == 0 {
		return Descriptor{SizeKind: SizeVariable}, nil
	}
	if gv.Group == 110 || gv.Group == 111 {
		return Descriptor{SizeKind: SizeOctetString, FixedSize: int(gv.Variation)}, nil
	}
	if gv.Group == 60 {
		return Descriptor{SizeKind: SizeFixed, FixedSize: 0}, nil
	}
	d, ok := registry[gv]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownVariation, gv)
	}
	return d, nil
}
