// Package objects implements the DNP3 group/variation object model: the
// measurement and command point types named in spec.md §4.3, and the
// encode/decode routines that turn them into and out of wire bytes. It does
// not know about object headers or qualifiers (see pkg/app) — it only knows
// how to read and write one point's worth of payload at a time.
package objects

// Flags is the one-byte quality/state field carried by most non-static-v1
// variations. Bit meanings differ by point family; the named accessors
// below document which bits each family actually uses.
type Flags uint8

const (
	FlagOnline        Flags = 1 << 0
	FlagRestart       Flags = 1 << 1
	FlagCommLost      Flags = 1 << 2
	FlagRemoteForced  Flags = 1 << 3
	FlagLocalForced   Flags = 1 << 4
	FlagChatterFilter Flags = 1 << 5 // binary/double-bit inputs
	FlagRollover      Flags = 1 << 5 // counters
	FlagOverRange     Flags = 1 << 5 // analog inputs
	FlagDiscontinuity Flags = 1 << 6 // counters
	FlagReferenceErr  Flags = 1 << 6 // analog inputs
	FlagBinaryState   Flags = 1 << 7 // binary input/output status value
)

// GoodOnlineFlags is the conventional default quality for a point with no
// abnormal condition: online, nothing else set.
const GoodOnlineFlags Flags = FlagOnline

func (f Flags) Online() bool       { return f&FlagOnline != 0 }
func (f Flags) Restart() bool      { return f&FlagRestart != 0 }
func (f Flags) CommLost() bool     { return f&FlagCommLost != 0 }
func (f Flags) RemoteForced() bool { return f&FlagRemoteForced != 0 }
func (f Flags) LocalForced() bool  { return f&FlagLocalForced != 0 }

// ChatterFilter reports the binary/double-bit-input chatter filter bit.
func (f Flags) ChatterFilter() bool { return f&FlagChatterFilter != 0 }

// Rollover reports the counter-rollover bit.
func (f Flags) Rollover() bool { return f&FlagRollover != 0 }

// OverRange reports the analog-input over-range bit.
func (f Flags) OverRange() bool { return f&FlagOverRange != 0 }

// Discontinuity reports the counter-discontinuity bit.
func (f Flags) Discontinuity() bool { return f&FlagDiscontinuity != 0 }

// ReferenceErr reports the analog-input reference-check-failed bit.
func (f Flags) ReferenceErr() bool { return f&FlagReferenceErr != 0 }

// BinaryState reports the carried boolean value of a binary input/output
// status point (bit 7).
func (f Flags) BinaryState() bool { return f&FlagBinaryState != 0 }

func (f Flags) withBinaryState(v bool) Flags {
	if v {
		return f | FlagBinaryState
	}
	return f &^ FlagBinaryState
}

// DoubleBitState is the two-bit state carried in bits 6-7 of a double-bit
// binary input's flags byte.
type DoubleBitState uint8

const (
	DoubleBitIntermediate DoubleBitState = 0
	DoubleBitOff          DoubleBitState = 1
	DoubleBitOn           DoubleBitState = 2
	DoubleBitIndeterminate DoubleBitState = 3
)

func (s DoubleBitState) String() string {
	switch s {
	case DoubleBitIntermediate:
		return "IntermediateState"
	case DoubleBitOff:
		return "DeterminedOff"
	case DoubleBitOn:
		return "DeterminedOn"
	default:
		return "Indeterminate"
	}
}

const doubleBitStateShift = 6
const doubleBitStateMask Flags = 0x03 << doubleBitStateShift

// DoubleBitState extracts the two-bit state from a double-bit input's flags.
func (f Flags) DoubleBitState() DoubleBitState {
	return DoubleBitState((f & doubleBitStateMask) >> doubleBitStateShift)
}

func (f Flags) withDoubleBitState(s DoubleBitState) Flags {
	return (f &^ doubleBitStateMask) | (Flags(s)<<doubleBitStateShift)&doubleBitStateMask
}
