package link

// Function is the 4-bit link-layer function code carried in the low nibble
// of the control byte, combined with the PRM bit per spec.md §3.
type Function uint8

const (
	FuncPriResetLinkStates    Function = 0x40
	FuncPriTestLinkStates     Function = 0x42
	FuncPriConfirmedUserData  Function = 0x43
	FuncPriUnconfirmedUserData Function = 0x44
	FuncPriRequestLinkStatus  Function = 0x49

	FuncSecAck          Function = 0x00
	FuncSecNack         Function = 0x01
	FuncSecLinkStatus   Function = 0x0B
	FuncSecNotSupported Function = 0x0F
)

const (
	maskDIR     = 0x80
	maskPRM     = 0x40
	maskFCB     = 0x20
	maskFCV     = 0x10
	maskFuncOnly = 0x0F
)

// IsPrimary reports whether the function code represents a primary-station
// (master-initiated on a confirmed-data exchange) message.
func (f Function) IsPrimary() bool {
	return f&maskPRM != 0
}

func (f Function) String() string {
	switch f {
	case FuncPriResetLinkStates:
		return "RESET_LINK_STATES"
	case FuncPriTestLinkStates:
		return "TEST_LINK_STATES"
	case FuncPriConfirmedUserData:
		return "CONFIRMED_USER_DATA"
	case FuncPriUnconfirmedUserData:
		return "UNCONFIRMED_USER_DATA"
	case FuncPriRequestLinkStatus:
		return "REQUEST_LINK_STATUS"
	case FuncSecAck:
		return "ACK"
	case FuncSecNack:
		return "NACK"
	case FuncSecLinkStatus:
		return "LINK_STATUS"
	case FuncSecNotSupported:
		return "NOT_SUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// ControlField is the decoded form of the link control byte.
type ControlField struct {
	Func   Function
	Master bool // DIR bit: set when sent by the master
	FCB    bool
	FCV    bool
}

// NewControlField builds a control field for an outgoing frame sent by a
// station in the given role (master or outstation).
func NewControlField(master bool, fn Function) ControlField {
	return ControlField{Func: fn, Master: master}
}

// ParseControlField decodes a raw control byte.
func ParseControlField(b byte) ControlField {
	return ControlField{
		Func:   Function(b & (maskPRM | maskFuncOnly)),
		Master: b&maskDIR != 0,
		FCB:    b&maskFCB != 0,
		FCV:    b&maskFCV != 0,
	}
}

// ToByte encodes the control field back into its wire byte.
func (c ControlField) ToByte() byte {
	var b byte
	if c.Master {
		b |= maskDIR
	}
	if c.FCB {
		b |= maskFCB
	}
	if c.FCV {
		b |= maskFCV
	}
	b |= byte(c.Func)
	return b
}
