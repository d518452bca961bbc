package link

// secondaryState tracks whether the secondary side of a confirmed-data
// exchange has been reset, and if so, the next expected FCB value.
// Grounded on the teacher's pkg/nmt.NMT.processCommand dispatch, which
// switches on a small command enum to drive a single mutable state field;
// here the "commands" are the primary-station link function codes.
type secondaryState struct {
	isReset      bool
	expectedFCB  bool
}

// Reply is a header-only frame the secondary side wants transmitted back
// to the primary, or nil if no reply is due.
type Reply struct {
	Control     ControlField
	Destination uint16
}

// Outcome is the result of feeding one received frame to the Secondary
// state machine.
type Outcome struct {
	// Deliver is non-nil when the frame's payload should be passed to the
	// transport layer.
	Deliver []byte
	// Reply is non-nil when a header-only frame must be sent back.
	Reply *Reply
}

// Secondary implements the per-peer confirmed-data state machine from
// spec.md §4.1.
type Secondary struct {
	localAddress uint16
	isMaster     bool
	state        secondaryState
}

// NewSecondary creates a Secondary state machine for a station at
// localAddress acting in the given role.
func NewSecondary(localAddress uint16, isMaster bool) *Secondary {
	return &Secondary{localAddress: localAddress, isMaster: isMaster}
}

// Reset returns the state machine to NotReset, e.g. after a framing error
// kills the session.
func (s *Secondary) Reset() {
	s.state = secondaryState{}
}

// Handle processes one received frame header+payload addressed to this
// station (address filtering is the caller's responsibility — see
// AcceptsDestination) and returns what the session should do next.
func (s *Secondary) Handle(header Header, payload []byte) Outcome {
	if header.Control.Master == s.isMaster {
		// a frame from a peer claiming the same role as us is never valid
		return Outcome{}
	}

	broadcast := IsBroadcast(header.Destination)

	switch header.Control.Func {
	case FuncPriResetLinkStates:
		s.state = secondaryState{isReset: true, expectedFCB: true}
		if broadcast {
			return Outcome{}
		}
		return Outcome{Reply: s.ack(header.Source)}

	case FuncPriConfirmedUserData:
		if !s.state.isReset {
			return Outcome{}
		}
		if header.Control.FCB != s.state.expectedFCB {
			// duplicate retransmission: drop silently, do not reply or
			// re-deliver
			return Outcome{}
		}
		s.state.expectedFCB = !s.state.expectedFCB
		out := Outcome{Deliver: payload}
		if !broadcast {
			out.Reply = s.ack(header.Source)
		}
		return out

	case FuncPriUnconfirmedUserData:
		return Outcome{Deliver: payload}

	case FuncPriRequestLinkStatus:
		if broadcast {
			return Outcome{}
		}
		return Outcome{Reply: &Reply{
			Control:     NewControlField(s.isMaster, FuncSecLinkStatus),
			Destination: header.Source,
		}}

	default:
		return Outcome{}
	}
}

func (s *Secondary) ack(destination uint16) *Reply {
	return &Reply{
		Control:     NewControlField(s.isMaster, FuncSecAck),
		Destination: destination,
	}
}

// AcceptsDestination reports whether a frame addressed to destination
// should be processed by a station at localAddress, honoring the self
// address and broadcast rules from spec.md §3. acceptSelfAddress mirrors
// the "respond to self-address" feature toggle from spec.md §4.4.
func AcceptsDestination(localAddress, destination uint16, acceptSelfAddress bool) bool {
	if destination == localAddress {
		return true
	}
	if IsBroadcast(destination) {
		return true
	}
	if acceptSelfAddress && destination == AddressSelf {
		return true
	}
	return false
}
