package outstation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/link"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// FreezeAction distinguishes a plain freeze (snapshot into the frozen
// counter) from freeze-and-clear (snapshot then reset the running value).
type FreezeAction int

const (
	FreezeSnapshot FreezeAction = iota
	FreezeSnapshotAndClear
)

// Handler is the outstation's user-facing callback surface: the
// trait-object-style interface spec.md §9 describes, implemented by
// whatever owns the physical process behind this outstation. Every
// method is called with the session's database lock already released,
// so implementations may themselves call Database.Transaction.
type Handler interface {
	SelectCROB(index uint32, c objects.CROB) objects.CommandStatus
	OperateCROB(index uint32, c objects.CROB) objects.CommandStatus
	SelectAnalogOutput(index uint32, c objects.AnalogOutputCommand) objects.CommandStatus
	OperateAnalogOutput(index uint32, c objects.AnalogOutputCommand) objects.CommandStatus
	Freeze(action FreezeAction)
	ColdRestart() (delayMillis uint16, supported bool)
	WarmRestart() (delayMillis uint16, supported bool)
	ProcessingDelay() uint16
}

// UnsolicitedState is the outstation's unsolicited-response state
// machine, per spec.md §4.4.
type UnsolicitedState int

const (
	UnsolicitedIdle UnsolicitedState = iota
	UnsolicitedNull
	UnsolicitedConfirmWait
)

type selectEntry struct {
	master   uint16
	seq      uint8
	deadline time.Time
	crobs    map[uint32]objects.CROB
	aocs     map[uint32]objects.AnalogOutputCommand
}

// Session is the outstation's request-dispatching state machine:
// request parsing, response construction, IIN management, and
// select-before-operate, generalized from the teacher's
// pkg/sdo.SDOServer internalState switch and pkg/nmt.NMT.processCommand
// command dispatch — both there drive one state machine off an incoming
// frame's leading opcode byte, exactly as FuncXxx drives this one.
type Session struct {
	mu     sync.Mutex
	logger *slog.Logger

	cfg     config.OutstationConfig
	db      *Database
	events  *EventBuffer
	handler Handler

	deviceRestart bool
	needTime      bool
	localControl  bool

	enabledClasses ClassMask
	pendingSelect  *selectEntry

	unsolState          UnsolicitedState
	unsolicitedSeq      uint8
	unsolRetries        int
	lastUnsolited       []byte
	lastUnsolitedTail   uint64

	recordedTime time.Time
}

// NewSession builds a Session with DEVICE_RESTART set, as every
// outstation starts per spec.md §8 scenario 1.
func NewSession(cfg config.OutstationConfig, db *Database, events *EventBuffer, handler Handler, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger:        logger,
		cfg:           cfg,
		db:            db,
		events:        events,
		handler:       handler,
		deviceRestart: true,
	}
}

// AcceptsSource reports whether a request from source, addressed to
// dest, should be processed, per spec.md §4.4 "Address filtering".
func (s *Session) AcceptsSource(source, dest uint16) bool {
	if s.cfg.Features.RespondToAnyMaster {
		return true
	}
	if source != s.cfg.Link.RemoteAddress.Value() {
		return false
	}
	if dest == s.cfg.Link.LocalAddress.Value() {
		return true
	}
	if dest == link.AddressSelf && s.cfg.Features.SelfAddress {
		return true
	}
	if link.IsBroadcast(dest) && s.cfg.Features.Broadcast {
		return true
	}
	return false
}

func (s *Session) currentIIN() app.IIN {
	var iin app.IIN
	if s.deviceRestart {
		iin.Set(app.IIN1DeviceRestart)
	}
	if s.needTime {
		iin.Set(app.IIN1NeedTime)
	}
	if s.localControl {
		iin.Set(app.IIN1LocalControl)
	}
	if s.events.HasEvents(ClassMask1) {
		iin.Set(app.IIN1Class1Events)
	}
	if s.events.HasEvents(ClassMask2) {
		iin.Set(app.IIN1Class2Events)
	}
	if s.events.HasEvents(ClassMask3) {
		iin.Set(app.IIN1Class3Events)
	}
	if s.events.Overflows() > 0 {
		iin.Set(app.IIN2EventBufferOverflow)
	}
	return iin
}

// HandleRequest dispatches one parsed request fragment from source,
// returning the response bytes to transmit (nil if the function code
// requires no reply, e.g. a NO_ACK variant).
func (s *Session) HandleRequest(req *app.Fragment, source uint16, buf []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iin := s.currentIIN()

	switch req.Function {
	case app.FuncRead:
		return s.handleRead(req, buf, iin)
	case app.FuncWrite:
		return s.handleWrite(req, buf, iin)
	case app.FuncSelect:
		return s.handleSelect(req, source, buf, iin)
	case app.FuncOperate:
		return s.handleOperate(req, source, buf, iin)
	case app.FuncDirectOperate:
		return s.handleDirectOperate(req, buf, iin, true)
	case app.FuncDirectOperateNoAck:
		return s.handleDirectOperate(req, buf, iin, false)
	case app.FuncImmedFreeze:
		return s.handleFreeze(req, buf, iin, FreezeSnapshot, true)
	case app.FuncImmedFreezeNoAck:
		return s.handleFreeze(req, buf, iin, FreezeSnapshot, false)
	case app.FuncFreezeClear:
		return s.handleFreeze(req, buf, iin, FreezeSnapshotAndClear, true)
	case app.FuncFreezeClearNoAck:
		return s.handleFreeze(req, buf, iin, FreezeSnapshotAndClear, false)
	case app.FuncColdRestart:
		return s.handleRestart(req, buf, iin, s.handler.ColdRestart)
	case app.FuncWarmRestart:
		return s.handleRestart(req, buf, iin, s.handler.WarmRestart)
	case app.FuncDelayMeasure:
		return s.handleDelayMeasure(req, buf, iin)
	case app.FuncRecordCurrentTime:
		s.recordedTime = time.Now()
		s.needTime = false
		return s.emptyResponse(req, buf, s.currentIIN())
	case app.FuncEnableUnsolicited:
		return s.handleEnableDisableUnsolicited(req, buf, iin, true)
	case app.FuncDisableUnsolicited:
		return s.handleEnableDisableUnsolicited(req, buf, iin, false)
	case app.FuncAssignClass:
		return s.handleAssignClass(req, buf, iin)
	case app.FuncConfirm:
		s.handleConfirm(req.Control)
		return nil, nil
	default:
		iin.Set(app.IIN2NoFuncCodeSupport)
		return s.emptyResponse(req, buf, iin)
	}
}

func (s *Session) emptyResponse(req *app.Fragment, buf []byte, iin app.IIN) ([]byte, error) {
	rw, err := app.NewResponseWriter(buf, req.Control.SEQ, false, iin)
	if err != nil {
		return nil, err
	}
	return rw.Bytes(), nil
}

// handleRead builds a class-0/1/2/3 response. An empty object list is
// treated as a shorthand full static (class 0) read, the minimal
// integrity-poll convention used when a master's very first request
// names no explicit headers.
func (s *Session) handleRead(req *app.Fragment, buf []byte, iin app.IIN) ([]byte, error) {
	rw, err := app.NewResponseWriter(buf, req.Control.SEQ, false, iin)
	if err != nil {
		return nil, err
	}

	if len(req.Objects) == 0 {
		if err := s.db.EncodeClassZero(rw); err != nil {
			return nil, err
		}
		rw.MarkFinal(false)
		return rw.Bytes(), nil
	}

	for _, obj := range req.Objects {
		gv := obj.Header.GroupVariation()
		switch {
		case gv == objects.ClassData0:
			if err := s.db.EncodeClassZero(rw); err != nil {
				return nil, err
			}
		case gv == objects.ClassData1 || gv == objects.ClassData2 || gv == objects.ClassData3:
			class := objects.Class(gv.Variation - 1)
			if err := s.writeEvents(rw, s.events.Select(classMaskFor(class))); err != nil {
				return nil, err
			}
		default:
			iin.Set(app.IIN2ObjectUnknown)
		}
	}
	rw.MarkFinal(false)
	return rw.Bytes(), nil
}

func classMaskFor(c objects.Class) ClassMask {
	switch c {
	case objects.Class1:
		return ClassMask1
	case objects.Class2:
		return ClassMask2
	case objects.Class3:
		return ClassMask3
	default:
		return 0
	}
}

// writeEvents appends one object header per event (count-1/2-byte
// qualifier, single instance), since buffered events generally do not
// share contiguous indices the way static points do.
func (s *Session) writeEvents(rw *app.ResponseWriter, events []Event) error {
	for _, ev := range events {
		rng := objects.RangeForCount(1)
		if err := rw.WriteHeader(ev.GroupVariation.Group, ev.GroupVariation.Variation, rng); err != nil {
			return err
		}
		if err := rw.Cursor().WriteBytes(ev.Payload); err != nil {
			return err
		}
	}
	return nil
}

// handleWrite applies supported targets: g80v1 IIN bits and g34
// dead-bands. Any other target sets PARAMETER_ERROR.
func (s *Session) handleWrite(req *app.Fragment, buf []byte, iin app.IIN) ([]byte, error) {
	var errBits app.IIN
	for _, obj := range req.Objects {
		gv := obj.Header.GroupVariation()
		switch {
		case gv == objects.InternalIndications:
			s.applyIINWrite(obj)
		case gv == objects.AnalogInputDeadband16 || gv == objects.AnalogInputDeadband32 || gv == objects.AnalogInputDeadbandFloat32:
			s.applyDeadbandWrite(obj, gv)
		default:
			errBits.Set(app.IIN2ParameterError)
		}
	}
	// A WRITE can itself change the state currentIIN() reports (e.g.
	// clearing DEVICE_RESTART), so the response recomputes it fresh
	// rather than reusing the snapshot taken before this request was
	// dispatched.
	return s.emptyResponse(req, buf, s.currentIIN()|errBits)
}

func (s *Session) applyIINWrite(obj app.RawObject) {
	r := cursor.NewReader(obj.Payload)
	start := obj.Header.Range.Start
	stop := obj.Header.Range.Stop
	for idx := start; idx <= stop; idx++ {
		bit, err := objects.DecodeIINBit(r, uint8(idx))
		if err != nil {
			return
		}
		if bit.Index == objects.IIN1DeviceRestart && !bit.Value {
			s.deviceRestart = false
		}
	}
}

func (s *Session) applyDeadbandWrite(obj app.RawObject, gv objects.GroupVariation) {
	r := cursor.NewReader(obj.Payload)
	start := obj.Header.Range.Start
	stop := obj.Header.Range.Stop
	for idx := start; idx <= stop; idx++ {
		var value float64
		switch gv {
		case objects.AnalogInputDeadband16:
			d, err := objects.DecodeDeadband16(r)
			if err != nil {
				return
			}
			value = d.Value
		case objects.AnalogInputDeadband32:
			d, err := objects.DecodeDeadband32(r)
			if err != nil {
				return
			}
			value = d.Value
		case objects.AnalogInputDeadbandFloat32:
			d, err := objects.DecodeDeadbandFloat32(r)
			if err != nil {
				return
			}
			value = d.Value
		}
		s.db.SetDeadband(idx, value)
	}
}

// handleSelect validates every control object against the handler and,
// if every one succeeds, records a select-snapshot keyed by master
// address, SEQ, and the decoded object values.
func (s *Session) handleSelect(req *app.Fragment, source uint16, buf []byte, iin app.IIN) ([]byte, error) {
	rw, err := app.NewResponseWriter(buf, req.Control.SEQ, false, iin)
	if err != nil {
		return nil, err
	}

	entry := &selectEntry{
		master:   source,
		seq:      req.Control.SEQ,
		deadline: time.Now().Add(s.cfg.SelectTimeout.Duration()),
		crobs:    make(map[uint32]objects.CROB),
		aocs:     make(map[uint32]objects.AnalogOutputCommand),
	}
	allSucceeded := true

	for _, obj := range req.Objects {
		gv := obj.Header.GroupVariation()
		r := cursor.NewReader(obj.Payload)
		switch gv {
		case objects.CROBGroupVariation:
			allSucceeded = allSucceeded && s.selectCROBs(rw, r, obj, entry)
		case objects.AnalogOutputCommand16, objects.AnalogOutputCommand32, objects.AnalogOutputCommandFloat32, objects.AnalogOutputCommandFloat64:
			allSucceeded = allSucceeded && s.selectAOCs(rw, r, obj, gv, entry)
		default:
			iin.Set(app.IIN2ObjectUnknown)
			allSucceeded = false
		}
	}

	if allSucceeded && (len(entry.crobs) > 0 || len(entry.aocs) > 0) {
		s.pendingSelect = entry
	}
	rw.MarkFinal(false)
	return rw.Bytes(), nil
}

func (s *Session) selectCROBs(rw *app.ResponseWriter, r *cursor.Reader, obj app.RawObject, entry *selectEntry) bool {
	ok := true
	idx := obj.Header.Range.Start
	for {
		c, err := objects.DecodeCROB(r)
		if err != nil {
			break
		}
		status := s.handler.SelectCROB(idx, c)
		if status != objects.StatusSuccess {
			ok = false
		} else {
			entry.crobs[idx] = c
		}
		c.Status = status
		rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(idx, idx))
		objects.EncodeCROB(rw.Cursor(), c)
		idx++
	}
	return ok
}

func (s *Session) selectAOCs(rw *app.ResponseWriter, r *cursor.Reader, obj app.RawObject, gv objects.GroupVariation, entry *selectEntry) bool {
	ok := true
	idx := obj.Header.Range.Start
	for {
		c, err := decodeAOC(r, gv)
		if err != nil {
			break
		}
		status := s.handler.SelectAnalogOutput(idx, c)
		if status != objects.StatusSuccess {
			ok = false
		} else {
			entry.aocs[idx] = c
		}
		c.Status = status
		rw.WriteHeader(gv.Group, gv.Variation, objects.RangeForIndices(idx, idx))
		encodeAOC(rw.Cursor(), gv, c)
		idx++
	}
	return ok
}

func decodeAOC(r *cursor.Reader, gv objects.GroupVariation) (objects.AnalogOutputCommand, error) {
	switch gv {
	case objects.AnalogOutputCommand16:
		return objects.DecodeAnalogOutputCommandInt16(r)
	case objects.AnalogOutputCommand32:
		return objects.DecodeAnalogOutputCommandInt32(r)
	case objects.AnalogOutputCommandFloat32:
		return objects.DecodeAnalogOutputCommandFloat32(r)
	default:
		return objects.DecodeAnalogOutputCommandFloat64(r)
	}
}

func encodeAOC(w *cursor.Writer, gv objects.GroupVariation, c objects.AnalogOutputCommand) error {
	switch gv {
	case objects.AnalogOutputCommand16:
		return objects.EncodeAnalogOutputCommandInt16(w, c)
	case objects.AnalogOutputCommand32:
		return objects.EncodeAnalogOutputCommandInt32(w, c)
	case objects.AnalogOutputCommandFloat32:
		return objects.EncodeAnalogOutputCommandFloat32(w, c)
	default:
		return objects.EncodeAnalogOutputCommandFloat64(w, c)
	}
}

// handleOperate requires a matching outstanding SELECT from the same
// master whose SEQ is exactly one less than this request's, within the
// select-timeout deadline, and whose decoded objects compare equal to
// the ones selected. A missing select, or one from another master, with
// the wrong SEQ or past its deadline, yields NO_SELECT on every control in
// the request; a control that was not selected at its index, or differs
// from the selected one, yields NO_SELECT for that control.
func (s *Session) handleOperate(req *app.Fragment, source uint16, buf []byte, iin app.IIN) ([]byte, error) {
	entry := s.takeMatchingSelect(source, req.Control.SEQ)

	rw, err := app.NewResponseWriter(buf, req.Control.SEQ, false, iin)
	if err != nil {
		return nil, err
	}

	for _, obj := range req.Objects {
		gv := obj.Header.GroupVariation()
		r := cursor.NewReader(obj.Payload)
		idx := obj.Header.Range.Start
		switch gv {
		case objects.CROBGroupVariation:
			for {
				c, err := objects.DecodeCROB(r)
				if err != nil {
					break
				}
				status := s.operateCROB(entry, idx, c)
				c.Status = status
				rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(idx, idx))
				objects.EncodeCROB(rw.Cursor(), c)
				idx++
			}
		case objects.AnalogOutputCommand16, objects.AnalogOutputCommand32, objects.AnalogOutputCommandFloat32, objects.AnalogOutputCommandFloat64:
			for {
				c, err := decodeAOC(r, gv)
				if err != nil {
					break
				}
				status := s.operateAOC(entry, idx, c)
				c.Status = status
				rw.WriteHeader(gv.Group, gv.Variation, objects.RangeForIndices(idx, idx))
				encodeAOC(rw.Cursor(), gv, c)
				idx++
			}
		default:
			iin.Set(app.IIN2ObjectUnknown)
		}
	}
	rw.MarkFinal(false)
	return rw.Bytes(), nil
}

func (s *Session) takeMatchingSelect(source uint16, seq uint8) *selectEntry {
	entry := s.pendingSelect
	s.pendingSelect = nil
	if entry == nil {
		return nil
	}
	if entry.master != source {
		return nil
	}
	if app.NextSequence(entry.seq) != seq {
		return nil
	}
	if time.Now().After(entry.deadline) {
		return nil
	}
	return entry
}

func (s *Session) operateCROB(entry *selectEntry, idx uint32, c objects.CROB) objects.CommandStatus {
	if entry == nil {
		return objects.StatusNoSelect
	}
	selected, ok := entry.crobs[idx]
	if !ok || !selected.Equal(c) {
		return objects.StatusNoSelect
	}
	return s.handler.OperateCROB(idx, c)
}

func (s *Session) operateAOC(entry *selectEntry, idx uint32, c objects.AnalogOutputCommand) objects.CommandStatus {
	if entry == nil {
		return objects.StatusNoSelect
	}
	selected, ok := entry.aocs[idx]
	if !ok || !selected.Equal(c) {
		return objects.StatusNoSelect
	}
	return s.handler.OperateAnalogOutput(idx, c)
}

// handleDirectOperate executes controls immediately with no select
// requirement; withResponse is false for the _NO_ACK variant.
func (s *Session) handleDirectOperate(req *app.Fragment, buf []byte, iin app.IIN, withResponse bool) ([]byte, error) {
	rw, err := app.NewResponseWriter(buf, req.Control.SEQ, false, iin)
	if err != nil {
		return nil, err
	}

	for _, obj := range req.Objects {
		gv := obj.Header.GroupVariation()
		r := cursor.NewReader(obj.Payload)
		idx := obj.Header.Range.Start
		switch gv {
		case objects.CROBGroupVariation:
			for {
				c, err := objects.DecodeCROB(r)
				if err != nil {
					break
				}
				c.Status = s.handler.OperateCROB(idx, c)
				if withResponse {
					rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(idx, idx))
					objects.EncodeCROB(rw.Cursor(), c)
				}
				idx++
			}
		case objects.AnalogOutputCommand16, objects.AnalogOutputCommand32, objects.AnalogOutputCommandFloat32, objects.AnalogOutputCommandFloat64:
			for {
				c, err := decodeAOC(r, gv)
				if err != nil {
					break
				}
				c.Status = s.handler.OperateAnalogOutput(idx, c)
				if withResponse {
					rw.WriteHeader(gv.Group, gv.Variation, objects.RangeForIndices(idx, idx))
					encodeAOC(rw.Cursor(), gv, c)
				}
				idx++
			}
		default:
			iin.Set(app.IIN2ObjectUnknown)
		}
	}
	if !withResponse {
		return nil, nil
	}
	rw.MarkFinal(false)
	return rw.Bytes(), nil
}

func (s *Session) handleFreeze(req *app.Fragment, buf []byte, iin app.IIN, action FreezeAction, withResponse bool) ([]byte, error) {
	s.handler.Freeze(action)
	if !withResponse {
		return nil, nil
	}
	return s.emptyResponse(req, buf, iin)
}

func (s *Session) handleRestart(req *app.Fragment, buf []byte, iin app.IIN, restart func() (uint16, bool)) ([]byte, error) {
	delayMillis, supported := restart()
	if !supported {
		iin.Set(app.IIN2NoFuncCodeSupport)
		return s.emptyResponse(req, buf, iin)
	}
	rw, err := app.NewResponseWriter(buf, req.Control.SEQ, false, iin)
	if err != nil {
		return nil, err
	}
	if err := rw.WriteHeader(objects.TimeDelayFine.Group, objects.TimeDelayFine.Variation, objects.RangeForCount(1)); err != nil {
		return nil, err
	}
	if err := objects.EncodeTimeDelay(rw.Cursor(), delayMillis); err != nil {
		return nil, err
	}
	rw.MarkFinal(false)
	return rw.Bytes(), nil
}

func (s *Session) handleDelayMeasure(req *app.Fragment, buf []byte, iin app.IIN) ([]byte, error) {
	rw, err := app.NewResponseWriter(buf, req.Control.SEQ, false, iin)
	if err != nil {
		return nil, err
	}
	if err := rw.WriteHeader(objects.TimeDelayFine.Group, objects.TimeDelayFine.Variation, objects.RangeForCount(1)); err != nil {
		return nil, err
	}
	if err := objects.EncodeTimeDelay(rw.Cursor(), s.handler.ProcessingDelay()); err != nil {
		return nil, err
	}
	rw.MarkFinal(false)
	return rw.Bytes(), nil
}

func (s *Session) handleEnableDisableUnsolicited(req *app.Fragment, buf []byte, iin app.IIN, enable bool) ([]byte, error) {
	for _, obj := range req.Objects {
		gv := obj.Header.GroupVariation()
		var mask ClassMask
		switch gv {
		case objects.ClassData1:
			mask = ClassMask1
		case objects.ClassData2:
			mask = ClassMask2
		case objects.ClassData3:
			mask = ClassMask3
		default:
			iin.Set(app.IIN2ObjectUnknown)
			continue
		}
		if enable {
			s.enabledClasses |= mask
		} else {
			s.enabledClasses &^= mask
		}
	}
	return s.emptyResponse(req, buf, iin)
}

// handleAssignClass walks the request's headers, tracking the most
// recently named target class (a g60 header) and applying it to every
// point named by the headers that follow, until the next g60 header.
func (s *Session) handleAssignClass(req *app.Fragment, buf []byte, iin app.IIN) ([]byte, error) {
	var target objects.Class
	haveTarget := false

	for _, obj := range req.Objects {
		gv := obj.Header.GroupVariation()
		switch gv {
		case objects.ClassData0, objects.ClassData1, objects.ClassData2, objects.ClassData3:
			target = objects.Class(gv.Variation - 1)
			haveTarget = true
		default:
			if !haveTarget {
				iin.Set(app.IIN2ParameterError)
				continue
			}
			s.db.AssignClass(gv.Group, obj.Header.Range.Start, obj.Header.Range.Stop, target)
		}
	}
	return s.emptyResponse(req, buf, iin)
}

// SetNeedTime sets or clears IIN1.4 (NEED_TIME) directly, for a caller
// that tracks clock drift independently of RECORD_CURRENT_TIME (e.g. a
// periodic time-sync poll timer).
func (s *Session) SetNeedTime(need bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needTime = need
}

func (s *Session) handleConfirm(ctrl app.Control) {
	if !ctrl.UNS || s.unsolState == UnsolicitedIdle {
		return
	}
	if ctrl.SEQ != s.unsolicitedSeq {
		return
	}
	s.confirmUnsolicited()
}

func (s *Session) confirmUnsolicited() {
	if s.lastUnsolitedTail > 0 {
		s.events.ConfirmThrough(s.lastUnsolitedTail)
	}
	s.unsolState = UnsolicitedIdle
	s.unsolicitedSeq = app.NextSequence(s.unsolicitedSeq)
	s.unsolRetries = 0
	s.lastUnsolited = nil
	s.lastUnsolitedTail = 0
}

// BuildNullUnsolicited constructs the data-free unsolicited response an
// outstation sends on startup (and after every pause) to announce
// liveness and surface its current IIN, per spec.md §8 scenario 5. The
// caller transmits the returned bytes and arranges a confirm-timeout
// wake-up; on expiry call RetryUnsolicited, on a matching CONFIRM call
// HandleRequest.
func (s *Session) BuildNullUnsolicited(buf []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rw, err := app.NewResponseWriter(buf, s.unsolicitedSeq, true, s.currentIIN())
	if err != nil {
		return nil, err
	}
	rw.MarkFinal(true)
	s.unsolState = UnsolicitedNull
	s.unsolRetries = 0
	s.lastUnsolited = rw.Bytes()
	s.lastUnsolitedTail = 0
	return s.lastUnsolited, nil
}

// PollUnsolicited builds a data-bearing unsolicited response carrying
// every pending event in the classes enabled for unsolicited reporting,
// if the session is idle and any such event is pending; it returns
// ok=false otherwise (nothing to send).
func (s *Session) PollUnsolicited(buf []byte) (out []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsolState != UnsolicitedIdle || !s.events.HasEvents(s.enabledClasses) {
		return nil, false, nil
	}
	events := s.events.Select(s.enabledClasses)
	rw, err := app.NewResponseWriter(buf, s.unsolicitedSeq, true, s.currentIIN())
	if err != nil {
		return nil, false, err
	}
	if err := s.writeEvents(rw, events); err != nil {
		return nil, false, err
	}
	rw.MarkFinal(true)

	var tail uint64
	for _, ev := range events {
		if ev.Seq > tail {
			tail = ev.Seq
		}
	}
	s.unsolState = UnsolicitedConfirmWait
	s.unsolRetries = 0
	s.lastUnsolited = rw.Bytes()
	s.lastUnsolitedTail = tail
	return s.lastUnsolited, true, nil
}

// RetryUnsolicited is called when the confirm timeout for the
// outstanding unsolicited response expires. It returns the identical
// bytes to retransmit and shouldRetry=true while under
// MaxUnsolicitedRetries; once exhausted it resets to Idle so the caller
// restarts the null-unsolicited series, per spec.md §4.4.
func (s *Session) RetryUnsolicited() (frame []byte, shouldRetry bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsolState == UnsolicitedIdle || s.lastUnsolited == nil {
		return nil, false
	}
	if s.cfg.MaxUnsolicitedRetries != nil && s.unsolRetries >= *s.cfg.MaxUnsolicitedRetries {
		s.unsolState = UnsolicitedIdle
		s.unsolRetries = 0
		s.lastUnsolited = nil
		s.lastUnsolitedTail = 0
		return nil, false
	}
	s.unsolRetries++
	return s.lastUnsolited, true
}
