package master

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/objects"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

// ErrResponseTimeout is the error an in-flight task's OnComplete
// receives when no matching response arrives within the channel's
// ResponseTimeout.
var ErrResponseTimeout = errors.New("master: response timeout")

// ErrAssociationClosed is the error every still-pending task receives
// when its association is torn down.
var ErrAssociationClosed = errors.New("master: association closed")

// Sender transmits one complete application fragment to an outstation.
// pkg/channel implements this over TCP/TLS/serial/UDP; tests and this
// package's own command helpers can fake it directly.
type Sender interface {
	Send(destination uint16, fragment []byte) error
}

// Association is a master's logical connection to one outstation: its
// own sequence counter, task queue, in-flight task and response timer,
// and the event-class/auto-task/time-sync policy from its
// AssociationConfig. Generalized from the teacher's pkg/network.Network,
// which keys one *node.NodeProcessor per remote node id on a shared CAN
// bus; here one *Association plays that per-remote-endpoint role for one
// outstation reachable over a master channel, and pkg/nmt.NMT's
// time.AfterFunc heartbeat-timeout grounds the response timer.
type Association struct {
	mu     sync.Mutex
	logger *slog.Logger

	cfg     config.AssociationConfig
	channel config.MasterConfig
	sender  Sender
	handler Handler

	queue    *TaskQueue
	inFlight *Task
	timer    *time.Timer

	seq       uint8
	assembler *transport.Assembler

	lastIIN app.IIN
	closed  bool
}

// NewAssociation builds an Association in the idle state; call Start to
// enqueue its configured startup auto-tasks.
func NewAssociation(cfg config.AssociationConfig, channel config.MasterConfig, sender Sender, handler Handler, logger *slog.Logger) *Association {
	if logger == nil {
		logger = slog.Default()
	}
	return &Association{
		logger:    logger,
		cfg:       cfg,
		channel:   channel,
		sender:    sender,
		handler:   handler,
		queue:     NewTaskQueue(),
		assembler: transport.NewAssembler(transport.DefaultMaxFragmentSize),
	}
}

// OutstationAddress returns the link address this association talks to.
func (a *Association) OutstationAddress() uint16 {
	return a.cfg.OutstationAddress.Value()
}

// Start enqueues the association's configured startup sequence (time
// sync, integrity scan, enable-unsolicited) per spec.md §4.5 and begins
// dispatching.
func (a *Association) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cfg.AutoTasks.TimeSyncOnStartup {
		a.enqueueTimeSyncLocked()
	}
	if a.cfg.AutoTasks.IntegrityScanOnStartup {
		a.enqueueIntegrityScanLocked()
	}
	if a.cfg.AutoTasks.EnableUnsolicitedOnStartup {
		a.enqueueEnableUnsolicitedLocked(true)
	}
	a.pumpLocked()
}

// Close fails every pending and in-flight task with ErrAssociationClosed
// and stops accepting new work.
func (a *Association) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	if a.inFlight != nil {
		t := a.inFlight
		a.inFlight = nil
		go t.OnComplete(TaskResult{Err: ErrAssociationClosed})
	}
	for {
		t := a.queue.Pop()
		if t == nil {
			break
		}
		go t.OnComplete(TaskResult{Err: ErrAssociationClosed})
	}
}

// Submit enqueues a task for this association, running it once every
// higher-priority task ahead of it has completed.
func (a *Association) Submit(t *Task) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		go t.OnComplete(TaskResult{Err: ErrAssociationClosed})
		return
	}
	a.queue.Push(t)
	a.pumpLocked()
}

// pumpLocked starts the next queued task if none is currently in flight.
// Caller holds a.mu.
func (a *Association) pumpLocked() {
	if a.inFlight != nil || a.closed {
		return
	}
	t := a.queue.Pop()
	if t == nil {
		return
	}

	frame, err := t.Build(a.seq)
	if err != nil {
		go t.OnComplete(TaskResult{Err: err})
		a.pumpLocked()
		return
	}

	a.inFlight = t
	a.assembler.Reset()
	if err := a.sender.Send(a.OutstationAddress(), frame); err != nil {
		a.failInFlightLocked(err)
		return
	}
	a.armTimerLocked()
}

func (a *Association) armTimerLocked() {
	timeout := a.channel.ResponseTimeout.Duration()
	a.timer = time.AfterFunc(timeout, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.inFlight == nil {
			return
		}
		a.failInFlightLocked(ErrResponseTimeout)
	})
}

// failInFlightLocked completes the in-flight task with err and advances
// the queue. Caller holds a.mu.
func (a *Association) failInFlightLocked(err error) {
	t := a.inFlight
	a.inFlight = nil
	if t != nil {
		go a.handler.OnTaskFailed(a, t, err)
		go t.OnComplete(TaskResult{Err: err})
	}
	a.pumpLocked()
}

// HandleSegment feeds one reassembled transport segment in from the
// channel layer. Once a complete application fragment is ready it is
// parsed and dispatched to HandleResponse.
func (a *Association) HandleSegment(peerAddress uint16, broadcast bool, header transport.Header, payload []byte) {
	a.mu.Lock()
	complete, dropped := a.assembler.HandleSegment(peerAddress, broadcast, header, payload)
	if dropped != transport.DropNone {
		a.logger.Warn("dropped transport segment", "reason", string(dropped))
		a.mu.Unlock()
		return
	}
	if !complete {
		a.mu.Unlock()
		return
	}
	data := append([]byte(nil), a.assembler.Peek()...)
	a.assembler.Discard()
	a.mu.Unlock()

	frag, err := app.ParseFragment(data)
	if err != nil {
		a.logger.Warn("dropped unparseable fragment", "error", err)
		return
	}
	a.HandleResponse(frag)
}

// HandleResponse dispatches one already-parsed application fragment:
// an unsolicited response is confirmed and delivered directly; a
// solicited response is routed to the in-flight task, if any.
func (a *Association) HandleResponse(frag *app.Fragment) {
	if !frag.HasIIN {
		return
	}

	a.mu.Lock()
	wasRestart := a.lastIIN.Has(app.IIN1DeviceRestart)
	a.lastIIN = frag.IIN
	newRestart := frag.IIN.Has(app.IIN1DeviceRestart) && !wasRestart
	a.mu.Unlock()

	if newRestart {
		a.handler.OnRestartDetected(a)
		a.enqueueClearRestart()
	}

	a.deliverUpdates(frag)

	if frag.Control.UNS {
		a.confirmUnsolicited(frag.Control.SEQ)
		return
	}

	a.mu.Lock()
	t := a.inFlight
	if t == nil || frag.Control.SEQ != a.seq {
		a.mu.Unlock()
		return
	}
	if frag.Control.CON {
		a.sendConfirm(frag.Control.SEQ)
	}
	done := t.OnResponse(frag)
	if !done {
		a.mu.Unlock()
		return
	}
	a.inFlight = nil
	if a.timer != nil {
		a.timer.Stop()
	}
	a.seq = app.NextSequence(a.seq)
	a.mu.Unlock()

	go t.OnComplete(TaskResult{Response: frag})

	a.mu.Lock()
	a.pumpLocked()
	a.mu.Unlock()
}

// deliverUpdates splits each object header's concatenated payload into
// one Update per instance when the variation has a fixed per-instance
// width, using the starting index an indexed range header carries.
// Packed (bit-per-point) and variable-length objects are delivered
// whole, since they can't be split without decoding them.
func (a *Association) deliverUpdates(frag *app.Fragment) {
	for _, obj := range frag.Objects {
		gv := obj.Header.GroupVariation()
		desc, err := objects.Lookup(gv)
		if err != nil || desc.SizeKind != objects.SizeFixed || desc.FixedSize == 0 {
			a.handler.OnUpdate(a, Update{GroupVariation: gv, Index: obj.Header.Range.Start, Payload: obj.Payload})
			continue
		}
		n := len(obj.Payload) / desc.FixedSize
		for i := 0; i < n; i++ {
			a.handler.OnUpdate(a, Update{
				GroupVariation: gv,
				Index:          obj.Header.Range.Start + uint32(i),
				Payload:        obj.Payload[i*desc.FixedSize : (i+1)*desc.FixedSize],
			})
		}
	}
}

func (a *Association) sendConfirm(seq uint8) {
	a.sendConfirmFrame(app.Control{FIR: true, FIN: true, SEQ: seq})
}

func (a *Association) confirmUnsolicited(seq uint8) {
	a.sendConfirmFrame(app.Control{FIR: true, FIN: true, UNS: true, SEQ: seq})
}

func (a *Association) sendConfirmFrame(ctrl app.Control) {
	buf := make([]byte, 2)
	w := cursor.NewWriter(buf)
	if err := app.WriteHeaderBytes(w, ctrl, app.FuncConfirm); err != nil {
		a.logger.Warn("failed to build confirm", "error", err)
		return
	}
	if err := a.sender.Send(a.OutstationAddress(), w.Written()); err != nil {
		a.logger.Warn("failed to send confirm", "error", err)
	}
}

// enqueueIntegrityScanLocked enqueues the configured classes plus static
// data as a PriorityAutoTask. Caller holds a.mu.
func (a *Association) enqueueIntegrityScanLocked() {
	a.queue.Push(&Task{
		Name:     "integrity-scan",
		Priority: PriorityAutoTask,
		Build: func(seq uint8) ([]byte, error) {
			return buildIntegrityScan(make([]byte, transport.DefaultMaxFragmentSize), seq, a.cfg.EventClasses)
		},
		OnResponse: func(frag *app.Fragment) bool { return frag.Control.FIN },
		OnComplete: func(res TaskResult) {
			if err := checkIIN(res); err != nil {
				a.handler.OnTaskFailed(a, nil, err)
			}
		},
	})
}

func (a *Association) enqueueEnableUnsolicitedLocked(enable bool) {
	a.queue.Push(&Task{
		Name:     "enable-unsolicited",
		Priority: PriorityAutoTask,
		Build: func(seq uint8) ([]byte, error) {
			return buildEnableUnsolicited(make([]byte, 64), seq, enable, a.cfg.EventClasses)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if err := checkIIN(res); err != nil {
				a.handler.OnTaskFailed(a, nil, err)
			}
		},
	})
}

func (a *Association) enqueueClearRestart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue.Push(&Task{
		Name:     "clear-restart",
		Priority: PriorityAutoTask,
		Build: func(seq uint8) ([]byte, error) {
			return buildClearRestart(make([]byte, 64), seq)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if err := checkIIN(res); err != nil {
				a.handler.OnTaskFailed(a, nil, err)
				return
			}
			if a.cfg.AutoTasks.IntegrityScanOnDeviceRestart {
				a.mu.Lock()
				a.enqueueIntegrityScanLocked()
				a.pumpLocked()
				a.mu.Unlock()
			}
		},
	})
	a.pumpLocked()
}

func (a *Association) enqueueTimeSyncLocked() {
	if a.cfg.TimeSyncMode == config.TimeSyncLAN {
		a.enqueueLANTimeSyncLocked()
		return
	}
	a.enqueueNonLANTimeSyncLocked()
}
