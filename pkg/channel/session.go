package channel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/link"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

// DeliverFunc receives one reassembled-at-the-link-layer transport
// segment: the still-framed peerAddress/broadcast/header/payload quad
// that pkg/master.Association.HandleSegment and the outstation-side
// listener both expect, keeping transport reassembly itself (stateful,
// per-fragment) owned by whichever side is above this package.
type DeliverFunc func(peerAddress uint16, broadcast bool, header transport.Header, payload []byte)

// LinkSession runs the link-frame read loop and outgoing segmentation
// for one physical connection (TCP, TLS, serial, or a UDP peer),
// generalized from the teacher's pkg/can/socketcanv2.Bus, which owns
// one socket's blocking read loop and dispatches decoded frames to a
// registered listener; here link.FrameReader plays the role the raw
// socketcan read() loop played there, and DeliverFunc the role of
// canopen.FrameListener.
type LinkSession struct {
	conn   io.ReadWriteCloser
	cfg    config.LinkConfig
	role   bool // true if this station is the master
	logger *slog.Logger

	errorMode link.ErrorMode
	reader    *link.FrameReader
	secondary *link.Secondary

	writeMu sync.Mutex
	txSeq   uint8

	confirmed  bool
	sendFCB    bool
	resetDone  bool
	ackTimeout time.Duration
	ackCh      chan bool

	deliver DeliverFunc
}

// NewLinkSession wraps conn (already connected/accepted) for one
// station identified by cfg, acting in the given role. errorMode should
// be link.ModeClose for stream transports (TCP/TLS/serial) and
// link.ModeDiscard for packet-oriented ones (UDP), per spec.md §4.1's
// resynchronization rules. rxBufferSize should match the owning
// endpoint's AppConfig.RxBufferSize.
func NewLinkSession(conn io.ReadWriteCloser, cfg config.LinkConfig, isMaster bool, rxBufferSize int, errorMode link.ErrorMode, deliver DeliverFunc, logger *slog.Logger) *LinkSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkSession{
		conn:       conn,
		cfg:        cfg,
		role:       isMaster,
		logger:     logger,
		errorMode:  errorMode,
		reader:     link.NewFrameReader(conn, errorMode, rxBufferSize),
		secondary:  link.NewSecondary(cfg.LocalAddress.Value(), isMaster),
		confirmed:  cfg.UseConfirmedDataFrames,
		ackTimeout: 2 * time.Second,
		ackCh:      make(chan bool, 1),
		deliver:    deliver,
	}
}

// Run blocks reading and dispatching frames until ctx is canceled or a
// session-fatal framing/transport error occurs.
func (s *LinkSession) Run(ctx context.Context) error {
	for {
		frame, err := s.reader.ReadFrame(ctx)
		if err != nil {
			return fmt.Errorf("channel: read loop ended: %w", err)
		}
		s.handleFrame(frame)
	}
}

func (s *LinkSession) handleFrame(frame *link.Frame) {
	if !link.AcceptsDestination(s.cfg.LocalAddress.Value(), frame.Header.Destination, s.cfg.AcceptsSelfAddress) {
		return
	}

	switch frame.Header.Control.Func {
	case link.FuncSecAck, link.FuncSecNack, link.FuncSecLinkStatus, link.FuncSecNotSupported:
		if frame.Header.Control.Master != s.role {
			select {
			case s.ackCh <- frame.Header.Control.Func == link.FuncSecAck:
			default:
			}
		}
		return
	}

	outcome := s.secondary.Handle(frame.Header, frame.Payload)
	if outcome.Reply != nil {
		s.writeReply(outcome.Reply)
	}
	if outcome.Deliver != nil && len(outcome.Deliver) >= 1 {
		header := transport.ParseHeader(outcome.Deliver[0])
		s.deliver(frame.Header.Source, link.IsBroadcast(frame.Header.Destination), header, outcome.Deliver[1:])
	}
}

func (s *LinkSession) writeReply(reply *link.Reply) {
	buf := make([]byte, link.HeaderLength)
	out, err := link.WriteHeaderOnly(reply.Control, reply.Destination, s.cfg.LocalAddress.Value(), buf)
	if err != nil {
		s.logger.Warn("failed to build link reply", "error", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.conn.Write(out); err != nil {
		s.logger.Warn("failed to write link reply", "error", err)
	}
}

// Send segments one application fragment and writes it as one or more
// link frames to destination, per spec.md §4.1/§4.2. When the session's
// LinkConfig enables confirmed data frames, each frame is sent with a
// toggling FCB and this call blocks, up to ackTimeout, for the peer's
// ACK before returning - the same tradeoff pkg/master's own task queue
// already makes by calling Sender.Send synchronously from within its
// locked dispatch loop.
func (s *LinkSession) Send(destination uint16, fragment []byte) error {
	segments := transport.Segments(fragment, s.txSeq)
	if len(segments) == 0 {
		return nil
	}
	s.txSeq = transport.NextSequence(segments[len(segments)-1].Header.SEQ)

	if s.confirmed && !s.resetDone {
		if err := s.resetLinkStates(destination); err != nil {
			return err
		}
	}

	for _, seg := range segments {
		if err := s.sendSegment(destination, seg); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkSession) resetLinkStates(destination uint16) error {
	control := link.NewControlField(s.role, link.FuncPriResetLinkStates)
	buf := make([]byte, link.HeaderLength)
	out, err := link.WriteHeaderOnly(control, destination, s.cfg.LocalAddress.Value(), buf)
	if err != nil {
		return err
	}
	if err := s.writeFrame(out); err != nil {
		return err
	}
	if !s.waitAck() {
		return fmt.Errorf("channel: no ack for RESET_LINK_STATES from %d", destination)
	}
	s.resetDone = true
	s.sendFCB = true
	return nil
}

func (s *LinkSession) sendSegment(destination uint16, seg transport.Segment) error {
	fn := link.FuncPriUnconfirmedUserData
	control := link.NewControlField(s.role, fn)
	if s.confirmed {
		fn = link.FuncPriConfirmedUserData
		control = link.ControlField{Func: fn, Master: s.role, FCB: s.sendFCB, FCV: true}
	}

	buf := make([]byte, link.MaxFrameLength)
	out, err := link.WriteData(control, destination, s.cfg.LocalAddress.Value(), seg.Header.ToByte(), seg.Data, buf)
	if err != nil {
		return err
	}
	if err := s.writeFrame(out); err != nil {
		return err
	}
	if !s.confirmed {
		return nil
	}
	if !s.waitAck() {
		return fmt.Errorf("channel: no ack for segment to %d", destination)
	}
	s.sendFCB = !s.sendFCB
	return nil
}

func (s *LinkSession) writeFrame(out []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.conn.Write(out)
	return err
}

func (s *LinkSession) waitAck() bool {
	select {
	case ok := <-s.ackCh:
		return ok
	case <-time.After(s.ackTimeout):
		return false
	}
}

// Close releases the underlying connection.
func (s *LinkSession) Close() error {
	return s.conn.Close()
}
