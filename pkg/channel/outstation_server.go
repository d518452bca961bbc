package channel

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/link"
	"github.com/open-dnp3/godnp3/pkg/outstation"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

// unsolicitedPollInterval is how often an active connection is checked
// for newly queued events to report unsolicited, and how often a still
// unconfirmed unsolicited response is retried. spec.md leaves the exact
// cadence unspecified; this matches DefaultUnsolicitedRetryDelay's
// granularity without introducing a second configuration knob.
const unsolicitedPollInterval = 200 * time.Millisecond

// OutstationServer listens for inbound master connections and serves
// one outstation.Session over whichever connection the address filter
// currently accepts, generalized from the teacher's
// pkg/gateway/http.Server accept-loop shape but driving the link/
// transport/application stack instead of HTTP. Only one connection is
// served at a time, matching spec.md §4's point-to-point association
// model: a new accepted connection that passes the filter replaces
// whatever connection is currently active.
type OutstationServer struct {
	listener  net.Listener
	filter    AddressFilter
	linkCfg   config.LinkConfig
	appCfg    config.AppConfig
	errorMode link.ErrorMode
	session   *outstation.Session
	logger    *slog.Logger

	mu         sync.Mutex
	active     *LinkSession
	cancelConn context.CancelFunc
}

// NewOutstationServer wraps an already-listening net.Listener - a TCP,
// TLS, or UDPListener, all satisfying net.Listener identically - to
// serve session, accepting only connections filter allows. errorMode
// should be link.ModeClose for the stream transports and
// link.ModeDiscard for a UDPListener, per spec.md §4.1.
func NewOutstationServer(listener net.Listener, filter AddressFilter, linkCfg config.LinkConfig, appCfg config.AppConfig, errorMode link.ErrorMode, session *outstation.Session, logger *slog.Logger) *OutstationServer {
	if logger == nil {
		logger = slog.Default()
	}
	if filter == nil {
		filter = AnyAddress{}
	}
	return &OutstationServer{
		listener:  listener,
		filter:    filter,
		linkCfg:   linkCfg,
		appCfg:    appCfg,
		errorMode: errorMode,
		session:   session,
		logger:    logger,
	}
}

// Serve accepts connections until ctx is canceled or the listener is
// closed.
func (srv *OutstationServer) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		srv.listener.Close()
	}()

	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if !srv.filter.Accepts(conn.RemoteAddr()) {
			srv.logger.Warn("rejected connection", "remote", conn.RemoteAddr())
			conn.Close()
			continue
		}
		srv.replaceActive(ctx, conn)
	}
}

func (srv *OutstationServer) replaceActive(parent context.Context, conn net.Conn) {
	srv.mu.Lock()
	if srv.cancelConn != nil {
		srv.cancelConn()
	}
	if srv.active != nil {
		srv.active.Close()
	}
	srv.mu.Unlock()

	connCtx, cancel := context.WithCancel(parent)
	bridge := &requestBridge{
		session:     srv.session,
		assembler:   transport.NewAssembler(srv.appCfg.RxBufferSize.Value()),
		localAddr:   srv.linkCfg.LocalAddress.Value(),
		maxFragment: srv.appCfg.MaxFragmentSize.Value(),
	}

	ls := NewLinkSession(conn, srv.linkCfg, false, srv.appCfg.RxBufferSize.Value(), srv.errorMode, bridge.deliver, srv.logger)
	bridge.reply = ls.Send

	srv.mu.Lock()
	srv.active = ls
	srv.cancelConn = cancel
	srv.mu.Unlock()

	connID := uuid.New()
	srv.logger.Info("accepted connection", "remote", conn.RemoteAddr(), "connection_id", connID)

	// The read loop and the unsolicited-response loop are two independent
	// goroutines over the same connection; errgroup ties their lifetimes
	// together so that either one exiting (a framing error on the read
	// side, or ctx cancellation) tears down both.
	group, groupCtx := errgroup.WithContext(connCtx)
	group.Go(func() error { return srv.runConnection(groupCtx, conn, ls) })
	group.Go(func() error { srv.unsolicitedLoop(groupCtx, ls); return nil })

	go func() {
		if err := group.Wait(); err != nil {
			srv.logger.Warn("connection ended", "remote", conn.RemoteAddr(), "connection_id", connID, "error", err)
		}
		conn.Close()
	}()
}

func (srv *OutstationServer) runConnection(ctx context.Context, conn net.Conn, ls *LinkSession) error {
	return ls.Run(ctx)
}

func (srv *OutstationServer) unsolicitedLoop(ctx context.Context, ls *LinkSession) {
	buf := make([]byte, srv.appCfg.MaxFragmentSize.Value())
	if frame, err := srv.session.BuildNullUnsolicited(buf); err == nil {
		if err := ls.Send(srv.linkCfg.RemoteAddress.Value(), frame); err != nil {
			srv.logger.Warn("failed to send startup unsolicited null response", "error", err)
		}
	}

	ticker := time.NewTicker(unsolicitedPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if out, ok, err := srv.session.PollUnsolicited(buf); ok && err == nil {
				if err := ls.Send(srv.linkCfg.RemoteAddress.Value(), out); err != nil {
					srv.logger.Warn("failed to send unsolicited response", "error", err)
				}
				continue
			}
			if frame, retry := srv.session.RetryUnsolicited(); retry {
				if err := ls.Send(srv.linkCfg.RemoteAddress.Value(), frame); err != nil {
					srv.logger.Warn("failed to retry unsolicited response", "error", err)
				}
			}
		}
	}
}

// Close stops accepting new connections and closes the active one.
func (srv *OutstationServer) Close() error {
	srv.mu.Lock()
	if srv.cancelConn != nil {
		srv.cancelConn()
	}
	if srv.active != nil {
		srv.active.Close()
	}
	srv.mu.Unlock()
	return srv.listener.Close()
}

// requestBridge reassembles one connection's transport segments into
// application fragments, dispatches each to outstation.Session, and
// sends the session's response back out over the same link session.
type requestBridge struct {
	session     *outstation.Session
	assembler   *transport.Assembler
	localAddr   uint16
	maxFragment int
	reply       func(destination uint16, fragment []byte) error
}

func (b *requestBridge) deliver(peerAddress uint16, broadcast bool, header transport.Header, payload []byte) {
	complete, dropped := b.assembler.HandleSegment(peerAddress, broadcast, header, payload)
	if dropped != transport.DropNone || !complete {
		return
	}
	data := append([]byte(nil), b.assembler.Peek()...)
	b.assembler.Discard()

	dest := b.localAddr
	if broadcast {
		dest = link.AddressBroadcastConfirmOptional
	}
	if !b.session.AcceptsSource(peerAddress, dest) {
		return
	}

	frag, err := app.ParseFragment(data)
	if err != nil {
		return
	}

	respBuf := make([]byte, b.maxFragment)
	resp, err := b.session.HandleRequest(frag, peerAddress, respBuf)
	if err != nil || resp == nil {
		return
	}
	_ = b.reply(peerAddress, resp)
}
