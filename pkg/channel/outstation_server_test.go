package channel

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dnp3/godnp3/internal/ring"
	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/link"
	"github.com/open-dnp3/godnp3/pkg/objects"
	"github.com/open-dnp3/godnp3/pkg/outstation"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

type noopHandler struct{}

func (noopHandler) SelectCROB(index uint32, c objects.CROB) objects.CommandStatus { return objects.StatusSuccess }
func (noopHandler) OperateCROB(index uint32, c objects.CROB) objects.CommandStatus {
	return objects.StatusSuccess
}
func (noopHandler) SelectAnalogOutput(index uint32, c objects.AnalogOutputCommand) objects.CommandStatus {
	return objects.StatusSuccess
}
func (noopHandler) OperateAnalogOutput(index uint32, c objects.AnalogOutputCommand) objects.CommandStatus {
	return objects.StatusSuccess
}
func (noopHandler) Freeze(action outstation.FreezeAction) {}
func (noopHandler) ColdRestart() (uint16, bool)           { return 0, true }
func (noopHandler) WarmRestart() (uint16, bool)           { return 0, true }
func (noopHandler) ProcessingDelay() uint16               { return 0 }

func newTestOutstationSession(t *testing.T, linkCfg config.LinkConfig) *outstation.Session {
	t.Helper()
	ocfg := config.NewOutstationConfig(linkCfg)
	events := outstation.NewEventBuffer(16, ring.DropOldest)
	db := outstation.NewDatabase(events)
	return outstation.NewSession(ocfg, db, events, noopHandler{}, nil)
}

func TestOutstationServerServesRequestOverTCP(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	linkCfg, err := config.NewLinkConfig(1024, 1, false)
	require.NoError(t, err)
	appCfg := config.DefaultAppConfig()
	session := newTestOutstationSession(t, linkCfg)

	srv := NewOutstationServer(listener, AnyAddress{}, linkCfg, appCfg, link.ModeClose, session, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)
	defer srv.Close()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	masterLinkCfg, err := config.NewLinkConfig(1, 1024, false)
	require.NoError(t, err)

	responses := make(chan []byte, 4)
	master := NewLinkSession(conn, masterLinkCfg, true, appCfg.RxBufferSize.Value(), link.ModeClose, func(peerAddress uint16, broadcast bool, header transport.Header, payload []byte) {
		responses <- append([]byte(nil), payload...)
	}, nil)
	go master.Run(ctx)

	require.NoError(t, master.Send(1024, []byte{0xC0, 0x01}))

	select {
	case resp := <-responses:
		respFrag, err := app.ParseFragment(resp)
		require.NoError(t, err)
		assert.True(t, respFrag.IIN.Has(app.IIN1DeviceRestart))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outstation response")
	}
}

func TestOutstationServerRejectsFilteredConnection(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	linkCfg, err := config.NewLinkConfig(1024, 1, false)
	require.NoError(t, err)
	appCfg := config.DefaultAppConfig()
	session := newTestOutstationSession(t, linkCfg)

	srv := NewOutstationServer(listener, ExactAddress{Host: "203.0.113.1"}, linkCfg, appCfg, link.ModeClose, session, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)
	defer srv.Close()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	buf := make([]byte, 8)
	_, err = conn.Read(buf)
	assert.Error(t, err)
}
