package channel

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/link"
	"github.com/open-dnp3/godnp3/pkg/master"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

// fakeSender satisfies master.Sender without ever being invoked in these
// tests; MasterClient itself is what's under test, not an association's
// task pump.
type fakeSender struct{}

func (fakeSender) Send(destination uint16, fragment []byte) error { return nil }

func pipeDialer(serverSide chan<- net.Conn) func(ctx context.Context, address string) (net.Conn, error) {
	return func(ctx context.Context, address string) (net.Conn, error) {
		clientConn, srvConn := net.Pipe()
		serverSide <- srvConn
		return clientConn, nil
	}
}

func TestMasterClientSendFailsWithoutConnection(t *testing.T) {
	endpoints, err := config.NewEndpointList("127.0.0.1:0")
	require.NoError(t, err)
	linkCfg, err := config.NewLinkConfig(1, 2, false)
	require.NoError(t, err)
	mcfg := config.NewMasterConfig(linkCfg)
	m := master.NewMaster(mcfg, fakeSender{}, nil)

	c := NewMasterClient(endpoints, config.DefaultRetryStrategy(), pipeDialer(make(chan net.Conn, 1)), linkCfg, mcfg.App, m, nil)
	err = c.Send(2, []byte{0xC0, 0x01})
	assert.Error(t, err)
}

func TestMasterClientConnectsAndDelivers(t *testing.T) {
	endpoints, err := config.NewEndpointList("peer:20000")
	require.NoError(t, err)
	linkCfg, err := config.NewLinkConfig(1, 2, false)
	require.NoError(t, err)
	mcfg := config.NewMasterConfig(linkCfg)
	m := master.NewMaster(mcfg, fakeSender{}, nil)

	serverSide := make(chan net.Conn, 1)
	c := NewMasterClient(endpoints, config.DefaultRetryStrategy(), pipeDialer(serverSide), linkCfg, mcfg.App, m, nil)
	c.Start()
	defer c.Stop()

	var peerConn net.Conn
	select {
	case peerConn = <-serverSide:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dial")
	}
	defer peerConn.Close()

	peerLinkCfg, err := config.NewLinkConfig(2, 1, false)
	require.NoError(t, err)

	delivered := make(chan delivery, 1)
	peer := NewLinkSession(peerConn, peerLinkCfg, false, 2048, link.ModeClose, func(peerAddress uint16, broadcast bool, header transport.Header, payload []byte) {
		delivered <- delivery{peerAddress, broadcast, header, append([]byte(nil), payload...)}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go peer.Run(ctx)

	// m has no association registered for address 2, so HandleSegment
	// simply logs and drops; what's under test here is that MasterClient
	// got a live session wired up to m.HandleSegment at all, which the
	// address-9999 routing case in master_test.go already exercises in
	// isolation from the channel.
	fragment := []byte{0xC0, 0x01}
	require.NoError(t, c.Send(2, fragment))

	select {
	case d := <-delivered:
		assert.Equal(t, uint16(1), d.peerAddress)
		assert.Equal(t, fragment, d.payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for peer to receive master's fragment")
	}
}
