package channel

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/link"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

// delivery captures one call to a DeliverFunc, for assertions.
type delivery struct {
	peerAddress uint16
	broadcast   bool
	header      transport.Header
	payload     []byte
}

type collector struct {
	mu  sync.Mutex
	got []delivery
	ch  chan delivery
}

func newCollector() *collector {
	return &collector{ch: make(chan delivery, 8)}
}

func (c *collector) deliver(peerAddress uint16, broadcast bool, header transport.Header, payload []byte) {
	d := delivery{peerAddress, broadcast, header, append([]byte(nil), payload...)}
	c.mu.Lock()
	c.got = append(c.got, d)
	c.mu.Unlock()
	c.ch <- d
}

func newLinkSessionPair(t *testing.T, confirmed bool) (a, b *LinkSession, ca, cb *collector) {
	t.Helper()
	connA, connB := net.Pipe()

	cfgA, err := config.NewLinkConfig(1, 2, confirmed)
	require.NoError(t, err)
	cfgB, err := config.NewLinkConfig(2, 1, confirmed)
	require.NoError(t, err)

	ca = newCollector()
	cb = newCollector()

	a = NewLinkSession(connA, cfgA, true, link.MaxFrameLength, link.ModeClose, ca.deliver, nil)
	b = NewLinkSession(connB, cfgB, false, link.MaxFrameLength, link.ModeClose, cb.deliver, nil)
	return a, b, ca, cb
}

func TestLinkSessionUnconfirmedSendIsDelivered(t *testing.T) {
	a, b, _, cb := newLinkSessionPair(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx)
	go b.Run(ctx)

	fragment := []byte{0xC0, 0x81, 0x00, 0x00}
	require.NoError(t, a.Send(2, fragment))

	select {
	case d := <-cb.ch:
		assert.Equal(t, uint16(1), d.peerAddress)
		assert.False(t, d.broadcast)
		assert.True(t, d.header.FIR)
		assert.True(t, d.header.FIN)
		assert.Equal(t, fragment, d.payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestLinkSessionConfirmedSendWaitsForAck(t *testing.T) {
	a, b, _, cb := newLinkSessionPair(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx)
	go b.Run(ctx)

	fragment := []byte{0xC0, 0x81}
	errCh := make(chan error, 1)
	go func() { errCh <- a.Send(2, fragment) }()

	select {
	case d := <-cb.ch:
		assert.Equal(t, fragment, d.payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Send to return")
	}
}

func TestLinkSessionSegmentsLargeFragment(t *testing.T) {
	a, b, _, cb := newLinkSessionPair(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx)
	go b.Run(ctx)

	fragment := make([]byte, link.MaxAppBytesPerFrame+10)
	for i := range fragment {
		fragment[i] = byte(i)
	}
	require.NoError(t, a.Send(2, fragment))

	var reassembled []byte
	for len(reassembled) < len(fragment) {
		select {
		case d := <-cb.ch:
			reassembled = append(reassembled, d.payload...)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for full fragment")
		}
	}
	assert.Equal(t, fragment, reassembled)
}
