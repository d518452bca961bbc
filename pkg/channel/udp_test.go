package channel

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDPListenerDemultiplexesPeersByAddress(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	listener := NewUDPListener(pc)
	defer listener.Close()

	client, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer client.Close()

	_, err = client.WriteTo([]byte("hello"), pc.LocalAddr())
	require.NoError(t, err)

	acceptCh := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		require.NoError(t, err)
		acceptCh <- conn
	}()

	var conn net.Conn
	select {
	case conn = <-acceptCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for accept")
	}

	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	_, err = conn.Write([]byte("world"))
	require.NoError(t, err)

	reply := make([]byte, 16)
	client.SetReadDeadline(time.Now().Add(time.Second))
	n, _, err = client.ReadFrom(reply)
	require.NoError(t, err)
	assert.Equal(t, "world", string(reply[:n]))
}

func TestUDPConnReadBlocksUntilClosed(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	remote := pc.LocalAddr()
	c := newUDPConn(pc, remote)

	doneCh := make(chan error, 1)
	go func() {
		_, err := c.Read(make([]byte, 8))
		doneCh <- err
	}()

	c.Close()

	select {
	case err := <-doneCh:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock after Close")
	}
}
