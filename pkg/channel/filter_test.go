package channel

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnyAddressAcceptsEverything(t *testing.T) {
	f := AnyAddress{}
	assert.True(t, f.Accepts(&net.TCPAddr{IP: net.ParseIP("10.0.0.5"), Port: 20000}))
}

func TestExactAddressMatchesHostOnly(t *testing.T) {
	f := ExactAddress{Host: "192.168.1.10"}
	assert.True(t, f.Accepts(&net.TCPAddr{IP: net.ParseIP("192.168.1.10"), Port: 54321}))
	assert.False(t, f.Accepts(&net.TCPAddr{IP: net.ParseIP("192.168.1.11"), Port: 54321}))
}

func TestAddressSetMatchesMembership(t *testing.T) {
	f := NewAddressSet("10.0.0.1", "10.0.0.2")
	assert.True(t, f.Accepts(&net.TCPAddr{IP: net.ParseIP("10.0.0.2"), Port: 1}))
	assert.False(t, f.Accepts(&net.TCPAddr{IP: net.ParseIP("10.0.0.3"), Port: 1}))
}

func TestWildcardAddressMatchesPrefixAndSuffix(t *testing.T) {
	prefix := WildcardAddress{Pattern: "192.168.1.*"}
	assert.True(t, prefix.Accepts(&net.TCPAddr{IP: net.ParseIP("192.168.1.99"), Port: 1}))
	assert.False(t, prefix.Accepts(&net.TCPAddr{IP: net.ParseIP("192.168.2.99"), Port: 1}))

	suffix := WildcardAddress{Pattern: "*.1.10"}
	assert.True(t, suffix.Accepts(&net.TCPAddr{IP: net.ParseIP("192.168.1.10"), Port: 1}))
}

func TestFiltersRejectMalformedRemoteAddr(t *testing.T) {
	bad := fakeAddr("not-a-host-port")
	assert.False(t, ExactAddress{Host: "10.0.0.1"}.Accepts(bad))
	assert.False(t, NewAddressSet("10.0.0.1").Accepts(bad))
	assert.False(t, WildcardAddress{Pattern: "10.0.0.*"}.Accepts(bad))
}

type fakeAddr string

func (a fakeAddr) Network() string { return "fake" }
func (a fakeAddr) String() string  { return string(a) }
