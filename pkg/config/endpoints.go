package config

import (
	"errors"
	"fmt"
)

// ErrEmptyEndpointList is returned by NewEndpointList when given no
// endpoints to try.
var ErrEmptyEndpointList = errors.New("config: endpoint list is empty")

// EndpointList is the ordered set of "host:port" addresses a master TCP
// client tries in turn, advancing a cursor on failure and resetting it
// to the front on a successful connect, grounded on
// original_source/dnp3/src/app/retry.rs's companion idea of a
// reconnect cursor (see pkg/channel's client, which owns the actual
// dialing loop; EndpointList only owns the address bookkeeping).
type EndpointList struct {
	endpoints []string
	cursor    int
}

// NewEndpointList validates that at least one endpoint is given and
// returns a list starting at its first entry.
func NewEndpointList(endpoints ...string) (*EndpointList, error) {
	if len(endpoints) == 0 {
		return nil, ErrEmptyEndpointList
	}
	cp := make([]string, len(endpoints))
	copy(cp, endpoints)
	return &EndpointList{endpoints: cp}, nil
}

// Current returns the endpoint the cursor currently points to.
func (l *EndpointList) Current() string { return l.endpoints[l.cursor] }

// Advance moves the cursor to the next endpoint, wrapping around, for
// use after a failed connection attempt.
func (l *EndpointList) Advance() string {
	l.cursor = (l.cursor + 1) % len(l.endpoints)
	return l.Current()
}

// Reset moves the cursor back to the first endpoint, for use after a
// successful connection so the next reconnect attempt prefers the
// configured-first address.
func (l *EndpointList) Reset() {
	l.cursor = 0
}

// Len reports how many endpoints are in the list.
func (l *EndpointList) Len() int { return len(l.endpoints) }

func (l *EndpointList) String() string {
	return fmt.Sprintf("%v (current=%s)", l.endpoints, l.Current())
}
