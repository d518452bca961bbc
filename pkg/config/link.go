package config

import (
	"errors"
	"fmt"

	"github.com/open-dnp3/godnp3/pkg/link"
)

// ErrInvalidLinkAddress is returned when a link address is a reserved
// broadcast/self address or exceeds link.MaxUsableAddress.
var ErrInvalidLinkAddress = errors.New("config: invalid link address")

// LinkAddress is a validated 16-bit link-layer station address: not one
// of the reserved self/broadcast addresses, and within link.MaxUsableAddress.
type LinkAddress struct {
	value uint16
}

// NewLinkAddress validates addr the way the link layer itself rejects
// reserved destinations (pkg/link.AcceptsDestination).
func NewLinkAddress(addr uint16) (LinkAddress, error) {
	if addr > link.MaxUsableAddress {
		return LinkAddress{}, fmt.Errorf("%w: %d exceeds max usable address %d", ErrInvalidLinkAddress, addr, link.MaxUsableAddress)
	}
	return LinkAddress{value: addr}, nil
}

func (a LinkAddress) Value() uint16 { return a.value }

func (a LinkAddress) String() string { return fmt.Sprintf("%d", a.value) }

// LinkConfig configures one end of a link-layer connection: its own
// station address, its peer's, and whether confirmed data frames are
// used on this link (spec.md §4.1's secondary-station FCB handshake).
type LinkConfig struct {
	// LocalAddress is this station's own link address.
	LocalAddress LinkAddress
	// RemoteAddress is the peer's link address.
	RemoteAddress LinkAddress
	// UseConfirmedDataFrames enables the FCB-toggling confirmed transfer
	// mode at the link layer, independent of application-layer confirms.
	UseConfirmedDataFrames bool
	// AcceptsSelfAddress mirrors link.AddressSelf handling: whether
	// frames destined to 0xFFFC should be treated as addressed to us.
	AcceptsSelfAddress bool
}

// NewLinkConfig validates both addresses and returns a LinkConfig.
func NewLinkConfig(localAddress, remoteAddress uint16, useConfirmedDataFrames bool) (LinkConfig, error) {
	local, err := NewLinkAddress(localAddress)
	if err != nil {
		return LinkConfig{}, fmt.Errorf("local address: %w", err)
	}
	remote, err := NewLinkAddress(remoteAddress)
	if err != nil {
		return LinkConfig{}, fmt.Errorf("remote address: %w", err)
	}
	return LinkConfig{LocalAddress: local, RemoteAddress: remote, UseConfirmedDataFrames: useConfirmedDataFrames}, nil
}
