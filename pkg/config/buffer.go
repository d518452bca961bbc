package config

import (
	"errors"
	"fmt"
)

// ErrBufferTooSmall is returned when a BufferSize is requested below
// MinBufferSize.
var ErrBufferTooSmall = errors.New("config: buffer size too small")

const (
	// MinBufferSize holds at least one full link frame's payload.
	MinBufferSize = 249
	// DefaultBufferSize is the default maximum application-layer
	// fragment size, matching DNP3's conventional default ASDU size.
	DefaultBufferSize = 2048
)

// BufferSize is a validated fragment/reassembly buffer size, grounded on
// original_source/dnp3/src/outstation/config.rs::BufferSize.
type BufferSize struct {
	size int
}

// NewBufferSize validates size against MinBufferSize.
func NewBufferSize(size int) (BufferSize, error) {
	if size < MinBufferSize {
		return BufferSize{}, fmt.Errorf("%w: %d (minimum %d)", ErrBufferTooSmall, size, MinBufferSize)
	}
	return BufferSize{size: size}, nil
}

// DefaultBufferSizeValue returns the DefaultBufferSize wrapped as a
// BufferSize; it always succeeds since DefaultBufferSize > MinBufferSize.
func DefaultBufferSizeValue() BufferSize {
	return BufferSize{size: DefaultBufferSize}
}

func (b BufferSize) Value() int { return b.size }
