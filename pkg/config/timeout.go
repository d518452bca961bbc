// Package config holds small, independently validated configuration
// objects for links, applications, outstations, masters, and
// associations, mirroring the teacher's pkg/config package of focused
// config types (config.Heartbeat, config.Sync, config.PDOConfiguration)
// rather than one monolithic settings struct.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeoutRange is returned when a Timeout falls outside [MinTimeout,
// MaxTimeout].
var ErrTimeoutRange = errors.New("config: timeout out of range")

const (
	// MinTimeout is the shortest duration accepted anywhere a Timeout is
	// required; shorter than this and retries/polling would thrash.
	MinTimeout = time.Millisecond
	// MaxTimeout is the longest duration accepted; a session waiting
	// longer than this for anything is almost certainly misconfigured.
	MaxTimeout = time.Hour
)

// Timeout is a time.Duration validated to lie within [MinTimeout,
// MaxTimeout], used for response timeouts, select timeouts, confirm
// timeouts, and keep-alive intervals throughout pkg/master and
// pkg/outstation.
type Timeout struct {
	d time.Duration
}

// NewTimeout validates d and wraps it.
func NewTimeout(d time.Duration) (Timeout, error) {
	if d < MinTimeout || d > MaxTimeout {
		return Timeout{}, fmt.Errorf("%w: %s (must be within [%s, %s])", ErrTimeoutRange, d, MinTimeout, MaxTimeout)
	}
	return Timeout{d: d}, nil
}

// MustTimeout is NewTimeout but panics on an invalid duration, for use
// with compile-time-constant defaults.
func MustTimeout(d time.Duration) Timeout {
	t, err := NewTimeout(d)
	if err != nil {
		panic(err)
	}
	return t
}

// Duration returns the validated duration.
func (t Timeout) Duration() time.Duration { return t.d }

func (t Timeout) String() string { return t.d.String() }
