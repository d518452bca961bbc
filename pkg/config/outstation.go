package config

import "time"

// OutstationFeatures toggles optional outstation behaviors, grounded on
// original_source/dnp3/src/outstation/config.rs::Features.
type OutstationFeatures struct {
	// SelfAddress, if true, makes the outstation also respond to frames
	// addressed to link.AddressSelf. Default false.
	SelfAddress bool
	// Broadcast, if true, makes the outstation process valid broadcast
	// requests. Default true.
	Broadcast bool
	// Unsolicited, if true, allows ENABLE_UNSOLICITED to turn on the
	// unsolicited response state machine. Default true.
	Unsolicited bool
	// RespondToAnyMaster, if true, disables the source-address filter
	// entirely (spec.md §4.4 "Address filtering"). Default false: only
	// Link.RemoteAddress, plus broadcast/self-address when enabled, are
	// accepted.
	RespondToAnyMaster bool
}

// DefaultOutstationFeatures matches the teacher-grounded Rust default:
// self-address off, broadcast and unsolicited on.
func DefaultOutstationFeatures() OutstationFeatures {
	return OutstationFeatures{Broadcast: true, Unsolicited: true}
}

const (
	// DefaultConfirmTimeout is how long the outstation waits for an
	// application confirm before abandoning a multi-fragment response.
	DefaultConfirmTimeout = 5 * time.Second
	// DefaultSelectTimeout bounds how long a SELECT's fingerprint stays
	// valid awaiting the matching OPERATE (spec.md §4.4 select-before-operate).
	DefaultSelectTimeout = 5 * time.Second
	// DefaultUnsolicitedRetryDelay is the fixed delay between unsolicited
	// response retries while awaiting confirmation.
	DefaultUnsolicitedRetryDelay = 5 * time.Second
	// DefaultMaxReadRequestHeaders bounds the number of object headers
	// processed in one READ request, enforced as a floor even if a
	// caller configures a smaller value.
	DefaultMaxReadRequestHeaders = 64
)

// OutstationConfig configures one outstation endpoint's link addressing,
// buffer sizing, timeouts, optional features, and request-size limits.
// Grounded field-for-field on
// original_source/dnp3/src/outstation/config.rs::OutstationConfig.
type OutstationConfig struct {
	Link     LinkConfig
	App      AppConfig
	Features OutstationFeatures

	ConfirmTimeout Timeout
	SelectTimeout  Timeout

	// MaxUnsolicitedRetries bounds unsolicited-response retries; nil
	// means retry without limit, matching the Rust Option<usize>.
	MaxUnsolicitedRetries *int
	UnsolicitedRetryDelay Timeout

	// KeepAliveTimeout is loaded and defaulted here but not read by
	// pkg/outstation or pkg/channel: the outstation sends no keep-alive.
	KeepAliveTimeout *Timeout

	// MaxReadRequestHeaders bounds READ request header count; a value
	// below DefaultMaxReadRequestHeaders is raised to it.
	MaxReadRequestHeaders uint16
	// MaxControlsPerRequest is carried in the configuration but not read
	// by pkg/outstation: the number of controls in a SELECT/OPERATE/
	// DIRECT_OPERATE request is not limited.
	MaxControlsPerRequest uint16
}

// NewOutstationConfig builds an OutstationConfig with the documented
// defaults for everything but the link addressing, matching
// OutstationConfig::new in the grounded source, which leaves addresses
// as the only field without a sensible default.
func NewOutstationConfig(link LinkConfig) OutstationConfig {
	return OutstationConfig{
		Link:                  link,
		App:                   DefaultAppConfig(),
		Features:              DefaultOutstationFeatures(),
		ConfirmTimeout:        MustTimeout(DefaultConfirmTimeout),
		SelectTimeout:         MustTimeout(DefaultSelectTimeout),
		UnsolicitedRetryDelay: MustTimeout(DefaultUnsolicitedRetryDelay),
		KeepAliveTimeout:      timeoutPtr(MustTimeout(60 * time.Second)),
		MaxReadRequestHeaders: DefaultMaxReadRequestHeaders,
	}
}

func timeoutPtr(t Timeout) *Timeout { return &t }
