package config

// AppConfig configures the application layer shared by both master and
// outstation endpoints: fragment and reassembly buffer sizing, grounded on
// original_source/dnp3/src/outstation/config.rs's buffer-size fields.
// Decode trace levels are not part of AppConfig; they are set through
// pkg/decode's Levels.
type AppConfig struct {
	// MaxFragmentSize bounds how large a single transmitted fragment may
	// be before the application layer must split it across multiple
	// fragments (spec.md §4.3 multi-fragment response handshake).
	MaxFragmentSize BufferSize
	// RxBufferSize bounds the transport-layer reassembly buffer.
	RxBufferSize BufferSize
}

// DefaultAppConfig returns an AppConfig with DefaultBufferSize on both
// buffers.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		MaxFragmentSize: DefaultBufferSizeValue(),
		RxBufferSize:    DefaultBufferSizeValue(),
	}
}
