package config

import "time"

// MasterConfig configures a master-side channel: its own link/app
// settings and the response timeout applied to every task's request,
// per spec.md §4.5's "Request lifecycle" (response_timeout). Per-
// association settings live separately in AssociationConfig since one
// channel can carry many associations.
type MasterConfig struct {
	Link LinkConfig
	App  AppConfig

	// ResponseTimeout bounds how long a task waits for a matching
	// response before failing with ResponseTimeout.
	ResponseTimeout Timeout
}

// DefaultResponseTimeout matches the outstation's DefaultConfirmTimeout;
// both sides wait the same default window for the other to answer.
const DefaultResponseTimeout = 5 * time.Second

// NewMasterConfig builds a MasterConfig with the default response
// timeout and app settings, leaving link addressing to the caller since
// there is no sensible default station address.
func NewMasterConfig(link LinkConfig) MasterConfig {
	return MasterConfig{
		Link:            link,
		App:             DefaultAppConfig(),
		ResponseTimeout: MustTimeout(DefaultResponseTimeout),
	}
}

// AutoTasks toggles the automatic follow-up tasks an association runs on
// startup and on IIN-driven triggers, per spec.md §4.5 ("Association...
// auto-features").
type AutoTasks struct {
	// IntegrityScanOnStartup runs a class-0-plus-events READ once the
	// association comes online.
	IntegrityScanOnStartup bool
	// IntegrityScanOnDeviceRestart re-runs the integrity scan after an
	// IIN DEVICE_RESTART is observed, alongside the clear-restart WRITE.
	IntegrityScanOnDeviceRestart bool
	// EnableUnsolicitedOnStartup sends ENABLE_UNSOLICITED for the
	// association's configured event classes on startup.
	EnableUnsolicitedOnStartup bool
	// TimeSyncOnStartup runs the LAN or non-LAN time-sync procedure on
	// startup, per spec.md §4.5.
	TimeSyncOnStartup bool
}

// DefaultAutoTasks enables the full startup sequence, run in the order
// master.Association.Start enqueues it: time sync, then integrity scan,
// then enable-unsolicited; re-running the integrity scan after a device
// restart.
func DefaultAutoTasks() AutoTasks {
	return AutoTasks{
		IntegrityScanOnStartup:       true,
		IntegrityScanOnDeviceRestart: true,
		EnableUnsolicitedOnStartup:   true,
		TimeSyncOnStartup:            true,
	}
}

// TimeSyncMode selects the time-sync procedure an association runs: LAN time sync
// (RECORD_CURRENT_TIME then WRITE g50v3) is lower-latency but assumes a
// negligible and symmetric network delay; non-LAN time sync
// (DELAY_MEASURE then WRITE g50v1) compensates for round-trip time.
type TimeSyncMode int

const (
	TimeSyncNonLAN TimeSyncMode = iota
	TimeSyncLAN
)

// AssociationConfig configures one master-to-outstation logical link:
// the outstation's link address, its event-class subscription for
// unsolicited/integrity reads, and its auto-task behavior. Grounded on
// spec.md §3's Association entity.
type AssociationConfig struct {
	OutstationAddress LinkAddress

	// EventClasses are the classes (1-3) included in the integrity scan
	// and in ENABLE_UNSOLICITED requests.
	EventClasses []uint8

	AutoTasks    AutoTasks
	TimeSyncMode TimeSyncMode

	// KeepAliveInterval, if non-nil, triggers a keep-alive task after
	// this much channel idle time for this association.
	KeepAliveInterval *Timeout
}

// NewAssociationConfig builds an AssociationConfig with all three event
// classes subscribed and the default auto-task sequence.
func NewAssociationConfig(outstationAddress LinkAddress) AssociationConfig {
	return AssociationConfig{
		OutstationAddress: outstationAddress,
		EventClasses:      []uint8{1, 2, 3},
		AutoTasks:         DefaultAutoTasks(),
		TimeSyncMode:      TimeSyncNonLAN,
	}
}
