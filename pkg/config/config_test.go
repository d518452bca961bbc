package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutRejectsOutOfRange(t *testing.T) {
	_, err := NewTimeout(0)
	assert.ErrorIs(t, err, ErrTimeoutRange)

	_, err = NewTimeout(2 * time.Hour)
	assert.ErrorIs(t, err, ErrTimeoutRange)

	to, err := NewTimeout(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, to.Duration())
}

func TestRetryStrategyRejectsInvertedRange(t *testing.T) {
	_, err := NewRetryStrategy(10*time.Second, time.Second)
	assert.ErrorIs(t, err, ErrRetryRangeInverted)
}

func TestExponentialBackOffDoublesAndCaps(t *testing.T) {
	strategy, err := NewRetryStrategy(time.Second, 4*time.Second)
	require.NoError(t, err)
	b := NewExponentialBackOff(strategy)

	assert.Equal(t, time.Second, b.OnFailure())
	assert.Equal(t, 2*time.Second, b.OnFailure())
	assert.Equal(t, 4*time.Second, b.OnFailure())
	assert.Equal(t, 4*time.Second, b.OnFailure(), "must cap at max_delay")

	b.OnSuccess()
	assert.Equal(t, time.Second, b.OnFailure(), "must restart at min_delay after success")
}

func TestLinkAddressRejectsReservedRange(t *testing.T) {
	_, err := NewLinkAddress(0xFFFC)
	assert.ErrorIs(t, err, ErrInvalidLinkAddress)

	addr, err := NewLinkAddress(1024)
	require.NoError(t, err)
	assert.EqualValues(t, 1024, addr.Value())
}

func TestBufferSizeRejectsBelowMinimum(t *testing.T) {
	_, err := NewBufferSize(10)
	assert.ErrorIs(t, err, ErrBufferTooSmall)

	b, err := NewBufferSize(MinBufferSize)
	require.NoError(t, err)
	assert.Equal(t, MinBufferSize, b.Value())
}

func TestEndpointListAdvanceWrapsAndResets(t *testing.T) {
	list, err := NewEndpointList("a:1", "b:2", "c:3")
	require.NoError(t, err)
	assert.Equal(t, "a:1", list.Current())
	assert.Equal(t, "b:2", list.Advance())
	assert.Equal(t, "c:3", list.Advance())
	assert.Equal(t, "a:1", list.Advance(), "must wrap around")

	list.Advance()
	list.Reset()
	assert.Equal(t, "a:1", list.Current())
}

func TestNewEndpointListRejectsEmpty(t *testing.T) {
	_, err := NewEndpointList()
	assert.ErrorIs(t, err, ErrEmptyEndpointList)
}

const sampleOutstationINI = `
[link]
local_address = 1024
remote_address = 1
use_confirmed_data_frames = true

[app]
max_fragment_size = 2048
rx_buffer_size = 2048

[outstation]
confirm_timeout = 3s
select_timeout = 10s
self_address = true
unsolicited = false
`

func TestLoadOutstationSection(t *testing.T) {
	f, err := Load([]byte(sampleOutstationINI))
	require.NoError(t, err)
	require.NotNil(t, f.Outstation)

	assert.EqualValues(t, 1024, f.Link.LocalAddress.Value())
	assert.EqualValues(t, 1, f.Link.RemoteAddress.Value())
	assert.True(t, f.Link.UseConfirmedDataFrames)

	assert.Equal(t, 3*time.Second, f.Outstation.ConfirmTimeout.Duration())
	assert.Equal(t, 10*time.Second, f.Outstation.SelectTimeout.Duration())
	assert.True(t, f.Outstation.Features.SelfAddress)
	assert.False(t, f.Outstation.Features.Unsolicited)
	assert.True(t, f.Outstation.Features.Broadcast, "unset key must keep the default")
}

const sampleMasterINI = `
[link]
local_address = 1
remote_address = 1024
use_confirmed_data_frames = false

[master]
response_timeout = 2s

[association.outstation-1]
outstation_address = 1024
event_classes = 1, 2, 3
time_sync_mode = lan
integrity_scan_on_startup = true
`

func TestLoadMasterSectionWithAssociations(t *testing.T) {
	f, err := Load([]byte(sampleMasterINI))
	require.NoError(t, err)
	require.NotNil(t, f.Master)
	assert.Equal(t, 2*time.Second, f.Master.ResponseTimeout.Duration())

	require.Contains(t, f.Associations, "outstation-1")
	assoc := f.Associations["outstation-1"]
	assert.EqualValues(t, 1024, assoc.OutstationAddress.Value())
	assert.Equal(t, []uint8{1, 2, 3}, assoc.EventClasses)
	assert.Equal(t, TimeSyncLAN, assoc.TimeSyncMode)
	assert.True(t, assoc.AutoTasks.IntegrityScanOnStartup)
}

func TestLoadRejectsBadLinkAddress(t *testing.T) {
	bad := `
[link]
local_address = 65535
remote_address = 1
`
	_, err := Load([]byte(bad))
	assert.Error(t, err)
}
