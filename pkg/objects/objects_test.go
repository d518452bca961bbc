package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dnp3/godnp3/pkg/cursor"
)

func TestBinaryPackedRoundTrip(t *testing.T) {
	values := []bool{true, false, true, true, false, false, false, true, true}
	buf := make([]byte, 8)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeBinaryPacked(w, values))

	r := cursor.NewReader(w.Written())
	out, err := DecodeBinaryPacked(r, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, out)
}

func TestDoubleBitPackedRoundTrip(t *testing.T) {
	states := []DoubleBitState{DoubleBitOn, DoubleBitOff, DoubleBitIndeterminate, DoubleBitIntermediate, DoubleBitOn}
	buf := make([]byte, 8)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeDoubleBitPacked(w, states))

	r := cursor.NewReader(w.Written())
	out, err := DecodeDoubleBitPacked(r, len(states))
	require.NoError(t, err)
	assert.Equal(t, states, out)
}

func TestBinaryInputFlagsRoundTrip(t *testing.T) {
	in := BinaryInput{Value: true, Flags: GoodOnlineFlags | FlagChatterFilter}
	buf := make([]byte, 8)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeBinaryInput(w, in))

	out, err := DecodeBinaryInput(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, in.Value, out.Value)
	assert.True(t, out.Flags.Online())
	assert.True(t, out.Flags.ChatterFilter())
}

func TestDoubleBitInputRoundTrip(t *testing.T) {
	in := DoubleBitInput{State: DoubleBitOn, Flags: GoodOnlineFlags}
	buf := make([]byte, 8)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeDoubleBitInput(w, in))

	out, err := DecodeDoubleBitInput(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, DoubleBitOn, out.State)
	assert.True(t, out.Flags.Online())
}

func TestCounterRoundTrips(t *testing.T) {
	c := Counter{Value: 123456, Flags: GoodOnlineFlags | FlagRollover}
	buf := make([]byte, 8)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeCounter32(w, c))
	out, err := DecodeCounter32(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, c, out)

	c16 := Counter{Value: 4242, Flags: GoodOnlineFlags}
	buf2 := make([]byte, 8)
	w2 := cursor.NewWriter(buf2)
	require.NoError(t, EncodeCounter16(w2, c16))
	out16, err := DecodeCounter16(cursor.NewReader(w2.Written()))
	require.NoError(t, err)
	assert.Equal(t, c16, out16)
}

func TestAnalogFloatRoundTrips(t *testing.T) {
	a := AnalogInput{Value: 3.5, Flags: GoodOnlineFlags}
	buf := make([]byte, 16)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeAnalogFloat64(w, a))
	out, err := DecodeAnalogFloat64(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, a, out)

	buf32 := make([]byte, 16)
	w32 := cursor.NewWriter(buf32)
	require.NoError(t, EncodeAnalogFloat32(w32, a))
	out32, err := DecodeAnalogFloat32(cursor.NewReader(w32.Written()))
	require.NoError(t, err)
	assert.Equal(t, a.Value, out32.Value)
}

func TestCROBRoundTrip(t *testing.T) {
	c := CROB{
		Code:    ControlCode{OpType: OpLatchOn, TCC: TCCClose, Queue: false, Clear: false},
		Count:   1,
		OnTime:  1000,
		OffTime: 0,
		Status:  StatusSuccess,
	}
	buf := make([]byte, 16)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeCROB(w, c))
	out, err := DecodeCROB(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, c, out)
	assert.True(t, c.Equal(out))
}

func TestControlCodeByteLayout(t *testing.T) {
	cc := ControlCode{OpType: OpLatchOn, TCC: TCCTrip, Clear: true, Queue: true}
	b := cc.ToByte()
	assert.Equal(t, cc, ParseControlCode(b))
}

func TestAnalogOutputCommandRoundTrip(t *testing.T) {
	cmd := AnalogOutputCommand{Value: 42, Status: StatusSuccess}
	buf := make([]byte, 16)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeAnalogOutputCommandInt32(w, cmd))
	out, err := DecodeAnalogOutputCommandInt32(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, cmd, out)
	assert.True(t, cmd.Equal(out))
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := Timestamp(1_700_000_000_123)
	buf := make([]byte, 8)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeTimestamp(w, ts))
	out, err := DecodeTimestamp(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, ts, out)
}

func TestIINBitRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeIINBit(w, IINBit{Index: IIN1DeviceRestart, Value: false}))
	out, err := DecodeIINBit(cursor.NewReader(w.Written()), IIN1DeviceRestart)
	require.NoError(t, err)
	assert.Equal(t, IINBit{Index: IIN1DeviceRestart, Value: false}, out)
}

func TestOctetStringRoundTrip(t *testing.T) {
	s := OctetString("hello!!!")
	buf := make([]byte, 16)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeOctetString(w, s))
	out, err := DecodeOctetString(cursor.NewReader(w.Written()), len(s))
	require.NoError(t, err)
	assert.Equal(t, s, out)
}

func TestDeviceAttributeRoundTrip(t *testing.T) {
	attr := VisibleStringAttribute(AttrDeviceManufacturerName, "Acme Corp")
	buf := make([]byte, 64)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeDeviceAttribute(w, attr))
	out, err := DecodeDeviceAttribute(cursor.NewReader(w.Written()), attr.Variation)
	require.NoError(t, err)
	assert.Equal(t, attr.DataType, out.DataType)
	assert.Equal(t, attr.Data, out.Data)
}

func TestFileCommandRoundTrip(t *testing.T) {
	fc := FileCommand{
		Created:      Timestamp(1000),
		Permissions:  Permissions{Owner: PermissionSet{Read: true, Write: true}},
		AuthKey:      0xDEADBEEF,
		FileSize:     4096,
		Mode:         FileModeRead,
		MaxBlockSize: 2048,
		RequestID:    7,
		FileName:     "events.log",
	}
	buf := make([]byte, 128)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeFileCommand(w, fc))
	out, err := DecodeFileCommand(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, fc, out)
}

func TestFileCommandStatusMatchesKnownBytes(t *testing.T) {
	// Verified against the g70v4 wire encoding in the reference
	// implementation's test vectors.
	object := FileCommandStatus{
		FileHandle:   0x01020304,
		FileSize:     0xAABBCCDD,
		MaxBlockSize: 1024,
		RequestID:    42,
		Status:       NewFileStatus(3),
		Text:         "wat",
	}
	want := []byte{
		4, 3, 2, 1,
		0xDD, 0xCC, 0xBB, 0xAA,
		0, 4,
		42, 0,
		3,
		'w', 'a', 't',
	}

	buf := make([]byte, 64)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeFileCommandStatus(w, object))
	assert.Equal(t, want, w.Written())

	out, err := DecodeFileCommandStatus(cursor.NewReader(want))
	require.NoError(t, err)
	assert.Equal(t, object, out)
}

func TestFileStatusReservedRoundTrip(t *testing.T) {
	s := NewFileStatus(200)
	value, reserved := s.Reserved()
	assert.True(t, reserved)
	assert.EqualValues(t, 200, value)
	assert.Equal(t, "Reserved(200)", s.String())
}

func TestFileTransportDataLastBlockFlag(t *testing.T) {
	v := FileTransportData{FileHandle: 1, BlockNumber: 5, LastBlock: true, Data: []byte{1, 2, 3}}
	buf := make([]byte, 32)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeFileTransportData(w, v))
	out, err := DecodeFileTransportData(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, v, out)
}

func TestLookupKnowsAllCoreGroups(t *testing.T) {
	for _, gv := range []GroupVariation{
		BinaryInputFlags, DoubleBitInputFlags, BinaryOutputFlags, CROBGroupVariation,
		Counter32Flags, AnalogInputFloat64Flags, AnalogOutputCommand32,
		TimeAndDate, InternalIndications,
	} {
		_, err := Lookup(gv)
		assert.NoError(t, err, gv.String())
	}

	_, err := Lookup(GroupVariation{Group: 110, Variation: 6})
	require.NoError(t, err)

	_, err = Lookup(GroupVariation{Group: 99, Variation: 99})
	assert.ErrorIs(t, err, ErrUnknownVariation)
}

func TestRangeQualifierRoundTrip(t *testing.T) {
	rng := RangeForIndices(2, 9)
	buf := make([]byte, 8)
	w := cursor.NewWriter(buf)
	require.NoError(t, WriteRange(w, rng))

	out, err := ParseRange(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, rng, out)
	assert.EqualValues(t, 8, out.NumObjects())
}

func TestRangeRejectsInvertedBounds(t *testing.T) {
	buf := []byte{byte(QualifierRange1Byte), 9, 2}
	_, err := ParseRange(cursor.NewReader(buf))
	assert.ErrorIs(t, err, ErrBadQualifier)
}

func TestAnalogOutputStatusRoundTrips(t *testing.T) {
	a := AnalogOutputStatus{Value: 123.5, Flags: GoodOnlineFlags}

	buf := make([]byte, 9)
	w := cursor.NewWriter(buf)
	require.NoError(t, EncodeAnalogOutputStatusFloat64(w, a))
	out, err := DecodeAnalogOutputStatusFloat64(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.Equal(t, a, out)

	w = cursor.NewWriter(buf)
	require.NoError(t, EncodeAnalogOutputStatusInt16(w, AnalogOutputStatus{Value: -42, Flags: GoodOnlineFlags}))
	out, err = DecodeAnalogOutputStatusInt16(cursor.NewReader(w.Written()))
	require.NoError(t, err)
	assert.EqualValues(t, -42, out.Value)
}
