package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPrimitives(t *testing.T) {
	buf := make([]byte, 64)
	w := NewWriter(buf)

	require.NoError(t, w.WriteUint8(0x7F))
	require.NoError(t, w.WriteUint16(0xBEEF))
	require.NoError(t, w.WriteUint24(0x00ABCDEF&0xFFFFFF))
	require.NoError(t, w.WriteUint32(0xCAFEBABE))
	require.NoError(t, w.WriteUint48Millis(1_700_000_000_123))
	require.NoError(t, w.WriteInt16(-5))
	require.NoError(t, w.WriteInt32(-70000))
	require.NoError(t, w.WriteFloat32(3.5))
	require.NoError(t, w.WriteFloat64(-2.25))

	r := NewReader(w.Written())

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.EqualValues(t, 0x7F, u8)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.EqualValues(t, 0xBEEF, u16)

	u24, err := r.ReadUint24()
	require.NoError(t, err)
	assert.EqualValues(t, 0xABCDEF, u24)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.EqualValues(t, 0xCAFEBABE, u32)

	ms, err := r.ReadUint48Millis()
	require.NoError(t, err)
	assert.EqualValues(t, 1_700_000_000_123, ms)

	i16, err := r.ReadInt16()
	require.NoError(t, err)
	assert.EqualValues(t, -5, i16)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.EqualValues(t, -70000, i32)

	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)

	assert.Zero(t, r.Remaining())
}

func TestUnderflowAndOverflowAreErrorsNotPanics(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint16()
	assert.ErrorIs(t, err, ErrUnderflow)

	w := NewWriter(make([]byte, 1))
	err = w.WriteUint16(1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestWriterResetDiscardsTail(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWriter(buf)
	mark := w.Position()
	require.NoError(t, w.WriteUint32(1))
	w.Reset(mark)
	assert.Zero(t, w.Position())
}
