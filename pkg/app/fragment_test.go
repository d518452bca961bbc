package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dnp3/godnp3/pkg/objects"
)

func TestParseReadClass0Request(t *testing.T) {
	// C0 01 3C 01 06 -- READ, class 0, qualifier all-objects
	data := []byte{0xC0, 0x01, 0x3C, 0x01, 0x06}
	frag, err := ParseFragment(data)
	require.NoError(t, err)
	assert.Equal(t, FuncRead, frag.Function)
	assert.True(t, frag.Control.FIR)
	assert.True(t, frag.Control.FIN)
	assert.False(t, frag.HasIIN)
	require.Len(t, frag.Objects, 1)
	assert.Equal(t, objects.GroupVariation{Group: 60, Variation: 1}, frag.Objects[0].Header.GroupVariation())
	assert.Empty(t, frag.Objects[0].Payload)
}

func TestParseWriteIINBitRequest(t *testing.T) {
	// C0 02 50 01 00 07 07 00 -- WRITE g80v1 index 7 value 0
	data := []byte{0xC0, 0x02, 0x50, 0x01, 0x00, 0x07, 0x07, 0x00}
	frag, err := ParseFragment(data)
	require.NoError(t, err)
	assert.Equal(t, FuncWrite, frag.Function)
	require.Len(t, frag.Objects, 1)
	obj := frag.Objects[0]
	assert.Equal(t, uint8(80), obj.Header.Group)
	assert.Equal(t, uint8(1), obj.Header.Variation)
	assert.EqualValues(t, 7, obj.Header.Range.Start)
	assert.EqualValues(t, 7, obj.Header.Range.Stop)
	require.Len(t, obj.Payload, 1)
	assert.Equal(t, byte(0), obj.Payload[0])
}

func TestParseResponseCarriesIIN(t *testing.T) {
	// C0 81 80 00 -- empty response, IIN1.7 (DEVICE_RESTART) set
	data := []byte{0xC0, 0x81, 0x80, 0x00}
	frag, err := ParseFragment(data)
	require.NoError(t, err)
	assert.True(t, frag.HasIIN)
	assert.True(t, frag.IIN.Has(IIN1DeviceRestart))
	assert.Empty(t, frag.Objects)
}

func TestConfirmWithUNSIsNotRejected(t *testing.T) {
	data := []byte{0xD0, 0x00} // CONFIRM, FIR=FIN=1, UNS=1 (unsolicited confirm)
	frag, err := ParseFragment(data)
	require.NoError(t, err)
	assert.Equal(t, FuncConfirm, frag.Function)
	assert.True(t, frag.Control.UNS)
}

func TestRequestWithCONSetIsRejected(t *testing.T) {
	data := []byte{0xE0, 0x01, 0x3C, 0x01, 0x06} // READ with CON=1
	_, err := ParseFragment(data)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestWriteReadClass0RequestRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	rw, err := NewRequestWriter(buf, SingleFragment(0), FuncRead)
	require.NoError(t, err)
	require.NoError(t, rw.WriteHeader(60, 1, objects.Range{Qualifier: objects.QualifierAllObjects}))

	frag, err := ParseFragment(rw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FuncRead, frag.Function)
	require.Len(t, frag.Objects, 1)
}

func TestResponseWriterSingleFragment(t *testing.T) {
	buf := make([]byte, 64)
	var iin IIN
	iin.Set(IIN1DeviceRestart)
	rw, err := NewResponseWriter(buf, 3, false, iin)
	require.NoError(t, err)
	require.NoError(t, rw.WriteHeader(60, 1, objects.Range{Qualifier: objects.QualifierAllObjects}))
	rw.MarkFinal(false)

	frag, err := ParseFragment(rw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FuncResponse, frag.Function)
	assert.EqualValues(t, 3, frag.Control.SEQ)
	assert.True(t, frag.Control.FIN)
	assert.False(t, frag.Control.CON)
	assert.True(t, frag.IIN.Has(IIN1DeviceRestart))
}

func TestUnsolicitedResponseSetsUNSAndFunction(t *testing.T) {
	buf := make([]byte, 64)
	rw, err := NewResponseWriter(buf, 0, true, 0)
	require.NoError(t, err)
	rw.MarkFinal(true)

	frag, err := ParseFragment(rw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FuncUnsolicitedResponse, frag.Function)
	assert.True(t, frag.Control.UNS)
	assert.True(t, frag.Control.CON)
}
