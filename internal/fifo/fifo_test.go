package fifo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadRoundTrip(t *testing.T) {
	f := NewFifo(8)
	n := f.Write([]byte{1, 2, 3, 4})
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, f.GetOccupied())

	out := make([]byte, 4)
	read := f.Read(out)
	assert.Equal(t, 4, read)
	assert.Equal(t, []byte{1, 2, 3, 4}, out)
	assert.Equal(t, 0, f.GetOccupied())
}

func TestWriteStopsAtCapacity(t *testing.T) {
	f := NewFifo(4)
	n := f.Write([]byte{1, 2, 3, 4, 5, 6})
	assert.Less(t, n, 6)
}

func TestAltPeekDoesNotConsumeUntilFinish(t *testing.T) {
	f := NewFifo(16)
	f.Write([]byte{1, 2, 3, 4, 5})

	skipped := f.AltBegin(2)
	assert.Equal(t, 2, skipped)

	peek := make([]byte, 3)
	n := f.AltRead(peek)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{3, 4, 5}, peek)

	// nothing committed yet
	assert.Equal(t, 5, f.GetOccupied())

	f.AltFinish()
	assert.Equal(t, 0, f.GetOccupied())
}

func TestResetEmptiesBuffer(t *testing.T) {
	f := NewFifo(8)
	f.Write([]byte{1, 2, 3})
	f.Reset()
	assert.Equal(t, 0, f.GetOccupied())
}
