package link

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameReaderReadsSequentialFrames(t *testing.T) {
	src := bytes.NewReader(append(append([]byte{}, ackBytes...), resetLinkBytes...))
	r := NewFrameReader(src, ModeClose, 0)

	f1, err := r.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FuncSecAck, f1.Header.Control.Func)

	f2, err := r.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FuncPriResetLinkStates, f2.Header.Control.Func)
}

func TestFrameReaderDiscardModeResyncsPastGarbage(t *testing.T) {
	garbage := []byte{0x00, 0x01, 0x02}
	src := bytes.NewReader(append(append([]byte{}, garbage...), ackBytes...))
	r := NewFrameReader(src, ModeDiscard, 0)

	f, err := r.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FuncSecAck, f.Header.Control.Func)
}

func TestFrameReaderCloseModeFailsOnFramingError(t *testing.T) {
	corrupt := append([]byte{}, resetLinkBytes...)
	corrupt[9] ^= 0xFF
	src := bytes.NewReader(corrupt)
	r := NewFrameReader(src, ModeClose, 0)

	_, err := r.ReadFrame(context.Background())
	require.Error(t, err)
	var ferr *FrameError
	assert.ErrorAs(t, err, &ferr)
}

func TestFrameReaderHandlesSplitReads(t *testing.T) {
	full := append(append([]byte{}, ackBytes...), resetLinkBytes...)
	src := &chunkedReader{data: full, chunk: 3}
	r := NewFrameReader(src, ModeClose, 0)

	f1, err := r.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FuncSecAck, f1.Header.Control.Func)

	f2, err := r.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FuncPriResetLinkStates, f2.Header.Control.Func)
}

// chunkedReader returns at most `chunk` bytes per Read, to exercise the
// frame reader's need-more-bytes loop.
type chunkedReader struct {
	data  []byte
	chunk int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.chunk
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}
