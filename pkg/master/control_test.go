package master

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

func TestPollEventsNamesOnlyEventClasses(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)

	done := make(chan error, 1)
	assoc.PollEvents(func(err error) { done <- err })

	frame := sender.last(t)
	req, err := app.ParseFragment(frame)
	require.NoError(t, err)
	assert.Equal(t, app.FuncRead, req.Function)
	assert.Len(t, req.Objects, len(assoc.cfg.EventClasses))

	respondSuccess(t, assoc, frame, nil)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for PollEvents completion")
	}
}

func TestRestartDecodesDelay(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)

	done := make(chan struct {
		delay uint16
		err   error
	}, 1)
	assoc.Restart(false, func(delay uint16, err error) {
		done <- struct {
			delay uint16
			err   error
		}{delay, err}
	})

	frame := sender.last(t)
	req, err := app.ParseFragment(frame)
	require.NoError(t, err)
	assert.Equal(t, app.FuncColdRestart, req.Function)

	respondSuccess(t, assoc, frame, func(rw *app.ResponseWriter) {
		require.NoError(t, rw.WriteHeader(objects.TimeDelayCoarse.Group, objects.TimeDelayCoarse.Variation, objects.RangeForCount(1)))
		require.NoError(t, objects.EncodeTimeDelay(rw.Cursor(), 30))
	})

	select {
	case result := <-done:
		require.NoError(t, result.err)
		assert.Equal(t, uint16(30), result.delay)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Restart completion")
	}
}
