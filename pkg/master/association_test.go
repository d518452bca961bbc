package master

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// fakeSender records every frame handed to it and lets a test build the
// matching response off the last one.
type fakeSender struct {
	mu     sync.Mutex
	frames [][]byte
	fail   error
}

func (s *fakeSender) Send(destination uint16, frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.frames = append(s.frames, append([]byte(nil), frame...))
	return nil
}

func (s *fakeSender) last(t *testing.T) []byte {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.frames)
	return s.frames[len(s.frames)-1]
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// fakeHandler implements Handler, recording every callback for
// assertions.
type fakeHandler struct {
	mu              sync.Mutex
	updates         []Update
	restartsSeen    int
	failures        []error
}

func (h *fakeHandler) OnUpdate(assoc *Association, u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, u)
}

func (h *fakeHandler) OnRestartDetected(assoc *Association) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.restartsSeen++
}

func (h *fakeHandler) OnTaskFailed(assoc *Association, task *Task, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = append(h.failures, err)
}

func (h *fakeHandler) failureCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.failures)
}

func newTestAssociation(t *testing.T, sender Sender, handler Handler) *Association {
	t.Helper()
	addr, err := config.NewLinkAddress(1024)
	require.NoError(t, err)
	cfg := config.NewAssociationConfig(addr)
	cfg.AutoTasks = config.AutoTasks{}
	link, err := config.NewLinkConfig(1, addr.Value(), false)
	require.NoError(t, err)
	masterCfg := config.NewMasterConfig(link)
	masterCfg.ResponseTimeout = config.MustTimeout(50 * time.Millisecond)
	return NewAssociation(cfg, masterCfg, sender, handler, nil)
}

func respondSuccess(t *testing.T, assoc *Association, reqFrame []byte, objectsWriter func(rw *app.ResponseWriter)) {
	t.Helper()
	req, err := app.ParseFragment(reqFrame)
	require.NoError(t, err)
	rw, err := app.NewResponseWriter(make([]byte, 256), req.Control.SEQ, false, 0)
	require.NoError(t, err)
	if objectsWriter != nil {
		objectsWriter(rw)
	}
	resp, err := app.ParseFragment(rw.Bytes())
	require.NoError(t, err)
	assoc.HandleResponse(resp)
}

func TestDirectOperateCROBRoundTrip(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)

	done := make(chan ControlResult, 1)
	assoc.DirectOperateCROB(7, objects.CROB{Code: objects.ControlCode{OpType: objects.OpLatchOn}, Count: 1}, false, func(r ControlResult) {
		done <- r
	})

	frame := sender.last(t)
	req, err := app.ParseFragment(frame)
	require.NoError(t, err)
	assert.Equal(t, app.FuncDirectOperate, req.Function)
	require.Len(t, req.Objects, 1)

	respondSuccess(t, assoc, frame, func(rw *app.ResponseWriter) {
		require.NoError(t, rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(7, 7)))
		require.NoError(t, objects.EncodeCROB(rw.Cursor(), objects.CROB{Code: objects.ControlCode{OpType: objects.OpLatchOn}, Count: 1, Status: objects.StatusSuccess}))
	})

	select {
	case result := <-done:
		require.NoError(t, result.Err)
		assert.Equal(t, objects.StatusSuccess, result.Status)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for DirectOperateCROB completion")
	}
}

func TestSelectOperateCROBStopsOnSelectFailure(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)

	done := make(chan ControlResult, 1)
	assoc.SelectOperateCROB(3, objects.CROB{Code: objects.ControlCode{OpType: objects.OpLatchOn}}, func(r ControlResult) {
		done <- r
	})

	selectFrame := sender.last(t)
	respondSuccess(t, assoc, selectFrame, func(rw *app.ResponseWriter) {
		require.NoError(t, rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(3, 3)))
		require.NoError(t, objects.EncodeCROB(rw.Cursor(), objects.CROB{Status: objects.StatusNoSelect}))
	})

	select {
	case result := <-done:
		require.NoError(t, result.Err)
		assert.Equal(t, objects.StatusNoSelect, result.Status)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for SelectOperateCROB completion")
	}
	// Only the SELECT was ever sent; a failed select must not proceed to
	// an OPERATE.
	assert.Equal(t, 1, sender.count())
}

func TestSelectOperateCROBProceedsOnSelectSuccess(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)

	done := make(chan ControlResult, 1)
	crob := objects.CROB{Code: objects.ControlCode{OpType: objects.OpPulseOn}, Count: 1}
	assoc.SelectOperateCROB(3, crob, func(r ControlResult) { done <- r })

	selectFrame := sender.last(t)
	respondSuccess(t, assoc, selectFrame, func(rw *app.ResponseWriter) {
		require.NoError(t, rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(3, 3)))
		crob.Status = objects.StatusSuccess
		require.NoError(t, objects.EncodeCROB(rw.Cursor(), crob))
	})

	require.Eventually(t, func() bool { return sender.count() == 2 }, time.Second, 5*time.Millisecond)
	operateFrame := sender.last(t)
	operateReq, err := app.ParseFragment(operateFrame)
	require.NoError(t, err)
	assert.Equal(t, app.FuncOperate, operateReq.Function)

	respondSuccess(t, assoc, operateFrame, func(rw *app.ResponseWriter) {
		require.NoError(t, rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(3, 3)))
		require.NoError(t, objects.EncodeCROB(rw.Cursor(), crob))
	})

	select {
	case result := <-done:
		require.NoError(t, result.Err)
		assert.Equal(t, objects.StatusSuccess, result.Status)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for operate completion")
	}
}

func TestResponseTimeoutFailsTask(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)

	done := make(chan ControlResult, 1)
	assoc.DirectOperateCROB(1, objects.CROB{}, false, func(r ControlResult) { done <- r })

	select {
	case result := <-done:
		assert.ErrorIs(t, result.Err, ErrResponseTimeout)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for response-timeout failure")
	}
	require.Eventually(t, func() bool { return handler.failureCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDeviceRestartTriggersClearAndRescan(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)
	assoc.cfg.AutoTasks.IntegrityScanOnDeviceRestart = true

	done := make(chan ControlResult, 1)
	assoc.DirectOperateCROB(1, objects.CROB{}, false, func(r ControlResult) { done <- r })

	frame := sender.last(t)
	req, err := app.ParseFragment(frame)
	require.NoError(t, err)
	rw, err := app.NewResponseWriter(make([]byte, 64), req.Control.SEQ, false, 0)
	require.NoError(t, err)
	require.NoError(t, rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(1, 1)))
	require.NoError(t, objects.EncodeCROB(rw.Cursor(), objects.CROB{Status: objects.StatusSuccess}))
	resp, err := app.ParseFragment(rw.Bytes())
	require.NoError(t, err)
	resp.IIN.Set(app.IIN1DeviceRestart)
	assoc.HandleResponse(resp)

	<-done
	require.Eventually(t, func() bool { return handler.restartsSeen == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return sender.count() >= 2 }, time.Second, 5*time.Millisecond)

	clearFrame := sender.last(t)
	clearReq, err := app.ParseFragment(clearFrame)
	require.NoError(t, err)
	assert.Equal(t, app.FuncWrite, clearReq.Function)

	respondSuccess(t, assoc, clearFrame, nil)

	require.Eventually(t, func() bool { return sender.count() >= 3 }, time.Second, 5*time.Millisecond)
	scanFrame := sender.last(t)
	scanReq, err := app.ParseFragment(scanFrame)
	require.NoError(t, err)
	assert.Equal(t, app.FuncRead, scanReq.Function)
}

func TestDeliverUpdatesSplitsFixedSizeRange(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{}
	assoc := newTestAssociation(t, sender, handler)

	rw, err := app.NewResponseWriter(make([]byte, 256), 0, false, 0)
	require.NoError(t, err)
	require.NoError(t, rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(5, 6)))
	require.NoError(t, objects.EncodeCROB(rw.Cursor(), objects.CROB{Status: objects.StatusSuccess}))
	require.NoError(t, objects.EncodeCROB(rw.Cursor(), objects.CROB{Status: objects.StatusTimeout}))
	resp, err := app.ParseFragment(rw.Bytes())
	require.NoError(t, err)

	assoc.deliverUpdates(resp)

	require.Len(t, handler.updates, 2)
	assert.Equal(t, uint32(5), handler.updates[0].Index)
	assert.Equal(t, uint32(6), handler.updates[1].Index)
}
