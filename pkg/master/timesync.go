package master

import (
	"time"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// epochOffset converts a wall-clock time to a DNP3 g50 absolute
// timestamp: milliseconds since the Unix epoch, truncated to the 48-bit
// wire width by EncodeTimestamp.
func epochOffset(t time.Time) objects.Timestamp {
	return objects.Timestamp(t.UnixMilli())
}

// enqueueNonLANTimeSyncLocked runs the round-trip-compensated procedure
// of spec.md §4.5: DELAY_MEASURE estimates one-way propagation delay by
// subtracting the outstation's own reported processing delay from the
// measured round trip, then a WRITE g50v1 carries the master's clock
// read at send time and advanced by that one-way delay, so it lands on
// the outstation reading the correct current instant. Caller holds a.mu.
func (a *Association) enqueueNonLANTimeSyncLocked() {
	var sentAt time.Time
	a.queue.Push(&Task{
		Name:     "delay-measure",
		Priority: PriorityAutoTask,
		Build: func(seq uint8) ([]byte, error) {
			sentAt = time.Now()
			return buildDelayMeasure(make([]byte, 32), seq)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if err := checkIIN(res); err != nil {
				a.handler.OnTaskFailed(a, nil, err)
				return
			}
			roundTrip := time.Since(sentAt)
			processingDelay := decodeProcessingDelay(res.Response)
			travelTime := (roundTrip - processingDelay) / 2
			if travelTime < 0 {
				travelTime = 0
			}
			a.mu.Lock()
			a.enqueueWriteTimeLocked(false, travelTime)
			a.pumpLocked()
			a.mu.Unlock()
		},
	})
}

// decodeProcessingDelay extracts the g52 time delay a DELAY_MEASURE
// response reports, in the fine (millisecond) or coarse (second) unit
// its variation carries.
func decodeProcessingDelay(frag *app.Fragment) time.Duration {
	for _, obj := range frag.Objects {
		gv := obj.Header.GroupVariation()
		if gv != objects.TimeDelayFine && gv != objects.TimeDelayCoarse {
			continue
		}
		delay, err := objects.DecodeTimeDelay(cursor.NewReader(obj.Payload))
		if err != nil {
			continue
		}
		if gv == objects.TimeDelayCoarse {
			return time.Duration(delay) * time.Second
		}
		return time.Duration(delay) * time.Millisecond
	}
	return 0
}

// enqueueLANTimeSyncLocked runs the low-latency procedure of spec.md
// §4.5: RECORD_CURRENT_TIME tells the outstation to note its local clock
// the instant the request arrives; the master then writes its own clock
// reading at send time, assuming a negligible LAN round trip (travel
// time zero). Caller holds a.mu.
func (a *Association) enqueueLANTimeSyncLocked() {
	a.queue.Push(&Task{
		Name:       "record-current-time",
		Priority:   PriorityAutoTask,
		Build:      func(seq uint8) ([]byte, error) { return buildRecordCurrentTime(make([]byte, 8), seq) },
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if err := checkIIN(res); err != nil {
				a.handler.OnTaskFailed(a, nil, err)
				return
			}
			a.mu.Lock()
			a.enqueueWriteTimeLocked(true, 0)
			a.pumpLocked()
			a.mu.Unlock()
		},
	})
}

// enqueueWriteTimeLocked enqueues the WRITE g50 completing whichever
// time-sync procedure ran, reading the master's clock fresh at Build
// time (not at enqueue time, since the task may sit behind others in the
// queue) and advancing it by travelTime. Caller holds a.mu.
func (a *Association) enqueueWriteTimeLocked(lan bool, travelTime time.Duration) {
	a.queue.Push(&Task{
		Name:     "write-time",
		Priority: PriorityAutoTask,
		Build: func(seq uint8) ([]byte, error) {
			return buildWriteTime(make([]byte, 32), seq, lan, epochOffset(time.Now().Add(travelTime)))
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if err := checkIIN(res); err != nil {
				a.handler.OnTaskFailed(a, nil, err)
			}
		},
	})
}
