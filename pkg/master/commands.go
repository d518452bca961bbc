package master

import (
	"fmt"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// allObjects is the qualifier used to read an entire class (g60v1-v4):
// the outstation determines how many objects exist, per spec.md §4.3.
var allObjects = objects.Range{Qualifier: objects.QualifierAllObjects}

// classGroupVariation maps an event class number (1-3) to its g60
// class-scan object.
func classGroupVariation(class uint8) (objects.GroupVariation, error) {
	switch class {
	case 1:
		return objects.ClassData1, nil
	case 2:
		return objects.ClassData2, nil
	case 3:
		return objects.ClassData3, nil
	default:
		return objects.GroupVariation{}, fmt.Errorf("master: invalid event class %d", class)
	}
}

// buildIntegrityScan builds a READ naming static class 0 plus every
// class in classes, the startup (and post-restart) integrity scan of
// spec.md §4.5.
func buildIntegrityScan(buf []byte, seq uint8, classes []uint8) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), app.FuncRead)
	if err != nil {
		return nil, err
	}
	if err := rw.WriteHeader(objects.ClassData0.Group, objects.ClassData0.Variation, allObjects); err != nil {
		return nil, err
	}
	for _, c := range classes {
		gv, err := classGroupVariation(c)
		if err != nil {
			return nil, err
		}
		if err := rw.WriteHeader(gv.Group, gv.Variation, allObjects); err != nil {
			return nil, err
		}
	}
	return rw.Bytes(), nil
}

// buildClassScan builds a READ naming only the given event classes,
// used for a periodic event poll that doesn't need the static scan.
func buildClassScan(buf []byte, seq uint8, classes []uint8) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), app.FuncRead)
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		gv, err := classGroupVariation(c)
		if err != nil {
			return nil, err
		}
		if err := rw.WriteHeader(gv.Group, gv.Variation, allObjects); err != nil {
			return nil, err
		}
	}
	return rw.Bytes(), nil
}

// buildClearRestart builds a WRITE clearing IIN1.7 (DEVICE_RESTART), the
// standard acknowledgment of an observed restart per spec.md §8
// scenario 1.
func buildClearRestart(buf []byte, seq uint8) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), app.FuncWrite)
	if err != nil {
		return nil, err
	}
	idx := uint32(objects.IIN1DeviceRestart)
	if err := rw.WriteHeader(objects.InternalIndications.Group, objects.InternalIndications.Variation, objects.RangeForIndices(idx, idx)); err != nil {
		return nil, err
	}
	return rw.Bytes(), objects.EncodeIINBit(rw.Cursor(), objects.IINBit{Index: objects.IIN1DeviceRestart, Value: false})
}

// buildEnableUnsolicited builds an ENABLE_UNSOLICITED (or
// DISABLE_UNSOLICITED) request naming the given classes, per spec.md
// §4.4's unsolicited vocabulary.
func buildEnableUnsolicited(buf []byte, seq uint8, enable bool, classes []uint8) ([]byte, error) {
	fn := app.FuncEnableUnsolicited
	if !enable {
		fn = app.FuncDisableUnsolicited
	}
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), fn)
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		gv, err := classGroupVariation(c)
		if err != nil {
			return nil, err
		}
		if err := rw.WriteHeader(gv.Group, gv.Variation, allObjects); err != nil {
			return nil, err
		}
	}
	return rw.Bytes(), nil
}

// buildDelayMeasure builds the DELAY_MEASURE request used by non-LAN
// time sync to estimate round-trip latency, per spec.md §4.5.
func buildDelayMeasure(buf []byte, seq uint8) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), app.FuncDelayMeasure)
	if err != nil {
		return nil, err
	}
	return rw.Bytes(), nil
}

// buildRecordCurrentTime builds the RECORD_CURRENT_TIME request LAN time
// sync sends immediately before writing the absolute time, per spec.md
// §4.5.
func buildRecordCurrentTime(buf []byte, seq uint8) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), app.FuncRecordCurrentTime)
	if err != nil {
		return nil, err
	}
	return rw.Bytes(), nil
}

// buildWriteTime builds a WRITE g50v1 (or g50v3, for the LAN procedure)
// carrying an absolute timestamp in milliseconds since the DNP3 epoch.
func buildWriteTime(buf []byte, seq uint8, lan bool, timestamp objects.Timestamp) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), app.FuncWrite)
	if err != nil {
		return nil, err
	}
	gv := objects.TimeAndDate
	if lan {
		gv = objects.TimeAndDateRecorded
	}
	if err := rw.WriteHeader(gv.Group, gv.Variation, objects.RangeForCount(1)); err != nil {
		return nil, err
	}
	return rw.Bytes(), objects.EncodeTimestamp(rw.Cursor(), timestamp)
}

// buildRestart builds a COLD_RESTART or WARM_RESTART request.
func buildRestart(buf []byte, seq uint8, warm bool) ([]byte, error) {
	fn := app.FuncColdRestart
	if warm {
		fn = app.FuncWarmRestart
	}
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), fn)
	if err != nil {
		return nil, err
	}
	return rw.Bytes(), nil
}

// AnalogOutputVariation selects the wire encoding of an analog output
// command (g41), matching the outstation point's configured type.
type AnalogOutputVariation int

const (
	AnalogOutputInt32 AnalogOutputVariation = iota
	AnalogOutputInt16
	AnalogOutputVarFloat32
	AnalogOutputVarFloat64
)

func (v AnalogOutputVariation) groupVariation() objects.GroupVariation {
	switch v {
	case AnalogOutputInt16:
		return objects.AnalogOutputCommand16
	case AnalogOutputVarFloat32:
		return objects.AnalogOutputCommandFloat32
	case AnalogOutputVarFloat64:
		return objects.AnalogOutputCommandFloat64
	default:
		return objects.AnalogOutputCommand32
	}
}

func (v AnalogOutputVariation) encode(w *cursor.Writer, cmd objects.AnalogOutputCommand) error {
	switch v {
	case AnalogOutputInt16:
		return objects.EncodeAnalogOutputCommandInt16(w, cmd)
	case AnalogOutputVarFloat32:
		return objects.EncodeAnalogOutputCommandFloat32(w, cmd)
	case AnalogOutputVarFloat64:
		return objects.EncodeAnalogOutputCommandFloat64(w, cmd)
	default:
		return objects.EncodeAnalogOutputCommandInt32(w, cmd)
	}
}

// buildCROBRequest builds a SELECT, OPERATE, or DIRECT_OPERATE[_NO_ACK]
// request naming a single g12v1 index, per spec.md §4.4's control
// vocabulary.
func buildCROBRequest(buf []byte, seq uint8, fn app.Function, index uint32, crob objects.CROB) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), fn)
	if err != nil {
		return nil, err
	}
	if err := rw.WriteHeader(objects.CROBGroupVariation.Group, objects.CROBGroupVariation.Variation, objects.RangeForIndices(index, index)); err != nil {
		return nil, err
	}
	return rw.Bytes(), objects.EncodeCROB(rw.Cursor(), crob)
}

// buildAnalogOutputRequest builds a SELECT, OPERATE, or
// DIRECT_OPERATE[_NO_ACK] request naming a single analog output index.
func buildAnalogOutputRequest(buf []byte, seq uint8, fn app.Function, variation AnalogOutputVariation, index uint32, cmd objects.AnalogOutputCommand) ([]byte, error) {
	rw, err := app.NewRequestWriter(buf, app.SingleFragment(seq), fn)
	if err != nil {
		return nil, err
	}
	gv := variation.groupVariation()
	if err := rw.WriteHeader(gv.Group, gv.Variation, objects.RangeForIndices(index, index)); err != nil {
		return nil, err
	}
	return rw.Bytes(), variation.encode(rw.Cursor(), cmd)
}
