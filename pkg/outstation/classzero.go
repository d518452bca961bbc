package outstation

import (
	"sort"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// EncodeClassZero writes every configured point's current static value
// into rw, one object header per contiguous run of indices within a
// family, matching a class-0 READ response (spec.md §4.4's integrity
// scan target).
func (db *Database) EncodeClassZero(rw *app.ResponseWriter) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := encodeRun(rw, sortedKeys(db.binaryInputs), func(rw *app.ResponseWriter, idx uint32) error {
		return objects.EncodeBinaryInput(rw.Cursor(), db.binaryInputs[idx].value)
	}, objects.BinaryInputFlags); err != nil {
		return err
	}
	if err := encodeRun(rw, sortedKeys(db.doubleBitInputs), func(rw *app.ResponseWriter, idx uint32) error {
		return objects.EncodeDoubleBitInput(rw.Cursor(), db.doubleBitInputs[idx].value)
	}, objects.DoubleBitInputFlags); err != nil {
		return err
	}
	if err := encodeRun(rw, sortedKeys(db.binaryOutputs), func(rw *app.ResponseWriter, idx uint32) error {
		return objects.EncodeBinaryOutputStatus(rw.Cursor(), db.binaryOutputs[idx].value)
	}, objects.BinaryOutputFlags); err != nil {
		return err
	}
	if err := encodeRun(rw, sortedKeys(db.counters), func(rw *app.ResponseWriter, idx uint32) error {
		return objects.EncodeCounter32(rw.Cursor(), db.counters[idx].value)
	}, objects.Counter32Flags); err != nil {
		return err
	}
	if err := encodeRun(rw, sortedKeys(db.analogInputs), func(rw *app.ResponseWriter, idx uint32) error {
		return objects.EncodeAnalogFloat64(rw.Cursor(), db.analogInputs[idx].value)
	}, objects.AnalogInputFloat64Flags); err != nil {
		return err
	}
	if err := encodeRun(rw, sortedKeys(db.analogOutputs), func(rw *app.ResponseWriter, idx uint32) error {
		return objects.EncodeAnalogOutputStatusFloat64(rw.Cursor(), db.analogOutputs[idx].value)
	}, objects.AnalogOutputStatusFloat64); err != nil {
		return err
	}
	return nil
}

func sortedKeys[T any](m map[uint32]*T) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// encodeRun groups consecutive indices into single headers and calls
// encodeOne for each point's value, in index order.
func encodeRun(rw *app.ResponseWriter, keys []uint32, encodeOne func(rw *app.ResponseWriter, idx uint32) error, gv objects.GroupVariation) error {
	i := 0
	for i < len(keys) {
		start := keys[i]
		j := i
		for j+1 < len(keys) && keys[j+1] == keys[j]+1 {
			j++
		}
		stop := keys[j]
		if err := rw.WriteHeader(gv.Group, gv.Variation, objects.RangeForIndices(start, stop)); err != nil {
			return err
		}
		for k := i; k <= j; k++ {
			if err := encodeOne(rw, keys[k]); err != nil {
				return err
			}
		}
		i = j + 1
	}
	return nil
}
