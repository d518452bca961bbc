package outstation

import (
	"sync"

	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// PointClass assigns a point to an event class and names the family's
// static group/variation, from which the event variation is derived.
// Class-0 (static) responses use one fixed variation per family and do
// not read StaticVariation. Event variations are fixed to the "no time"
// wire format for each family,
// the simplification recorded in DESIGN.md (time-tagged events are a
// response-builder concern layered on top, not a database concern).
type PointClass struct {
	Class           objects.Class
	StaticVariation objects.GroupVariation
}

type binaryInputPoint struct {
	value objects.BinaryInput
	class PointClass
}

type doubleBitInputPoint struct {
	value objects.DoubleBitInput
	class PointClass
}

type counterPoint struct {
	value objects.Counter
	class PointClass
}

type analogInputPoint struct {
	value    objects.AnalogInput
	class    PointClass
	deadband float64
}

type binaryOutputPoint struct {
	value objects.BinaryOutputStatus
	class PointClass
}

type analogOutputPoint struct {
	value objects.AnalogOutputStatus
	class PointClass
}

// Database is the outstation's static point store: the latest value of
// every configured point, shared between the session task (which reads
// it to build responses) and external updaters (which write new
// measurements), guarded by a single mutex held across an update and its
// event enqueue. Grounded on pkg/od.ObjectDictionary's map-of-entries
// plus the sync.Mutex guard pattern in pkg/node.BaseNode.
type Database struct {
	mu     sync.Mutex
	events *EventBuffer

	binaryInputs    map[uint32]*binaryInputPoint
	doubleBitInputs map[uint32]*doubleBitInputPoint
	counters        map[uint32]*counterPoint
	analogInputs    map[uint32]*analogInputPoint
	binaryOutputs   map[uint32]*binaryOutputPoint
	analogOutputs   map[uint32]*analogOutputPoint
}

// NewDatabase creates an empty Database whose updates enqueue events
// into the given buffer.
func NewDatabase(events *EventBuffer) *Database {
	return &Database{
		events:          events,
		binaryInputs:    make(map[uint32]*binaryInputPoint),
		doubleBitInputs: make(map[uint32]*doubleBitInputPoint),
		counters:        make(map[uint32]*counterPoint),
		analogInputs:    make(map[uint32]*analogInputPoint),
		binaryOutputs:   make(map[uint32]*binaryOutputPoint),
		analogOutputs:   make(map[uint32]*analogOutputPoint),
	}
}

// AddBinaryInput configures a binary input point at index with its
// initial value and event class.
func (db *Database) AddBinaryInput(index uint32, class PointClass, initial objects.BinaryInput) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.binaryInputs[index] = &binaryInputPoint{value: initial, class: class}
}

// AddDoubleBitInput configures a double-bit input point.
func (db *Database) AddDoubleBitInput(index uint32, class PointClass, initial objects.DoubleBitInput) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.doubleBitInputs[index] = &doubleBitInputPoint{value: initial, class: class}
}

// AddCounter configures a counter point.
func (db *Database) AddCounter(index uint32, class PointClass, initial objects.Counter) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.counters[index] = &counterPoint{value: initial, class: class}
}

// AddAnalogInput configures an analog input point with a dead-band:
// updates whose value changes by less than deadband do not generate an
// event, per spec.md's g34 dead-band semantics.
func (db *Database) AddAnalogInput(index uint32, class PointClass, deadband float64, initial objects.AnalogInput) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.analogInputs[index] = &analogInputPoint{value: initial, class: class, deadband: deadband}
}

// AddBinaryOutput configures a binary output status point (the
// reported-back state of a CROB-controlled point).
func (db *Database) AddBinaryOutput(index uint32, class PointClass, initial objects.BinaryOutputStatus) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.binaryOutputs[index] = &binaryOutputPoint{value: initial, class: class}
}

// AddAnalogOutput configures an analog output status point.
func (db *Database) AddAnalogOutput(index uint32, class PointClass, initial objects.AnalogOutputStatus) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.analogOutputs[index] = &analogOutputPoint{value: initial, class: class}
}

// Transaction runs fn holding the database's single mutex, so a value
// update and its corresponding event enqueue commit as one atomic step,
// matching spec.md §5's "Database sharing" guarded-transaction rule.
func (db *Database) Transaction(fn func(tx *Update)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	fn(&Update{db: db})
}

// Update is the transaction handle passed into Database.Transaction; its
// methods must only be called from within that callback.
type Update struct {
	db *Database
}

// UpdateBinaryInput stores a new value for index and, if the value or
// flags changed, enqueues an event.
func (u *Update) UpdateBinaryInput(index uint32, value objects.BinaryInput) {
	p, ok := u.db.binaryInputs[index]
	if !ok {
		return
	}
	if p.value == value {
		return
	}
	p.value = value
	u.enqueue(p.class, index, func(w *cursor.Writer) error { return objects.EncodeBinaryInput(w, value) })
}

// UpdateDoubleBitInput stores a new value and enqueues an event on
// change.
func (u *Update) UpdateDoubleBitInput(index uint32, value objects.DoubleBitInput) {
	p, ok := u.db.doubleBitInputs[index]
	if !ok {
		return
	}
	if p.value == value {
		return
	}
	p.value = value
	u.enqueue(p.class, index, func(w *cursor.Writer) error { return objects.EncodeDoubleBitInput(w, value) })
}

// UpdateCounter stores a new value and enqueues an event on change.
func (u *Update) UpdateCounter(index uint32, value objects.Counter) {
	p, ok := u.db.counters[index]
	if !ok {
		return
	}
	if p.value == value {
		return
	}
	p.value = value
	u.enqueue(p.class, index, func(w *cursor.Writer) error { return objects.EncodeCounter32(w, value) })
}

// UpdateAnalogInput stores a new value and enqueues an event only if the
// value moved by at least the point's configured dead-band, or its
// flags changed.
func (u *Update) UpdateAnalogInput(index uint32, value objects.AnalogInput) {
	p, ok := u.db.analogInputs[index]
	if !ok {
		return
	}
	delta := value.Value - p.value.Value
	if delta < 0 {
		delta = -delta
	}
	if delta < p.deadband && value.Flags == p.value.Flags {
		p.value = value
		return
	}
	p.value = value
	u.enqueue(p.class, index, func(w *cursor.Writer) error { return objects.EncodeAnalogFloat64(w, objects.AnalogInput{Value: value.Value, Flags: value.Flags}) })
}

// UpdateBinaryOutput stores a new output status and enqueues an event on
// change.
func (u *Update) UpdateBinaryOutput(index uint32, value objects.BinaryOutputStatus) {
	p, ok := u.db.binaryOutputs[index]
	if !ok {
		return
	}
	if p.value == value {
		return
	}
	p.value = value
	u.enqueue(p.class, index, func(w *cursor.Writer) error { return objects.EncodeBinaryOutputStatus(w, value) })
}

// UpdateAnalogOutput stores a new output status and enqueues an event on
// change.
func (u *Update) UpdateAnalogOutput(index uint32, value objects.AnalogOutputStatus) {
	p, ok := u.db.analogOutputs[index]
	if !ok {
		return
	}
	if p.value == value {
		return
	}
	p.value = value
	u.enqueue(p.class, index, func(w *cursor.Writer) error { return objects.EncodeAnalogOutputStatusFloat64(w, value) })
}

func (u *Update) enqueue(class PointClass, index uint32, encode func(w *cursor.Writer) error) {
	if u.db.events == nil {
		return
	}
	buf := make([]byte, 16)
	w := cursor.NewWriter(buf)
	if err := encode(w); err != nil {
		return
	}
	u.db.events.Enqueue(class.Class, eventVariationFor(class.StaticVariation), index, w.Written())
}

// eventVariationFor maps a family's static variation to its
// corresponding "no time" event variation (g1->g2, g3->g4, g10->g11,
// g20->g22, g30->g32, g40->g42).
func eventVariationFor(static objects.GroupVariation) objects.GroupVariation {
	switch static.Group {
	case 1:
		return objects.BinaryInputEventNoTime
	case 3:
		return objects.DoubleBitEventNoTime
	case 10:
		return objects.BinaryOutputEventNoTime
	case 20:
		return objects.CounterEvent32NoTime
	case 30:
		return objects.AnalogInputEventFloat64NoTime
	case 40:
		return objects.AnalogOutputEventFloat64NoTime
	default:
		return static
	}
}

// BinaryInput returns the current value of a binary input point.
func (db *Database) BinaryInput(index uint32) (objects.BinaryInput, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.binaryInputs[index]
	if !ok {
		return objects.BinaryInput{}, false
	}
	return p.value, true
}

// AnalogInput returns the current value of an analog input point.
func (db *Database) AnalogInput(index uint32) (objects.AnalogInput, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.analogInputs[index]
	if !ok {
		return objects.AnalogInput{}, false
	}
	return p.value, true
}

// AnalogOutput returns the current value of an analog output status
// point.
func (db *Database) AnalogOutput(index uint32) (objects.AnalogOutputStatus, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.analogOutputs[index]
	if !ok {
		return objects.AnalogOutputStatus{}, false
	}
	return p.value, true
}

// BinaryOutput returns the current value of a binary output status
// point.
func (db *Database) BinaryOutput(index uint32) (objects.BinaryOutputStatus, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.binaryOutputs[index]
	if !ok {
		return objects.BinaryOutputStatus{}, false
	}
	return p.value, true
}

// Counter returns the current value of a counter point.
func (db *Database) Counter(index uint32) (objects.Counter, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.counters[index]
	if !ok {
		return objects.Counter{}, false
	}
	return p.value, true
}

// SetDeadband updates an analog input point's dead-band threshold
// (applied by a WRITE g34 request); it does not itself generate an
// event.
func (db *Database) SetDeadband(index uint32, deadband float64) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.analogInputs[index]
	if !ok {
		return false
	}
	p.deadband = deadband
	return true
}

// AssignClass reassigns the event class of every configured point in
// [start,stop] belonging to the point family named by group (1, 3, 10,
// 20, 30, or 40), applied by an ASSIGN_CLASS request.
func (db *Database) AssignClass(group uint8, start, stop uint32, class objects.Class) {
	db.mu.Lock()
	defer db.mu.Unlock()

	inRange := func(idx uint32) bool { return idx >= start && idx <= stop }
	switch group {
	case 1:
		for idx, p := range db.binaryInputs {
			if inRange(idx) {
				p.class.Class = class
			}
		}
	case 3:
		for idx, p := range db.doubleBitInputs {
			if inRange(idx) {
				p.class.Class = class
			}
		}
	case 10:
		for idx, p := range db.binaryOutputs {
			if inRange(idx) {
				p.class.Class = class
			}
		}
	case 20:
		for idx, p := range db.counters {
			if inRange(idx) {
				p.class.Class = class
			}
		}
	case 30:
		for idx, p := range db.analogInputs {
			if inRange(idx) {
				p.class.Class = class
			}
		}
	case 40:
		for idx, p := range db.analogOutputs {
			if inRange(idx) {
				p.class.Class = class
			}
		}
	}
}

// DoubleBitInput returns the current value of a double-bit input point.
func (db *Database) DoubleBitInput(index uint32) (objects.DoubleBitInput, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.doubleBitInputs[index]
	if !ok {
		return objects.DoubleBitInput{}, false
	}
	return p.value, true
}
