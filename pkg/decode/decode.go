// Package decode implements the four independent decode-level toggles
// named in spec.md: per-layer trace logging of link frames, transport
// segments, application fragments, and raw physical-layer bytes. It is
// deliberately separate from the operational slog-based logging used
// elsewhere (pkg/channel, pkg/outstation, pkg/master): decode tracing is
// a protocol-analyzer concern an operator flips on only while
// troubleshooting, mirroring the teacher's legacy logrus-based API.
package decode

import log "github.com/sirupsen/logrus"

// Level controls how much detail one layer's decode trace prints.
type Level int

const (
	// LevelNothing disables decode tracing for the layer.
	LevelNothing Level = iota
	// LevelHeader logs just the parsed header fields.
	LevelHeader
	// LevelObjectValues additionally logs every decoded object value.
	LevelObjectValues
)

// Levels bundles the four independent per-layer toggles a channel or
// session is configured with.
type Levels struct {
	App       Level
	Transport Level
	Link      Level
	Phys      Level
}

// Nothing disables all four layers, the default when decode tracing is
// not requested.
func Nothing() Levels { return Levels{} }

// All enables every layer: object-value tracing on the app, transport
// and link layers and header-level tracing on the physical layer,
// useful for one-off troubleshooting sessions.
func All() Levels {
	return Levels{App: LevelObjectValues, Transport: LevelObjectValues, Link: LevelObjectValues, Phys: LevelHeader}
}

// Logger emits decode trace lines through logrus, tagging each line with
// the layer it came from.
type Logger struct {
	levels Levels
}

// New creates a decode Logger at the given levels.
func New(levels Levels) *Logger { return &Logger{levels: levels} }

func (l *Logger) Link(format string, args ...any) {
	if l == nil || l.levels.Link == LevelNothing {
		return
	}
	log.Debugf("[LINK] "+format, args...)
}

func (l *Logger) Transport(format string, args ...any) {
	if l == nil || l.levels.Transport == LevelNothing {
		return
	}
	log.Debugf("[TRANSPORT] "+format, args...)
}

func (l *Logger) App(format string, args ...any) {
	if l == nil || l.levels.App == LevelNothing {
		return
	}
	log.Debugf("[APP] "+format, args...)
}

// AppObject additionally requires LevelObjectValues, for the
// per-object-value trace line beneath a fragment's header line.
func (l *Logger) AppObject(format string, args ...any) {
	if l == nil || l.levels.App < LevelObjectValues {
		return
	}
	log.Debugf("[APP][OBJ] "+format, args...)
}

func (l *Logger) Phys(format string, args ...any) {
	if l == nil || l.levels.Phys == LevelNothing {
		return
	}
	log.Debugf("[PHYS] "+format, args...)
}
