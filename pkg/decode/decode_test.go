package decode

import "testing"

func TestNilLoggerIsSilentNotPanicking(t *testing.T) {
	var l *Logger
	l.Link("frame from %d", 1024)
	l.Transport("segment seq=%d", 3)
	l.App("fragment func=%s", "READ")
	l.Phys("%d bytes", 10)
}

func TestLevelsGateObjectTraceSeparately(t *testing.T) {
	l := New(Levels{App: LevelHeader})
	// AppObject requires LevelObjectValues; LevelHeader must not satisfy it.
	l.AppObject("value=%d", 1)
}

func TestAllEnablesEveryLayer(t *testing.T) {
	levels := All()
	if levels.App != LevelObjectValues || levels.Transport != LevelObjectValues || levels.Link != LevelObjectValues {
		t.Fatalf("expected All() to enable object-level tracing, got %+v", levels)
	}
}
