package tick

import "testing"

func TestTickWrapsTimeOfDayModTicksPerDay(t *testing.T) {
	l := New(20, Hooks{})
	l.timeOfDay = ticksPerDay - 1
	l.tick(1)
	if got := l.TimeOfDay(); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}
}

func TestSetTimeOfDayNegativeFreezesDayCycle(t *testing.T) {
	l := New(20, Hooks{})
	l.SetTimeOfDay(-500)
	if got := l.TimeOfDay(); got != 500 {
		t.Fatalf("expected abs(500), got %d", got)
	}
	l.tick(1)
	l.tick(2)
	if got := l.TimeOfDay(); got != 500 {
		t.Fatalf("expected frozen time to stay at 500, got %d", got)
	}
	if got := l.WorldAge(); got != 2 {
		t.Fatalf("expected world age to keep advancing while frozen, got %d", got)
	}
}

func TestSetTimeOfDayNonNegativeResumesAndWraps(t *testing.T) {
	l := New(20, Hooks{})
	l.SetTimeOfDay(-500)
	l.SetTimeOfDay(ticksPerDay + 5)
	if got := l.TimeOfDay(); got != 5 {
		t.Fatalf("expected wrap to 5, got %d", got)
	}
	l.tick(1)
	if got := l.TimeOfDay(); got != 6 {
		t.Fatalf("expected resumed cycle to advance, got %d", got)
	}
}

func TestBroadcastTimeFiresEveryTwentiethTick(t *testing.T) {
	var calls int
	l := New(20, Hooks{BroadcastTime: func(worldAge, timeOfDay int64) { calls++ }})
	for i := int64(1); i <= 39; i++ {
		l.tick(i)
	}
	if calls != 1 {
		t.Fatalf("expected 1 broadcast in 39 ticks, got %d", calls)
	}
	l.tick(40)
	if calls != 2 {
		t.Fatalf("expected 2 broadcasts after the 40th tick, got %d", calls)
	}
}
