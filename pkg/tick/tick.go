// Package tick implements the world tick loop (spec.md §4.11/C11): a single
// scheduler advancing world age and time, weather, world-border resize, and
// pending-teleport expiry, at a configurable ticks_per_second. Grounded on
// the teacher's entityPhysicsLoop/regenerationLoop ticker pattern
// (server/entity.go, server/server.go) generalized into one authoritative
// tick rather than several independent per-feature tickers.
package tick

import (
	"sync"
	"time"
)

const (
	defaultTicksPerSecond = 20
	timeUpdateInterval    = 20 // broadcast every 20th tick

	// ticksPerDay is time_of_day's wraparound modulus (spec.md §3 "time_of_day
	// = (time_of_day + 20) mod 24000 per second").
	ticksPerDay = 24000
)

// Hooks are the callbacks the orchestrator supplies; Loop only owns the
// scheduling, not world state.
type Hooks struct {
	// BroadcastTime is called every timeUpdateInterval ticks with the new
	// world age and time-of-day.
	BroadcastTime func(worldAge, timeOfDay int64)
	// AdvanceWeather is called every tick to lerp rain/thunder levels.
	AdvanceWeather func()
	// AdvanceWorldBorder is called every tick to lerp an active resize.
	AdvanceWorldBorder func()
	// ExpireTeleports is called every tick with the current tick counter so
	// the caller can evict pending ids older than its own grace window.
	ExpireTeleports func(currentTick int64)
}

// Loop is the 20Hz world scheduler.
type Loop struct {
	ticksPerSecond int
	hooks          Hooks

	mu         sync.Mutex
	worldAge   int64
	timeOfDay  int64
	frozenTime bool // true once time_of_day was set negative (spec.md §3)

	stop chan struct{}
	done chan struct{}
}

// New builds a Loop. ticksPerSecond <= 0 defaults to 20 (spec.md §4.11
// "ticks at ticks_per_second (default 20)").
func New(ticksPerSecond int, hooks Hooks) *Loop {
	if ticksPerSecond <= 0 {
		ticksPerSecond = defaultTicksPerSecond
	}
	return &Loop{
		ticksPerSecond: ticksPerSecond,
		hooks:          hooks,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Run blocks, ticking until Stop is called. Intended to run on its own
// goroutine.
func (l *Loop) Run() {
	defer close(l.done)
	interval := time.Second / time.Duration(l.ticksPerSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tickCount int64
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			tickCount++
			l.tick(tickCount)
		}
	}
}

func (l *Loop) tick(count int64) {
	l.mu.Lock()
	l.worldAge++
	if !l.frozenTime {
		l.timeOfDay = (l.timeOfDay + 1) % ticksPerDay
	}
	worldAge, timeOfDay := l.worldAge, l.timeOfDay
	l.mu.Unlock()

	if count%timeUpdateInterval == 0 && l.hooks.BroadcastTime != nil {
		l.hooks.BroadcastTime(worldAge, timeOfDay)
	}
	if l.hooks.AdvanceWeather != nil {
		l.hooks.AdvanceWeather()
	}
	if l.hooks.AdvanceWorldBorder != nil {
		l.hooks.AdvanceWorldBorder()
	}
	if l.hooks.ExpireTeleports != nil {
		l.hooks.ExpireTeleports(count)
	}
}

// Stop signals Run to exit and blocks until it has.
func (l *Loop) Stop() {
	close(l.stop)
	<-l.done
}

// WorldAge returns the current world age (ticks since world creation). It
// also doubles as the current tick counter, since worldAge and the Run
// loop's tick count advance together by exactly 1 every tick.
func (l *Loop) WorldAge() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.worldAge
}

// TimeOfDay returns the current time-of-day tick count.
func (l *Loop) TimeOfDay() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.timeOfDay
}

// SetTimeOfDay implements spec.md §3's `/time set` semantics: "Setting a
// value of time_of_day to a negative number stores its absolute value and
// freezes the day cycle; setting to a non-negative number resumes and
// wraps mod 24000."
func (l *Loop) SetTimeOfDay(value int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if value < 0 {
		l.timeOfDay = -value
		l.frozenTime = true
		return
	}
	l.timeOfDay = value % ticksPerDay
	l.frozenTime = false
}
