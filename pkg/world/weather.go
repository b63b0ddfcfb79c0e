package world

import (
	"math/rand"
	"sync"
)

// Condition is the server's current natural weather state (original_source
// weather.h's WeatherType enum).
type Condition int

const (
	Clear Condition = iota
	Rain
	Thunder
)

// Duration ranges in ticks, carried over from original_source/weather.h's
// CLEAR_MIN/MAX_DURATION, RAIN_MIN/MAX_DURATION, THUNDER_MIN/MAX_DURATION.
const (
	clearMinDuration = 12000
	clearMaxDuration = 180000

	rainMinDuration = 12000
	rainMaxDuration = 24000

	thunderMinDuration = 3600
	thunderMaxDuration = 15600

	// transitionTicks is how long a rain/thunder level lerp takes (5 real
	// seconds at 20 ticks/sec, original_source's TRANSITION_TICKS).
	transitionTicks = 100
)

// Weather tracks natural rain/thunder cycling plus a `/weather` override,
// lerping the level clients see over transitionTicks instead of snapping it
// (original_source weather.cpp's handleTick/handleLerping).
type Weather struct {
	mu sync.Mutex
	rng *rand.Rand

	current Condition

	clearCounter, rainCounter, thunderCounter int

	rainOn, thunderOn bool

	rainLevel, targetRainLevel float32
	rainLerpRemaining          int
	rainDelta                  float32

	thunderLevel, targetThunderLevel float32
	thunderLerpRemaining             int
	thunderDelta                     float32

	// OnConditionChange is called when natural or overridden weather moves
	// between Clear/Rain/Thunder (original_source's notifyWeatherChange).
	OnConditionChange func(Condition)
	// OnLevelChange is called whenever a lerp step moves the rain or
	// thunder level (original_source's sendGameEvent(RainLevelChange/...)).
	OnLevelChange func(rainLevel, thunderLevel float32)
}

// NewWeather seeds a fresh clear-weather cycle with randomized natural
// transition counters, matching original_source's constructor.
func NewWeather(seed int64) *Weather {
	w := &Weather{rng: rand.New(rand.NewSource(seed))}
	w.rainCounter = w.randRange(rainMinDuration, rainMaxDuration)
	w.thunderCounter = w.randRange(thunderMinDuration, thunderMaxDuration)
	return w
}

func (w *Weather) randRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + w.rng.Intn(max-min+1)
}

// Set overrides the weather (a `/weather <clear|rain|thunder> [duration]`
// command), matching original_source's Weather::setWeather. durationTicks
// <= 0 picks a randomized natural duration instead.
func (w *Weather) Set(condition Condition, durationTicks int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = condition
	switch condition {
	case Clear:
		if durationTicks > 0 {
			w.clearCounter = durationTicks
		} else {
			w.clearCounter = w.randRange(clearMinDuration, clearMaxDuration)
		}
		if w.rainOn {
			w.setRainState(false)
		}
		if w.thunderOn {
			w.setThunderState(false)
		}
	case Rain:
		w.clearCounter = 0
		if durationTicks > 0 {
			w.rainCounter = durationTicks
		} else {
			w.rainCounter = w.randRange(rainMinDuration, rainMaxDuration)
		}
		if !w.rainOn {
			w.setRainState(true)
		}
	case Thunder:
		w.clearCounter = 0
		if durationTicks > 0 {
			w.thunderCounter = durationTicks
			w.rainCounter = durationTicks
		} else {
			d := w.randRange(thunderMinDuration, thunderMaxDuration)
			w.rainCounter = d
			w.thunderCounter = d
		}
		if !w.rainOn {
			w.setRainState(true)
		}
		if !w.thunderOn {
			w.setThunderState(true)
		}
	}
}

// Tick advances natural weather cycling by one world tick
// (original_source's Weather::handleTick).
func (w *Weather) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.clearCounter > 0 {
		w.clearCounter--
		if w.clearCounter == 0 {
			w.current = w.naturalState()
			w.notify(w.current)
		}
		w.lerp()
		return
	}

	if w.rainCounter > 0 {
		w.rainCounter--
		if w.rainCounter == 0 {
			w.toggleRain()
		}
	}
	if w.thunderCounter > 0 {
		w.thunderCounter--
		if w.thunderCounter == 0 {
			w.toggleThunder()
		}
	}

	next := Clear
	if w.rainOn {
		next = Rain
		if w.thunderOn {
			next = Thunder
		}
	}
	if next != w.current {
		w.current = next
		w.notify(next)
	}

	w.lerp()
}

func (w *Weather) notify(c Condition) {
	if w.OnConditionChange != nil {
		w.OnConditionChange(c)
	}
}

func (w *Weather) setRainState(enabled bool) {
	if enabled == w.rainOn {
		return
	}
	w.rainOn = enabled
	if enabled {
		w.targetRainLevel = 1
	} else {
		w.targetRainLevel = 0
	}
	w.rainLerpRemaining = transitionTicks
	w.rainDelta = (w.targetRainLevel - w.rainLevel) / transitionTicks
}

func (w *Weather) setThunderState(enabled bool) {
	if enabled == w.thunderOn {
		return
	}
	w.thunderOn = enabled
	if enabled {
		w.targetThunderLevel = 1
	} else {
		w.targetThunderLevel = 0
	}
	w.thunderLerpRemaining = transitionTicks
	w.thunderDelta = (w.targetThunderLevel - w.thunderLevel) / transitionTicks
}

func (w *Weather) lerp() {
	changed := false
	if w.rainLerpRemaining > 0 {
		w.rainLevel += w.rainDelta
		w.rainLerpRemaining--
		if w.rainLerpRemaining <= 0 {
			w.rainLevel = w.targetRainLevel
		}
		changed = true
	}
	if w.thunderLerpRemaining > 0 {
		w.thunderLevel += w.thunderDelta
		w.thunderLerpRemaining--
		if w.thunderLerpRemaining <= 0 {
			w.thunderLevel = w.targetThunderLevel
		}
		changed = true
	}
	if changed && w.OnLevelChange != nil {
		w.OnLevelChange(w.rainLevel, w.thunderLevel)
	}
}

func (w *Weather) toggleRain() {
	w.setRainState(!w.rainOn)
	if w.rainOn {
		w.rainCounter = w.randRange(rainMinDuration, rainMaxDuration)
	} else {
		w.rainCounter = w.randRange(clearMinDuration, clearMaxDuration)
	}
}

func (w *Weather) toggleThunder() {
	w.setThunderState(!w.thunderOn)
	if w.thunderOn {
		w.thunderCounter = w.randRange(thunderMinDuration, thunderMaxDuration)
	} else {
		w.thunderCounter = w.randRange(clearMinDuration, clearMaxDuration)
	}
}

func (w *Weather) naturalState() Condition {
	if w.rainOn {
		if w.thunderOn {
			return Thunder
		}
		return Rain
	}
	return Clear
}

// Levels returns the current rain and thunder levels (each in [0,1]).
func (w *Weather) Levels() (rain, thunder float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rainLevel, w.thunderLevel
}

// Current returns the current natural (or overridden) weather condition.
func (w *Weather) Current() Condition {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}
