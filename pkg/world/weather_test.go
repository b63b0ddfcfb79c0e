package world

import "testing"

func TestWeatherSetRainLerpsLevelUpToTarget(t *testing.T) {
	w := NewWeather(1)
	w.Set(Rain, 1000)
	if w.Current() != Rain {
		t.Fatalf("expected Rain, got %v", w.Current())
	}

	for i := 0; i < transitionTicks; i++ {
		w.Tick()
	}

	rain, _ := w.Levels()
	if rain != 1 {
		t.Fatalf("expected rain level to reach 1 after the lerp window, got %v", rain)
	}
}

func TestWeatherSetClearStopsRainAndThunder(t *testing.T) {
	w := NewWeather(2)
	w.Set(Thunder, 1000)
	for i := 0; i < transitionTicks; i++ {
		w.Tick()
	}
	rain, thunder := w.Levels()
	if rain != 1 || thunder != 1 {
		t.Fatalf("expected both levels at 1 before clearing, got rain=%v thunder=%v", rain, thunder)
	}

	w.Set(Clear, 1000)
	for i := 0; i < transitionTicks; i++ {
		w.Tick()
	}
	rain, thunder = w.Levels()
	if rain != 0 || thunder != 0 {
		t.Fatalf("expected both levels back at 0 after clearing, got rain=%v thunder=%v", rain, thunder)
	}
}

func TestWeatherNotifiesOnConditionChange(t *testing.T) {
	w := NewWeather(3)
	var seen []Condition
	w.OnConditionChange = func(c Condition) { seen = append(seen, c) }
	w.Set(Rain, 5)

	for i := 0; i < 10; i++ {
		w.Tick()
	}

	if len(seen) == 0 {
		t.Fatalf("expected at least one condition-change notification")
	}
}
