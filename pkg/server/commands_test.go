package server

import (
	"testing"

	"github.com/ChickenIQ/vanillago/pkg/command"
	"github.com/ChickenIQ/vanillago/pkg/tick"
	"github.com/ChickenIQ/vanillago/pkg/world"
)

func newTestWorldContext() *WorldContext {
	return &WorldContext{
		Tick:          tick.New(20, tick.Hooks{}),
		Border:        world.NewBorder(0, 0, 60000000, 5, 15),
		stopRequested: make(chan struct{}),
	}
}

func TestHandleTimeSetThenQueryDaytime(t *testing.T) {
	wc := newTestWorldContext()
	var out []string
	ctx := &command.ExecContext{
		IsConsole:  true,
		SendOutput: func(key string, isError bool, args []string) { out = append(out, args...) },
		Data:       &CommandContext{World: wc},
	}

	if err := HandleTimeSet(ctx, []string{"1000"}); err != nil {
		t.Fatalf("HandleTimeSet: %v", err)
	}
	if got := wc.Tick.TimeOfDay(); got != 1000 {
		t.Fatalf("expected time of day 1000, got %d", got)
	}

	out = nil
	if err := HandleTimeQueryDaytime(ctx, nil); err != nil {
		t.Fatalf("HandleTimeQueryDaytime: %v", err)
	}
	if len(out) != 1 || out[0] != "1000" {
		t.Fatalf("expected query output [1000], got %v", out)
	}
}

func TestHandleWorldBorderSetResizesImmediatelyWithNoDuration(t *testing.T) {
	wc := newTestWorldContext()
	ctx := &command.ExecContext{
		SendOutput: func(string, bool, []string) {},
		Data:       &CommandContext{World: wc},
	}

	if err := HandleWorldBorderSet(ctx, []string{"500"}); err != nil {
		t.Fatalf("HandleWorldBorderSet: %v", err)
	}
	if got := wc.Border.State().Size; got != 500 {
		t.Fatalf("expected border resized to 500, got %v", got)
	}
}

func TestHandleWorldBorderSetRejectsTooSmall(t *testing.T) {
	wc := newTestWorldContext()
	var errored bool
	ctx := &command.ExecContext{
		SendOutput: func(key string, isError bool, args []string) { errored = isError },
		Data:       &CommandContext{World: wc},
	}

	if err := HandleWorldBorderSet(ctx, []string{"0"}); err != nil {
		t.Fatalf("HandleWorldBorderSet: %v", err)
	}
	if !errored {
		t.Fatalf("expected an error output for a sub-1 size")
	}
	if got := wc.Border.State().Size; got == 0 {
		t.Fatalf("expected border size left unchanged on rejection")
	}
}

func TestHandleWorldBorderCenterMovesCenter(t *testing.T) {
	wc := newTestWorldContext()
	ctx := &command.ExecContext{
		SendOutput: func(string, bool, []string) {},
		Data:       &CommandContext{World: wc},
	}

	if err := HandleWorldBorderCenter(ctx, []string{"100", "-200"}); err != nil {
		t.Fatalf("HandleWorldBorderCenter: %v", err)
	}
	state := wc.Border.State()
	if state.CenterX != 100 || state.CenterZ != -200 {
		t.Fatalf("expected center moved to (100, -200), got (%v, %v)", state.CenterX, state.CenterZ)
	}
}

func TestHandleStopRejectsPlayerInvocation(t *testing.T) {
	wc := newTestWorldContext()
	var errored bool
	ctx := &command.ExecContext{
		SendOutput: func(key string, isError bool, args []string) { errored = isError },
		Data:       &CommandContext{World: wc, Player: &PlayerConnection{}},
	}

	if err := HandleStop(ctx, nil); err != nil {
		t.Fatalf("HandleStop: %v", err)
	}
	if !errored {
		t.Fatalf("expected a permission error for a player-invoked /stop")
	}
	select {
	case <-wc.StopRequested():
		t.Fatalf("expected stop not requested on player-invoked /stop")
	default:
	}
}

func TestHandleStopFromConsoleRequestsShutdown(t *testing.T) {
	wc := newTestWorldContext()
	ctx := &command.ExecContext{
		IsConsole:  true,
		SendOutput: func(string, bool, []string) {},
		Data:       &CommandContext{World: wc},
	}

	if err := HandleStop(ctx, nil); err != nil {
		t.Fatalf("HandleStop: %v", err)
	}
	select {
	case <-wc.StopRequested():
	default:
		t.Fatalf("expected stop requested")
	}
}
