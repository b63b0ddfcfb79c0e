// Command handlers bound into the default graph cmd/server builds (spec.md
// SUPPLEMENTED FEATURES), grounded on the reference server's
// buildAllCommands (original_source/src/commands/CommandBuilder.cpp), which
// registers /gamemode and the /time subtree against the same Player/
// sendOutput shape pkg/command.Handler models.
package server

import (
	"fmt"
	"strconv"

	"github.com/ChickenIQ/vanillago/pkg/command"
)

// CommandContext is the value handlers find in command.ExecContext.Data: the
// shared world state plus the invoking player, nil for a console command
// (spec.md §9 "shared mutable globals... threaded explicitly").
type CommandContext struct {
	World  *WorldContext
	Player *PlayerConnection
}

var gamemodeNames = map[string]byte{
	"survival":  0,
	"creative":  1,
	"adventure": 2,
	"spectator": 3,
}

// HandleGamemode implements /gamemode <mode>: it updates the invoking
// player's PlayerData.GameMode and notifies their client with a
// change-game-mode game_event (original_source's sendChangeGamemode).
func HandleGamemode(ctx *command.ExecContext, args []string) error {
	cc := ctx.Data.(*CommandContext)
	if cc.Player == nil {
		ctx.SendOutput("commands.gamemode.fail.console", true, nil)
		return nil
	}
	mode, ok := gamemodeNames[args[0]]
	if !ok {
		ctx.SendOutput("commands.gamemode.fail.invalid", true, []string{args[0]})
		return nil
	}
	e := cc.World.Entities.Get(cc.Player.entityID)
	if e == nil || e.Player == nil {
		return nil
	}
	if e.Player.GameMode == mode {
		return nil
	}
	e.Player.GameMode = mode
	cc.Player.sendGameEvent(gameEventChangeGameMode, float32(mode))
	ctx.SendOutput("commands.gamemode.success.self", false, []string{args[0]})
	return nil
}

// HandleTeleport implements /tp <x> <y> <z>, reusing the same teleport-id
// grace-window machinery the join sequence uses.
func HandleTeleport(ctx *command.ExecContext, args []string) error {
	cc := ctx.Data.(*CommandContext)
	if cc.Player == nil {
		ctx.SendOutput("commands.tp.fail.console", true, nil)
		return nil
	}
	x, errX := strconv.ParseFloat(args[0], 64)
	y, errY := strconv.ParseFloat(args[1], 64)
	z, errZ := strconv.ParseFloat(args[2], 64)
	if errX != nil || errY != nil || errZ != nil {
		ctx.SendOutput("commands.tp.fail.invalid", true, nil)
		return nil
	}
	if err := cc.Player.teleportTo(x, y, z); err != nil {
		return err
	}
	ctx.SendOutput("commands.tp.success", false, []string{args[0], args[1], args[2]})
	return nil
}

// HandleWorldBorderSet implements /worldborder set <size> [<seconds>]
// (original_source's worldborder add/set subtree, collapsed to an absolute
// target rather than a relative distanceChange since this core has no
// "current diameter" command-line echo to preserve).
func HandleWorldBorderSet(ctx *command.ExecContext, args []string) error {
	cc := ctx.Data.(*CommandContext)
	size, err := strconv.ParseFloat(args[0], 64)
	if err != nil || size < 1 {
		ctx.SendOutput("commands.worldborder.set.failed.small", true, nil)
		return nil
	}
	var seconds int64
	if len(args) > 1 {
		v, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil || v < 0 {
			ctx.SendOutput("commands.worldborder.set.failed.invalid", true, nil)
			return nil
		}
		seconds = v
	}
	cc.World.Border.Resize(size, seconds*20)
	ctx.SendOutput("commands.worldborder.set.immediate", false, []string{args[0]})
	return nil
}

// HandleWorldBorderCenter implements /worldborder center <x> <z>.
func HandleWorldBorderCenter(ctx *command.ExecContext, args []string) error {
	cc := ctx.Data.(*CommandContext)
	x, errX := strconv.ParseFloat(args[0], 64)
	z, errZ := strconv.ParseFloat(args[1], 64)
	if errX != nil || errZ != nil {
		ctx.SendOutput("commands.worldborder.center.failed.invalid", true, nil)
		return nil
	}
	cc.World.Border.SetCenter(x, z)
	ctx.SendOutput("commands.worldborder.center.success", false, []string{args[0], args[1]})
	return nil
}

// HandleStop implements /stop. It is meant for console use; a player
// invoking it is rejected here since the command graph itself can only
// grant console an extra permission, not take one away from players
// (pkg/command.Parse only gates on ConsoleExecutable, never the reverse).
// It asks the orchestrator to shut down rather than calling os.Exit
// directly, so the normal listener/tick-loop teardown in cmd/server's main
// still runs.
func HandleStop(ctx *command.ExecContext, args []string) error {
	cc := ctx.Data.(*CommandContext)
	if cc.Player != nil {
		ctx.SendOutput("commands.stop.fail.permission", true, nil)
		return nil
	}
	cc.World.RequestStop()
	ctx.SendOutput("commands.stop.success", false, nil)
	return nil
}

// HandleTimeQueryDaytime implements /time query daytime.
func HandleTimeQueryDaytime(ctx *command.ExecContext, args []string) error {
	cc := ctx.Data.(*CommandContext)
	ctx.SendOutput("commands.time.query", false, []string{strconv.FormatInt(cc.World.Tick.TimeOfDay(), 10)})
	return nil
}

// HandleTimeSet implements /time set <value>.
func HandleTimeSet(ctx *command.ExecContext, args []string) error {
	cc := ctx.Data.(*CommandContext)
	v, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("time set: %w", err)
	}
	cc.World.Tick.SetTimeOfDay(v)
	ctx.SendOutput("commands.time.set", false, []string{args[0]})
	return nil
}
