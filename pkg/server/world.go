// Package server is the orchestrator (spec.md §4.13/C13): it owns the
// listener socket, the bounded worker pool, and the shared world-context
// value (chunk repository, broadcast index, entity manager, command graph,
// registries, config, view controller, tick loop) that every connection is
// handed (spec.md §9 "Shared mutable globals... Thread a world-context
// value carrying these collections through every component"). Grounded on
// the teacher's global server state in server/server.go, generalized from
// package-level vars into an explicit struct with no ambient mutable state.
package server

import (
	"bytes"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ChickenIQ/vanillago/pkg/broadcast"
	"github.com/ChickenIQ/vanillago/pkg/chunkrepo"
	"github.com/ChickenIQ/vanillago/pkg/command"
	"github.com/ChickenIQ/vanillago/pkg/config"
	"github.com/ChickenIQ/vanillago/pkg/entity"
	"github.com/ChickenIQ/vanillago/pkg/proto"
	"github.com/ChickenIQ/vanillago/pkg/registry"
	"github.com/ChickenIQ/vanillago/pkg/session"
	"github.com/ChickenIQ/vanillago/pkg/tick"
	"github.com/ChickenIQ/vanillago/pkg/view"
	"github.com/ChickenIQ/vanillago/pkg/world"
)

// teleportGraceTicks is spec.md §4.11's "grace window": a pending teleport
// id unconfirmed for this many ticks is evicted rather than kept forever.
const teleportGraceTicks = 30 * 20

// WorldContext bundles every shared collection a connection's handlers need.
// Its lifetime equals the server's (spec.md §9).
type WorldContext struct {
	Config     config.Config
	Chunks     *chunkrepo.Repository
	Broadcast  *broadcast.Index
	Entities   *entity.Manager
	Commands   *command.Graph
	Registries map[string]*registry.Registry
	View       *view.Controller
	Tick       *tick.Loop
	Pool       *WorkerPool
	Login      *session.LoginFlow
	Log        *logrus.Logger
	Weather    *world.Weather
	Border     *world.Border

	worldAge        int64
	timeOfDay       int64
	nextKeepAliveID int64
	nextTeleportID  int32

	stopOnce      sync.Once
	stopRequested chan struct{}
}

// NewWorldContext wires the collections together, starting the worker pool
// and view controller dispatch on top of it.
func NewWorldContext(cfg config.Config, chunks *chunkrepo.Repository, commands *command.Graph, registries map[string]*registry.Registry, login *session.LoginFlow, log *logrus.Logger) *WorldContext {
	if log == nil {
		log = logrus.StandardLogger()
	}
	pool := NewWorkerPool(cfg.WorkerPool.Workers, cfg.WorkerPool.QueueSize)
	idx := broadcast.New()
	entities := entity.New()

	wc := &WorldContext{
		Config:     cfg,
		Chunks:     chunks,
		Broadcast:  idx,
		Entities:   entities,
		Commands:   commands,
		Registries: registries,
		Pool:       pool,
		Login:      login,
		Log:        log,
		Weather:    world.NewWeather(time.Now().UnixNano()),
		Border: world.NewBorder(
			cfg.WorldBorder.CenterX, cfg.WorldBorder.CenterZ, cfg.WorldBorder.Size,
			cfg.WorldBorder.WarningBlocks, cfg.WorldBorder.WarningTime,
		),
		stopRequested: make(chan struct{}),
	}
	wc.View = view.New(idx, chunks, chunks, func(task func()) {
		if err := pool.Submit(task); err != nil {
			log.WithError(err).Warn("view dispatch dropped: pool stopped")
		}
	}, cfg.Server.ViewDistance)
	wc.Weather.OnConditionChange = wc.broadcastWeatherChange
	wc.Weather.OnLevelChange = wc.broadcastWeatherLevels
	return wc
}

// StartTickLoop builds and runs the world tick loop on its own goroutine
// (spec.md §4.11), wiring time broadcast, weather, world-border resize, and
// teleport-id expiry into the shared context. All four of C11's
// responsibilities run off the same scheduler rather than separate
// tickers, per pkg/tick's design.
func (wc *WorldContext) StartTickLoop() {
	wc.Tick = tick.New(20, tick.Hooks{
		BroadcastTime:      wc.broadcastTime,
		AdvanceWeather:     wc.Weather.Tick,
		AdvanceWorldBorder: wc.advanceWorldBorder,
		ExpireTeleports:    wc.expireTeleports,
	})
	go wc.Tick.Run()
}

func (wc *WorldContext) broadcastTime(worldAge, timeOfDay int64) {
	wc.worldAge, wc.timeOfDay = worldAge, timeOfDay

	var payload bytes.Buffer
	proto.WriteInt64(&payload, worldAge)
	proto.WriteInt64(&payload, timeOfDay)
	var framed bytes.Buffer
	proto.WriteVarInt(&framed, idPlayUpdateTime)
	framed.Write(payload.Bytes())
	wc.Broadcast.Broadcast(framed.Bytes(), nil)
}

// advanceWorldBorder steps any in-progress resize and broadcasts the new
// size to every client when it actually moves (spec.md §4.11 "lerp active
// resize of the world border").
func (wc *WorldContext) advanceWorldBorder() {
	size, changed := wc.Border.Advance()
	if !changed {
		return
	}
	var payload bytes.Buffer
	proto.WriteFloat64(&payload, size)
	var framed bytes.Buffer
	proto.WriteVarInt(&framed, idPlaySetBorderSize)
	framed.Write(payload.Bytes())
	wc.Broadcast.Broadcast(framed.Bytes(), nil)
}

func (wc *WorldContext) broadcastWeatherChange(c world.Condition) {
	event := byte(gameEventEndRaining)
	if c != world.Clear {
		event = byte(gameEventBeginRaining)
	}
	wc.sendGameEvent(event, 0)
}

func (wc *WorldContext) broadcastWeatherLevels(rainLevel, thunderLevel float32) {
	wc.sendGameEvent(gameEventRainLevelChange, rainLevel)
	wc.sendGameEvent(gameEventThunderLevelChange, thunderLevel)
}

func (wc *WorldContext) sendGameEvent(event byte, value float32) {
	var payload bytes.Buffer
	payload.WriteByte(event)
	proto.WriteFloat32(&payload, value)
	var framed bytes.Buffer
	proto.WriteVarInt(&framed, idPlayGameEvent)
	framed.Write(payload.Bytes())
	wc.Broadcast.Broadcast(framed.Bytes(), nil)
}

// expireTeleports sweeps every connected player's pending-teleport set for
// ids older than teleportGraceTicks (spec.md §4.11, resolving the §9 Design
// Note that flags unbounded teleport-id growth as a bug to fix here).
func (wc *WorldContext) expireTeleports(currentTick int64) {
	for _, c := range wc.Broadcast.Clients() {
		p, ok := c.(*PlayerConnection)
		if !ok {
			continue
		}
		expired := p.conn.Phase.ExpireTeleports(currentTick, teleportGraceTicks)
		for _, id := range expired {
			wc.Log.WithField("player", p.name).WithField("teleport_id", id).
				Warn("pending teleport confirm expired")
		}
	}
}

// Stop shuts down the tick loop and worker pool.
func (wc *WorldContext) Stop() {
	if wc.Tick != nil {
		wc.Tick.Stop()
	}
	wc.Pool.Stop()
}

// RequestStop asks the orchestrator's main loop to begin shutdown (the
// /stop command's effect). Safe to call more than once or concurrently.
func (wc *WorldContext) RequestStop() {
	wc.stopOnce.Do(func() { close(wc.stopRequested) })
}

// StopRequested is closed once RequestStop has been called.
func (wc *WorldContext) StopRequested() <-chan struct{} {
	return wc.stopRequested
}
