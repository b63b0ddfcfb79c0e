package view

import (
	"sync"

	"github.com/ChickenIQ/vanillago/pkg/broadcast"
	"github.com/ChickenIQ/vanillago/pkg/chunkrepo"
	"github.com/ChickenIQ/vanillago/pkg/voxel"
)

// ChunkPeeker reports a chunk already resident in memory, without blocking
// to load it.
type ChunkPeeker interface {
	Peek(cx, cz int32) (*voxel.Chunk, bool)
}

// ChunkLoader loads (or generates) a chunk, blocking until ready. It is run
// on the dispatcher's worker pool for cache misses so the caller never
// blocks its own goroutine on it (spec.md §4.10 step 4).
type ChunkLoader interface {
	GetOrLoad(cx, cz int32) (*voxel.Chunk, error)
}

// Dispatcher runs a task on a bounded worker pool (pkg/server's
// orchestrator supplies the real one; spec.md §4.13 "bounded worker pool").
type Dispatcher func(task func())

// Player is the minimal per-viewer surface this package needs: a
// broadcast.Client plus chunk send and centering.
type Player interface {
	broadcast.Client
	SendChunk(c *voxel.Chunk)
	SendCenterChunk(cx, cz int32)
}

// Subscription tracks one player's current view set.
type Subscription struct {
	mu      sync.Mutex
	current Set
}

func NewSubscription() *Subscription {
	return &Subscription{current: make(Set)}
}

// Controller owns the shared chunk_viewers index and chunk source, and
// drives subscription updates for every player (spec.md §4.10).
type Controller struct {
	Viewers    *broadcast.Index
	Peeker     ChunkPeeker
	Loader     ChunkLoader
	Dispatch   Dispatcher
	ServerView int32
}

// New builds a Controller. dispatch may be nil, in which case loads run
// synchronously on the calling goroutine (used by tests).
func New(viewers *broadcast.Index, peeker ChunkPeeker, loader ChunkLoader, dispatch Dispatcher, serverView int32) *Controller {
	if dispatch == nil {
		dispatch = func(task func()) { task() }
	}
	return &Controller{Viewers: viewers, Peeker: peeker, Loader: loader, Dispatch: dispatch, ServerView: serverView}
}

// UpdateSubscription recomputes a player's visible chunk set around
// (centerX, centerZ) and applies the diff: unsubscribing from to_remove,
// loading and subscribing to to_add, and centering the player (spec.md
// §4.10 steps 1-4 plus the center-chunk send in step 5).
func (c *Controller) UpdateSubscription(p Player, sub *Subscription, centerX, centerZ, playerView int32) {
	radius := ViewRadius(playerView, c.ServerView)
	next := ComputeView(centerX, centerZ, radius)

	sub.mu.Lock()
	old := sub.current
	sub.current = next
	sub.mu.Unlock()

	toRemove, toAdd := Diff(old, next)

	for _, coord := range toRemove {
		c.Viewers.RemoveViewer(coord, p.UUID())
	}

	for _, coord := range toAdd {
		coord := coord
		if chunk, ok := c.Peeker.Peek(coord.X, coord.Z); ok {
			c.Viewers.AddViewer(coord, p)
			p.SendChunk(chunk)
			continue
		}
		c.Dispatch(func() {
			chunk, err := c.Loader.GetOrLoad(coord.X, coord.Z)
			if err != nil {
				return
			}
			c.Viewers.AddViewer(coord, p)
			p.SendChunk(chunk)
		})
	}

	p.SendCenterChunk(centerX, centerZ)
}

// InitialJoin sends every chunk in the player's starting view in two waves
// (spec.md §4.10 "Initial-join sends proceed in two waves: already-resident
// chunks first (no wait), then newly loaded chunks as their futures
// resolve").
func (c *Controller) InitialJoin(p Player, sub *Subscription, centerX, centerZ, playerView int32) {
	radius := ViewRadius(playerView, c.ServerView)
	view := ComputeView(centerX, centerZ, radius)

	sub.mu.Lock()
	sub.current = view
	sub.mu.Unlock()

	var pending []Coord
	for coord := range view {
		if chunk, ok := c.Peeker.Peek(coord.X, coord.Z); ok {
			c.Viewers.AddViewer(coord, p)
			p.SendChunk(chunk)
		} else {
			pending = append(pending, coord)
		}
	}

	for _, coord := range pending {
		coord := coord
		c.Dispatch(func() {
			chunk, err := c.Loader.GetOrLoad(coord.X, coord.Z)
			if err != nil {
				return
			}
			c.Viewers.AddViewer(coord, p)
			p.SendChunk(chunk)
		})
	}

	p.SendCenterChunk(centerX, centerZ)
}

// Unsubscribe removes a player from every chunk it currently views, for use
// on disconnect.
func (c *Controller) Unsubscribe(p Player, sub *Subscription) {
	sub.mu.Lock()
	current := sub.current
	sub.current = make(Set)
	sub.mu.Unlock()

	for coord := range current {
		c.Viewers.RemoveViewer(coord, p.UUID())
	}
}

var (
	_ ChunkLoader = (*chunkrepo.Repository)(nil)
	_ ChunkPeeker = (*chunkrepo.Repository)(nil)
)
