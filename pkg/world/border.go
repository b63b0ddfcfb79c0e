// Package world holds the tick-driven world state that sits alongside chunk
// storage and entities: the world border and the weather state machine
// (spec.md §3 "World border", §4.11 "advance weather state, lerp active
// resize of the world border"). Grounded on the reference server's
// WorldBorder/Weather types (original_source/src/world/world_border.{h,cpp},
// weather.{h,cpp}), translated from their per-feature mutex-guarded structs
// into the same shape idiomatic Go would give them.
package world

import "sync"

// Border is `(center_x, center_z, size, warning_blocks, warning_time)` plus
// the derived portal-teleport boundary (spec.md §3 "World border"). A
// resize carries a target diameter and a tick-based lerp duration, advanced
// one step per world tick by Advance.
type Border struct {
	mu sync.Mutex

	centerX, centerZ float64
	size             float64
	warningBlocks    int32
	warningTime      int32
	portalBoundary   float64

	targetSize    float64
	lerpRemaining int64
	lerpPerTick   float64
}

// NewBorder builds a border already centered and sized, with its portal
// boundary derived (spec.md §3 "portal_teleport_boundary = size/2").
func NewBorder(centerX, centerZ, size float64, warningBlocks, warningTime int32) *Border {
	b := &Border{
		centerX:       centerX,
		centerZ:       centerZ,
		size:          size,
		warningBlocks: warningBlocks,
		warningTime:   warningTime,
	}
	b.portalBoundary = b.halfSize()
	return b
}

func (b *Border) halfSize() float64 {
	h := b.size / 2
	if h < 0 {
		return 0
	}
	return h
}

// Snapshot is a copy of the border's current fields, safe to read and send
// to clients without holding Border's lock.
type Snapshot struct {
	CenterX, CenterZ       float64
	Size                   float64
	WarningBlocks          int32
	WarningTime            int32
	PortalTeleportBoundary float64
}

// State returns a snapshot of the border's current fields.
func (b *Border) State() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		CenterX:                b.centerX,
		CenterZ:                b.centerZ,
		Size:                   b.size,
		WarningBlocks:          b.warningBlocks,
		WarningTime:            b.warningTime,
		PortalTeleportBoundary: b.portalBoundary,
	}
}

// SetCenter recenters the border instantly (original_source's
// WorldBorder::updateCenter has no lerp either; only size resizes do).
func (b *Border) SetCenter(x, z float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.centerX, b.centerZ = x, z
}

// Resize starts (or replaces) an active lerp toward newSize over
// durationTicks world ticks (spec.md §3 "Resize operations carry a target
// diameter and a linear-interpolation duration"). durationTicks <= 0
// applies the new size immediately, matching a `/worldborder set` with no
// time argument.
func (b *Border) Resize(newSize float64, durationTicks int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if durationTicks <= 0 {
		b.size = newSize
		b.targetSize = newSize
		b.lerpRemaining = 0
		b.portalBoundary = b.halfSize()
		return
	}
	b.targetSize = newSize
	b.lerpRemaining = durationTicks
	b.lerpPerTick = (newSize - b.size) / float64(durationTicks)
}

// Advance steps an in-progress resize by one tick, reporting whether the
// size changed (so the caller only broadcasts a border-size packet on an
// actual step, not every idle tick).
func (b *Border) Advance() (newSize float64, changed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lerpRemaining <= 0 {
		return b.size, false
	}
	b.lerpRemaining--
	if b.lerpRemaining == 0 {
		b.size = b.targetSize
	} else {
		b.size += b.lerpPerTick
	}
	b.portalBoundary = b.halfSize()
	return b.size, true
}
