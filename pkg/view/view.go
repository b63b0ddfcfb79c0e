// Package view implements the per-player view-distance controller (spec.md
// §4.10/C10): diffing the old and new chunk-coordinate sets on movement,
// driving loads through a worker pool, and deciding relative-move versus
// absolute-teleport encoding. Grounded on the teacher's sendChunkUpdates
// (server.go), generalized from its fixed ViewDistance full-rescan into a
// real set-diff against the narrower of the player's and server's view
// distance.
package view

import (
	"github.com/ChickenIQ/vanillago/pkg/broadcast"
)

// relativeMoveLimit is the largest per-axis delta a relative-move packet
// can encode (a signed 16-bit value in units of 1/4096 block, so
// 32767/4096); beyond it the client must
// receive an absolute teleport (spec.md §4.10 step 5).
const relativeMoveLimit = 7.999755859375

// Coord is a chunk coordinate, aliased to broadcast.ChunkCoord so the two
// packages share one type for the same concept.
type Coord = broadcast.ChunkCoord

// Set is a chunk-coordinate membership set.
type Set map[Coord]struct{}

// ViewRadius returns the lesser of the player's requested view distance and
// the server's configured maximum.
func ViewRadius(playerView, serverView int32) int32 {
	if playerView < serverView {
		return playerView
	}
	return serverView
}

// ComputeView returns the full chunk set visible from (centerX, centerZ) at
// the given radius (spec.md §4.10 step 1).
func ComputeView(centerX, centerZ, radius int32) Set {
	set := make(Set, (2*radius+1)*(2*radius+1))
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			set[Coord{X: centerX + dx, Z: centerZ + dz}] = struct{}{}
		}
	}
	return set
}

// Diff computes to_remove = old \ new and to_add = new \ old (spec.md §4.10
// step 2).
func Diff(old, next Set) (toRemove, toAdd []Coord) {
	for c := range old {
		if _, ok := next[c]; !ok {
			toRemove = append(toRemove, c)
		}
	}
	for c := range next {
		if _, ok := old[c]; !ok {
			toAdd = append(toAdd, c)
		}
	}
	return toRemove, toAdd
}

// UseRelativeMove reports whether a movement of (dx, dy, dz) fits the
// relative-move encoding on every axis, per spec.md §4.10 step 5's
// "|delta| < 7.999755859375 per axis -> relative, else absolute".
func UseRelativeMove(dx, dy, dz float64) bool {
	return absLess(dx) && absLess(dy) && absLess(dz)
}

func absLess(v float64) bool {
	if v < 0 {
		v = -v
	}
	return v < relativeMoveLimit
}
