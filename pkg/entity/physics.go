package entity

import "math"

// SolidAt reports whether the block at (x, y, z) is solid, for AABB
// collision checks. Callers inject this from their chunk repository rather
// than this package importing pkg/voxel directly, keeping entity physics
// decoupled from the storage layer (spec.md §9 "shared mutable globals are
// threaded explicitly").
type SolidAt func(x, y, z int32) bool

const (
	gravity     = 0.04
	airDrag     = 0.98
	groundDrag  = 0.58
	restEpsilon = 0.001
	bounceDamp  = -0.5
	bounceStop  = 0.1
)

// collides reports whether an AABB of (width, height) centered at (x,z) and
// based at y intersects any solid block, grounded on the teacher's
// checkEntityCollision.
func collides(solid SolidAt, x, y, z, width, height float64) bool {
	minX := int32(math.Floor(x - width/2))
	maxX := int32(math.Floor(x + width/2))
	minY := int32(math.Floor(y))
	maxY := int32(math.Floor(y + height))
	minZ := int32(math.Floor(z - width/2))
	maxZ := int32(math.Floor(z + width/2))

	for bx := minX; bx <= maxX; bx++ {
		for by := minY; by <= maxY; by++ {
			for bz := minZ; bz <= maxZ; bz++ {
				if solid(bx, by, bz) {
					return true
				}
			}
		}
	}
	return false
}

// TickItemPhysics advances one item entity's position by one tick (1/20s),
// applying gravity, per-axis AABB collision with bounce-and-settle on the Y
// axis, and ground/air drag, grounded on the teacher's tickEntityPhysics
// item branch.
func TickItemPhysics(e *Entity, solid SolidAt) {
	if e.Kind != KindItem {
		return
	}
	w, h := e.Box.Width, e.Box.Height

	e.VY -= gravity

	if !collides(solid, e.X+e.VX, e.Y, e.Z, w, h) {
		e.X += e.VX
	} else {
		e.VX = 0
	}

	onGround := false
	if !collides(solid, e.X, e.Y+e.VY, e.Z, w, h) {
		e.Y += e.VY
	} else {
		if e.VY < 0 {
			onGround = true
		}
		e.VY *= bounceDamp
		if math.Abs(e.VY) < bounceStop {
			e.VY = 0
			if onGround {
				e.Y = math.Floor(e.Y)
			}
		}
	}

	if !collides(solid, e.X, e.Y, e.Z+e.VZ, w, h) {
		e.Z += e.VZ
	} else {
		e.VZ = 0
	}

	f := airDrag
	if onGround {
		f = groundDrag
	}
	e.VX *= f
	e.VY *= airDrag
	e.VZ *= f

	if math.Abs(e.VX) < restEpsilon {
		e.VX = 0
	}
	if math.Abs(e.VY) < restEpsilon {
		e.VY = 0
	}
	if math.Abs(e.VZ) < restEpsilon {
		e.VZ = 0
	}

	e.Item.OnGround = onGround
	if e.Item.PickupDelay > 0 {
		e.Item.PickupDelay--
	}
}
