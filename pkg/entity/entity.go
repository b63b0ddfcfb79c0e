// Package entity implements the entity manager (spec.md §4.8/C8): id
// allocation, uuid mapping, and a tagged-variant entity model shared by
// players and item entities, grounded on the teacher's server/entity.go
// (ItemEntity/MobEntity structs and tickEntityPhysics) generalized from two
// parallel ad-hoc structs into one common header plus per-kind payload
// (spec.md §9 "Dynamic dispatch across entity kinds").
package entity

import (
	"github.com/google/uuid"

	"github.com/ChickenIQ/vanillago/pkg/chat"
)

// Kind discriminates the per-entity payload (spec.md §3 "Entity").
type Kind byte

const (
	KindPlayer Kind = iota
	KindItem
)

// AABB is an axis-aligned bounding box local to the entity's position.
type AABB struct {
	Width, Height float64
}

// Header holds the attributes common to every entity kind (spec.md §3).
type Header struct {
	ID   int32
	UUID uuid.UUID

	X, Y, Z                float64
	Yaw, Pitch, HeadYaw    float32
	VX, VY, VZ             float64
	Box                    AABB
	Drag                   float64
}

// PlayerData is the KindPlayer payload. Connection/inventory/chunk-
// subscription state lives in pkg/session and pkg/inventory; this struct
// only holds the identity and presentation attributes the entity manager
// itself is responsible for (spec.md §3 "Players additionally carry...").
type PlayerData struct {
	Name          string
	GameMode      byte
	TexturesValue string
	TexturesSig   string
	ViewDistance  int32
	HotbarSlot    int32
	ChatSession   *chat.Session
	Language      string
}

// ItemData is the KindItem payload (spec.md §3 "Item entities carry a slot
// record ... and a tick countdown before eligibility for pickup").
type ItemData struct {
	ItemStateID   int32
	Count         int16
	PickupDelay   int32 // ticks remaining before this item can be picked up
	OnGround      bool
}

// Entity is the tagged-variant record: a common Header plus exactly one of
// Player or Item populated per Kind.
type Entity struct {
	Header
	Kind   Kind
	Player *PlayerData
	Item   *ItemData
}

const (
	itemWidth, itemHeight = 0.25, 0.25
	playerWidth, playerHeight = 0.6, 1.8
)

// NewPlayer builds a player entity header; callers assign id/uuid via the
// Manager.
func NewPlayer(name string) *Entity {
	return &Entity{
		Header: Header{Box: AABB{Width: playerWidth, Height: playerHeight}, Drag: 0.02},
		Kind:   KindPlayer,
		Player: &PlayerData{Name: name, ViewDistance: 10},
	}
}

// NewItem builds an item entity at (x, y, z) carrying (itemStateID, count).
func NewItem(x, y, z float64, itemStateID int32, count int16) *Entity {
	return &Entity{
		Header: Header{X: x, Y: y, Z: z, Box: AABB{Width: itemWidth, Height: itemHeight}, Drag: 0.02},
		Kind:   KindItem,
		Item:   &ItemData{ItemStateID: itemStateID, Count: count, PickupDelay: 10},
	}
}
