// Package broadcast implements the two fan-out indexes (spec.md §4.12/C12):
// connected_clients and chunk_viewers, each guarded by its own mutex, with
// snapshot-then-send semantics so no lock is held during packet sends.
// Grounded on the teacher's server.go broadcast helpers (broadcastPacket,
// broadcastToChunkViewers) generalized to explicit index types instead of
// inline map access scattered across Server methods.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
)

// ChunkCoord is a chunk's (x, z) coordinate.
type ChunkCoord struct {
	X, Z int32
}

// Client is anything broadcast can send a packet to. Implementations own
// their own per-connection send lock so concurrent broadcasts can't
// interleave bytes of two packets (spec.md §4.12 "send is serialized per
// connection").
type Client interface {
	UUID() uuid.UUID
	Send(packet []byte) error
}

// Index holds connected_clients and chunk_viewers behind independent
// mutexes, matching spec.md §9's "each guarded by a single mutex" and "no
// lock nesting across viewer-lock -> send-lock".
type Index struct {
	clientsMu sync.Mutex
	clients   map[uuid.UUID]Client

	viewersMu sync.Mutex
	viewers   map[ChunkCoord]map[uuid.UUID]Client
}

func New() *Index {
	return &Index{
		clients: make(map[uuid.UUID]Client),
		viewers: make(map[ChunkCoord]map[uuid.UUID]Client),
	}
}

// AddClient registers a connected client.
func (idx *Index) AddClient(c Client) {
	idx.clientsMu.Lock()
	defer idx.clientsMu.Unlock()
	idx.clients[c.UUID()] = c
}

// RemoveClient drops a client from connected_clients and every chunk_viewers
// entry it belongs to.
func (idx *Index) RemoveClient(id uuid.UUID) {
	idx.clientsMu.Lock()
	delete(idx.clients, id)
	idx.clientsMu.Unlock()

	idx.viewersMu.Lock()
	for coord, set := range idx.viewers {
		if _, ok := set[id]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(idx.viewers, coord)
			}
		}
	}
	idx.viewersMu.Unlock()
}

// AddViewer adds client to a chunk's viewer set (spec.md §4.10 step 4).
func (idx *Index) AddViewer(coord ChunkCoord, c Client) {
	idx.viewersMu.Lock()
	defer idx.viewersMu.Unlock()
	set, ok := idx.viewers[coord]
	if !ok {
		set = make(map[uuid.UUID]Client)
		idx.viewers[coord] = set
	}
	set[c.UUID()] = c
}

// RemoveViewer removes id from a chunk's viewer set, dropping the map entry
// if it becomes empty (spec.md §4.10 step 3).
func (idx *Index) RemoveViewer(coord ChunkCoord, id uuid.UUID) {
	idx.viewersMu.Lock()
	defer idx.viewersMu.Unlock()
	set, ok := idx.viewers[coord]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(idx.viewers, coord)
	}
}

// ViewerCount reports how many clients are subscribed to coord.
func (idx *Index) ViewerCount(coord ChunkCoord) int {
	idx.viewersMu.Lock()
	defer idx.viewersMu.Unlock()
	return len(idx.viewers[coord])
}

// Broadcast snapshots connected_clients under the lock, then sends to each
// without holding it, optionally excluding one uuid (spec.md §4.12
// "broadcast(packet, exclude_uuid?)").
func (idx *Index) Broadcast(packet []byte, exclude *uuid.UUID) {
	idx.clientsMu.Lock()
	snapshot := make([]Client, 0, len(idx.clients))
	for id, c := range idx.clients {
		if exclude != nil && id == *exclude {
			continue
		}
		snapshot = append(snapshot, c)
	}
	idx.clientsMu.Unlock()

	for _, c := range snapshot {
		c.Send(packet)
	}
}

// ChunkBroadcast snapshots a chunk's viewer set under the lock, then sends
// to each without holding it (spec.md §4.12 "chunk_broadcast").
func (idx *Index) ChunkBroadcast(coord ChunkCoord, packet []byte) {
	idx.viewersMu.Lock()
	set, ok := idx.viewers[coord]
	var snapshot []Client
	if ok {
		snapshot = make([]Client, 0, len(set))
		for _, c := range set {
			snapshot = append(snapshot, c)
		}
	}
	idx.viewersMu.Unlock()

	for _, c := range snapshot {
		c.Send(packet)
	}
}

// Clients returns a snapshot of every currently connected client, for
// callers that need to reach all of them directly rather than through
// Broadcast (the world tick loop's teleport-id eviction sweep, spec.md
// §4.11).
func (idx *Index) Clients() []Client {
	idx.clientsMu.Lock()
	defer idx.clientsMu.Unlock()
	out := make([]Client, 0, len(idx.clients))
	for _, c := range idx.clients {
		out = append(out, c)
	}
	return out
}

// ViewersOf returns a snapshot of a chunk's current viewers.
func (idx *Index) ViewersOf(coord ChunkCoord) []Client {
	idx.viewersMu.Lock()
	defer idx.viewersMu.Unlock()
	set, ok := idx.viewers[coord]
	if !ok {
		return nil
	}
	out := make([]Client, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}
