package broadcast

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

type recordingClient struct {
	id  uuid.UUID
	mu  sync.Mutex
	got [][]byte
}

func newRecordingClient() *recordingClient {
	return &recordingClient{id: uuid.New()}
}

func (c *recordingClient) UUID() uuid.UUID { return c.id }

func (c *recordingClient) Send(packet []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, packet)
	return nil
}

func (c *recordingClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func TestBroadcastExcludesUUID(t *testing.T) {
	idx := New()
	a := newRecordingClient()
	b := newRecordingClient()
	idx.AddClient(a)
	idx.AddClient(b)

	excluded := a.UUID()
	idx.Broadcast([]byte("hi"), &excluded)

	if a.count() != 0 {
		t.Fatalf("expected excluded client to receive nothing, got %d sends", a.count())
	}
	if b.count() != 1 {
		t.Fatalf("expected other client to receive the packet, got %d sends", b.count())
	}
}

func TestChunkBroadcastOnlyReachesViewers(t *testing.T) {
	idx := New()
	a := newRecordingClient()
	b := newRecordingClient()
	coord := ChunkCoord{X: 1, Z: 2}
	idx.AddViewer(coord, a)

	idx.ChunkBroadcast(coord, []byte("chunk packet"))

	if a.count() != 1 {
		t.Fatalf("expected viewer to receive packet, got %d", a.count())
	}
	if b.count() != 0 {
		t.Fatalf("expected non-viewer to receive nothing, got %d", b.count())
	}
}

func TestRemoveViewerDropsEmptyMapEntry(t *testing.T) {
	idx := New()
	a := newRecordingClient()
	coord := ChunkCoord{X: 5, Z: 5}
	idx.AddViewer(coord, a)
	if idx.ViewerCount(coord) != 1 {
		t.Fatalf("expected 1 viewer")
	}
	idx.RemoveViewer(coord, a.UUID())
	if idx.ViewerCount(coord) != 0 {
		t.Fatalf("expected viewer removed")
	}
	idx.viewersMu.Lock()
	_, ok := idx.viewers[coord]
	idx.viewersMu.Unlock()
	if ok {
		t.Fatalf("expected empty chunk entry dropped from map")
	}
}

func TestClientsReturnsSnapshotOfConnected(t *testing.T) {
	idx := New()
	a := newRecordingClient()
	b := newRecordingClient()
	idx.AddClient(a)
	idx.AddClient(b)

	snapshot := idx.Clients()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 connected clients, got %d", len(snapshot))
	}

	idx.RemoveClient(a.UUID())
	if len(idx.Clients()) != 1 {
		t.Fatalf("expected 1 connected client after removal, got %d", len(idx.Clients()))
	}
}

func TestRemoveClientDropsFromAllViewerSets(t *testing.T) {
	idx := New()
	a := newRecordingClient()
	idx.AddClient(a)
	idx.AddViewer(ChunkCoord{X: 0, Z: 0}, a)
	idx.AddViewer(ChunkCoord{X: 1, Z: 0}, a)

	idx.RemoveClient(a.UUID())

	if idx.ViewerCount(ChunkCoord{X: 0, Z: 0}) != 0 || idx.ViewerCount(ChunkCoord{X: 1, Z: 0}) != 0 {
		t.Fatalf("expected client removed from all viewer sets")
	}
}
