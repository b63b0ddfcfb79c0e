package view

import (
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ChickenIQ/vanillago/pkg/broadcast"
	"github.com/ChickenIQ/vanillago/pkg/voxel"
)

func TestComputeViewSize(t *testing.T) {
	set := ComputeView(0, 0, 2)
	if len(set) != 25 {
		t.Fatalf("expected 5x5=25 chunks at radius 2, got %d", len(set))
	}
}

func TestDiffRemoveAndAdd(t *testing.T) {
	old := ComputeView(0, 0, 1)
	next := ComputeView(1, 0, 1)
	toRemove, toAdd := Diff(old, next)

	if len(toRemove) == 0 || len(toAdd) == 0 {
		t.Fatalf("expected both removals and additions, got remove=%d add=%d", len(toRemove), len(toAdd))
	}
	for _, c := range toRemove {
		if _, ok := next[c]; ok {
			t.Fatalf("removed coord %v unexpectedly present in new set", c)
		}
	}
	for _, c := range toAdd {
		if _, ok := old[c]; ok {
			t.Fatalf("added coord %v unexpectedly present in old set", c)
		}
	}
}

func TestUseRelativeMoveThreshold(t *testing.T) {
	if !UseRelativeMove(7.9, 0, 0) {
		t.Fatalf("expected 7.9 to qualify for relative move")
	}
	if UseRelativeMove(7.999755859375, 0, 0) {
		t.Fatalf("expected exactly the limit to require absolute teleport")
	}
	if UseRelativeMove(8.0, 0, 0) {
		t.Fatalf("expected 8.0 to require absolute teleport")
	}
	if !UseRelativeMove(-7.9, 0, 0) {
		t.Fatalf("expected -7.9 within threshold")
	}
}

func TestViewRadiusTakesLesser(t *testing.T) {
	if ViewRadius(12, 10) != 10 {
		t.Fatalf("expected server cap to win")
	}
	if ViewRadius(4, 10) != 4 {
		t.Fatalf("expected player's smaller request to win")
	}
}

type fakePlayer struct {
	id        uuid.UUID
	mu        sync.Mutex
	sent      []broadcast.ChunkCoord
	centeredX int32
	centeredZ int32
}

func (p *fakePlayer) UUID() uuid.UUID       { return p.id }
func (p *fakePlayer) Send([]byte) error     { return nil }
func (p *fakePlayer) SendChunk(c *voxel.Chunk) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, broadcast.ChunkCoord{X: c.X, Z: c.Z})
}
func (p *fakePlayer) SendCenterChunk(cx, cz int32) {
	p.centeredX, p.centeredZ = cx, cz
}

type fakeSource struct {
	resident map[Coord]*voxel.Chunk
}

func (s *fakeSource) Peek(cx, cz int32) (*voxel.Chunk, bool) {
	c, ok := s.resident[Coord{X: cx, Z: cz}]
	return c, ok
}

func (s *fakeSource) GetOrLoad(cx, cz int32) (*voxel.Chunk, error) {
	if c, ok := s.resident[Coord{X: cx, Z: cz}]; ok {
		return c, nil
	}
	c := voxel.NewChunk(cx, cz)
	s.resident[Coord{X: cx, Z: cz}] = c
	return c, nil
}

func TestInitialJoinSendsAllChunksAndCenters(t *testing.T) {
	src := &fakeSource{resident: map[Coord]*voxel.Chunk{
		{X: 0, Z: 0}: voxel.NewChunk(0, 0),
	}}
	viewers := broadcast.New()
	ctrl := New(viewers, src, src, nil, 1)
	p := &fakePlayer{id: uuid.New()}
	sub := NewSubscription()

	ctrl.InitialJoin(p, sub, 0, 0, 1)

	if len(p.sent) != 9 {
		t.Fatalf("expected 3x3=9 chunks sent, got %d", len(p.sent))
	}
	if p.centeredX != 0 || p.centeredZ != 0 {
		t.Fatalf("expected center chunk (0,0), got (%d,%d)", p.centeredX, p.centeredZ)
	}
	if viewers.ViewerCount(Coord{X: 0, Z: 0}) != 1 {
		t.Fatalf("expected player registered as viewer of (0,0)")
	}
}

func TestUpdateSubscriptionUnsubscribesStaleChunks(t *testing.T) {
	src := &fakeSource{resident: map[Coord]*voxel.Chunk{}}
	viewers := broadcast.New()
	ctrl := New(viewers, src, src, nil, 5)
	p := &fakePlayer{id: uuid.New()}
	sub := NewSubscription()

	ctrl.InitialJoin(p, sub, 0, 0, 1)
	if viewers.ViewerCount(Coord{X: -1, Z: -1}) != 1 {
		t.Fatalf("expected initial join to cover (-1,-1)")
	}

	ctrl.UpdateSubscription(p, sub, 10, 10, 1)

	if viewers.ViewerCount(Coord{X: -1, Z: -1}) != 0 {
		t.Fatalf("expected old chunk unsubscribed after moving far away")
	}
	if viewers.ViewerCount(Coord{X: 10, Z: 10}) != 1 {
		t.Fatalf("expected new center chunk subscribed")
	}
}

func TestDiffCoordsSortedForDeterminism(t *testing.T) {
	old := ComputeView(0, 0, 0)
	next := ComputeView(5, 5, 0)
	_, toAdd := Diff(old, next)
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i].X < toAdd[j].X })
	if len(toAdd) != 1 || toAdd[0] != (Coord{X: 5, Z: 5}) {
		t.Fatalf("expected single added coord (5,5), got %v", toAdd)
	}
}
