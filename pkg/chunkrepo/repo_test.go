package chunkrepo

import (
	"sync"
	"testing"

	"github.com/ChickenIQ/vanillago/pkg/voxel"
)

func TestGenerateClassicFlat(t *testing.T) {
	// Scenario B: bedrock, 2x dirt, grass yields a populated section 0 and
	// all-empty sections above it.
	const bedrock, dirt, grass, plains = 1, 2, 3, 10
	preset := ClassicFlat(bedrock, dirt, grass, plains)
	c := Generate(0, 0, preset)

	if c.Get(0, -64, 0) != bedrock {
		t.Fatalf("y=-64 should be bedrock")
	}
	if c.Get(0, -63, 0) != dirt || c.Get(0, -62, 0) != dirt {
		t.Fatalf("y=-63,-62 should be dirt")
	}
	if c.Get(0, -61, 0) != grass {
		t.Fatalf("y=-61 should be grass")
	}
	if c.Get(0, -60, 0) != 0 {
		t.Fatalf("y=-60 should be air")
	}
	sec0 := c.Section(0)
	if sec0.Empty() {
		t.Fatalf("section 0 should not be empty")
	}
	for i := 1; i < voxel.SectionCount; i++ {
		if !c.Section(i).Empty() {
			t.Fatalf("section %d should be empty", i)
		}
	}
}

func TestFutureCoalescing(t *testing.T) {
	preset := ClassicFlat(1, 2, 3, 10)
	repo := New(nil, preset)

	const n = 16
	var wg sync.WaitGroup
	chunksCh := make(chan *voxel.Chunk, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			c, err := repo.GetOrLoad(5, 5)
			if err != nil {
				t.Error(err)
				return
			}
			chunksCh <- c
		}()
	}
	wg.Wait()
	close(chunksCh)

	var first *voxel.Chunk
	for c := range chunksCh {
		if first == nil {
			first = c
		} else if c != first {
			t.Fatalf("concurrent GetOrLoad calls returned different chunk instances")
		}
	}
	if repo.Count() != 1 {
		t.Fatalf("repo should hold exactly one resident chunk, got %d", repo.Count())
	}
}

func TestRegionCoordFloorDiv(t *testing.T) {
	cases := []struct{ cx, cz, rx, rz int32 }{
		{0, 0, 0, 0},
		{31, 31, 0, 0},
		{32, 32, 1, 1},
		{-1, -1, -1, -1},
		{-32, -32, -1, -1},
		{-33, -33, -2, -2},
	}
	for _, c := range cases {
		rx, rz := regionCoord(c.cx, c.cz)
		if rx != c.rx || rz != c.rz {
			t.Fatalf("regionCoord(%d,%d) = (%d,%d), want (%d,%d)", c.cx, c.cz, rx, rz, c.rx, c.rz)
		}
	}
}
