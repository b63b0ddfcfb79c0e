package chunkrepo

import (
	"errors"
	"sync"

	"github.com/ChickenIQ/vanillago/pkg/voxel"
)

// ErrChunkUnavailable is returned when neither load nor generate produced a
// chunk (spec.md §7).
var ErrChunkUnavailable = errors.New("chunkrepo: chunk unavailable")

// Coord identifies a chunk by its column coordinate.
type Coord struct{ X, Z int32 }

// RegionAdapter is the opaque on-disk interface spec.md §4.4/§6 names as an
// external collaborator: the core only needs load/store, not the Anvil
// format's internal layout (see anvil.go for the contract implementation).
type RegionAdapter interface {
	Load(cx, cz int32) (data []byte, ok bool, err error)
	Store(cx, cz int32, data []byte) error
}

// Repository is the concurrent load-or-generate chunk cache (spec.md §4.4).
// The first load of a coordinate happens-before every subsequent observation
// of that chunk via GetOrLoad (spec.md §5).
type Repository struct {
	mu     sync.Mutex
	chunks map[Coord]*voxel.Chunk
	// inflight coalesces concurrent loads of the same absent coordinate so
	// exactly one load/generate attempt happens and all callers share its
	// result (spec.md §4.4 "future-coalescing").
	inflight map[Coord]*loadFuture

	region RegionAdapter
	preset FlatPreset

	decode func(data []byte) (*voxel.Chunk, error)
	encode func(c *voxel.Chunk) ([]byte, error)
}

type loadFuture struct {
	done  chan struct{}
	chunk *voxel.Chunk
	err   error
}

// New constructs a repository backed by region (may be nil to always
// generate) and the given flat preset.
func New(region RegionAdapter, preset FlatPreset) *Repository {
	return &Repository{
		chunks:   make(map[Coord]*voxel.Chunk),
		inflight: make(map[Coord]*loadFuture),
		region:   region,
		preset:   preset,
	}
}

// Peek returns an already-resident chunk without triggering load/generate.
func (r *Repository) Peek(cx, cz int32) (*voxel.Chunk, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chunks[Coord{cx, cz}]
	return c, ok
}

// GetOrLoad returns the chunk at (cx,cz), generating it from the configured
// flat preset on miss when there is no region adapter or the adapter has no
// data for it. Concurrent calls for the same coordinate share one attempt.
// New sets no chunk decoder, so when the region adapter does hold data for
// the coordinate, GetOrLoad returns ErrChunkUnavailable rather than a chunk.
func (r *Repository) GetOrLoad(cx, cz int32) (*voxel.Chunk, error) {
	coord := Coord{cx, cz}

	r.mu.Lock()
	if c, ok := r.chunks[coord]; ok {
		r.mu.Unlock()
		return c, nil
	}
	if f, ok := r.inflight[coord]; ok {
		r.mu.Unlock()
		<-f.done
		return f.chunk, f.err
	}
	f := &loadFuture{done: make(chan struct{})}
	r.inflight[coord] = f
	r.mu.Unlock()

	c, err := r.loadOrGenerate(cx, cz)

	r.mu.Lock()
	if err == nil {
		r.chunks[coord] = c
	}
	delete(r.inflight, coord)
	f.chunk, f.err = c, err
	close(f.done)
	r.mu.Unlock()

	return c, err
}

func (r *Repository) loadOrGenerate(cx, cz int32) (*voxel.Chunk, error) {
	if r.region != nil {
		data, ok, err := r.region.Load(cx, cz)
		if err != nil {
			return nil, err
		}
		if ok {
			if r.decode == nil {
				return nil, ErrChunkUnavailable
			}
			return r.decode(data)
		}
	}
	c := Generate(cx, cz, r.preset)
	if c == nil {
		return nil, ErrChunkUnavailable
	}
	return c, nil
}

// Store writes c through the region adapter when both an adapter and a chunk
// encoder are set. New sets no encoder, so on a Repository built by New,
// Store writes nothing and returns nil. Live-mutation persistence is out of
// scope (spec.md §1 Non-goals: "no persistence of live world mutations").
func (r *Repository) Store(c *voxel.Chunk) error {
	if r.region == nil || r.encode == nil {
		return nil
	}
	data, err := r.encode(c)
	if err != nil {
		return err
	}
	return r.region.Store(c.X, c.Z, data)
}

// Count returns the number of currently resident chunks (diagnostics/tests).
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}
