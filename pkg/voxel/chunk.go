package voxel

import (
	"bytes"
	"sync"

	"github.com/ChickenIQ/vanillago/pkg/proto"
)

const (
	// MinY is the world's minimum block y coordinate (spec.md §3 "Chunk").
	MinY = -64
	// WorldHeight is the vertical extent in blocks.
	WorldHeight = 384
	// SectionCount is WorldHeight/16.
	SectionCount = WorldHeight / 16

	// AirDefaultStateID is the block-state id used to fill unset cells.
	AirDefaultStateID int32 = 0
)

// Section is one 16x16x16 vertical slice of a Chunk (spec.md §3 "Section").
type Section struct {
	blockCount int16
	blocks     *packedContainer
	biomes     *packedContainer
}

func newSection(defaultBlock, defaultBiome int32) *Section {
	return &Section{
		blocks: newPackedContainer(BlocksPerSection, defaultBlock, minBlockBitsPerEntry),
		biomes: newPackedContainer(BiomesPerSection, defaultBiome, minBiomeBitsPerEntry),
	}
}

// Empty reports whether the section has no non-air blocks (spec.md §3).
func (s *Section) Empty() bool {
	return s.blockCount == 0
}

func blockIndex(lx, ly, lz int) int {
	return ((ly * 16) + lz) * 16 + lx
}

func biomeIndex(lx, ly, lz int) int {
	// 4x4x4 biome cells over the 16x16x16 section.
	return ((ly/4)*4+(lz/4))*4 + (lx / 4)
}

func (s *Section) get(lx, ly, lz int) int32 {
	return s.blocks.get(blockIndex(lx, ly, lz))
}

func (s *Section) set(lx, ly, lz int, id int32) {
	idx := blockIndex(lx, ly, lz)
	wasAir := s.blocks.get(idx) == AirDefaultStateID
	isAir := id == AirDefaultStateID
	if wasAir && isAir {
		return // setting air in an already-air cell is a no-op (spec.md §4.3)
	}
	s.blocks.set(idx, id, minBlockBitsPerEntry)
	switch {
	case wasAir && !isAir:
		s.blockCount++
	case !wasAir && isAir:
		s.blockCount--
	}
}

func (s *Section) setBiome(lx, ly, lz int, biomeID int32) {
	s.biomes.set(biomeIndex(lx, ly, lz), biomeID, minBiomeBitsPerEntry)
}

// EncodeSection serializes a section for a chunk-data packet per spec.md
// §4.3: block_count (int16 BE), paletted block container, paletted biome
// container.
func EncodeSection(w *bytes.Buffer, s *Section) {
	proto.WriteInt16(w, s.blockCount)
	s.blocks.encode(w)
	s.biomes.encode(w)
}

// Chunk is a 16 x WorldHeight x 16 column of blocks (spec.md §3 "Chunk").
// Sections is guarded by its own mutex, never a global one (spec.md §5).
type Chunk struct {
	X, Z int32

	mu       sync.Mutex
	sections [SectionCount]*Section
	dirty    bool

	heightmaps map[string]*Heightmap
}

// NewChunk returns a chunk of all-air sections at biome 0.
func NewChunk(x, z int32) *Chunk {
	c := &Chunk{X: x, Z: z, heightmaps: make(map[string]*Heightmap)}
	for i := range c.sections {
		c.sections[i] = newSection(AirDefaultStateID, 0)
	}
	for _, name := range HeightmapVariants {
		c.heightmaps[name] = NewHeightmap()
	}
	return c
}

func sectionIndexForY(y int32) int {
	return int((y - MinY) / 16)
}

// inRange reports whether (x,y,z) is a valid column-local coordinate.
func inRange(x, y, z int32) bool {
	return x >= 0 && x < 16 && z >= 0 && z < 16 && y >= MinY && y < MinY+WorldHeight
}

// Get returns the block-state id at (x,y,z), column-local x/z, world-absolute
// y (spec.md §9 resolves the dual-convention Open Question: callers always
// use world-absolute y).
func (c *Chunk) Get(x, y, z int32) int32 {
	if !inRange(x, y, z) {
		return AirDefaultStateID
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sec := c.sections[sectionIndexForY(y)]
	return sec.get(int(x), int((y-MinY)%16), int(z))
}

// Set assigns the block-state id at (x,y,z). It may extend the section's
// palette, widen its bits-per-entry and repack, and marks the chunk dirty
// (spec.md §4.3 contract).
func (c *Chunk) Set(x, y, z int32, id int32) {
	if !inRange(x, y, z) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sec := c.sections[sectionIndexForY(y)]
	before := sec.blocks.bitsPerEntry
	prev := sec.get(int(x), int((y-MinY)%16), int(z))
	sec.set(int(x), int((y-MinY)%16), int(z), id)
	if sec.blocks.bitsPerEntry != before || id != AirDefaultStateID || prev != AirDefaultStateID {
		c.dirty = true
	}
}

// SetBiome assigns a biome id to the 4x4x4 cell containing (x,y,z).
func (c *Chunk) SetBiome(x, y, z int32, biomeID int32) {
	if !inRange(x, y, z) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sec := c.sections[sectionIndexForY(y)]
	sec.setBiome(int(x), int((y-MinY)%16), int(z), biomeID)
}

// Dirty reports whether the chunk has been mutated since load/generation.
func (c *Chunk) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Section returns the section at vertical index i (0 = lowest), for callers
// that need direct wire encoding (e.g. view/session packet assembly).
func (c *Chunk) Section(i int) *Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sections[i]
}

// Heightmap returns the named heightmap, creating an empty one if the name is
// unknown. It is not recomputed from the chunk's blocks.
func (c *Chunk) Heightmap(name string) *Heightmap {
	c.mu.Lock()
	defer c.mu.Unlock()
	hm := c.heightmaps[name]
	if hm == nil {
		hm = NewHeightmap()
		c.heightmaps[name] = hm
	}
	return hm
}

// EncodeSections serializes every section of the chunk in vertical order,
// lowest first, into w (used by the chunk-data packet body).
func (c *Chunk) EncodeSections(w *bytes.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sec := range c.sections {
		EncodeSection(w, sec)
	}
}
