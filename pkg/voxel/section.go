// Package voxel implements the palette-compressed chunk/section storage
// format (spec.md §3/§4.3/C3): 16x16x16 block sections with dynamic
// bit-packed palette indices, biome sections, light nibble arrays, and
// heightmaps.
package voxel

import (
	"bytes"
	"math/bits"

	"github.com/ChickenIQ/vanillago/pkg/proto"
)

const (
	// BlocksPerSection is the entry count of a section's block array (16^3).
	BlocksPerSection = 16 * 16 * 16
	// BiomesPerSection is the entry count of a section's biome array (4^3).
	BiomesPerSection = 4 * 4 * 4

	minBlockBitsPerEntry = 4
	minBiomeBitsPerEntry = 1
)

// palette is an ordered, injective list of distinct ids used by a section
// (spec.md §3 "Palette invariants"). index(id) is O(palette size); sections
// are small (<=4096 blocks) so a linear scan outperforms map overhead for the
// typical palette sizes seen in practice, matching the direct-array approach
// the pack's chunk parsers use for the same structure.
type palette struct {
	ids []int32
}

func newPalette(defaultID int32) *palette {
	return &palette{ids: []int32{defaultID}}
}

func (p *palette) indexOf(id int32) (int, bool) {
	for i, v := range p.ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// indexOrAdd returns the palette index for id, appending it if new, and
// reports whether the palette grew.
func (p *palette) indexOrAdd(id int32) (int, bool) {
	if i, ok := p.indexOf(id); ok {
		return i, false
	}
	p.ids = append(p.ids, id)
	return len(p.ids) - 1, true
}

func bitsPerEntryFor(paletteSize, minimum int) int {
	if paletteSize <= 1 {
		return 0
	}
	b := bits.Len(uint(paletteSize - 1))
	if b < minimum {
		b = minimum
	}
	return b
}

// packedContainer is the bit-packed index array shared by block and biome
// storage: entries are little-end-first within each 64-bit long, and an
// entry never spans a long boundary (spec.md §3 "Section").
type packedContainer struct {
	bitsPerEntry int
	entries      []uint16 // palette indices, one per cell, width bitsPerEntry
	palette      *palette
}

func newPackedContainer(cellCount int, defaultID int32, minBits int) *packedContainer {
	p := newPalette(defaultID)
	return &packedContainer{
		bitsPerEntry: bitsPerEntryFor(1, minBits),
		entries:      make([]uint16, cellCount),
		palette:      p,
	}
}

func (c *packedContainer) get(cell int) int32 {
	idx := c.entries[cell]
	if int(idx) >= len(c.palette.ids) {
		return c.palette.ids[0]
	}
	return c.palette.ids[idx]
}

// set assigns id to cell, growing and/or re-widening the palette as needed
// (spec.md §3 "Palette invariants"; §8 properties 2,3; scenario E).
func (c *packedContainer) set(cell int, id int32, minBits int) {
	idx, grew := c.palette.indexOrAdd(id)
	c.entries[cell] = uint16(idx)
	if !grew {
		return
	}
	newWidth := bitsPerEntryFor(len(c.palette.ids), minBits)
	if newWidth > c.bitsPerEntry {
		c.bitsPerEntry = newWidth
	}
}

// single reports whether the container currently holds exactly one palette
// entry (wire bits-per-entry 0, no data array, spec.md §4.3).
func (c *packedContainer) single() bool {
	return len(c.palette.ids) <= 1
}

// encode emits the paletted-container wire shape: (bits_per_entry:u8,
// palette:VarInt-count+VarInt-entries, data:VarInt-longs-count+longs).
func (c *packedContainer) encode(w *bytes.Buffer) {
	if c.single() {
		w.WriteByte(0)
		proto.WriteVarInt(w, 1)
		proto.WriteVarInt(w, c.palette.ids[0])
		proto.WriteVarInt(w, 0)
		return
	}

	w.WriteByte(byte(c.bitsPerEntry))
	proto.WriteVarInt(w, int32(len(c.palette.ids)))
	for _, id := range c.palette.ids {
		proto.WriteVarInt(w, id)
	}

	longs := packLongs(c.entries, c.bitsPerEntry)
	proto.WriteVarInt(w, int32(len(longs)))
	for _, l := range longs {
		proto.WriteInt64(w, int64(l))
	}
}

// packLongs packs entries (each < 1<<bitsPerEntry) little-end-first into
// 64-bit longs, never letting an entry cross a long boundary.
func packLongs(entries []uint16, bitsPerEntry int) []uint64 {
	if bitsPerEntry == 0 {
		return nil
	}
	perLong := 64 / bitsPerEntry
	numLongs := (len(entries) + perLong - 1) / perLong
	out := make([]uint64, numLongs)
	for i, e := range entries {
		longIdx := i / perLong
		bitIdx := (i % perLong) * bitsPerEntry
		out[longIdx] |= uint64(e) << uint(bitIdx)
	}
	return out
}

// unpackLongs is the inverse of packLongs, used by tests and by re-encode
// round-trip checks (spec.md §8 "Chunk paletted container").
func unpackLongs(longs []uint64, bitsPerEntry, count int) []uint16 {
	out := make([]uint16, count)
	if bitsPerEntry == 0 {
		return out
	}
	perLong := 64 / bitsPerEntry
	mask := uint64(1)<<uint(bitsPerEntry) - 1
	for i := range out {
		longIdx := i / perLong
		bitIdx := (i % perLong) * bitsPerEntry
		out[i] = uint16((longs[longIdx] >> uint(bitIdx)) & mask)
	}
	return out
}
