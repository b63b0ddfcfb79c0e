// Package chunkrepo implements the chunk repository (spec.md §4.4/C4): a
// concurrent load-or-generate cache keyed by chunk coordinate, backed by an
// opaque region-file adapter, with future-coalescing so concurrent requests
// for the same absent chunk share one load attempt.
package chunkrepo

import "github.com/ChickenIQ/vanillago/pkg/voxel"

// Layer is one (block, height) band of a flat preset, filled bottom-up from
// MinY (spec.md §4.4 "A flat preset is an ordered list of (block_name,
// height) layers").
type Layer struct {
	BlockStateID int32
	Height       int32
}

// FlatPreset describes a superflat world: layers plus a biome and
// feature/lake flags. Generation itself only consumes Layers/BiomeID; the
// flags are carried through because spec.md names them as part of the preset
// record even though flat generation (the only generator in scope, per
// Non-goals) does not act on them.
type FlatPreset struct {
	Layers       []Layer
	BiomeID      int32
	Features     bool
	Lakes        bool
}

// ClassicFlat matches end-to-end scenario B: bedrock, 2x dirt, grass.
func ClassicFlat(bedrock, dirt, grass, plains int32) FlatPreset {
	return FlatPreset{
		Layers: []Layer{
			{BlockStateID: bedrock, Height: 1},
			{BlockStateID: dirt, Height: 2},
			{BlockStateID: grass, Height: 1},
		},
		BiomeID: plains,
	}
}

// Generate fills a new chunk bottom-up through the preset's layers, padding
// with air above, and assigns the biome to every biome cell of every section
// (spec.md §4.4).
func Generate(cx, cz int32, preset FlatPreset) *voxel.Chunk {
	c := voxel.NewChunk(cx, cz)
	y := int32(voxel.MinY)
	for _, layer := range preset.Layers {
		for i := int32(0); i < layer.Height && y < voxel.MinY+voxel.WorldHeight; i++ {
			fillLayer(c, y, layer.BlockStateID)
			y++
		}
	}
	fillBiomeColumn(c, preset.BiomeID)
	return c
}

func fillLayer(c *voxel.Chunk, y int32, id int32) {
	for x := int32(0); x < 16; x++ {
		for z := int32(0); z < 16; z++ {
			c.Set(x, y, z, id)
		}
	}
}

func fillBiomeColumn(c *voxel.Chunk, biomeID int32) {
	for y := int32(voxel.MinY); y < voxel.MinY+voxel.WorldHeight; y += 4 {
		for x := int32(0); x < 16; x += 4 {
			for z := int32(0); z < 16; z += 4 {
				c.SetBiome(x, y, z, biomeID)
			}
		}
	}
}
