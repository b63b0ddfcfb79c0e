package registry

import "github.com/ChickenIQ/vanillago/pkg/nbt"

// Biome is a concrete minecraft:worldgen/biome entry.
type Biome struct {
	Name       string
	Data       map[string]any
}

func (b Biome) Serialize() nbt.Tag { return Record{Name: b.Name, Data: b.Data}.Serialize() }

// BiomeTag aggregates a named set of biomes (spec.md §4.5: "biome-tag
// aggregates — an identifier plus a list of included biome names").
type BiomeTag struct {
	Name    string
	Biomes  []string
}

// Serialize emits a nameless compound of {"values": [string,...]}, the shape
// Minecraft's tag files use, so round-tripping through NBT is lossless.
func (bt BiomeTag) Serialize() nbt.Tag {
	items := make([]nbt.Tag, len(bt.Biomes))
	for i, name := range bt.Biomes {
		items[i] = nbt.String(name)
	}
	c := nbt.NewCompound()
	c.Put("values", nbt.List(nbt.KindString, items))
	return c
}

// SplitBiomes partitions a worldgen/biome registry's entries into concrete
// biomes and tag aggregates, keyed by the record's "values" field being
// present (tag aggregates carry only a values list; concrete biomes carry
// climate/effects data).
func SplitBiomes(reg *Registry) (biomes []Biome, tags []BiomeTag) {
	for _, e := range reg.Entries {
		if raw, ok := e.Data["values"]; ok {
			if list, ok := raw.([]any); ok {
				names := make([]string, 0, len(list))
				for _, v := range list {
					if s, ok := v.(string); ok {
						names = append(names, s)
					}
				}
				tags = append(tags, BiomeTag{Name: e.Name, Biomes: names})
				continue
			}
		}
		biomes = append(biomes, Biome{Name: e.Name, Data: e.Data})
	}
	return
}
