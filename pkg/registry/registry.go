// Package registry parses the static JSON registry documents (spec.md
// §4.5/C5) into typed records serializable to nameless NBT compounds, for
// the configuration phase's registry-data packets (spec.md §4.9).
package registry

import (
	"encoding/json"
	"fmt"

	"github.com/ChickenIQ/vanillago/pkg/nbt"
)

// Record is one named entry of a registry, serializable to a nameless NBT
// compound (spec.md §4.5).
type Record struct {
	Name string
	Data map[string]any
}

// Serialize converts Data into a nameless NBT compound, mapping JSON scalar
// kinds onto NBT tag kinds field-by-field.
func (r Record) Serialize() nbt.Tag {
	return mapToCompound(r.Data)
}

func mapToCompound(m map[string]any) nbt.Tag {
	c := nbt.NewCompound()
	for k, v := range m {
		c.Put(k, valueToTag(v))
	}
	return c
}

func valueToTag(v any) nbt.Tag {
	switch val := v.(type) {
	case string:
		return nbt.String(val)
	case bool:
		if val {
			return nbt.Byte(1)
		}
		return nbt.Byte(0)
	case float64:
		if val == float64(int32(val)) {
			return nbt.Int(int32(val))
		}
		return nbt.Float(float32(val))
	case map[string]any:
		return mapToCompound(val)
	case []any:
		items := make([]nbt.Tag, len(val))
		kind := nbt.KindCompound
		for i, e := range val {
			items[i] = valueToTag(e)
			if i == 0 {
				kind = items[i].Kind
			}
		}
		return nbt.List(kind, items)
	default:
		return nbt.Tag{Kind: nbt.KindEnd}
	}
}

// Registry is one named registry's list of records. Load appends them in Go
// map iteration order over the parsed document, so the JSON file's entry
// order is not kept.
type Registry struct {
	ID      string
	Entries []Record
}

// Document is the on-disk JSON shape: a map of registry id to its entries,
// e.g. {"minecraft:dimension_type": {"minecraft:overworld": {...}, ...}}.
type Document map[string]map[string]map[string]any

// KnownRegistries are the registry ids spec.md §4.5 names, including the
// synthesized chat_type registry the server fabricates rather than loading.
var KnownRegistries = []string{
	"minecraft:dimension_type",
	"minecraft:worldgen/biome",
	"minecraft:painting_variant",
	"minecraft:wolf_variant",
	"minecraft:damage_type",
	"minecraft:chat_type",
}

// Load parses raw into a set of Registry values, one per top-level key.
func Load(raw []byte) (map[string]*Registry, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("registry: parse document: %w", err)
	}
	out := make(map[string]*Registry, len(doc))
	for id, entries := range doc {
		reg := &Registry{ID: id}
		for name, data := range entries {
			reg.Entries = append(reg.Entries, Record{Name: name, Data: data})
		}
		out[id] = reg
	}
	return out, nil
}
