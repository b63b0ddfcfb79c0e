package voxel

import (
	"bytes"

	"github.com/ChickenIQ/vanillago/pkg/proto"
)

// LightData holds the per-section 2048-byte nibble arrays for one light kind
// across every vertical section of a column: SectionCount slots, slot i for
// section i (spec.md §4.3 light masks: bit i means section i has data). It
// has no extra slots for the sections below or above the world.
type LightData struct {
	// Present[i] indicates whether section i carries light data.
	Present [][]byte
}

// NewLightData returns a LightData with slots for every section, all absent
// (nil) until filled in by a lighting pass.
func NewLightData() *LightData {
	return &LightData{Present: make([][]byte, SectionCount)}
}

// Fill sets full-bright (0xFF) light for section i, used by the flat
// generator in lieu of a real lighting engine (spec.md Non-goals: no physics
// beyond item gravity/AABB — lighting simulation is likewise out of scope;
// flat worlds are fully lit).
func (l *LightData) Fill(i int) {
	data := make([]byte, 2048)
	for j := range data {
		data[j] = 0xFF
	}
	l.Present[i] = data
}

// EncodeLightMasks writes the four bit-sets and the two light-array lists
// spec.md §4.3 describes: for each of {sky, block, empty_sky, empty_block} a
// bit-set of which sections have data, then the sky/block arrays themselves.
func EncodeLightMasks(w *bytes.Buffer, sky, block *LightData) {
	skyMask, emptySkyMask := masksFor(sky)
	blockMask, emptyBlockMask := masksFor(block)

	writeBitset(w, skyMask)
	writeBitset(w, blockMask)
	writeBitset(w, emptySkyMask)
	writeBitset(w, emptyBlockMask)

	writeLightArrays(w, sky)
	writeLightArrays(w, block)
}

func masksFor(l *LightData) (present, empty []bool) {
	present = make([]bool, len(l.Present))
	empty = make([]bool, len(l.Present))
	for i, d := range l.Present {
		if d != nil {
			present[i] = true
		} else {
			empty[i] = true
		}
	}
	return
}

func writeBitset(w *bytes.Buffer, bits []bool) {
	numLongs := (len(bits) + 63) / 64
	longs := make([]int64, numLongs)
	for i, b := range bits {
		if b {
			longs[i/64] |= int64(1) << uint(i%64)
		}
	}
	proto.WriteVarInt(w, int32(numLongs))
	for _, l := range longs {
		proto.WriteInt64(w, l)
	}
}

func writeLightArrays(w *bytes.Buffer, l *LightData) {
	var present [][]byte
	for _, d := range l.Present {
		if d != nil {
			present = append(present, d)
		}
	}
	proto.WriteVarInt(w, int32(len(present)))
	for _, d := range present {
		proto.WriteVarInt(w, int32(len(d)))
		w.Write(d)
	}
}
