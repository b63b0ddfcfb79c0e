package chunkrepo

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// AnvilRegion is an opaque adapter over the Anvil region-file layout spec.md
// §6 describes: a 32x32 chunk region with two 4096-byte header tables
// (offset/sector-count and timestamps, big-endian), followed by chunk
// payloads each prefixed with a 4-byte big-endian length and a 1-byte
// compression-type (2 = zlib). The core treats this as an opaque
// load/store interface (spec.md §4.4) — region-file editing semantics
// beyond round-tripping an opaque blob are out of scope (spec.md §1).
type AnvilRegion struct {
	dir string
	mu  sync.Mutex
}

const (
	sectorSize    = 4096
	headerSectors = 2 // offset table + timestamp table
	compressionZlib = byte(2)
)

func NewAnvilRegion(worldDir string) *AnvilRegion {
	return &AnvilRegion{dir: worldDir}
}

func regionCoord(cx, cz int32) (rx, rz int32) {
	return floorDiv(cx, 32), floorDiv(cz, 32)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (a *AnvilRegion) path(rx, rz int32) string {
	return filepath.Join(a.dir, fmt.Sprintf("r.%d.%d.mca", rx, rz))
}

// Load reads the raw compressed NBT payload for (cx,cz), or ok=false if the
// region file or the chunk's entry is absent.
func (a *AnvilRegion) Load(cx, cz int32) ([]byte, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rx, rz := regionCoord(cx, cz)
	f, err := os.Open(a.path(rx, rz))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	localX, localZ := int(cx-rx*32), int(cz-rz*32)
	entryOffset := 4 * ((localX & 31) + (localZ&31)*32)

	header := make([]byte, sectorSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, false, err
	}
	entry := binary.BigEndian.Uint32(header[entryOffset : entryOffset+4])
	offsetSectors := entry >> 8
	sectorCount := entry & 0xFF
	if offsetSectors == 0 && sectorCount == 0 {
		return nil, false, nil
	}

	if _, err := f.Seek(int64(offsetSectors)*sectorSize, io.SeekStart); err != nil {
		return nil, false, err
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
		return nil, false, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length < 1 {
		return nil, false, nil
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(f, payload); err != nil {
		return nil, false, err
	}
	// payload[0] is the compression-type byte (2 = zlib); callers decode it.
	return payload, true, nil
}

// Store writes data (a compression-type byte followed by compressed NBT) for
// (cx,cz), appending a new sector run and rewriting the header entry.
// Sector accounting is kept simple (always append) rather than reusing freed
// sectors — adequate for the round-trippable-opaque-blob contract this core
// needs (spec.md §4.4), not a general-purpose region file compactor.
func (a *AnvilRegion) Store(cx, cz int32, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rx, rz := regionCoord(cx, cz)
	path := a.path(rx, rz)

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, sectorSize*headerSectors)
	if n, _ := f.ReadAt(header, 0); n < len(header) {
		// New file: zero header, no existing sectors allocated.
	}

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	existingSectors := uint32(fi.Size() / sectorSize)
	if existingSectors < headerSectors {
		existingSectors = headerSectors
	}

	var body []byte
	body = append(body, 0, 0, 0, 0)
	binary.BigEndian.PutUint32(body, uint32(len(data)))
	body = append(body, data...)
	sectorsNeeded := uint32((len(body) + sectorSize - 1) / sectorSize)
	if sectorsNeeded == 0 {
		sectorsNeeded = 1
	}
	padded := make([]byte, sectorsNeeded*sectorSize)
	copy(padded, body)

	if _, err := f.WriteAt(padded, int64(existingSectors)*sectorSize); err != nil {
		return err
	}

	localX, localZ := int(cx-rx*32), int(cz-rz*32)
	entryOffset := 4 * ((localX & 31) + (localZ&31)*32)
	entry := (existingSectors << 8) | (sectorsNeeded & 0xFF)
	binary.BigEndian.PutUint32(header[entryOffset:entryOffset+4], entry)

	_, err = f.WriteAt(header, 0)
	return err
}
