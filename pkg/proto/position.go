package proto

import "io"

// EncodePosition packs a block coordinate into the 64-bit wire layout
// (spec.md §3): 26 signed bits for x, 26 signed bits for z, 12 signed bits
// for y, laid out as ((x&0x3FFFFFF)<<38) | ((z&0x3FFFFFF)<<12) | (y&0xFFF).
func EncodePosition(x, y, z int32) int64 {
	return (int64(x&0x3FFFFFF) << 38) | (int64(z&0x3FFFFFF) << 12) | int64(y&0xFFF)
}

// DecodePosition restores (x, y, z) from the packed wire layout, sign-extending
// each field from its native bit width.
func DecodePosition(v int64) (x, y, z int32) {
	x = int32(v >> 38)
	y = int32((v << 52) >> 52)
	z = int32((v << 26) >> 38)
	return
}

func ReadPosition(r io.Reader) (x, y, z int32, err error) {
	v, err := ReadInt64(r)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, z = DecodePosition(v)
	return
}

func WritePosition(w io.Writer, x, y, z int32) error {
	return WriteInt64(w, EncodePosition(x, y, z))
}
