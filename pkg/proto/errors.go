// Package proto implements the Minecraft: Java Edition protocol 768 wire codec:
// variable-length integers, fixed-width primitives, packet framing with
// optional zlib compression, and the AES-128/CFB8 connection cipher.
package proto

import "errors"

// Decode-fault taxonomy (spec.md §7). These are terminal for the connection.
var (
	ErrTruncated     = errors.New("proto: truncated input")
	ErrOverlongVarInt = errors.New("proto: overlong varint")
	ErrBadString     = errors.New("proto: invalid utf-8 string")
	ErrCorruptFrame  = errors.New("proto: corrupt compressed frame")
)
