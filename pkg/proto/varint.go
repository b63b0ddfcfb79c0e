package proto

import "io"

// ReadVarInt reads a 7-bits-per-byte, little-end-first, MSB-continuation
// variable length integer. Encoded length must not exceed 5 bytes.
func ReadVarInt(r io.Reader) (int32, int, error) {
	var result int32
	var numRead int
	var buf [1]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, numRead, ErrTruncated
		}
		b := buf[0]
		result |= int32(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > 5 {
			return 0, numRead, ErrOverlongVarInt
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, numRead, nil
}

// WriteVarInt writes v in VarInt encoding and returns the number of bytes written.
func WriteVarInt(w io.Writer, v int32) (int, error) {
	var buf [5]byte
	n := PutVarInt(buf[:], v)
	return w.Write(buf[:n])
}

// PutVarInt encodes v into buf (which must have room for VarIntSize(v) bytes)
// and returns the number of bytes written.
func PutVarInt(buf []byte, v int32) int {
	uval := uint32(v)
	n := 0
	for {
		if uval&^0x7F == 0 {
			buf[n] = byte(uval)
			n++
			return n
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
}

// VarIntSize returns the number of bytes needed to encode v as a VarInt.
func VarIntSize(v int32) int {
	uval := uint32(v)
	size := 0
	for {
		size++
		if uval&^0x7F == 0 {
			return size
		}
		uval >>= 7
	}
}

// ReadVarLong reads a VarLong (same scheme as VarInt, up to 10 bytes).
func ReadVarLong(r io.Reader) (int64, int, error) {
	var result int64
	var numRead int
	var buf [1]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, numRead, ErrTruncated
		}
		b := buf[0]
		result |= int64(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > 10 {
			return 0, numRead, ErrOverlongVarInt
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, numRead, nil
}

// WriteVarLong writes v in VarLong encoding.
func WriteVarLong(w io.Writer, v int64) (int, error) {
	uval := uint64(v)
	var buf [10]byte
	n := 0
	for {
		if uval&^uint64(0x7F) == 0 {
			buf[n] = byte(uval)
			n++
			break
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
	return w.Write(buf[:n])
}

// VarLongSize returns the number of bytes needed to encode v as a VarLong.
func VarLongSize(v int64) int {
	uval := uint64(v)
	size := 0
	for {
		size++
		if uval&^uint64(0x7F) == 0 {
			return size
		}
		uval >>= 7
	}
}
