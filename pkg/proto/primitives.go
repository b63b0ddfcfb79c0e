package proto

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// MaxStringLength bounds decoded UTF-8 strings (32767 chars, 4 bytes/char worst case).
const MaxStringLength = 32767 * 4

// ReadString reads a VarInt-length-prefixed UTF-8 string.
func ReadString(r io.Reader) (string, error) {
	n, _, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > MaxStringLength {
		return "", ErrBadString
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrTruncated
	}
	if !utf8.Valid(buf) {
		return "", ErrBadString
	}
	return string(buf), nil
}

// WriteString writes s as a VarInt-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	b := []byte(s)
	if _, err := WriteVarInt(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadBytes reads a VarInt-length-prefixed opaque byte slice.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrBadString
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ErrTruncated
	}
	return buf, nil
}

// WriteBytes writes b as a VarInt-length-prefixed opaque byte slice.
func WriteBytes(w io.Writer, b []byte) error {
	if _, err := WriteVarInt(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, ErrTruncated
	}
	return buf[0] != 0, nil
}

func WriteBool(w io.Writer, v bool) error {
	var buf [1]byte
	if v {
		buf[0] = 1
	}
	_, err := w.Write(buf[:])
	return err
}

func ReadUByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrTruncated
	}
	return buf[0], nil
}

func WriteUByte(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

func ReadByte(r io.Reader) (int8, error) {
	b, err := ReadUByte(r)
	return int8(b), err
}

func WriteByte(w io.Writer, v int8) error {
	return WriteUByte(w, byte(v))
}

func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func WriteUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}

func WriteInt16(w io.Writer, v int16) error {
	return WriteUint16(w, uint16(v))
}

func ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrTruncated
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func WriteInt32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func ReadInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrTruncated
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func WriteInt64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

func ReadFloat32(r io.Reader) (float32, error) {
	v, err := ReadInt32(r)
	return math.Float32frombits(uint32(v)), err
}

func WriteFloat32(w io.Writer, v float32) error {
	return WriteInt32(w, int32(math.Float32bits(v)))
}

func ReadFloat64(r io.Reader) (float64, error) {
	v, err := ReadInt64(r)
	return math.Float64frombits(uint64(v)), err
}

func WriteFloat64(w io.Writer, v float64) error {
	return WriteInt64(w, int64(math.Float64bits(v)))
}

// ReadUUID reads a fixed 16-byte UUID.
func ReadUUID(r io.Reader) ([16]byte, error) {
	var u [16]byte
	if _, err := io.ReadFull(r, u[:]); err != nil {
		return u, ErrTruncated
	}
	return u, nil
}

func WriteUUID(w io.Writer, u [16]byte) error {
	_, err := w.Write(u[:])
	return err
}

// ReadOptional reads the leading boolean-byte "present" flag and, if set,
// invokes read to decode the payload.
func ReadOptional[T any](r io.Reader, read func(io.Reader) (T, error)) (T, bool, error) {
	var zero T
	present, err := ReadBool(r)
	if err != nil || !present {
		return zero, false, err
	}
	v, err := read(r)
	return v, true, err
}

// WriteOptional writes the presence byte followed by the payload when present.
func WriteOptional[T any](w io.Writer, present bool, v T, write func(io.Writer, T) error) error {
	if err := WriteBool(w, present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return write(w, v)
}
