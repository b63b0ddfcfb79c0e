package nbt

import (
	"encoding/binary"
	"io"
)

// ReadNamed decodes a named root and returns its name and value.
func ReadNamed(r io.Reader) (string, Tag, error) {
	kind, err := readU8(r)
	if err != nil {
		return "", Tag{}, err
	}
	name, err := readModifiedUTF8(r)
	if err != nil {
		return "", Tag{}, err
	}
	t, err := readPayload(r, Kind(kind))
	return name, t, err
}

// ReadNameless decodes a nameless root.
func ReadNameless(r io.Reader) (Tag, error) {
	kind, err := readU8(r)
	if err != nil {
		return Tag{}, err
	}
	return readPayload(r, Kind(kind))
}

func readPayload(r io.Reader, kind Kind) (Tag, error) {
	switch kind {
	case KindEnd:
		return Tag{Kind: KindEnd}, nil
	case KindByte:
		var v int8
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return Byte(v), nil
	case KindShort:
		var v int16
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return Short(v), nil
	case KindInt:
		var v int32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return Int(v), nil
	case KindLong:
		var v int64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return Long(v), nil
	case KindFloat:
		var v float32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return Float(v), nil
	case KindDouble:
		var v float64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return Double(v), nil
	case KindByteArray:
		n, err := readI32(r)
		if err != nil || n < 0 {
			return Tag{}, ErrBadTag
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return ByteArray(buf), nil
	case KindString:
		s, err := readModifiedUTF8(r)
		if err != nil {
			return Tag{}, err
		}
		return String(s), nil
	case KindList:
		elemKind, err := readU8(r)
		if err != nil {
			return Tag{}, err
		}
		n, err := readI32(r)
		if err != nil || n < 0 {
			return Tag{}, ErrBadTag
		}
		items := make([]Tag, 0, n)
		for i := int32(0); i < n; i++ {
			item, err := readPayload(r, Kind(elemKind))
			if err != nil {
				return Tag{}, err
			}
			items = append(items, item)
		}
		return List(Kind(elemKind), items), nil
	case KindCompound:
		out := NewCompound()
		for {
			childKind, err := readU8(r)
			if err != nil {
				return Tag{}, err
			}
			if Kind(childKind) == KindEnd {
				return out, nil
			}
			name, err := readModifiedUTF8(r)
			if err != nil {
				return Tag{}, err
			}
			child, err := readPayload(r, Kind(childKind))
			if err != nil {
				return Tag{}, err
			}
			out.Put(name, child)
		}
	case KindIntArray:
		n, err := readI32(r)
		if err != nil || n < 0 {
			return Tag{}, ErrBadTag
		}
		arr := make([]int32, n)
		if err := binary.Read(r, binary.BigEndian, arr); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return IntArray(arr), nil
	case KindLongArray:
		n, err := readI32(r)
		if err != nil || n < 0 {
			return Tag{}, ErrBadTag
		}
		arr := make([]int64, n)
		if err := binary.Read(r, binary.BigEndian, arr); err != nil {
			return Tag{}, wrapTruncated(err)
		}
		return LongArray(arr), nil
	default:
		return Tag{}, ErrBadTag
	}
}

func readU8(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapTruncated(err)
	}
	return buf[0], nil
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readModifiedUTF8(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", wrapTruncated(err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", wrapTruncated(err)
	}
	return string(buf), nil
}

// wrapTruncated normalizes an underlying read error into the codec-level
// decode fault taxonomy (spec.md §7).
func wrapTruncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncatedTag
	}
	return err
}
