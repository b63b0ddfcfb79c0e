package nbt

import (
	"encoding/binary"
	"io"
)

// WriteNamed writes t as a named root: [type][name_len u16][name][payload]
// (spec.md §4.2 "Named root").
func WriteNamed(w io.Writer, name string, t Tag) error {
	if err := writeU8(w, byte(t.Kind)); err != nil {
		return err
	}
	if err := writeModifiedUTF8(w, name); err != nil {
		return err
	}
	return writePayload(w, t)
}

// WriteNameless writes t as a nameless root: [type][payload] (spec.md §4.2
// "Nameless root"), used for text components and inline registry values.
func WriteNameless(w io.Writer, t Tag) error {
	if err := writeU8(w, byte(t.Kind)); err != nil {
		return err
	}
	return writePayload(w, t)
}

func writePayload(w io.Writer, t Tag) error {
	switch t.Kind {
	case KindEnd:
		return nil
	case KindByte:
		return writeU8(w, byte(t.Byte))
	case KindShort:
		return binary.Write(w, binary.BigEndian, t.Short)
	case KindInt:
		return binary.Write(w, binary.BigEndian, t.Int)
	case KindLong:
		return binary.Write(w, binary.BigEndian, t.Long)
	case KindFloat:
		return binary.Write(w, binary.BigEndian, t.Float)
	case KindDouble:
		return binary.Write(w, binary.BigEndian, t.Double)
	case KindByteArray:
		if err := binary.Write(w, binary.BigEndian, int32(len(t.ByteArray))); err != nil {
			return err
		}
		_, err := w.Write(t.ByteArray)
		return err
	case KindString:
		return writeModifiedUTF8(w, t.Str)
	case KindList:
		if err := writeU8(w, byte(t.ListKind)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(len(t.List))); err != nil {
			return err
		}
		for _, item := range t.List {
			if err := writePayload(w, item); err != nil {
				return err
			}
		}
		return nil
	case KindCompound:
		for i, key := range t.CompoundKeys {
			child := t.CompoundValues[i]
			if err := writeU8(w, byte(child.Kind)); err != nil {
				return err
			}
			if err := writeModifiedUTF8(w, key); err != nil {
				return err
			}
			if err := writePayload(w, child); err != nil {
				return err
			}
		}
		return writeU8(w, byte(KindEnd))
	case KindIntArray:
		if err := binary.Write(w, binary.BigEndian, int32(len(t.IntArray))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, t.IntArray)
	case KindLongArray:
		if err := binary.Write(w, binary.BigEndian, int32(len(t.LongArray))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, t.LongArray)
	default:
		return ErrBadTag
	}
}

func writeU8(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeModifiedUTF8(w io.Writer, s string) error {
	b := []byte(s)
	if err := binary.Write(w, binary.BigEndian, uint16(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
