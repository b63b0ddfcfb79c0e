// Package nbt implements the binary NBT tag tree (spec.md §4.2/C2): a dense
// sum of tag kinds with named-root and nameless-root encode/decode modes.
package nbt

import "errors"

// Kind identifies which of the twelve tag payload shapes a Tag carries.
type Kind byte

const (
	KindEnd       Kind = 0
	KindByte      Kind = 1
	KindShort     Kind = 2
	KindInt       Kind = 3
	KindLong      Kind = 4
	KindFloat     Kind = 5
	KindDouble    Kind = 6
	KindByteArray Kind = 7
	KindString    Kind = 8
	KindList      Kind = 9
	KindCompound  Kind = 10
	KindIntArray  Kind = 11
	KindLongArray Kind = 12
)

// ErrBadTag is returned for an unrecognized tag kind byte (spec.md §7).
var ErrBadTag = errors.New("nbt: unknown tag kind")

// ErrTruncatedTag is returned when input is exhausted mid-field.
var ErrTruncatedTag = errors.New("nbt: truncated input")

// Tag is a single NBT value. Exactly one of the typed fields is meaningful,
// selected by Kind. Compound preserves insertion order via CompoundKeys/
// CompoundValues rather than a bare map, since downstream consumers (palette
// entries, heightmap names) require stable ordering (spec.md §4.2).
type Tag struct {
	Kind Kind

	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64

	ByteArray []byte
	Str       string
	IntArray  []int32
	LongArray []int64

	ListKind Kind
	List     []Tag

	CompoundKeys   []string
	CompoundValues []Tag
}

func Byte(v int8) Tag      { return Tag{Kind: KindByte, Byte: v} }
func Short(v int16) Tag     { return Tag{Kind: KindShort, Short: v} }
func Int(v int32) Tag       { return Tag{Kind: KindInt, Int: v} }
func Long(v int64) Tag       { return Tag{Kind: KindLong, Long: v} }
func Float(v float32) Tag   { return Tag{Kind: KindFloat, Float: v} }
func Double(v float64) Tag  { return Tag{Kind: KindDouble, Double: v} }
func ByteArray(v []byte) Tag { return Tag{Kind: KindByteArray, ByteArray: v} }
func String(v string) Tag   { return Tag{Kind: KindString, Str: v} }
func IntArray(v []int32) Tag { return Tag{Kind: KindIntArray, IntArray: v} }
func LongArray(v []int64) Tag { return Tag{Kind: KindLongArray, LongArray: v} }

func List(kind Kind, items []Tag) Tag {
	return Tag{Kind: KindList, ListKind: kind, List: items}
}

// NewCompound builds an empty compound ready for Put calls.
func NewCompound() Tag {
	return Tag{Kind: KindCompound}
}

// Put appends or replaces a named child, preserving first-seen insertion order.
func (t *Tag) Put(name string, v Tag) {
	for i, k := range t.CompoundKeys {
		if k == name {
			t.CompoundValues[i] = v
			return
		}
	}
	t.CompoundKeys = append(t.CompoundKeys, name)
	t.CompoundValues = append(t.CompoundValues, v)
}

// Get looks up a named child of a compound tag.
func (t *Tag) Get(name string) (Tag, bool) {
	for i, k := range t.CompoundKeys {
		if k == name {
			return t.CompoundValues[i], true
		}
	}
	return Tag{}, false
}

// Equal reports deep structural equality, used by round-trip tests.
func (t Tag) Equal(o Tag) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindEnd:
		return true
	case KindByte:
		return t.Byte == o.Byte
	case KindShort:
		return t.Short == o.Short
	case KindInt:
		return t.Int == o.Int
	case KindLong:
		return t.Long == o.Long
	case KindFloat:
		return t.Float == o.Float
	case KindDouble:
		return t.Double == o.Double
	case KindByteArray:
		return bytesEqual(t.ByteArray, o.ByteArray)
	case KindString:
		return t.Str == o.Str
	case KindIntArray:
		if len(t.IntArray) != len(o.IntArray) {
			return false
		}
		for i := range t.IntArray {
			if t.IntArray[i] != o.IntArray[i] {
				return false
			}
		}
		return true
	case KindLongArray:
		if len(t.LongArray) != len(o.LongArray) {
			return false
		}
		for i := range t.LongArray {
			if t.LongArray[i] != o.LongArray[i] {
				return false
			}
		}
		return true
	case KindList:
		if t.ListKind != o.ListKind || len(t.List) != len(o.List) {
			return false
		}
		for i := range t.List {
			if !t.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	case KindCompound:
		if len(t.CompoundKeys) != len(o.CompoundKeys) {
			return false
		}
		for i, k := range t.CompoundKeys {
			ov, ok := o.Get(k)
			if !ok || !t.CompoundValues[i].Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
