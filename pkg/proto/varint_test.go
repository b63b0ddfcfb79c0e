package proto

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 127, 128, 255, 2147483647, -2147483648, 25565}
	for _, v := range values {
		var buf bytes.Buffer
		if _, err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		if buf.Len() > 5 {
			t.Fatalf("varint %d encoded to %d bytes, want <=5", v, buf.Len())
		}
		got, _, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		var buf bytes.Buffer
		if _, err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		if buf.Len() > 10 {
			t.Fatalf("varlong %d encoded to %d bytes, want <=10", v, buf.Len())
		}
		got, _, err := ReadVarLong(&buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestOverlongVarInt(t *testing.T) {
	// Five continuation bytes followed by a sixth: exceeds the 5-byte limit.
	buf := bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if _, _, err := ReadVarInt(buf); err != ErrOverlongVarInt {
		t.Fatalf("got %v, want ErrOverlongVarInt", err)
	}
}

func TestTruncatedVarInt(t *testing.T) {
	buf := bytes.NewReader([]byte{0x80})
	if _, _, err := ReadVarInt(buf); err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	cases := [][3]int32{
		{0, 0, 0},
		{1, 2, 3},
		{-1, -1, -1},
		{33554431, 2047, 33554431},   // 2^25-1
		{-33554432, -2048, -33554432}, // -2^25
	}
	for _, c := range cases {
		v := EncodePosition(c[0], c[1], c[2])
		x, y, z := DecodePosition(v)
		if x != c[0] || y != c[1] || z != c[2] {
			t.Fatalf("position round trip %v: got (%d,%d,%d)", c, x, y, z)
		}
	}
}
