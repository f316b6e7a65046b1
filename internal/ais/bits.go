package ais

import (
	"fmt"
	"strings"
)

// bitVector is a big-endian bit sequence unpacked from six-bit armor.
type bitVector struct {
	data []byte
	n    int
}

var bitMask = []byte{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01}

// unarmor converts a six-bit-ASCII payload into a bit vector.
//
// Characters '0'..'W' carry values 0..39, '`'..'w' values 40..63, six
// data bits each. fillBits (0..5) insignificant trailing bits from the
// last character are dropped.
func unarmor(payload string, fillBits int) (*bitVector, error) {
	if fillBits < 0 || fillBits > 5 {
		return nil, fmt.Errorf("ais: fill bits %d out of range: %w", fillBits, ErrDecode)
	}
	bv := &bitVector{data: make([]byte, (len(payload)*6+7)/8)}
	for i := 0; i < len(payload); i++ {
		ch := payload[i]
		var val int
		switch {
		case ch >= '0' && ch <= 'W':
			val = int(ch - '0')
		case ch >= '`' && ch <= 'w':
			val = int(ch-'`') + 40
		default:
			return nil, fmt.Errorf("ais: invalid armor character %q: %w", ch, ErrDecode)
		}
		for k := 0; k < 6; k++ {
			if val&(1<<(5-k)) != 0 {
				off := bv.n + k
				bv.data[off>>3] |= bitMask[off&0x7]
			}
		}
		bv.n += 6
	}
	if len(payload) > 0 {
		bv.n -= fillBits
	}
	return bv, nil
}

// ubits extracts width bits starting at start as an unsigned integer.
// ok is false if the range runs past the end of the vector.
func (bv *bitVector) ubits(start, width int) (uint64, bool) {
	if start < 0 || width < 0 || width > 64 || start+width > bv.n {
		return 0, false
	}
	var out uint64
	for k := 0; k < width; k++ {
		out <<= 1
		off := start + k
		if bv.data[off>>3]&bitMask[off&0x7] != 0 {
			out |= 1
		}
	}
	return out, true
}

// sbits extracts a two's-complement signed field.
func (bv *bitVector) sbits(start, width int) (int64, bool) {
	u, ok := bv.ubits(start, width)
	if !ok {
		return 0, false
	}
	// Sign extend.
	out := int64(u << (64 - width))
	return out >> (64 - width), true
}

// text extracts a six-bit-ASCII string field. width must be a multiple
// of 6. Trailing '@' padding and spaces are trimmed.
func (bv *bitVector) text(start, width int) (string, bool) {
	if width%6 != 0 {
		return "", false
	}
	var b strings.Builder
	for off := start; off < start+width; off += 6 {
		ch, ok := bv.ubits(off, 6)
		if !ok {
			return "", false
		}
		if ch < 32 {
			ch += 64
		}
		b.WriteByte(byte(ch))
	}
	return strings.TrimRight(b.String(), "@ "), true
}
