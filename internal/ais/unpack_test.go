package ais

import (
	"errors"
	"strings"
	"testing"
)

// armorBits packs (value, width) pairs into six-bit armor, returning
// the payload string and the fill bit count.
type bitField struct {
	val   uint64
	width int
}

func armorBits(t *testing.T, fields []bitField) (string, int) {
	t.Helper()
	var bits []byte
	for _, f := range fields {
		for k := f.width - 1; k >= 0; k-- {
			bits = append(bits, byte((f.val>>k)&1))
		}
	}
	fill := 0
	if rem := len(bits) % 6; rem != 0 {
		fill = 6 - rem
		for i := 0; i < fill; i++ {
			bits = append(bits, 0)
		}
	}
	var b strings.Builder
	for i := 0; i < len(bits); i += 6 {
		var v int
		for k := 0; k < 6; k++ {
			v = v<<1 | int(bits[i+k])
		}
		if v < 40 {
			b.WriteByte(byte('0' + v))
		} else {
			b.WriteByte(byte('`' + v - 40))
		}
	}
	return b.String(), fill
}

// textBits encodes s as six-bit ASCII padded with '@' to n characters.
func textBits(s string, n int) []bitField {
	out := make([]bitField, 0, n)
	for i := 0; i < n; i++ {
		ch := byte('@')
		if i < len(s) {
			ch = s[i]
		}
		v := uint64(ch)
		if v >= 64 {
			v -= 64
		}
		out = append(out, bitField{v, 6})
	}
	return out
}

func TestUnpack_StaticDataReportPartA(t *testing.T) {
	fields := []bitField{
		{24, 6},         // msg_type
		{0, 2},          // repeat
		{367001234, 30}, // mmsi
		{0, 2},          // partno: part A
	}
	fields = append(fields, textBits("SEAWOLF", 20)...)

	payload, fill := armorBits(t, fields)
	out, err := DecodePayload(payload, fill)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := fieldByName(t, out, "mmsi").Value; got != uint64(367001234) {
		t.Fatalf("expected MMSI 367001234, got %v", got)
	}
	if got := fieldByName(t, out, "partno").Value; got != uint64(0) {
		t.Fatalf("expected part A, got %v", got)
	}
	if got := fieldByName(t, out, "shipname").Value; got != "SEAWOLF" {
		t.Fatalf("expected SEAWOLF, got %v", got)
	}
}

func TestUnpack_StaticDataReportPartB(t *testing.T) {
	fields := []bitField{
		{24, 6},
		{0, 2},
		{367001234, 30},
		{1, 2},  // partno: part B
		{52, 8}, // shiptype: tug
	}
	fields = append(fields, textBits("ACME", 7)...)     // vendorid
	fields = append(fields, textBits("WXY9876", 7)...)  // callsign
	fields = append(fields,
		bitField{10, 9}, // to_bow
		bitField{5, 9},  // to_stern
		bitField{2, 6},  // to_port
		bitField{3, 6},  // to_starboard
	)

	payload, fill := armorBits(t, fields)
	out, err := DecodePayload(payload, fill)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	st := fieldByName(t, out, "shiptype")
	if st.Value != "Tug" {
		t.Fatalf("expected Tug, got %v", st.Value)
	}
	if st.Raw != uint64(52) {
		t.Fatalf("expected raw shiptype 52, got %v", st.Raw)
	}
	if got := fieldByName(t, out, "callsign").Value; got != "WXY9876" {
		t.Fatalf("expected WXY9876, got %v", got)
	}
	if got := fieldByName(t, out, "to_bow").Value; got != uint64(10) {
		t.Fatalf("expected to_bow 10, got %v", got)
	}
}

func TestUnpack_ClassBPositionReport(t *testing.T) {
	fields := []bitField{
		{18, 6},
		{0, 2},
		{235098765, 30},
		{0, 8},                      // reserved
		{123, 10},                   // speed: 12.3 kt
		{1, 1},                      // accuracy
		{signed28(-73990000), 28},   // lon: -123.316...
		{signed27(28960000), 27},    // lat
		{3021, 12},                  // course: 302.1
		{87, 9},                     // heading
		{42, 6},                     // second
		{0, 2}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {0, 1}, {0, 1}, {0, 1},
		{0, 20}, // radio
	}
	payload, fill := armorBits(t, fields)
	out, err := DecodePayload(payload, fill)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := fieldByName(t, out, "speed").Value; got != 12.3 {
		t.Fatalf("expected speed 12.3, got %v", got)
	}
	lon := fieldByName(t, out, "lon")
	if got, ok := lon.Value.(float64); !ok || got > -123.31 || got < -123.32 {
		t.Fatalf("expected lon near -123.3167, got %v", lon.Value)
	}
	if lon.Raw != int64(-73990000) {
		t.Fatalf("expected raw lon -73990000, got %v", lon.Raw)
	}
	if got := fieldByName(t, out, "course").Value; got != 302.1 {
		t.Fatalf("expected course 302.1, got %v", got)
	}
	if got := fieldByName(t, out, "heading").Value; got != uint64(87) {
		t.Fatalf("expected heading 87, got %v", got)
	}
}

func TestUnpack_TruncatedPayload(t *testing.T) {
	// A type 1 header with nothing after it.
	payload, fill := armorBits(t, []bitField{{1, 6}, {0, 2}, {477553000, 30}})
	if _, err := DecodePayload(payload, fill); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestUnpack_UnknownMessageType(t *testing.T) {
	payload, fill := armorBits(t, []bitField{{63, 6}, {0, 2}, {477553000, 30}})
	if _, err := DecodePayload(payload, fill); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func signed28(v int64) uint64 {
	return uint64(v) & ((1 << 28) - 1)
}

func signed27(v int64) uint64 {
	return uint64(v) & ((1 << 27) - 1)
}
