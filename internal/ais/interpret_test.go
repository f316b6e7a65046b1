package ais

import "testing"

func TestInterpret_CallbackDecoder(t *testing.T) {
	raw := []RawField{{
		Name: "speed", Raw: uint64(75), Kind: KindUint, Label: "Speed Over Ground",
		Decoder: FieldDecoder{Kind: Callback, Fn: scaleTenth},
	}}
	out := interpret(raw)
	if len(out) != 1 {
		t.Fatalf("expected 1 field, got %d", len(out))
	}
	if out[0].Value != 7.5 {
		t.Fatalf("expected 7.5, got %v", out[0].Value)
	}
	if out[0].Raw != uint64(75) {
		t.Fatalf("raw value must be preserved, got %v", out[0].Raw)
	}
}

func TestInterpret_LookupTableDecoder(t *testing.T) {
	raw := []RawField{{
		Name: "status", Raw: uint64(5), Kind: KindUint, Label: "Navigation Status",
		Decoder: FieldDecoder{Kind: LookupTable, Table: navStatusTable},
	}}
	out := interpret(raw)
	if out[0].Value != "Moored" {
		t.Fatalf("expected Moored, got %v", out[0].Value)
	}
	if out[0].Raw != uint64(5) {
		t.Fatalf("raw value must be preserved, got %v", out[0].Raw)
	}
}

func TestInterpret_LookupOutOfRangeFallsBack(t *testing.T) {
	raw := []RawField{{
		Name: "status", Raw: uint64(99), Kind: KindUint, Label: "Navigation Status",
		Decoder: FieldDecoder{Kind: LookupTable, Table: navStatusTable},
	}}
	out := interpret(raw)
	if out[0].Value != uint64(99) {
		t.Fatalf("expected raw fallback 99, got %v", out[0].Value)
	}
}

func TestInterpret_NoDecoderPassesThrough(t *testing.T) {
	raw := []RawField{{Name: "heading", Raw: uint64(311), Kind: KindUint, Label: "True Heading"}}
	out := interpret(raw)
	if out[0].Value != uint64(311) {
		t.Fatalf("expected 311, got %v", out[0].Value)
	}
	if out[0].Raw != nil {
		t.Fatalf("raw must stay unset without a decoder, got %v", out[0].Raw)
	}
}

func TestInterpret_NumericCoercionIsTypeDirected(t *testing.T) {
	toText := func(any) any { return "42" }

	// A numeric field whose decoder yields text coerces, int first.
	raw := []RawField{{
		Name: "n", Raw: uint64(0), Kind: KindUint, Label: "N",
		Decoder: FieldDecoder{Kind: Callback, Fn: toText},
	}}
	if got := interpret(raw)[0].Value; got != int64(42) {
		t.Fatalf("expected int64 42, got %T %v", got, got)
	}

	// Float when not an integer.
	raw[0].Decoder.Fn = func(any) any { return "4.5" }
	if got := interpret(raw)[0].Value; got != 4.5 {
		t.Fatalf("expected 4.5, got %T %v", got, got)
	}

	// A text-typed field is never coerced, even if it looks numeric.
	raw2 := []RawField{{
		Name: "callsign", Raw: "12345", Kind: KindText, Label: "Call Sign",
	}}
	if got := interpret(raw2)[0].Value; got != "12345" {
		t.Fatalf("text field must stay text, got %T %v", got, got)
	}
}

func TestInterpret_PreservesOrder(t *testing.T) {
	raw := []RawField{
		{Name: "a", Raw: uint64(1), Kind: KindUint},
		{Name: "b", Raw: uint64(2), Kind: KindUint},
		{Name: "c", Raw: uint64(3), Kind: KindUint},
	}
	out := interpret(raw)
	for i, want := range []string{"a", "b", "c"} {
		if out[i].Name != want {
			t.Fatalf("field %d: expected %q, got %q", i, want, out[i].Name)
		}
	}
}
