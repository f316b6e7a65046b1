package ais

import "strconv"

// interpret post-processes the raw field list into display-ready
// values, preserving field order.
//
// Fields carrying a decoder are resolved through it and keep the
// original value in Raw. Numeric coercion of textual values is opt-in,
// driven by the field's declared kind: a text-typed field is never
// coerced just because it happens to look like a number.
func interpret(raw []RawField) []Field {
	out := make([]Field, 0, len(raw))
	for _, rf := range raw {
		f := Field{
			Name:    rf.Name,
			Value:   rf.Raw,
			Kind:    rf.Kind,
			Label:   rf.Label,
			Decoder: rf.Decoder,
		}
		if rf.Decoder.Kind != NoDecoder {
			f.Value = rf.Decoder.apply(rf.Raw)
			f.Raw = rf.Raw
		}
		if s, ok := f.Value.(string); ok && rf.Kind.numeric() {
			f.Value = coerceNumeric(s)
		}
		out = append(out, f)
	}
	return out
}

func coerceNumeric(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return x
	}
	return s
}
