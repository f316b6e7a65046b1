package ais

// FieldKind is the declared wire type of an unpacked field.
type FieldKind int

const (
	KindUint FieldKind = iota
	KindInt
	KindText
)

func (k FieldKind) numeric() bool {
	return k == KindUint || k == KindInt
}

func (k FieldKind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// DecoderKind selects how a field's raw value is interpreted.
type DecoderKind int

const (
	// NoDecoder passes the raw value through unchanged.
	NoDecoder DecoderKind = iota
	// Callback applies a function to the raw value.
	Callback
	// LookupTable resolves the raw value against an enum table.
	LookupTable
)

// FieldDecoder is the tagged decoder slot carried by a field layout:
// exactly one of Fn or Table is meaningful, selected by Kind.
type FieldDecoder struct {
	Kind  DecoderKind
	Fn    func(raw any) any
	Table []string
}

// apply interprets raw. A lookup whose raw value is out of table range
// falls back to the raw value itself.
func (d FieldDecoder) apply(raw any) any {
	switch d.Kind {
	case Callback:
		return d.Fn(raw)
	case LookupTable:
		u, ok := raw.(uint64)
		if !ok || u >= uint64(len(d.Table)) {
			return raw
		}
		return d.Table[u]
	default:
		return raw
	}
}

// RawField is one field as produced by unpack, before interpretation.
type RawField struct {
	Name    string
	Raw     any // uint64, int64 or string per Kind
	Kind    FieldKind
	Label   string
	Decoder FieldDecoder
}

// Field is the interpreted, display-ready form of a RawField.
type Field struct {
	Name  string
	Value any
	Kind  FieldKind
	Label string
	// Raw is the pre-interpretation value; set only for fields whose
	// layout carried a decoder.
	Raw any
	// Decoder is carried through for traceability.
	Decoder FieldDecoder
}
