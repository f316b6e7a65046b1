package ais

import (
	"fmt"
)

// fieldSpec describes one field in a message layout. Fields are
// consumed sequentially, width bits each.
type fieldSpec struct {
	name  string
	label string
	width int
	kind  FieldKind
	dec   FieldDecoder
}

// branchSpec selects additional fields based on the value of an
// already-unpacked field (message type 24 part A/B).
type branchSpec struct {
	on    string
	cases map[uint64][]fieldSpec
}

type msgLayout struct {
	name   string
	fields []fieldSpec
	branch *branchSpec
}

func u(name, label string, width int) fieldSpec {
	return fieldSpec{name: name, label: label, width: width, kind: KindUint}
}

func i(name, label string, width int) fieldSpec {
	return fieldSpec{name: name, label: label, width: width, kind: KindInt}
}

func t(name, label string, width int) fieldSpec {
	return fieldSpec{name: name, label: label, width: width, kind: KindText}
}

func e(name, label string, width int, table []string) fieldSpec {
	return fieldSpec{name: name, label: label, width: width, kind: KindUint,
		dec: FieldDecoder{Kind: LookupTable, Table: table}}
}

func fn(name, label string, width int, kind FieldKind, f func(any) any) fieldSpec {
	return fieldSpec{name: name, label: label, width: width, kind: kind,
		dec: FieldDecoder{Kind: Callback, Fn: f}}
}

// Scaling callbacks. Out-of-band "not available" sentinels are kept
// raw so downstream consumers can recognize them.

func scaleLatLon(raw any) any {
	n, ok := raw.(int64)
	if !ok {
		return raw
	}
	return float64(n) / 600000.0
}

func scaleLatLonCoarse(raw any) any {
	// Type 27 encodes minutes/10 rather than minutes/10000.
	n, ok := raw.(int64)
	if !ok {
		return raw
	}
	return float64(n) / 600.0
}

func scaleTenth(raw any) any {
	n, ok := raw.(uint64)
	if !ok {
		return raw
	}
	return float64(n) / 10.0
}

// shipTypeName maps the 8-bit ship/cargo type to its standard category.
func shipTypeName(raw any) any {
	n, ok := raw.(uint64)
	if !ok {
		return raw
	}
	switch {
	case n == 0:
		return "Not available"
	case n >= 20 && n <= 29:
		return "Wing in ground"
	case n == 30:
		return "Fishing"
	case n == 31 || n == 32:
		return "Towing"
	case n == 33:
		return "Dredging or underwater ops"
	case n == 34:
		return "Diving ops"
	case n == 35:
		return "Military ops"
	case n == 36:
		return "Sailing"
	case n == 37:
		return "Pleasure craft"
	case n >= 40 && n <= 49:
		return "High speed craft"
	case n == 50:
		return "Pilot vessel"
	case n == 51:
		return "Search and rescue vessel"
	case n == 52:
		return "Tug"
	case n == 53:
		return "Port tender"
	case n == 54:
		return "Anti-pollution equipment"
	case n == 55:
		return "Law enforcement"
	case n == 58:
		return "Medical transport"
	case n >= 60 && n <= 69:
		return "Passenger"
	case n >= 70 && n <= 79:
		return "Cargo"
	case n >= 80 && n <= 89:
		return "Tanker"
	case n >= 90 && n <= 99:
		return "Other"
	default:
		return raw
	}
}

var navStatusTable = []string{
	"Under way using engine",
	"At anchor",
	"Not under command",
	"Restricted manoeuverability",
	"Constrained by her draught",
	"Moored",
	"Aground",
	"Engaged in fishing",
	"Under way sailing",
	"Reserved for future amendment (HSC)",
	"Reserved for future amendment (WIG)",
	"Reserved for future use",
	"Reserved for future use",
	"Reserved for future use",
	"AIS-SART is active",
	"Not defined",
}

var epfdTable = []string{
	"Undefined",
	"GPS",
	"GLONASS",
	"Combined GPS/GLONASS",
	"Loran-C",
	"Chayka",
	"Integrated navigation system",
	"Surveyed",
	"Galileo",
}

var maneuverTable = []string{
	"Not available",
	"No special maneuver",
	"Special maneuver",
}

// commonHeader is shared by every AIS message: type, repeat indicator
// and source MMSI.
var commonHeader = []fieldSpec{
	u("msg_type", "Message Type", 6),
	u("repeat", "Repeat Indicator", 2),
	u("mmsi", "MMSI", 30),
}

// msgLayouts dispatches on the message type in the first six payload
// bits. Layouts follow the ITU-R M.1371 field tables as documented at
// https://gpsd.gitlab.io/gpsd/AIVDM.html.
var msgLayouts = map[uint64]msgLayout{
	1: positionReportA("Position Report Class A"),
	2: positionReportA("Position Report Class A (Assigned)"),
	3: positionReportA("Position Report Class A (Response)"),
	4: {
		name: "Base Station Report",
		fields: []fieldSpec{
			u("year", "Year (UTC)", 14),
			u("month", "Month (UTC)", 4),
			u("day", "Day (UTC)", 5),
			u("hour", "Hour (UTC)", 5),
			u("minute", "Minute (UTC)", 6),
			u("second", "Second (UTC)", 6),
			u("accuracy", "Fix Accuracy", 1),
			fn("lon", "Longitude", 28, KindInt, scaleLatLon),
			fn("lat", "Latitude", 27, KindInt, scaleLatLon),
			e("epfd", "Type of EPFD", 4, epfdTable),
			u("spare", "Spare", 10),
			u("raim", "RAIM flag", 1),
			u("radio", "Radio status", 19),
		},
	},
	5: {
		name: "Static and Voyage Related Data",
		fields: []fieldSpec{
			u("ais_version", "AIS Version", 2),
			u("imo", "IMO Number", 30),
			t("callsign", "Call Sign", 42),
			t("shipname", "Vessel Name", 120),
			fn("shiptype", "Ship Type", 8, KindUint, shipTypeName),
			u("to_bow", "Dimension to Bow", 9),
			u("to_stern", "Dimension to Stern", 9),
			u("to_port", "Dimension to Port", 6),
			u("to_starboard", "Dimension to Starboard", 6),
			e("epfd", "Type of EPFD", 4, epfdTable),
			u("eta_month", "ETA Month", 4),
			u("eta_day", "ETA Day", 5),
			u("eta_hour", "ETA Hour", 5),
			u("eta_minute", "ETA Minute", 6),
			fn("draught", "Draught", 8, KindUint, scaleTenth),
			t("destination", "Destination", 120),
			u("dte", "DTE", 1),
			u("spare", "Spare", 1),
		},
	},
	9: {
		name: "Standard SAR Aircraft Position Report",
		fields: []fieldSpec{
			u("alt", "Altitude", 12),
			u("speed", "Speed Over Ground", 10),
			u("accuracy", "Fix Accuracy", 1),
			fn("lon", "Longitude", 28, KindInt, scaleLatLon),
			fn("lat", "Latitude", 27, KindInt, scaleLatLon),
			fn("course", "Course Over Ground", 12, KindUint, scaleTenth),
			u("second", "Time Stamp", 6),
			u("regional", "Regional Reserved", 8),
			u("dte", "DTE", 1),
			u("spare", "Spare", 3),
			u("assigned", "Assigned Mode", 1),
			u("raim", "RAIM flag", 1),
			u("radio", "Radio status", 20),
		},
	},
	18: {
		name: "Standard Class B CS Position Report",
		fields: []fieldSpec{
			u("reserved", "Regional Reserved", 8),
			fn("speed", "Speed Over Ground", 10, KindUint, scaleTenth),
			u("accuracy", "Fix Accuracy", 1),
			fn("lon", "Longitude", 28, KindInt, scaleLatLon),
			fn("lat", "Latitude", 27, KindInt, scaleLatLon),
			fn("course", "Course Over Ground", 12, KindUint, scaleTenth),
			u("heading", "True Heading", 9),
			u("second", "Time Stamp", 6),
			u("regional", "Regional Reserved", 2),
			u("cs", "Carrier Sense Unit", 1),
			u("display", "Display flag", 1),
			u("dsc", "DSC flag", 1),
			u("band", "Band flag", 1),
			u("msg22", "Message 22 flag", 1),
			u("assigned", "Assigned Mode", 1),
			u("raim", "RAIM flag", 1),
			u("radio", "Radio status", 20),
		},
	},
	19: {
		name: "Extended Class B CS Position Report",
		fields: []fieldSpec{
			u("reserved", "Regional Reserved", 8),
			fn("speed", "Speed Over Ground", 10, KindUint, scaleTenth),
			u("accuracy", "Fix Accuracy", 1),
			fn("lon", "Longitude", 28, KindInt, scaleLatLon),
			fn("lat", "Latitude", 27, KindInt, scaleLatLon),
			fn("course", "Course Over Ground", 12, KindUint, scaleTenth),
			u("heading", "True Heading", 9),
			u("second", "Time Stamp", 6),
			u("regional", "Regional Reserved", 4),
			t("shipname", "Vessel Name", 120),
			fn("shiptype", "Ship Type", 8, KindUint, shipTypeName),
			u("to_bow", "Dimension to Bow", 9),
			u("to_stern", "Dimension to Stern", 9),
			u("to_port", "Dimension to Port", 6),
			u("to_starboard", "Dimension to Starboard", 6),
			e("epfd", "Type of EPFD", 4, epfdTable),
			u("raim", "RAIM flag", 1),
			u("dte", "DTE", 1),
			u("assigned", "Assigned Mode", 1),
			u("spare", "Spare", 4),
		},
	},
	24: {
		name: "Static Data Report",
		fields: []fieldSpec{
			u("partno", "Part Number", 2),
		},
		branch: &branchSpec{
			on: "partno",
			cases: map[uint64][]fieldSpec{
				0: {
					t("shipname", "Vessel Name", 120),
				},
				1: {
					fn("shiptype", "Ship Type", 8, KindUint, shipTypeName),
					t("vendorid", "Vendor ID", 42),
					t("callsign", "Call Sign", 42),
					u("to_bow", "Dimension to Bow", 9),
					u("to_stern", "Dimension to Stern", 9),
					u("to_port", "Dimension to Port", 6),
					u("to_starboard", "Dimension to Starboard", 6),
				},
			},
		},
	},
	27: {
		name: "Long Range AIS Broadcast",
		fields: []fieldSpec{
			u("accuracy", "Fix Accuracy", 1),
			u("raim", "RAIM flag", 1),
			e("status", "Navigation Status", 4, navStatusTable),
			fn("lon", "Longitude", 18, KindInt, scaleLatLonCoarse),
			fn("lat", "Latitude", 17, KindInt, scaleLatLonCoarse),
			u("speed", "Speed Over Ground", 6),
			u("course", "Course Over Ground", 9),
			u("gnss", "GNSS Position Status", 1),
			u("spare", "Spare", 1),
		},
	},
}

func positionReportA(name string) msgLayout {
	return msgLayout{
		name: name,
		fields: []fieldSpec{
			e("status", "Navigation Status", 4, navStatusTable),
			i("turn", "Rate of Turn", 8),
			fn("speed", "Speed Over Ground", 10, KindUint, scaleTenth),
			u("accuracy", "Fix Accuracy", 1),
			fn("lon", "Longitude", 28, KindInt, scaleLatLon),
			fn("lat", "Latitude", 27, KindInt, scaleLatLon),
			fn("course", "Course Over Ground", 12, KindUint, scaleTenth),
			u("heading", "True Heading", 9),
			u("second", "Time Stamp", 6),
			e("maneuver", "Maneuver Indicator", 2, maneuverTable),
			u("spare", "Spare", 3),
			u("raim", "RAIM flag", 1),
			u("radio", "Radio status", 19),
		},
	}
}

// unpack walks the dispatch table for the message type in the first six
// bits and cuts the vector into raw fields, in layout order.
func unpack(bv *bitVector) ([]RawField, error) {
	msgType, ok := bv.ubits(0, 6)
	if !ok {
		return nil, fmt.Errorf("ais: payload shorter than a message type: %w", ErrDecode)
	}
	layout, ok := msgLayouts[msgType]
	if !ok {
		return nil, fmt.Errorf("ais: unrecognized message type %d: %w", msgType, ErrDecode)
	}

	out := make([]RawField, 0, len(commonHeader)+len(layout.fields))
	cursor := 0
	out, cursor, err := unpackFields(bv, commonHeader, out, cursor)
	if err != nil {
		return nil, err
	}
	out, cursor, err = unpackFields(bv, layout.fields, out, cursor)
	if err != nil {
		return nil, err
	}

	if layout.branch != nil {
		sel, ok := findRaw(out, layout.branch.on)
		if !ok {
			return nil, fmt.Errorf("ais: branch field %q missing: %w", layout.branch.on, ErrDecode)
		}
		specs, ok := layout.branch.cases[sel]
		if !ok {
			return nil, fmt.Errorf("ais: no layout for %s=%d in message type %d: %w",
				layout.branch.on, sel, msgType, ErrDecode)
		}
		out, _, err = unpackFields(bv, specs, out, cursor)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func unpackFields(bv *bitVector, specs []fieldSpec, out []RawField, cursor int) ([]RawField, int, error) {
	for _, fs := range specs {
		var raw any
		var ok bool
		switch fs.kind {
		case KindInt:
			raw, ok = bv.sbits(cursor, fs.width)
		case KindText:
			raw, ok = bv.text(cursor, fs.width)
		default:
			raw, ok = bv.ubits(cursor, fs.width)
		}
		if !ok {
			return nil, 0, fmt.Errorf("ais: payload truncated at field %q (bit %d): %w", fs.name, cursor, ErrDecode)
		}
		cursor += fs.width
		out = append(out, RawField{Name: fs.name, Raw: raw, Kind: fs.kind, Label: fs.label, Decoder: fs.dec})
	}
	return out, cursor, nil
}

func findRaw(fields []RawField, name string) (uint64, bool) {
	for _, f := range fields {
		if f.Name == name {
			u, ok := f.Raw.(uint64)
			return u, ok
		}
	}
	return 0, false
}
