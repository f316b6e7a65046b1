package nmea

import (
	"fmt"
	"strconv"
	"strings"
)

// VDM is a typed AIVDM/AIVDO sentence: one fragment of an AIS message.
//
// Example:
//
//	!AIVDM,1,1,,B,177KQJ5000G?tO`K>RA1wUbN0TKH,0*5C
//
// Count is the total number of fragments in the accumulating message,
// Fragment the 1-based index of this one. SeqID groups the fragments of
// one multi-sentence message and is empty for single-fragment traffic.
// FillBits (0..5) is the number of padding bits in the final armored
// character of the last fragment.
type VDM struct {
	Talker   string
	Count    int
	Fragment int
	SeqID    string
	Channel  string
	Payload  string
	FillBits int
}

// IsVDM reports whether the sentence carries AIS payload data.
func IsVDM(s Sentence) bool {
	return s.Type == "VDM" || s.Type == "VDO"
}

// ParseVDM assigns the comma-delimited fields of an AIVDM/AIVDO sentence.
func ParseVDM(s Sentence) (VDM, error) {
	if !IsVDM(s) {
		return VDM{}, fmt.Errorf("nmea: %s%s is not a VDM sentence: %w", s.Talker, s.Type, ErrMalformed)
	}
	if len(s.Fields) < 6 {
		return VDM{}, fmt.Errorf("nmea: VDM needs 6 fields, got %d: %w", len(s.Fields), ErrMalformed)
	}

	count, err := strconv.Atoi(strings.TrimSpace(s.Fields[0]))
	if err != nil || count < 1 {
		return VDM{}, fmt.Errorf("nmea: bad fragment count %q: %w", s.Fields[0], ErrMalformed)
	}
	frag, err := strconv.Atoi(strings.TrimSpace(s.Fields[1]))
	if err != nil || frag < 1 {
		return VDM{}, fmt.Errorf("nmea: bad fragment number %q: %w", s.Fields[1], ErrMalformed)
	}

	fill := 0
	if fs := strings.TrimSpace(s.Fields[5]); fs != "" {
		fill, err = strconv.Atoi(fs)
		if err != nil || fill < 0 || fill > 5 {
			return VDM{}, fmt.Errorf("nmea: bad fill bits %q: %w", s.Fields[5], ErrMalformed)
		}
	}

	return VDM{
		Talker:   s.Talker,
		Count:    count,
		Fragment: frag,
		SeqID:    strings.TrimSpace(s.Fields[2]),
		Channel:  strings.TrimSpace(s.Fields[3]),
		Payload:  strings.TrimSpace(s.Fields[4]),
		FillBits: fill,
	}, nil
}
