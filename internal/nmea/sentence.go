package nmea

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformed marks lines that do not match the sentence grammar.
// Callers should discard the line and continue.
var ErrMalformed = errors.New("malformed sentence")

// sentenceRe recognizes the three NMEA sentence-type shapes:
// proprietary ("PGRMZ"), query ("CCGPQ,GGA") and five-character talker
// sentences ("GPGGA", "AIVDM"). AIS traffic starts sentences with '!'
// instead of the conventional '$'; both markers are accepted.
var sentenceRe = regexp.MustCompile(`^\s*[$!]?` +
	`(?P<body>` +
	`(?P<type>` +
	`(P\w{3})|` +
	`(\w{2}\w{2}Q,\w{3})|` +
	`(\w{2}\w{3},)` +
	`)` +
	`(?P<data>[^*]*)` +
	`)` +
	`(?:\*(?P<checksum>[0-9A-Fa-f]{2}))?` +
	`[\r\n\s]*$`)

// Sentence is one tokenized NMEA sentence.
type Sentence struct {
	Raw string
	// Talker is the two-character talker ID for talker sentences ("AI",
	// "GP"); empty for proprietary and query sentences.
	Talker string
	// Type is the three-character sentence type for talker sentences
	// ("VDM", "GGA"), or the full identifier otherwise.
	Type string
	// Fields is the comma-split data following the type identifier.
	Fields []string
	// HasChecksum reports whether a *HH suffix was present (and verified).
	HasChecksum bool
}

func ParseSentence(line string) (Sentence, error) {
	m := sentenceRe.FindStringSubmatch(line)
	if m == nil {
		return Sentence{}, fmt.Errorf("nmea: unrecognized sentence %q: %w", line, ErrMalformed)
	}

	body := m[sentenceRe.SubexpIndex("body")]
	typ := m[sentenceRe.SubexpIndex("type")]
	data := m[sentenceRe.SubexpIndex("data")]
	ck := m[sentenceRe.SubexpIndex("checksum")]

	if ck != "" {
		if err := verifyChecksum(body, ck); err != nil {
			return Sentence{}, err
		}
	}

	s := Sentence{Raw: line, HasChecksum: ck != ""}
	switch {
	case strings.HasSuffix(typ, ","):
		// Talker sentence: 2-char talker + 3-char type, comma consumed
		// by the identifier match.
		id := strings.ToUpper(typ[:len(typ)-1])
		s.Talker = id[:2]
		s.Type = id[2:]
	default:
		s.Type = strings.ToUpper(typ)
	}
	if data != "" || s.Talker != "" {
		s.Fields = strings.Split(data, ",")
	}
	return s, nil
}

// verifyChecksum XORs the sentence body (everything between the start
// marker and '*') and compares against the transmitted hex value.
func verifyChecksum(body, ck string) error {
	got := byte(0)
	for i := 0; i < len(body); i++ {
		got ^= body[i]
	}
	want, err := strconv.ParseUint(ck, 16, 8)
	if err != nil {
		return fmt.Errorf("nmea: bad checksum %q: %w", ck, ErrMalformed)
	}
	if got != byte(want) {
		return fmt.Errorf("nmea: checksum mismatch: computed %02X, sentence has %s: %w", got, ck, ErrMalformed)
	}
	return nil
}
