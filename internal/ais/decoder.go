package ais

import (
	"log"

	"aisrx/internal/nmea"
)

// ParsedSentence is the result of feeding one NMEA line to a Decoder.
type ParsedSentence struct {
	Sentence nmea.Sentence
	// VDM is set when the sentence carried AIS payload data.
	VDM *nmea.VDM
	// Complete reports whether this sentence finished an AIS message.
	Complete bool
	// Payload is the full armored payload once Complete.
	Payload string
	// FillBits is the pad bit count once Complete.
	FillBits int
	// Fields holds the interpreted message fields; empty until Complete.
	Fields []Field
}

// Options configures a Decoder.
type Options struct {
	// SeqLimit bounds the number of in-flight multi-fragment messages;
	// 0 means unbounded. When the bound is hit the oldest chain is
	// dropped and reported through Notify.
	SeqLimit int
	// Notify receives a human-readable diagnostic whenever an in-flight
	// reassembly is evicted for capacity. Defaults to log.Printf.
	Notify func(string)
}

// Decoder turns raw NMEA lines into decoded AIS messages. It owns the
// reassembly state for multi-fragment messages and is safe for
// concurrent use.
type Decoder struct {
	asm *Assembler
}

func NewDecoder(opts Options) *Decoder {
	notify := opts.Notify
	if notify == nil {
		notify = func(msg string) { log.Printf("ais: %s", msg) }
	}
	return &Decoder{asm: NewAssembler(opts.SeqLimit, notify)}
}

// Pending returns the number of in-flight multi-fragment messages.
func (d *Decoder) Pending() int {
	return d.asm.Size()
}

// ParseSentence tokenizes one line and, for AIVDM/AIVDO traffic, runs
// fragment reassembly and payload decoding.
//
// Errors: nmea.ErrMalformed for lines outside the grammar,
// *IncompleteMessageError for out-of-order fragments (the partial chain
// is discarded; later sentences are unaffected), and ErrDecode for
// payloads the bit decoder rejects. Non-VDM sentences and pending
// fragments return with Complete unset and no error.
func (d *Decoder) ParseSentence(line string) (ParsedSentence, error) {
	sent, err := nmea.ParseSentence(line)
	if err != nil {
		return ParsedSentence{}, err
	}

	out := ParsedSentence{Sentence: sent}
	if !nmea.IsVDM(sent) {
		return out, nil
	}

	vdm, err := nmea.ParseVDM(sent)
	if err != nil {
		return ParsedSentence{}, err
	}
	out.VDM = &vdm

	// No payload: nothing to reassemble or decode.
	if vdm.Payload == "" {
		return out, nil
	}

	res := d.asm.Accept(vdm)
	switch res.Status {
	case StatusRejected:
		return out, &IncompleteMessageError{SeqID: vdm.SeqID, Expected: res.Expected}
	case StatusPending:
		return out, nil
	}

	fields, err := DecodePayload(res.Payload, res.FillBits)
	if err != nil {
		return out, err
	}
	out.Complete = true
	out.Payload = res.Payload
	out.FillBits = res.FillBits
	out.Fields = fields
	return out, nil
}

// DecodePayload decodes a complete armored payload into interpreted
// fields: unarmor to bits, unpack by message type, interpret.
func DecodePayload(payload string, fillBits int) ([]Field, error) {
	bv, err := unarmor(payload, fillBits)
	if err != nil {
		return nil, err
	}
	raw, err := unpack(bv)
	if err != nil {
		return nil, err
	}
	return interpret(raw), nil
}
