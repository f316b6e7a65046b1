package ais

import (
	"errors"
	"fmt"
)

// ErrDecode marks payloads whose armor or field layout could not be
// decoded. Reassembly state is already cleared by the time this is
// returned, so the caller only needs to log and move on.
var ErrDecode = errors.New("decode failed")

// IncompleteMessageError reports a fragment that arrived out of the
// expected order: a gap, a duplicate, or a sequential ID reused without
// a fresh fragment 1. The partial chain for that ID has been discarded;
// subsequent sentences are unaffected.
type IncompleteMessageError struct {
	SeqID    string
	Expected int
}

func (e *IncompleteMessageError) Error() string {
	return fmt.Sprintf("ais: missing sequential message fragment %d for id %q", e.Expected, e.SeqID)
}
