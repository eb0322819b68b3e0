package snapshot

import "errors"

// Error taxonomy for the snapshot engine, per spec §7: a truncated
// stream is a load error, an unrecognized tag is forward-compatible
// (never an error), and a mapper id mismatch between the live
// cartridge and a MAPR block is fatal.
var (
	ErrMalformed      = errors.New("snapshot: malformed block stream")
	ErrTruncated      = errors.New("snapshot: truncated block stream")
	ErrMapperMismatch = errors.New("snapshot: MAPR block mapper id does not match loaded cartridge")
	ErrTooManyChanges = errors.New("snapshot: differential reference is too stale (exceeds max differences)")
)
