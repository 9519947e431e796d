// Package dterr holds the sentinel errors shared across the build, tail,
// persistence and query paths so a caller can use errors.Is regardless of
// which layer of the module actually detected the failure.
package dterr

import "errors"

// Input-shape errors (§7.1): raised synchronously at the start of Build.
var (
	ErrZeroByteInKey = errors.New("darts: key contains a zero byte")
	ErrEmptyKey      = errors.New("darts: key has zero length")
	ErrUnsortedKeys  = errors.New("darts: keys are not strictly ascending")
)

// Encoding-overflow errors (§7.2): raised mid-build, abort with no partial
// dictionary exposed.
var (
	ErrOffsetOverflow    = errors.New("darts: offset exceeds 21-bit encoding")
	ErrLinkOverflow      = errors.New("darts: tail link exceeds field width")
	ErrUnitCountOverflow = errors.New("darts: unit count exceeds the offset field")
)

// I/O errors (§7.3): returned from Load/Save, wrap the underlying cause.
var (
	ErrTruncatedFile = errors.New("darts: file is too short to hold even the header units")
	ErrBadUnitCount  = errors.New("darts: unit 1's offset field claims an unusable unit count")
)

// Traverse sentinels (§4.6, §7.4): not build-time errors, part of the
// normal query return domain.
var (
	ErrIncomplete = errors.New("darts: traverse ended mid-sequence or at a non-terminal node")
	ErrMismatch   = errors.New("darts: traverse aborted on a definite label mismatch")
)
