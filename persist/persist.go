// Package persist implements the on-disk format for a frozen dictionary:
// the raw little-endian uint32 image of the unit array, with no header or
// footer, plus the tail region (if any) appended immediately after it.
// Unit 1's offset field doubles as the total unit count, which is how a
// loader locates where the unit array ends and the tail region begins.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/codewanderer/darts/dterr"
	"github.com/codewanderer/darts/dunit"
)

// Image is the decoded (units, tail) pair a Dictionary is built from.
// It intentionally mirrors the private fields of darts.Dictionary rather
// than importing that package, keeping persist usable by anything that
// speaks the same unit-array convention without an import cycle.
type Image struct {
	Units []uint32
	Tail  []byte
}

// CountDecoder recovers the total unit count packed into unit 1's offset
// field. Which bit shape that word was written in depends on which
// Encoder built the dictionary (see builder.Build's final EncodeInternal
// call), so the caller — which already knows that, having chosen
// BuildV0 vs Build/BuildHuge — must supply the matching decoder.
type CountDecoder func(word uint32) uint32

// V0CountDecoder decodes unit 1 as written by the V0 encoder (BuildV0).
func V0CountDecoder(word uint32) uint32 { return dunit.V0(word).Offset() }

// V1CountDecoder decodes unit 1 as written by the V1 encoder, which also
// underlies BuildHuge (both route their skeleton through v1Encoder).
func V1CountDecoder(word uint32) uint32 { return dunit.V1(word).Offset() }

// Save writes units followed by tail to w as raw little-endian uint32s
// (units) then raw bytes (tail).
func Save(w io.Writer, units []uint32, tail []byte) error {
	buf := make([]byte, 4*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint32(buf[i*4:], u)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("darts: writing unit array: %w", err)
	}
	if len(tail) > 0 {
		if _, err := w.Write(tail); err != nil {
			return fmt.Errorf("darts: writing tail region: %w", err)
		}
	}
	return nil
}

// SaveFile is a convenience wrapper that creates (or truncates) path and
// calls Save.
func SaveFile(path string, units []uint32, tail []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("darts: creating %s: %w", path, err)
	}
	defer f.Close()
	return Save(f, units, tail)
}

// Load decodes an Image from raw bytes already in memory, such as a
// buffer returned by Save or the contents of an mmap'd region. The unit
// count is recovered from unit[1]'s offset field (§6.1) via decodeCount;
// everything past that point is the tail region.
func Load(raw []byte, decodeCount CountDecoder) (Image, error) {
	return LoadAt(raw, 0, len(raw), decodeCount)
}

// LoadAt decodes an Image from raw[offset : offset+size], supporting a
// dictionary embedded inside a larger file (e.g. compiled into a binary
// via go:embed). size == -1 means "use the rest of raw".
func LoadAt(raw []byte, offset, size int, decodeCount CountDecoder) (Image, error) {
	if size < 0 {
		size = len(raw) - offset
	}
	if offset < 0 || size < 0 || offset+size > len(raw) {
		return Image{}, fmt.Errorf("darts: LoadAt range out of bounds")
	}
	// The unit array is a whole number of 4-byte words; the tail region
	// that may follow it is raw bytes of arbitrary length (suffix bytes,
	// a terminator, and packed values), so only the unit-array prefix of
	// region is required to align to 4 bytes — not the whole file.
	region := raw[offset : offset+size]
	if len(region) < 8 {
		return Image{}, dterr.ErrTruncatedFile
	}

	numUnits := int(decodeCount(binary.LittleEndian.Uint32(region[4:8])))
	if numUnits < 2 || numUnits*4 > len(region) {
		return Image{}, dterr.ErrBadUnitCount
	}

	units := make([]uint32, numUnits)
	for i := range units {
		units[i] = binary.LittleEndian.Uint32(region[i*4:])
	}

	var tail []byte
	if numUnits*4 < len(region) {
		tail = region[numUnits*4:]
	}
	return Image{Units: units, Tail: tail}, nil
}

// LoadFile reads path in full and decodes it with Load.
func LoadFile(path string, decodeCount CountDecoder) (Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("darts: reading %s: %w", path, err)
	}
	return Load(raw, decodeCount)
}
