package darts

import (
	"io"

	"github.com/codewanderer/darts/persist"
)

// Save writes d's on-disk image (unit array followed by tail region, if
// any) to w. The caller is responsible for remembering which Build/Load
// variant produced d — the format carries no variant tag (§6.1, §9
// "Templated variants": the wire format is the same raw array regardless
// of which of the two unit layouts filled it in).
func (d *Dictionary) Save(w io.Writer) error {
	return persist.Save(w, d.units, d.tailB)
}

// SaveFile is a convenience wrapper around Save that creates path.
func (d *Dictionary) SaveFile(path string) error {
	return persist.SaveFile(path, d.units, d.tailB)
}

// Load decodes a V1 dictionary previously produced by Build, from a byte
// image already in memory.
func Load(raw []byte) (*Dictionary, error) {
	return loadAs(raw, 0, -1, kindV1)
}

// LoadAt decodes a V1 dictionary embedded at raw[offset : offset+size]
// inside a larger file, e.g. a dictionary compiled in via go:embed.
// size == -1 means "use the rest of raw".
func LoadAt(raw []byte, offset, size int) (*Dictionary, error) {
	return loadAs(raw, offset, size, kindV1)
}

// LoadV0 decodes a dictionary previously produced by BuildV0.
func LoadV0(raw []byte) (*Dictionary, error) { return loadAs(raw, 0, -1, kindV0) }

// LoadV0At mirrors LoadAt for the V0 variant.
func LoadV0At(raw []byte, offset, size int) (*Dictionary, error) {
	return loadAs(raw, offset, size, kindV0)
}

// LoadHuge decodes a dictionary previously produced by BuildHuge.
func LoadHuge(raw []byte) (*Dictionary, error) { return loadAs(raw, 0, -1, kindHuge) }

// LoadHugeAt mirrors LoadAt for the Huge variant.
func LoadHugeAt(raw []byte, offset, size int) (*Dictionary, error) {
	return loadAs(raw, offset, size, kindHuge)
}

// LoadFile reads path in full and decodes it as a V1 dictionary.
func LoadFile(path string) (*Dictionary, error) {
	img, err := persist.LoadFile(path, persist.V1CountDecoder)
	if err != nil {
		return nil, err
	}
	return &Dictionary{units: img.Units, tailB: img.Tail, kind: kindV1}, nil
}

// countDecoderFor returns the unit-1 decoder matching the encoder shape
// Build/BuildV0/BuildHuge used for the dictionary's skeleton: BuildV0
// writes its own unit 1 with the V0 encoder, while Build and BuildHuge
// both route it through v1Encoder regardless of leaf shape.
func countDecoderFor(k kind) persist.CountDecoder {
	if k == kindV0 {
		return persist.V0CountDecoder
	}
	return persist.V1CountDecoder
}

func loadAs(raw []byte, offset, size int, k kind) (*Dictionary, error) {
	img, err := persist.LoadAt(raw, offset, size, countDecoderFor(k))
	if err != nil {
		return nil, err
	}
	return &Dictionary{units: img.Units, tailB: img.Tail, kind: k}, nil
}
