// Package manifest records the provenance of a built dictionary file in a
// JSON sidecar: when it was built, from how many keys, under which
// variant, and a content fingerprint used to detect a stale index next to
// a newer key file. The sidecar is never part of the on-disk dictionary
// format (§6.1) — it lives alongside it as "<index>.manifest.json".
package manifest

import (
	"fmt"
	"os"
	"time"

	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/blake2b"
)

// Manifest is the sidecar payload written next to a dictionary file.
type Manifest struct {
	Variant     string    `json:"variant"`
	NumKeys     int       `json:"num_keys"`
	NumUnits    int       `json:"num_units"`
	TailBytes   int       `json:"tail_bytes"`
	Fingerprint string    `json:"fingerprint"`
	BuiltAt     time.Time `json:"built_at"`
}

// Fingerprint hashes the sorted key set (and nothing else — the fixed
// values and the build algorithm are assumed stable) so a caller can
// detect whether a dictionary on disk still matches its source keys
// without re-running the builder.
func Fingerprint(keys [][]byte) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("darts: blake2b init: %w", err)
	}
	for _, k := range keys {
		var lenBuf [4]byte
		lenBuf[0] = byte(len(k))
		lenBuf[1] = byte(len(k) >> 8)
		lenBuf[2] = byte(len(k) >> 16)
		lenBuf[3] = byte(len(k) >> 24)
		h.Write(lenBuf[:])
		h.Write(k)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// New builds a Manifest for a freshly built dictionary.
func New(variant string, keys [][]byte, numUnits, tailBytes int, builtAt time.Time) (*Manifest, error) {
	fp, err := Fingerprint(keys)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Variant:     variant,
		NumKeys:     len(keys),
		NumUnits:    numUnits,
		TailBytes:   tailBytes,
		Fingerprint: fp,
		BuiltAt:     builtAt,
	}, nil
}

// SidecarPath derives the manifest path for a dictionary at indexPath.
func SidecarPath(indexPath string) string { return indexPath + ".manifest.json" }

// Save marshals m and writes it to path.
func Save(path string, m *Manifest) error {
	buf, err := sonnet.Marshal(m)
	if err != nil {
		return fmt.Errorf("darts: marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("darts: writing manifest %s: %w", path, err)
	}
	return nil
}

// Load reads and unmarshals the manifest at path.
func Load(path string) (*Manifest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("darts: reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := sonnet.Unmarshal(buf, &m); err != nil {
		return nil, fmt.Errorf("darts: unmarshaling manifest %s: %w", path, err)
	}
	return &m, nil
}

// Stale reports whether keys no longer match the fingerprint recorded in
// m, meaning the dictionary on disk should be rebuilt.
func (m *Manifest) Stale(keys [][]byte) bool {
	fp, err := Fingerprint(keys)
	if err != nil {
		return true
	}
	return fp != m.Fingerprint
}
