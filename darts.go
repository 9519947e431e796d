// Package darts implements a Double-Array Trie: a compact, read-mostly
// dictionary mapping byte-string keys to fixed-size integer values,
// supporting exact-match lookup, common-prefix enumeration and resumable
// traversal in O(key length) time with no heap allocation on the query
// path. See SPEC_FULL.md for the full component design this package and
// its subpackages (dunit, block, offsetfind, builder, tail, persist)
// implement.
package darts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/codewanderer/darts/builder"
	"github.com/codewanderer/darts/dterr"
	"github.com/codewanderer/darts/dunit"
	"github.com/codewanderer/darts/tail"
)

// kind selects which of the two frozen layouts a Dictionary holds.
// Both are produced by the same variant-B construction loop in package
// builder; only the leaf encoding and presence of a tail region differ.
type kind int

const (
	kindV1   kind = iota // default: shared-suffix tail, VALUE_ID_BITS=3
	kindV0               // inline values, no tail
	kindHuge             // tail with no suffix sharing, VALUE_ID_BITS=0
)

// Dictionary is a frozen, read-only double-array trie. The zero value is
// not usable; obtain one via Build*, Load or LoadAt.
type Dictionary struct {
	units []uint32
	tailB []byte
	kind  kind
}

// ProgressFunc reports build progress as (leavesProcessed, totalKeys).
type ProgressFunc = builder.ProgressFunc

// Result is one match emitted by CommonPrefix: the value attached to a
// key that is a byte-prefix of the query, and that key's length.
type Result struct {
	Value  int32
	Length int
}

// Cursor is the resumable position used by Traverse: NodePos is the last
// internal unit index reached, KeyPos how many bytes of the overall key
// have been consumed across every call so far (for reporting only — each
// Traverse call scans its own key argument from its own start). The zero
// Cursor starts a traversal at the root.
type Cursor struct {
	NodePos int32
	KeyPos  int
}

// NumUnits reports the size of d's unit array.
func (d *Dictionary) NumUnits() int { return len(d.units) }

// TailBytes reports the size of d's tail region (zero for V0 dictionaries).
func (d *Dictionary) TailBytes() int { return len(d.tailB) }

// Build constructs a V1 dictionary (the default, tail-backed variant)
// from keys, which must already be sorted ascending under byte-wise
// lexicographic order; duplicates are dropped, keeping the first value.
// If values is nil, each surviving key receives its zero-based position
// in the sorted, deduplicated order.
func Build(keys [][]byte, values []int32, progress ProgressFunc) (*Dictionary, error) {
	return buildTailed(keys, values, progress, dunit.MaxValueID+1, kindV1)
}

// BuildHuge constructs the VALUE_ID_BITS=0 variant: every leaf owns a
// private tail entry, with no suffix-class sharing. Useful when values
// rarely repeat across shared suffixes and the merge bookkeeping would
// be wasted work.
func BuildHuge(keys [][]byte, values []int32, progress ProgressFunc) (*Dictionary, error) {
	return buildTailed(keys, values, progress, 1, kindHuge)
}

// BuildV0 constructs the inline-value, no-tail variant: simpler and
// slightly larger on disk for key sets with long shared suffixes, since
// every key is fully spelled out in the unit array.
func BuildV0(keys [][]byte, values []int32, progress ProgressFunc) (*Dictionary, error) {
	recs, err := prepare(keys, values)
	if err != nil {
		return nil, err
	}
	enc := v0Encoder{}
	u, err := builder.Build(enc, v0LabelEncoder, recs, false, progress)
	if err != nil {
		return nil, err
	}
	return &Dictionary{units: u.Raw, kind: kindV0}, nil
}

func buildTailed(keys [][]byte, values []int32, progress ProgressFunc, maxValuesPerClass int, k kind) (*Dictionary, error) {
	recs, err := prepare(keys, values)
	if err != nil {
		return nil, err
	}
	enc := v1Encoder{}
	u, err := builder.Build(enc, v1LabelEncoder, recs, true, progress)
	if err != nil {
		return nil, err
	}

	entries := make([]tail.Entry, len(recs))
	for i, k := range recs {
		entries[i] = tail.Entry{
			Suffix:   k.Bytes[consumed(k):],
			Value:    k.Value,
			LeafUnit: k.LeafUnit,
		}
	}

	var patchErr error
	patch := func(unitIndex int32, valueID, link uint32) {
		var word uint32
		var ok bool
		if k == kindHuge {
			hu, o := dunit.NewHugeLeaf(link)
			word, ok = uint32(hu), o
		} else {
			vu, o := dunit.NewV1Leaf(valueID, link)
			word, ok = uint32(vu), o
		}
		if !ok && patchErr == nil {
			patchErr = fmt.Errorf("%w: unit=%d link=%d", dterr.ErrLinkOverflow, unitIndex, link)
			return
		}
		u.Raw[unitIndex] = word
	}
	tailBytes := tail.Pack(entries, maxValuesPerClass, patch)
	if patchErr != nil {
		return nil, patchErr
	}

	return &Dictionary{units: u.Raw, tailB: tailBytes, kind: k}, nil
}

// consumed reports how many leading bytes of a key's full byte string the
// trie skeleton already encodes, i.e. how far the builder's cursor
// advanced before the key resolved to a leaf, as reported by
// builder.Key.Consumed.
func consumed(k *builder.Key) int { return k.Consumed() }

// prepare validates and converts raw keys into builder.Key records,
// dropping duplicates and defaulting values to insertion order.
func prepare(keys [][]byte, values []int32) ([]*builder.Key, error) {
	for i, k := range keys {
		if len(k) == 0 {
			return nil, fmt.Errorf("%w: key %d", dterr.ErrEmptyKey, i)
		}
		if bytes.IndexByte(k, 0) >= 0 {
			return nil, fmt.Errorf("%w: key %d", dterr.ErrZeroByteInKey, i)
		}
		if i > 0 && bytes.Compare(keys[i-1], k) >= 0 {
			if bytes.Equal(keys[i-1], k) {
				continue // duplicate: validated below during dedup pass
			}
			return nil, fmt.Errorf("%w: key %d", dterr.ErrUnsortedKeys, i)
		}
	}

	recs := make([]*builder.Key, 0, len(keys))
	for i, k := range keys {
		if i > 0 && bytes.Equal(keys[i-1], k) {
			continue
		}
		v := int32(len(recs))
		if values != nil {
			v = values[i]
		}
		recs = append(recs, builder.NewKey(k, v))
	}
	sort.SliceStable(recs, func(a, b int) bool { return bytes.Compare(recs[a].Bytes, recs[b].Bytes) < 0 })
	return recs, nil
}
