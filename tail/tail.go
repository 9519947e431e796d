// Package tail implements the V1/Huge suffix packer: once a trie
// skeleton exists, every leaf's remaining (unconsumed) key suffix is
// written once per distinct suffix into a byte region appended after the
// unit array, with values for suffix-sharing keys packed adjacently.
// Grounded on the reversed-suffix stable sort and merge rule described in
// the component design's tail packer.
package tail

import "sort"

// Entry is one leaf awaiting packing: Suffix is the part of the key not
// already consumed by the trie path (Bytes[pos:]), Value its payload,
// and LeafUnit the unit index the packer must eventually patch.
type Entry struct {
	Suffix   []byte
	Value    int32
	LeafUnit int32
}

// PatchFunc writes the packed (valueID, link) pair back into the unit
// array at unitIndex. link is a byte offset from the start of the tail
// region; valueID selects among values sharing that region.
type PatchFunc func(unitIndex int32, valueID, link uint32)

// Pack sorts entries by descending reversed-suffix order, merges adjacent
// entries whose suffix is a suffix of the previous one (while that
// suffix's class has fewer than maxValuesPerClass values already), and
// returns the packed tail bytes. patch is invoked once per entry.
//
// maxValuesPerClass == 1 reproduces the Huge (VALUE_ID_BITS=0) variant:
// no two leaves ever share a tail region.
func Pack(entries []Entry, maxValuesPerClass int, patch PatchFunc) []byte {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return reversedLess(entries[order[b]].Suffix, entries[order[a]].Suffix)
	})

	var tailBytes []byte
	var classStart uint32
	classCount := 0
	havePrev := false
	var prevSuffix []byte

	for _, idx := range order {
		e := entries[idx]
		if havePrev && isSuffixOf(e.Suffix, prevSuffix) && classCount < maxValuesPerClass {
			// e.Suffix is a true trailing substring of the class's longest
			// suffix, already written at classStart; link must skip past
			// the unmatched leading bytes of that stored suffix so a walk
			// starting there lands on the shared bytes (and, eventually,
			// the one terminator and value block the whole class shares).
			link := classStart + uint32(len(prevSuffix)-len(e.Suffix))
			patch(e.LeafUnit, uint32(classCount), link)
			tailBytes = appendValue(tailBytes, e.Value)
			classCount++
			continue
		}

		classStart = uint32(len(tailBytes))
		tailBytes = append(tailBytes, e.Suffix...)
		tailBytes = append(tailBytes, 0)
		patch(e.LeafUnit, 0, classStart)
		tailBytes = appendValue(tailBytes, e.Value)
		classCount = 1
		prevSuffix = e.Suffix
		havePrev = true
	}

	return tailBytes
}

// appendValue writes value as a little-endian int32, matching the layout
// search reads back via link + |suffix| + 1 + value_id*sizeof(value).
func appendValue(b []byte, value int32) []byte {
	u := uint32(value)
	return append(b, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
}

// reversedLess reports whether a's bytes, read back to front, sort
// lexicographically before b's — the comparator that groups keys by
// shared suffix.
func reversedLess(a, b []byte) bool {
	la, lb := len(a), len(b)
	for i := 1; i <= la && i <= lb; i++ {
		ca, cb := a[la-i], b[lb-i]
		if ca != cb {
			return ca < cb
		}
	}
	return la < lb
}

// isSuffixOf reports whether a is a byte-exact suffix of b.
func isSuffixOf(a, b []byte) bool {
	if len(a) > len(b) {
		return false
	}
	off := len(b) - len(a)
	for i := range a {
		if a[i] != b[off+i] {
			return false
		}
	}
	return true
}
