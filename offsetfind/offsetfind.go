// Package offsetfind implements the double-array builder's offset search:
// given a parent index and the distinct child labels it must host, find a
// base index such that every child slot is free and the base itself has
// not already been claimed by another node. The probing loop mirrors the
// early-termination, first-candidate-wins style of a Robin Hood hash
// probe — walk candidates in a fixed order, stop at the first one that
// satisfies every constraint, never look back.
package offsetfind

import "github.com/codewanderer/darts/dunit"

// Allocator is the subset of block.Allocator the finder needs.
type Allocator interface {
	FirstFree() int32
	NextFree(id int32) int32
	IsUsed(index int32) bool
	IsFixed(index int32) bool
	NumUnits() int32
}

// Find returns a base index such that base^labels[0] is a legal slot for
// the first child, base itself has not been used as another node's base,
// the offset parentIndex^base fits the 21-bit encoding, and none of the
// remaining children collide with an already-fixed slot.
//
// labels must be non-empty and hold distinct byte values. Candidates are
// tried in free-list order starting from the allocator's current head;
// the first that satisfies every constraint wins, which is what makes two
// builds over the same sorted key set byte-identical.
//
// If the free list is exhausted without a match, Find falls back to
// forcing array growth at numUnits | (parentIndex & 0xFF), matching the
// builder's escape hatch when the window holds no usable candidate.
func Find(alloc Allocator, parentIndex int32, labels []byte) int32 {
	b1 := labels[0]
	start := alloc.FirstFree()
	if start != -1 {
		for id := start; ; {
			candidate := id ^ int32(b1)
			if candidate >= 0 && !alloc.IsUsed(candidate) && dunit.FitsOffset21(uint32(parentIndex^candidate)) {
				if !collides(alloc, candidate, labels[1:]) {
					return candidate
				}
			}
			id = alloc.NextFree(id)
			if id == start {
				break
			}
		}
	}
	return alloc.NumUnits() | (parentIndex & 0xFF)
}

// collides reports whether any remaining label maps to an already-fixed
// slot under the candidate base.
func collides(alloc Allocator, base int32, rest []byte) bool {
	for _, b := range rest {
		if alloc.IsFixed(base ^ int32(b)) {
			return true
		}
	}
	return false
}
