// Package builder implements the double-array trie construction pass:
// variant B from the component design, a work-stack of (begin, end,
// parentIndex) ranges over a sorted key array rather than an explicit
// node-pool graph. It is deliberately unit-encoding-agnostic — callers
// supply an Encoder so the same range-splitting loop drives the V0,
// V1 and Huge unit layouts without duplicating the traversal logic.
package builder

import (
	"fmt"

	"github.com/codewanderer/darts/block"
	"github.com/codewanderer/darts/dterr"
	"github.com/codewanderer/darts/offsetfind"
)

// ProgressFunc is invoked as (leavesProcessed, totalKeys) during the
// build pass. It runs on the builder's own goroutine and must not mutate
// builder state; a nil ProgressFunc disables reporting entirely.
type ProgressFunc func(leavesProcessed, totalKeys int)

// Encoder binds the range-splitting loop to one concrete unit layout.
// EncodeInternal must fail (ok=false) when offset cannot be represented,
// which Build reports as dterr.ErrOffsetOverflow.
type Encoder interface {
	EncodeInternal(label byte, offset uint32, isEnd bool) (word uint32, ok bool)
	// EncodeLeaf produces the unit word for a leaf carrying value. V0
	// writes its real payload here; V1/Huge write an is_leaf=1
	// placeholder that the tail packer overwrites after the whole
	// skeleton exists.
	EncodeLeaf(value int32) uint32
}

// Key pairs an already-sorted, deduplicated key with its value. pos is a
// read cursor the builder advances as it consumes leading bytes; LeafUnit
// is filled in with the unit index once the key resolves to a leaf.
type Key struct {
	Bytes    []byte
	Value    int32
	pos      int
	LeafUnit int32
}

// NewKey wraps a sorted, deduplicated key and its value for Build.
func NewKey(b []byte, value int32) *Key { return &Key{Bytes: b, Value: value} }

// Consumed returns how many leading bytes of Bytes the trie skeleton
// accounted for before this key resolved to a leaf. The remainder,
// Bytes[Consumed():], is what a tail-backed variant must still store.
func (k *Key) Consumed() int { return k.pos }

// Units is the minimal slice-backed store the builder grows; the same
// type backs block.Store. LabelEncoder lets fixBlock write a
// variant-correct "internal unit with only this label set" word without
// the block package needing to know the unit layout in play.
type Units struct {
	Raw          []uint32
	LabelEncoder func(byte) (uint32, bool)
}

func (u *Units) Len() int   { return len(u.Raw) }
func (u *Units) Grow(n int) { u.Raw = append(u.Raw, make([]uint32, n)...) }
func (u *Units) SetLabel(index int, label byte) {
	word, _ := u.LabelEncoder(label)
	u.Raw[index] = word
}

type frame struct {
	begin, end, idx int32
	label           byte
}

// Build runs the variant-B construction loop over keys, which must
// already be sorted ascending and deduplicated by the caller (Build
// neither validates nor sorts them). It returns the populated
// unit words and leaves leafOf (keys[i].LeafUnit) populated as a side
// effect for callers that need it (the V1/Huge tail packer).
// shortcutSingleton controls whether a range that narrows to one key
// resolves to a leaf immediately, deferring any unconsumed bytes to a
// tail region (V1/Huge), or keeps splitting byte by byte until the key
// is fully consumed (V0, which has no tail to defer into).
func Build(enc Encoder, labelEncoder func(byte) (uint32, bool), keys []*Key, shortcutSingleton bool, progress ProgressFunc) (*Units, error) {
	units := &Units{LabelEncoder: labelEncoder}
	alloc := block.New(units)

	place(units, enc, 0, 1, false)
	place(units, enc, 1, 1, false) // unit 1: temporary placeholder, patched at the end
	alloc.Reserve(0)
	alloc.MarkUsed(0)
	alloc.Reserve(1)
	alloc.MarkUsed(1)

	var stack []frame
	if len(keys) > 0 {
		stack = append(stack, frame{0, int32(len(keys)), 0, 0})
	}
	processed := 0

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.idx != 0 && f.end-f.begin == 1 && shortcutSingleton {
			k := keys[f.begin]
			k.LeafUnit = f.idx
			units.Raw[f.idx] = enc.EncodeLeaf(k.Value)
			processed++
			if progress != nil {
				progress(processed, len(keys))
			}
			continue
		}

		// Each key's position contributes an "effective byte": its next
		// real byte, or a virtual 0 once fully consumed (mirroring a
		// C-string terminator; real keys may never contain byte 0). A
		// terminator always forms its own singleton group, sorting first,
		// and is carried through the ordinary label/child machinery
		// below rather than special-cased — it resolves to a genuine
		// leaf the next time its frame is popped.
		var labels []byte
		var subBegin, subEnd []int32
		for i := f.begin; i < f.end; {
			label := effectiveByte(keys[i])
			j := i
			for j < f.end && effectiveByte(keys[j]) == label {
				if label != 0 {
					keys[j].pos++
				}
				j++
			}
			labels = append(labels, label)
			subBegin = append(subBegin, i)
			subEnd = append(subEnd, j)
			i = j
		}
		isEnd := labels[0] == 0

		base := offsetfind.Find(alloc, f.idx, labels)
		offset := uint32(f.idx ^ base)
		word, ok := enc.EncodeInternal(f.label, offset, isEnd)
		if !ok {
			return nil, fmt.Errorf("%w: parent=%d offset=%d", dterr.ErrOffsetOverflow, f.idx, offset)
		}
		units.Raw[f.idx] = word
		alloc.MarkUsed(base)

		for k := len(labels) - 1; k >= 0; k-- {
			childIdx := base ^ int32(labels[k])
			alloc.Reserve(childIdx)
			if labels[k] == 0 {
				// The terminator never recurses: base^0 is the leaf
				// for the one key that ends exactly at this node.
				term := keys[subBegin[k]]
				term.LeafUnit = childIdx
				units.Raw[childIdx] = enc.EncodeLeaf(term.Value)
				processed++
				if progress != nil {
					progress(processed, len(keys))
				}
				continue
			}
			stack = append(stack, frame{subBegin[k], subEnd[k], childIdx, labels[k]})
		}
	}

	alloc.FixRemaining()

	total := uint32(len(units.Raw))
	word, ok := enc.EncodeInternal(0, total, false)
	if !ok {
		return nil, fmt.Errorf("%w: %d units", dterr.ErrUnitCountOverflow, total)
	}
	units.Raw[1] = word
	return units, nil
}

// effectiveByte returns the byte a key contributes at its current cursor
// position, or 0 once the key is fully consumed (its implicit terminator).
func effectiveByte(k *Key) byte {
	if k.pos == len(k.Bytes) {
		return 0
	}
	return k.Bytes[k.pos]
}

func place(units *Units, enc Encoder, idx, offset int32, isEnd bool) {
	for int32(len(units.Raw)) <= idx {
		units.Raw = append(units.Raw, 0)
	}
	word, _ := enc.EncodeInternal(0, uint32(offset), isEnd)
	units.Raw[idx] = word
}
