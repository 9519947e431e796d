package darts

import (
	"github.com/codewanderer/darts/dterr"
	"github.com/codewanderer/darts/dunit"
)

func errMismatch() error   { return dterr.ErrMismatch }
func errIncomplete() error { return dterr.ErrIncomplete }

// ExactMatch walks key from the root and reports its value if key was
// present in the build set, exactly as inserted (no prefix, no
// extension).
func (d *Dictionary) ExactMatch(key []byte) (int32, bool) {
	if d.kind == kindV0 {
		return d.exactMatchV0(key)
	}
	return d.exactMatchTailed(key)
}

// CommonPrefix writes into out every (value, length) pair such that the
// corresponding inserted key is a byte-prefix of key, ordered by
// increasing length, and returns the total count — which may exceed
// len(out) if results were truncated.
func (d *Dictionary) CommonPrefix(key []byte, out []Result) int {
	if d.kind == kindV0 {
		return d.commonPrefixV0(key, out)
	}
	return d.commonPrefixTailed(key, out)
}

// Traverse resumes a walk from pos (the zero Cursor starts at the root),
// consuming key — the NEXT chunk of an overall key being fed in over
// multiple calls, not a cumulative buffer — and updating pos in place so
// the following call can pick up where this one left off. It returns the
// value on a full, terminal match; dterr.ErrIncomplete if the walk ended
// mid-path or at a non-terminal node; dterr.ErrMismatch if a label
// definitively failed to match.
func (d *Dictionary) Traverse(key []byte, pos *Cursor) (int32, error) {
	if d.kind == kindV0 {
		return d.traverseV0(key, pos)
	}
	return d.traverseTailed(key, pos)
}

// ---- V0: inline values, no tail -------------------------------------

func (d *Dictionary) exactMatchV0(key []byte) (int32, bool) {
	var pos Cursor
	v, err := d.traverseV0(key, &pos)
	return v, err == nil
}

// traverseV0 resumes a walk from pos.NodePos, consuming key from its own
// start (index 0) regardless of how many bytes earlier calls consumed —
// a Traverse call receives the NEXT chunk of the overall key, not a
// cumulative buffer, so pos.KeyPos only accumulates for reporting and
// never offsets into this call's key slice.
func (d *Dictionary) traverseV0(key []byte, pos *Cursor) (int32, error) {
	idx := pos.NodePos
	consumedBefore := pos.KeyPos
	for i := 0; i < len(key); i++ {
		u := dunit.V0(d.units[idx])
		next := idx ^ int32(u.Offset()) ^ int32(key[i])
		if next < 0 || int(next) >= len(d.units) {
			pos.NodePos, pos.KeyPos = idx, consumedBefore+i
			return 0, errMismatch()
		}
		nu := dunit.V0(d.units[next])
		if nu.IsLeaf() {
			if i == len(key)-1 {
				pos.NodePos, pos.KeyPos = next, consumedBefore+i+1
				return nu.Value(), nil
			}
			pos.NodePos, pos.KeyPos = idx, consumedBefore+i
			return 0, errMismatch()
		}
		if nu.Label() != key[i] {
			pos.NodePos, pos.KeyPos = idx, consumedBefore+i
			return 0, errMismatch()
		}
		idx = next
	}
	pos.NodePos, pos.KeyPos = idx, consumedBefore+len(key)
	u := dunit.V0(d.units[idx])
	if u.IsEnd() {
		leaf := dunit.V0(d.units[idx^int32(u.Offset())])
		return leaf.Value(), nil
	}
	return 0, errIncomplete()
}

func (d *Dictionary) commonPrefixV0(key []byte, out []Result) int {
	count := 0
	idx := int32(0)
	for i := 0; i < len(key); i++ {
		u := dunit.V0(d.units[idx])
		if u.IsEnd() {
			leaf := dunit.V0(d.units[idx^int32(u.Offset())])
			if count < len(out) {
				out[count] = Result{Value: leaf.Value(), Length: i}
			}
			count++
		}
		next := idx ^ int32(u.Offset()) ^ int32(key[i])
		if next < 0 || int(next) >= len(d.units) {
			return count
		}
		nu := dunit.V0(d.units[next])
		if nu.IsLeaf() {
			if i == len(key)-1 {
				if count < len(out) {
					out[count] = Result{Value: nu.Value(), Length: i + 1}
				}
				count++
			}
			return count
		}
		if nu.Label() != key[i] {
			return count
		}
		idx = next
	}
	u := dunit.V0(d.units[idx])
	if u.IsEnd() {
		leaf := dunit.V0(d.units[idx^int32(u.Offset())])
		if count < len(out) {
			out[count] = Result{Value: leaf.Value(), Length: len(key)}
		}
		count++
	}
	return count
}

// ---- V1 / Huge: tail-backed ------------------------------------------

func (d *Dictionary) leafFields(word uint32) (valueID, link uint32) {
	if d.kind == kindHuge {
		h := dunit.Huge(word)
		return 0, h.Link()
	}
	u := dunit.V1(word)
	return u.ValueID(), u.Link()
}

// tailValue reads the int32 stored after the suffix's zero terminator,
// offset by valueID slots of 4 bytes each.
func (d *Dictionary) tailValue(link, valueID uint32) int32 {
	p := int(link)
	for d.tailB[p] != 0 {
		p++
	}
	p++ // past the terminator
	p += int(valueID) * 4
	return int32(uint32(d.tailB[p]) | uint32(d.tailB[p+1])<<8 | uint32(d.tailB[p+2])<<16 | uint32(d.tailB[p+3])<<24)
}

// matchTail compares key[keyPos:] against the tail suffix starting at
// link, requiring an exact match through the terminator. Returns the
// number of key bytes consumed and whether the whole suffix matched.
func (d *Dictionary) matchTail(key []byte, keyPos int, link uint32) (consumed int, ok bool) {
	p := int(link)
	i := keyPos
	for d.tailB[p] != 0 {
		if i >= len(key) || key[i] != d.tailB[p] {
			return i - keyPos, false
		}
		i++
		p++
	}
	return i - keyPos, true
}

func (d *Dictionary) exactMatchTailed(key []byte) (int32, bool) {
	idx := int32(0)
	for i := 0; i < len(key); i++ {
		u := dunit.V1(d.units[idx])
		next := idx ^ int32(u.Offset()) ^ int32(key[i])
		if next < 0 || int(next) >= len(d.units) {
			return 0, false
		}
		nword := d.units[next]
		if dunit.V1(nword).IsLeaf() {
			valueID, link := d.leafFields(nword)
			consumed, ok := d.matchTail(key, i+1, link)
			if !ok || i+1+consumed != len(key) {
				return 0, false
			}
			return d.tailValue(link, valueID), true
		}
		if dunit.V1(nword).Label() != key[i] {
			return 0, false
		}
		idx = next
	}
	u := dunit.V1(d.units[idx])
	if u.IsEnd() {
		leafWord := d.units[idx^int32(u.Offset())]
		valueID, link := d.leafFields(leafWord)
		return d.tailValue(link, valueID), true
	}
	return 0, false
}

func (d *Dictionary) commonPrefixTailed(key []byte, out []Result) int {
	count := 0
	idx := int32(0)
	for i := 0; i < len(key); i++ {
		u := dunit.V1(d.units[idx])
		if u.IsEnd() {
			leafWord := d.units[idx^int32(u.Offset())]
			valueID, link := d.leafFields(leafWord)
			if count < len(out) {
				out[count] = Result{Value: d.tailValue(link, valueID), Length: i}
			}
			count++
		}
		next := idx ^ int32(u.Offset()) ^ int32(key[i])
		if next < 0 || int(next) >= len(d.units) {
			return count
		}
		nword := d.units[next]
		if dunit.V1(nword).IsLeaf() {
			valueID, link := d.leafFields(nword)
			consumed, ok := d.matchTail(key, i+1, link)
			if ok {
				if count < len(out) {
					out[count] = Result{Value: d.tailValue(link, valueID), Length: i + 1 + consumed}
				}
				count++
			}
			return count
		}
		if dunit.V1(nword).Label() != key[i] {
			return count
		}
		idx = next
	}
	u := dunit.V1(d.units[idx])
	if u.IsEnd() {
		leafWord := d.units[idx^int32(u.Offset())]
		valueID, link := d.leafFields(leafWord)
		if count < len(out) {
			out[count] = Result{Value: d.tailValue(link, valueID), Length: len(key)}
		}
		count++
	}
	return count
}

// traverseTailed mirrors traverseV0's resume contract; see its comment.
func (d *Dictionary) traverseTailed(key []byte, pos *Cursor) (int32, error) {
	idx := pos.NodePos
	consumedBefore := pos.KeyPos
	for i := 0; i < len(key); i++ {
		u := dunit.V1(d.units[idx])
		next := idx ^ int32(u.Offset()) ^ int32(key[i])
		if next < 0 || int(next) >= len(d.units) {
			pos.NodePos, pos.KeyPos = idx, consumedBefore+i
			return 0, errMismatch()
		}
		nword := d.units[next]
		if dunit.V1(nword).IsLeaf() {
			valueID, link := d.leafFields(nword)
			consumed, ok := d.matchTail(key, i+1, link)
			pos.NodePos, pos.KeyPos = next, consumedBefore+i+1+consumed
			if !ok || i+1+consumed != len(key) {
				return 0, errMismatch()
			}
			return d.tailValue(link, valueID), nil
		}
		if dunit.V1(nword).Label() != key[i] {
			pos.NodePos, pos.KeyPos = idx, consumedBefore+i
			return 0, errMismatch()
		}
		idx = next
	}
	pos.NodePos, pos.KeyPos = idx, consumedBefore+len(key)
	u := dunit.V1(d.units[idx])
	if u.IsEnd() {
		leafWord := d.units[idx^int32(u.Offset())]
		valueID, link := d.leafFields(leafWord)
		return d.tailValue(link, valueID), nil
	}
	return 0, errIncomplete()
}
