package darts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/codewanderer/darts/dterr"
)

// ============================================================================
// BUILD AND EXACT-MATCH SCENARIOS
// ============================================================================

func TestExactMatch_AppleFamily(t *testing.T) {
	d, err := Build(byteKeys("apple", "apply", "apricot"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cases := []struct {
		key   string
		want  int32
		found bool
	}{
		{"apple", 0, true},
		{"apply", 1, true},
		{"apricot", 2, true},
		{"app", 0, false},
		{"apples", 0, false},
	}
	for _, c := range cases {
		got, ok := d.ExactMatch([]byte(c.key))
		if ok != c.found || (ok && got != c.want) {
			t.Errorf("ExactMatch(%q) = (%d, %v), want (%d, %v)", c.key, got, ok, c.want, c.found)
		}
	}
}

func TestCommonPrefix_AppleFamily(t *testing.T) {
	d, err := Build(byteKeys("apple", "apply", "apricot"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := make([]Result, 4)
	n := d.CommonPrefix([]byte("apricots"), out)
	if n != 1 || out[0] != (Result{Value: 2, Length: 7}) {
		t.Fatalf("CommonPrefix(apricots) = %d, %v, want 1, [{2 7}]", n, out[:n])
	}
}

func TestCommonPrefix_Ladder(t *testing.T) {
	d, err := Build(byteKeys("a", "ab", "abc"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := make([]Result, 4)
	n := d.CommonPrefix([]byte("abcd"), out)
	want := []Result{{0, 1}, {1, 2}, {2, 3}}
	if n != len(want) {
		t.Fatalf("CommonPrefix(abcd) count = %d, want %d", n, len(want))
	}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("out[%d] = %v, want %v", i, out[i], w)
		}
	}
}

func TestTraverse_StepByStep(t *testing.T) {
	d, err := Build(byteKeys("a", "ab", "abc"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var pos Cursor
	key := []byte("abc")

	v, err := d.Traverse(key[:1], &pos)
	if err != nil || v != 0 {
		t.Fatalf("after %q: v=%d err=%v, want 0, nil", key[:1], v, err)
	}
	v, err = d.Traverse(key[1:2], &pos)
	if err != nil || v != 1 {
		t.Fatalf("after %q: v=%d err=%v, want 1, nil", key[:2], v, err)
	}
	v, err = d.Traverse(key[2:3], &pos)
	if err != nil || v != 2 {
		t.Fatalf("after %q: v=%d err=%v, want 2, nil", key, v, err)
	}
}

func TestTraverse_ResumeMatchesExactMatch(t *testing.T) {
	d, err := Build(byteKeys("apple", "apply", "apricot", "banana"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	key := "apricot"
	for split := 1; split < len(key); split++ {
		var pos Cursor
		if _, err := d.Traverse([]byte(key[:split]), &pos); err != nil && !errors.Is(err, dterr.ErrIncomplete) {
			t.Fatalf("split=%d first half: unexpected error %v", split, err)
		}
		got, err := d.Traverse([]byte(key[split:]), &pos)
		if err != nil {
			t.Fatalf("split=%d second half: %v", split, err)
		}
		want, _ := d.ExactMatch([]byte(key))
		if got != want {
			t.Errorf("split=%d: resumed traverse = %d, want %d", split, got, want)
		}
	}
}

func TestSharedSuffix_TailMerge(t *testing.T) {
	d, err := Build(byteKeys("ba", "ca", "da"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if v, ok := d.ExactMatch([]byte("ca")); !ok || v != 1 {
		t.Errorf("ExactMatch(ca) = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := d.ExactMatch([]byte("a")); ok {
		t.Error("ExactMatch(a) should not be found")
	}
	if n := bytes.Count(d.tailB, append([]byte("a"), 0)); n != 1 {
		t.Errorf("tail region contains the shared suffix \"a\\0\" %d times, want exactly once", n)
	}
}

func TestDuplicateKeys_FirstValueWins(t *testing.T) {
	d, err := Build(byteKeys("foo", "foo", "foobar"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if v, ok := d.ExactMatch([]byte("foo")); !ok || v != 0 {
		t.Errorf("ExactMatch(foo) = (%d, %v), want (0, true)", v, ok)
	}
	if v, ok := d.ExactMatch([]byte("foobar")); !ok || v != 1 {
		t.Errorf("ExactMatch(foobar) = (%d, %v), want (1, true)", v, ok)
	}
}

func TestUnsortedKeys_Rejected(t *testing.T) {
	_, err := Build(byteKeys("b", "a"), nil, nil)
	if !errors.Is(err, dterr.ErrUnsortedKeys) {
		t.Fatalf("Build([b,a]) error = %v, want ErrUnsortedKeys", err)
	}
}

func TestEmptyKeySet(t *testing.T) {
	d, err := Build(nil, nil, nil)
	if err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if _, ok := d.ExactMatch([]byte("anything")); ok {
		t.Error("ExactMatch on empty dictionary should never find anything")
	}
}

func TestZeroByteInKey_Rejected(t *testing.T) {
	_, err := Build([][]byte{{'a', 0, 'b'}}, nil, nil)
	if !errors.Is(err, dterr.ErrZeroByteInKey) {
		t.Fatalf("Build with embedded zero byte error = %v, want ErrZeroByteInKey", err)
	}
}

func TestEmptyKey_Rejected(t *testing.T) {
	_, err := Build([][]byte{{}}, nil, nil)
	if !errors.Is(err, dterr.ErrEmptyKey) {
		t.Fatalf("Build with empty key error = %v, want ErrEmptyKey", err)
	}
}

// ============================================================================
// PREFIX-OF-EACH-OTHER BOUNDARY
// ============================================================================

func TestOnePrefixOfAnother(t *testing.T) {
	d, err := Build(byteKeys("go", "gopher"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if v, ok := d.ExactMatch([]byte("go")); !ok || v != 0 {
		t.Errorf("ExactMatch(go) = (%d, %v), want (0, true)", v, ok)
	}
	if v, ok := d.ExactMatch([]byte("gopher")); !ok || v != 1 {
		t.Errorf("ExactMatch(gopher) = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := d.ExactMatch([]byte("goph")); ok {
		t.Error("ExactMatch(goph) should not be found")
	}
}

// ============================================================================
// V0 AND HUGE VARIANT PARITY
// ============================================================================

func TestBuildV0_MatchesV1Semantics(t *testing.T) {
	keys := byteKeys("apple", "apply", "apricot", "ba", "ca", "da")
	d, err := BuildV0(keys, nil, nil)
	if err != nil {
		t.Fatalf("BuildV0: %v", err)
	}
	for i, k := range keys {
		if v, ok := d.ExactMatch(k); !ok || v != int32(i) {
			t.Errorf("V0 ExactMatch(%q) = (%d, %v), want (%d, true)", k, v, ok, i)
		}
	}
	if _, ok := d.ExactMatch([]byte("a")); ok {
		t.Error("V0 ExactMatch(a) should not be found")
	}
}

func TestBuildHuge_NoSuffixSharing(t *testing.T) {
	d, err := BuildHuge(byteKeys("ba", "ca", "da"), nil, nil)
	if err != nil {
		t.Fatalf("BuildHuge: %v", err)
	}
	if v, ok := d.ExactMatch([]byte("ca")); !ok || v != 1 {
		t.Errorf("ExactMatch(ca) = (%d, %v), want (1, true)", v, ok)
	}
}

// ============================================================================
// MULTI-BLOCK EXPANSION
// ============================================================================

func TestLargeKeySet_MultiBlockExpansion(t *testing.T) {
	const n = 70000
	keys := make([][]byte, n)
	for i := 0; i < n; i++ {
		keys[i] = encodeOrdinal(i)
	}
	d, err := Build(keys, nil, nil)
	if err != nil {
		t.Fatalf("Build(%d keys): %v", n, err)
	}
	for i := 0; i < n; i += 997 {
		if v, ok := d.ExactMatch(keys[i]); !ok || v != int32(i) {
			t.Errorf("ExactMatch(%q) = (%d, %v), want (%d, true)", keys[i], v, ok, i)
		}
	}
}

// ============================================================================
// SAVE / LOAD ROUND TRIP
// ============================================================================

func TestSaveLoad_RoundTrip(t *testing.T) {
	keys := byteKeys("apple", "apply", "apricot", "ba", "ca", "da", "go", "gopher")
	d, err := Build(keys, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(buf.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, k := range keys {
		got, ok := loaded.ExactMatch(k)
		want, _ := d.ExactMatch(k)
		if !ok || got != want {
			t.Errorf("loaded.ExactMatch(%q) = (%d, %v), want (%d, true)", k, got, ok, want)
		}
	}
}

func TestSaveLoad_V0RoundTrip(t *testing.T) {
	// BuildV0 writes unit 1 with the V0 encoder's bit shape, not V1's —
	// LoadV0 must decode it that way or misread the unit count entirely.
	keys := byteKeys("apple", "apply", "apricot", "ba", "ca", "da", "go", "gopher")
	d, err := BuildV0(keys, nil, nil)
	if err != nil {
		t.Fatalf("BuildV0: %v", err)
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadV0(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadV0: %v", err)
	}
	if len(loaded.units) != len(d.units) {
		t.Fatalf("loaded %d units, want %d (unit-count header likely misdecoded)", len(loaded.units), len(d.units))
	}
	for _, k := range keys {
		got, ok := loaded.ExactMatch(k)
		want, _ := d.ExactMatch(k)
		if !ok || got != want {
			t.Errorf("loaded.ExactMatch(%q) = (%d, %v), want (%d, true)", k, got, ok, want)
		}
	}
}

func TestSaveLoad_HugeRoundTrip(t *testing.T) {
	keys := byteKeys("apple", "apply", "apricot", "ba", "ca", "da", "go", "gopher")
	d, err := BuildHuge(keys, nil, nil)
	if err != nil {
		t.Fatalf("BuildHuge: %v", err)
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadHuge(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadHuge: %v", err)
	}
	for _, k := range keys {
		got, ok := loaded.ExactMatch(k)
		want, _ := d.ExactMatch(k)
		if !ok || got != want {
			t.Errorf("loaded.ExactMatch(%q) = (%d, %v), want (%d, true)", k, got, ok, want)
		}
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func byteKeys(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

// encodeOrdinal produces a strictly ascending sequence of non-empty,
// zero-byte-free keys for i in [0, 32^4): a big-endian base-32 encoding
// with each digit shifted into [1,32] so no byte is ever zero, preserving
// numeric order under byte-wise lexicographic comparison.
func encodeOrdinal(i int) []byte {
	return []byte{
		byte((i>>15)&0x1F) + 1,
		byte((i>>10)&0x1F) + 1,
		byte((i>>5)&0x1F) + 1,
		byte(i&0x1F) + 1,
	}
}
