package darts

import "github.com/codewanderer/darts/dunit"

// v0Encoder and v1Encoder adapt the dunit bit layouts to builder.Encoder.
// Huge shares v1Encoder's internal-node encoding (identical layout) and
// only differs in how its leaves are produced, which happens in the tail
// patch callback rather than through EncodeLeaf.

type v0Encoder struct{}

func (v0Encoder) EncodeInternal(label byte, offset uint32, isEnd bool) (uint32, bool) {
	u, ok := dunit.NewV0Internal(label, offset, isEnd)
	return uint32(u), ok
}

func (v0Encoder) EncodeLeaf(value int32) uint32 {
	return uint32(dunit.NewV0Leaf(value))
}

func v0LabelEncoder(label byte) (uint32, bool) {
	u, ok := dunit.NewV0Internal(label, 0, false)
	return uint32(u), ok
}

type v1Encoder struct{}

func (v1Encoder) EncodeInternal(label byte, offset uint32, isEnd bool) (uint32, bool) {
	u, ok := dunit.NewV1Internal(label, offset, isEnd)
	return uint32(u), ok
}

// EncodeLeaf returns a bare is_leaf=1 placeholder: V1/Huge leaves carry
// no usable payload until the tail packer assigns a value_id and link.
func (v1Encoder) EncodeLeaf(int32) uint32 { return 1 }

func v1LabelEncoder(label byte) (uint32, bool) {
	u, ok := dunit.NewV1Internal(label, 0, false)
	return uint32(u), ok
}
