package common

import (
	"encoding/binary"

	"github.com/ccdid/idwallet/curve"
)

// Transcript accumulates the public data a Fiat-Shamir challenge is computed over.
// Every item is length prefixed, so distinct sequences of items never collide.
type Transcript struct {
	label string
	buf   []byte
}

func NewTranscript(label string) *Transcript {
	t := &Transcript{label: label}
	t.AppendBytes([]byte(label))
	return t
}

func (t *Transcript) AppendBytes(b []byte) *Transcript {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	t.buf = append(t.buf, l[:]...)
	t.buf = append(t.buf, b...)
	return t
}

func (t *Transcript) AppendPoints(points ...curve.Point) *Transcript {
	for _, p := range points {
		b := p.Bytes()
		t.AppendBytes(b[:])
	}
	return t
}

// Challenge hashes the transcript to a scalar. The label doubles as domain separation tag.
func (t *Transcript) Challenge() (curve.Scalar, error) {
	return curve.HashToScalar(t.buf, []byte("IDWALLET-FS-"+t.label))
}
