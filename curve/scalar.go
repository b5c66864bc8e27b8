// Package curve contains the BLS12-381 G1 points and scalars used throughout idwallet,
// wrapping gnark-crypto types so that they marshal to and from hex in JSON and to fixed
// size byte strings in CBOR.
package curve

import (
	"encoding/hex"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"
)

// ScalarSize is the size in bytes of an encoded Scalar.
const ScalarSize = fr.Bytes

// Scalar is an element of the scalar field of BLS12-381.
type Scalar struct {
	e fr.Element
}

// NewScalar returns the scalar x.
func NewScalar(x uint64) Scalar {
	var s Scalar
	s.e.SetUint64(x)
	return s
}

// ScalarFromBig reduces x modulo the group order.
func ScalarFromBig(x *big.Int) Scalar {
	var s Scalar
	s.e.SetBigInt(x)
	return s
}

// ScalarFromBytesWide interprets b as a big-endian integer and reduces it modulo the
// group order. It accepts inputs of any length.
func ScalarFromBytesWide(b []byte) Scalar {
	return ScalarFromBig(new(big.Int).SetBytes(b))
}

// RandomScalar samples a uniformly random scalar.
func RandomScalar() (Scalar, error) {
	var s Scalar
	if _, err := s.e.SetRandom(); err != nil {
		return s, errors.WrapPrefix(err, "failed to sample scalar", 0)
	}
	return s, nil
}

// HashToScalar maps msg to a scalar using the hash-to-field construction of RFC 9380 with
// the given domain separation tag.
func HashToScalar(msg, dst []byte) (Scalar, error) {
	els, err := fr.Hash(msg, dst, 1)
	if err != nil {
		return Scalar{}, errors.WrapPrefix(err, "hash to field failed", 0)
	}
	return Scalar{e: els[0]}, nil
}

// Order returns the order of the scalar field.
func Order() *big.Int {
	return fr.Modulus()
}

func (s Scalar) Add(t Scalar) Scalar {
	var r Scalar
	r.e.Add(&s.e, &t.e)
	return r
}

func (s Scalar) Sub(t Scalar) Scalar {
	var r Scalar
	r.e.Sub(&s.e, &t.e)
	return r
}

func (s Scalar) Mul(t Scalar) Scalar {
	var r Scalar
	r.e.Mul(&s.e, &t.e)
	return r
}

func (s Scalar) Neg() Scalar {
	var r Scalar
	r.e.Neg(&s.e)
	return r
}

// Inverse returns 1/s. The inverse of zero is reported as an error.
func (s Scalar) Inverse() (Scalar, error) {
	if s.e.IsZero() {
		return Scalar{}, errors.New("zero has no inverse")
	}
	var r Scalar
	r.e.Inverse(&s.e)
	return r, nil
}

func (s Scalar) IsZero() bool        { return s.e.IsZero() }
func (s Scalar) Equal(t Scalar) bool { return s.e.Equal(&t.e) }

// Big returns s as a non-negative integer below the group order.
func (s Scalar) Big() *big.Int {
	return s.e.BigInt(new(big.Int))
}

// Bytes returns the 32 byte big-endian encoding of s.
func (s Scalar) Bytes() []byte {
	b := s.e.Bytes()
	return b[:]
}

// SetBytes decodes a canonical 32 byte big-endian encoding.
func (s *Scalar) SetBytes(b []byte) error {
	if len(b) != ScalarSize {
		return errors.Errorf("scalar must be %d bytes, got %d", ScalarSize, len(b))
	}
	return s.e.SetBytesCanonical(b)
}

func (s Scalar) String() string {
	return hex.EncodeToString(s.Bytes())
}

// MarshalText implements encoding.TextMarshaler, returning lowercase hex.
func (s Scalar) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scalar) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.WrapPrefix(err, "scalar is not valid hex", 0)
	}
	return s.SetBytes(b)
}

// MarshalBinary implements encoding.BinaryMarshaler; CBOR encodes scalars through it.
func (s Scalar) MarshalBinary() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Scalar) UnmarshalBinary(b []byte) error {
	return s.SetBytes(b)
}
