package curve

import (
	"encoding/hex"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/go-errors/errors"
)

// PointSize is the size in bytes of a compressed G1 point.
const PointSize = bls12381.SizeOfG1AffineCompressed

// Point is an element of the G1 group of BLS12-381. The zero value is the identity.
type Point struct {
	p bls12381.G1Affine
}

// Generator returns the standard generator of G1.
func Generator() Point {
	_, _, g1, _ := bls12381.Generators()
	return Point{p: g1}
}

// Identity returns the neutral element.
func Identity() Point {
	return Point{}
}

// HashToPoint maps msg to G1 using the hash-to-curve suite of gnark-crypto with the given
// domain separation tag.
func HashToPoint(msg, dst []byte) (Point, error) {
	p, err := bls12381.HashToG1(msg, dst)
	if err != nil {
		return Point{}, errors.WrapPrefix(err, "hash to curve failed", 0)
	}
	return Point{p: p}, nil
}

// Mul returns s*p.
func (p Point) Mul(s Scalar) Point {
	var r Point
	r.p.ScalarMultiplication(&p.p, s.Big())
	return r
}

func (p Point) Add(q Point) Point {
	var r Point
	r.p.Add(&p.p, &q.p)
	return r
}

func (p Point) Sub(q Point) Point {
	var r Point
	r.p.Sub(&p.p, &q.p)
	return r
}

func (p Point) Neg() Point {
	var r Point
	r.p.Neg(&p.p)
	return r
}

func (p Point) Equal(q Point) bool {
	return p.p.Equal(&q.p)
}

func (p Point) IsIdentity() bool {
	return p.p.IsInfinity()
}

// MultiExp returns sum(scalars[i]*points[i]).
func MultiExp(points []Point, scalars []Scalar) (Point, error) {
	if len(points) != len(scalars) {
		return Point{}, errors.Errorf("multiexp length mismatch: %d points, %d scalars", len(points), len(scalars))
	}
	var acc bls12381.G1Jac
	for i := range points {
		var term bls12381.G1Jac
		term.FromAffine(&points[i].p)
		term.ScalarMultiplication(&term, scalars[i].Big())
		acc.AddAssign(&term)
	}
	var r Point
	r.p.FromJacobian(&acc)
	return r, nil
}

// Bytes returns the compressed encoding of p.
func (p Point) Bytes() [PointSize]byte {
	return p.p.Bytes()
}

// SetBytes decodes a compressed point, rejecting encodings outside the prime order subgroup.
func (p *Point) SetBytes(b []byte) error {
	if len(b) != PointSize {
		return errors.Errorf("point must be %d bytes, got %d", PointSize, len(b))
	}
	var q bls12381.G1Affine
	if _, err := q.SetBytes(b); err != nil {
		return errors.WrapPrefix(err, "invalid point encoding", 0)
	}
	p.p = q
	return nil
}

func (p Point) String() string {
	b := p.Bytes()
	return hex.EncodeToString(b[:])
}

// MarshalText implements encoding.TextMarshaler, returning the hex of the compressed point.
func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Point) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.WrapPrefix(err, "point is not valid hex", 0)
	}
	return p.SetBytes(b)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p Point) MarshalBinary() ([]byte, error) {
	b := p.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Point) UnmarshalBinary(b []byte) error {
	return p.SetBytes(b)
}

// Multiples returns 0*base, 1*base, ..., (n-1)*base, converting to affine form with a single
// batched field inversion.
func Multiples(base Point, n int) []Point {
	if n <= 0 {
		return nil
	}
	jac := make([]bls12381.G1Jac, n-1)
	var step bls12381.G1Jac
	step.FromAffine(&base.p)
	acc := step
	for i := range jac {
		jac[i] = acc
		acc.AddAssign(&step)
	}
	res := make([]Point, n)
	for i, a := range bls12381.BatchJacobianToAffineG1(jac) {
		res[i+1] = Point{p: a}
	}
	return res
}
