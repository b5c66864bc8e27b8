// Package prf implements the Dodis-Yampolskiy verifiable random function
// prf_k(x) = g^(1/(k+x)), used to derive per credential registration ids and the secret
// exponents of account encryption keys.
package prf

import (
	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
)

// ErrDegenerateInput is returned when k+x is zero and the PRF is undefined.
var ErrDegenerateInput = errors.New("prf input is the negation of the key")

// SecretKey is a PRF key. It encodes like the scalar it wraps.
type SecretKey struct {
	curve.Scalar
}

func NewSecretKey(k curve.Scalar) SecretKey {
	return SecretKey{Scalar: k}
}

// Exponent returns 1/(k+x).
func (k SecretKey) Exponent(x uint8) (curve.Scalar, error) {
	sum := k.Add(curve.NewScalar(uint64(x)))
	if sum.IsZero() {
		return curve.Scalar{}, ErrDegenerateInput
	}
	return sum.Inverse()
}

// Prf returns g^(1/(k+x)).
func (k SecretKey) Prf(g curve.Point, x uint8) (curve.Point, error) {
	e, err := k.Exponent(x)
	if err != nil {
		return curve.Point{}, err
	}
	return g.Mul(e), nil
}
