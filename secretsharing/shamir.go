// Package secretsharing implements Shamir secret sharing over the BLS12-381 scalar field
// and the threshold policy for anonymity revokers.
package secretsharing

import (
	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
)

// ErrInvalidThreshold is returned for thresholds outside [1, number of revokers].
var ErrInvalidThreshold = errors.New("threshold out of range")

// Threshold is the number of anonymity revokers needed to reconstruct a shared secret.
type Threshold uint8

// DefaultThreshold returns max(n-1, 1): all but one of n revokers must cooperate, and a
// deployment with a single revoker stays constructible.
// TODO: the identity provider should announce its own threshold; this is the interim policy.
func DefaultThreshold(n int) Threshold {
	t := n - 1
	if t < 1 {
		t = 1
	}
	if t > 255 {
		t = 255
	}
	return Threshold(t)
}

// Validate checks 1 <= t <= n.
func (t Threshold) Validate(n int) error {
	if t < 1 || int(t) > n {
		return ErrInvalidThreshold
	}
	return nil
}

// Polynomial holds the coefficients of a sharing polynomial, constant term first.
type Polynomial []curve.Scalar

// NewPolynomial samples a random polynomial of degree t-1 with the given constant term.
func NewPolynomial(secret curve.Scalar, t Threshold) (Polynomial, error) {
	if t < 1 {
		return nil, ErrInvalidThreshold
	}
	coeffs := make(Polynomial, t)
	coeffs[0] = secret
	for i := 1; i < int(t); i++ {
		c, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return coeffs, nil
}

// Evaluate computes the polynomial at x using Horner's rule.
func (p Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	var acc curve.Scalar
	for i := len(p) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p[i])
	}
	return acc
}

// Share evaluates the polynomial at each of the given nonzero points.
func (p Polynomial) Share(points []uint32) (map[uint32]curve.Scalar, error) {
	shares := make(map[uint32]curve.Scalar, len(points))
	for _, x := range points {
		if x == 0 {
			return nil, errors.New("cannot hand out the share at zero")
		}
		if _, ok := shares[x]; ok {
			return nil, errors.Errorf("share point %d appears twice", x)
		}
		shares[x] = p.Evaluate(curve.NewScalar(uint64(x)))
	}
	return shares, nil
}

// Powers returns 1, x, x^2, ..., x^(n-1).
func Powers(x uint32, n int) []curve.Scalar {
	res := make([]curve.Scalar, n)
	if n == 0 {
		return res
	}
	res[0] = curve.NewScalar(1)
	xs := curve.NewScalar(uint64(x))
	for i := 1; i < n; i++ {
		res[i] = res[i-1].Mul(xs)
	}
	return res
}

// LagrangeAtZero returns the coefficients l_i such that sum(l_i * f(x_i)) = f(0) for any
// polynomial f of degree below len(points).
func LagrangeAtZero(points []uint32) (map[uint32]curve.Scalar, error) {
	res := make(map[uint32]curve.Scalar, len(points))
	for _, xi := range points {
		num, den := curve.NewScalar(1), curve.NewScalar(1)
		for _, xj := range points {
			if xi == xj {
				continue
			}
			num = num.Mul(curve.NewScalar(uint64(xj)))
			den = den.Mul(curve.NewScalar(uint64(xj)).Sub(curve.NewScalar(uint64(xi))))
		}
		inv, err := den.Inverse()
		if err != nil {
			return nil, errors.Errorf("share point %d appears twice", xi)
		}
		res[xi] = num.Mul(inv)
	}
	return res, nil
}

// Reveal reconstructs the secret from at least threshold shares.
func Reveal(shares map[uint32]curve.Scalar) (curve.Scalar, error) {
	points := make([]uint32, 0, len(shares))
	for x := range shares {
		points = append(points, x)
	}
	coeffs, err := LagrangeAtZero(points)
	if err != nil {
		return curve.Scalar{}, err
	}
	var secret curve.Scalar
	for x, s := range shares {
		secret = secret.Add(coeffs[x].Mul(s))
	}
	return secret, nil
}

// RevealInExponent reconstructs s*G from the points s_i*G.
func RevealInExponent(shares map[uint32]curve.Point) (curve.Point, error) {
	points := make([]uint32, 0, len(shares))
	for x := range shares {
		points = append(points, x)
	}
	coeffs, err := LagrangeAtZero(points)
	if err != nil {
		return curve.Point{}, err
	}
	ps := make([]curve.Point, 0, len(shares))
	ss := make([]curve.Scalar, 0, len(shares))
	for _, x := range points {
		ps = append(ps, shares[x])
		ss = append(ss, coeffs[x])
	}
	return curve.MultiExp(ps, ss)
}
