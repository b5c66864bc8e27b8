package secretsharing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet/curve"
)

func TestDefaultThreshold(t *testing.T) {
	for n := 1; n <= 300; n++ {
		th := DefaultThreshold(n)
		if n <= 256 {
			expected := n - 1
			if expected < 1 {
				expected = 1
			}
			assert.Equal(t, Threshold(expected), th, "n = %d", n)
		}
		assert.NoError(t, th.Validate(n), "n = %d", n)
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Threshold(0).Validate(3), ErrInvalidThreshold)
	assert.ErrorIs(t, Threshold(4).Validate(3), ErrInvalidThreshold)
	assert.NoError(t, Threshold(1).Validate(3))
	assert.NoError(t, Threshold(3).Validate(3))
}

func TestShareAndReveal(t *testing.T) {
	secret, err := curve.RandomScalar()
	require.NoError(t, err)

	poly, err := NewPolynomial(secret, 3)
	require.NoError(t, err)
	require.Len(t, poly, 3)

	shares, err := poly.Share([]uint32{1, 2, 5, 9})
	require.NoError(t, err)

	subset := map[uint32]curve.Scalar{2: shares[2], 5: shares[5], 9: shares[9]}
	revealed, err := Reveal(subset)
	require.NoError(t, err)
	assert.True(t, secret.Equal(revealed))

	tooFew := map[uint32]curve.Scalar{1: shares[1], 9: shares[9]}
	wrong, err := Reveal(tooFew)
	require.NoError(t, err)
	assert.False(t, secret.Equal(wrong))
}

func TestRevealInExponent(t *testing.T) {
	secret := curve.NewScalar(42)
	poly, err := NewPolynomial(secret, 2)
	require.NoError(t, err)
	shares, err := poly.Share([]uint32{3, 7})
	require.NoError(t, err)

	g := curve.Generator()
	pointShares := map[uint32]curve.Point{3: g.Mul(shares[3]), 7: g.Mul(shares[7])}
	revealed, err := RevealInExponent(pointShares)
	require.NoError(t, err)
	assert.True(t, revealed.Equal(g.Mul(secret)))
}

func TestShareRejectsBadPoints(t *testing.T) {
	poly, err := NewPolynomial(curve.NewScalar(1), 2)
	require.NoError(t, err)
	_, err = poly.Share([]uint32{0, 1})
	assert.Error(t, err)
	_, err = poly.Share([]uint32{1, 1})
	assert.Error(t, err)
}

func TestPowers(t *testing.T) {
	p := Powers(3, 4)
	require.Len(t, p, 4)
	assert.True(t, p[3].Equal(curve.NewScalar(27)))

	poly := Polynomial{curve.NewScalar(1), curve.NewScalar(2), curve.NewScalar(3)}
	assert.True(t, poly.Evaluate(curve.NewScalar(2)).Equal(curve.NewScalar(1+4+12)))
}
