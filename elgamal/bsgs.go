package elgamal

import (
	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
)

// ErrOutOfRange is returned when a discrete logarithm is not below m^2.
var ErrOutOfRange = errors.New("discrete logarithm outside of the table range")

// BabyStepGiantStep solves x*base = target for 0 <= x < m^2. Building the table costs m
// group operations; each lookup costs at most m more. A table is immutable once built
// and may be shared between goroutines.
type BabyStepGiantStep struct {
	m         uint64
	babySteps map[[curve.PointSize]byte]uint64
	giantStep curve.Point
}

// NewBabyStepGiantStep precomputes j*base for 0 <= j < m.
func NewBabyStepGiantStep(base curve.Point, m uint64) *BabyStepGiantStep {
	multiples := curve.Multiples(base, int(m))
	babySteps := make(map[[curve.PointSize]byte]uint64, m)
	for j, p := range multiples {
		key := p.Bytes()
		if _, ok := babySteps[key]; !ok {
			babySteps[key] = uint64(j)
		}
	}
	return &BabyStepGiantStep{
		m:         m,
		babySteps: babySteps,
		giantStep: base.Mul(curve.NewScalar(m)).Neg(),
	}
}

// Size returns the number of baby steps m.
func (b *BabyStepGiantStep) Size() uint64 {
	return b.m
}

// DiscreteLog returns x with x*base = target, searching target - i*m*base for i < m.
func (b *BabyStepGiantStep) DiscreteLog(target curve.Point) (uint64, error) {
	y := target
	for i := uint64(0); i < b.m; i++ {
		if j, ok := b.babySteps[y.Bytes()]; ok {
			return i*b.m + j, nil
		}
		y = y.Add(b.giantStep)
	}
	return 0, ErrOutOfRange
}
