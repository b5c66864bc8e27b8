package zkproof

import (
	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
)

type (
	LhsContribution struct {
		Base  string
		Power int64
	}

	RhsContribution struct {
		Base   string
		Secret string
		Power  int64
	}

	// RepresentationProofStructure states sum(Lhs.Power*Lhs.Base) = sum(Rhs.Power*Rhs.Secret*Rhs.Base).
	RepresentationProofStructure struct {
		Lhs []LhsContribution
		Rhs []RhsContribution
	}
)

func int64Scalar(x int64) curve.Scalar {
	if x < 0 {
		return curve.NewScalar(uint64(-x)).Neg()
	}
	return curve.NewScalar(uint64(x))
}

func (s *RepresentationProofStructure) lhs(bases BaseLookup) (curve.Point, error) {
	points := make([]curve.Point, len(s.Lhs))
	scalars := make([]curve.Scalar, len(s.Lhs))
	for i, curLhs := range s.Lhs {
		base := bases.Base(curLhs.Base)
		if base == nil {
			return curve.Point{}, errors.Errorf("unknown base %s", curLhs.Base)
		}
		points[i], scalars[i] = *base, int64Scalar(curLhs.Power)
	}
	return curve.MultiExp(points, scalars)
}

// rhs computes sum(Power*value(Secret)*Base) for the given per secret values.
func (s *RepresentationProofStructure) rhs(bases BaseLookup, value func(string) *curve.Scalar) (curve.Point, error) {
	points := make([]curve.Point, len(s.Rhs))
	scalars := make([]curve.Scalar, len(s.Rhs))
	for i, curRhs := range s.Rhs {
		base := bases.Base(curRhs.Base)
		if base == nil {
			return curve.Point{}, errors.Errorf("unknown base %s", curRhs.Base)
		}
		v := value(curRhs.Secret)
		if v == nil {
			return curve.Point{}, errors.Errorf("missing value for secret %s", curRhs.Secret)
		}
		points[i], scalars[i] = *base, int64Scalar(curRhs.Power).Mul(*v)
	}
	return curve.MultiExp(points, scalars)
}

func (s *RepresentationProofStructure) CommitmentsFromSecrets(list []curve.Point, bases BaseLookup, secretdata SecretLookup) ([]curve.Point, error) {
	commitment, err := s.rhs(bases, secretdata.Randomizer)
	if err != nil {
		return nil, err
	}
	return append(list, commitment), nil
}

// CommitmentsFromProof reconstructs the commitment as challenge*lhs + rhs(responses), which
// equals the prover's commitment when every response is randomizer - challenge*secret.
func (s *RepresentationProofStructure) CommitmentsFromProof(list []curve.Point, challenge curve.Scalar, bases BaseLookup, proofdata ProofLookup) ([]curve.Point, error) {
	lhs, err := s.lhs(bases)
	if err != nil {
		return nil, err
	}
	rhs, err := s.rhs(bases, proofdata.ProofResult)
	if err != nil {
		return nil, err
	}
	return append(list, lhs.Mul(challenge).Add(rhs)), nil
}

func (s *RepresentationProofStructure) IsTrue(bases BaseLookup, secretdata SecretLookup) bool {
	lhs, err := s.lhs(bases)
	if err != nil {
		return false
	}
	rhs, err := s.rhs(bases, secretdata.Secret)
	if err != nil {
		return false
	}
	return lhs.Equal(rhs)
}

func (s *RepresentationProofStructure) NumCommitments() int {
	return 1
}
