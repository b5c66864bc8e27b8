package zkproof

import (
	"sort"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/internal/common"
)

var (
	ErrFalseStatement = errors.New("secrets do not satisfy the proof structure")
	ErrInvalidProof   = errors.New("proof does not verify")
)

// Proof is a non-interactive proof of knowledge of the secrets of a list of representation
// proof structures that share secrets by name.
type Proof struct {
	Challenge curve.Scalar            `json:"challenge"`
	Responses map[string]curve.Scalar `json:"responses"`
}

func (p *Proof) ProofResult(name string) *curve.Scalar {
	s, ok := p.Responses[name]
	if !ok {
		return nil
	}
	return &s
}

// challenge hashes the public bases, the commitments and the context.
func challenge(label string, bases BaseLookup, commitments []curve.Point, context [][]byte) (curve.Scalar, error) {
	t := common.NewTranscript(label)
	for _, name := range bases.Names() {
		t.AppendBytes([]byte(name))
		t.AppendPoints(*bases.Base(name))
	}
	t.AppendPoints(commitments...)
	for _, c := range context {
		t.AppendBytes(c)
	}
	return t.Challenge()
}

func numCommitments(structures []RepresentationProofStructure) int {
	n := 0
	for i := range structures {
		n += structures[i].NumCommitments()
	}
	return n
}

func secretNames(structures []RepresentationProofStructure) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, s := range structures {
		for _, r := range s.Rhs {
			if _, ok := seen[r.Secret]; !ok {
				seen[r.Secret] = struct{}{}
				names = append(names, r.Secret)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Prove proves knowledge of the secrets in all structures at once. The label and context
// are bound into the challenge and must be presented again to Verify.
func Prove(label string, structures []RepresentationProofStructure, bases BaseLookup, secrets *Secrets, context ...[]byte) (*Proof, error) {
	for i := range structures {
		if !structures[i].IsTrue(bases, secrets) {
			return nil, ErrFalseStatement
		}
	}
	if err := secrets.NewRandomizers(); err != nil {
		return nil, err
	}

	commitments := make([]curve.Point, 0, numCommitments(structures))
	var err error
	for i := range structures {
		if commitments, err = structures[i].CommitmentsFromSecrets(commitments, bases, secrets); err != nil {
			return nil, err
		}
	}

	c, err := challenge(label, bases, commitments, context)
	if err != nil {
		return nil, err
	}

	proof := &Proof{Challenge: c, Responses: map[string]curve.Scalar{}}
	for _, name := range secretNames(structures) {
		x, r := secrets.Secret(name), secrets.Randomizer(name)
		if x == nil || r == nil {
			return nil, errors.Errorf("missing secret %s", name)
		}
		proof.Responses[name] = r.Sub(c.Mul(*x))
	}
	return proof, nil
}

// Verify checks a proof produced by Prove with the same label, structures, bases and context.
func Verify(label string, structures []RepresentationProofStructure, bases BaseLookup, proof *Proof, context ...[]byte) error {
	if proof == nil {
		return ErrInvalidProof
	}
	if len(proof.Responses) != len(secretNames(structures)) {
		return ErrInvalidProof
	}
	commitments := make([]curve.Point, 0, numCommitments(structures))
	var err error
	for i := range structures {
		if commitments, err = structures[i].CommitmentsFromProof(commitments, proof.Challenge, bases, proof); err != nil {
			return ErrInvalidProof
		}
	}
	c, err := challenge(label, bases, commitments, context)
	if err != nil {
		return err
	}
	if !c.Equal(proof.Challenge) {
		return ErrInvalidProof
	}
	return nil
}
