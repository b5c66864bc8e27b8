package zkproof

import (
	"sort"

	"github.com/ccdid/idwallet/curve"
)

type (
	BaseLookup interface {
		Base(name string) *curve.Point
		Names() []string
	}

	SecretLookup interface {
		Secret(name string) *curve.Scalar
		Randomizer(name string) *curve.Scalar
	}

	ProofLookup interface {
		ProofResult(name string) *curve.Scalar
	}

	// Bases is a BaseLookup over a fixed set of named points.
	Bases map[string]curve.Point

	// Secrets is a SecretLookup holding the witnesses of a proof and, once NewRandomizers
	// has been called, the randomizers that blind them.
	Secrets struct {
		secrets     map[string]curve.Scalar
		randomizers map[string]curve.Scalar
	}

	// BaseMerge resolves names against several BaseLookups. A name held by more than one
	// part resolves to the first part holding it.
	BaseMerge struct {
		names []string
		owner map[string]BaseLookup
	}
)

func (b Bases) Base(name string) *curve.Point {
	p, ok := b[name]
	if !ok {
		return nil
	}
	return &p
}

// Names returns the names of the bases in sorted order.
func (b Bases) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewSecrets(secrets map[string]curve.Scalar) *Secrets {
	return &Secrets{secrets: secrets, randomizers: map[string]curve.Scalar{}}
}

// NewRandomizers samples a fresh randomizer for every secret.
func (s *Secrets) NewRandomizers() error {
	for name := range s.secrets {
		r, err := curve.RandomScalar()
		if err != nil {
			return err
		}
		s.randomizers[name] = r
	}
	return nil
}

func (s *Secrets) Secret(name string) *curve.Scalar {
	x, ok := s.secrets[name]
	if !ok {
		return nil
	}
	return &x
}

func (s *Secrets) Randomizer(name string) *curve.Scalar {
	r, ok := s.randomizers[name]
	if !ok {
		return nil
	}
	return &r
}

// NewBaseMerge indexes the names of parts. Names are listed part by part, in the order each
// part lists them.
func NewBaseMerge(parts ...BaseLookup) *BaseMerge {
	m := &BaseMerge{owner: map[string]BaseLookup{}}
	for _, part := range parts {
		for _, name := range part.Names() {
			if _, dup := m.owner[name]; dup {
				continue
			}
			m.owner[name] = part
			m.names = append(m.names, name)
		}
	}
	return m
}

func (m *BaseMerge) Names() []string {
	return m.names
}

func (m *BaseMerge) Base(name string) *curve.Point {
	part, ok := m.owner[name]
	if !ok {
		return nil
	}
	return part.Base(name)
}
